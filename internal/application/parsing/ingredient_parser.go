// Package parsing turns free recipe text into typed records. Nothing in
// this package returns an error for bad input: unparseable pieces fall back
// to defaults and are reported as issues.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

const numberExpr = `\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?|\.\d+`

var (
	rangeTailExpr = `(?:\s*(?:-|–|to)\s*(?:` + numberExpr + `))?`

	// leading quantity with an optional range tail
	quantityPattern = regexp.MustCompile(`^(` + numberExpr + `)` + rangeTailExpr)
	// parenthetical package size right after the quantity, as in "2 (8 oz) packages"
	sizeNotePattern = regexp.MustCompile(`^\(([^)]*)\)\s*`)
	// unit candidate, remainder
	unitPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z.]*)\s+(.+)$`)

	optionalPattern      = regexp.MustCompile(`(?i)\(\s*optional\s*\)|,?\s*\boptional\b`)
	toTastePattern       = regexp.MustCompile(`(?i),?\s*\bto taste\b`)
	parentheticalPattern = regexp.MustCompile(`\(([^)]*)\)`)
	bulletPattern        = regexp.MustCompile(`^\s*(?:[-*•▪◦·]+\s*|\d+[.)]\s+|\[\s?[xX ]?\]\s*)`)
)

// IngredientParser parses single ingredient lines
type IngredientParser struct{}

// NewIngredientParser creates an ingredient line parser
func NewIngredientParser() *IngredientParser {
	return &IngredientParser{}
}

// Parse breaks one ingredient line into quantity, unit, name and
// preparation. Quantity defaults to 1 and unit to "" when they cannot be
// read from the line.
func (p *IngredientParser) Parse(line string) recipe.ParsedIngredientLine {
	original := strings.TrimSpace(line)
	result := recipe.ParsedIngredientLine{
		OriginalText: original,
		Quantity:     1.0,
	}

	text := expandFractions(original)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "optional") || strings.Contains(lower, "to taste") {
		result.Optional = true
	}

	remainder := text
	if quantity, rest, ok := leadingQuantity(text); ok {
		result.Quantity = ParseQuantity(quantity)
		remainder = rest

		sizeNote := ""
		if m := sizeNotePattern.FindStringSubmatch(rest); m != nil {
			sizeNote = strings.TrimSpace(m[1])
			rest = rest[len(m[0]):]
			remainder = rest
		}
		if m := unitPattern.FindStringSubmatch(rest); m != nil {
			if unit, ok := normalizeUnit(m[1]); ok {
				result.Unit = unit
				remainder = m[2]
			}
		}
		if sizeNote != "" {
			remainder += " (" + sizeNote + ")"
		}
	}

	result.Name, result.Preparation = splitNamePreparation(remainder)
	if result.Name == "" {
		result.Name = strings.ToLower(strings.Trim(remainder, " ,;"))
	}
	return result
}

// leadingQuantity splits a leading quantity or range off the line. The
// quantity must be followed by whitespace or a letter ("200g"), and something
// must remain after it.
func leadingQuantity(text string) (string, string, bool) {
	loc := quantityPattern.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}
	rest := text[loc[1]:]
	next, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsSpace(next) && !unicode.IsLetter(next) && next != '(' {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", false
	}
	return text[loc[0]:loc[1]], rest, true
}

// ParseLines parses a block of ingredient lines, skipping blanks and list
// markers. Order follows the input.
func (p *IngredientParser) ParseLines(text string) []recipe.ParsedIngredientLine {
	var lines []recipe.ParsedIngredientLine
	for _, raw := range strings.Split(text, "\n") {
		raw = StripListMarker(raw)
		if raw == "" {
			continue
		}
		parsed := p.Parse(raw)
		parsed.Order = len(lines)
		lines = append(lines, parsed)
	}
	return lines
}

// StripListMarker removes a leading bullet, checkbox or "1." marker
func StripListMarker(line string) string {
	return strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
}

// splitNamePreparation separates the ingredient name from preparation
// notes: parenthetical notes, a trailing comma clause, a trailing
// preparation word and "to taste".
func splitNamePreparation(text string) (string, string) {
	var notes []string

	text = optionalPattern.ReplaceAllString(text, "")
	tasteNote := false
	if toTastePattern.MatchString(text) {
		tasteNote = true
		text = toTastePattern.ReplaceAllString(text, "")
	}

	for _, m := range parentheticalPattern.FindAllStringSubmatch(text, -1) {
		if note := strings.TrimSpace(m[1]); note != "" {
			notes = append(notes, note)
		}
	}
	text = parentheticalPattern.ReplaceAllString(text, " ")

	name := text
	if head, tail, ok := strings.Cut(text, ","); ok {
		name = head
		if clause := strings.Trim(tail, " ,;"); clause != "" {
			notes = append(notes, clause)
		}
	}

	words := strings.Fields(name)
	if n := len(words); n > 1 {
		last := strings.ToLower(words[n-1])
		if _, ok := preparationWords[last]; ok {
			cut := n - 1
			if cut > 1 {
				if _, adv := preparationAdverbs[strings.ToLower(words[cut-1])]; adv {
					cut--
				}
			}
			notes = append([]string{strings.ToLower(strings.Join(words[cut:], " "))}, notes...)
			words = words[:cut]
		}
	}

	if tasteNote {
		notes = append(notes, "to taste")
	}

	name = strings.ToLower(strings.Trim(strings.Join(words, " "), " ,;"))
	return name, strings.Join(notes, ", ")
}
