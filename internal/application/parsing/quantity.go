package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// vulgarFractions maps single-rune fractions to their ascii form
var vulgarFractions = map[rune]string{
	'½': "1/2",
	'⅓': "1/3",
	'⅔': "2/3",
	'¼': "1/4",
	'¾': "3/4",
	'⅕': "1/5",
	'⅖': "2/5",
	'⅗': "3/5",
	'⅘': "4/5",
	'⅙': "1/6",
	'⅚': "5/6",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
}

var rangeSeparator = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b)\s*`)

// ParseQuantity converts a quantity token to a number. It understands
// integers, decimals, a/b fractions, mixed numbers like "2 1/2" and
// vulgar fraction runes. For a range ("1-2", "2 to 3") only the first bound
// is used. Anything malformed, including a zero denominator, yields 0.
func ParseQuantity(token string) float64 {
	s := strings.TrimSpace(expandFractions(token))
	if s == "" {
		return 0
	}

	if loc := rangeSeparator.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = strings.TrimSpace(s[:loc[0]])
	}

	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		return parseSimple(parts[0])
	case 2:
		if strings.Contains(parts[0], "/") || !strings.Contains(parts[1], "/") {
			return 0
		}
		whole, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		frac := parseSimple(parts[1])
		if frac == 0 {
			return 0
		}
		return whole + frac
	default:
		return 0
	}
}

func parseSimple(tok string) float64 {
	if num, den, ok := strings.Cut(tok, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0
		}
		return n / d
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return v
}

// expandFractions rewrites vulgar fractions and the fraction slash into
// ascii, so "1½" becomes "1 1/2".
func expandFractions(s string) string {
	if !strings.ContainsFunc(s, isFractionRune) {
		return s
	}
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if frac, ok := vulgarFractions[r]; ok {
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
		} else if r == '⁄' {
			b.WriteByte('/')
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func isFractionRune(r rune) bool {
	if r == '⁄' {
		return true
	}
	_, ok := vulgarFractions[r]
	return ok
}
