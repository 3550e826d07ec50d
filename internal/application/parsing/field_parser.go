package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

const (
	titleSearchLines = 5
	maxTitleLength   = 100
	// share of a total-only time assigned to prep; the rest goes to cook
	prepSharePercent = 25
)

var (
	ingredientsHeader  = regexp.MustCompile(`(?i)^ingredients?:?\s*$`)
	instructionsHeader = regexp.MustCompile(`(?i)^(instructions?|directions?|method|steps?):?\s*$`)

	titleStopwords = []string{"ingredient", "instruction", "step", "prep:", "cook:", "total:", "serves"}

	unitKeyword = regexp.MustCompile(`(?i)\b(cups?|tablespoons?|tbsp|teaspoons?|tsp|ounces?|oz|pounds?|lbs?|grams?|kg|ml|liters?|litres?|cloves?|pinch(?:es)?|cans?|sticks?)\b`)

	timeUnitExpr = `(minutes?|mins?|hours?|hrs?)`
	// optional "and 30 minutes" after an hour value
	extraMinutesExpr = `(?:\s*(?:and\s*)?(\d+)\s*(?:minutes?|mins?))?`

	servingsPattern   = regexp.MustCompile(`(?i)\b(?:serves?|servings?|yields?|makes?)\s*:?\s*(?:about|approximately|up to)?\s*(-?\d+)`)
	difficultyPattern = regexp.MustCompile(`(?i)\bdifficulty\s*:?\s*(easy|medium|moderate|intermediate|hard|difficult|advanced)\b`)
	hardKeywords      = regexp.MustCompile(`(?i)\b(difficult|advanced|challenging|expert|complex|time-consuming)\b`)
	easyKeywords      = regexp.MustCompile(`(?i)\b(easy|simple|quick|beginner|effortless|no-fuss)\b`)
	metaLinePattern   = regexp.MustCompile(`(?i)^(prep(?:aration)?|cook(?:ing)?|total|serves?|servings?|yields?|makes?|difficulty|cuisine|category)\b`)
)

type timeLabel struct {
	iso     *regexp.Regexp
	labeled *regexp.Regexp
	bare    *regexp.Regexp
}

func newTimeLabel(label string) timeLabel {
	return timeLabel{
		iso:     regexp.MustCompile(`(?i)` + label + `[a-z_ ]*["']?\s*[:=]?\s*["']?PT(?:(\d+)H)?(?:(\d+)M)?`),
		labeled: regexp.MustCompile(`(?i)` + label + `\s*time:?\s*(\d+)\s*` + timeUnitExpr + extraMinutesExpr),
		bare:    regexp.MustCompile(`(?i)` + label + `:?\s*(\d+)\s*` + timeUnitExpr + extraMinutesExpr),
	}
}

var (
	prepTime  = newTimeLabel(`prep(?:aration)?`)
	cookTime  = newTimeLabel(`cook(?:ing)?`)
	totalTime = newTimeLabel(`total`)
)

// dietaryKeywords maps each detectable tag to the phrases that signal it.
// Order is the order tags are reported in.
var dietaryKeywords = []struct {
	tag     string
	phrases []string
}{
	{"vegetarian", []string{"vegetarian"}},
	{"vegan", []string{"vegan"}},
	{"gluten-free", []string{"gluten-free", "gluten free"}},
	{"dairy-free", []string{"dairy-free", "dairy free"}},
	{"low-carb", []string{"low-carb", "low carb"}},
	{"high-protein", []string{"high-protein", "high protein"}},
	{"healthy", []string{"healthy"}},
}

type keywordRule struct {
	label   string
	pattern *regexp.Regexp
}

var cuisineKeywords = []keywordRule{
	{"italian", regexp.MustCompile(`(?i)\b(italian|pasta|risotto|lasagna|spaghetti|pesto|gnocchi)\b`)},
	{"mexican", regexp.MustCompile(`(?i)\b(mexican|tacos?|enchiladas?|quesadillas?|burritos?|guacamole)\b`)},
	{"chinese", regexp.MustCompile(`(?i)\b(chinese|stir[- ]fry|dumplings?|chow mein|kung pao)\b`)},
	{"japanese", regexp.MustCompile(`(?i)\b(japanese|sushi|ramen|teriyaki|miso|tempura)\b`)},
	{"indian", regexp.MustCompile(`(?i)\b(indian|masala|tikka|dal|biryani|naan)\b`)},
	{"thai", regexp.MustCompile(`(?i)\b(thai|pad thai|green curry|red curry|tom yum)\b`)},
	{"french", regexp.MustCompile(`(?i)\b(french|ratatouille|coq au vin|crepes?|quiche)\b`)},
	{"greek", regexp.MustCompile(`(?i)\b(greek|tzatziki|souvlaki|moussaka|feta)\b`)},
	{"mediterranean", regexp.MustCompile(`(?i)\b(mediterranean|hummus|falafel|tabbouleh)\b`)},
	{"korean", regexp.MustCompile(`(?i)\b(korean|kimchi|bibimbap|bulgogi|gochujang)\b`)},
	{"american", regexp.MustCompile(`(?i)\b(american|burgers?|barbecue|bbq|mac and cheese)\b`)},
}

var mealCategoryKeywords = []keywordRule{
	{"breakfast", regexp.MustCompile(`(?i)\b(breakfast|brunch|pancakes?|waffles?|omelett?es?|granola|porridge)\b`)},
	{"dessert", regexp.MustCompile(`(?i)\b(desserts?|cakes?|cookies?|brownies?|pies?|puddings?|ice cream|tarts?)\b`)},
	{"appetizer", regexp.MustCompile(`(?i)\b(appetizers?|starters?|dips?|bruschetta)\b`)},
	{"snack", regexp.MustCompile(`(?i)\b(snacks?|bars?|trail mix)\b`)},
	{"side", regexp.MustCompile(`(?i)\b(side dish|side|slaw)\b`)},
	{"lunch", regexp.MustCompile(`(?i)\b(lunch|sandwich(?:es)?|wraps?)\b`)},
	{"dinner", regexp.MustCompile(`(?i)\b(dinner|supper|main course|entree)\b`)},
}

var (
	meatKeywords  = regexp.MustCompile(`(?i)\b(beef|chicken|pork|lamb|turkey|bacon|ham|sausage|veal|duck|fish|salmon|tuna|shrimp|prawns?|anchov(?:y|ies)|gelatin)\b`)
	dairyKeywords = regexp.MustCompile(`(?i)\b(milk|butter|cheese|cream|yogh?urt|ghee|parmesan|mozzarella|cheddar|feta|ricotta)\b`)
)

// IngredientAnalysis reports what the ingredient list appears to contain.
// It is informational only and never turns into dietary tags.
type IngredientAnalysis struct {
	ContainsMeat  bool `json:"contains_meat"`
	ContainsDairy bool `json:"contains_dairy"`
}

// FieldParser extracts recipe fields from unstructured text
type FieldParser struct {
	ingredients *IngredientParser
}

// NewFieldParser creates a field parser that uses the given ingredient
// line parser for the ingredient block
func NewFieldParser(ingredients *IngredientParser) *FieldParser {
	if ingredients == nil {
		ingredients = NewIngredientParser()
	}
	return &FieldParser{ingredients: ingredients}
}

// Extract pulls every field it can find out of raw recipe text. Fields
// that cannot be found keep their defaults and add an issue.
func (p *FieldParser) Extract(raw string) recipe.ParsedRecipe {
	result := recipe.ParsedRecipe{
		Servings:    1,
		Difficulty:  recipe.DifficultyMedium,
		DietaryTags: []string{},
		Source:      recipe.SourceRule,
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	title, titleIdx := extractTitle(lines)
	result.Title = title
	if result.Title == "" {
		result.AddIssue("could not find a recipe title")
	}

	ingredientLines, instructionLines, description := p.splitBlocks(lines, titleIdx)
	result.Description = description
	result.Instructions = strings.Join(instructionLines, "\n")
	for _, line := range ingredientLines {
		parsed := p.ingredients.Parse(line)
		parsed.Order = len(result.Ingredients)
		result.Ingredients = append(result.Ingredients, parsed)
	}
	if len(result.Ingredients) == 0 {
		result.AddIssue("no ingredients found")
	}
	if result.Instructions == "" {
		result.AddIssue("no instructions found")
	}

	p.extractTimes(raw, &result)

	if m := servingsPattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.CheckServings(n)
			result.Servings = n
		}
	} else {
		result.AddIssue("servings not found, defaulting to 1")
	}

	result.Difficulty = detectDifficulty(raw)

	searchText := strings.Join([]string{result.Title, result.Description}, "\n")
	result.Cuisine = firstKeyword(searchText, cuisineKeywords)
	if result.Cuisine == "" {
		result.Cuisine = firstKeyword(raw, cuisineKeywords)
	}
	result.MealCategory = firstKeyword(searchText, mealCategoryKeywords)

	var ingredientText strings.Builder
	for _, ing := range result.Ingredients {
		ingredientText.WriteString(ing.OriginalText)
		ingredientText.WriteByte('\n')
	}
	result.DietaryTags = detectDietaryTags(result.Title, result.Description, result.Instructions, ingredientText.String())

	result.Normalize()
	return result
}

// AnalyzeIngredients checks the ingredient lines for meat and dairy
func AnalyzeIngredients(lines []recipe.ParsedIngredientLine) IngredientAnalysis {
	var analysis IngredientAnalysis
	for _, line := range lines {
		text := line.Name + " " + line.OriginalText
		if meatKeywords.MatchString(text) {
			analysis.ContainsMeat = true
		}
		if dairyKeywords.MatchString(text) {
			analysis.ContainsDairy = true
		}
	}
	return analysis
}

func extractTitle(lines []string) (string, int) {
	for i := 0; i < len(lines) && i < titleSearchLines; i++ {
		line := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[i]), "#"))
		if line == "" || len(line) >= maxTitleLength {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, titleStopwords) {
			continue
		}
		if strings.HasPrefix(lower, "title:") {
			line = strings.TrimSpace(line[len("title:"):])
		}
		return line, i
	}
	return "", -1
}

// splitBlocks walks the lines once, tracking which block it is in.
// Unlabelled lines that mention a unit are treated as ingredients. The title
// line is only skipped outside a block; inside one it still belongs there.
func (p *FieldParser) splitBlocks(lines []string, titleIdx int) (ingredients, instructions []string, description string) {
	const (
		outside = iota
		inIngredients
		inInstructions
	)
	state := outside

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || (state == outside && i == titleIdx) {
			continue
		}
		header := strings.TrimSpace(strings.TrimLeft(line, "#"))
		switch {
		case ingredientsHeader.MatchString(header):
			state = inIngredients
			continue
		case instructionsHeader.MatchString(header):
			state = inInstructions
			continue
		}

		switch state {
		case inIngredients:
			if item := StripListMarker(line); item != "" {
				ingredients = append(ingredients, item)
			}
		case inInstructions:
			instructions = append(instructions, line)
		default:
			if metaLinePattern.MatchString(line) {
				continue
			}
			if unitKeyword.MatchString(line) {
				if item := StripListMarker(line); item != "" {
					ingredients = append(ingredients, item)
				}
				continue
			}
			if description == "" && i > titleIdx {
				description = line
			}
		}
	}
	return ingredients, instructions, description
}

func (p *FieldParser) extractTimes(raw string, result *recipe.ParsedRecipe) {
	prep, prepFound := findMinutes(raw, prepTime)
	cook, cookFound := findMinutes(raw, cookTime)

	if !prepFound && !cookFound {
		if total, ok := findMinutes(raw, totalTime); ok {
			prep = total * prepSharePercent / 100
			cook = total - prep
			result.AddIssue("only total time found, split %d/%d minutes between prep and cook", prep, cook)
		}
	}
	result.PrepMinutes = prep
	result.CookMinutes = cook
}

// findMinutes tries the ISO duration form, then "<label> time: N unit",
// then "<label>: N unit"
func findMinutes(raw string, label timeLabel) (int, bool) {
	for _, m := range label.iso.FindAllStringSubmatch(raw, -1) {
		if m[1] != "" || m[2] != "" {
			return atoi(m[1])*60 + atoi(m[2]), true
		}
	}
	for _, re := range []*regexp.Regexp{label.labeled, label.bare} {
		if m := re.FindStringSubmatch(raw); m != nil {
			value := atoi(m[1])
			if strings.HasPrefix(strings.ToLower(m[2]), "h") {
				value = value*60 + atoi(m[3])
			}
			return value, true
		}
	}
	return 0, false
}

var (
	isoDurationPattern = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?$`)
	hoursPattern       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)(?:\s*(?:and\s*)?(\d+)\s*(?:minutes?|mins?|m)\b)?`)
	leadingInt         = regexp.MustCompile(`-?\d+`)
)

// durationMinutes reads a standalone duration such as "PT1H30M",
// "1 hour 30 minutes", "1.5 hours" or "45 min" as minutes
func durationMinutes(text string) int {
	text = strings.TrimSpace(text)
	if m := isoDurationPattern.FindStringSubmatch(text); m != nil && (m[1] != "" || m[2] != "") {
		return atoi(m[1])*60 + atoi(m[2])
	}
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		return int(hours*60) + atoi(m[2])
	}
	return atoi(leadingInt.FindString(text))
}

func detectDifficulty(raw string) recipe.Difficulty {
	if m := difficultyPattern.FindStringSubmatch(raw); m != nil {
		switch strings.ToLower(m[1]) {
		case "moderate", "intermediate":
			return recipe.DifficultyMedium
		default:
			return recipe.NormalizeDifficulty(m[1])
		}
	}
	switch {
	case hardKeywords.MatchString(raw):
		return recipe.DifficultyHard
	case easyKeywords.MatchString(raw):
		return recipe.DifficultyEasy
	default:
		return recipe.DifficultyMedium
	}
}

func detectDietaryTags(texts ...string) []string {
	haystack := strings.ToLower(strings.Join(texts, "\n"))
	tags := []string{}
	for _, entry := range dietaryKeywords {
		if containsAny(haystack, entry.phrases) {
			tags = append(tags, entry.tag)
		}
	}
	return tags
}

func firstKeyword(text string, rules []keywordRule) string {
	for _, rule := range rules {
		if rule.pattern.MatchString(text) {
			return rule.label
		}
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ParseRecipe runs the rule-based parser over raw text
func ParseRecipe(raw string) recipe.ParsedRecipe {
	return NewFieldParser(nil).Extract(raw)
}
