package recipe

import "fmt"

// MaxReasonableServings is the upper bound above which a parsed serving
// count is flagged for review.
const MaxReasonableServings = 50

// ParsedIngredientLine is one free-text ingredient line broken into parts
type ParsedIngredientLine struct {
	OriginalText string  `json:"original_text"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Name         string  `json:"name"`
	Preparation  string  `json:"preparation"`
	Optional     bool    `json:"optional"`
	Order        int     `json:"order"`
}

// ParsedRecipe is the best-effort result of parsing raw recipe text.
// Issues collects everything the parser could not resolve cleanly.
type ParsedRecipe struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Instructions string                 `json:"instructions"`
	PrepMinutes  int                    `json:"prep_minutes"`
	CookMinutes  int                    `json:"cook_minutes"`
	Servings     int                    `json:"servings"`
	Difficulty   Difficulty             `json:"difficulty"`
	Cuisine      string                 `json:"cuisine"`
	MealCategory string                 `json:"meal_category"`
	DietaryTags  []string               `json:"dietary_tags"`
	Ingredients  []ParsedIngredientLine `json:"ingredients"`
	Issues       []string               `json:"parsing_issues"`
	Source       Source                 `json:"source"`
}

// AddIssue appends a human-readable parsing issue
func (p *ParsedRecipe) AddIssue(format string, args ...interface{}) {
	p.Issues = append(p.Issues, fmt.Sprintf(format, args...))
}

// Normalize enforces the ParsedRecipe invariants in place: servings of at
// least one, non-negative times and a known difficulty. Range problems are
// reported by the parsers, not here.
func (p *ParsedRecipe) Normalize() {
	if p.Servings < 1 {
		p.Servings = 1
	}
	if p.PrepMinutes < 0 {
		p.PrepMinutes = 0
	}
	if p.CookMinutes < 0 {
		p.CookMinutes = 0
	}
	p.Difficulty = NormalizeDifficulty(string(p.Difficulty))
	if p.DietaryTags == nil {
		p.DietaryTags = []string{}
	}
	for i := range p.Ingredients {
		p.Ingredients[i].Order = i
	}
}

// CheckServings appends an issue when a parsed serving count falls outside
// [1, MaxReasonableServings]. The value itself is left alone.
func (p *ParsedRecipe) CheckServings(servings int) {
	if servings < 1 || servings > MaxReasonableServings {
		p.AddIssue("servings value %d is outside the expected range 1-%d", servings, MaxReasonableServings)
	}
}
