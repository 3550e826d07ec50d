package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

// Field weights for relevance scoring. A partial match scores half.
const (
	TitleWeight       = 3.0
	DescriptionWeight = 2.0
	IngredientWeight  = 2.5
	InstructionWeight = 1.0
	TitleQueryBoost   = 1.5
)

// SortOrder selects the result ordering
type SortOrder string

const (
	SortRelevance   SortOrder = "relevance"
	SortTitleAsc    SortOrder = "title_asc"
	SortTitleDesc   SortOrder = "title_desc"
	SortPrepAsc     SortOrder = "prep_asc"
	SortPrepDesc    SortOrder = "prep_desc"
	SortCookAsc     SortOrder = "cook_asc"
	SortCookDesc    SortOrder = "cook_desc"
	SortTotalAsc    SortOrder = "total_asc"
	SortTotalDesc   SortOrder = "total_desc"
	SortCreatedAsc  SortOrder = "created_asc"
	SortCreatedDesc SortOrder = "created_desc"
	SortRatingDesc  SortOrder = "rating_desc"
	SortRatingAsc   SortOrder = "rating_asc"
)

// ParseSortOrder maps a request value onto a known order, defaulting to relevance
func ParseSortOrder(s string) SortOrder {
	order := SortOrder(normalizeTerm(s))
	if _, ok := comparators[order]; ok {
		return order
	}
	return SortRelevance
}

// Result is one ranked recipe
type Result struct {
	Recipe       *recipe.Recipe `json:"recipe"`
	Score        float64        `json:"score"`
	MatchedTerms []string       `json:"matched_terms"`
}

type comparator func(a, b *Result) bool

var comparators = map[SortOrder]comparator{
	SortRelevance:   func(a, b *Result) bool { return a.Score > b.Score },
	SortTitleAsc:    func(a, b *Result) bool { return lowerTitle(a) < lowerTitle(b) },
	SortTitleDesc:   func(a, b *Result) bool { return lowerTitle(a) > lowerTitle(b) },
	SortPrepAsc:     func(a, b *Result) bool { return a.Recipe.PrepMinutes < b.Recipe.PrepMinutes },
	SortPrepDesc:    func(a, b *Result) bool { return a.Recipe.PrepMinutes > b.Recipe.PrepMinutes },
	SortCookAsc:     func(a, b *Result) bool { return a.Recipe.CookMinutes < b.Recipe.CookMinutes },
	SortCookDesc:    func(a, b *Result) bool { return a.Recipe.CookMinutes > b.Recipe.CookMinutes },
	SortTotalAsc:    func(a, b *Result) bool { return a.Recipe.TotalMinutes() < b.Recipe.TotalMinutes() },
	SortTotalDesc:   func(a, b *Result) bool { return a.Recipe.TotalMinutes() > b.Recipe.TotalMinutes() },
	SortCreatedAsc:  func(a, b *Result) bool { return a.Recipe.CreatedAt.Before(b.Recipe.CreatedAt) },
	SortCreatedDesc: func(a, b *Result) bool { return a.Recipe.CreatedAt.After(b.Recipe.CreatedAt) },
	SortRatingDesc:  func(a, b *Result) bool { return a.Recipe.Rating > b.Recipe.Rating },
	SortRatingAsc:   func(a, b *Result) bool { return a.Recipe.Rating < b.Recipe.Rating },
}

func lowerTitle(r *Result) string {
	return strings.ToLower(r.Recipe.Title)
}

// Engine applies Filters to an in-memory recipe list
type Engine struct{}

// NewEngine creates a search engine
func NewEngine() *Engine {
	return &Engine{}
}

// Search returns the recipes passing every filter, scored against the
// query and sorted by order. Ties keep input order.
func (e *Engine) Search(recipes []*recipe.Recipe, f Filters, order SortOrder) []Result {
	terms := Tokenize(f.Query)
	results := make([]Result, 0, len(recipes))

	for _, r := range recipes {
		if r == nil || !e.Matches(r, f) {
			continue
		}
		result := Result{Recipe: r, MatchedTerms: []string{}}
		if len(terms) > 0 {
			result.Score, result.MatchedTerms = Score(r, f.Query, terms)
			if result.Score == 0 {
				continue
			}
		}
		results = append(results, result)
	}

	less, ok := comparators[order]
	if !ok {
		less = comparators[SortRelevance]
	}
	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})
	return results
}

// Matches reports whether a recipe passes every non-text filter
func (e *Engine) Matches(r *recipe.Recipe, f Filters) bool {
	if !f.Prep.Contains(r.PrepMinutes) || !f.Cook.Contains(r.CookMinutes) ||
		!f.Total.Contains(r.TotalMinutes()) || !f.Servings.Contains(r.Servings) {
		return false
	}
	if len(f.Cuisines) > 0 && !inSet(toSet(f.Cuisines), r.Cuisine) {
		return false
	}
	if len(f.Categories) > 0 && !inSet(toSet(f.Categories), r.MealCategory) {
		return false
	}
	if len(f.DietaryTags) > 0 && !SatisfiesDietary(r.DietaryTags, f.DietaryTags, f.InclusiveDietary) {
		return false
	}
	return matchesIngredients(toSet(r.IngredientNames()), f)
}

func matchesIngredients(names map[string]struct{}, f Filters) bool {
	for required := range toSet(f.RequiredIngredients) {
		if _, ok := names[required]; !ok {
			return false
		}
	}
	if optional := toSet(f.OptionalIngredients); len(optional) > 0 {
		found := false
		for name := range optional {
			if _, ok := names[name]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for excluded := range toSet(f.ExcludedIngredients) {
		if _, ok := names[excluded]; ok {
			return false
		}
	}
	return true
}

// Tokenize splits a query into distinct lowercase terms
func Tokenize(query string) []string {
	fields := words(query)
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Score computes the weighted relevance of a recipe for the query terms
// and the terms that matched anywhere
func Score(r *recipe.Recipe, query string, terms []string) (float64, []string) {
	title := words(r.Title)
	description := words(r.Description)
	instructions := words(r.Instructions)
	ingredients := make([][]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, words(ing.Name))
	}

	var total float64
	matched := []string{}
	for _, term := range terms {
		termScore := fieldScore(title, term, TitleWeight) +
			fieldScore(description, term, DescriptionWeight) +
			fieldScore(instructions, term, InstructionWeight)
		for _, ing := range ingredients {
			termScore += fieldScore(ing, term, IngredientWeight)
		}
		if termScore > 0 {
			matched = append(matched, term)
		}
		total += termScore
	}

	if q := normalizeTerm(query); q != "" && strings.Contains(strings.ToLower(r.Title), q) {
		total *= TitleQueryBoost
	}
	return total, matched
}

// fieldScore is weight for a whole-word match, half for a word containing
// the term, zero otherwise
func fieldScore(fieldWords []string, term string, weight float64) float64 {
	partial := false
	for _, w := range fieldWords {
		if w == term {
			return weight
		}
		if strings.Contains(w, term) {
			partial = true
		}
	}
	if partial {
		return weight / 2
	}
	return 0
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}
