// Package search filters and ranks recipes held in memory
package search

import "strings"

// IntRange is an optional inclusive [Min, Max] bound. A nil bound is open.
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Between returns the closed range [min, max]
func Between(min, max int) IntRange {
	return IntRange{Min: &min, Max: &max}
}

// AtMost returns the range (-inf, max]
func AtMost(max int) IntRange {
	return IntRange{Max: &max}
}

// AtLeast returns the range [min, +inf)
func AtLeast(min int) IntRange {
	return IntRange{Min: &min}
}

// Contains reports whether v lies within the range, bounds included
func (r IntRange) Contains(v int) bool {
	return (r.Min == nil || v >= *r.Min) && (r.Max == nil || v <= *r.Max)
}

// IsSet reports whether either bound is present
func (r IntRange) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// Filters is one search request. Empty sets and unset ranges do not filter.
type Filters struct {
	Query string

	Prep     IntRange
	Cook     IntRange
	Total    IntRange
	Servings IntRange

	Cuisines   []string
	Categories []string

	DietaryTags      []string
	InclusiveDietary bool

	RequiredIngredients []string
	OptionalIngredients []string
	ExcludedIngredients []string
}

// dietaryImplications lists, for each tag, the looser tags it satisfies
var dietaryImplications = map[string][]string{
	"vegan": {"vegetarian", "plant-based", "dairy-free"},
	"keto":  {"low-carb"},
}

// SatisfiesDietary reports whether the recipe tags meet every required tag.
// In inclusive mode a stricter tag also satisfies the looser tags it implies.
func SatisfiesDietary(recipeTags, required []string, inclusive bool) bool {
	have := make(map[string]struct{}, len(recipeTags))
	for _, t := range recipeTags {
		t = normalizeTerm(t)
		have[t] = struct{}{}
		if !inclusive {
			continue
		}
		for _, implied := range dietaryImplications[t] {
			have[implied] = struct{}{}
		}
	}
	for _, t := range required {
		if _, ok := have[normalizeTerm(t)]; !ok {
			return false
		}
	}
	return true
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = normalizeTerm(item); item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	_, ok := set[normalizeTerm(v)]
	return ok
}
