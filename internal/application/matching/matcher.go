// Package matching links free-text ingredient names to catalog entries
package matching

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
)

const (
	// ExactConfidence is the score of two names that normalize equal
	ExactConfidence = 1.0
	// SubstringConfidence is the score when one normalized name contains the other
	SubstringConfidence = 0.85
)

// descriptors are dropped before comparing names
var descriptors = map[string]struct{}{
	"fresh": {}, "dried": {}, "ground": {}, "whole": {}, "chopped": {}, "diced": {}, "minced": {},
}

// MatchCandidate is a scored catalog entry
type MatchCandidate struct {
	Entry      ingredient.Entry `json:"entry"`
	Confidence float64          `json:"confidence"`
}

// Normalize folds accents, lowercases, drops descriptor words and collapses
// whitespace
func Normalize(name string) string {
	folded := foldAccents(strings.ToLower(name))
	words := strings.Fields(folded)
	kept := words[:0]
	for _, w := range words {
		if _, skip := descriptors[w]; skip {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func foldAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// Similarity scores two names in [0, 1]: 1.0 when they normalize equal,
// SubstringConfidence when one contains the other, otherwise the Jaccard
// index of their word sets
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return ExactConfidence
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return SubstringConfidence
	}
	return jaccard(strings.Fields(na), strings.Fields(nb))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a)+len(b))
	for _, w := range a {
		set[w] = true
	}
	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if seen[w] {
			continue
		}
		seen[w] = true
		if set[w] {
			intersection++
		} else {
			set[w] = false
		}
	}
	return float64(intersection) / float64(len(set))
}

// Matcher ranks catalog entries against a free-text name
type Matcher struct{}

// NewMatcher creates a matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// SuggestMatches returns at most topN candidates scoring at least
// threshold, best first. Ties keep catalog order, except that an entry
// whose stored name equals the query exactly ranks ahead of other
// exact-normalized matches.
func (m *Matcher) SuggestMatches(name string, catalog []ingredient.Entry, topN int, threshold float64) []MatchCandidate {
	if topN <= 0 {
		return []MatchCandidate{}
	}

	query := ingredient.NormalizeName(name)
	var candidates []MatchCandidate
	for _, entry := range catalog {
		score := Similarity(name, entry.Name)
		if score < threshold {
			continue
		}
		candidates = append(candidates, MatchCandidate{Entry: entry, Confidence: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.Confidence != cj.Confidence {
			return ci.Confidence > cj.Confidence
		}
		return ci.Entry.Name == query && cj.Entry.Name != query
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	if candidates == nil {
		return []MatchCandidate{}
	}
	return candidates
}
