package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

const (
	aiMaxTokens   = 1500
	aiTemperature = 0.2

	// FallbackIssue is recorded when the AI reply could not be used
	FallbackIssue = "AI parsing unavailable, used rule-based parser"
)

const promptTemplate = `Extract the recipe below into a single JSON object with exactly these keys:
"title" (string), "description" (string), "ingredients" (array of strings, one ingredient line each),
"instructions" (string, steps separated by newlines), "prep_time" (minutes, integer),
"cook_time" (minutes, integer), "servings" (integer).
Reply with the JSON object only.

Recipe:
%s`

// Observer receives parse outcomes, typically for metrics
type Observer interface {
	ObserveParse(source, outcome string)
	ObserveAIFallback(reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(string, string) {}
func (nopObserver) ObserveAIFallback(string)    {}

// NopObserver returns an Observer that discards everything
func NopObserver() Observer { return nopObserver{} }

// AIParser asks a text completer to structure a recipe and falls back to
// the rule-based parser whenever the reply cannot be used
type AIParser struct {
	completer   outbound.TextCompleter
	fields      *FieldParser
	ingredients *IngredientParser
	observer    Observer
	logger      *zap.Logger
}

// NewAIParser creates an AI parser. completer may be nil, in which case
// every call falls back.
func NewAIParser(completer outbound.TextCompleter, observer Observer, logger *zap.Logger) *AIParser {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ingredients := NewIngredientParser()
	return &AIParser{
		completer:   completer,
		fields:      NewFieldParser(ingredients),
		ingredients: ingredients,
		observer:    observer,
		logger:      logger.Named("ai-parser"),
	}
}

// Parse returns the AI-structured recipe, or the rule-based result with
// FallbackIssue added
func (p *AIParser) Parse(ctx context.Context, raw string) recipe.ParsedRecipe {
	if p.completer == nil {
		return p.fallback(raw, "no completer configured")
	}

	reply, err := p.completer.Complete(ctx, fmt.Sprintf(promptTemplate, raw), aiMaxTokens, aiTemperature)
	if err != nil {
		p.logger.Warn("AI completion failed", zap.Error(err))
		return p.fallback(raw, "completion error")
	}
	if strings.TrimSpace(reply) == "" {
		return p.fallback(raw, "empty reply")
	}

	object := ExtractJSONObject(reply)
	if object == "" {
		p.logger.Warn("AI reply contained no JSON object", zap.Int("reply_length", len(reply)))
		return p.fallback(raw, "no json")
	}

	var payload aiRecipe
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		p.logger.Warn("AI reply did not decode", zap.Error(err))
		return p.fallback(raw, "decode error")
	}

	result := p.fromPayload(payload)
	p.observer.ObserveParse(string(recipe.SourceAI), "ok")
	return result
}

func (p *AIParser) fallback(raw, reason string) recipe.ParsedRecipe {
	p.observer.ObserveAIFallback(reason)
	result := p.fields.Extract(raw)
	result.AddIssue(FallbackIssue)
	p.observer.ObserveParse(string(recipe.SourceRule), "fallback")
	return result
}

func (p *AIParser) fromPayload(payload aiRecipe) recipe.ParsedRecipe {
	result := recipe.ParsedRecipe{
		Title:        strings.TrimSpace(payload.Title),
		Description:  strings.TrimSpace(payload.Description),
		Instructions: strings.TrimSpace(string(payload.Instructions)),
		PrepMinutes:  int(payload.PrepTime),
		CookMinutes:  int(payload.CookTime),
		Servings:     int(payload.Servings),
		Difficulty:   recipe.DifficultyMedium,
		Source:       recipe.SourceAI,
	}

	for _, line := range payload.Ingredients {
		if line = StripListMarker(line); line == "" {
			continue
		}
		result.Ingredients = append(result.Ingredients, p.ingredients.Parse(line))
	}

	if result.Servings != 0 {
		result.CheckServings(result.Servings)
	}
	if result.Title == "" {
		result.AddIssue("could not find a recipe title")
	}
	if len(result.Ingredients) == 0 {
		result.AddIssue("no ingredients found")
	}
	if result.Instructions == "" {
		result.AddIssue("no instructions found")
	}

	text := strings.Join([]string{result.Title, result.Description, result.Instructions}, "\n")
	result.Difficulty = detectDifficulty(text)
	result.Cuisine = firstKeyword(text, cuisineKeywords)
	result.MealCategory = firstKeyword(result.Title+"\n"+result.Description, mealCategoryKeywords)
	result.DietaryTags = detectDietaryTags(text, strings.Join(payload.Ingredients, "\n"))

	result.Normalize()
	return result
}

// ExtractJSONObject returns the first balanced {...} object in s, or ""
func ExtractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

type aiRecipe struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Ingredients  ingredientList  `json:"ingredients"`
	Instructions instructionText `json:"instructions"`
	PrepTime     minutes         `json:"prep_time"`
	CookTime     minutes         `json:"cook_time"`
	Servings     count           `json:"servings"`
}

// ingredientList accepts an array of strings or of {quantity, unit, name} objects
type ingredientList []string

func (l *ingredientList) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*l = lines
		return nil
	}
	var objects []struct {
		Quantity    json.RawMessage `json:"quantity"`
		Unit        string          `json:"unit"`
		Name        string          `json:"name"`
		Preparation string          `json:"preparation"`
	}
	if err := json.Unmarshal(data, &objects); err != nil {
		return err
	}
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		parts := []string{strings.Trim(string(o.Quantity), `"`), o.Unit, o.Name}
		line := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		if o.Preparation != "" {
			line += ", " + o.Preparation
		}
		out = append(out, line)
	}
	*l = out
	return nil
}

// instructionText accepts a string or an array of step strings
type instructionText string

func (t *instructionText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = instructionText(s)
		return nil
	}
	var steps []string
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	*t = instructionText(strings.Join(steps, "\n"))
	return nil
}

// minutes accepts 15, 15.0, "15", "15 minutes", "1 hour 30 minutes" or an
// ISO duration. Negative values clamp to 0.
type minutes int

func (m *minutes) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*m = minutes(clampZero(int(f)))
		return nil
	}
	*m = minutes(clampZero(durationMinutes(raw)))
	return nil
}

// count accepts 4, 4.0, "4" or "4 servings". Negative values clamp to 0.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*c = 0
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*c = count(clampZero(int(f)))
		return nil
	}
	*c = count(clampZero(atoi(leadingInt.FindString(raw))))
	return nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
