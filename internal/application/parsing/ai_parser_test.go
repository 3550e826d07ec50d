package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

type stubCompleter struct {
	reply  string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

type countingObserver struct {
	parses    map[string]int
	fallbacks int
}

func (o *countingObserver) ObserveParse(source, outcome string) {
	o.parses[source+"/"+outcome]++
}

func (o *countingObserver) ObserveAIFallback(string) {
	o.fallbacks++
}

type AIParserTestSuite struct {
	suite.Suite
	observer *countingObserver
}

func (suite *AIParserTestSuite) SetupTest() {
	suite.observer = &countingObserver{parses: map[string]int{}}
}

func (suite *AIParserTestSuite) TestParse() {
	suite.Run("ValidReply_ShouldUseAIResult", func() {
		// Arrange
		completer := &stubCompleter{reply: `Here you go:
{"title": "Garlic Noodles", "description": "Weeknight pasta",
 "ingredients": ["8 oz spaghetti", "6 cloves garlic, minced"],
 "instructions": ["Boil pasta.", "Fry garlic."],
 "prep_time": "10 minutes", "cook_time": 15, "servings": "2"}
Enjoy!`}
		parser := NewAIParser(completer, suite.observer, zap.NewNop())

		// Act
		parsed := parser.Parse(context.Background(), "raw garlic noodle text")

		// Assert
		assert.Equal(suite.T(), recipe.SourceAI, parsed.Source)
		assert.Equal(suite.T(), "Garlic Noodles", parsed.Title)
		assert.Equal(suite.T(), "Boil pasta.\nFry garlic.", parsed.Instructions)
		assert.Equal(suite.T(), 10, parsed.PrepMinutes)
		assert.Equal(suite.T(), 15, parsed.CookMinutes)
		assert.Equal(suite.T(), 2, parsed.Servings)
		assert.Equal(suite.T(), "italian", parsed.Cuisine)
		require.Len(suite.T(), parsed.Ingredients, 2)
		assert.Equal(suite.T(), "clove", parsed.Ingredients[1].Unit)
		assert.Equal(suite.T(), "garlic", parsed.Ingredients[1].Name)
		assert.Equal(suite.T(), "minced", parsed.Ingredients[1].Preparation)
		assert.Contains(suite.T(), completer.prompt, "raw garlic noodle text")
		assert.Equal(suite.T(), 1, suite.observer.parses["ai/ok"])
		assert.Zero(suite.T(), suite.observer.fallbacks)
	})

	suite.Run("CompleterError_ShouldFallBack", func() {
		parser := NewAIParser(&stubCompleter{err: errors.New("timeout")}, suite.observer, zap.NewNop())

		parsed := parser.Parse(context.Background(), pancakeText)

		assert.Equal(suite.T(), recipe.SourceRule, parsed.Source)
		assert.Equal(suite.T(), "Classic Pancakes", parsed.Title)
		assert.Contains(suite.T(), parsed.Issues, FallbackIssue)
		assert.Equal(suite.T(), 1, suite.observer.fallbacks)
	})

	suite.Run("NoJSONInReply_ShouldFallBack", func() {
		parser := NewAIParser(&stubCompleter{reply: "I cannot help with that."}, suite.observer, zap.NewNop())

		parsed := parser.Parse(context.Background(), pancakeText)

		assert.Equal(suite.T(), recipe.SourceRule, parsed.Source)
		assert.Contains(suite.T(), parsed.Issues, FallbackIssue)
	})

	suite.Run("MalformedJSON_ShouldFallBack", func() {
		parser := NewAIParser(&stubCompleter{reply: `{"title": 12, "servings": }`}, suite.observer, zap.NewNop())

		parsed := parser.Parse(context.Background(), pancakeText)

		assert.Contains(suite.T(), parsed.Issues, FallbackIssue)
	})

	suite.Run("NilCompleter_ShouldFallBack", func() {
		parser := NewAIParser(nil, nil, nil)

		parsed := parser.Parse(context.Background(), pancakeText)

		assert.Equal(suite.T(), recipe.SourceRule, parsed.Source)
		assert.Contains(suite.T(), parsed.Issues, FallbackIssue)
	})

	suite.Run("NegativeValues_ShouldBeNormalized", func() {
		completer := &stubCompleter{reply: `{"title": "Ice", "ingredients": ["water"], "instructions": "Freeze.", "prep_time": -5, "servings": 0}`}
		parser := NewAIParser(completer, suite.observer, zap.NewNop())

		parsed := parser.Parse(context.Background(), "ice")

		assert.Equal(suite.T(), 0, parsed.PrepMinutes)
		assert.Equal(suite.T(), 1, parsed.Servings)
	})
}

func TestAIParserTestSuite(t *testing.T) {
	suite.Run(t, new(AIParserTestSuite))
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":"}"}`, ExtractJSONObject(`noise {"a":"}"} trailing {"b":1}`))
	assert.Equal(t, `{"a":{"b":[1,2]}}`, ExtractJSONObject("```json\n{\"a\":{\"b\":[1,2]}}\n```"))
	assert.Equal(t, "", ExtractJSONObject("no object here"))
	assert.Equal(t, "", ExtractJSONObject(`{"unterminated": true`))
}

func TestMinutes_ShouldReadDurations(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`15`, 15},
		{`"20"`, 20},
		{`"45 min"`, 45},
		{`"1 hour 30 minutes"`, 90},
		{`"1 hour and 15 minutes"`, 75},
		{`"2 hours"`, 120},
		{`"1.5 hours"`, 90},
		{`"1h30m"`, 90},
		{`"PT1H30M"`, 90},
		{`"PT45M"`, 45},
		{`-5`, 0},
		{`null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var m minutes
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, int(m))
		})
	}
}

func TestCount_ShouldReadLeadingNumber(t *testing.T) {
	var c count
	require.NoError(t, json.Unmarshal([]byte(`"4 servings"`), &c))
	assert.Equal(t, 4, int(c))
}
