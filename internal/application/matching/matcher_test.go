package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

func catalogOf(names ...string) []ingredient.Entry {
	entries := make([]ingredient.Entry, len(names))
	for i, n := range names {
		entries[i] = ingredient.Entry{ID: uint(i + 1), Name: n}
	}
	return entries
}

type MatcherTestSuite struct {
	suite.Suite
	matcher *Matcher
}

func (suite *MatcherTestSuite) SetupTest() {
	suite.matcher = NewMatcher()
}

func (suite *MatcherTestSuite) TestNormalize() {
	assert.Equal(suite.T(), "basil", Normalize("  Fresh   BASIL "))
	assert.Equal(suite.T(), "jalapeno", Normalize("Jalapeño"))
	assert.Equal(suite.T(), "black pepper", Normalize("ground black pepper"))
	assert.Equal(suite.T(), "", Normalize("fresh chopped"))
}

func (suite *MatcherTestSuite) TestSimilarity() {
	suite.Run("ExactAfterNormalization_ShouldScoreOne", func() {
		assert.Equal(suite.T(), 1.0, Similarity("Fresh Basil", "basil"))
	})

	suite.Run("Substring_ShouldScoreConstant", func() {
		assert.Equal(suite.T(), SubstringConfidence, Similarity("tomato", "cherry tomato"))
	})

	suite.Run("WordOverlap_ShouldScoreJaccard", func() {
		// {red, bell, pepper} vs {green, bell, pepper}: 2 shared of 4
		assert.InDelta(suite.T(), 0.5, Similarity("red bell pepper", "green bell pepper"), 1e-9)
	})

	suite.Run("EmptyName_ShouldScoreZero", func() {
		assert.Equal(suite.T(), 0.0, Similarity("", "salt"))
		assert.Equal(suite.T(), 0.0, Similarity("chopped", "salt"))
	})
}

func (suite *MatcherTestSuite) TestSuggestMatches() {
	catalog := catalogOf("cherry tomato", "green bell pepper", "tomato", "sugar", "tomato paste")

	suite.Run("ExactMatch_ShouldRankFirst", func() {
		// Act
		matches := suite.matcher.SuggestMatches("Tomato", catalog, 3, 0.3)

		// Assert
		require.NotEmpty(suite.T(), matches)
		assert.Equal(suite.T(), "tomato", matches[0].Entry.Name)
		assert.Equal(suite.T(), 1.0, matches[0].Confidence)
	})

	suite.Run("Results_ShouldBeCappedAndNonIncreasing", func() {
		matches := suite.matcher.SuggestMatches("tomato", catalog, 2, 0.0)

		require.Len(suite.T(), matches, 2)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(suite.T(), matches[i-1].Confidence, matches[i].Confidence)
		}
	})

	suite.Run("Ties_ShouldKeepCatalogOrder", func() {
		matches := suite.matcher.SuggestMatches("tomato", catalog, 5, 0.5)

		require.Len(suite.T(), matches, 3)
		assert.Equal(suite.T(), "cherry tomato", matches[1].Entry.Name)
		assert.Equal(suite.T(), "tomato paste", matches[2].Entry.Name)
	})

	suite.Run("Threshold_ShouldFilter", func() {
		matches := suite.matcher.SuggestMatches("red bell pepper", catalog, 5, 0.6)
		assert.Empty(suite.T(), matches)
	})

	suite.Run("ZeroTopN_ShouldReturnNone", func() {
		assert.Empty(suite.T(), suite.matcher.SuggestMatches("tomato", catalog, 0, 0.1))
	})

	suite.Run("ExactStoredNameBeatsNormalizedTwin", func() {
		twins := catalogOf("fresh basil", "basil")
		matches := suite.matcher.SuggestMatches("basil", twins, 2, 0.3)

		require.Len(suite.T(), matches, 2)
		assert.Equal(suite.T(), "basil", matches[0].Entry.Name)
	})
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

type fakeProvider struct {
	entries []ingredient.Entry
	err     error
	calls   int
}

func (p *fakeProvider) List(context.Context) ([]ingredient.Entry, error) {
	p.calls++
	return p.entries, p.err
}

type mapCache struct {
	data map[string][]byte
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	return v, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type CatalogCacheTestSuite struct {
	suite.Suite
	provider *fakeProvider
	shared   *mapCache
	cache    *CatalogCache
	clock    time.Time
	ctx      context.Context
}

func (suite *CatalogCacheTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.provider = &fakeProvider{entries: catalogOf("salt", "pepper")}
	suite.shared = &mapCache{data: map[string][]byte{}}
	suite.clock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.cache = NewCatalogCache(suite.provider, suite.shared, CacheConfig{TTL: time.Minute}, zap.NewNop())
	suite.cache.now = func() time.Time { return suite.clock }
}

func (suite *CatalogCacheTestSuite) TestEntries_ShouldLoadOnceWithinTTL() {
	// Act
	first, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)
	second, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)

	// Assert
	assert.Equal(suite.T(), first, second)
	assert.Equal(suite.T(), 1, suite.provider.calls)
	assert.Contains(suite.T(), suite.shared.data, CatalogCacheKey)
}

func (suite *CatalogCacheTestSuite) TestEntries_ShouldReturnCopies() {
	first, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)
	first[0].Name = "mutated"

	second, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "salt", second[0].Name)
}

func (suite *CatalogCacheTestSuite) TestEntries_ShouldUseSharedCopyAfterExpiry() {
	_, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)

	suite.clock = suite.clock.Add(2 * time.Minute)
	entries, err := suite.cache.Entries(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), 1, suite.provider.calls)
}

func (suite *CatalogCacheTestSuite) TestInvalidate_ShouldForceReload() {
	_, err := suite.cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)

	suite.provider.entries = catalogOf("salt", "pepper", "cumin")
	suite.cache.Invalidate(suite.ctx)
	entries, err := suite.cache.Entries(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 3)
	assert.Equal(suite.T(), 2, suite.provider.calls)
}

func (suite *CatalogCacheTestSuite) TestEntries_ShouldServeStaleOnProviderError() {
	cache := NewCatalogCache(suite.provider, nil, CacheConfig{TTL: time.Minute}, zap.NewNop())
	cache.now = func() time.Time { return suite.clock }
	_, err := cache.Entries(suite.ctx)
	require.NoError(suite.T(), err)

	suite.clock = suite.clock.Add(2 * time.Minute)
	suite.provider.err = errors.New("database is locked")
	entries, err := cache.Entries(suite.ctx)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)
}

func (suite *CatalogCacheTestSuite) TestEntries_ShouldFailWithoutAnyCopy() {
	suite.provider.err = errors.New("database is locked")

	_, err := suite.cache.Entries(suite.ctx)

	assert.Error(suite.T(), err)
}

func TestCatalogCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogCacheTestSuite))
}

func TestSettings_SanitizesOutOfRange(t *testing.T) {
	s := NewSettings(Thresholds{Suggest: 0.4, Duplicate: 2, AutoAssign: 0})
	got := s.Get()
	assert.Equal(t, 0.4, got.Suggest)
	assert.Equal(t, 0.8, got.Duplicate)
	assert.Equal(t, 0.85, got.AutoAssign)

	s.Set(Thresholds{Suggest: 0.5, Duplicate: 0.9, AutoAssign: 0.95})
	assert.Equal(t, 0.95, s.Get().AutoAssign)
}
