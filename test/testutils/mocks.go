// Package testutils provides in-memory port implementations for testing
package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// RecipeStore is an in-memory RecipeRepository. Recipes are copied on the
// way in and out.
type RecipeStore struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]recipe.Recipe
	order   []uuid.UUID
	Err     error
}

// NewRecipeStore creates an empty recipe store
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{recipes: make(map[uuid.UUID]recipe.Recipe)}
}

func (s *RecipeStore) Save(_ context.Context, r *recipe.Recipe) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

func (s *RecipeStore) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	out := cloneRecipe(&r)
	return &out, nil
}

func (s *RecipeStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.recipes[id]; ok {
			c := cloneRecipe(&r)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *RecipeStore) List(_ context.Context) ([]*recipe.Recipe, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*recipe.Recipe, 0, len(s.order))
	for _, id := range s.order {
		r := s.recipes[id]
		c := cloneRecipe(&r)
		out = append(out, &c)
	}
	return out, nil
}

func (s *RecipeStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int64, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	mine := make([]*recipe.Recipe, 0)
	for _, r := range all {
		if r.AuthorID == authorID {
			mine = append(mine, r)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return []*recipe.Recipe{}, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (s *RecipeStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return recipe.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddRating folds the rating in under the store lock
func (s *RecipeStore) AddRating(_ context.Context, id uuid.UUID, value int) (*recipe.Recipe, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	if err := r.AddRating(value); err != nil {
		return nil, err
	}
	s.recipes[id] = cloneRecipe(&r)
	out := cloneRecipe(&r)
	return &out, nil
}

// CountIngredient reports how many stored recipe lines use the catalog entry
func (s *RecipeStore) CountIngredient(id uint) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.recipes {
		for _, ing := range r.Ingredients {
			if ing.IngredientID == id {
				n++
			}
		}
	}
	return n
}

func (s *RecipeStore) relink(sourceID, targetID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.recipes {
		for i := range r.Ingredients {
			if r.Ingredients[i].IngredientID == sourceID {
				r.Ingredients[i].IngredientID = targetID
			}
		}
		s.recipes[id] = r
	}
}

func cloneRecipe(r *recipe.Recipe) recipe.Recipe {
	c := *r
	c.DietaryTags = append([]string{}, r.DietaryTags...)
	c.Ingredients = append([]recipe.Ingredient{}, r.Ingredients...)
	return c
}

// IngredientStore is an in-memory IngredientRepository. When linked to a
// RecipeStore, references and merges follow the stored recipes.
type IngredientStore struct {
	mu      sync.RWMutex
	entries map[uint]ingredient.Entry
	nextID  uint
	recipes *RecipeStore
	pantry  *PantryStore
	Err     error
}

// NewIngredientStore creates a catalog store seeded with entries
func NewIngredientStore(recipes *RecipeStore, pantry *PantryStore, seed ...ingredient.Entry) *IngredientStore {
	s := &IngredientStore{
		entries: make(map[uint]ingredient.Entry),
		nextID:  1,
		recipes: recipes,
		pantry:  pantry,
	}
	for _, e := range seed {
		e := e
		_ = s.Create(context.Background(), &e)
	}
	return s
}

func (s *IngredientStore) Create(_ context.Context, e *ingredient.Entry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Name = ingredient.NormalizeName(e.Name)
	for _, existing := range s.entries {
		if existing.Name == e.Name {
			return ingredient.ErrDuplicateIngredient
		}
	}
	e.ID = s.nextID
	s.nextID++
	if e.Substitutes == nil {
		e.Substitutes = []string{}
	}
	s.entries[e.ID] = *e
	return nil
}

func (s *IngredientStore) Update(_ context.Context, e *ingredient.Entry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return ingredient.ErrIngredientNotFound
	}
	for id, existing := range s.entries {
		if id != e.ID && existing.Name == e.Name {
			return ingredient.ErrDuplicateIngredient
		}
	}
	s.entries[e.ID] = *e
	return nil
}

func (s *IngredientStore) Delete(_ context.Context, id uint) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ingredient.ErrIngredientNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *IngredientStore) FindByID(_ context.Context, id uint) (*ingredient.Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ingredient.ErrIngredientNotFound
	}
	return &e, nil
}

func (s *IngredientStore) FindByName(_ context.Context, name string) (*ingredient.Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	name = ingredient.NormalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Name == name {
			e := e
			return &e, nil
		}
	}
	return nil, ingredient.ErrIngredientNotFound
}

func (s *IngredientStore) List(_ context.Context) ([]ingredient.Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ingredient.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *IngredientStore) CountReferences(_ context.Context, id uint) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	if s.recipes != nil {
		n += s.recipes.CountIngredient(id)
	}
	if s.pantry != nil {
		n += s.pantry.CountIngredient(id)
	}
	return n, nil
}

func (s *IngredientStore) Merge(ctx context.Context, sourceID, targetID uint) error {
	if s.recipes != nil {
		s.recipes.relink(sourceID, targetID)
	}
	if s.pantry != nil {
		s.pantry.relink(sourceID, targetID)
	}
	return s.Delete(ctx, sourceID)
}

// CollectionStore is an in-memory CollectionRepository
type CollectionStore struct {
	mu          sync.RWMutex
	collections map[uuid.UUID]collection.Collection
	order       []uuid.UUID
}

// NewCollectionStore creates an empty collection store
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{collections: make(map[uuid.UUID]collection.Collection)}
}

func (s *CollectionStore) Save(_ context.Context, c *collection.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	copied := *c
	copied.RecipeIDs = append([]uuid.UUID{}, c.RecipeIDs...)
	s.collections[c.ID] = copied
	return nil
}

func (s *CollectionStore) FindByID(_ context.Context, id uuid.UUID) (*collection.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, collection.ErrCollectionNotFound
	}
	c.RecipeIDs = append([]uuid.UUID{}, c.RecipeIDs...)
	return &c, nil
}

func (s *CollectionStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*collection.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*collection.Collection, 0)
	for _, id := range s.order {
		c := s.collections[id]
		if c.OwnerID == ownerID {
			c.RecipeIDs = append([]uuid.UUID{}, c.RecipeIDs...)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *CollectionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; !ok {
		return collection.ErrCollectionNotFound
	}
	delete(s.collections, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// PantryStore is an in-memory PantryRepository
type PantryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]pantry.Item
	order []uuid.UUID
}

// NewPantryStore creates an empty pantry store
func NewPantryStore() *PantryStore {
	return &PantryStore{items: make(map[uuid.UUID]pantry.Item)}
}

func (s *PantryStore) Save(_ context.Context, item *pantry.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = *item
	return nil
}

func (s *PantryStore) FindByID(_ context.Context, id uuid.UUID) (*pantry.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pantry.ErrItemNotFound
	}
	return &item, nil
}

func (s *PantryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*pantry.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pantry.Item, 0)
	for _, id := range s.order {
		item := s.items[id]
		if item.OwnerID == ownerID {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (s *PantryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return pantry.ErrItemNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CountIngredient reports how many pantry items use the catalog entry
func (s *PantryStore) CountIngredient(id uint) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, item := range s.items {
		if item.IngredientID == id {
			n++
		}
	}
	return n
}

func (s *PantryStore) relink(sourceID, targetID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if item.IngredientID == sourceID {
			item.IngredientID = targetID
			s.items[id] = item
		}
	}
}

// UserStore is an in-memory UserRepository
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*user.User
}

// NewUserStore creates an empty user store
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *UserStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email() == u.Email() {
			return user.ErrEmailTaken
		}
	}
	s.users[u.ID()] = u
	return nil
}

func (s *UserStore) Update(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID()]; !ok {
		return user.ErrUserNotFound
	}
	s.users[u.ID()] = u
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// MapCache is an in-memory CacheRepository that ignores TTLs
type MapCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMapCache creates an empty cache
func NewMapCache() *MapCache {
	return &MapCache{values: make(map[string][]byte)}
}

func (c *MapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	return v, nil
}

func (c *MapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = append([]byte{}, value...)
	return nil
}

func (c *MapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// MockTextCompleter provides a mock implementation of TextCompleter
type MockTextCompleter struct {
	mock.Mock
}

// Complete returns the configured reply
func (m *MockTextCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

// MockTokenIssuer provides a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

// IssueTokens returns the configured pair
func (m *MockTokenIssuer) IssueTokens(userID uuid.UUID, email string) (*outbound.TokenPair, error) {
	args := m.Called(userID, email)
	if pair, ok := args.Get(0).(*outbound.TokenPair); ok {
		return pair, args.Error(1)
	}
	return nil, args.Error(1)
}

// ParseRefreshToken returns the configured user ID
func (m *MockTokenIssuer) ParseRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

var (
	_ outbound.RecipeRepository     = (*RecipeStore)(nil)
	_ outbound.IngredientRepository = (*IngredientStore)(nil)
	_ outbound.CollectionRepository = (*CollectionStore)(nil)
	_ outbound.PantryRepository     = (*PantryStore)(nil)
	_ outbound.UserRepository       = (*UserStore)(nil)
	_ outbound.CacheRepository      = (*MapCache)(nil)
	_ outbound.TextCompleter        = (*MockTextCompleter)(nil)
	_ outbound.TokenIssuer          = (*MockTokenIssuer)(nil)
)
