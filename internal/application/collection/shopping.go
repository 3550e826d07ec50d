package collection

import (
	"strings"

	"github.com/google/uuid"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

type lineKey struct {
	name string
	unit string
}

// BuildShoppingList folds the ingredient lines of the recipes, in order, into
// one list. Lines merge only when name and unit match exactly; units are
// never converted. categories maps catalog IDs to their category and wins
// over the category stored on the line. Contributors are listed by title
// but counted per recipe, so two recipes sharing a title both appear.
func BuildShoppingList(recipes []*recipe.Recipe, categories map[uint]string) []collection.ShoppingListItem {
	items := []collection.ShoppingListItem{}
	index := make(map[lineKey]int)
	contributors := make(map[lineKey]map[uuid.UUID]struct{})

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			key := lineKey{name: ingredient.NormalizeName(ing.Name), unit: strings.TrimSpace(ing.Unit)}
			if key.name == "" {
				continue
			}

			i, ok := index[key]
			if !ok {
				category := ing.Category
				if c, found := categories[ing.IngredientID]; found && c != "" {
					category = c
				}
				if category == "" {
					category = ingredient.CategoryOther
				}
				items = append(items, collection.ShoppingListItem{
					IngredientName:      key.name,
					Unit:                key.unit,
					Category:            category,
					ContributingRecipes: []string{},
				})
				i = len(items) - 1
				index[key] = i
				contributors[key] = make(map[uuid.UUID]struct{})
			}

			items[i].TotalQuantity += ing.Quantity
			if _, seen := contributors[key][r.ID]; !seen {
				contributors[key][r.ID] = struct{}{}
				items[i].ContributingRecipes = append(items[i].ContributingRecipes, r.Title)
			}
		}
	}
	return items
}

// SubtractPantry removes what is already on hand. Pantry stock counts only
// against the same (name, unit); items left at zero or less are dropped.
func SubtractPantry(items []collection.ShoppingListItem, stock []*pantry.Item) []collection.ShoppingListItem {
	onHand := make(map[lineKey]float64, len(stock))
	for _, it := range stock {
		onHand[lineKey{name: ingredient.NormalizeName(it.Name), unit: strings.TrimSpace(it.Unit)}] += it.Quantity
	}

	out := make([]collection.ShoppingListItem, 0, len(items))
	for _, item := range items {
		item.TotalQuantity -= onHand[lineKey{name: item.IngredientName, unit: item.Unit}]
		if item.TotalQuantity <= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}
