package parsing

import "strings"

// unitSynonyms maps every accepted spelling to its canonical unit
var unitSynonyms = map[string]string{
	"cup": "cup", "cups": "cup", "c": "cup",
	"tablespoon": "tablespoon", "tablespoons": "tablespoon", "tbsp": "tablespoon", "tbsps": "tablespoon", "tbs": "tablespoon", "tbl": "tablespoon",
	"teaspoon": "teaspoon", "teaspoons": "teaspoon", "tsp": "teaspoon", "tsps": "teaspoon",
	"ounce": "ounce", "ounces": "ounce", "oz": "ounce",
	"pound": "pound", "pounds": "pound", "lb": "pound", "lbs": "pound",
	"gram": "gram", "grams": "gram", "g": "gram",
	"kilogram": "kilogram", "kilograms": "kilogram", "kg": "kilogram",
	"milliliter": "milliliter", "milliliters": "milliliter", "millilitre": "milliliter", "millilitres": "milliliter", "ml": "milliliter",
	"liter": "liter", "liters": "liter", "litre": "liter", "litres": "liter", "l": "liter",
	"pint": "pint", "pints": "pint", "pt": "pint",
	"quart": "quart", "quarts": "quart", "qt": "quart",
	"gallon": "gallon", "gallons": "gallon", "gal": "gallon",
	"clove": "clove", "cloves": "clove",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"can": "can", "cans": "can",
	"package": "package", "packages": "package", "pkg": "package",
	"slice": "slice", "slices": "slice",
	"stick": "stick", "sticks": "stick",
	"bunch": "bunch", "bunches": "bunch",
	"sprig": "sprig", "sprigs": "sprig",
	"piece": "piece", "pieces": "piece",
	"head": "head", "heads": "head",
	"stalk": "stalk", "stalks": "stalk",
	"handful": "handful", "handfuls": "handful",
	"jar": "jar", "jars": "jar",
}

// normalizeUnit returns the canonical unit for a candidate word. Size and
// type descriptors such as "large" or "boneless" are not units, so they
// return false and stay in the ingredient name.
func normalizeUnit(word string) (string, bool) {
	switch word {
	case "T", "Tbsp", "TBSP":
		return "tablespoon", true
	case "t":
		return "teaspoon", true
	}
	unit, ok := unitSynonyms[strings.TrimSuffix(strings.ToLower(word), ".")]
	return unit, ok
}

// preparationWords are trailing words that describe how an ingredient is
// prepared rather than what it is
var preparationWords = map[string]struct{}{
	"chopped": {}, "diced": {}, "minced": {}, "sliced": {}, "grated": {},
	"shredded": {}, "crushed": {}, "ground": {}, "softened": {}, "fresh": {},
	"dried": {}, "peeled": {}, "seeded": {}, "stemmed": {}, "trimmed": {},
	"pitted": {},
}

// preparationAdverbs may precede a trailing preparation word
var preparationAdverbs = map[string]struct{}{
	"finely": {}, "roughly": {}, "coarsely": {}, "thinly": {}, "thickly": {}, "freshly": {}, "lightly": {},
}
