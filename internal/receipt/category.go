package receipt

import "strings"

const DefaultCategory = "Other"

type categoryRule struct {
	name     string
	keywords []string
}

// Ordered: the first category whose keyword list hits a substring of the
// lower-cased item name wins.
var categoryRules = []categoryRule{
	{"Produce", []string{
		"banana", "apple", "orange", "grape", "berr", "melon", "peach", "pear",
		"lettuce", "spinach", "kale", "tomato", "onion", "potato", "carrot",
		"broccoli", "pepper", "cucumber", "avocado", "lemon", "lime", "celery",
		"mushroom", "garlic", "salad", "fruit", "vegetable",
	}},
	{"Dairy", []string{
		"milk", "cheese", "yogurt", "butter", "cream", "egg",
	}},
	{"Meat & Seafood", []string{
		"chicken", "beef", "pork", "turkey", "ham", "bacon", "sausage",
		"steak", "fish", "salmon", "tuna", "shrimp", "crab",
	}},
	{"Frozen", []string{
		"frozen", "ice cream", "popsicle",
	}},
	{"Beverages", []string{
		"water", "juice", "soda", "cola", "coffee", "tea", "beer", "wine",
		"drink", "lemonade",
	}},
	{"Snacks", []string{
		"chip", "cracker", "cookie", "candy", "chocolate", "popcorn",
		"pretzel", "granola bar", "snack",
	}},
	{"Pantry", []string{
		"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "sauce",
		"cereal", "oat", "bean", "soup", "bread", "spice", "honey",
		"peanut butter", "jam", "canned",
	}},
	{"Health & Beauty", []string{
		"shampoo", "conditioner", "soap", "toothpaste", "toothbrush",
		"lotion", "deodorant", "vitamin", "razor", "bandage",
	}},
	{"Household", []string{
		"paper towel", "toilet paper", "tissue", "detergent", "cleaner",
		"bleach", "trash bag", "foil", "sponge", "dish", "napkin", "battery",
		"light bulb",
	}},
}

// InferCategory maps an item name to a category name. Resolving the actual
// category entity is the caller's job.
func InferCategory(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return DefaultCategory
}
