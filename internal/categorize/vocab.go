package categorize

// Tag vocabularies the model must stay inside. Replies carrying anything
// else are filtered down to these canonical values.
var (
	HealthTags = []string{
		"vegan", "vegetarian", "dairy free", "red meat free", "nut free",
		"gluten free", "paleo", "keto", "FODMAP free", "pescatarian",
		"healthy", "whole30",
	}

	DishTypes = []string{
		"bread", "dessert", "pies and tarts", "salad", "sandwich", "seafood",
		"side dish", "main course", "soup or stew", "curry", "special occasion",
		"starter or appetizer", "sweet", "pasta", "egg", "drink",
		"condiment or sauce", "grilling", "alcohol cocktail", "biscuits and cookies",
		"drinks", "ice cream and custard", "pizza", "preserve", "sheet pan meal",
		"grain bowl", "freezer-friendly",
	}

	CuisineTypes = []string{
		"american", "asian", "british", "caribbean", "central europe", "chinese",
		"eastern europe", "french", "greek", "indian", "italian", "japanese",
		"korean", "mediterranean", "mexican", "middle eastern", "nordic",
		"south american", "south east asian", "african",
	}

	MealTypes = []string{
		"breakfast", "brunch", "lunch", "dinner", "snack", "dessert",
	}

	Seasons = []string{
		"spring", "summer", "winter", "autumn",
	}
)
