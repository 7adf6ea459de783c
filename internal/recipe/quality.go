package recipe

// Completeness thresholds. A couple of ingredients alone is a fragment, not
// a recipe, so the complete bar asks for a plausible minimum of both lists.
const (
	minCompleteIngredients  = 3
	minCompleteInstructions = 2
)

// Complete reports whether the recipe clears the strict bar: a real title,
// at least three ingredients, and at least two instructions. A complete
// result from a higher-priority extractor short-circuits the pipeline.
func Complete(r *Recipe) bool {
	if r == nil {
		return false
	}
	return r.HasRealTitle() &&
		countReal(r.Ingredients, PlaceholderIngredients) >= minCompleteIngredients &&
		countReal(r.Instructions, PlaceholderInstructions) >= minCompleteInstructions
}

// GoodEnough reports whether the recipe clears the looser bar: a real title
// plus either ingredients or instructions. It decides whether the pipeline
// should skip the next, more expensive extractor.
func GoodEnough(r *Recipe) bool {
	if r == nil {
		return false
	}
	return r.HasRealTitle() &&
		(countReal(r.Ingredients, PlaceholderIngredients) >= 1 ||
			countReal(r.Instructions, PlaceholderInstructions) >= 1)
}

func countReal(lines []string, placeholder string) int {
	n := 0
	for _, l := range lines {
		if l != "" && l != placeholder {
			n++
		}
	}
	return n
}
