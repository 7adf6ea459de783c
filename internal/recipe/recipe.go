package recipe

import "strings"

// Placeholder values used when extraction cannot produce real content. The
// ingredient and instruction lists of a returned Recipe are never empty;
// absence is represented by a single placeholder line.
const (
	PlaceholderTitle        = "Unable to parse recipe"
	PlaceholderDescription  = "Could not extract recipe data using any method"
	PlaceholderIngredients  = "Could not extract ingredients"
	PlaceholderInstructions = "Could not extract instructions"
)

// placeholderTitles are titles that count as "no real title" for quality
// checks, including the default titles extractors fall back to.
var placeholderTitles = map[string]struct{}{
	"Untitled Recipe":        {},
	"Could not parse recipe": {},
	PlaceholderTitle:         {},
}

// Recipe is the primary output record of the extraction pipeline.
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Image        string   `json:"image,omitempty"`
	Source       string   `json:"source,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time,omitempty"`
	CookTime     string   `json:"cook_time,omitempty"`
	Servings     string   `json:"servings,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Category     string   `json:"category,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`

	// Categorization tags assigned by the culinary model. Empty until the
	// recipe has been through the categorizer.
	HealthTags  []string `json:"health_tags,omitempty"`
	DishType    []string `json:"dish_type,omitempty"`
	CuisineType []string `json:"cuisine_type,omitempty"`
	MealType    []string `json:"meal_type,omitempty"`
	Season      []string `json:"season,omitempty"`

	AIConfidenceNotes string `json:"ai_confidence_notes,omitempty"`
	AIEnhanced        bool   `json:"ai_enhanced"`
	AIModelUsed       string `json:"ai_model_used,omitempty"`

	// RawIngredients holds normalized ingredient names for search and
	// shopping lists; RawIngredientsDetailed carries the full structured
	// records. Both are derived from Ingredients and safe to regenerate.
	RawIngredients         []string     `json:"raw_ingredients"`
	RawIngredientsDetailed []Ingredient `json:"raw_ingredients_detailed"`

	// FoundStructuredData is true when a non-AI extractor supplied the data.
	// UsedAI is true when the AI extractor contributed the final result.
	// The flags are not mutually exclusive.
	FoundStructuredData bool `json:"found_structured_data"`
	UsedAI              bool `json:"used_ai"`
}

// Categorization is the tag set the culinary model assigns to a recipe.
// Every tag list holds only vocabulary entries in their canonical casing.
type Categorization struct {
	HealthTags      []string `json:"health_tags"`
	DishType        []string `json:"dish_type"`
	CuisineType     []string `json:"cuisine_type"`
	MealType        []string `json:"meal_type"`
	Season          []string `json:"season"`
	ConfidenceNotes string   `json:"confidence_notes,omitempty"`
	AIModel         string   `json:"ai_model"`
}

// Categorize folds a tag set into the recipe and marks it AI-enhanced.
func (r *Recipe) Categorize(c *Categorization) {
	if r == nil || c == nil {
		return
	}
	r.HealthTags = c.HealthTags
	r.DishType = c.DishType
	r.CuisineType = c.CuisineType
	r.MealType = c.MealType
	r.Season = c.Season
	r.AIConfidenceNotes = c.ConfidenceNotes
	r.AIEnhanced = true
	r.AIModelUsed = c.AIModel
	r.UsedAI = true
}

// Ingredient is one structured ingredient line. Confidence is on a fixed
// 0.0-1.0 scale regardless of which tagger produced it.
type Ingredient struct {
	Name        string   `json:"name"`
	Quantity    string   `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Descriptors []string `json:"descriptors"`
	Original    string   `json:"original"`
	Confidence  float64  `json:"confidence"`
	Display     string   `json:"shopping_display"`
}

// ShoppingDisplay renders the quantity, unit, and name joined by single
// spaces, omitting absent parts. It is the canonical derivation for the
// Display field.
func (i Ingredient) ShoppingDisplay() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Quantity, i.Unit, i.Name} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// DebugInfo describes what the structured-data scan saw on a page. It is a
// diagnostic record, not part of the Recipe contract.
type DebugInfo struct {
	Status           string          `json:"status"`
	HTMLLength       int             `json:"html_length,omitempty"`
	JSONScriptsFound int             `json:"json_scripts_found,omitempty"`
	JSONScripts      []ScriptPreview `json:"json_scripts_content,omitempty"`
	RecipesFound     int             `json:"recipes_found,omitempty"`
	RecipeTitles     []string        `json:"recipe_titles,omitempty"`
	AIAvailable      bool            `json:"ai_available"`
	Error            string          `json:"error,omitempty"`
	ErrorType        string          `json:"error_type,omitempty"`
}

// ScriptPreview is a truncated view of one embedded JSON-LD block.
type ScriptPreview struct {
	ScriptNumber   int    `json:"script_number"`
	HasContent     bool   `json:"has_content"`
	ContentPreview string `json:"content_preview,omitempty"`
}

// HasRealTitle reports whether the title is present and not one of the
// known placeholder titles.
func (r *Recipe) HasRealTitle() bool {
	if r == nil {
		return false
	}
	t := strings.TrimSpace(r.Title)
	if t == "" {
		return false
	}
	_, placeholder := placeholderTitles[t]
	return !placeholder
}

// Placeholder returns the fixed recipe used when no extractor produced
// anything at all. Image and source are the caller's best-effort values.
func Placeholder(image, source string) *Recipe {
	return &Recipe{
		Title:                  PlaceholderTitle,
		Description:            PlaceholderDescription,
		Image:                  image,
		Source:                 source,
		Ingredients:            []string{PlaceholderIngredients},
		Instructions:           []string{PlaceholderInstructions},
		RawIngredients:         []string{},
		RawIngredientsDetailed: []Ingredient{},
	}
}
