package structured

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/recipe"
)

// findRecipes traverses decoded JSON-LD and collects every object whose
// @type names a schema.org Recipe. @graph wrappers and arbitrary nesting are
// handled by traversing all values.
func findRecipes(data any) []map[string]any {
	var out []map[string]any
	var walk func(any)
	walk = func(v any) {
		switch node := v.(type) {
		case map[string]any:
			if isRecipeType(node["@type"]) {
				out = append(out, node)
			}
			for _, child := range node {
				switch child.(type) {
				case map[string]any, []any:
					walk(child)
				}
			}
		case []any:
			for _, item := range node {
				walk(item)
			}
		}
	}
	walk(data)
	return out
}

// isRecipeType matches @type values of "Recipe", including list-valued
// types like ["Recipe", "NewsArticle"].
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.Contains(v, "Recipe")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

// decodeScript parses one JSON-LD block and returns the recipe objects in
// it. Malformed JSON yields nothing; the rest of the page is still scanned.
func decodeScript(raw string) []map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Debug().Err(err).Msg("skipping malformed JSON-LD block")
		return nil
	}
	return findRecipes(data)
}

// toRecipe maps a schema.org Recipe object onto the output record.
func toRecipe(data map[string]any) *recipe.Recipe {
	// Microdata converters nest the fields under "properties".
	if props, ok := data["properties"].(map[string]any); ok {
		data = props
	}

	title := firstString(data["name"])
	if title == "" {
		title = "Untitled Recipe"
	}

	r := &recipe.Recipe{
		Title:               title,
		Description:         firstString(data["description"]),
		Image:               imageURL(data["image"]),
		Ingredients:         stringList(data["recipeIngredient"]),
		Instructions:        instructionList(data["recipeInstructions"]),
		PrepTime:            firstString(data["prepTime"]),
		CookTime:            firstString(data["cookTime"]),
		Servings:            firstString(data["recipeYield"]),
		Cuisine:             firstString(data["recipeCuisine"]),
		Category:            firstString(data["recipeCategory"]),
		Keywords:            keywordList(data["keywords"]),
		FoundStructuredData: true,
	}
	return r
}

// firstString renders a scalar or the first element of a list as a string.
func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		if len(t) > 0 {
			return firstString(t[0])
		}
	}
	return ""
}

func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			if s := firstString(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// keywordList accepts either a list or a comma-separated string.
func keywordList(v any) []string {
	if s, ok := v.(string); ok {
		var out []string
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
		return out
	}
	return stringList(v)
}

// instructionList flattens recipeInstructions: a bare string is split into
// steps, HowToStep objects contribute their text, and HowToSection objects
// are recursed through itemListElement.
func instructionList(v any) []string {
	switch t := v.(type) {
	case string:
		return splitInstructions(t)
	case []any:
		var out []string
		for _, item := range t {
			switch step := item.(type) {
			case string:
				out = append(out, normalizeStep(step)...)
			case map[string]any:
				if nested, ok := step["itemListElement"]; ok {
					out = append(out, instructionList(nested)...)
					continue
				}
				if text := firstString(step["text"]); text != "" {
					out = append(out, normalizeStep(text)...)
				}
			}
		}
		return out
	}
	return nil
}

// normalizeStep keeps a single substantial step as-is, but splits text that
// looks like several steps concatenated into one string.
func normalizeStep(text string) []string {
	text = strings.TrimSpace(text)
	if len(text) <= 5 {
		return nil
	}
	if looksConcatenated(text) {
		return splitInstructions(text)
	}
	return []string{text}
}

// imageURL digs a usable URL out of the schema.org image shapes: a plain
// string, a list of candidates, or an ImageObject.
func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		if strings.HasPrefix(t, "http") {
			return t
		}
	case []any:
		for _, item := range t {
			if u := imageURL(item); u != "" {
				return u
			}
		}
	case map[string]any:
		for _, field := range []string{"url", "contentUrl", "@id", "src"} {
			if s, ok := t[field].(string); ok && strings.HasPrefix(s, "http") {
				return s
			}
		}
		if props, ok := t["properties"]; ok {
			return imageURL(props)
		}
	}
	return ""
}
