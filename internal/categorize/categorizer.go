// Package categorize assigns filtering tags to a parsed recipe by asking a
// chat model to classify it against fixed vocabularies. Like the AI
// extractor, its failures never escape: a broken call or unparseable reply
// reads as "no categorization" and leaves the base recipe intact.
package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/llm"
	"github.com/forkful/forkful/internal/recipe"
)

const systemMessage = `You are a culinary expert AI that categorizes recipes with high accuracy and consistency. Analyze only what is actually present in the recipe; never assume ingredients or cooking methods that are not mentioned. A recipe can carry multiple tags in each category. If all ingredients are plant-based, tag it vegan, not vegetarian. Chicken and turkey are poultry, not red meat. Respond with strict JSON only, no narration.`

// Prompt shaping limits. More ingredients or instructions add tokens
// without improving the classification.
const (
	maxPromptIngredients  = 15
	maxInstructionSummary = 300
)

// Categorizer classifies recipes with an OpenAI-compatible model. A nil
// Client disables it.
type Categorizer struct {
	Client      llm.Client
	Model       string
	Temperature float32
	MaxTokens   int
}

// Available reports whether the categorizer can make calls at all.
func (c *Categorizer) Available() bool {
	return c != nil && c.Client != nil && c.Model != ""
}

// Categorize asks the model to tag the recipe. It returns nil on any model
// or parse failure; the caller keeps the recipe as-is in that case.
func (c *Categorizer) Categorize(ctx context.Context, r *recipe.Recipe) *recipe.Categorization {
	if !c.Available() || r == nil {
		return nil
	}

	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(r)},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		N:           1,
	})
	if err != nil {
		log.Warn().Err(err).Str("stage", "categorize").Msg("model call failed")
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	cat := parseReply(resp.Choices[0].Message.Content)
	if cat == nil {
		return nil
	}
	if len(cat.Season) == 0 {
		cat.Season = seasonFallback(r.Title)
	}
	cat.AIModel = c.Model
	return cat
}

func buildPrompt(r *recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString("Analyze this recipe and categorize it systematically:\n\n")
	fmt.Fprintf(&sb, "RECIPE: %s\n\n", r.Title)
	fmt.Fprintf(&sb, "DESCRIPTION: %s\n\n", orUnknown(r.Description))

	sb.WriteString("INGREDIENTS:\n")
	for i, ing := range r.Ingredients {
		if i == maxPromptIngredients {
			fmt.Fprintf(&sb, "... and %d more ingredients\n", len(r.Ingredients)-maxPromptIngredients)
			break
		}
		fmt.Fprintf(&sb, "- %s\n", ing)
	}

	sb.WriteString("\nCOOKING METHOD: ")
	sb.WriteString(instructionSummary(r.Instructions))
	sb.WriteString("\n\nADDITIONAL CONTEXT:\n")
	fmt.Fprintf(&sb, "- Prep time: %s\n", orUnknown(r.PrepTime))
	fmt.Fprintf(&sb, "- Cook time: %s\n", orUnknown(r.CookTime))
	fmt.Fprintf(&sb, "- Servings: %s\n", orUnknown(r.Servings))
	fmt.Fprintf(&sb, "- Source: %s\n", orUnknown(r.Source))

	sb.WriteString(`
Allowed tags per category:
- health_tags: ` + strings.Join(HealthTags, ", ") + `
- dish_type: ` + strings.Join(DishTypes, ", ") + `
- cuisine_type: ` + strings.Join(CuisineTypes, ", ") + `
- meal_type: ` + strings.Join(MealTypes, ", ") + `
- season: ` + strings.Join(Seasons, ", ") + `

Return ONLY a JSON object with this exact structure:
{
  "health_tags": ["tag1", "tag2"],
  "dish_type": ["type1", "type2"],
  "cuisine_type": ["cuisine1"],
  "meal_type": ["meal1", "meal2"],
  "season": ["season1"],
  "confidence_notes": "Friendly explanation of why you chose these categories"
}

Rules:
1. Only use tags from the provided lists.
2. Be generous with applicable tags; many dishes span meal types and seasons.
3. Tag broader cuisine categories (asian, mediterranean) alongside specific ones where culturally accurate.
4. Detect cooking methods from the instructions and title.
5. Be consistent: the same recipe always gets the same categorization.
`)
	return sb.String()
}

// instructionSummary joins the first few steps into a short method
// description for the prompt.
func instructionSummary(steps []string) string {
	if len(steps) == 0 {
		return "No instructions provided"
	}
	if len(steps) > 3 {
		steps = steps[:3]
	}
	s := strings.Join(steps, " ")
	if len(s) > maxInstructionSummary {
		cut := maxInstructionSummary
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// parseReply decodes the model output, tolerating a fenced code block. All
// five tag fields must be present; unknown tags are dropped.
func parseReply(raw string) *recipe.Categorization {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		fenced, ok := stripFence(raw)
		if !ok || json.Unmarshal([]byte(fenced), &data) != nil {
			log.Debug().Str("stage", "categorize").Msg("model reply is not valid JSON")
			return nil
		}
	}
	for _, field := range []string{"health_tags", "dish_type", "cuisine_type", "meal_type", "season"} {
		if _, ok := data[field]; !ok {
			log.Debug().Str("stage", "categorize").Str("field", field).Msg("model reply misses a tag field")
			return nil
		}
	}

	notes, _ := data["confidence_notes"].(string)
	return &recipe.Categorization{
		HealthTags:      validTags(tagList(data["health_tags"]), HealthTags),
		DishType:        validTags(tagList(data["dish_type"]), DishTypes),
		CuisineType:     validTags(tagList(data["cuisine_type"]), CuisineTypes),
		MealType:        validTags(tagList(data["meal_type"]), MealTypes),
		Season:          validTags(tagList(data["season"]), Seasons),
		ConfidenceNotes: strings.TrimSpace(notes),
	}
}

// tagList accepts either a list of strings or a bare string.
func tagList(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// validTags keeps the tags found in the vocabulary, matched
// case-insensitively and rendered in the vocabulary's canonical casing.
func validTags(tags, vocab []string) []string {
	out := []string{}
	for _, tag := range tags {
		for _, v := range vocab {
			if strings.EqualFold(tag, v) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// seasonFallback guesses a season from the title when the model returned
// none. Dishes without a seasonal signal get every season so they never
// disappear from season filters.
func seasonFallback(title string) []string {
	t := strings.ToLower(title)
	for _, term := range []string{"cucumber", "tomato", "gazpacho", "cold soup"} {
		if strings.Contains(t, term) {
			return []string{"summer"}
		}
	}
	for _, term := range []string{"pumpkin", "butternut", "hot chocolate", "stew"} {
		if strings.Contains(t, term) {
			return []string{"autumn", "winter"}
		}
	}
	return append([]string(nil), Seasons...)
}

// stripFence unwraps a ```json ... ``` code block.
func stripFence(raw string) (string, bool) {
	start := strings.Index(raw, "```json")
	if start < 0 {
		start = strings.Index(raw, "```")
		if start < 0 {
			return "", false
		}
		start += 3
	} else {
		start += 7
	}
	end := strings.Index(raw[start:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(raw[start : start+end]), true
}
