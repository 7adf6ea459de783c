// Package ai extracts recipes by delegating to a chat model. It is the
// slowest and least reliable extractor, so the pipeline runs it last, and
// its failures never escape: a broken call, an unavailable client, or
// unparseable model output all read as "no result".
package ai

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/cache"
	"github.com/forkful/forkful/internal/fetch"
	"github.com/forkful/forkful/internal/llm"
	"github.com/forkful/forkful/internal/recipe"
)

const systemMessage = "You are a recipe extraction expert. Extract recipe data accurately from webpage content. Respond with strict JSON only, no narration."

// Extractor calls an OpenAI-compatible model with the page's main content.
// A nil Client disables the extractor.
type Extractor struct {
	Client           llm.Client
	Model            string
	MaxContentLength int
	Temperature      float32
	MaxTokens        int

	// Cache, when set, stores raw model replies keyed by model and prompt
	// so re-parsing a page never repeats a paid call.
	Cache *cache.ResponseCache
}

// payload is the JSON contract the model must follow.
type payload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Source       string   `json:"source"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     string   `json:"servings"`
	Cuisine      string   `json:"cuisine"`
	Category     string   `json:"category"`
	Keywords     []string `json:"keywords"`
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "ai" }

// Available reports whether the extractor can make calls at all.
func (e *Extractor) Available() bool {
	return e != nil && e.Client != nil && e.Model != ""
}

// Attempt sends the page's main content to the model and parses the reply.
// It returns nil on any model or parse failure.
func (e *Extractor) Attempt(ctx context.Context, rawURL string, page *fetch.Page) (*recipe.Recipe, error) {
	if !e.Available() || page == nil {
		return nil, nil
	}

	content := MainContent(page)
	if e.MaxContentLength > 0 && len(content) > e.MaxContentLength {
		content = truncate(content, e.MaxContentLength) + "..."
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	prompt := buildPrompt(content)
	reply, ok := e.cachedReply(ctx, prompt)
	if !ok {
		resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: e.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: e.Temperature,
			MaxTokens:   e.MaxTokens,
			N:           1,
		})
		if err != nil {
			log.Warn().Err(err).Str("stage", "ai").Msg("model call failed")
			return nil, nil
		}
		if len(resp.Choices) == 0 {
			return nil, nil
		}
		reply = resp.Choices[0].Message.Content
		e.saveReply(ctx, prompt, reply)
	}

	r := parseReply(reply)
	if r == nil {
		return nil, nil
	}
	r.UsedAI = true
	return r, nil
}

func (e *Extractor) cachedReply(ctx context.Context, prompt string) (string, bool) {
	if e.Cache == nil {
		return "", false
	}
	b, ok, err := e.Cache.Get(ctx, cache.KeyFrom(e.Model, prompt))
	if err != nil || !ok {
		return "", false
	}
	log.Debug().Str("stage", "ai").Msg("model reply served from cache")
	return string(b), true
}

func (e *Extractor) saveReply(ctx context.Context, prompt, reply string) {
	if e.Cache == nil {
		return
	}
	if err := e.Cache.Save(ctx, cache.KeyFrom(e.Model, prompt), []byte(reply)); err != nil {
		log.Warn().Err(err).Str("stage", "ai").Msg("response cache write failed")
	}
}

func buildPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString(`Extract recipe information from this webpage content. Return ONLY a JSON object with this structure:

{
  "title": "Recipe name (string)",
  "description": "Brief recipe description (string or null)",
  "image": "Main recipe image URL (string or null)",
  "source": "Source organization/blog name like 'Love and Lemons' or 'Food Network' (string or null)",
  "ingredients": ["ingredient 1", "ingredient 2"],
  "instructions": ["step 1", "step 2"],
  "prep_time": "preparation time if mentioned (string or null)",
  "cook_time": "cooking time if mentioned (string or null)",
  "servings": "number of servings if mentioned (string or null)",
  "cuisine": "cuisine type like Italian, Mexican, Asian (string or null)",
  "category": "meal category like dinner, appetizer, dessert (string or null)",
  "keywords": ["keyword1", "keyword2"]
}

Rules:
1. Only extract actual recipe ingredients and cooking instructions.
2. Ignore navigation menus, comments, advertisements, author bio, related recipes.
3. Each ingredient should include quantity and ingredient name.
4. Each instruction should be a complete cooking step.
5. For source, use the organization or blog name, not an individual person's name.
6. For cuisine, identify the cooking style from the ingredients and techniques.
7. For category, identify the meal type the dish is served as.
8. If you cannot find a clear recipe, return null.
9. Return only valid JSON, no additional text.

Webpage content:
`)
	sb.WriteString(content)
	return sb.String()
}

// parseReply decodes the model output, tolerating a fenced code block and a
// literal null verdict. It requires title, ingredients, and instructions.
func parseReply(raw string) *recipe.Recipe {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		fenced, ok := stripFence(raw)
		if !ok || json.Unmarshal([]byte(fenced), &p) != nil {
			log.Debug().Str("stage", "ai").Msg("model reply is not valid JSON")
			return nil
		}
	}
	if strings.TrimSpace(p.Title) == "" || len(p.Ingredients) == 0 || len(p.Instructions) == 0 {
		return nil
	}

	return &recipe.Recipe{
		Title:        strings.TrimSpace(p.Title),
		Description:  strings.TrimSpace(p.Description),
		Image:        strings.TrimSpace(p.Image),
		Source:       strings.TrimSpace(p.Source),
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
		PrepTime:     p.PrepTime,
		CookTime:     p.CookTime,
		Servings:     p.Servings,
		Cuisine:      strings.TrimSpace(p.Cuisine),
		Category:     strings.TrimSpace(p.Category),
		Keywords:     p.Keywords,
	}
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
