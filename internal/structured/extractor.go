// Package structured extracts recipes from machine-readable page metadata:
// JSON-LD blocks and schema.org microdata.
package structured

import (
	"context"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/fetch"
	"github.com/forkful/forkful/internal/recipe"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// previewLength caps the per-script content preview in debug output.
const previewLength = 200

// Extractor reads embedded recipe metadata. It is stateless and safe for
// concurrent use.
type Extractor struct{}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string { return "structured-data" }

// Attempt scans the page for recipe metadata. It returns the first complete
// candidate, falling back to the first candidate of any quality, and nil
// when the page embeds no recipe at all.
func (e *Extractor) Attempt(ctx context.Context, rawURL string, page *fetch.Page) (*recipe.Recipe, error) {
	candidates := e.candidates(page)
	if len(candidates) == 0 {
		return nil, nil
	}
	log.Debug().Str("stage", "structured").Int("candidates", len(candidates)).Msg("recipe metadata found")

	for _, data := range candidates {
		if r := toRecipe(data); recipe.Complete(r) {
			return r, nil
		}
	}
	return toRecipe(candidates[0]), nil
}

// candidates gathers raw recipe objects from every JSON-LD block, then from
// microdata when JSON-LD yields nothing.
func (e *Extractor) candidates(page *fetch.Page) []map[string]any {
	if page == nil || page.Doc == nil {
		return nil
	}
	var out []map[string]any
	page.Doc.Find(jsonLDSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, decodeScript(s.Text())...)
	})
	if len(out) == 0 {
		out = findMicrodataRecipes(page.Body)
	}
	return out
}

// Inspect reports what the metadata scan sees on a page, for the debug
// endpoint. It shares no state with Attempt and mutates nothing.
func (e *Extractor) Inspect(page *fetch.Page) ([]recipe.ScriptPreview, []string) {
	var previews []recipe.ScriptPreview
	if page != nil && page.Doc != nil {
		page.Doc.Find(jsonLDSelector).Each(func(i int, s *goquery.Selection) {
			content := s.Text()
			p := recipe.ScriptPreview{ScriptNumber: i + 1, HasContent: content != ""}
			if len(content) > previewLength {
				// Back off to a rune boundary so the preview stays valid UTF-8.
				cut := previewLength
				for cut > 0 && !utf8.RuneStart(content[cut]) {
					cut--
				}
				content = content[:cut]
			}
			p.ContentPreview = content
			previews = append(previews, p)
		})
	}

	var titles []string
	for _, data := range e.candidates(page) {
		title := firstString(data["name"])
		if title == "" {
			title = "Unnamed"
		}
		titles = append(titles, title)
	}
	return previews, titles
}
