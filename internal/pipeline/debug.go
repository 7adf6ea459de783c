package pipeline

import (
	"context"

	"github.com/forkful/forkful/internal/fetch"
	"github.com/forkful/forkful/internal/recipe"
)

// Inspector is an optional extractor capability that reports what the
// metadata scan sees on a page. Callers detect it with a type assertion.
type Inspector interface {
	Inspect(page *fetch.Page) ([]recipe.ScriptPreview, []string)
}

// Debug fetches the page and reports the structured-data signals on it.
// It is independent of Parse, mutates nothing, and reports failures inside
// the record instead of raising them.
func (o *Orchestrator) Debug(ctx context.Context, rawURL string) recipe.DebugInfo {
	page, err := o.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return recipe.DebugInfo{
			Status:      "error",
			Error:       err.Error(),
			ErrorType:   "FetchError",
			AIAvailable: o.AIEnabled,
		}
	}

	info := recipe.DebugInfo{
		Status:      "success",
		HTMLLength:  len(page.Body),
		AIAvailable: o.AIEnabled,
	}
	if inspector, ok := o.Structured.(Inspector); ok {
		previews, titles := inspector.Inspect(page)
		info.JSONScriptsFound = len(previews)
		info.JSONScripts = previews
		info.RecipesFound = len(titles)
		info.RecipeTitles = titles
	}
	return info
}
