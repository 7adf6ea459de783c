// Package pipeline sequences the extraction strategies over a fetched page:
// cheap and precise first, expensive and unreliable last, with a quality
// gate deciding when to stop and a merge policy for partial results.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/fetch"
	"github.com/forkful/forkful/internal/ingredient"
	"github.com/forkful/forkful/internal/recipe"
	"github.com/forkful/forkful/internal/source"
)

// Extractor is one independent strategy for deriving a recipe from a page.
// A nil recipe with a nil error means "no usable signal". A non-nil error
// is an unexpected internal fault: the orchestrator logs it and continues
// as if the extractor had found nothing.
type Extractor interface {
	Name() string
	Attempt(ctx context.Context, url string, page *fetch.Page) (*recipe.Recipe, error)
}

// Fetcher retrieves and parses a page. Failure is fatal to the request.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Categorizer tags a parsed recipe. A nil result means the model call or
// its reply failed; the recipe goes out untagged in that case.
type Categorizer interface {
	Available() bool
	Categorize(ctx context.Context, r *recipe.Recipe) *recipe.Categorization
}

// Orchestrator runs the extractors in fixed priority order. All fields are
// read-only after construction; an Orchestrator is safe for concurrent use.
type Orchestrator struct {
	Fetcher    Fetcher
	Site       Extractor
	Structured Extractor
	AI         Extractor
	Sources    *source.Resolver
	Structurer *ingredient.Structurer

	// Categorizer, when set, tags every successfully extracted recipe.
	// Categorization is best-effort and never fails a request.
	Categorizer Categorizer

	// AIEnabled is reported through the debug endpoint; the AI extractor
	// itself already degrades to "no result" when unconfigured.
	AIEnabled bool
}

// Parse extracts the best possible recipe for the URL. The only error case
// is a page-fetch failure; every other problem degrades toward the
// placeholder recipe.
func (o *Orchestrator) Parse(ctx context.Context, rawURL string) (*recipe.Recipe, error) {
	page, err := o.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	preview := page.PreviewImage()
	log.Debug().Str("url", rawURL).Str("preview_image", preview).Msg("page fetched")

	// Step 1: curated site rules. A complete hit ends the request.
	if r := o.attempt(ctx, o.Site, rawURL, page); recipe.Complete(r) {
		log.Debug().Str("stage", "scrape").Msg("complete result")
		return o.finish(ctx, r, rawURL, page, preview), nil
	}

	// Step 2: embedded structured data. Good-enough also ends the request:
	// the AI call is slow and paid, so an acceptable draft skips it.
	var structuredPartial *recipe.Recipe
	if r := o.attempt(ctx, o.Structured, rawURL, page); r != nil {
		if recipe.Complete(r) || recipe.GoodEnough(r) {
			log.Debug().Str("stage", "structured").Bool("complete", recipe.Complete(r)).Msg("accepted result")
			return o.finish(ctx, r, rawURL, page, preview), nil
		}
		structuredPartial = r
	}

	// Step 3: the AI fallback.
	var aiPartial *recipe.Recipe
	if r := o.attempt(ctx, o.AI, rawURL, page); r != nil {
		r.FoundStructuredData = structuredPartial != nil
		if recipe.Complete(r) || recipe.GoodEnough(r) {
			log.Debug().Str("stage", "ai").Msg("accepted result")
			return o.finish(ctx, r, rawURL, page, preview), nil
		}
		aiPartial = r
	}

	// Step 4: best-effort merge of partials. When both exist the AI result
	// wins: it has already attempted synthesis over the same page. That is
	// a policy choice carried over from observed behavior, not a proven
	// optimum.
	if aiPartial != nil {
		log.Debug().Str("stage", "merge").Msg("returning partial AI result")
		return o.finish(ctx, aiPartial, rawURL, page, preview), nil
	}
	if structuredPartial != nil {
		log.Debug().Str("stage", "merge").Msg("returning partial structured result")
		return o.finish(ctx, structuredPartial, rawURL, page, preview), nil
	}

	// Step 5: nothing worked at all.
	log.Info().Str("url", rawURL).Msg("no extractor produced a result")
	return recipe.Placeholder(preview, o.resolve(rawURL)), nil
}

// attempt runs one extractor, translating faults into "no result".
func (o *Orchestrator) attempt(ctx context.Context, e Extractor, rawURL string, page *fetch.Page) *recipe.Recipe {
	if e == nil {
		return nil
	}
	r, err := e.Attempt(ctx, rawURL, page)
	if err != nil {
		log.Error().Err(err).Str("extractor", e.Name()).Msg("extractor fault, continuing without it")
		return nil
	}
	return r
}

// finish applies the backfill step, guarantees non-empty list fields,
// derives the structured ingredient records, and tags the recipe when a
// categorizer is configured. The recipe is not mutated after finish returns.
func (o *Orchestrator) finish(ctx context.Context, r *recipe.Recipe, rawURL string, page *fetch.Page, preview string) *recipe.Recipe {
	if r.Image == "" {
		r.Image = preview
	}
	if r.Source == "" {
		r.Source = o.resolve(rawURL)
	}

	structurable := len(r.Ingredients) > 0
	if len(r.Ingredients) == 0 {
		r.Ingredients = []string{recipe.PlaceholderIngredients}
	}
	if len(r.Instructions) == 0 {
		r.Instructions = []string{recipe.PlaceholderInstructions}
	}

	r.RawIngredients = []string{}
	r.RawIngredientsDetailed = []recipe.Ingredient{}
	if structurable && o.Structurer != nil {
		records, err := o.Structurer.Structure(r.Ingredients)
		if err != nil {
			// Structuring is best-effort: the recipe still goes out, just
			// without the derived shopping fields.
			log.Warn().Err(err).Msg("ingredient structuring failed")
		} else if records != nil {
			r.RawIngredients = ingredient.Names(records)
			r.RawIngredientsDetailed = records
		}
	}

	if o.Categorizer != nil && o.Categorizer.Available() && r.HasRealTitle() {
		if cat := o.Categorizer.Categorize(ctx, r); cat != nil {
			r.Categorize(cat)
		} else {
			log.Warn().Str("url", rawURL).Msg("categorization failed, returning the base recipe")
		}
	}
	return r
}

func (o *Orchestrator) resolve(rawURL string) string {
	if o.Sources == nil {
		return ""
	}
	return o.Sources.Resolve(rawURL)
}
