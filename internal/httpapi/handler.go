// Package httpapi exposes the extraction pipeline over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/categorize"
	"github.com/forkful/forkful/internal/recipe"
)

// Parser is the pipeline surface the handlers need.
type Parser interface {
	Parse(ctx context.Context, rawURL string) (*recipe.Recipe, error)
	Debug(ctx context.Context, rawURL string) recipe.DebugInfo
}

// Categorizer tags an already-parsed recipe. Available reports whether the
// model behind it can be called at all.
type Categorizer interface {
	Available() bool
	Categorize(ctx context.Context, r *recipe.Recipe) *recipe.Categorization
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Parser      Parser
	Categorizer Categorizer
	AIAvailable bool
	AIModel     string
}

// NewHandler creates a new HTTP handler around the pipeline.
func NewHandler(parser Parser, categorizer Categorizer, aiAvailable bool, aiModel string) *Handler {
	return &Handler{Parser: parser, Categorizer: categorizer, AIAvailable: aiAvailable, AIModel: aiModel}
}

type parseRequest struct {
	URL string `json:"url" binding:"required"`
}

// ParseRecipe extracts a recipe from the URL in the request body. A page
// that cannot be fetched is a server-side failure; a page with no recipe
// on it still returns 200 with placeholder content.
func (h *Handler) ParseRecipe(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a url field"})
		return
	}
	if !usableURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http or https URL"})
		return
	}

	r, err := h.Parser.Parse(c.Request.Context(), req.URL)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Msg("parse request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch or parse the page: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// DebugRecipe reports what the structured-data scan sees on the page
// without running the full pipeline.
func (h *Handler) DebugRecipe(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a url field"})
		return
	}
	if !usableURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http or https URL"})
		return
	}

	c.JSON(http.StatusOK, h.Parser.Debug(c.Request.Context(), req.URL))
}

// CategorizeRecipe tags an already-parsed recipe posted in the request
// body. It requires the categorization model to be configured.
func (h *Handler) CategorizeRecipe(c *gin.Context) {
	if h.Categorizer == nil || !h.Categorizer.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI categorization service not available"})
		return
	}

	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a recipe object"})
		return
	}

	cat := h.Categorizer.Categorize(c.Request.Context(), &r)
	if cat == nil {
		log.Error().Str("title", r.Title).Msg("categorization request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI categorization failed"})
		return
	}
	r.Categorize(cat)
	c.JSON(http.StatusOK, &r)
}

// Categories lists the tag vocabularies clients can filter on. The lists
// are empty when the categorization model is not configured.
func (h *Handler) Categories(c *gin.Context) {
	if h.Categorizer == nil || !h.Categorizer.Available() {
		c.JSON(http.StatusOK, gin.H{
			"health_tags":   []string{},
			"dish_types":    []string{},
			"cuisine_types": []string{},
			"meal_types":    []string{},
			"seasons":       []string{},
			"ai_available":  false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"health_tags":   categorize.HealthTags,
		"dish_types":    categorize.DishTypes,
		"cuisine_types": categorize.CuisineTypes,
		"meal_types":    categorize.MealTypes,
		"seasons":       categorize.Seasons,
		"ai_available":  true,
	})
}

// HealthCheck returns service health and AI availability.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                    "healthy",
		"service":                   "forkful",
		"ai_available":              h.AIAvailable,
		"ai_model":                  h.AIModel,
		"ai_categorization_enabled": h.Categorizer != nil && h.Categorizer.Available(),
	})
}

func usableURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
