package scrape

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/forkful/internal/fetch"
)

func pageFrom(t *testing.T, rawURL, html string) *fetch.Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return &fetch.Page{URL: u, Body: []byte(html), Doc: doc}
}

func TestAttempt_WPRMPluginMarkup(t *testing.T) {
	html := `<html><body><div class="wprm-recipe">
		<h2 class="wprm-recipe-name">Lemon Pasta</h2>
		<div class="wprm-recipe-summary">Bright and quick.</div>
		<div class="wprm-recipe-image"><img src="https://blog.example/pasta.jpg"></div>
		<ul>
			<li class="wprm-recipe-ingredient">200 g spaghetti</li>
			<li class="wprm-recipe-ingredient">1 lemon</li>
			<li class="wprm-recipe-ingredient">50 g parmesan</li>
		</ul>
		<div class="wprm-recipe-instruction-text">Cook the pasta until al dente.</div>
		<div class="wprm-recipe-instruction-text">Toss with lemon zest and cheese.</div>
	</div></body></html>`

	e := &Extractor{}
	r, err := e.Attempt(context.Background(), "https://some-food-blog.example/lemon-pasta", pageFrom(t, "https://some-food-blog.example/lemon-pasta", html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected plugin rule match")
	}
	if r.Title != "Lemon Pasta" {
		t.Errorf("title = %q", r.Title)
	}
	if len(r.Ingredients) != 3 || len(r.Instructions) != 2 {
		t.Errorf("got %d ingredients, %d instructions", len(r.Ingredients), len(r.Instructions))
	}
	if r.Image != "https://blog.example/pasta.jpg" {
		t.Errorf("image = %q", r.Image)
	}
	if !r.FoundStructuredData || r.UsedAI {
		t.Errorf("flags: structured=%v ai=%v", r.FoundStructuredData, r.UsedAI)
	}
}

func TestAttempt_HostRule(t *testing.T) {
	html := `<html><body>
		<h1 class="heading-1">Sticky Toffee Pudding</h1>
		<section class="recipe__ingredients"><ul>
			<li>200g dates</li><li>175g flour</li><li>2 eggs</li>
		</ul></section>
		<section class="recipe__method-steps"><ul>
			<li><p>Soak the dates in boiling water.</p></li>
			<li><p>Bake for 35 minutes.</p></li>
		</ul></section>
	</body></html>`

	e := &Extractor{}
	r, _ := e.Attempt(context.Background(), "https://www.bbcgoodfood.com/recipes/sticky-toffee", pageFrom(t, "https://www.bbcgoodfood.com/recipes/sticky-toffee", html))
	if r == nil {
		t.Fatal("expected host rule match")
	}
	if r.Title != "Sticky Toffee Pudding" {
		t.Errorf("title = %q", r.Title)
	}
	if len(r.Ingredients) != 3 {
		t.Errorf("ingredients = %v", r.Ingredients)
	}
}

func TestAttempt_NoMatchYieldsNil(t *testing.T) {
	html := `<html><body><h1>Just an article</h1><p>Nothing to cook here.</p></body></html>`
	e := &Extractor{}
	r, err := e.Attempt(context.Background(), "https://unknown.example/post", pageFrom(t, "https://unknown.example/post", html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil, got %+v", r)
	}
}

func TestAttempt_TitleAloneIsNotAMatch(t *testing.T) {
	html := `<html><body><h2 class="wprm-recipe-name">Orphan Title</h2></body></html>`
	e := &Extractor{}
	r, _ := e.Attempt(context.Background(), "https://blog.example/x", pageFrom(t, "https://blog.example/x", html))
	if r != nil {
		t.Fatalf("expected nil for title-only match, got %+v", r)
	}
}
