package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forkful/forkful/internal/cache"
)

func TestFetch_ServesFromCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>Cached Dish</h1></body></html>"))
	}))
	defer srv.Close()

	c := &Client{Cache: &cache.PageCache{Dir: t.TempDir()}}

	first, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
	if string(first.Body) != string(second.Body) {
		t.Error("cached body differs from fetched body")
	}
	if second.Doc.Find("h1").Text() != "Cached Dish" {
		t.Errorf("cached doc not parsed: %q", second.Doc.Find("h1").Text())
	}
}

func TestFetch_CacheMissStillFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>fresh</body></html>"))
	}))
	defer srv.Close()

	c := &Client{Cache: &cache.PageCache{Dir: t.TempDir()}}
	page, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Body) == 0 {
		t.Error("empty body")
	}
}
