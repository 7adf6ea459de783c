package cache

import (
	"context"
	"testing"
	"time"
)

func TestPageCache_RoundTrip(t *testing.T) {
	t.Parallel()
	c := &PageCache{Dir: t.TempDir()}

	if err := c.Save(context.Background(), "https://a.com/1", "text/html", []byte("body-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	body, ok, err := c.Load(context.Background(), "https://a.com/1", 0)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(body) != "body-1" {
		t.Errorf("body = %q", body)
	}
}

func TestPageCache_MissAndExpiry(t *testing.T) {
	t.Parallel()
	c := &PageCache{Dir: t.TempDir()}

	if _, ok, err := c.Load(context.Background(), "https://a.com/none", 0); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Save(context.Background(), "https://a.com/old", "text/html", []byte("stale")); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := c.Load(context.Background(), "https://a.com/old", 10*time.Millisecond); ok {
		t.Error("expected stale entry to read as a miss")
	}
	if _, ok, _ := c.Load(context.Background(), "https://a.com/old", time.Hour); !ok {
		t.Error("expected fresh-enough entry to hit")
	}
}

func TestResponseCache_RoundTrip(t *testing.T) {
	t.Parallel()
	c := &ResponseCache{Dir: t.TempDir()}
	key := KeyFrom("gpt-4o-mini", "some page content")

	if _, ok, err := c.Get(context.Background(), key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Save(context.Background(), key, []byte(`{"title":"Cached"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(b) != `{"title":"Cached"}` {
		t.Errorf("data = %s", b)
	}
}

func TestKeyFrom_DistinguishesModels(t *testing.T) {
	t.Parallel()
	if KeyFrom("model-a", "prompt") == KeyFrom("model-b", "prompt") {
		t.Error("different models must not share keys")
	}
	if KeyFrom("model-a", "prompt") != KeyFrom("model-a", "prompt") {
		t.Error("key must be deterministic")
	}
}

func TestPurgePagesByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &PageCache{Dir: dir}

	if err := c.Save(context.Background(), "https://a.com/1", "text/html", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	removed, err := PurgePagesByAge(dir, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok, _ := c.Load(context.Background(), "https://a.com/1", 0); ok {
		t.Error("purged entry still loads")
	}
}

func TestPurgeResponsesByAge_SkipsPageFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	pages := &PageCache{Dir: dir}
	responses := &ResponseCache{Dir: dir}

	if err := pages.Save(context.Background(), "https://a.com/1", "text/html", []byte("page")); err != nil {
		t.Fatalf("save page: %v", err)
	}
	if err := responses.Save(context.Background(), KeyFrom("m", "p"), []byte("{}")); err != nil {
		t.Fatalf("save response: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	removed, err := PurgeResponsesByAge(dir, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want only the response entry", removed)
	}
	if _, ok, _ := pages.Load(context.Background(), "https://a.com/1", 0); !ok {
		t.Error("page entry must survive response purge")
	}
}
