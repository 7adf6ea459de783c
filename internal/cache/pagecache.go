// Package cache stores fetched pages and model responses on disk so that
// repeated parses of the same URL skip the network and the paid model call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageEntry captures the metadata stored alongside a cached page body.
type PageEntry struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SavedAt     time.Time `json:"saved_at"`
}

// PageCache stores fetched pages on disk as <key>.meta.json and <key>.body
// where key is sha256(url). It is a simple, deterministic cache with no
// eviction policy beyond age-based purging.
type PageCache struct {
	Dir string
}

func (c *PageCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *PageCache) key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *PageCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *PageCache) bodyPath(key string) string { return filepath.Join(c.Dir, key+".body") }

// Load returns the cached body for the URL when an entry exists and is no
// older than maxAge. A zero maxAge means entries never expire.
func (c *PageCache) Load(_ context.Context, url string, maxAge time.Duration) ([]byte, bool, error) {
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}
	key := c.key(url)
	f, err := os.Open(c.metaPath(key))
	if err != nil {
		return nil, false, nil
	}
	defer f.Close()
	var e PageEntry
	if err := json.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, nil
	}
	if maxAge > 0 && time.Now().UTC().Sub(e.SavedAt) > maxAge {
		return nil, false, nil
	}
	body, err := os.ReadFile(c.bodyPath(key))
	if err != nil {
		return nil, false, nil
	}
	return body, true, nil
}

// Save stores a new cache entry to disk.
func (c *PageCache) Save(_ context.Context, url string, contentType string, body []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	key := c.key(url)
	// Write body first
	if err := os.WriteFile(c.bodyPath(key), body, 0o644); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta := PageEntry{
		URL:         url,
		ContentType: contentType,
		SavedAt:     time.Now().UTC(),
	}
	tmp := c.metaPath(key) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create meta: %w", err)
	}
	if err := json.NewEncoder(f).Encode(&meta); err != nil {
		f.Close()
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath(key))
}
