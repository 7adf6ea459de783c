package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/cache"
)

// Error is a page-retrieval failure. It is the only request-fatal error in
// the pipeline; StatusCode is zero for transport-level failures.
type Error struct {
	URL        string
	StatusCode int
	msg        string
}

func (e *Error) Error() string { return e.msg }

// Client retrieves pages with a declared user-agent and a bounded timeout.
// Failures are not retried; callers needing retries must wrap the pipeline.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds the whole request. Zero means no extra bound beyond
	// the HTTP client's own.
	Timeout time.Duration

	// Cache, when set, serves page bodies without hitting the network.
	// Entries older than CacheMaxAge are refetched; zero means no expiry.
	Cache       *cache.PageCache
	CacheMaxAge time.Duration
}

// Page is a fetched document: the raw bytes plus a parsed goquery tree.
type Page struct {
	URL  *url.URL
	Body []byte
	Doc  *goquery.Document
}

// Fetch issues a single GET and parses the response body. It fails with
// *Error on non-2xx status, unsupported schemes, or transport errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !isHTTPScheme(u) {
		return nil, &Error{URL: rawURL, msg: fmt.Sprintf("unsupported URL: %q", rawURL)}
	}

	if c.Cache != nil {
		if body, ok, err := c.Cache.Load(ctx, u.String(), c.CacheMaxAge); err == nil && ok {
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
			if err == nil {
				log.Debug().Str("url", rawURL).Msg("page served from cache")
				return &Page{URL: u, Body: body, Doc: doc}, nil
			}
		}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{URL: rawURL, msg: fmt.Sprintf("new request: %v", err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, msg: fmt.Sprintf("fetch %s: %v", rawURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode, msg: fmt.Sprintf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode, msg: fmt.Sprintf("read body: %v", err)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: rawURL, msg: fmt.Sprintf("parse html: %v", err)}
	}

	if c.Cache != nil {
		if err := c.Cache.Save(ctx, u.String(), resp.Header.Get("Content-Type"), body); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("page cache write failed")
		}
	}
	return &Page{URL: u, Body: body, Doc: doc}, nil
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
