package fetch

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PreviewImage returns the page's best-effort preview image, or "" when the
// page advertises none. Priority: og:image, twitter:image, itemprop=image
// meta, then a large or recipe-suggestive <img> inside the main content.
func (p *Page) PreviewImage() string {
	if p == nil || p.Doc == nil {
		return ""
	}
	metaSelectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[itemprop="image"]`,
	}
	for _, sel := range metaSelectors {
		if content, ok := p.Doc.Find(sel).First().Attr("content"); ok {
			if c := strings.TrimSpace(content); c != "" {
				return p.absolute(c)
			}
		}
	}
	return p.contentImage()
}

// contentImage scans main/article for an image that looks like the recipe
// photo: either large by declared dimensions, or with food-related alt text.
func (p *Page) contentImage() string {
	var root *goquery.Selection
	for _, tag := range []string{"main", "article"} {
		sel := p.Doc.Find(tag)
		if sel.Length() > 0 {
			root = sel.First()
			break
		}
	}
	if root == nil {
		return ""
	}

	found := ""
	root.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			// Lazy-loaded images carry the real URL in data-src.
			src, ok = img.Attr("data-src")
			if !ok || strings.TrimSpace(src) == "" {
				return true
			}
		}
		src = p.absolute(strings.TrimSpace(src))

		w, werr := strconv.Atoi(img.AttrOr("width", ""))
		h, herr := strconv.Atoi(img.AttrOr("height", ""))
		if werr == nil && herr == nil && w >= 300 && h >= 200 {
			found = src
			return false
		}
		alt := strings.ToLower(img.AttrOr("alt", ""))
		for _, kw := range []string{"recipe", "dish", "food", "cooking"} {
			if strings.Contains(alt, kw) {
				found = src
				return false
			}
		}
		return true
	})
	return found
}

// absolute resolves a possibly relative URL against the page URL.
func (p *Page) absolute(ref string) string {
	if p.URL == nil || !strings.HasPrefix(ref, "/") {
		return ref
	}
	u, err := p.URL.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
