package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/forkful/internal/fetch"
)

// noiseSelectors are removed before the prompt content is rendered; they
// contribute boilerplate, not recipe text.
var noiseSelectors = []string{
	"script", "style", "noscript", "iframe",
	"nav", "header", "footer", "aside",
	".nav", ".navigation", ".sidebar", ".footer", ".header",
	".ad", ".advertisement",
}

// contentSelectors are tried in order to isolate the recipe's main content.
var contentSelectors = []string{
	"main", ".main", ".content", ".post", ".entry", ".recipe", "article",
}

// MainContent renders the page's main content as plain text for the model
// prompt: noise elements removed, main/article preferred, body as fallback.
func MainContent(page *fetch.Page) string {
	if page == nil || page.Doc == nil {
		return ""
	}
	// Work on a clone so the shared document is left untouched.
	doc := goquery.CloneDocument(page.Doc)
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, sel := range contentSelectors {
		node := doc.Find(sel)
		if node.Length() > 0 {
			return collapse(node.First().Text())
		}
	}
	return collapse(doc.Find("body").Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
