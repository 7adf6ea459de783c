package structured

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// findMicrodataRecipes scans the raw document for elements declaring
// itemscope with a schema.org Recipe itemtype and converts their itemprop
// values into the same generic shape the JSON-LD path produces.
func findMicrodataRecipes(body []byte) []map[string]any {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil || root == nil {
		return nil
	}
	var out []map[string]any
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode && isRecipeScope(n) {
			props := map[string]any{}
			collectProps(n, props, true)
			if len(props) > 0 {
				out = append(out, props)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(root)
	return out
}

func isRecipeScope(n *html.Node) bool {
	hasScope := false
	itemType := ""
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "itemscope":
			hasScope = true
		case "itemtype":
			itemType = a.Val
		}
	}
	return hasScope && strings.Contains(itemType, "Recipe")
}

// collectProps walks a recipe scope and accumulates itemprop values.
// Repeated properties become lists, matching the JSON-LD shape.
func collectProps(n *html.Node, props map[string]any, isRoot bool) {
	if n.Type == html.ElementNode && !isRoot {
		// Nested scopes (e.g. an embedded Review) keep their own props.
		if hasAttr(n, "itemscope") && !isRecipeScope(n) {
			return
		}
		if name := attrValue(n, "itemprop"); name != "" {
			if value := propValue(n); value != "" {
				appendProp(props, name, value)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectProps(c, props, false)
	}
}

func appendProp(props map[string]any, name, value string) {
	switch existing := props[name].(type) {
	case nil:
		props[name] = value
	case string:
		props[name] = []any{existing, value}
	case []any:
		props[name] = append(existing, value)
	}
}

// propValue picks the value an itemprop carries: content/src/href attributes
// for meta, img, and link elements, otherwise the element text.
func propValue(n *html.Node) string {
	for _, key := range []string{"content", "src", "href"} {
		if v := attrValue(n, key); v != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(nodeText(n))
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
