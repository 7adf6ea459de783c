// Package source maps recipe URLs to human-readable site names.
package source

import (
	_ "embed"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var curatedYAML []byte

// Resolver turns a URL into a site display name. The curated table is
// immutable after construction; a Resolver is safe for concurrent use.
type Resolver struct {
	curated map[string]string
	caser   cases.Caser
}

// NewResolver loads the embedded curated table.
func NewResolver() *Resolver {
	curated := map[string]string{}
	// The embedded table is validated by tests; a broken entry just means
	// the fallback derivation is used for that host.
	_ = yaml.Unmarshal(curatedYAML, &curated)
	return &Resolver{curated: curated, caser: cases.Title(language.English)}
}

// Resolve returns the display name for the URL's host. It never fails:
// unknown hosts get a name derived from the domain, and unusable input
// degrades to an empty string.
func (r *Resolver) Resolve(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if name, ok := r.curated[host]; ok {
		return name
	}
	return r.deriveName(host)
}

// deriveName builds a readable name from the registrable domain label:
// "example-blog.net" becomes "Example Blog".
func (r *Resolver) deriveName(host string) string {
	labels := strings.Split(host, ".")
	label := ""
	for _, l := range labels {
		if l != "" {
			label = l
			break
		}
	}
	if len(labels) >= 2 {
		// Prefer the label in front of the TLD.
		for i := len(labels) - 2; i >= 0; i-- {
			if labels[i] != "" {
				label = labels[i]
				break
			}
		}
	}
	if label == "" {
		return ""
	}
	tokens := strings.FieldsFunc(label, func(c rune) bool {
		return c == '-' || c == '_' || c == '.'
	})
	if len(tokens) == 0 {
		return ""
	}
	return r.caser.String(strings.Join(tokens, " "))
}
