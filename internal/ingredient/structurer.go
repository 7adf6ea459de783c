// Package ingredient turns free-text ingredient lines into structured
// records usable for search and shopping lists.
package ingredient

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/forkful/forkful/internal/recipe"
)

// FallbackThreshold is the confidence below which a parse is not trusted:
// the record keeps the original line as its name and drops quantity/unit.
const FallbackThreshold = 0.6

// consolidation maps variant names onto one shopping-list entry. More
// specific entries come first so "brown sugar" is not swallowed by "sugar".
var consolidation = []struct {
	canonical string
	variants  []string
}{
	{"brown sugar", []string{"brown sugar", "dark brown sugar", "light brown sugar"}},
	{"sugar", []string{"sugar", "granulated sugar", "white sugar", "cane sugar"}},
	{"eggs", []string{"egg", "eggs", "whole egg", "whole eggs", "large egg", "large eggs"}},
	{"butter", []string{"butter", "unsalted butter", "salted butter"}},
	{"salt", []string{"salt", "kosher salt", "sea salt", "table salt", "fine salt"}},
	{"olive oil", []string{"olive oil", "extra virgin olive oil", "evoo"}},
}

// ignored ingredients never reach the shopping list.
var ignored = []string{"water"}

var asterisks = regexp.MustCompile(`\*+`)

// Structurer converts ingredient lines into recipe.Ingredient records via a
// line tagger. The zero Threshold means FallbackThreshold.
type Structurer struct {
	Tagger    Tagger
	Threshold float64
}

// NewStructurer builds a Structurer around the default heuristic tagger.
func NewStructurer() *Structurer {
	return &Structurer{Tagger: HeuristicTagger{}}
}

// Structure parses each line into a typed record, consolidating duplicate
// ingredients. A tagger failure aborts the whole batch with an error so
// the caller can degrade; individual unusable lines are just skipped.
func (s *Structurer) Structure(lines []string) ([]recipe.Ingredient, error) {
	if s.Tagger == nil {
		return nil, fmt.Errorf("structure ingredients: no tagger configured")
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = FallbackThreshold
	}

	var order []string
	groups := map[string][]recipe.Ingredient{}
	for _, line := range lines {
		rec, ok, err := s.one(line, threshold)
		if err != nil {
			return nil, fmt.Errorf("structure ingredients: %w", err)
		}
		if !ok {
			continue
		}
		if _, seen := groups[rec.Name]; !seen {
			order = append(order, rec.Name)
		}
		groups[rec.Name] = append(groups[rec.Name], rec)
	}

	var out []recipe.Ingredient
	for _, name := range order {
		out = append(out, consolidate(groups[name])...)
	}
	return out, nil
}

// one tags a single line. ok is false for lines that produce no record,
// like blank lines and ignored ingredients.
func (s *Structurer) one(line string, threshold float64) (recipe.Ingredient, bool, error) {
	original := strings.TrimSpace(line)
	if original == "" {
		return recipe.Ingredient{}, false, nil
	}

	tagged, err := s.Tagger.Tag(original)
	if err != nil {
		return recipe.Ingredient{}, false, err
	}
	if tagged.Name == "" {
		return recipe.Ingredient{}, false, nil
	}

	if tagged.Confidence < threshold {
		// The parse is not trusted: keep the original line whole so no
		// meaning is lost ("hummus or goat cheese" stays intact).
		log.Debug().Str("line", original).Float64("confidence", tagged.Confidence).Msg("low-confidence parse, keeping original text")
		rec := recipe.Ingredient{
			Name:        original,
			Descriptors: []string{},
			Original:    original,
			Confidence:  tagged.Confidence,
		}
		rec.Display = rec.ShoppingDisplay()
		return rec, true, nil
	}

	name, keep := normalizeName(tagged.Name)
	if !keep {
		return recipe.Ingredient{}, false, nil
	}

	rec := recipe.Ingredient{
		Name:        name,
		Quantity:    displayQuantity(tagged.Quantity),
		Unit:        tagged.Unit,
		Descriptors: tagged.Descriptors,
		Original:    original,
		Confidence:  tagged.Confidence,
	}
	if rec.Descriptors == nil {
		rec.Descriptors = []string{}
	}
	rec.Display = rec.ShoppingDisplay()
	if rec.Display == "" {
		rec.Display = original
	}
	return rec, true, nil
}

// normalizeName lowers and consolidates an ingredient name. keep is false
// for ingredients that are filtered out entirely.
func normalizeName(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSpace(asterisks.ReplaceAllString(n, ""))
	if n == "" {
		return "", false
	}
	for _, ig := range ignored {
		if strings.Contains(n, ig) {
			return "", false
		}
	}
	for _, group := range consolidation {
		for _, v := range group.variants {
			if strings.Contains(n, v) {
				return group.canonical, true
			}
		}
	}
	return n, true
}

// consolidate merges records that share a name and unit by adding their
// quantities; records with differing units stay separate.
func consolidate(group []recipe.Ingredient) []recipe.Ingredient {
	if len(group) <= 1 {
		return group
	}

	var order []string
	byUnit := map[string][]recipe.Ingredient{}
	for _, rec := range group {
		if _, seen := byUnit[rec.Unit]; !seen {
			order = append(order, rec.Unit)
		}
		byUnit[rec.Unit] = append(byUnit[rec.Unit], rec)
	}

	var out []recipe.Ingredient
	for _, unit := range order {
		members := byUnit[unit]
		if len(members) == 1 {
			out = append(out, members[0])
			continue
		}
		merged := members[0]
		originals := []string{members[0].Original}
		for _, m := range members[1:] {
			merged.Quantity = combineQuantities(merged.Quantity, m.Quantity)
			merged.Descriptors = appendUnique(merged.Descriptors, m.Descriptors)
			if m.Confidence < merged.Confidence {
				merged.Confidence = m.Confidence
			}
			originals = append(originals, m.Original)
		}
		merged.Original = "Combined: " + strings.Join(originals, ", ")
		merged.Display = merged.ShoppingDisplay()
		out = append(out, merged)
	}
	return out
}

func appendUnique(dst, src []string) []string {
	seen := map[string]struct{}{}
	for _, d := range dst {
		seen[d] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; !ok {
			dst = append(dst, s)
			seen[s] = struct{}{}
		}
	}
	return dst
}

// Names extracts the normalized names for the raw_ingredients field.
func Names(records []recipe.Ingredient) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}
