package ingredient

import (
	"regexp"
	"strings"
)

// Tagged is the raw output of a line tagger: the pieces of one free-text
// ingredient line. Confidence is on a fixed 0.0-1.0 scale.
type Tagged struct {
	Name        string
	Quantity    string
	Unit        string
	Descriptors []string
	Confidence  float64
}

// Tagger turns one free-text ingredient line into tagged components.
// Implementations must be safe for concurrent use.
type Tagger interface {
	Tag(line string) (Tagged, error)
}

// units recognized by the heuristic tagger, keyed by their singular form.
var units = map[string]string{
	"cup": "cup", "cups": "cups",
	"tablespoon": "tablespoon", "tablespoons": "tablespoons", "tbsp": "tbsp",
	"teaspoon": "teaspoon", "teaspoons": "teaspoons", "tsp": "tsp",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml",
	"liter": "l", "liters": "l", "l": "l",
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"clove": "clove", "cloves": "cloves",
	"can": "can", "cans": "cans",
	"slice": "slice", "slices": "slices",
	"bunch": "bunch", "bunches": "bunch",
	"stick": "stick", "sticks": "sticks",
	"head": "head", "heads": "head",
	"sprig": "sprig", "sprigs": "sprigs",
	"package": "package", "packages": "packages", "pkg": "package",
}

// descriptorWords are preparation or state modifiers that belong in the
// descriptors list, not the ingredient name.
var descriptorWords = map[string]struct{}{
	"chopped": {}, "minced": {}, "diced": {}, "sliced": {}, "grated": {},
	"shredded": {}, "melted": {}, "softened": {}, "crushed": {}, "peeled": {},
	"fresh": {}, "dried": {}, "frozen": {}, "cooked": {}, "raw": {},
	"large": {}, "small": {}, "medium": {}, "ripe": {}, "cold": {},
	"warm": {}, "whole": {}, "ground": {}, "toasted": {}, "roasted": {},
	"finely": {}, "coarsely": {}, "thinly": {}, "roughly": {}, "sifted": {},
}

var parenthetical = regexp.MustCompile(`\(([^)]*)\)`)

// HeuristicTagger is the default line tagger: a rule-based reading of the
// conventional "quantity unit name, preparation" layout of ingredient
// lines. It covers the common shapes well; lines it cannot read with
// reasonable confidence are flagged so callers fall back to the raw text.
type HeuristicTagger struct{}

// Tag implements Tagger.
func (HeuristicTagger) Tag(line string) (Tagged, error) {
	original := strings.TrimSpace(line)
	if original == "" {
		return Tagged{}, nil
	}

	text := normalizeFractions(original)

	// Parentheticals hold descriptors: "1 cup butter (cold)".
	var descriptors []string
	text = parenthetical.ReplaceAllStringFunc(text, func(m string) string {
		inner := strings.Trim(m, "()")
		descriptors = append(descriptors, splitDescriptors(inner)...)
		return ""
	})

	// Everything after the first comma is preparation: "flour, sifted".
	if head, tail, ok := strings.Cut(text, ","); ok {
		descriptors = append(descriptors, splitDescriptors(tail)...)
		text = head
	}

	tokens := strings.Fields(text)
	quantity, tokens := takeQuantity(tokens)
	unit, tokens := takeUnit(tokens)

	// Leading modifiers on the name move to descriptors: "fresh basil".
	name := []string{}
	for _, tok := range tokens {
		lower := strings.ToLower(strings.Trim(tok, ".,;"))
		if _, isDesc := descriptorWords[lower]; isDesc {
			descriptors = append(descriptors, lower)
			continue
		}
		name = append(name, tok)
	}

	t := Tagged{
		Name:        strings.TrimSpace(strings.Join(name, " ")),
		Quantity:    quantity,
		Unit:        unit,
		Descriptors: descriptors,
		Confidence:  confidence(quantity, unit, name, original),
	}
	return t, nil
}

// takeQuantity consumes a leading amount: "2", "1/2", "3 1/2", "2.5".
func takeQuantity(tokens []string) (string, []string) {
	if len(tokens) == 0 {
		return "", tokens
	}
	if _, ok := parseFrac(tokens[0]); !ok {
		return "", tokens
	}
	if len(tokens) > 1 {
		if combined, ok := parseFrac(tokens[0] + " " + tokens[1]); ok {
			return combined.display(), tokens[2:]
		}
	}
	f, _ := parseFrac(tokens[0])
	return f.display(), tokens[1:]
}

func takeUnit(tokens []string) (string, []string) {
	if len(tokens) == 0 {
		return "", tokens
	}
	if u, ok := units[strings.ToLower(strings.Trim(tokens[0], "."))]; ok {
		return u, tokens[1:]
	}
	return "", tokens
}

func splitDescriptors(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if p := strings.TrimSpace(part); len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

// confidence scores how well the line matched the expected layout.
// Alternatives ("hummus or goat cheese") and structure-free lines score
// below the fallback threshold on purpose.
func confidence(quantity, unit string, name []string, original string) float64 {
	if len(name) == 0 {
		return 0.0
	}
	lowered := " " + strings.ToLower(original) + " "
	if strings.Contains(lowered, " or ") || strings.Contains(lowered, " and/or ") {
		return 0.4
	}
	switch {
	case quantity != "" && unit != "":
		return 0.95
	case quantity != "":
		return 0.85
	case len(name) <= 3:
		return 0.7
	default:
		return 0.5
	}
}
