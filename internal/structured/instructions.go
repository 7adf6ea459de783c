package structured

import (
	"regexp"
	"strings"
)

// Instruction text shorter than this after splitting is treated as noise.
const minStepLength = 20

// stepIndicators are phrases that suggest a string holds several cooking
// steps mashed together.
var stepIndicators = []string{
	"To Prep", "To Cook", "To Serve", "Step 1", "Step 2",
	"Heat some", "Next", "Then", "When", "After",
	"1.", "2.", "3.", "4.", "5.",
}

// stepBoundary matches the start of a phrase that usually begins a new step.
var stepBoundary = regexp.MustCompile(`To Prep|To Cook|To Serve|\bNext\b|\bThen\b|\b\d+\.\s`)

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// looksConcatenated reports whether text probably holds multiple steps:
// either several step indicators appear, or the text is very long.
func looksConcatenated(text string) bool {
	found := 0
	for _, indicator := range stepIndicators {
		if strings.Contains(text, indicator) {
			found++
		}
	}
	return found >= 2 || len(text) > 500
}

// splitInstructions breaks a concatenated instruction string into separate
// steps: first on blank lines, then before step-boundary phrases. Short
// fragments are dropped; if nothing substantial survives, the original text
// is kept as a single step.
func splitInstructions(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	parts := blankLines.Split(text, -1)
	var steps []string
	for _, part := range parts {
		steps = append(steps, splitAtBoundaries(part)...)
	}

	var out []string
	for _, s := range steps {
		s = strings.TrimSpace(s)
		if len(s) > minStepLength {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// splitAtBoundaries cuts the text right before each boundary match, so the
// boundary phrase stays attached to the step it opens.
func splitAtBoundaries(text string) []string {
	locs := stepBoundary.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	var parts []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			parts = append(parts, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	parts = append(parts, text[prev:])
	return parts
}
