package ingredient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unicode vulgar fractions and their ASCII forms, both directions. Input is
// normalized to ASCII for parsing; display converts back to unicode.
var unicodeFractions = map[string]string{
	"½": "1/2", "⅓": "1/3", "⅔": "2/3", "¼": "1/4", "¾": "3/4",
	"⅕": "1/5", "⅖": "2/5", "⅗": "3/5", "⅘": "4/5", "⅙": "1/6", "⅚": "5/6",
	"⅛": "1/8", "⅜": "3/8", "⅝": "5/8", "⅞": "7/8",
}

var asciiFractions = func() map[string]string {
	m := make(map[string]string, len(unicodeFractions))
	for u, a := range unicodeFractions {
		m[a] = u
	}
	return m
}()

var fractionDash = regexp.MustCompile(`(\d+/\d+)-`)

// normalizeFractions rewrites unicode fractions as ASCII and unglues them
// from adjacent digits and dashes so "3½" and "1/2-inch" tokenize cleanly.
func normalizeFractions(text string) string {
	for u, a := range unicodeFractions {
		text = strings.ReplaceAll(text, u, " "+a)
	}
	text = fractionDash.ReplaceAllString(text, "$1 ")
	return strings.Join(strings.Fields(text), " ")
}

// frac is a non-negative rational quantity.
type frac struct {
	num, den int
}

// parseFrac reads "2", "1/2", "3 1/2", or "2.5". ok is false for anything
// else.
func parseFrac(s string) (frac, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return frac{}, false
	}
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return parseSingle(fields[0])
	case 2:
		whole, ok1 := parseSingle(fields[0])
		part, ok2 := parseSingle(fields[1])
		if !ok1 || !ok2 || whole.den != 1 {
			return frac{}, false
		}
		return add(whole, part), true
	}
	return frac{}, false
}

func parseSingle(s string) (frac, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.Atoi(num)
		d, err2 := strconv.Atoi(den)
		if err1 != nil || err2 != nil || d == 0 || n < 0 {
			return frac{}, false
		}
		return reduce(frac{n, d}), true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return frac{n, 1}, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		// Decimals map onto the usual kitchen denominators.
		const den = 16
		return reduce(frac{int(f*den + 0.5), den}), true
	}
	return frac{}, false
}

func add(a, b frac) frac {
	return reduce(frac{a.num*b.den + b.num*a.den, a.den * b.den})
}

func reduce(f frac) frac {
	g := gcd(f.num, f.den)
	if g == 0 {
		return f
	}
	return frac{f.num / g, f.den / g}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// display renders the fraction for humans: improper fractions become mixed
// numbers, and known fractional parts use their unicode form ("7/2" reads
// as "3 ½").
func (f frac) display() string {
	if f.den == 0 {
		return ""
	}
	f = reduce(f)
	if f.den == 1 {
		return strconv.Itoa(f.num)
	}
	whole := f.num / f.den
	rem := f.num % f.den
	part := fmt.Sprintf("%d/%d", rem, f.den)
	if u, ok := asciiFractions[part]; ok {
		part = u
	}
	if whole == 0 {
		return part
	}
	return fmt.Sprintf("%d %s", whole, part)
}

// displayQuantity renders a raw quantity string for humans, passing through
// anything that does not parse as a number.
func displayQuantity(raw string) string {
	f, ok := parseFrac(normalizeFractions(raw))
	if !ok {
		return raw
	}
	return f.display()
}

// combineQuantities adds two display quantities. When either side is not
// numeric the two are joined with a plus sign rather than silently dropped.
func combineQuantities(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	fa, ok1 := parseFrac(normalizeFractions(a))
	fb, ok2 := parseFrac(normalizeFractions(b))
	if !ok1 || !ok2 {
		return a + " + " + b
	}
	return add(fa, fb).display()
}
