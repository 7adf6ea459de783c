package ingredient

import (
	"errors"
	"reflect"
	"testing"
)

func TestStructure_ShoppingDisplay(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"2 cups flour"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Quantity != "2" || r.Unit != "cups" || r.Name != "flour" {
		t.Fatalf("parsed %+v", r)
	}
	if r.Display != "2 cups flour" {
		t.Errorf("display = %q", r.Display)
	}
}

func TestStructure_AbsentParts(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"2 lemons", "paprika"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Display != "2 lemons" {
		t.Errorf("unit-absent display = %q", recs[0].Display)
	}
	if recs[1].Display != "paprika" {
		t.Errorf("quantity-absent display = %q", recs[1].Display)
	}
}

func TestStructure_Idempotent(t *testing.T) {
	s := NewStructurer()
	lines := []string{"3 1/2 pounds pumpkin", "¼ cup olive oil", "2 eggs", "salt, to taste"}

	first, err := s.Structure(lines)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := s.Structure(lines)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("structure is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestStructure_UnicodeFractions(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"¼ cup olive oil"})
	if err != nil || len(recs) != 1 {
		t.Fatalf("got %v, %v", recs, err)
	}
	if recs[0].Quantity != "¼" {
		t.Errorf("quantity = %q, want unicode fraction", recs[0].Quantity)
	}
	if recs[0].Name != "olive oil" {
		t.Errorf("name = %q", recs[0].Name)
	}
}

func TestStructure_MixedNumberDisplay(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"3 1/2 pounds pumpkin", "1/2 pound pumpkin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same name and unit: quantities combine to 4.
	if len(recs) != 1 {
		t.Fatalf("expected consolidation into 1 record, got %d: %+v", len(recs), recs)
	}
	if recs[0].Quantity != "4" {
		t.Errorf("combined quantity = %q, want 4", recs[0].Quantity)
	}
	if recs[0].Display != "4 lb pumpkin" {
		t.Errorf("display = %q", recs[0].Display)
	}
}

func TestStructure_ConsolidatesVariants(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"1 whole egg (whisked)", "3 eggs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 consolidated record, got %d: %+v", len(recs), recs)
	}
	if recs[0].Name != "eggs" || recs[0].Quantity != "4" {
		t.Errorf("consolidated = %+v", recs[0])
	}
}

func TestStructure_DifferentUnitsStaySeparate(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"1 tablespoon butter", "1 cup butter (cold)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for different units, got %d: %+v", len(recs), recs)
	}
}

func TestStructure_WaterFiltered(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"2 cups water", "1 cup rice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "rice" {
		t.Fatalf("expected water filtered out, got %+v", recs)
	}
}

func TestStructure_LowConfidenceFallback(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"hummus or goat cheese"})
	if err != nil || len(recs) != 1 {
		t.Fatalf("got %v, %v", recs, err)
	}
	r := recs[0]
	if r.Name != "hummus or goat cheese" {
		t.Errorf("fallback should keep the original line, got %q", r.Name)
	}
	if r.Quantity != "" || r.Unit != "" {
		t.Errorf("fallback must clear quantity/unit, got %+v", r)
	}
	if r.Confidence >= FallbackThreshold {
		t.Errorf("confidence = %v, expected below threshold", r.Confidence)
	}
}

func TestStructure_Descriptors(t *testing.T) {
	s := NewStructurer()

	recs, err := s.Structure([]string{"2 cups fresh basil, chopped"})
	if err != nil || len(recs) != 1 {
		t.Fatalf("got %v, %v", recs, err)
	}
	r := recs[0]
	if r.Name != "basil" {
		t.Errorf("name = %q", r.Name)
	}
	want := map[string]bool{"fresh": true, "chopped": true}
	for _, d := range r.Descriptors {
		delete(want, d)
	}
	if len(want) != 0 {
		t.Errorf("missing descriptors %v in %v", want, r.Descriptors)
	}
}

type failingTagger struct{}

func (failingTagger) Tag(string) (Tagged, error) {
	return Tagged{}, errors.New("model file missing")
}

func TestStructure_TaggerFailureAbortsBatch(t *testing.T) {
	s := &Structurer{Tagger: failingTagger{}}

	recs, err := s.Structure([]string{"1 cup flour"})
	if err == nil {
		t.Fatal("expected batch error")
	}
	if recs != nil {
		t.Fatalf("expected no records on failure, got %+v", recs)
	}
}

func TestDisplayQuantity_MixedNumbers(t *testing.T) {
	cases := map[string]string{
		"7/2":  "3 ½",
		"5/4":  "1 ¼",
		"1/2":  "½",
		"3":    "3",
		"11/4": "2 ¾",
	}
	for in, want := range cases {
		if got := displayQuantity(in); got != want {
			t.Errorf("displayQuantity(%q) = %q, want %q", in, got, want)
		}
	}
}
