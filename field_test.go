package settings

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-factory-settings/rational"
)

func TestParseTargets(t *testing.T) {
	specs, err := ParseTargets("ironOre:f:2:smelt_iron_ingot,itemA:r:30,itemB:f:1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	expected := []TargetSpec{
		{ItemKey: "ironOre", Kind: TargetBuildings, Amount: "2", RecipeKey: "smelt_iron_ingot"},
		{ItemKey: "itemA", Kind: TargetRate, Amount: "30"},
		{ItemKey: "itemB", Kind: TargetBuildings, Amount: "1"},
	}
	if !reflect.DeepEqual(specs, expected) {
		t.Fatalf("unexpected specs:\n got %+v\nwant %+v", specs, expected)
	}
}

func TestParseTargetsRateIgnoresRecipe(t *testing.T) {
	specs, err := ParseTargets("itemA:r:30:recipeX")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if specs[0].RecipeKey != "" {
		t.Fatalf("expected rate target to drop recipe, got %q", specs[0].RecipeKey)
	}
}

func TestParseTargetsUnknownKindFailsWholeValue(t *testing.T) {
	for _, value := range []string{"itemA:x", "itemA:f:1,itemB:q:2", "itemA"} {
		specs, err := ParseTargets(value)
		if !errors.Is(err, ErrUnknownTargetKind) {
			t.Fatalf("%q: expected ErrUnknownTargetKind, got %v", value, err)
		}
		if specs != nil {
			t.Fatalf("%q: expected no specs, got %+v", value, specs)
		}
		if !IsFatal(err) {
			t.Fatalf("%q: expected fatal error", value)
		}
	}
}

func TestParsePriorityWeighted(t *testing.T) {
	tiers, err := ParsePriority("a=1,b=2;c=3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tiers) != 2 || len(tiers[0]) != 2 || len(tiers[1]) != 1 {
		t.Fatalf("unexpected tier shape: %+v", tiers)
	}
	checks := []struct {
		tier, index int
		key         string
		weight      int64
	}{
		{0, 0, "a", 1},
		{0, 1, "b", 2},
		{1, 0, "c", 3},
	}
	for _, c := range checks {
		entry := tiers[c.tier][c.index]
		if entry.Key != c.key || !entry.Weight.Equal(rational.FromInt(c.weight)) {
			t.Fatalf("tier %d entry %d: got %s=%s", c.tier, c.index, entry.Key, entry.Weight)
		}
	}
}

func TestParsePriorityRationalWeights(t *testing.T) {
	tiers, err := ParsePriority("a=1/3,b=0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tiers[0][0].Weight.Equal(rational.FromFrac(1, 3)) || tiers[0][1].Weight.Sign() != 0 {
		t.Fatalf("unexpected weights: %+v", tiers)
	}
}

func TestParsePriorityIsAllOrNothing(t *testing.T) {
	cases := []struct {
		value string
		err   error
	}{
		{"a,b", ErrLegacyPriority},
		{"a=1;b", ErrLegacyPriority},
		{"a=1,b=x", ErrInvalidNumber},
		{"a=-1", ErrInvalidNumber},
		{"=1", ErrMalformedEntry},
		{"a=1=2", ErrInvalidNumber},
	}
	for _, tc := range cases {
		tiers, err := ParsePriority(tc.value)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%q: expected %v, got %v", tc.value, tc.err, err)
		}
		if tiers != nil {
			t.Fatalf("%q: expected no partial tiers, got %+v", tc.value, tiers)
		}
	}
}

func TestParseOverclockConvertsPercent(t *testing.T) {
	entries, errs := ParseOverclock("recipeX:150,recipeY:33.5,bad,recipeZ:abc,recipeW:0")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].RecipeKey != "recipeX" || !entries[0].Value.Equal(rational.FromFrac(3, 2)) {
		t.Fatalf("unexpected first entry: %s=%s", entries[0].RecipeKey, entries[0].Value)
	}
	if !entries[1].Value.Equal(rational.FromFrac(67, 200)) {
		t.Fatalf("expected 67/200, got %s", entries[1].Value)
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if !errors.Is(errs[0], ErrMalformedEntry) || !errors.Is(errs[1], ErrInvalidNumber) || !errors.Is(errs[2], ErrInvalidNumber) {
		t.Fatalf("unexpected error kinds: %v", errs)
	}
}

func TestParseAmplifiersRequiresIntegers(t *testing.T) {
	entries, errs := ParseAmplifiers("recipeX:2,recipeY:1.5,recipeZ:-1")
	if len(entries) != 1 || !entries[0].Value.Equal(rational.FromInt(2)) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestParseMiners(t *testing.T) {
	specs, errs := ParseMiners("iron_ore:minerMk2:2,water:waterPump,iron_ore:minerMk1:x")
	expected := []MinerSpec{{RecipeKey: "iron_ore", MinerKey: "minerMk2", PurityIndex: 2}}
	if !reflect.DeepEqual(specs, expected) {
		t.Fatalf("unexpected specs: %+v", specs)
	}
	if len(errs) != 2 || !errors.Is(errs[0], ErrMalformedEntry) || !errors.Is(errs[1], ErrInvalidNumber) {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestParseTitle(t *testing.T) {
	title, err := ParseTitle("My%20Factory+Plan")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if title != "My Factory+Plan" {
		t.Fatalf("unexpected title %q", title)
	}
	if _, err := ParseTitle("bad%zz"); !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry, got %v", err)
	}
	for _, value := range []string{"%FF%FE", "%C3%28", "caf%C3"} {
		if _, err := ParseTitle(value); !errors.Is(err, ErrMalformedEntry) {
			t.Fatalf("%q: expected ErrMalformedEntry for invalid UTF-8, got %v", value, err)
		}
	}
	if title, err := ParseTitle("caf%C3%A9"); err != nil || title != "café" {
		t.Fatalf("expected café, got %q (%v)", title, err)
	}
}

func TestParseKeyListDropsEmptySegments(t *testing.T) {
	if got := ParseKeyList(",a,,b,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	if got := ParseKeyList(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestParseScalars(t *testing.T) {
	if unit, err := ParseRateUnit("h"); err != nil || unit != "h" {
		t.Fatalf("rate unit: %q %v", unit, err)
	}
	if _, err := ParseRateUnit("d"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
	if n, err := ParsePrecision(KeyRatePrec, "0"); err != nil || n != 0 {
		t.Fatalf("precision: %d %v", n, err)
	}
	if _, err := ParsePrecision(KeyRatePrec, "-2"); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
	if format, err := ParseValueFormat("r"); err != nil || format != FormatRational {
		t.Fatalf("format: %q %v", format, err)
	}
	if _, err := ParseVisualizer(KeyVisType, "pie", VisualizerTypes); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}
