package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-factory-settings/rational"
)

func TestSampleCatalogLoads(t *testing.T) {
	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if _, ok := c.Item("iron-ore"); !ok {
		t.Fatalf("expected iron-ore item")
	}
	belt, ok := c.Belt("belt1")
	if !ok {
		t.Fatalf("expected belt1")
	}
	if !belt.Rate.Equal(rational.FromInt(60)) {
		t.Fatalf("expected belt1 rate 60, got %s", belt.Rate)
	}
	purity, ok := c.Purity(0)
	if !ok || !purity.Factor.Equal(rational.FromFrac(1, 2)) {
		t.Fatalf("expected impure factor 1/2, got %+v ok=%v", purity, ok)
	}
	if len(c.Defaults().Priority) != 2 {
		t.Fatalf("expected two default priority tiers, got %d", len(c.Defaults().Priority))
	}
}

func TestLookupsReportMisses(t *testing.T) {
	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if _, ok := c.Recipe("nope"); ok {
		t.Fatalf("unknown recipe should miss")
	}
	if _, ok := c.Miner("smelter"); ok {
		t.Fatalf("non-miner building must not resolve as a miner")
	}
	if _, ok := c.Purity(3); ok {
		t.Fatalf("purity index past the end should miss")
	}
	if _, ok := c.Purity(-1); ok {
		t.Fatalf("negative purity index should miss")
	}
}

func TestNewRejectsDuplicateKeys(t *testing.T) {
	_, err := New(Document{Items: []Item{{Key: "a"}, {Key: "a"}}})
	if err == nil || !strings.Contains(err.Error(), "duplicate item") {
		t.Fatalf("expected duplicate item error, got %v", err)
	}
}

func TestNewRejectsDanglingDefaults(t *testing.T) {
	_, err := New(Document{Defaults: Defaults{Disabled: []string{"ghost"}}})
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected dangling default error, got %v", err)
	}
	_, err = New(Document{
		Recipes:   []Recipe{{Key: "r", Category: "mineral", Resource: true}},
		Buildings: []Building{{Key: "m", Category: "mineral", Miner: true}},
		Defaults:  Defaults{Miners: []MinerDefault{{Recipe: "r", Miner: "m", Purity: 2}}},
	})
	if err == nil || !strings.Contains(err.Error(), "purity") {
		t.Fatalf("expected purity range error, got %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("items:\n  - {key: a, nmae: typo}\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	if _, err := Load(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	out, err := c.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Load(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again.Document().Recipes) != len(c.Document().Recipes) {
		t.Fatalf("recipe count changed across round trip")
	}
	weight := again.Defaults().Priority[1][0].Weight
	if !weight.Equal(rational.One()) {
		t.Fatalf("expected weight 1 after round trip, got %s", weight)
	}
}

func TestDefaultsAreCopies(t *testing.T) {
	c, err := Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	d := c.Defaults()
	d.Disabled[0] = "mutated"
	d.Priority[0][0].Key = "mutated"
	if c.Defaults().Disabled[0] == "mutated" || c.Defaults().Priority[0][0].Key == "mutated" {
		t.Fatalf("Defaults must return detached copies")
	}
}
