package settings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotFlattensConfiguration(t *testing.T) {
	cfg, _ := decodeLink(t, newTestDecoder(t),
		"items=ironOre:f:2:smelt_iron_ingot&ignore=water,itemA&overclock=recipeX:150&sloop=recipeX:3"+
			"&priority=a=1/2&disable=recipeX&rate=h&belt=belt2")
	snap := cfg.Snapshot()

	wantTargets := []any{map[string]any{
		"kind":   "f",
		"amount": "2",
		"item":   "ironOre",
		"recipe": "smelt_iron_ingot",
	}}
	if diff := cmp.Diff(wantTargets, snap["targets"]); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"itemA", "water"}, snap["ignore"]); diff != "" {
		t.Fatalf("ignore mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"recipeX": 1.5}, snap["overclock"]); diff != "" {
		t.Fatalf("overclock mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"recipeX": "3/2"}, snap["overclock_exact"]); diff != "" {
		t.Fatalf("overclock_exact mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"recipeX": 3}, snap["amplifiers"]); diff != "" {
		t.Fatalf("amplifiers mismatch (-want +got):\n%s", diff)
	}
	wantPriority := []any{[]any{map[string]any{"key": "a", "weight": 0.5, "weight_exact": "1/2"}}}
	if diff := cmp.Diff(wantPriority, snap["priority"]); diff != "" {
		t.Fatalf("priority mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"recipeX"}, snap["disabled"]); diff != "" {
		t.Fatalf("disabled mismatch (-want +got):\n%s", diff)
	}
	if snap["rate_unit"] != "h" || snap["belt"] != "belt2" || snap["belt_rate"] != 120.0 {
		t.Fatalf("unexpected display values: %v %v %v", snap["rate_unit"], snap["belt"], snap["belt_rate"])
	}
	if snap["title"] != DefaultTitle || snap["debug"] != false {
		t.Fatalf("unexpected title or debug: %v %v", snap["title"], snap["debug"])
	}
	miner, ok := snap["miners"].(map[string]any)["iron_ore"].(map[string]any)
	if !ok || miner["miner"] != "minerMk1" || miner["purity_index"] != 1 || miner["factor"] != 1.0 {
		t.Fatalf("unexpected miner snapshot: %v", snap["miners"])
	}
}

func TestSnapshotKeepsOversizedAmplifierCountsExact(t *testing.T) {
	cfg, _ := decodeLink(t, newTestDecoder(t), "sloop=recipeX:100000000000000000000,recipeY:2")
	want := map[string]any{"recipeX": "100000000000000000000", "recipeY": 2}
	if diff := cmp.Diff(want, cfg.Snapshot()["amplifiers"]); diff != "" {
		t.Fatalf("amplifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotDefaultTargetHasEmptyKeys(t *testing.T) {
	cfg, _ := decodeLink(t, newTestDecoder(t), "")
	targets := cfg.Snapshot()["targets"].([]any)
	entry := targets[0].(map[string]any)
	if entry["item"] != "" || entry["recipe"] != "" || entry["amount"] != DefaultTargetAmount {
		t.Fatalf("unexpected default target snapshot: %v", entry)
	}
}

func TestSnapshotNilConfiguration(t *testing.T) {
	var cfg *Configuration
	if snap := cfg.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg, _ := decodeLink(t, newTestDecoder(t), "items=ironOre:f:2:smelt_iron_ingot&priority=a=1&ignore=water")
	clone := cfg.Clone()
	if diff := cmp.Diff(cfg, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	clone.Targets[0].Item.Key = "changed"
	clone.Priority[0][0].Key = "changed"
	delete(clone.Ignore, "water")
	if cfg.Targets[0].Item.Key != "ironOre" || cfg.Priority[0][0].Key != "a" || len(cfg.Ignore) != 1 {
		t.Fatalf("mutating the clone leaked into the original")
	}
}
