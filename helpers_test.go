package settings

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-factory-settings/catalog"
	"github.com/goliatone/go-factory-settings/rational"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	doc := catalog.Document{
		Items: []catalog.Item{
			{Key: "ironOre", Name: "Iron Ore"},
			{Key: "ironIngot", Name: "Iron Ingot"},
			{Key: "itemA", Name: "Item A"},
			{Key: "itemB", Name: "Item B"},
			{Key: "water", Name: "Water"},
		},
		Recipes: []catalog.Recipe{
			{Key: "iron_ore", Name: "Iron Ore", Category: "mineral", Resource: true},
			{Key: "water", Name: "Water", Category: "water", Resource: true},
			{Key: "smelt_iron_ingot", Name: "Iron Ingot", Category: "smelter"},
			{Key: "recipeX", Name: "Recipe X", Category: "constructor"},
			{Key: "recipeY", Name: "Recipe Y", Category: "constructor"},
		},
		Buildings: []catalog.Building{
			{Key: "minerMk1", Name: "Miner Mk.1", Category: "mineral", Miner: true},
			{Key: "minerMk2", Name: "Miner Mk.2", Category: "mineral", Miner: true},
			{Key: "waterPump", Name: "Water Extractor", Category: "water", Miner: true},
			{Key: "smelter", Name: "Smelter", Category: "smelter"},
		},
		Belts: []catalog.Belt{
			{Key: "belt1", Name: "Belt Mk.1", Rate: rational.FromInt(60)},
			{Key: "belt2", Name: "Belt Mk.2", Rate: rational.FromInt(120)},
		},
		Pipes: []catalog.Pipe{
			{Key: "pipe1", Name: "Pipe Mk.1", Rate: rational.FromInt(300)},
			{Key: "pipe2", Name: "Pipe Mk.2", Rate: rational.FromInt(600)},
		},
		ColorSchemes: []catalog.ColorScheme{
			{Key: "default", Name: "Default"},
			{Key: "dark", Name: "Dark"},
		},
		Purities: []catalog.Purity{
			{Key: "impure", Name: "Impure", Factor: rational.FromFrac(1, 2)},
			{Key: "normal", Name: "Normal", Factor: rational.One()},
			{Key: "pure", Name: "Pure", Factor: rational.FromInt(2)},
		},
		Defaults: catalog.Defaults{
			Belt:     "belt1",
			Pipe:     "pipe1",
			Disabled: []string{"recipeY"},
			Miners: []catalog.MinerDefault{
				{Recipe: "iron_ore", Miner: "minerMk1", Purity: 1},
			},
			Priority: [][]catalog.WeightedKey{
				{{Key: "water", Weight: rational.Zero()}},
				{{Key: "iron_ore", Weight: rational.One()}},
			},
		},
	}
	c, err := catalog.New(doc)
	if err != nil {
		t.Fatalf("test catalog: %v", err)
	}
	return c
}

func newTestDecoder(t *testing.T, opts ...Option) *Decoder {
	t.Helper()
	seq := 0
	base := []Option{WithPassIDGenerator(func() string {
		seq++
		return fmt.Sprintf("pass-%d", seq)
	})}
	return NewDecoder(testCatalog(t), append(base, opts...)...)
}
