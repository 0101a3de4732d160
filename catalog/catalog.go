// Package catalog holds the static reference data that settings keys
// resolve against: items, recipes, buildings, belts, pipes, color schemes
// and purity tiers, plus the defaults installed when a link omits a field.
//
// Lookups return an explicit (value, ok) pair. There is no not-found
// sentinel; callers decide per field whether a miss skips an entry, falls
// back to a default or fails.
package catalog

import (
	"fmt"

	"github.com/goliatone/go-factory-settings/rational"
)

// Item is a producible or consumable item.
type Item struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

// Recipe converts items into other items. Resource recipes are the
// extraction recipes that miners are assigned to.
type Recipe struct {
	Key      string `yaml:"key" json:"key"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Resource bool   `yaml:"resource,omitempty" json:"resource,omitempty"`
}

// Building runs recipes of one category. Miner marks extraction buildings.
type Building struct {
	Key      string `yaml:"key" json:"key"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Miner    bool   `yaml:"miner,omitempty" json:"miner,omitempty"`
}

// Belt is a conveyor tier.
type Belt struct {
	Key  string         `yaml:"key" json:"key"`
	Name string         `yaml:"name" json:"name"`
	Rate rational.Value `yaml:"rate" json:"rate"`
}

// Pipe is a pipeline tier.
type Pipe struct {
	Key  string         `yaml:"key" json:"key"`
	Name string         `yaml:"name" json:"name"`
	Rate rational.Value `yaml:"rate" json:"rate"`
}

// ColorScheme names a palette for the visual collaborators.
type ColorScheme struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

// Purity is a resource node quality tier. Links refer to purities by
// their index in the catalog's ordered purity list.
type Purity struct {
	Key    string         `yaml:"key" json:"key"`
	Name   string         `yaml:"name" json:"name"`
	Factor rational.Value `yaml:"factor" json:"factor"`
}

// WeightedKey is one entry of a priority tier.
type WeightedKey struct {
	Key    string         `yaml:"key" json:"key"`
	Weight rational.Value `yaml:"weight" json:"weight"`
}

// MinerDefault is the default extraction setup for one resource recipe.
type MinerDefault struct {
	Recipe string `yaml:"recipe" json:"recipe"`
	Miner  string `yaml:"miner" json:"miner"`
	Purity int    `yaml:"purity" json:"purity"`
}

// Defaults are installed when a link omits the corresponding field.
type Defaults struct {
	Belt     string          `yaml:"belt" json:"belt"`
	Pipe     string          `yaml:"pipe" json:"pipe"`
	Disabled []string        `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Miners   []MinerDefault  `yaml:"miners,omitempty" json:"miners,omitempty"`
	Priority [][]WeightedKey `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Document is the serialised form of a catalog.
type Document struct {
	Items        []Item        `yaml:"items" json:"items"`
	Recipes      []Recipe      `yaml:"recipes" json:"recipes"`
	Buildings    []Building    `yaml:"buildings" json:"buildings"`
	Belts        []Belt        `yaml:"belts" json:"belts"`
	Pipes        []Pipe        `yaml:"pipes" json:"pipes"`
	ColorSchemes []ColorScheme `yaml:"color_schemes" json:"color_schemes"`
	Purities     []Purity      `yaml:"purities" json:"purities"`
	Defaults     Defaults      `yaml:"defaults" json:"defaults"`
}

// Catalog is an indexed, read-only Document. It is safe for concurrent use.
type Catalog struct {
	doc       Document
	items     map[string]Item
	recipes   map[string]Recipe
	buildings map[string]Building
	belts     map[string]Belt
	pipes     map[string]Pipe
	schemes   map[string]ColorScheme
}

// New indexes doc and validates that keys are unique and that every
// default refers to an existing entry.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		doc:       cloneDocument(doc),
		items:     make(map[string]Item, len(doc.Items)),
		recipes:   make(map[string]Recipe, len(doc.Recipes)),
		buildings: make(map[string]Building, len(doc.Buildings)),
		belts:     make(map[string]Belt, len(doc.Belts)),
		pipes:     make(map[string]Pipe, len(doc.Pipes)),
		schemes:   make(map[string]ColorScheme, len(doc.ColorSchemes)),
	}
	for _, item := range doc.Items {
		if err := index(c.items, "item", item.Key, item); err != nil {
			return nil, err
		}
	}
	for _, recipe := range doc.Recipes {
		if err := index(c.recipes, "recipe", recipe.Key, recipe); err != nil {
			return nil, err
		}
	}
	for _, building := range doc.Buildings {
		if err := index(c.buildings, "building", building.Key, building); err != nil {
			return nil, err
		}
	}
	for _, belt := range doc.Belts {
		if err := index(c.belts, "belt", belt.Key, belt); err != nil {
			return nil, err
		}
	}
	for _, pipe := range doc.Pipes {
		if err := index(c.pipes, "pipe", pipe.Key, pipe); err != nil {
			return nil, err
		}
	}
	for _, scheme := range doc.ColorSchemes {
		if err := index(c.schemes, "color scheme", scheme.Key, scheme); err != nil {
			return nil, err
		}
	}
	if err := c.validateDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

func index[T any](m map[string]T, kind, key string, value T) error {
	if key == "" {
		return fmt.Errorf("catalog: %s with empty key", kind)
	}
	if _, exists := m[key]; exists {
		return fmt.Errorf("catalog: duplicate %s %q", kind, key)
	}
	m[key] = value
	return nil
}

func (c *Catalog) validateDefaults() error {
	d := c.doc.Defaults
	if d.Belt != "" {
		if _, ok := c.belts[d.Belt]; !ok {
			return fmt.Errorf("catalog: default belt %q not found", d.Belt)
		}
	}
	if d.Pipe != "" {
		if _, ok := c.pipes[d.Pipe]; !ok {
			return fmt.Errorf("catalog: default pipe %q not found", d.Pipe)
		}
	}
	for _, key := range d.Disabled {
		if _, ok := c.recipes[key]; !ok {
			return fmt.Errorf("catalog: default disabled recipe %q not found", key)
		}
	}
	for _, m := range d.Miners {
		if _, ok := c.recipes[m.Recipe]; !ok {
			return fmt.Errorf("catalog: default miner recipe %q not found", m.Recipe)
		}
		if _, ok := c.Miner(m.Miner); !ok {
			return fmt.Errorf("catalog: default miner %q not found", m.Miner)
		}
		if _, ok := c.Purity(m.Purity); !ok {
			return fmt.Errorf("catalog: default miner purity %d out of range", m.Purity)
		}
	}
	for i, tier := range d.Priority {
		for _, entry := range tier {
			if entry.Weight.Sign() < 0 {
				return fmt.Errorf("catalog: default priority tier %d: negative weight for %q", i, entry.Key)
			}
		}
	}
	return nil
}

// Item looks up an item by key.
func (c *Catalog) Item(key string) (Item, bool) {
	item, ok := c.items[key]
	return item, ok
}

// Recipe looks up a recipe by key.
func (c *Catalog) Recipe(key string) (Recipe, bool) {
	recipe, ok := c.recipes[key]
	return recipe, ok
}

// Building looks up any building by key.
func (c *Catalog) Building(key string) (Building, bool) {
	building, ok := c.buildings[key]
	return building, ok
}

// Miner looks up an extraction building by key.
func (c *Catalog) Miner(key string) (Building, bool) {
	building, ok := c.buildings[key]
	if !ok || !building.Miner {
		return Building{}, false
	}
	return building, true
}

// Belt looks up a belt tier by key.
func (c *Catalog) Belt(key string) (Belt, bool) {
	belt, ok := c.belts[key]
	return belt, ok
}

// Pipe looks up a pipe tier by key.
func (c *Catalog) Pipe(key string) (Pipe, bool) {
	pipe, ok := c.pipes[key]
	return pipe, ok
}

// ColorScheme looks up a color scheme by key.
func (c *Catalog) ColorScheme(key string) (ColorScheme, bool) {
	scheme, ok := c.schemes[key]
	return scheme, ok
}

// Purity returns the purity tier at index.
func (c *Catalog) Purity(index int) (Purity, bool) {
	if index < 0 || index >= len(c.doc.Purities) {
		return Purity{}, false
	}
	return c.doc.Purities[index], true
}

// Purities returns the ordered purity tiers.
func (c *Catalog) Purities() []Purity {
	return append([]Purity(nil), c.doc.Purities...)
}

// Defaults returns a copy of the catalog defaults.
func (c *Catalog) Defaults() Defaults {
	return cloneDefaults(c.doc.Defaults)
}

// Document returns a copy of the source document.
func (c *Catalog) Document() Document {
	return cloneDocument(c.doc)
}

func cloneDocument(doc Document) Document {
	out := Document{
		Items:        append([]Item(nil), doc.Items...),
		Recipes:      append([]Recipe(nil), doc.Recipes...),
		Buildings:    append([]Building(nil), doc.Buildings...),
		Belts:        append([]Belt(nil), doc.Belts...),
		Pipes:        append([]Pipe(nil), doc.Pipes...),
		ColorSchemes: append([]ColorScheme(nil), doc.ColorSchemes...),
		Purities:     append([]Purity(nil), doc.Purities...),
		Defaults:     cloneDefaults(doc.Defaults),
	}
	return out
}

func cloneDefaults(d Defaults) Defaults {
	out := Defaults{
		Belt:     d.Belt,
		Pipe:     d.Pipe,
		Disabled: append([]string(nil), d.Disabled...),
		Miners:   append([]MinerDefault(nil), d.Miners...),
	}
	if d.Priority != nil {
		out.Priority = make([][]WeightedKey, len(d.Priority))
		for i, tier := range d.Priority {
			out.Priority[i] = append([]WeightedKey(nil), tier...)
		}
	}
	return out
}
