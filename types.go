package settings

import (
	"github.com/goliatone/go-factory-settings/catalog"
	"github.com/goliatone/go-factory-settings/rational"
)

// Catalog is the reference data settings keys resolve against.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Item(key string) (catalog.Item, bool)
	Recipe(key string) (catalog.Recipe, bool)
	Miner(key string) (catalog.Building, bool)
	Belt(key string) (catalog.Belt, bool)
	Pipe(key string) (catalog.Pipe, bool)
	ColorScheme(key string) (catalog.ColorScheme, bool)
	Purity(index int) (catalog.Purity, bool)
	Defaults() catalog.Defaults
}

// TargetKind distinguishes building-count targets from rate targets. The
// values are the link encoding.
type TargetKind string

const (
	TargetBuildings TargetKind = "f"
	TargetRate      TargetKind = "r"
)

// Target is one demand in the target list. Item is nil for the default
// empty target. Recipe is only meaningful for building-count targets; nil
// means any recipe.
type Target struct {
	Kind   TargetKind
	Item   *catalog.Item
	Amount string
	Recipe *catalog.Recipe
}

// MinerSetting selects the extraction building and node purity for one
// resource recipe.
type MinerSetting struct {
	Miner       catalog.Building
	Purity      catalog.Purity
	PurityIndex int
}

// PriorityEntry is one weighted key inside a priority tier.
type PriorityEntry struct {
	Key    string
	Weight rational.Value
}

// PriorityTier is solved before every tier that follows it.
type PriorityTier []PriorityEntry

// ValueFormat selects how rates and counts are rendered.
type ValueFormat string

const (
	FormatDecimal  ValueFormat = "decimal"
	FormatRational ValueFormat = "rational"
)

// Display groups the scalar presentation settings.
type Display struct {
	RateUnit         string
	RatePrecision    int
	CountPrecision   int
	Format           ValueFormat
	ColorScheme      catalog.ColorScheme
	Belt             catalog.Belt
	Pipe             catalog.Pipe
	VisualizerType   string
	VisualizerRender string
	Debug            bool
	Title            string
	Tab              string
}

// DisplayTitle returns the title to show, falling back to DefaultTitle
// when the stored title is empty.
func (d Display) DisplayTitle() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

// Configuration is the decoded settings state handed to the solver and
// render collaborators. Collections are owned by the Configuration and are
// rebuilt from scratch by every decode pass.
//
// A Configuration is not safe for concurrent use; share it through
// pkg/state.Session when more than one goroutine needs it.
type Configuration struct {
	Targets    []Target
	Ignore     map[string]catalog.Item
	Overclock  map[string]rational.Value
	Amplifiers map[string]rational.Value
	Miners     map[string]MinerSetting
	Priority   []PriorityTier
	Disabled   map[string]catalog.Recipe
	Display    Display
}

// NewConfiguration returns an empty Configuration with the built-in
// display defaults.
func NewConfiguration() *Configuration {
	return &Configuration{
		Ignore:     map[string]catalog.Item{},
		Overclock:  map[string]rational.Value{},
		Amplifiers: map[string]rational.Value{},
		Miners:     map[string]MinerSetting{},
		Disabled:   map[string]catalog.Recipe{},
		Display: Display{
			RateUnit:         DefaultRateUnit,
			RatePrecision:    DefaultRatePrecision,
			CountPrecision:   DefaultCountPrecision,
			Format:           DefaultFormat,
			ColorScheme:      catalog.ColorScheme{Key: DefaultColorScheme},
			VisualizerType:   DefaultVisualizerType,
			VisualizerRender: DefaultVisualizerRender,
			Tab:              DefaultTab,
		},
	}
}

// AddTarget appends a target.
func (c *Configuration) AddTarget(target Target) {
	c.Targets = append(c.Targets, target)
}

// SetIgnored adds or removes item from the ignore set.
func (c *Configuration) SetIgnored(item catalog.Item, ignored bool) {
	if ignored {
		c.Ignore[item.Key] = item
		return
	}
	delete(c.Ignore, item.Key)
}

// SetOverclock stores the clock multiplier for recipe.
func (c *Configuration) SetOverclock(recipe catalog.Recipe, multiplier rational.Value) {
	c.Overclock[recipe.Key] = multiplier
}

// OverclockFor returns the multiplier for key, 1 when unset.
func (c *Configuration) OverclockFor(key string) rational.Value {
	if m, ok := c.Overclock[key]; ok {
		return m
	}
	return rational.One()
}

// SetAmplifiers stores the amplifier count for recipe.
func (c *Configuration) SetAmplifiers(recipe catalog.Recipe, count rational.Value) {
	c.Amplifiers[recipe.Key] = count
}

// AmplifiersFor returns the amplifier count for key, 0 when unset.
func (c *Configuration) AmplifiersFor(key string) rational.Value {
	if n, ok := c.Amplifiers[key]; ok {
		return n
	}
	return rational.Zero()
}

// SetMiner assigns the extraction setup for a resource recipe.
func (c *Configuration) SetMiner(recipe catalog.Recipe, setting MinerSetting) {
	c.Miners[recipe.Key] = setting
}

// SetPriorities replaces the priority tiers.
func (c *Configuration) SetPriorities(tiers []PriorityTier) {
	c.Priority = clonePriority(tiers)
}

// SetDisabled excludes recipe from solving.
func (c *Configuration) SetDisabled(recipe catalog.Recipe) {
	c.Disabled[recipe.Key] = recipe
}

// SetEnabled allows recipe again.
func (c *Configuration) SetEnabled(recipe catalog.Recipe) {
	delete(c.Disabled, recipe.Key)
}

// IsDisabled reports whether the recipe key is excluded.
func (c *Configuration) IsDisabled(key string) bool {
	_, ok := c.Disabled[key]
	return ok
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	out := &Configuration{
		Targets:    make([]Target, len(c.Targets)),
		Ignore:     make(map[string]catalog.Item, len(c.Ignore)),
		Overclock:  make(map[string]rational.Value, len(c.Overclock)),
		Amplifiers: make(map[string]rational.Value, len(c.Amplifiers)),
		Miners:     make(map[string]MinerSetting, len(c.Miners)),
		Priority:   clonePriority(c.Priority),
		Disabled:   make(map[string]catalog.Recipe, len(c.Disabled)),
		Display:    c.Display,
	}
	for i, target := range c.Targets {
		out.Targets[i] = target.clone()
	}
	for k, v := range c.Ignore {
		out.Ignore[k] = v
	}
	for k, v := range c.Overclock {
		out.Overclock[k] = v
	}
	for k, v := range c.Amplifiers {
		out.Amplifiers[k] = v
	}
	for k, v := range c.Miners {
		out.Miners[k] = v
	}
	for k, v := range c.Disabled {
		out.Disabled[k] = v
	}
	return out
}

func (t Target) clone() Target {
	out := t
	if t.Item != nil {
		item := *t.Item
		out.Item = &item
	}
	if t.Recipe != nil {
		recipe := *t.Recipe
		out.Recipe = &recipe
	}
	return out
}

func clonePriority(tiers []PriorityTier) []PriorityTier {
	if tiers == nil {
		return nil
	}
	out := make([]PriorityTier, len(tiers))
	for i, tier := range tiers {
		out[i] = append(PriorityTier(nil), tier...)
	}
	return out
}
