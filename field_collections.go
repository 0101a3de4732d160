package settings

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-factory-settings/catalog"
	"github.com/goliatone/go-factory-settings/rational"
)

var hundred = rational.FromInt(100)

// RecipeValue is one parsed recipeKey:number entry.
type RecipeValue struct {
	RecipeKey string
	Value     rational.Value
}

// MinerSpec is one parsed recipeKey:minerKey:purityIndex entry.
type MinerSpec struct {
	RecipeKey   string
	MinerKey    string
	PurityIndex int
}

// ParseKeyList splits a comma separated key list, dropping empty segments.
func ParseKeyList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, key := range parts {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// ParseOverclock parses recipeKey:percent entries into clock multipliers
// (percent/100). Bad entries are reported and skipped; the rest are kept.
func ParseOverclock(value string) ([]RecipeValue, []error) {
	return parseRecipeValues(KeyOverclock, value, func(text string) (rational.Value, error) {
		percent, err := rational.Parse(text)
		if err != nil {
			return rational.Value{}, err
		}
		if percent.Sign() <= 0 {
			return rational.Value{}, rangeError("percent must be positive")
		}
		return percent.Div(hundred)
	})
}

// ParseAmplifiers parses recipeKey:count entries. Counts must be
// non-negative integers.
func ParseAmplifiers(value string) ([]RecipeValue, []error) {
	return parseRecipeValues(KeyAmplifiers, value, func(text string) (rational.Value, error) {
		count, err := rational.Parse(text)
		if err != nil {
			return rational.Value{}, err
		}
		if count.Sign() < 0 || !count.IsInteger() {
			return rational.Value{}, rangeError("count must be a non-negative integer")
		}
		return count, nil
	})
}

func parseRecipeValues(field, value string, parse func(string) (rational.Value, error)) ([]RecipeValue, []error) {
	var (
		entries []RecipeValue
		errs    []error
	)
	for _, pair := range ParseKeyList(value) {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 || parts[0] == "" {
			errs = append(errs, parseErrorf(field, pair, ErrMalformedEntry, "want recipeKey:number"))
			continue
		}
		number, err := parse(parts[1])
		if err != nil {
			errs = append(errs, parseErrorf(field, pair, ErrInvalidNumber, "%v", err))
			continue
		}
		entries = append(entries, RecipeValue{RecipeKey: parts[0], Value: number})
	}
	return entries, errs
}

// ParseMiners parses recipeKey:minerKey:purityIndex entries.
func ParseMiners(value string) ([]MinerSpec, []error) {
	var (
		specs []MinerSpec
		errs  []error
	)
	for _, entry := range ParseKeyList(value) {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			errs = append(errs, parseErrorf(KeyMiners, entry, ErrMalformedEntry, "want recipeKey:minerKey:purityIndex"))
			continue
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil || index < 0 {
			errs = append(errs, parseErrorf(KeyMiners, entry, ErrInvalidNumber, "purity index %q", parts[2]))
			continue
		}
		specs = append(specs, MinerSpec{RecipeKey: parts[0], MinerKey: parts[1], PurityIndex: index})
	}
	return specs, errs
}

type rangeError string

func (e rangeError) Error() string { return string(e) }

func applyIgnore(p *pass) (Source, error) {
	clear(p.cfg.Ignore)
	value, ok := p.raw.value(KeyIgnore)
	if !ok {
		return SourceDefault, nil
	}
	for _, key := range ParseKeyList(value) {
		item, ok := p.catalog.Item(key)
		if !ok {
			p.diagnose(parseErrorf(KeyIgnore, key, ErrUnresolvedKey, "item"))
			continue
		}
		p.cfg.SetIgnored(item, true)
	}
	return SourceLink, nil
}

func applyOverclock(p *pass) (Source, error) {
	clear(p.cfg.Overclock)
	value, ok := p.raw.value(KeyOverclock)
	if !ok {
		return SourceDefault, nil
	}
	entries, errs := ParseOverclock(value)
	p.diagnose(errs...)
	for _, entry := range entries {
		if recipe, ok := p.recipe(KeyOverclock, entry.RecipeKey); ok {
			p.cfg.SetOverclock(recipe, entry.Value)
		}
	}
	return SourceLink, nil
}

func applyAmplifiers(p *pass) (Source, error) {
	clear(p.cfg.Amplifiers)
	value, ok := p.raw.value(KeyAmplifiers)
	if !ok {
		return SourceDefault, nil
	}
	entries, errs := ParseAmplifiers(value)
	p.diagnose(errs...)
	for _, entry := range entries {
		if recipe, ok := p.recipe(KeyAmplifiers, entry.RecipeKey); ok {
			p.cfg.SetAmplifiers(recipe, entry.Value)
		}
	}
	return SourceLink, nil
}

// applyMiners installs the catalog's default miner settings and then lets
// link entries override individual resource recipes.
func applyMiners(p *pass) (Source, error) {
	clear(p.cfg.Miners)
	for _, d := range p.catalog.Defaults().Miners {
		p.setMiner(MinerSpec{RecipeKey: d.Recipe, MinerKey: d.Miner, PurityIndex: d.Purity})
	}
	value, ok := p.raw.value(KeyMiners)
	if !ok {
		return SourceDefault, nil
	}
	specs, errs := ParseMiners(value)
	p.diagnose(errs...)
	for _, spec := range specs {
		p.setMiner(spec)
	}
	return SourceLink, nil
}

func (p *pass) setMiner(spec MinerSpec) {
	recipe, ok := p.recipe(KeyMiners, spec.RecipeKey)
	if !ok {
		return
	}
	miner, ok := p.catalog.Miner(spec.MinerKey)
	if !ok {
		p.diagnose(parseErrorf(KeyMiners, spec.MinerKey, ErrUnresolvedKey, "miner"))
		return
	}
	if miner.Category != recipe.Category {
		p.diagnose(parseErrorf(KeyMiners, spec.MinerKey, ErrUnresolvedKey,
			"miner category %q does not match recipe %q category %q", miner.Category, recipe.Key, recipe.Category))
		return
	}
	purity, ok := p.catalog.Purity(spec.PurityIndex)
	if !ok {
		p.diagnose(parseErrorf(KeyMiners, strconv.Itoa(spec.PurityIndex), ErrInvalidNumber, "purity index out of range"))
		return
	}
	p.cfg.SetMiner(recipe, MinerSetting{Miner: miner, Purity: purity, PurityIndex: spec.PurityIndex})
}

// applyDisabled installs the catalog default-disabled set when the key is
// absent. A present but empty value disables nothing.
func applyDisabled(p *pass) (Source, error) {
	clear(p.cfg.Disabled)
	value, present := p.raw.Get(KeyDisable)
	keys := ParseKeyList(value)
	source := SourceLink
	if !present {
		keys = p.catalog.Defaults().Disabled
		source = SourceDefault
	}
	for _, key := range keys {
		if recipe, ok := p.recipe(KeyDisable, key); ok {
			p.cfg.SetDisabled(recipe)
		}
	}
	return source, nil
}

func (p *pass) recipe(field, key string) (catalog.Recipe, bool) {
	recipe, ok := p.catalog.Recipe(key)
	if !ok {
		p.diagnose(parseErrorf(field, key, ErrUnresolvedKey, "recipe"))
	}
	return recipe, ok
}
