package settings

import (
	"math"
	"sort"

	"github.com/goliatone/go-factory-settings/rational"
)

// Snapshot flattens the configuration into plain maps, slices and scalars
// for rule evaluation and CLI output. Rationals appear twice: as float64
// under the field name and as exact "n/d" text under the "_exact" name.
// Collections that are sets are rendered as sorted key lists.
func (c *Configuration) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	d := c.Display
	out := map[string]any{
		"targets":           c.targetsSnapshot(),
		"ignore":            sortedKeys(c.Ignore),
		"overclock":         rationalFloats(c.Overclock),
		"overclock_exact":   rationalStrings(c.Overclock),
		"amplifiers":        rationalInts(c.Amplifiers),
		"miners":            c.minersSnapshot(),
		"priority":          c.prioritySnapshot(),
		"disabled":          sortedKeys(c.Disabled),
		"title":             d.DisplayTitle(),
		"rate_unit":         d.RateUnit,
		"rate_precision":    d.RatePrecision,
		"count_precision":   d.CountPrecision,
		"format":            string(d.Format),
		"color_scheme":      d.ColorScheme.Key,
		"belt":              d.Belt.Key,
		"belt_rate":         d.Belt.Rate.Float64(),
		"pipe":              d.Pipe.Key,
		"pipe_rate":         d.Pipe.Rate.Float64(),
		"visualizer_type":   d.VisualizerType,
		"visualizer_render": d.VisualizerRender,
		"debug":             d.Debug,
		"tab":               d.Tab,
	}
	return out
}

func (c *Configuration) targetsSnapshot() []any {
	out := make([]any, 0, len(c.Targets))
	for _, target := range c.Targets {
		entry := map[string]any{
			"kind":   string(target.Kind),
			"amount": target.Amount,
			"item":   "",
			"recipe": "",
		}
		if target.Item != nil {
			entry["item"] = target.Item.Key
		}
		if target.Recipe != nil {
			entry["recipe"] = target.Recipe.Key
		}
		out = append(out, entry)
	}
	return out
}

func (c *Configuration) minersSnapshot() map[string]any {
	out := make(map[string]any, len(c.Miners))
	for key, setting := range c.Miners {
		out[key] = map[string]any{
			"miner":        setting.Miner.Key,
			"purity":       setting.Purity.Key,
			"purity_index": setting.PurityIndex,
			"factor":       setting.Purity.Factor.Float64(),
		}
	}
	return out
}

func (c *Configuration) prioritySnapshot() []any {
	out := make([]any, 0, len(c.Priority))
	for _, tier := range c.Priority {
		entries := make([]any, 0, len(tier))
		for _, entry := range tier {
			entries = append(entries, map[string]any{
				"key":          entry.Key,
				"weight":       entry.Weight.Float64(),
				"weight_exact": entry.Weight.String(),
			})
		}
		out = append(out, entries)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []any {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, key := range keys {
		out[i] = key
	}
	return out
}

func rationalFloats(m map[string]rational.Value) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value.Float64()
	}
	return out
}

func rationalStrings(m map[string]rational.Value) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value.String()
	}
	return out
}

// rationalInts renders integer-valued rationals as int. Counts that do not
// fit an int are kept as their exact decimal string.
func rationalInts(m map[string]rational.Value) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		num := value.Rat().Num()
		if num.IsInt64() && num.Int64() <= math.MaxInt {
			out[key] = int(num.Int64())
			continue
		}
		out[key] = value.String()
	}
	return out
}
