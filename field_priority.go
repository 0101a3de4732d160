package settings

import (
	"strings"

	"github.com/goliatone/go-factory-settings/rational"
)

// ParsePriority parses the weighted priority grammar:
//
//	priority := tier (";" tier)*
//	tier     := pair ("," pair)*
//	pair     := key "=" weight
//
// Parsing is all or nothing. The first pair in the older unweighted
// encoding stops the parse with ErrLegacyPriority; a weight that is not a
// non-negative rational stops it with ErrInvalidNumber. No partial tiers
// are ever returned.
func ParsePriority(value string) ([]PriorityTier, error) {
	var tiers []PriorityTier
	for _, tierText := range strings.Split(value, ";") {
		var tier PriorityTier
		for _, pair := range strings.Split(tierText, ",") {
			if legacyPriorityEncoding(pair) {
				return nil, parseErrorf(KeyPriority, pair, ErrLegacyPriority, "pair has no weight")
			}
			key, weightText, _ := strings.Cut(pair, "=")
			if key == "" {
				return nil, parseErrorf(KeyPriority, pair, ErrMalformedEntry, "pair has no key")
			}
			weight, err := rational.Parse(weightText)
			if err != nil {
				return nil, parseErrorf(KeyPriority, pair, ErrInvalidNumber, "%v", err)
			}
			if weight.Sign() < 0 {
				return nil, parseErrorf(KeyPriority, pair, ErrInvalidNumber, "weight must be non-negative")
			}
			tier = append(tier, PriorityEntry{Key: key, Weight: weight})
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// legacyPriorityEncoding reports whether pair uses the pre-weight format,
// which listed bare keys without "=weight".
func legacyPriorityEncoding(pair string) bool {
	return !strings.Contains(pair, "=")
}

// DefaultPriority converts the catalog's default priority into tiers.
func DefaultPriority(c Catalog) []PriorityTier {
	defaults := c.Defaults().Priority
	tiers := make([]PriorityTier, 0, len(defaults))
	for _, entries := range defaults {
		tier := make(PriorityTier, 0, len(entries))
		for _, entry := range entries {
			tier = append(tier, PriorityEntry{Key: entry.Key, Weight: entry.Weight})
		}
		tiers = append(tiers, tier)
	}
	return tiers
}

func applyPriority(p *pass) (Source, error) {
	value, ok := p.raw.value(KeyPriority)
	if !ok {
		p.cfg.SetPriorities(DefaultPriority(p.catalog))
		return SourceDefault, nil
	}
	tiers, err := ParsePriority(value)
	if err != nil {
		p.diagnose(err)
		p.cfg.SetPriorities(DefaultPriority(p.catalog))
		return SourceFallback, nil
	}
	p.cfg.SetPriorities(tiers)
	return SourceLink, nil
}
