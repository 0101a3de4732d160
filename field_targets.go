package settings

import "strings"

// DefaultTargetAmount is the building count of the default empty target.
const DefaultTargetAmount = "1"

// TargetSpec is one parsed, unresolved target descriptor.
type TargetSpec struct {
	ItemKey   string
	Kind      TargetKind
	Amount    string
	RecipeKey string
}

// ParseTargets parses the "items" grammar:
//
//	targets := target ("," target)*
//	target  := itemKey ":" "f" ":" count [":" recipeKey]
//	         | itemKey ":" "r" ":" rate
//
// An empty value yields no specs. Any other kind fails the whole value
// with ErrUnknownTargetKind.
func ParseTargets(value string) ([]TargetSpec, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	specs := make([]TargetSpec, 0, len(parts))
	for _, descriptor := range parts {
		fields := strings.Split(descriptor, ":")
		spec := TargetSpec{ItemKey: fields[0]}
		kind := ""
		if len(fields) > 1 {
			kind = fields[1]
		}
		if len(fields) > 2 {
			spec.Amount = fields[2]
		}
		switch TargetKind(kind) {
		case TargetBuildings:
			spec.Kind = TargetBuildings
			if len(fields) > 3 {
				spec.RecipeKey = fields[3]
			}
		case TargetRate:
			spec.Kind = TargetRate
		default:
			return nil, parseErrorf(KeyItems, descriptor, ErrUnknownTargetKind, "kind %q", kind)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// DefaultTarget returns the empty target installed when a link names no
// targets.
func DefaultTarget() Target {
	return Target{Kind: TargetBuildings, Amount: DefaultTargetAmount}
}

func applyTargets(p *pass) (Source, error) {
	value, ok := p.raw.value(KeyItems)
	if !ok {
		p.cfg.Targets = []Target{DefaultTarget()}
		return SourceDefault, nil
	}

	specs, err := ParseTargets(value)
	if err != nil {
		return SourceFallback, err
	}

	targets := make([]Target, 0, len(specs))
	for _, spec := range specs {
		target, ok := p.resolveTarget(spec)
		if !ok {
			continue
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		p.cfg.Targets = []Target{DefaultTarget()}
		return SourceFallback, nil
	}
	p.cfg.Targets = targets
	return SourceLink, nil
}

func (p *pass) resolveTarget(spec TargetSpec) (Target, bool) {
	target := Target{Kind: spec.Kind, Amount: spec.Amount}
	if spec.ItemKey != "" {
		item, ok := p.catalog.Item(spec.ItemKey)
		if !ok {
			p.diagnose(parseErrorf(KeyItems, spec.ItemKey, ErrUnresolvedKey, "item"))
			return Target{}, false
		}
		target.Item = &item
	}
	if spec.Kind == TargetBuildings && spec.RecipeKey != "" {
		recipe, ok := p.catalog.Recipe(spec.RecipeKey)
		if ok {
			target.Recipe = &recipe
		} else {
			p.diagnose(parseErrorf(KeyItems, spec.RecipeKey, ErrUnresolvedKey,
				"recipe for item %q, using any recipe", spec.ItemKey))
		}
	}
	return target, true
}
