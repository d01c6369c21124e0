package resolve

import (
	"github.com/AndyGlx/am-process-selector/internal/model"
)

// VariantMatch is one variant evaluated against a selection.
type VariantMatch struct {
	Variant   model.Variant          `json:"variant"`
	Effective model.CompatibilityMap `json:"effectiveCompatibility"`
	Match     bool                   `json:"match"`
}

// ProcessMatch is one process evaluated against a selection.
type ProcessMatch struct {
	Process   model.Process  `json:"process"`
	BaseMatch bool           `json:"baseMatch"`
	Variants  []VariantMatch `json:"variantMatches"`
}

// AnyVariantMatch reports whether at least one variant matches.
func (pm ProcessMatch) AnyVariantMatch() bool {
	for _, v := range pm.Variants {
		if v.Match {
			return true
		}
	}
	return false
}

// Reachable reports whether the process or any of its variants matches.
func (pm ProcessMatch) Reachable() bool {
	return pm.BaseMatch || pm.AnyVariantMatch()
}

// MatchProcess evaluates a process and each of its variants, in declaration order.
func MatchProcess(p model.Process, sel model.Selection) ProcessMatch {
	pm := ProcessMatch{
		Process:   p,
		BaseMatch: IsCompatible(p.Compatibility, sel),
		Variants:  make([]VariantMatch, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		effective := model.Effective(p, v)
		pm.Variants = append(pm.Variants, VariantMatch{
			Variant:   v,
			Effective: effective,
			Match:     IsCompatible(effective, sel),
		})
	}
	return pm
}

// MatchAll runs MatchProcess over every process of cfg, preserving order.
func MatchAll(cfg *model.Configuration, sel model.Selection) []ProcessMatch {
	if cfg == nil {
		return nil
	}
	out := make([]ProcessMatch, 0, len(cfg.Processes))
	for _, p := range cfg.Processes {
		out = append(out, MatchProcess(p, sel))
	}
	return out
}
