package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// OptionSet is the set of allowed option ids for one category.
// Order follows declaration but carries no meaning; duplicates are dropped on Add.
type OptionSet []string

// Contains reports whether id is in the set.
func (s OptionSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Add returns the set with id appended unless already present.
func (s OptionSet) Add(id string) OptionSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// UnmarshalJSON accepts either a list of ids or a single id string.
// null is a present but empty set.
func (s *OptionSet) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = OptionSet{}
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = OptionSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("option set: %w", err)
	}
	*s = dedupe(many)
	return nil
}

// UnmarshalYAML accepts either a sequence of ids or a single scalar id.
func (s *OptionSet) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null":
		*s = OptionSet{}
		return nil
	case node.Kind == yaml.ScalarNode:
		*s = OptionSet{node.Value}
		return nil
	case node.Kind == yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return fmt.Errorf("option set: %w", err)
		}
		*s = dedupe(many)
		return nil
	default:
		return fmt.Errorf("option set: line %d: expected id or list of ids", node.Line)
	}
}

func dedupe(ids []string) OptionSet {
	var out OptionSet
	for _, id := range ids {
		out = out.Add(id)
	}
	return out
}

// CompatibilityMap maps a category id to the option ids an entity allows.
// What a missing category key means depends on the caller: Merge treats it as
// "keep the previous layer", matching treats it as a rejection.
type CompatibilityMap map[string]OptionSet

// Clone returns a deep copy. A nil map clones to an empty, non-nil map.
func (m CompatibilityMap) Clone() CompatibilityMap {
	out := make(CompatibilityMap, len(m))
	for cat, ids := range m {
		out[cat] = slices.Clone(ids)
	}
	return out
}

// Allow marks optionID as allowed for categoryID.
func (m CompatibilityMap) Allow(categoryID, optionID string) {
	m[categoryID] = m[categoryID].Add(optionID)
}

// Merge layers overrides on top of base. Every category key present in
// overrides replaces base's entry for that category entirely; keys absent
// from overrides keep base's entry. Neither input is modified.
func Merge(base, overrides CompatibilityMap) CompatibilityMap {
	merged := base.Clone()
	for cat, ids := range overrides {
		merged[cat] = slices.Clone(ids)
	}
	return merged
}

// Effective derives a variant's effective compatibility from its process:
// process defaults, then refinements (or the variant's own map when there are
// no refinements), then explicit overrides.
func Effective(p Process, v Variant) CompatibilityMap {
	base := v.Compatibility
	if len(v.Refinements) > 0 {
		base = v.Refinements
	}
	return Merge(Merge(p.Compatibility, base), v.CompatibilityOverrides)
}
