package query

import (
	"slices"
	"sort"

	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/resolve"
)

const (
	StatusAwaiting = "Awaiting filter selections."
	StatusNoMatch  = "No compatibility under the current criteria."
)

// Card classes mirror what a renderer highlights per process.
const (
	CardMatch        = "match"
	CardVariantMatch = "variant-match"
	CardDimmed       = "dimmed"
)

// OptionState is how one option should be presented under a selection.
type OptionState struct {
	model.Option
	Selected bool `json:"selected"`
	Disabled bool `json:"disabled"`
}

// CategoryState groups option states under their category.
type CategoryState struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Options []OptionState `json:"options"`
}

// OptionStates evaluates every option of every category. A selected option
// is never disabled, so a renderer can always deselect it.
func (c *Catalog) OptionStates(sel model.Selection) []CategoryState {
	out := make([]CategoryState, 0, len(c.cfg.Categories))
	for _, cat := range c.cfg.Categories {
		cs := CategoryState{ID: cat.ID, Label: cat.Label, Options: make([]OptionState, 0, len(cat.Options))}
		for _, opt := range cat.Options {
			selected := sel.IsSelected(cat.ID, opt.ID)
			cs.Options = append(cs.Options, OptionState{
				Option:   opt,
				Selected: selected,
				Disabled: !selected && !c.IsOptionSelectable(cat.ID, opt.ID, sel),
			})
		}
		out = append(out, cs)
	}
	return out
}

// Toggle applies a user pick to sel and returns the new selection. Picking a
// disabled option that is not already selected leaves sel unchanged and
// reports false.
func (c *Catalog) Toggle(sel model.Selection, categoryID, optionID string) (model.Selection, bool) {
	if !sel.IsSelected(categoryID, optionID) && !c.IsOptionSelectable(categoryID, optionID, sel) {
		return sel, false
	}
	return sel.Toggle(categoryID, optionID), true
}

// ProcessState is a ProcessMatch plus its presentation.
type ProcessState struct {
	resolve.ProcessMatch
	Class  string `json:"class,omitempty"`
	Status string `json:"status,omitempty"`
}

// Result is everything a renderer needs after a selection change.
type Result struct {
	SelectionsActive bool           `json:"selectionsActive"`
	AnyMatch         bool           `json:"anyMatch"`
	ShowEmptyState   bool           `json:"showEmptyState"`
	Processes        []ProcessState `json:"processes"`
}

// Evaluate matches every process and derives the presentation state.
func (c *Catalog) Evaluate(sel model.Selection) Result {
	res := Result{SelectionsActive: sel.Active()}
	for _, pm := range c.ProcessMatchStates(sel) {
		ps := ProcessState{ProcessMatch: pm}
		switch {
		case pm.BaseMatch:
			ps.Class = CardMatch
		case pm.AnyVariantMatch():
			ps.Class = CardVariantMatch
		case res.SelectionsActive:
			ps.Class = CardDimmed
		}
		switch {
		case !res.SelectionsActive:
			ps.Status = StatusAwaiting
		case !pm.Reachable():
			ps.Status = StatusNoMatch
		}
		if pm.Reachable() {
			res.AnyMatch = true
		}
		res.Processes = append(res.Processes, ps)
	}
	res.ShowEmptyState = res.SelectionsActive && !res.AnyMatch
	return res
}

// Trait is one category line of a compatibility description.
type Trait struct {
	CategoryID    string   `json:"categoryId"`
	CategoryLabel string   `json:"categoryLabel"`
	OptionIDs     []string `json:"optionIds"`
	OptionLabels  []string `json:"optionLabels"`
}

// Describe turns a compatibility map into labelled lines: known categories
// in declaration order, then unknown category ids sorted.
func (c *Catalog) Describe(compat model.CompatibilityMap) []Trait {
	var traits []Trait
	seen := make(map[string]bool, len(compat))
	add := func(categoryID string) {
		ids := compat[categoryID]
		labels := make([]string, 0, len(ids))
		for _, id := range ids {
			labels = append(labels, c.OptionLabel(categoryID, id))
		}
		traits = append(traits, Trait{
			CategoryID:    categoryID,
			CategoryLabel: c.CategoryLabel(categoryID),
			OptionIDs:     slices.Clone([]string(ids)),
			OptionLabels:  labels,
		})
		seen[categoryID] = true
	}

	for _, cat := range c.cfg.Categories {
		if _, ok := compat[cat.ID]; ok {
			add(cat.ID)
		}
	}
	var unknown []string
	for categoryID := range compat {
		if !seen[categoryID] {
			unknown = append(unknown, categoryID)
		}
	}
	sort.Strings(unknown)
	for _, categoryID := range unknown {
		add(categoryID)
	}
	return traits
}

// DescribeVariant describes the effective compatibility of the variant at
// index within the process. Variants are addressed by position because a
// tabular source may repeat a variant id inside one process.
func (c *Catalog) DescribeVariant(processID string, index int) ([]Trait, bool) {
	p, ok := c.cfg.Process(processID)
	if !ok || index < 0 || index >= len(p.Variants) {
		return nil, false
	}
	return c.Describe(model.Effective(p, p.Variants[index])), true
}
