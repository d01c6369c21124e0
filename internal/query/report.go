package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AndyGlx/am-process-selector/internal/model"
)

// GenerateReport renders a plain-text summary of a selection: what is
// selected, which options stay available, and how each process matches.
// Verbose adds each variant's effective compatibility.
func GenerateReport(c *Catalog, sel model.Selection, verbose bool) string {
	var b strings.Builder

	b.WriteString("=== Selection ===\n")
	if !sel.Active() {
		b.WriteString("  (none)\n")
	} else {
		keys := make([]string, 0, len(sel))
		for cat := range sel {
			keys = append(keys, cat)
		}
		sort.Strings(keys)
		for _, cat := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", c.CategoryLabel(cat), c.OptionLabel(cat, sel[cat]))
		}
	}

	b.WriteString("\n=== Filters ===\n")
	for _, cs := range c.OptionStates(sel) {
		fmt.Fprintf(&b, "  %s\n", cs.Label)
		for _, st := range cs.Options {
			icon := model.IconAvailable
			switch {
			case st.Selected:
				icon = model.IconSelected
			case st.Disabled:
				icon = model.IconDisabled
			}
			fmt.Fprintf(&b, "    %s %s\n", icon, st.Label)
		}
	}

	res := c.Evaluate(sel)
	b.WriteString("\n=== Processes ===\n")
	for _, ps := range res.Processes {
		icon := model.IconNoMatch
		switch ps.Class {
		case CardMatch:
			icon = model.IconMatch
		case CardVariantMatch:
			icon = model.IconVariantMatch
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", icon, ps.Process.Label, ps.Process.ID)
		if ps.Status != "" {
			fmt.Fprintf(&b, "    %s\n", ps.Status)
		}
		for _, vm := range ps.Variants {
			mark := " "
			if vm.Match {
				mark = model.IconMatch
			}
			fmt.Fprintf(&b, "    [%s] %s", mark, vm.Variant.Label)
			if vm.Variant.Summary != "" {
				fmt.Fprintf(&b, " - %s", vm.Variant.Summary)
			}
			b.WriteString("\n")
			if verbose {
				for _, tr := range c.Describe(vm.Effective) {
					fmt.Fprintf(&b, "          %s: %s\n", tr.CategoryLabel, strings.Join(tr.OptionLabels, ", "))
				}
			}
		}
	}

	if res.ShowEmptyState {
		b.WriteString("\nNo process or variant is compatible with the current selection.\n")
	}
	return b.String()
}
