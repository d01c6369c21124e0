// Package resolve answers compatibility questions against a configuration.
// Everything here is pure: callers pass the selection in and nothing is retained.
package resolve

import (
	"github.com/AndyGlx/am-process-selector/internal/model"
)

// IsCompatible reports whether every selected (category, option) pair is
// allowed by compat. A selected category that compat does not mention
// rejects the entity; categories compat mentions but the selection does not
// are irrelevant.
func IsCompatible(compat model.CompatibilityMap, sel model.Selection) bool {
	for categoryID, optionID := range sel {
		allowed, ok := compat[categoryID]
		if !ok || len(allowed) == 0 || !allowed.Contains(optionID) {
			return false
		}
	}
	return true
}

// OptionIsSupported reports whether picking optionID for categoryID next
// would leave at least one entry compatible. The hypothetical pick replaces
// any current choice for that category; sel itself is not modified.
func OptionIsSupported(categoryID, optionID string, sel model.Selection, entries []model.Entry) bool {
	hypothetical := sel.With(categoryID, optionID)
	for _, entry := range entries {
		if IsCompatible(entry.Compatibility, hypothetical) {
			return true
		}
	}
	return false
}
