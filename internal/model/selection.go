package model

import (
	"fmt"
	"maps"
	"strings"
)

// Selection maps a category id to the chosen option id. At most one option
// per category; deselecting removes the key. Every method returns a new
// Selection and leaves the receiver untouched.
type Selection map[string]string

// Active reports whether anything is selected.
func (s Selection) Active() bool {
	return len(s) > 0
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	maps.Copy(out, s)
	return out
}

// With returns a copy with categoryID set to optionID, replacing any prior choice.
func (s Selection) With(categoryID, optionID string) Selection {
	out := s.Clone()
	out[categoryID] = optionID
	return out
}

// Without returns a copy with categoryID removed.
func (s Selection) Without(categoryID string) Selection {
	out := s.Clone()
	delete(out, categoryID)
	return out
}

// Toggle deselects the pair if it is selected, otherwise selects it.
func (s Selection) Toggle(categoryID, optionID string) Selection {
	if s.IsSelected(categoryID, optionID) {
		return s.Without(categoryID)
	}
	return s.With(categoryID, optionID)
}

// IsSelected reports whether optionID is the current choice for categoryID.
func (s Selection) IsSelected(categoryID, optionID string) bool {
	chosen, ok := s[categoryID]
	return ok && chosen == optionID
}

// Equal compares key sets and values, ignoring order.
func (s Selection) Equal(other Selection) bool {
	return maps.Equal(s, other)
}

// ParseSelection parses "category=option" pairs. A later pair for the same
// category replaces an earlier one.
func ParseSelection(pairs []string) (Selection, error) {
	sel := Selection{}
	for _, pair := range pairs {
		cat, opt, ok := strings.Cut(pair, "=")
		cat, opt = strings.TrimSpace(cat), strings.TrimSpace(opt)
		if !ok || cat == "" || opt == "" {
			return nil, fmt.Errorf("selection: %q is not category=option", pair)
		}
		sel[cat] = opt
	}
	return sel, nil
}
