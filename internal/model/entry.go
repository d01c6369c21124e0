package model

// EntryKind distinguishes process entries from variant entries.
type EntryKind string

const (
	EntryProcess EntryKind = "process"
	EntryVariant EntryKind = "variant"
)

// Entry is one flattened, matchable candidate: a process with its own map or
// a variant with its effective map.
type Entry struct {
	Kind          EntryKind        `json:"type"`
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	ShortLabel    string           `json:"shortLabel,omitempty"`
	Compatibility CompatibilityMap `json:"compatibility"`
	ParentID      string           `json:"parentId,omitempty"`    // Empty for processes
	ParentLabel   string           `json:"parentLabel,omitempty"` // Display only
}

// Flatten emits, per process in declaration order, the process itself
// followed by each of its variants.
func Flatten(cfg *Configuration) []Entry {
	if cfg == nil {
		return nil
	}
	var entries []Entry
	for _, p := range cfg.Processes {
		entries = append(entries, Entry{
			Kind:          EntryProcess,
			ID:            p.ID,
			Label:         p.Label,
			ShortLabel:    p.ShortLabel,
			Compatibility: p.Compatibility.Clone(),
		})
		for _, v := range p.Variants {
			entries = append(entries, Entry{
				Kind:          EntryVariant,
				ID:            v.ID,
				Label:         v.Label,
				ShortLabel:    v.ShortLabel,
				Compatibility: Effective(p, v),
				ParentID:      p.ID,
				ParentLabel:   p.Label,
			})
		}
	}
	return entries
}

// CategoryRef is the display lookup for one category.
type CategoryRef struct {
	ID      string
	Label   string
	Options map[string]Option
}

// CategoryIndex resolves category and option ids to display labels.
// It is never consulted for matching.
type CategoryIndex map[string]CategoryRef

// IndexCategories builds the display lookup.
func IndexCategories(categories []Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, cat := range categories {
		opts := make(map[string]Option, len(cat.Options))
		for _, opt := range cat.Options {
			opts[opt.ID] = opt
		}
		idx[cat.ID] = CategoryRef{ID: cat.ID, Label: cat.Label, Options: opts}
	}
	return idx
}

// CategoryLabel returns the category's label, or the id when unknown.
func (idx CategoryIndex) CategoryLabel(categoryID string) string {
	if ref, ok := idx[categoryID]; ok && ref.Label != "" {
		return ref.Label
	}
	return categoryID
}

// OptionLabel returns the option's label, or the option id when unknown.
func (idx CategoryIndex) OptionLabel(categoryID, optionID string) string {
	if ref, ok := idx[categoryID]; ok {
		if opt, ok := ref.Options[optionID]; ok && opt.Label != "" {
			return opt.Label
		}
	}
	return optionID
}
