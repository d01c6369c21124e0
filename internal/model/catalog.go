package model

// Option is one discrete value within a Category.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Category is a filter dimension with an ordered set of mutually exclusive options.
type Category struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Options []Option `json:"options" yaml:"options"`
}

// Option returns the option with the given id, if the category declares it.
func (c Category) Option(id string) (Option, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Variant is a refinement of a Process with its own compatibility constraints.
type Variant struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	ShortLabel string `json:"shortLabel,omitempty" yaml:"shortLabel,omitempty"`
	Summary    string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Compatibility is the variant's own declared map. The tabular source fills this one.
	Compatibility CompatibilityMap `json:"compatibility,omitempty" yaml:"compatibility,omitempty"`
	// Refinements narrows the inherited process map. Takes priority over Compatibility when non-empty.
	Refinements CompatibilityMap `json:"refinements,omitempty" yaml:"refinements,omitempty"`
	// CompatibilityOverrides is applied last and always wins.
	CompatibilityOverrides CompatibilityMap `json:"compatibilityOverrides,omitempty" yaml:"compatibilityOverrides,omitempty"`
}

// Process is a top-level catalog entry, optionally decomposed into variants.
type Process struct {
	ID            string           `json:"id" yaml:"id"`
	Label         string           `json:"label" yaml:"label"`
	ShortLabel    string           `json:"shortLabel,omitempty" yaml:"shortLabel,omitempty"`
	Compatibility CompatibilityMap `json:"compatibility,omitempty" yaml:"compatibility,omitempty"`
	Variants      []Variant        `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Configuration is the root artifact loaded once per session. A reload
// replaces it wholesale; nothing mutates it after construction.
type Configuration struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Processes  []Process  `json:"processes" yaml:"processes"`
}

// Category returns the category with the given id.
func (c *Configuration) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Process returns the process with the given id.
func (c *Configuration) Process(id string) (Process, bool) {
	for _, p := range c.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}
