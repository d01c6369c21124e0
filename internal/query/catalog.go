// Package query is the read-only surface renderers use. A Catalog wraps one
// loaded Configuration; selections are passed in on every call and never kept.
package query

import (
	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/resolve"
)

// Catalog indexes a Configuration for repeated queries. It is safe for
// concurrent use because nothing in it changes after New.
type Catalog struct {
	cfg     *model.Configuration
	entries []model.Entry
	lookup  model.CategoryIndex
}

// New indexes cfg. A nil cfg yields an empty catalog.
func New(cfg *model.Configuration) *Catalog {
	if cfg == nil {
		cfg = &model.Configuration{}
	}
	return &Catalog{
		cfg:     cfg,
		entries: model.Flatten(cfg),
		lookup:  model.IndexCategories(cfg.Categories),
	}
}

// Configuration returns the indexed configuration. Callers must treat it as read-only.
func (c *Catalog) Configuration() *model.Configuration {
	return c.cfg
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []model.Category {
	return c.cfg.Categories
}

// Entries returns the flattened process and variant entries.
func (c *Catalog) Entries() []model.Entry {
	return c.entries
}

// Category looks up a category by id.
func (c *Catalog) Category(categoryID string) (model.Category, bool) {
	return c.cfg.Category(categoryID)
}

// ProcessMatchStates evaluates every process against sel, in declaration order.
func (c *Catalog) ProcessMatchStates(sel model.Selection) []resolve.ProcessMatch {
	return resolve.MatchAll(c.cfg, sel)
}

// IsOptionSelectable reports whether picking the option next would leave
// at least one process or variant compatible.
func (c *Catalog) IsOptionSelectable(categoryID, optionID string, sel model.Selection) bool {
	return resolve.OptionIsSupported(categoryID, optionID, sel, c.entries)
}

// CategoryLabel resolves a category label, falling back to the id.
func (c *Catalog) CategoryLabel(categoryID string) string {
	return c.lookup.CategoryLabel(categoryID)
}

// OptionLabel resolves an option label, falling back to the option id.
func (c *Catalog) OptionLabel(categoryID, optionID string) string {
	return c.lookup.OptionLabel(categoryID, optionID)
}
