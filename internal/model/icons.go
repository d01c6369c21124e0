package model

// Centralized icons for the renderers
// Using simple single-width characters for consistent terminal rendering
const (
	IconSelected     = "●" // Option currently selected
	IconAvailable    = "○" // Option still selectable
	IconDisabled     = "✗" // No entry supports this option under the selection
	IconMatch        = "✓" // Process matches on its own map
	IconVariantMatch = "≈" // Only some variants match
	IconNoMatch      = "·" // Nothing in this process matches
)

// Version is the current release, reported by --version and the web API.
const Version = "0.3.0"
