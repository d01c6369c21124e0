package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
)

// LoadFunc fetches the configuration once at startup.
type LoadFunc func(ctx context.Context) (*model.Configuration, error)

// filterRow is one selectable option line in the filter panel.
type filterRow struct {
	CategoryIdx int
	OptionIdx   int
}

// resultRow is one line in the results panel: a process header
// (VariantIdx == -1) or one of its variants.
type resultRow struct {
	ProcessIdx int
	VariantIdx int
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Catalog *query.Catalog
	Result  query.Result
	Loading bool
	Err     error

	// Selection is replaced on every change, never edited in place
	Selection model.Selection

	// UI State
	FilterRows  []filterRow
	FilterIdx   int
	ResultRows  []resultRow
	ResultIdx   int
	RightFocus  bool
	ShowHelp    bool
	Notice      string
	WindowSize  tea.WindowSizeMsg
	HelpContent string

	// Search State
	InputMode   bool
	InputBuffer textinput.Model
	SearchTerm  string

	// Components
	DetailsViewport viewport.Model

	ctx  context.Context
	load LoadFunc
}

// InitialModel returns the initial state.
func InitialModel(ctx context.Context, load LoadFunc) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Process name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Loading:     true,
		InputBuffer: ti,
		Selection:   model.Selection{},
		HelpContent: helpText,
		ctx:         ctx,
		load:        load,
	}
}

const helpText = `Process Selector

Pick at most one option per category on the left. Options that no
process or variant could satisfy together with your current picks
are marked ✗ and cannot be selected; a selected option can always
be cleared again.

Processes on the right are marked:
  ✓  the process itself matches
  ≈  only some of its variants match
  ·  nothing matches the current selection

Keys
  ↑/↓ j/k      move
  space/enter  toggle option
  tab          switch panel
  r            reset selection
  /            search processes
  esc          clear search / close help
  ?            help
  q            quit`
