package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AndyGlx/am-process-selector/internal/ctxlog"
	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
)

// MsgConfigReady indicates that the configuration has been loaded.
type MsgConfigReady struct {
	Config *model.Configuration
}

// MsgError indicates loading failed.
type MsgError struct {
	Err error
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = detailsHeight
		m.refreshDetails()
		return m, nil

	case MsgConfigReady:
		m.Loading = false
		m.Catalog = query.New(msg.Config)
		m.FilterRows = buildFilterRows(m.Catalog)
		if m.Selection == nil {
			m.Selection = model.Selection{}
		}
		m.FilterIdx = 0
		m.recompute()
		return m, nil

	case MsgError:
		m.Err = msg.Err
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.SearchTerm = strings.TrimSpace(m.InputBuffer.Value())
				m.recompute()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "?":
				m.ShowHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.ShowHelp = true
		case "esc":
			if m.SearchTerm != "" {
				m.clearSearch()
			}
		case "tab":
			m.RightFocus = !m.RightFocus
			m.refreshDetails()
		case "up", "k":
			if m.RightFocus {
				if m.ResultIdx > 0 {
					m.ResultIdx--
				}
			} else if m.FilterIdx > 0 {
				m.FilterIdx--
			}
			m.refreshDetails()
		case "down", "j":
			if m.RightFocus {
				if m.ResultIdx < len(m.ResultRows)-1 {
					m.ResultIdx++
				}
			} else if m.FilterIdx < len(m.FilterRows)-1 {
				m.FilterIdx++
			}
			m.refreshDetails()
		case " ", "enter":
			if !m.RightFocus {
				m.toggleCurrent()
			}
		case "r":
			m.Selection = model.Selection{}
			m.Notice = ""
			m.recompute()
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue(m.SearchTerm)
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// toggleCurrent selects or deselects the option under the filter cursor.
// Disabled options that are not already selected are refused.
func (m *AppModel) toggleCurrent() {
	if m.Catalog == nil || m.FilterIdx >= len(m.FilterRows) {
		return
	}
	row := m.FilterRows[m.FilterIdx]
	cat := m.Catalog.Categories()[row.CategoryIdx]
	opt := cat.Options[row.OptionIdx]

	next, ok := m.Catalog.Toggle(m.Selection, cat.ID, opt.ID)
	if !ok {
		m.Notice = opt.Label + " is not available with the current selection."
		return
	}
	m.Notice = ""
	m.Selection = next
	ctxlog.FromContext(m.ctx).Debug("selection changed", "category", cat.ID, "option", opt.ID, "selected", len(next))
	m.recompute()
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.SearchTerm = ""
	m.recompute()
}

// recompute re-queries the catalog after any selection or search change.
func (m *AppModel) recompute() {
	if m.Catalog == nil {
		return
	}
	m.Result = m.Catalog.Evaluate(m.Selection)
	m.ResultRows = buildResultRows(m.Result, m.SearchTerm)
	if m.ResultIdx >= len(m.ResultRows) {
		m.ResultIdx = max(len(m.ResultRows)-1, 0)
	}
	m.refreshDetails()
}

// refreshDetails fills the details viewport for the focused result row.
func (m *AppModel) refreshDetails() {
	if m.Catalog == nil {
		return
	}
	m.DetailsViewport.SetContent(m.detailsContent())
	m.DetailsViewport.GotoTop()
}

func buildFilterRows(c *query.Catalog) []filterRow {
	var rows []filterRow
	for ci, cat := range c.Categories() {
		for oi := range cat.Options {
			rows = append(rows, filterRow{CategoryIdx: ci, OptionIdx: oi})
		}
	}
	return rows
}

// buildResultRows lists processes whose label or id contains term
// (case-insensitive), each followed by its variants.
func buildResultRows(res query.Result, term string) []resultRow {
	term = strings.ToLower(term)
	var rows []resultRow
	for pi, ps := range res.Processes {
		if term != "" &&
			!strings.Contains(strings.ToLower(ps.Process.Label), term) &&
			!strings.Contains(strings.ToLower(ps.Process.ID), term) {
			continue
		}
		rows = append(rows, resultRow{ProcessIdx: pi, VariantIdx: -1})
		for vi := range ps.Variants {
			rows = append(rows, resultRow{ProcessIdx: pi, VariantIdx: vi})
		}
	}
	return rows
}

// InitLoadCmd loads the configuration in the background.
func InitLoadCmd(ctx context.Context, load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := load(ctx)
		if err != nil {
			ctxlog.FromContext(ctx).Error("configuration could not be loaded", "error", err)
			return MsgError{Err: err}
		}
		return MsgConfigReady{Config: cfg}
	}
}
