package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
)

const detailsHeight = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")) // Sky Blue/Cyan
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true) // Pinkish
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Grey
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	adviceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange

	dimColor    = lipgloss.Color("240")
	activeColor = lipgloss.Color("205")
	borderColor = lipgloss.Color("63")
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Loading configuration... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Configuration could not be loaded.\n\n  %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	netWidth := m.WindowSize.Width - 6
	if netWidth < 40 {
		netWidth = 40
	}
	leftWidth := netWidth * 2 / 5
	rightWidth := netWidth - leftWidth

	boxHeight := m.WindowSize.Height - detailsHeight - 8
	if boxHeight < 6 {
		boxHeight = 6
	}

	lBorder, rBorder := activeColor, borderColor
	if m.RightFocus {
		lBorder, rBorder = borderColor, activeColor
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(boxHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lBorder).
		Render(m.renderFilters(boxHeight, leftWidth))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(boxHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(rBorder).
		Render(m.renderResults(boxHeight, rightWidth))

	details := lipgloss.NewStyle().
		Width(netWidth + 2).
		Height(detailsHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(m.DetailsViewport.View())

	help := "↑/↓: Navigate • Space: Toggle • Tab: Switch Panel • r: Reset • /: Search • ?: Help • q: Quit"
	footer := "\n" + help
	if m.InputMode {
		footer = fmt.Sprintf("\nSearch: %s", m.InputBuffer.View())
	} else if m.SearchTerm != "" {
		footer = fmt.Sprintf("\nSearch: %q (esc to clear) • %s", m.SearchTerm, help)
	}
	if m.Notice != "" {
		footer = "\n" + adviceStyle.Render(m.Notice) + footer
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + details + footer
}

// renderFilters draws the category/option list, windowed around the cursor.
func (m AppModel) renderFilters(height, width int) string {
	var lines []string
	cursorLine := 0
	for ci, cs := range m.Catalog.OptionStates(m.Selection) {
		lines = append(lines, categoryStyle.Render(truncate(cs.Label, width-2)))
		for oi, st := range cs.Options {
			icon, style := model.IconAvailable, normalStyle
			switch {
			case st.Selected:
				icon, style = model.IconSelected, selectedStyle
			case st.Disabled:
				icon, style = model.IconDisabled, dimmedStyle
			}
			line := truncate(fmt.Sprintf("  %s %s", icon, st.Label), width-2)
			if m.isFilterCursor(ci, oi) {
				cursorLine = len(lines)
				if !m.RightFocus {
					style = cursorStyle
				}
			}
			lines = append(lines, style.Render(line))
		}
	}

	header := titleStyle.Render("Filters")
	if n := len(m.Selection); n > 0 {
		header += dimmedStyle.Render(fmt.Sprintf("  (%d selected)", n))
	}
	return header + "\n\n" + window(lines, cursorLine, height-2)
}

func (m AppModel) isFilterCursor(ci, oi int) bool {
	if m.FilterIdx >= len(m.FilterRows) {
		return false
	}
	row := m.FilterRows[m.FilterIdx]
	return row.CategoryIdx == ci && row.OptionIdx == oi
}

// renderResults draws process cards and variant pills.
func (m AppModel) renderResults(height, width int) string {
	var lines []string
	for i, row := range m.ResultRows {
		ps := m.Result.Processes[row.ProcessIdx]
		var line string
		var style lipgloss.Style

		if row.VariantIdx < 0 {
			icon := model.IconNoMatch
			style = normalStyle
			switch ps.Class {
			case query.CardMatch:
				icon, style = model.IconMatch, matchStyle
			case query.CardVariantMatch:
				icon, style = model.IconVariantMatch, partialStyle
			case query.CardDimmed:
				style = dimmedStyle
			}
			line = fmt.Sprintf("%s %s", icon, ps.Process.Label)
			if ps.Status != "" && m.Result.SelectionsActive {
				line += "  " + ps.Status
			}
		} else {
			vm := ps.Variants[row.VariantIdx]
			style = normalStyle
			mark := " "
			if vm.Match {
				mark, style = model.IconMatch, matchStyle
			} else if m.Result.SelectionsActive {
				style = dimmedStyle
			}
			line = fmt.Sprintf("    [%s] %s", mark, vm.Variant.Label)
		}

		line = truncate(line, width-2)
		if m.RightFocus && i == m.ResultIdx {
			style = cursorStyle
		}
		lines = append(lines, style.Render(line))
	}

	header := titleStyle.Render("Processes")
	if !m.Result.SelectionsActive {
		header += dimmedStyle.Render("  " + query.StatusAwaiting)
	}
	body := window(lines, m.ResultIdx, height-2)
	if m.Result.ShowEmptyState {
		body = adviceStyle.Render("No process or variant is compatible with the current selection.") + "\n\n" + body
	} else if len(lines) == 0 && m.SearchTerm != "" {
		body = dimmedStyle.Render("No process matches the search.")
	}
	return header + "\n\n" + body
}

// detailsContent describes the focused variant (or process) traits.
func (m AppModel) detailsContent() string {
	if !m.RightFocus || m.ResultIdx >= len(m.ResultRows) {
		if m.FilterIdx < len(m.FilterRows) {
			row := m.FilterRows[m.FilterIdx]
			cat := m.Catalog.Categories()[row.CategoryIdx]
			opt := cat.Options[row.OptionIdx]
			if !m.Selection.IsSelected(cat.ID, opt.ID) && !m.Catalog.IsOptionSelectable(cat.ID, opt.ID, m.Selection) {
				return dimmedStyle.Render(fmt.Sprintf("%s: %s cannot be combined with the current selection.", cat.Label, opt.Label))
			}
			return fmt.Sprintf("%s: %s", cat.Label, opt.Label)
		}
		return ""
	}

	row := m.ResultRows[m.ResultIdx]
	ps := m.Result.Processes[row.ProcessIdx]
	title := ps.Process.Label
	compat := ps.Process.Compatibility
	summary := ""
	if row.VariantIdx >= 0 {
		vm := ps.Variants[row.VariantIdx]
		title = fmt.Sprintf("%s / %s", ps.Process.Label, vm.Variant.Label)
		compat = vm.Effective
		summary = vm.Variant.Summary
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if summary != "" {
		b.WriteString(summary + "\n")
	}
	traits := m.Catalog.Describe(compat)
	if len(traits) == 0 {
		b.WriteString(dimmedStyle.Render("No constraints declared."))
	}
	for _, tr := range traits {
		fmt.Fprintf(&b, "%s %s\n", categoryStyle.Render(tr.CategoryLabel), strings.Join(tr.OptionLabels, ", "))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}
	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(m.HelpContent)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

// window returns at most size lines, keeping focus roughly centred.
func window(lines []string, focus, size int) string {
	if size < 1 {
		size = 1
	}
	start := 0
	if len(lines) > size {
		if focus >= size/2 {
			start = focus - size/2
		}
		if start+size > len(lines) {
			start = len(lines) - size
		}
		lines = lines[start : start+size]
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width < 4 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, InitLoadCmd(m.ctx, m.load))
}
