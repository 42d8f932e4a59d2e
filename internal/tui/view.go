package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/contactdesk/internal/contact"
	"github.com/muurk/contactdesk/internal/roster"
)

// View renders the table screen, the form modal when open and the loading
// overlay while a call is in flight.
func (m Model) View() string {
	width, height := m.Width, m.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}

	var screen string
	if m.ShowingForm {
		screen = RenderModal(m.Form.View(), width, height)
	} else {
		screen = RenderApplicationContainer(m.renderContent(width), m.endpoint, m.footer(), width, height)
	}

	if m.calls.Loading() {
		screen = OverlayCenter(screen, m.renderLoading(), width)
	}
	return screen
}

func (m Model) footer() string {
	if m.EditingID != "" {
		return m.Help.View(m.editKeys)
	}
	return m.Help.View(m.keys)
}

// renderLoading names the calls in flight, oldest first.
func (m Model) renderLoading() string {
	text := m.Spinner.View() + " Loading..."
	if labels := m.calls.Labels(); len(labels) > 0 {
		text += " " + strings.Join(labels, ", ")
	}
	return LoadingStyle.Render(text)
}

func (m Model) renderContent(width int) string {
	var b strings.Builder

	title := TitleStyle.Render("Contacts")
	count := SubtitleStyle.Render(fmt.Sprintf("  %d", m.roster.Len()))
	b.WriteString(title + count + "\n")

	if m.roster.Len() == 0 {
		msg := "No contacts. Press a to add one."
		if !m.Loaded {
			msg = "No contacts loaded."
		}
		b.WriteString(EmptyStyle.Render(msg))
	} else {
		b.WriteString(m.renderTable(width - 4))
	}

	if m.Err != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width-6).Render(RenderError(m.Err)))
	}
	return b.String()
}

// renderTable draws the visible window of rows. The row being edited shows
// its inputs in place of the committed values.
func (m Model) renderTable(width int) string {
	rows := m.roster.Rows()
	start, end := m.offset, m.offset+m.visibleRows()
	if end > len(rows) {
		end = len(rows)
	}
	if start > end {
		start = end
	}
	window := rows[start:end]

	cells := make([][]string, len(window))
	for i, row := range window {
		cells[i] = m.rowCells(row, start+i == m.Cursor)
	}

	headers := []string{" "}
	headers = append(headers, "ID")
	for _, f := range contact.Fields {
		headers = append(headers, f.Label())
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row >= len(window) {
				return HeaderCellStyle
			}
			r := window[row]
			switch {
			case r.Editing:
				return EditingCellStyle
			case start+row == m.Cursor:
				return SelectedCellStyle
			case col == 1:
				return IDCellStyle
			default:
				return CellStyle
			}
		})

	rendered := t.String()
	if lipgloss.Width(rendered) > width {
		rendered = t.Width(width).String()
	}
	return rendered
}

func (m Model) rowCells(row roster.Row, selected bool) []string {
	marker := " "
	if selected {
		marker = editingCellMarker
	}
	cells := []string{marker, ShortID(row.ID)}

	editing := row.Editing && row.ID == m.EditingID
	for i, f := range contact.Fields {
		if editing {
			cells = append(cells, m.inputs[i].View())
			continue
		}
		cells = append(cells, f.Get(row.Contact))
	}
	return cells
}
