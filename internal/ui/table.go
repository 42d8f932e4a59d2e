package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/contactdesk/internal/contact"
)

// ContactHeaders are the table columns in display order.
func ContactHeaders() []string {
	headers := []string{"ID"}
	for _, f := range contact.Fields {
		headers = append(headers, f.Label())
	}
	return headers
}

// ContactRow returns c's cells in ContactHeaders order.
func ContactRow(c contact.Contact) []string {
	row := []string{c.ID}
	for _, f := range contact.Fields {
		row = append(row, f.Get(c))
	}
	return row
}

// RenderContactsTable renders contacts in a bordered table no wider than
// width. An empty list renders a placeholder line instead.
func RenderContactsTable(contacts []contact.Contact, width int) string {
	if len(contacts) == 0 {
		return EmptyStyle.Render("No contacts.")
	}

	rows := make([][]string, len(contacts))
	for i, c := range contacts {
		rows[i] = ContactRow(c)
	}
	return RenderTable(ContactHeaders(), rows, width)
}

// RenderTable renders a bordered table, shrinking columns when it would be
// wider than width. The first column is muted.
func RenderTable(headers []string, rows [][]string, width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 0:
				return TableMutedCellStyle
			default:
				return TableCellStyle
			}
		})

	rendered := t.String()
	if lipgloss.Width(rendered) > width {
		rendered = t.Width(width).String()
	}
	return rendered
}
