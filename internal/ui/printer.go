package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactdesk/internal/contact"
)

// Printer writes styled command output. Commands create one per run.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer for w, sized to the terminal.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width this printer renders at.
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command banner.
func (p *Printer) PrintHeader(title, command string) {
	p.Println(RenderHeader(title, command, p.width))
}

// PrintSuccess prints a success box with key/value details.
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error box. hint is multi-line troubleshooting text;
// a leading "Troubleshooting:" line is dropped since the box adds its own.
func (p *Printer) PrintError(title string, err error, hint string) {
	p.Println(RenderErrorBox(title, err, hint, p.width))
}

// PrintContacts prints contacts as a table.
func (p *Printer) PrintContacts(contacts []contact.Contact) {
	p.Println(RenderContactsTable(contacts, p.width))
}

// RenderHeader renders a command banner.
func RenderHeader(title, command string, width int) string {
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	return HeaderBorderStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine))
}

func renderDetails(details map[string]string) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, ResultKeyStyle.Render(k+":")+" "+ResultValueStyle.Render(details[k]))
	}
	return lines
}

// RenderSuccessBox renders a success result box. Details are listed by key.
func RenderSuccessBox(title string, details map[string]string, width int) string {
	lines := []string{
		SuccessTitleStyle.Render(SuccessMarker + "  SUCCESS  ─  " + title),
	}
	if len(details) > 0 {
		lines = append(lines, "")
		lines = append(lines, renderDetails(details)...)
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting text.
func RenderErrorBox(title string, err error, hint string, width int) string {
	lines := []string{
		ErrorTitleStyle.Render(FailureMarker + "  FAILED  ─  " + title),
	}
	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}

	if tips := hintLines(hint); len(tips) > 0 {
		troubleLines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:")}
		for _, tip := range tips {
			troubleLines = append(troubleLines, TroubleshootingItemStyle.Render(tip))
		}
		lines = append(lines, "", TroubleshootingBoxStyle(width).Render(strings.Join(troubleLines, "\n")))
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func hintLines(hint string) []string {
	var out []string
	for _, line := range strings.Split(hint, "\n") {
		if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == "Troubleshooting:" {
			continue
		}
		out = append(out, line)
	}
	return out
}
