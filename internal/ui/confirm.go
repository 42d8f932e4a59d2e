package ui

import (
	"bufio"
	"io"
	"strings"
)

// Confirm shows a warning box on p and asks the user to type "yes". It
// reports whether they did. Anything else, including EOF, declines.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string) bool {
	lines := []string{WarningTitleStyle.Render(WarningMarker + "  " + title)}
	if len(warnings) > 0 {
		lines = append(lines, "")
		for _, w := range warnings {
			lines = append(lines, ResultValueStyle.Render("• "+w))
		}
	}
	p.Println(WarningBoxStyle(p.width).Render(strings.Join(lines, "\n")))
	p.Print(WarningTitleStyle.Render(`Type "yes" to continue: `))

	input, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && input == "" {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(input), "yes") {
		return true
	}
	p.Println(TroubleshootingItemStyle.Render("  Cancelled."))
	return false
}
