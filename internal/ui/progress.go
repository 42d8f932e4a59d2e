package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ItemStatus is the state of one item in a batch operation.
type ItemStatus int

const (
	ItemPending ItemStatus = iota
	ItemRunning
	ItemDone
	ItemFailed
)

var (
	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	itemDoneStyle    = lipgloss.NewStyle().Foreground(SuccessColor)
	itemRunningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	itemPendingStyle = lipgloss.NewStyle().Foreground(MutedColor)
	itemNoteStyle    = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
)

type item struct {
	name    string
	status  ItemStatus
	message string
}

// Progress tracks a batch of named items, such as contacts being imported,
// and renders a bar plus one line per item. Workers may report concurrently.
type Progress struct {
	mu    sync.Mutex
	label string
	items []item
	width int
	bar   progress.Model
}

// NewProgress creates a tracker for the named items, all pending.
func NewProgress(label string, names []string) *Progress {
	items := make([]item, len(names))
	for i, n := range names {
		items[i] = item{name: n}
	}
	p := &Progress{label: label, items: items}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sizes the bar for a terminal of the given width.
func (p *Progress) SetWidth(width int) *Progress {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.width = width
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// Update sets the status of item i (0-based). Out of range indexes are ignored.
func (p *Progress) Update(i int, status ItemStatus, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.items) {
		return
	}
	p.items[i].status = status
	p.items[i].message = message
}

// Counts returns how many items finished successfully and how many failed.
func (p *Progress) Counts() (done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts()
}

func (p *Progress) counts() (done, failed int) {
	for _, it := range p.items {
		switch it.status {
		case ItemDone:
			done++
		case ItemFailed:
			failed++
		}
	}
	return done, failed
}

// Percent is the share of items that have settled, successfully or not.
func (p *Progress) Percent() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent()
}

func (p *Progress) percent() float64 {
	if len(p.items) == 0 {
		return 1
	}
	done, failed := p.counts()
	return float64(done+failed) / float64(len(p.items))
}

// Render returns the label, bar and item list.
func (p *Progress) Render() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	if p.label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.label))
		b.WriteString("\n\n")
	}

	done, failed := p.counts()
	pct := p.percent()
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(pct), pct*100, done+failed, len(p.items))))
	b.WriteString("\n\n")

	lines := make([]string, len(p.items))
	for i, it := range p.items {
		lines[i] = p.renderItem(i, it)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (p *Progress) renderItem(i int, it item) string {
	var marker string
	style := itemPendingStyle
	switch it.status {
	case ItemDone:
		marker, style = SuccessMarker, itemDoneStyle
	case ItemRunning:
		marker, style = "●", itemRunningStyle
	case ItemFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	default:
		marker = "·"
	}

	line := fmt.Sprintf("  [%d/%d] %s %s", i+1, len(p.items), style.Render(marker), style.Render(it.name))
	if it.message != "" {
		line += "  " + itemNoteStyle.Render("("+it.message+")")
	}
	return line
}

func (p *Progress) String() string {
	return p.Render()
}
