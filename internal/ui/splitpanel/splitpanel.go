// Package splitpanel lays out the operator console: the scrollback on the
// left and a narrow roster of online players on the right.
package splitpanel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/footprint-tools/switchboard/internal/ui/style"
)

// Panel is the content of one box.
type Panel struct {
	Title      string
	Lines      []string // visible lines, already scrolled
	ScrollPos  int
	TotalItems int // total scrollable lines; 0 means len(Lines)
}

// Config bounds the sidebar width.
type Config struct {
	SidebarWidthPercent float64
	SidebarMinWidth     int
	SidebarMaxWidth     int
}

// DefaultConfig fits a roster of 16-character names.
var DefaultConfig = Config{SidebarWidthPercent: 0.2, SidebarMinWidth: 16, SidebarMaxWidth: 26}

// Layout holds the computed box sizes.
type Layout struct {
	Width        int
	Height       int
	SidebarWidth int
	ContentWidth int
	Colors       style.ColorConfig
}

// chrome is the border (2), padding (2) and scrollbar (2) around content.
const chrome = 6

// NewLayout splits width between the content and the sidebar. Narrow
// terminals get no sidebar.
func NewLayout(width, height int, cfg Config, colors style.ColorConfig) Layout {
	sidebar := int(float64(width) * cfg.SidebarWidthPercent)
	sidebar = max(sidebar, cfg.SidebarMinWidth)
	sidebar = min(sidebar, cfg.SidebarMaxWidth)
	if width-sidebar < 2*chrome+10 {
		sidebar = 0
	}
	return Layout{
		Width:        width,
		Height:       max(height, 3),
		SidebarWidth: sidebar,
		ContentWidth: width - sidebar,
		Colors:       colors,
	}
}

// MainContentWidth is the usable width inside the content box.
func (l Layout) MainContentWidth() int {
	return max(l.ContentWidth-chrome, 1)
}

// VisibleHeight is the number of lines inside a box.
func (l Layout) VisibleHeight() int {
	return max(l.Height-2, 1)
}

// Render draws content and, when there is room, the sidebar beside it.
func (l Layout) Render(content, sidebar Panel) string {
	active := lipgloss.Color(l.Colors.Header)
	dim := lipgloss.Color(l.Colors.Muted)

	main := l.box(content, l.ContentWidth, active, dim)
	if l.SidebarWidth == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, l.box(sidebar, l.SidebarWidth, dim, dim))
}

func (l Layout) box(p Panel, width int, border, track lipgloss.Color) string {
	inner := max(width-chrome, 1)
	visible := l.VisibleHeight()

	lines := p.Lines
	if p.Title != "" {
		header := lipgloss.NewStyle().Bold(true).Foreground(border).Render(p.Title)
		lines = append([]string{header}, lines...)
	}
	if len(lines) > visible {
		lines = lines[:visible]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}

	total := p.TotalItems
	if total == 0 {
		total = len(p.Lines)
	}
	bar := BuildScrollbar(visible, total, p.ScrollPos, border, track)

	out := make([]string, len(lines))
	for i, line := range lines {
		if w := lipgloss.Width(line); w > inner {
			line = truncate(line, inner)
		} else if w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		out[i] = line + " " + bar[i]
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(out, "\n"))
}

// truncate shortens s to width with an ellipsis. ANSI sequences may be cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	for i := len(runes); i > 0; i-- {
		if c := string(runes[:i]); lipgloss.Width(c) <= width-3 {
			return c + "..."
		}
	}
	return "..."
}
