package splitpanel

import "github.com/charmbracelet/lipgloss"

const (
	ScrollThumbChar = "█"
	ScrollTrackChar = "│"
)

// BuildScrollbar returns one cell per visible line. Content that fits
// gets blank cells.
func BuildScrollbar(height, total, offset int, thumb, track lipgloss.Color) []string {
	bar := make([]string, height)
	if total <= height {
		for i := range bar {
			bar[i] = " "
		}
		return bar
	}

	size := min(max(height*height/total, 1), max(height-2, 1))
	room := max(height-size, 0)
	pos := 0
	if room > 0 {
		pos = offset * room / max(total-height, 1)
	}
	pos = min(max(pos, 0), room)

	thumbStyle := lipgloss.NewStyle().Foreground(thumb)
	trackStyle := lipgloss.NewStyle().Foreground(track)
	for i := range bar {
		if i >= pos && i < pos+size {
			bar[i] = thumbStyle.Render(ScrollThumbChar)
		} else {
			bar[i] = trackStyle.Render(ScrollTrackChar)
		}
	}
	return bar
}
