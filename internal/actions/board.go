package actions

import "time"

// Announcement is one broadcast.
type Announcement struct {
	From string
	Text string
	At   time.Time
}

// Board keeps the latest announcements. It is only touched from the main
// execution context, so it has no lock of its own.
type Board struct {
	max   int
	items []Announcement
}

// NewBoard keeps at most max announcements.
func NewBoard(max int) *Board {
	if max < 1 {
		max = 1
	}
	return &Board{max: max}
}

// Post appends a, dropping the oldest announcement when full.
func (b *Board) Post(a Announcement) {
	b.items = append(b.items, a)
	if over := len(b.items) - b.max; over > 0 {
		b.items = append(b.items[:0], b.items[over:]...)
	}
}

// Recent returns the announcements, oldest first.
func (b *Board) Recent() []Announcement {
	return append([]Announcement(nil), b.items...)
}
