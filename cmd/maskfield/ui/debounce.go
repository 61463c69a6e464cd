package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the recommended debounce duration for resize events
const DefaultResizeDuration = 150 * time.Millisecond

// resizeSettledMsg is delivered once a resize was not followed by another
// within the debounce window.
type resizeSettledMsg struct {
	seq           int
	width, height int
}

// ResizeDebouncer coalesces bursts of tea.WindowSizeMsg. It carries no
// goroutines of its own: each resize schedules a tick and only the tick for
// the latest resize is honoured.
type ResizeDebouncer struct {
	duration   time.Duration
	seq        int
	lastWidth  int
	lastHeight int
}

// NewResizeDebouncer creates a debouncer with the given window.
func NewResizeDebouncer(duration time.Duration) *ResizeDebouncer {
	return &ResizeDebouncer{duration: duration}
}

// Resize records a resize and returns the command that reports it settled.
func (d *ResizeDebouncer) Resize(width, height int) tea.Cmd {
	d.seq++
	msg := resizeSettledMsg{seq: d.seq, width: width, height: height}
	return tea.Tick(d.duration, func(time.Time) tea.Msg { return msg })
}

// Settle reports whether msg belongs to the latest resize, recording its size.
func (d *ResizeDebouncer) Settle(msg resizeSettledMsg) bool {
	if msg.seq != d.seq {
		return false
	}
	d.lastWidth, d.lastHeight = msg.width, msg.height
	return true
}

// LastSize returns the last settled size.
func (d *ResizeDebouncer) LastSize() (width, height int) {
	return d.lastWidth, d.lastHeight
}
