package display

import (
	"fmt"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// Panel geometry. The device drew into a 72x40 pixel window at offset 30x12
// of a 132x64 panel; a terminal cell is about twice as tall as it is wide,
// so one cell stands for 4x8 pixels here.
const (
	cellWidth  = 4
	cellHeight = 8

	panelX      = 30 / cellWidth
	panelY      = 12 / cellHeight
	panelWidth  = 72 / cellWidth
	panelHeight = 40 / cellHeight
)

// panelRect returns the clock box corners in cells.
func panelRect() (x1, y1, x2, y2 int) {
	return panelX, panelY, panelX + panelWidth, panelY + panelHeight
}

// Terminal draws the clock with termui. Only one may be open at a time.
type Terminal struct {
	clock *widgets.Paragraph
	quit  chan struct{}

	mu     sync.Mutex
	on     bool
	closed bool
}

// NewTerminal initializes the terminal and starts listening for q or Ctrl-C.
func NewTerminal() (*Terminal, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	p := widgets.NewParagraph()
	p.Title = "dst-clock"
	p.TextStyle = ui.NewStyle(ui.ColorCyan, ui.ColorClear, ui.ModifierBold)
	p.BorderStyle = ui.NewStyle(ui.ColorBlue)
	p.SetRect(panelRect())

	t := &Terminal{
		clock: p,
		quit:  make(chan struct{}),
	}

	go t.pollEvents()

	return t, nil
}

func (t *Terminal) pollEvents() {
	for e := range ui.PollEvents() {
		if e.Type == ui.KeyboardEvent && (e.ID == "q" || e.ID == "<C-c>") {
			close(t.quit)

			return
		}
	}
}

// Quit implements Quitter.
func (t *Terminal) Quit() <-chan struct{} {
	return t.quit
}

// Render implements Sink.
func (t *Terminal) Render(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	marker := heartbeatOff
	if t.on {
		marker = heartbeatOn
	}

	t.clock.Text = fmt.Sprintf("  %s  %s", text, marker)
	ui.Render(t.clock)

	return nil
}

// Toggle implements Indicator.
func (t *Terminal) Toggle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.on = !t.on
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.closed = true

		ui.Close()
	}

	return nil
}
