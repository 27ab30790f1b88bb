package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

const (
	heartbeatOn  = "●"
	heartbeatOff = "○"
)

// Console redraws the clock on one line of w.
type Console struct {
	w     io.Writer
	paint *color.Color
	beat  *color.Color

	mu     sync.Mutex
	on     bool
	closed bool
}

// NewConsole returns a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:     w,
		paint: color.New(color.FgHiCyan, color.Bold),
		beat:  color.New(color.FgBlue),
	}
}

// Render implements Sink.
func (c *Console) Render(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	marker := heartbeatOff
	if c.on {
		marker = heartbeatOn
	}

	if _, err := fmt.Fprint(c.w, "\r", c.paint.Sprint(text), " ", c.beat.Sprint(marker)); err != nil {
		return fmt.Errorf("write console: %w", err)
	}

	return nil
}

// Toggle implements Indicator.
func (c *Console) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.on = !c.on
}

// Close ends the line.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	_, err := fmt.Fprintln(c.w)

	return err
}
