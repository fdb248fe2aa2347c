//go:build !cgo && !windows
// +build !cgo,!windows

package menu

import (
	"context"
	"log"
	"sync"
)

// stubRenderer keeps headless builds functional: updates are consumed and
// discarded, surface state is tracked but drawn nowhere.
type stubRenderer struct {
	mu      sync.Mutex
	hidden  bool
	tooltip string
}

func newTrayRenderer() TrayRenderer {
	return &stubRenderer{}
}

func (c *stubRenderer) Run(ctx context.Context, updates <-chan Update, events chan<- Event) error {
	log.Printf("tray support unavailable in this build; running headless")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return nil
			}
		}
	}
}

func (c *stubRenderer) Surface() Surface {
	return c
}

func (c *stubRenderer) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = false
}

func (c *stubRenderer) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = true
}

func (c *stubRenderer) SetTooltip(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltip = text
}
