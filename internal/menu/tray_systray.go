//go:build cgo || windows
// +build cgo windows

package menu

import (
	"context"
	"sync"

	"github.com/getlantern/systray"

	"github.com/example/gobar/internal/logging"
)

type systrayRenderer struct {
	mu      sync.Mutex
	entries []trayEntry
	hidden  bool
	tooltip string
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

func newTrayRenderer() TrayRenderer {
	return &systrayRenderer{tooltip: "gobar"}
}

// Run hosts the systray loop, rebuilding the menu on every published update
// and forwarding selections back as events. It blocks until the context is
// cancelled or the tray exits.
func (c *systrayRenderer) Run(ctx context.Context, updates <-chan Update, events chan<- Event) error {
	done := make(chan struct{})

	go systray.Run(func() {
		systray.SetTooltip(c.tooltip)

		quit := systray.AddMenuItem("Quit gobar", "Exit the bar")
		go func() {
			select {
			case <-ctx.Done():
			case <-quit.ClickedCh:
			}
			systray.Quit()
		}()

		go c.listen(ctx, updates, events)
	}, func() {
		c.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *systrayRenderer) listen(ctx context.Context, updates <-chan Update, events chan<- Event) {
	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case update, ok := <-updates:
			if !ok {
				systray.Quit()
				return
			}
			c.render(ctx, update, events)
		}
	}
}

func (c *systrayRenderer) render(ctx context.Context, update Update, events chan<- Event) {
	systray.SetTitle(update.Label)

	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, entry := range old {
		entry.cancel()
		if entry.item != nil {
			entry.item.Hide()
		}
	}

	var entries []trayEntry
	entries = append(entries, c.addEntry(ctx, events, Event{Kind: EventOpen}, update.Label, "Open menu", nil))

	for _, slot := range [][]EntryView{update.Snapshot.Start, update.Snapshot.Center, update.Snapshot.End} {
		for _, view := range slot {
			entries = append(entries, c.renderEntry(ctx, view, events)...)
		}
	}

	c.mu.Lock()
	c.entries = entries
	hidden := c.hidden
	c.mu.Unlock()

	if hidden {
		c.applyVisibility(true)
	}
	logging.Debugf("tray rendered %d menu entries", len(entries))
}

func (c *systrayRenderer) renderEntry(ctx context.Context, view EntryView, events chan<- Event) []trayEntry {
	if view.Custom {
		return []trayEntry{
			c.addEntry(ctx, events, Event{Kind: EventCustom, Label: view.Label}, view.Label, view.Icon, nil),
		}
	}

	entries := make([]trayEntry, 0, len(view.Applications)+1)
	parent := c.addEntry(ctx, events, Event{Kind: EventSection, Label: view.Label}, view.Label, view.Icon, nil)
	entries = append(entries, parent)

	for _, app := range view.Applications {
		entries = append(entries, c.addEntry(ctx, events,
			Event{Kind: EventLaunch, Identifier: app.Identifier}, app.Label, app.Identifier, parent.item))
	}
	return entries
}

func (c *systrayRenderer) addEntry(ctx context.Context, events chan<- Event, ev Event, title, tooltip string, parent *systray.MenuItem) trayEntry {
	var item *systray.MenuItem
	if parent != nil {
		item = parent.AddSubMenuItem(title, tooltip)
	} else {
		item = systray.AddMenuItem(title, tooltip)
	}

	entryCtx, cancel := context.WithCancel(ctx)
	go func() {
		for {
			select {
			case <-entryCtx.Done():
				return
			case _, ok := <-item.ClickedCh:
				if !ok {
					return
				}
				select {
				case events <- ev:
				case <-entryCtx.Done():
					return
				}
			}
		}
	}()

	return trayEntry{item: item, cancel: cancel}
}

func (c *systrayRenderer) shutdown() {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, entry := range old {
		entry.cancel()
	}
}

// Surface returns the module container handle backed by the tray entries.
func (c *systrayRenderer) Surface() Surface {
	return c
}

// Show makes the module's entries visible again.
func (c *systrayRenderer) Show() {
	c.mu.Lock()
	c.hidden = false
	c.mu.Unlock()
	c.applyVisibility(false)
}

// Hide removes the module's entries from view without tearing them down.
func (c *systrayRenderer) Hide() {
	c.mu.Lock()
	c.hidden = true
	c.mu.Unlock()
	c.applyVisibility(true)
}

// SetTooltip updates the tray tooltip text.
func (c *systrayRenderer) SetTooltip(text string) {
	c.mu.Lock()
	c.tooltip = text
	c.mu.Unlock()
	systray.SetTooltip(text)
}

func (c *systrayRenderer) applyVisibility(hidden bool) {
	c.mu.Lock()
	entries := make([]trayEntry, len(c.entries))
	copy(entries, c.entries)
	c.mu.Unlock()

	for _, entry := range entries {
		if entry.item == nil {
			continue
		}
		if hidden {
			entry.item.Hide()
		} else {
			entry.item.Show()
		}
	}
}
