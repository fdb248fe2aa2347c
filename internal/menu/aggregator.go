package menu

import (
	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/logging"
)

// Aggregator owns the three slot structures and classifies incoming
// application records into them. It is not safe for concurrent use: the
// module's event loop is its single mutation point.
type Aggregator struct {
	index *Index
	slots [3]*Slot

	// Label of the section whose submenu is currently open, empty when
	// none. Tracked here instead of inside per-entry callbacks.
	open string
}

// NewAggregator builds the slot structures and category index from the menu
// configuration. The index is read-only after this point.
func NewAggregator(cfg *config.Menu) (*Aggregator, error) {
	slots, index, err := buildSlots(cfg)
	if err != nil {
		return nil, err
	}
	return &Aggregator{index: index, slots: slots}, nil
}

// Merge classifies a batch of records into the slot structures. For each
// record every category tag is resolved through the index and the record is
// inserted into every claiming section across all three slots. A record
// matching no configured tag anywhere falls through to the center slot's
// Other section. Inserting an already-present record replaces it, so
// re-delivery is idempotent.
func (a *Aggregator) Merge(apps []Application) {
	for _, app := range apps {
		matched := false
		for _, tag := range app.Categories {
			routes := a.index.Routes(tag)
			if len(routes) == 0 {
				continue
			}
			matched = true
			for _, label := range routes {
				for _, slot := range a.slots {
					if section := slot.section(label); section != nil {
						section.insert(app)
					}
				}
			}
		}

		if !matched {
			if other := a.slots[SlotCenter].section(OtherLabel); other != nil {
				other.insert(app)
			} else {
				logging.Debugf("record %q matched no section and no overflow is configured", app.Identifier)
			}
		}
	}
}

// Slot exposes one placement region for rendering. The returned structure
// must only be read on the goroutine that calls Merge.
func (a *Aggregator) Slot(id SlotID) *Slot {
	return a.slots[id]
}

// Open returns the label of the currently open section submenu.
func (a *Aggregator) Open() string {
	return a.open
}

// ToggleOpen opens the submenu for label, closing any sibling; toggling the
// already-open label closes it.
func (a *Aggregator) ToggleOpen(label string) {
	if a.open == label {
		a.open = ""
		return
	}
	a.open = label
}

// CloseOpen closes any open submenu.
func (a *Aggregator) CloseOpen() {
	a.open = ""
}

// Snapshot is an immutable copy of the rendered menu structure, safe to hand
// across goroutines.
type Snapshot struct {
	Start  []EntryView
	Center []EntryView
	End    []EntryView
	Open   string
}

// EntryView is the render-facing projection of one top-level entry.
type EntryView struct {
	Label        string
	Icon         string
	Custom       bool
	OnClick      string
	Applications []Application
}

// Snapshot copies the current slot structures. The rebuild is linear in the
// total entry count; batches are infrequent so no diffing is attempted.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{
		Start:  snapshotSlot(a.slots[SlotStart]),
		Center: snapshotSlot(a.slots[SlotCenter]),
		End:    snapshotSlot(a.slots[SlotEnd]),
		Open:   a.open,
	}
}

func snapshotSlot(slot *Slot) []EntryView {
	entries := slot.Entries()
	out := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		view := EntryView{Label: entry.Label(), Icon: entry.Icon()}
		if entry.Custom != nil {
			view.Custom = true
			view.OnClick = entry.Custom.OnClick
		} else {
			view.Applications = entry.Section.Applications()
		}
		out = append(out, view)
	}
	return out
}
