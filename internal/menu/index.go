package menu

import (
	"fmt"

	"github.com/example/gobar/internal/config"
)

// OtherLabel is the reserved label of the catch-all overflow section.
const OtherLabel = config.OtherLabel

const otherIcon = "applications-other"

// SlotID identifies one of the three fixed placement regions.
type SlotID int

const (
	SlotStart SlotID = iota
	SlotCenter
	SlotEnd
)

func (id SlotID) String() string {
	switch id {
	case SlotStart:
		return "start"
	case SlotCenter:
		return "center"
	case SlotEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Index is the static mapping from category tag to the section labels that
// claim it. It is built once per menu instantiation by folding the three
// slot configurations in declared order and is read-only thereafter. A tag
// may route to multiple sections; that fan-out is intentional.
type Index struct {
	routes map[string][]string
}

// Routes returns the section labels claiming the given category tag, in
// declaration order.
func (ix *Index) Routes(tag string) []string {
	return ix.routes[tag]
}

// buildSlots walks the slot configurations, producing the three entry
// structures and the category index in a single pass. Duplicate labels
// within a slot are a configuration error, never silent shadowing.
func buildSlots(cfg *config.Menu) ([3]*Slot, *Index, error) {
	ix := &Index{routes: make(map[string][]string)}
	var slots [3]*Slot

	declared := []struct {
		id      SlotID
		entries []config.MenuEntry
	}{
		{SlotStart, cfg.Start},
		{SlotCenter, cfg.Center},
		{SlotEnd, cfg.End},
	}

	for _, slot := range declared {
		built := newSlot()
		for _, entry := range slot.entries {
			var added bool
			label := entry.Label
			switch entry.Type {
			case config.EntryXdg:
				for _, tag := range entry.Categories {
					ix.routes[tag] = append(ix.routes[tag], entry.Label)
				}
				added = built.add(Entry{Section: &Section{Label: entry.Label, Icon: entry.Icon}})
			case config.EntryXdgOther:
				label = OtherLabel
				added = built.add(Entry{Section: &Section{Label: OtherLabel, Icon: otherIcon}})
			case config.EntryCustom:
				added = built.add(Entry{Custom: &Custom{Label: entry.Label, Icon: entry.Icon, OnClick: entry.OnClick}})
			default:
				return slots, nil, fmt.Errorf("slot %s: unknown entry type %q", slot.id, entry.Type)
			}
			if !added {
				return slots, nil, fmt.Errorf("slot %s: duplicate section label %q", slot.id, label)
			}
		}
		slots[slot.id] = built
	}

	return slots, ix, nil
}
