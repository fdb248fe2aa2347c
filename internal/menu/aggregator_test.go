package menu

import (
	"math/rand"
	"testing"

	"github.com/example/gobar/internal/config"
)

func testMenu() *config.Menu {
	return &config.Menu{
		Center: []config.MenuEntry{
			{Type: config.EntryXdg, Label: "Graphics", Categories: []string{"Graphics"}},
			{Type: config.EntryXdg, Label: "Network", Categories: []string{"Network", "WebBrowser"}},
			{Type: config.EntryXdgOther},
		},
	}
}

func sectionLabels(slot *Slot, label string, t *testing.T) []string {
	t.Helper()
	section := slot.section(label)
	if section == nil {
		t.Fatalf("section %q not found", label)
	}
	labels := []string{}
	for _, app := range section.Applications() {
		labels = append(labels, app.Label)
	}
	return labels
}

func TestMergeRoutesByCategory(t *testing.T) {
	agg, err := NewAggregator(testMenu())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	agg.Merge([]Application{
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
		{Label: "Foo", Identifier: "foo", Categories: []string{"Bar"}},
	})

	center := agg.Slot(SlotCenter)
	graphics := sectionLabels(center, "Graphics", t)
	if len(graphics) != 1 || graphics[0] != "GIMP" {
		t.Fatalf("expected GIMP in Graphics, got %v", graphics)
	}

	other := sectionLabels(center, OtherLabel, t)
	if len(other) != 1 || other[0] != "Foo" {
		t.Fatalf("expected Foo in Other, got %v", other)
	}
}

func TestMergeAnyMatchSuppressesOverflow(t *testing.T) {
	agg, err := NewAggregator(testMenu())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	// One recognized tag among several unknown ones is still a match.
	agg.Merge([]Application{
		{Label: "Firefox", Identifier: "firefox", Categories: []string{"X-Unknown", "WebBrowser", "GTK"}},
	})

	center := agg.Slot(SlotCenter)
	network := sectionLabels(center, "Network", t)
	if len(network) != 1 || network[0] != "Firefox" {
		t.Fatalf("expected Firefox in Network, got %v", network)
	}
	if center.section(OtherLabel).Len() != 0 {
		t.Fatal("matched record must not appear in the overflow section")
	}
}

func TestMergeFansOutAcrossSlots(t *testing.T) {
	cfg := &config.Menu{
		Start: []config.MenuEntry{
			{Type: config.EntryXdg, Label: "Favorites", Categories: []string{"Graphics"}},
		},
		Center: []config.MenuEntry{
			{Type: config.EntryXdgOther},
		},
		End: []config.MenuEntry{
			{Type: config.EntryXdg, Label: "Creative", Categories: []string{"Graphics"}},
		},
	}
	agg, err := NewAggregator(cfg)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	agg.Merge([]Application{
		{Label: "Inkscape", Identifier: "inkscape", Categories: []string{"Graphics"}},
	})

	start := sectionLabels(agg.Slot(SlotStart), "Favorites", t)
	end := sectionLabels(agg.Slot(SlotEnd), "Creative", t)
	if len(start) != 1 || start[0] != "Inkscape" {
		t.Fatalf("expected fan-out into start slot, got %v", start)
	}
	if len(end) != 1 || end[0] != "Inkscape" {
		t.Fatalf("expected fan-out into end slot, got %v", end)
	}
	if agg.Slot(SlotCenter).section(OtherLabel).Len() != 0 {
		t.Fatal("claimed record leaked into the overflow section")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	agg, err := NewAggregator(testMenu())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	batch := []Application{
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
	}
	agg.Merge(batch)
	agg.Merge(batch)
	agg.Merge(batch)

	if got := agg.Slot(SlotCenter).section("Graphics").Len(); got != 1 {
		t.Fatalf("expected 1 entry after repeated merges, got %d", got)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	apps := []Application{
		{Label: "Blender", Identifier: "blender", Categories: []string{"Graphics"}},
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
		{Label: "Inkscape", Identifier: "inkscape", Categories: []string{"Graphics"}},
		{Label: "Krita", Identifier: "krita", Categories: []string{"Graphics"}},
	}
	expected := []string{"Blender", "GIMP", "Inkscape", "Krita"}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]Application, len(apps))
		copy(shuffled, apps)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		agg, err := NewAggregator(testMenu())
		if err != nil {
			t.Fatalf("NewAggregator: %v", err)
		}
		for _, app := range shuffled {
			agg.Merge([]Application{app})
		}

		got := sectionLabels(agg.Slot(SlotCenter), "Graphics", t)
		for i, want := range expected {
			if got[i] != want {
				t.Fatalf("trial %d: position %d expected %q got %v", trial, i, want, got)
			}
		}
	}
}

func TestNewAggregatorRejectsDuplicateLabels(t *testing.T) {
	cfg := &config.Menu{
		Center: []config.MenuEntry{
			{Type: config.EntryXdg, Label: "Games", Categories: []string{"Game"}},
			{Type: config.EntryXdg, Label: "Games", Categories: []string{"ActionGame"}},
		},
	}
	if _, err := NewAggregator(cfg); err == nil {
		t.Fatal("expected duplicate label error")
	}
}

func TestToggleOpenTracksSingleSubmenu(t *testing.T) {
	agg, err := NewAggregator(testMenu())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	agg.ToggleOpen("Graphics")
	if agg.Open() != "Graphics" {
		t.Fatalf("expected Graphics open, got %q", agg.Open())
	}
	agg.ToggleOpen("Network")
	if agg.Open() != "Network" {
		t.Fatalf("opening a sibling must close the previous one, got %q", agg.Open())
	}
	agg.ToggleOpen("Network")
	if agg.Open() != "" {
		t.Fatalf("toggling the open label must close it, got %q", agg.Open())
	}
	agg.ToggleOpen("Graphics")
	agg.CloseOpen()
	if agg.Open() != "" {
		t.Fatal("CloseOpen must clear the open submenu")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	agg, err := NewAggregator(testMenu())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	agg.Merge([]Application{
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
	})
	agg.ToggleOpen("Graphics")

	snap := agg.Snapshot()
	if snap.Open != "Graphics" {
		t.Fatalf("expected open submenu in snapshot, got %q", snap.Open)
	}
	if len(snap.Center) != 3 {
		t.Fatalf("expected 3 center entries, got %d", len(snap.Center))
	}
	if snap.Center[0].Label != "Graphics" || len(snap.Center[0].Applications) != 1 {
		t.Fatalf("unexpected first center entry: %+v", snap.Center[0])
	}

	// Later merges must not show through an earlier snapshot.
	agg.Merge([]Application{
		{Label: "Krita", Identifier: "krita", Categories: []string{"Graphics"}},
	})
	if len(snap.Center[0].Applications) != 1 {
		t.Fatal("snapshot must be detached from later merges")
	}
}
