package menu

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/gobar/internal/config"
)

type fakeDiscoverer struct {
	apps []Application
}

func (d *fakeDiscoverer) Discover(ctx context.Context) ([]Application, error) {
	return d.apps, nil
}

type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
}

func (l *fakeLauncher) Launch(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, identifier)
}

func (l *fakeLauncher) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.launched))
	copy(out, l.launched)
	return out
}

func startModule(t *testing.T, cfg config.Menu, disc Discoverer, launcher Launcher) (chan Update, chan Event, func()) {
	t.Helper()

	mod, err := New(cfg, disc, launcher)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan Update, 1)
	events := make(chan Event, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		mod.Run(ctx, updates, events)
	}()

	return updates, events, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("module did not stop on cancel")
		}
	}
}

func receiveUpdate(t *testing.T, updates chan Update) Update {
	t.Helper()
	select {
	case update := <-updates:
		return update
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

// Waits for an update satisfying the predicate, discarding earlier ones. The
// channel has drop-oldest semantics so intermediate states may never arrive.
func awaitUpdate(t *testing.T, updates chan Update, accept func(Update) bool) Update {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case update := <-updates:
			if accept(update) {
				return update
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching update")
		}
	}
}

func TestRunPublishesInitialUpdate(t *testing.T) {
	updates, _, stop := startModule(t, *testMenu(), &fakeDiscoverer{}, &fakeLauncher{})
	defer stop()

	update := receiveUpdate(t, updates)
	if update.Label != defaultTriggerLabel {
		t.Fatalf("expected default trigger label, got %q", update.Label)
	}
	if len(update.Snapshot.Center) != 3 {
		t.Fatalf("expected 3 configured center entries, got %d", len(update.Snapshot.Center))
	}
	for _, view := range update.Snapshot.Center {
		if len(view.Applications) != 0 {
			t.Fatalf("sections must start empty, got %+v", view)
		}
	}
}

func TestRunOpenDiscoversAndMerges(t *testing.T) {
	disc := &fakeDiscoverer{apps: []Application{
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
		{Label: "Foo", Identifier: "foo", Categories: []string{"Bar"}},
	}}
	updates, events, stop := startModule(t, *testMenu(), disc, &fakeLauncher{})
	defer stop()

	events <- Event{Kind: EventOpen}

	update := awaitUpdate(t, updates, func(u Update) bool {
		return len(u.Snapshot.Center[0].Applications) > 0
	})
	if update.Snapshot.Center[0].Applications[0].Label != "GIMP" {
		t.Fatalf("expected GIMP in Graphics, got %+v", update.Snapshot.Center[0])
	}

	var other []Application
	for _, view := range update.Snapshot.Center {
		if view.Label == OtherLabel {
			other = view.Applications
		}
	}
	if len(other) != 1 || other[0].Label != "Foo" {
		t.Fatalf("expected Foo in Other, got %v", other)
	}
}

func TestRunSectionTogglesOpenState(t *testing.T) {
	updates, events, stop := startModule(t, *testMenu(), &fakeDiscoverer{}, &fakeLauncher{})
	defer stop()

	events <- Event{Kind: EventSection, Label: "Graphics"}
	awaitUpdate(t, updates, func(u Update) bool {
		return u.Snapshot.Open == "Graphics"
	})

	events <- Event{Kind: EventSection, Label: "Graphics"}
	awaitUpdate(t, updates, func(u Update) bool {
		return u.Snapshot.Open == ""
	})
}

func TestRunLaunchDelegatesAndClosesSubmenu(t *testing.T) {
	launcher := &fakeLauncher{}
	updates, events, stop := startModule(t, *testMenu(), &fakeDiscoverer{}, launcher)
	defer stop()

	events <- Event{Kind: EventSection, Label: "Graphics"}
	awaitUpdate(t, updates, func(u Update) bool {
		return u.Snapshot.Open == "Graphics"
	})

	events <- Event{Kind: EventLaunch, Identifier: "gimp"}
	awaitUpdate(t, updates, func(u Update) bool {
		return u.Snapshot.Open == ""
	})

	launched := launcher.all()
	if len(launched) != 1 || launched[0] != "gimp" {
		t.Fatalf("expected single launch of gimp, got %v", launched)
	}
}

func TestRunCustomTriggerLabel(t *testing.T) {
	cfg := *testMenu()
	cfg.Label = "apps"
	updates, _, stop := startModule(t, cfg, &fakeDiscoverer{}, &fakeLauncher{})
	defer stop()

	update := receiveUpdate(t, updates)
	if update.Label != "apps" {
		t.Fatalf("expected configured trigger label, got %q", update.Label)
	}
}

func TestLatestTracksPublishedUpdate(t *testing.T) {
	disc := &fakeDiscoverer{apps: []Application{
		{Label: "GIMP", Identifier: "gimp", Categories: []string{"Graphics"}},
	}}

	mod, err := New(*testMenu(), disc, &fakeLauncher{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan Update, 1)
	events := make(chan Event, 1)
	go mod.Run(ctx, updates, events)

	events <- Event{Kind: EventOpen}
	awaitUpdate(t, updates, func(u Update) bool {
		return len(u.Snapshot.Center[0].Applications) > 0
	})

	last := mod.Latest()
	if len(last.Snapshot.Center[0].Applications) != 1 {
		t.Fatalf("Latest must reflect the published snapshot, got %+v", last.Snapshot.Center[0])
	}
}
