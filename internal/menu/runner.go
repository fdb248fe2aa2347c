package menu

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/logging"
	"github.com/example/gobar/internal/script"
)

// Discoverer supplies one finite batch of application records per request.
// The module never polls or retries discovery itself.
type Discoverer interface {
	Discover(ctx context.Context) ([]Application, error)
}

// Launcher starts the application behind a record identifier. The module
// does not await or interpret the result.
type Launcher interface {
	Launch(identifier string)
}

// EventKind discriminates selection events reported by the renderer.
type EventKind int

const (
	// EventOpen signals that the menu popup was activated; it triggers
	// one discovery pass.
	EventOpen EventKind = iota + 1
	// EventSection toggles a section submenu open or closed.
	EventSection
	// EventLaunch selects an application record.
	EventLaunch
	// EventCustom selects a custom entry, running its on_click script.
	EventCustom
)

// Event is a selection event flowing from the renderer back into the module.
type Event struct {
	Kind       EventKind
	Label      string
	Identifier string
}

// Update carries a full render snapshot to the renderer, together with the
// uninterpreted layout hints and the popup trigger decoration.
type Update struct {
	Snapshot  Snapshot
	Label     string
	LabelIcon string
	Height    int
	Width     int
}

// Renderer consumes render snapshots and reports selections back. It is the
// external rendering collaborator; implementations own all widget state.
type Renderer interface {
	Run(ctx context.Context, updates <-chan Update, events chan<- Event) error
}

const defaultTriggerLabel = "≡"

// Module is one menu module instance: the aggregator, its reactive bindings
// and the event loop tying discovery, classification and rendering together.
type Module struct {
	id  string
	cfg config.Menu

	agg        *Aggregator
	runner     *script.Runner
	bindings   *Bindings
	discoverer Discoverer
	launcher   Launcher

	mu   sync.RWMutex
	last Update
}

// New constructs a menu module from configuration. The category index and
// the empty slot structures are built here, once.
func New(cfg config.Menu, discoverer Discoverer, launcher Launcher) (*Module, error) {
	agg, err := NewAggregator(&cfg)
	if err != nil {
		return nil, err
	}

	return &Module{
		id:         uuid.NewString(),
		cfg:        cfg,
		agg:        agg,
		runner:     script.NewRunner(),
		discoverer: discoverer,
		launcher:   launcher,
	}, nil
}

// ID returns the module instance identifier used in logs and diagnostics.
func (m *Module) ID() string {
	return m.id
}

// Install wires the module's common reactive options onto the given surface.
// Bindings are set up exactly once and live for the module's lifetime.
func (m *Module) Install(ctx context.Context, surface Surface) error {
	bindings, err := InstallBindings(ctx, m.cfg.Common, surface, m.runner)
	if err != nil {
		return err
	}
	m.bindings = bindings
	return nil
}

// Bindings returns the input-event dispatcher, nil before Install.
func (m *Module) Bindings() *Bindings {
	return m.bindings
}

// Latest returns the most recently published render snapshot.
func (m *Module) Latest() Update {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Run drives the module's event loop until ctx is cancelled. All slot
// mutation happens here, on this single goroutine; discovery runs in the
// background and delivers its batch atomically through a channel. Snapshots
// are published with drop-oldest semantics so a slow renderer only ever
// misses intermediate states.
func (m *Module) Run(ctx context.Context, updates chan Update, events <-chan Event) error {
	logging.Debugf("menu module %s starting", m.id)

	batches := make(chan []Application, 1)
	discovering := false

	m.publish(updates)

	for {
		select {
		case <-ctx.Done():
			logging.Debugf("menu module %s stopping", m.id)
			return ctx.Err()

		case apps := <-batches:
			discovering = false
			m.agg.Merge(apps)
			logging.Debugf("menu module %s merged %d records", m.id, len(apps))
			m.publish(updates)

		case ev := <-events:
			switch ev.Kind {
			case EventOpen:
				if discovering {
					continue
				}
				discovering = true
				go m.discover(ctx, batches)

			case EventSection:
				m.agg.ToggleOpen(ev.Label)
				m.publish(updates)

			case EventLaunch:
				m.launcher.Launch(ev.Identifier)
				m.agg.CloseOpen()
				m.publish(updates)

			case EventCustom:
				m.runCustom(ctx, ev.Label)
				m.agg.CloseOpen()
				m.publish(updates)
			}
		}
	}
}

func (m *Module) discover(ctx context.Context, batches chan<- []Application) {
	apps, err := m.discoverer.Discover(ctx)
	if err != nil {
		log.Printf("menu module %s: discovery failed: %v", m.id, err)
	}
	// A partial batch is still delivered; per-item failures were already
	// dropped by the discoverer.
	select {
	case batches <- apps:
	case <-ctx.Done():
	}
}

func (m *Module) runCustom(ctx context.Context, label string) {
	for _, slot := range m.agg.slots {
		idx, ok := slot.byLabel[label]
		if !ok {
			continue
		}
		if custom := slot.entries[idx].Custom; custom != nil {
			spec, err := script.Parse(custom.OnClick)
			if err != nil {
				log.Printf("menu module %s: custom entry %q: %v", m.id, label, err)
				return
			}
			logging.Debugf("executing custom entry %q", label)
			m.runner.RunOneshot(ctx, spec)
			return
		}
	}
}

func (m *Module) publish(updates chan Update) {
	update := Update{
		Snapshot:  m.agg.Snapshot(),
		Label:     m.triggerLabel(),
		LabelIcon: m.cfg.LabelIcon,
		Height:    m.cfg.Height,
		Width:     m.cfg.Width,
	}

	m.mu.Lock()
	m.last = update
	m.mu.Unlock()

	select {
	case updates <- update:
	default:
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- update:
		default:
		}
	}
}

func (m *Module) triggerLabel() string {
	if m.cfg.Label != "" {
		return m.cfg.Label
	}
	return defaultTriggerLabel
}
