// Package bar owns the running widget process: the menu module lifecycle,
// the tray renderer and the control channel used by `gobar ctl`.
package bar

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/ipc"
	"github.com/example/gobar/internal/launch"
	"github.com/example/gobar/internal/logging"
	"github.com/example/gobar/internal/menu"
	"github.com/example/gobar/internal/protocol"
	"github.com/example/gobar/internal/security"
	"github.com/example/gobar/internal/xdg"
)

// Bar ties one menu module instance to the tray renderer and serves control
// requests. Reloading replaces the module wholesale; the renderer and its
// channels live for the process lifetime.
type Bar struct {
	key      string
	token    string
	endpoint ipc.Endpoint

	renderer menu.TrayRenderer
	updates  chan menu.Update
	events   chan menu.Event

	mu  sync.RWMutex
	mod *menu.Module

	reloadRequests chan struct{}
	quitRequests   chan struct{}
}

// New constructs a Bar using the provided configuration key (empty for
// plain-JSON configuration).
func New(key string) *Bar {
	return &Bar{
		key:            key,
		token:          security.ResolveControlToken(key),
		endpoint:       ipc.DefaultEndpoint(),
		renderer:       menu.NewTrayRenderer(),
		updates:        make(chan menu.Update, 1),
		events:         make(chan menu.Event, 8),
		reloadRequests: make(chan struct{}, 1),
		quitRequests:   make(chan struct{}, 1),
	}
}

// RequestReload schedules a configuration reload; safe from any goroutine.
func (b *Bar) RequestReload() {
	select {
	case b.reloadRequests <- struct{}{}:
	default:
	}
}

func (b *Bar) requestQuit() {
	select {
	case b.quitRequests <- struct{}{}:
	default:
	}
}

// Run drives the bar until the context is cancelled, the tray exits or a
// quit command arrives. Each pass of the loop owns one module instance.
func (b *Bar) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rendererErr := make(chan error, 1)
	go func() {
		rendererErr <- b.renderer.Run(ctx, b.updates, b.events)
	}()

	if b.token == "" {
		log.Printf("gobar control channel disabled; set GOBAR_CTL_TOKEN or a configuration key to enable it")
	} else {
		go b.serveControl(ctx)
	}

	for {
		modCtx, modCancel := context.WithCancel(ctx)
		modErr, err := b.startModule(modCtx)
		if err != nil {
			modCancel()
			return err
		}

		select {
		case <-ctx.Done():
			modCancel()
			<-modErr
			return ctx.Err()

		case err := <-rendererErr:
			modCancel()
			<-modErr
			return err

		case <-b.quitRequests:
			log.Printf("gobar stopping on control request")
			modCancel()
			<-modErr
			return nil

		case <-b.reloadRequests:
			log.Printf("gobar reloading configuration")
			modCancel()
			// Wait for the old module to release the event channel
			// before the replacement takes over.
			<-modErr

		case err := <-modErr:
			modCancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}
	}
}

func (b *Bar) startModule(ctx context.Context) (<-chan error, error) {
	cfg, err := config.Load(b.key)
	if err != nil {
		return nil, err
	}

	if len(cfg.Menu.Start) == 0 && len(cfg.Menu.Center) == 0 && len(cfg.Menu.End) == 0 {
		cfg.Menu.Center = menu.DefaultCenter()
		if err := config.Save(cfg, b.key); err != nil {
			return nil, fmt.Errorf("seed default configuration: %w", err)
		}
		log.Printf("gobar seeded default menu configuration")
	}

	discoverer := xdg.NewDiscoverer(cfg.Menu.MaxLength())
	mod, err := menu.New(cfg.Menu, discoverer, launch.New())
	if err != nil {
		return nil, err
	}

	if err := mod.Install(ctx, b.renderer.Surface()); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.mod = mod
	b.mu.Unlock()

	modErr := make(chan error, 1)
	go func() {
		modErr <- mod.Run(ctx, b.updates, b.events)
	}()

	// Kick off the initial discovery pass; later passes are driven by
	// popup activation.
	select {
	case b.events <- menu.Event{Kind: menu.EventOpen}:
	default:
	}

	logging.Debugf("menu module %s started", mod.ID())
	return modErr, nil
}

func (b *Bar) module() *menu.Module {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mod
}

func (b *Bar) serveControl(ctx context.Context) {
	listener, err := b.endpoint.Listen()
	if err != nil {
		log.Printf("control channel unavailable on %s: %v", b.endpoint, err)
		return
	}
	defer listener.Close()

	log.Printf("gobar control channel listening on %s (token %s)", b.endpoint, logging.MaskIdentifier(b.token))

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				time.Sleep(250 * time.Millisecond)
				continue
			}
			log.Printf("control channel accept: %v", err)
			return
		}

		go b.handleConnection(conn)
	}
}

func (b *Bar) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var req protocol.Request
	if err := decoder.Decode(&req); err != nil {
		logging.Debugf("control channel: failed to decode request: %v", err)
		return
	}

	if !b.authorize(req.Token) {
		_ = encoder.Encode(protocol.Response{Error: "unauthorized"})
		return
	}

	_ = encoder.Encode(b.execute(req.Command))
}

func (b *Bar) execute(command string) protocol.Response {
	switch command {
	case protocol.CommandMenuGet:
		mod := b.module()
		if mod == nil {
			return protocol.Response{Error: "no module running"}
		}
		update := mod.Latest()
		return protocol.Response{
			Status: "ok",
			Module: mod.ID(),
			Slots:  slotStates(update.Snapshot),
		}
	case protocol.CommandBarShow:
		b.renderer.Surface().Show()
		return protocol.Response{Status: "shown"}
	case protocol.CommandBarHide:
		b.renderer.Surface().Hide()
		return protocol.Response{Status: "hidden"}
	case protocol.CommandBarReload:
		b.RequestReload()
		return protocol.Response{Status: "reloading"}
	case protocol.CommandBarQuit:
		b.requestQuit()
		return protocol.Response{Status: "quitting"}
	default:
		return protocol.Response{Error: fmt.Sprintf("unknown command: %s", command)}
	}
}

func (b *Bar) authorize(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(b.token)) == 1
}

func slotStates(snapshot menu.Snapshot) []protocol.SlotState {
	named := []struct {
		name    string
		entries []menu.EntryView
	}{
		{"start", snapshot.Start},
		{"center", snapshot.Center},
		{"end", snapshot.End},
	}

	out := make([]protocol.SlotState, 0, len(named))
	for _, slot := range named {
		state := protocol.SlotState{Slot: slot.name}
		for _, view := range slot.entries {
			entry := protocol.EntryState{Label: view.Label, Custom: view.Custom}
			for _, app := range view.Applications {
				entry.Applications = append(entry.Applications, app.Label)
			}
			state.Entries = append(state.Entries, entry)
		}
		out = append(out, state)
	}
	return out
}
