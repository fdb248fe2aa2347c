package menu

import (
	"context"
	"fmt"

	"github.com/example/gobar/internal/config"
	"github.com/example/gobar/internal/logging"
	"github.com/example/gobar/internal/script"
)

// Surface is the rendering-side handle for a module's container.
// Implementations must be safe for concurrent use.
type Surface interface {
	Show()
	Hide()
	SetTooltip(text string)
}

// Button identifies a pointer button press on the module container.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// ScrollDirection identifies a scroll event on the module container.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota + 1
	ScrollDown
)

// Bindings wires a module's declarative event configuration onto a Surface:
// oneshot scripts dispatched by button and scroll direction, hover scripts,
// conditional visibility and the dynamic tooltip. Bindings are installed
// once at module construction and live until the context is cancelled.
type Bindings struct {
	runner *script.Runner

	clicks  map[Button]script.Spec
	scrolls map[ScrollDirection]script.Spec
	enter   *script.Spec
	exit    *script.Spec
}

// InstallBindings parses the common options, starts the visibility poll and
// tooltip template, and returns the input-event dispatcher. All Surface
// mutation happens on a single consumer goroutine fed by bounded channels;
// the polling tasks never touch the surface directly.
func InstallBindings(ctx context.Context, cfg config.Common, surface Surface, runner *script.Runner) (*Bindings, error) {
	b := &Bindings{
		runner:  runner,
		clicks:  make(map[Button]script.Spec),
		scrolls: make(map[ScrollDirection]script.Spec),
	}

	bind := func(dst map[Button]script.Spec, key Button, input, name string) error {
		if input == "" {
			return nil
		}
		spec, err := script.Parse(input)
		if err != nil {
			return fmt.Errorf("option %s: %w", name, err)
		}
		dst[key] = spec
		return nil
	}

	if err := bind(b.clicks, ButtonLeft, cfg.OnClickLeft, "on_click_left"); err != nil {
		return nil, err
	}
	if err := bind(b.clicks, ButtonMiddle, cfg.OnClickMiddle, "on_click_middle"); err != nil {
		return nil, err
	}
	if err := bind(b.clicks, ButtonRight, cfg.OnClickRight, "on_click_right"); err != nil {
		return nil, err
	}

	scrolls := []struct {
		key   ScrollDirection
		input string
		name  string
	}{
		{ScrollUp, cfg.OnScrollUp, "on_scroll_up"},
		{ScrollDown, cfg.OnScrollDown, "on_scroll_down"},
	}
	for _, s := range scrolls {
		if s.input == "" {
			continue
		}
		spec, err := script.Parse(s.input)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", s.name, err)
		}
		b.scrolls[s.key] = spec
	}

	if cfg.OnMouseEnter != "" {
		spec, err := script.Parse(cfg.OnMouseEnter)
		if err != nil {
			return nil, fmt.Errorf("option on_mouse_enter: %w", err)
		}
		b.enter = &spec
	}
	if cfg.OnMouseExit != "" {
		spec, err := script.Parse(cfg.OnMouseExit)
		if err != nil {
			return nil, fmt.Errorf("option on_mouse_exit: %w", err)
		}
		b.exit = &spec
	}

	var visibility <-chan bool
	if cfg.ShowIf != "" {
		spec, err := script.Parse(cfg.ShowIf)
		if err != nil {
			return nil, fmt.Errorf("option show_if: %w", err)
		}
		visibility = runner.Poll(ctx, spec)
	} else {
		// No condition: shown unconditionally and permanently.
		surface.Show()
	}

	var tooltips <-chan string
	if cfg.Tooltip != "" {
		tmpl, err := script.NewTemplate(cfg.Tooltip)
		if err != nil {
			return nil, fmt.Errorf("option tooltip: %w", err)
		}
		tooltips = tmpl.Run(ctx, runner)
	}

	if visibility != nil || tooltips != nil {
		go consumeSurface(ctx, surface, visibility, tooltips)
	}

	return b, nil
}

func consumeSurface(ctx context.Context, surface Surface, visibility <-chan bool, tooltips <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case visible, ok := <-visibility:
			if !ok {
				visibility = nil
				continue
			}
			if visible {
				surface.Show()
			} else {
				surface.Hide()
			}
		case text, ok := <-tooltips:
			if !ok {
				tooltips = nil
				continue
			}
			surface.SetTooltip(text)
		}
	}
}

// Click dispatches the oneshot script bound to the given button.
// Unrecognized or unbound buttons are no-ops.
func (b *Bindings) Click(ctx context.Context, button Button) {
	if spec, ok := b.clicks[button]; ok {
		logging.Debugf("running on-click script for button %d", button)
		b.runner.RunOneshot(ctx, spec)
	}
}

// Scroll dispatches the oneshot script bound to the given direction.
// Unrecognized or unbound directions are no-ops.
func (b *Bindings) Scroll(ctx context.Context, direction ScrollDirection) {
	if spec, ok := b.scrolls[direction]; ok {
		logging.Debugf("running on-scroll script for direction %d", direction)
		b.runner.RunOneshot(ctx, spec)
	}
}

// HoverEnter dispatches the pointer-enter oneshot script, if configured.
func (b *Bindings) HoverEnter(ctx context.Context) {
	if b.enter != nil {
		b.runner.RunOneshot(ctx, *b.enter)
	}
}

// HoverExit dispatches the pointer-leave oneshot script, if configured.
func (b *Bindings) HoverExit(ctx context.Context) {
	if b.exit != nil {
		b.runner.RunOneshot(ctx, *b.exit)
	}
}
