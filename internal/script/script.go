package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/example/gobar/internal/logging"
)

// DefaultInterval is the polling interval applied when a script omits one.
const DefaultInterval = 5 * time.Second

// Spec is a single executable shell instruction plus the interval used when
// the instruction is polled. Specs are immutable once parsed.
type Spec struct {
	Command  string
	Interval time.Duration
}

// Parse reads the "[interval:]command" form used throughout the
// configuration surface. The optional prefix is a Go duration, e.g.
// "2s:pgrep -x mpd"; without it the default interval applies.
func Parse(input string) (Spec, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Spec{}, errors.New("empty script")
	}

	if idx := strings.IndexByte(trimmed, ':'); idx > 0 {
		if interval, err := time.ParseDuration(trimmed[:idx]); err == nil {
			if interval <= 0 {
				return Spec{}, fmt.Errorf("non-positive script interval %q", trimmed[:idx])
			}
			command := strings.TrimSpace(trimmed[idx+1:])
			if command == "" {
				return Spec{}, errors.New("script interval without a command")
			}
			return Spec{Command: command, Interval: interval}, nil
		}
	}

	return Spec{Command: trimmed, Interval: DefaultInterval}, nil
}

// Runner executes script specs through the shell.
type Runner struct {
	shell string
}

// NewRunner constructs a Runner using the system shell.
func NewRunner() *Runner {
	return &Runner{shell: "sh"}
}

// RunOneshot launches the instruction without observing its outcome. A
// launch failure or non-zero exit status is logged, never returned and
// never retried.
func (r *Runner) RunOneshot(ctx context.Context, spec Spec) {
	go func() {
		if err := r.run(ctx, spec); err != nil {
			log.Printf("oneshot script %q: %v", logging.Summarize(spec.Command), err)
		}
	}()
}

// Poll repeatedly executes the instruction at the spec's interval, delivering
// whether each run exited successfully. A command that could not start is
// reported as false, indistinguishable from a non-zero exit. The channel is
// bounded; when the consumer lags, older results are dropped in favour of the
// newest. It closes once ctx is cancelled.
func (r *Runner) Poll(ctx context.Context, spec Spec) <-chan bool {
	results := make(chan bool, 1)

	go func() {
		defer close(results)

		ticker := time.NewTicker(spec.Interval)
		defer ticker.Stop()

		for {
			publishBool(results, r.run(ctx, spec) == nil)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return results
}

func (r *Runner) run(ctx context.Context, spec Spec) error {
	started := time.Now()
	err := exec.CommandContext(ctx, r.shell, "-c", spec.Command).Run()
	logging.LogScriptRun(spec.Command, started, err)
	return err
}

func (r *Runner) output(ctx context.Context, spec Spec) (string, error) {
	started := time.Now()
	out, err := exec.CommandContext(ctx, r.shell, "-c", spec.Command).Output()
	logging.LogScriptRun(spec.Command, started, err)
	return strings.TrimRight(string(out), "\n"), err
}

func publishBool(ch chan bool, value bool) {
	select {
	case ch <- value:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- value:
		default:
		}
	}
}
