package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Template is a text fragment whose {{command}} placeholders are re-evaluated
// by polling their embedded scripts. The rendered string is re-emitted each
// time any placeholder's output changes.
type Template struct {
	segments []segment
}

type segment struct {
	text   string
	spec   Spec
	script bool
}

// NewTemplate parses the template text. Placeholders follow the same
// "[interval:]command" form as standalone scripts.
func NewTemplate(input string) (*Template, error) {
	var segments []segment

	rest := input
	for {
		loc := placeholderPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if prefix := rest[:loc[0]]; prefix != "" {
			segments = append(segments, segment{text: prefix})
		}

		spec, err := Parse(rest[loc[2]:loc[3]])
		if err != nil {
			return nil, fmt.Errorf("template placeholder: %w", err)
		}
		segments = append(segments, segment{spec: spec, script: true})

		rest = rest[loc[1]:]
	}
	if rest != "" {
		segments = append(segments, segment{text: rest})
	}

	return &Template{segments: segments}, nil
}

// Static reports whether the template contains no script placeholders.
func (t *Template) Static() bool {
	for _, seg := range t.segments {
		if seg.script {
			return false
		}
	}
	return true
}

// Run renders the template, emitting the full rendered string whenever a
// placeholder's output changes. A static template emits exactly once. The
// returned channel is bounded with drop-oldest delivery and closes once ctx
// is cancelled.
func (t *Template) Run(ctx context.Context, runner *Runner) <-chan string {
	out := make(chan string, 1)

	values := make([]string, len(t.segments))
	for i, seg := range t.segments {
		if !seg.script {
			values[i] = seg.text
		}
	}

	if t.Static() {
		go func() {
			defer close(out)
			publishString(out, strings.Join(values, ""))
			<-ctx.Done()
		}()
		return out
	}

	type update struct {
		idx  int
		text string
	}
	updates := make(chan update)

	for i, seg := range t.segments {
		if !seg.script {
			continue
		}
		go func(idx int, spec Spec) {
			ticker := time.NewTicker(spec.Interval)
			defer ticker.Stop()

			for {
				// Failed evaluations render as empty output.
				text, _ := runner.output(ctx, spec)
				select {
				case updates <- update{idx: idx, text: text}:
				case <-ctx.Done():
					return
				}

				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}(i, seg.spec)
	}

	go func() {
		defer close(out)

		last := ""
		rendered := false
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-updates:
				values[u.idx] = u.text
				if s := strings.Join(values, ""); !rendered || s != last {
					last = s
					rendered = true
					publishString(out, s)
				}
			}
		}
	}()

	return out
}

func publishString(ch chan string, value string) {
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
