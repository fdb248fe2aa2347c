package script

import (
	"context"
	"testing"
	"time"
)

func TestNewTemplateStatic(t *testing.T) {
	tmpl, err := NewTemplate("all static text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tmpl.Static() {
		t.Fatal("expected template without placeholders to be static")
	}
}

func TestNewTemplateParsesPlaceholders(t *testing.T) {
	tmpl, err := NewTemplate("cpu {{cat /proc/loadavg}} used")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Static() {
		t.Fatal("expected template with placeholder to be dynamic")
	}
	if got := len(tmpl.segments); got != 3 {
		t.Fatalf("expected 3 segments, got %d", got)
	}
	if tmpl.segments[1].spec.Command != "cat /proc/loadavg" {
		t.Fatalf("unexpected placeholder command %q", tmpl.segments[1].spec.Command)
	}
}

func TestNewTemplateRejectsEmptyPlaceholder(t *testing.T) {
	if _, err := NewTemplate("broken {{ }} placeholder"); err == nil {
		t.Fatal("expected error for empty placeholder")
	}
}

func TestTemplateRunStaticEmitsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tmpl, err := NewTemplate("fixed tooltip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := tmpl.Run(ctx, NewRunner())
	select {
	case text := <-out:
		if text != "fixed tooltip" {
			t.Fatalf("expected static text, got %q", text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for static render")
	}

	select {
	case text := <-out:
		t.Fatalf("expected no further emissions, got %q", text)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTemplateRunRendersScriptOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tmpl, err := NewTemplate("value: {{10ms:echo 42}}!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := tmpl.Run(ctx, NewRunner())

	deadline := time.After(5 * time.Second)
	for {
		select {
		case text := <-out:
			if text == "value: 42!" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for rendered output")
		}
	}
}
