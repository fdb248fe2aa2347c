package logging

import (
	"log"
	"strings"
	"sync/atomic"
	"time"
)

var debugEnabled atomic.Bool

// EnableDebug turns on verbose debug logging for the application lifecycle.
func EnableDebug() {
	debugEnabled.Store(true)
	log.Printf("[DEBUG] debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

// LogScriptRun emits timing and outcome details for an executed script when
// debugging is enabled.
func LogScriptRun(command string, started time.Time, err error) {
	if !DebugEnabled() {
		return
	}

	elapsed := time.Since(started).Round(time.Millisecond)
	if err != nil {
		log.Printf("[DEBUG] script %q failed after %s: %v", Summarize(command), elapsed, err)
		return
	}
	log.Printf("[DEBUG] script %q succeeded after %s", Summarize(command), elapsed)
}

// Summarize collapses a shell command onto a single short line suitable for logs.
func Summarize(command string) string {
	joined := strings.Join(strings.Fields(command), " ")
	if len(joined) > 60 {
		return joined[:57] + "..."
	}
	return joined
}

// MaskIdentifier obscures sensitive identifiers leaving only the last four characters visible.
func MaskIdentifier(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(trimmed)-4) + trimmed[len(trimmed)-4:]
}
