// Package launch starts desktop applications on behalf of the menu module.
// Launches are fire-and-forget: the result is neither awaited nor
// interpreted.
package launch

import (
	"log"
	"os/exec"
	"runtime"

	"github.com/example/gobar/internal/logging"
)

// Launcher invokes the platform application launcher for a record identifier.
type Launcher struct{}

// New constructs a Launcher.
func New() *Launcher {
	return &Launcher{}
}

// Launch starts the application registered under the given identifier.
// Failures to even start the launcher are logged, never propagated.
func (l *Launcher) Launch(identifier string) {
	if identifier == "" {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", identifier)
	default:
		cmd = exec.Command("gtk-launch", identifier)
	}

	logging.Debugf("launching application %q", identifier)
	if err := cmd.Start(); err != nil {
		log.Printf("failed to launch %q: %v", identifier, err)
	}
}
