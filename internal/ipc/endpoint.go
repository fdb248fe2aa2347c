package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const defaultControlPort = "127.0.0.1:47912"

// Endpoint describes how control clients reach a running bar.
type Endpoint struct {
	Network string
	Address string
}

// DefaultEndpoint resolves the listening endpoint using environment overrides.
func DefaultEndpoint() Endpoint {
	if addr := strings.TrimSpace(os.Getenv("GOBAR_CTL_ADDR")); addr != "" {
		return Endpoint{Network: "tcp", Address: addr}
	}

	return Endpoint{Network: "tcp", Address: defaultControlPort}
}

// Listen binds to the configured endpoint.
func (e Endpoint) Listen() (net.Listener, error) {
	return net.Listen(e.Network, e.Address)
}

// DialContext establishes a client connection with sensible timeouts.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext(ctx, e.Network, e.Address)
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}
