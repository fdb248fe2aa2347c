package security

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/example/gobar/internal/config"
)

const controlTokenPrefix = "gobar-ctl|"

// ResolveControlToken returns the configured control-channel token, deriving
// a stable value from the configuration key when no explicit token is set.
// An empty result disables the control channel.
func ResolveControlToken(key string) string {
	if compiled := strings.TrimSpace(config.CompiledKey); compiled != "" {
		return DeriveControlToken(compiled)
	}

	token := strings.TrimSpace(os.Getenv("GOBAR_CTL_TOKEN"))
	if token != "" {
		return token
	}

	return DeriveControlToken(key)
}

// DeriveControlToken hashes the provided key into a deterministic token.
func DeriveControlToken(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(controlTokenPrefix + key))
	return hex.EncodeToString(sum[:])
}
