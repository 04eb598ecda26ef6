//go:build !debug

package registry

import (
	"fmt"
	"log/slog"
)

// assertf reports a broken registry invariant.
// In production builds the violation is logged and the caller recovers.
func assertf(log *slog.Logger, format string, args ...any) {
	log.Error("registry invariant violated", "detail", fmt.Sprintf(format, args...))
}
