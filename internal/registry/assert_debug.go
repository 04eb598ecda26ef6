//go:build debug

package registry

import (
	"fmt"
	"log/slog"
)

// assertf reports a broken registry invariant.
// In debug builds the violation panics.
func assertf(_ *slog.Logger, format string, args ...any) {
	panic("registry invariant violated: " + fmt.Sprintf(format, args...))
}
