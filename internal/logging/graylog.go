package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGraylogHandler returns a JSON handler shipping records to a GELF UDP
// endpoint, and the writer to close on shutdown.
func NewGraylogHandler(address, level string) (slog.Handler, io.Closer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GELF writer: %w", err)
	}
	w.Facility = "fleet"

	return slog.NewJSONHandler(w, handlerOptions(level)), w, nil
}
