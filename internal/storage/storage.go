// Package storage defines where registry snapshots are recorded.
package storage

import (
	"errors"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/pkg/core"
)

// ErrUnknownBackend is returned by NewBackend for an unrecognized storage type.
var ErrUnknownBackend = errors.New("unknown storage type")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Static model data
	SaveCatalog(models []catalog.Descriptor) error

	// Vehicle lifetime
	RecordVehicle(v core.VehicleRecord) error
	RecordVehicleState(s core.VehicleState) error
	RecordRemoval(id core.ElementID, at time.Time) error
}

// Exporter is an optional interface for backends that write a snapshot file
// when closed.
type Exporter interface {
	ExportPath() string
}
