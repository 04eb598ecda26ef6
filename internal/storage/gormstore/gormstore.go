// Package gormstore implements the storage.Backend interface on GORM, backed by
// SQLite or Postgres. State samples are buffered and written in batches by a
// background writer goroutine.
package gormstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/database"
	"github.com/OCAP2/fleet/internal/geo"
	"github.com/OCAP2/fleet/internal/model"
	"github.com/OCAP2/fleet/internal/model/convert"
	"github.com/OCAP2/fleet/internal/queue"
	"github.com/OCAP2/fleet/pkg/core"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotInitialized is returned by record calls made before Init.
var ErrNotInitialized = errors.New("storage not initialized")

const (
	defaultFlushInterval = 2 * time.Second
	defaultBatchSize     = 500
	defaultMaxPending    = 100000
)

// Opener opens the database connection on Init.
type Opener func() (*gorm.DB, error)

// Config tunes the state writer.
type Config struct {
	FlushInterval time.Duration // periodic flush of buffered states
	BatchSize     int           // buffered states that trigger an early flush
	MaxPending    int           // cap on states kept after failed writes
	DumpPath      string        // SQLite only: VACUUM INTO target on Close
}

func (c Config) withDefaults() Config {
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxPending <= 0 {
		c.MaxPending = defaultMaxPending
	}
	return c
}

// Backend implements storage.Backend using GORM with batched state writes.
type Backend struct {
	open Opener
	cfg  Config
	log  *slog.Logger

	db     *gorm.DB
	states *queue.Batch[model.VehicleState]

	flush     chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a backend that opens its database with open on Init.
func New(open Opener, cfg Config, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		open: open,
		cfg:  cfg.withDefaults(),
		log:  log,
	}
}

// Init opens the database, migrates the schema, and starts the state writer.
func (b *Backend) Init() error {
	db, err := b.open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	b.db = db
	b.states = queue.New[model.VehicleState](b.cfg.BatchSize)
	b.flush = make(chan struct{}, 1)
	b.stop = make(chan struct{})
	b.done = make(chan struct{})

	go b.writeLoop()
	b.log.Info("Storage initialized", "dialect", db.Dialector.Name())
	return nil
}

// Close drains buffered states, dumps SQLite to disk when configured, and
// closes the connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}

	var errs []error
	b.closeOnce.Do(func() {
		close(b.stop)
		<-b.done

		if n := b.states.Len(); n > 0 {
			errs = append(errs, fmt.Errorf("%d vehicle states not written", n))
		}

		if b.cfg.DumpPath != "" && b.db.Dialector.Name() == "sqlite" {
			if err := database.DumpToDisk(b.db, b.cfg.DumpPath); err != nil {
				errs = append(errs, err)
			} else {
				b.log.Info("Database dumped to disk", "path", b.cfg.DumpPath)
			}
		}

		if sqlDB, err := b.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close database: %w", err))
			}
		}
	})
	return errors.Join(errs...)
}

// SaveCatalog upserts the model catalog.
func (b *Backend) SaveCatalog(models []catalog.Descriptor) error {
	if b.db == nil {
		return ErrNotInitialized
	}
	if len(models) == 0 {
		return nil
	}

	entries := make([]model.CatalogEntry, len(models))
	for i, d := range models {
		entries[i] = convert.CatalogToEntry(d)
	}

	err := b.db.Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(&entries, 100).Error
	if err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// RecordVehicle inserts a vehicle row.
func (b *Backend) RecordVehicle(v core.VehicleRecord) error {
	if b.db == nil {
		return ErrNotInitialized
	}

	row := convert.CoreToVehicle(v)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert vehicle %d: %w", v.ID, err)
	}
	return nil
}

// RecordVehicleState buffers a state sample for the writer.
func (b *Backend) RecordVehicleState(s core.VehicleState) error {
	if b.db == nil {
		return ErrNotInitialized
	}

	if b.states.Push(convert.CoreToVehicleState(s)) {
		select {
		case b.flush <- struct{}{}:
		default:
		}
	}
	return nil
}

// RecordRemoval stamps the live row of element id with its removal time.
func (b *Backend) RecordRemoval(id core.ElementID, at time.Time) error {
	if b.db == nil {
		return ErrNotInitialized
	}

	res := b.db.Model(&model.Vehicle{}).
		Where("element_id = ? AND removed_at IS NULL", uint32(id)).
		Update("removed_at", sql.NullTime{Time: at, Valid: true})
	if res.Error != nil {
		return fmt.Errorf("failed to record removal of %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		b.log.Warn("Removal for unknown vehicle", "id", id)
	}
	return nil
}

// History is the recorded track of one vehicle.
type History struct {
	ID       core.ElementID      `json:"id" yaml:"id"`
	States   []core.VehicleState `json:"states" yaml:"states"`
	Distance float64             `json:"distance" yaml:"distance"`
}

// History returns the written states of every vehicle that used element id,
// in capture order, and the distance covered between them. States still
// buffered are not included.
func (b *Backend) History(id core.ElementID) (History, error) {
	h := History{ID: id}
	if b.db == nil {
		return h, ErrNotInitialized
	}

	var rows []model.VehicleState
	err := b.db.Where("vehicle_element_id = ?", uint32(id)).
		Order("capture_frame, id").
		Find(&rows).Error
	if err != nil {
		return h, fmt.Errorf("failed to read states of %d: %w", id, err)
	}

	h.States = make([]core.VehicleState, len(rows))
	for i, row := range rows {
		h.States[i] = convert.VehicleStateToCore(row)
		if i > 0 {
			h.Distance += geo.Distance3D(rows[i-1].Position, row.Position)
		}
	}
	return h, nil
}

// DB returns the underlying connection, nil before Init.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

func (b *Backend) writeLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			b.writeStates()
			return
		case <-ticker.C:
			b.writeStates()
		case <-b.flush:
			b.writeStates()
		}
	}
}

// writeStates inserts all buffered states. Failed rows go back to the buffer.
func (b *Backend) writeStates() {
	rows := b.states.Drain()
	if len(rows) == 0 {
		return
	}

	start := time.Now()
	if err := b.db.CreateInBatches(&rows, b.cfg.BatchSize).Error; err != nil {
		b.states.Requeue(rows, b.cfg.MaxPending)
		b.log.Error("Failed to write vehicle states", "count", len(rows), "error", err, "dropped", b.states.Dropped())
		return
	}
	b.log.Debug("Wrote vehicle states", "count", len(rows), "duration", time.Since(start))
}
