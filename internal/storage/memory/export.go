package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/klauspost/compress/gzip"
)

// Snapshot is the root JSON structure of an exported file.
type Snapshot struct {
	StartTime time.Time            `json:"startTime"`
	EndTime   time.Time            `json:"endTime"`
	EndFrame  uint                 `json:"endFrame"`
	Catalog   []catalog.Descriptor `json:"catalog"`
	Vehicles  []VehicleJSON        `json:"vehicles"`
}

// VehicleJSON represents one vehicle registration.
// Positions are [captureFrame, [x, y, z], streamedIn].
type VehicleJSON struct {
	ID        uint32     `json:"id"`
	Model     uint16     `json:"model"`
	Type      string     `json:"type"`
	Variants  [2]int8    `json:"variants"`
	JoinTime  time.Time  `json:"joinTime"`
	JoinFrame uint       `json:"joinFrame"`
	RemovedAt *time.Time `json:"removedAt,omitempty"`
	Positions [][]any    `json:"positions"`
}

// exportJSON writes the snapshot to a JSON file, gzipped when configured.
func (b *Backend) exportJSON(end time.Time) error {
	snap := b.buildSnapshot(end)

	name := "fleet_" + b.started.Format("20060102_150405") + ".json"
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, name)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildSnapshot(end time.Time) Snapshot {
	snap := Snapshot{
		StartTime: b.started,
		EndTime:   end,
		Catalog:   b.catalog,
		Vehicles:  make([]VehicleJSON, 0, len(b.vehicles)),
	}
	if snap.Catalog == nil {
		snap.Catalog = []catalog.Descriptor{}
	}

	for _, rec := range b.vehicles {
		v := rec.Vehicle
		entity := VehicleJSON{
			ID:        uint32(v.ID),
			Model:     uint16(v.Model),
			Type:      v.Type.String(),
			Variants:  [2]int8{v.Variants.Primary, v.Variants.Secondary},
			JoinTime:  v.JoinTime,
			JoinFrame: v.JoinFrame,
			RemovedAt: rec.RemovedAt,
			Positions: make([][]any, 0, len(rec.States)),
		}
		if v.JoinFrame > snap.EndFrame {
			snap.EndFrame = v.JoinFrame
		}

		for _, s := range rec.States {
			entity.Positions = append(entity.Positions, []any{
				s.CaptureFrame,
				[]float64{s.Position.X, s.Position.Y, s.Position.Z},
				boolToInt(s.StreamedIn),
			})
			if s.CaptureFrame > snap.EndFrame {
				snap.EndFrame = s.CaptureFrame
			}
		}
		snap.Vehicles = append(snap.Vehicles, entity)
	}

	return snap
}

// ReadSnapshot loads an exported file, decompressing .gz files.
func ReadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot

	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return snap, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
