package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/fleet"
	"github.com/OCAP2/fleet/internal/registry"
	"github.com/OCAP2/fleet/internal/storage"
	"github.com/OCAP2/fleet/pkg/core"
)

// simulation drives a fleet with vehicles wandering around the origin.
type simulation struct {
	fleet  *fleet.Manager
	rng    *rand.Rand
	models []core.ModelID
	spread float64
	nextID core.ElementID
}

func newSimulation(m *fleet.Manager, seed uint64, spread float64) *simulation {
	descs := catalog.Models()
	models := make([]core.ModelID, len(descs))
	for i, d := range descs {
		models[i] = d.ModelID
	}
	return &simulation{
		fleet:  m,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		models: models,
		spread: spread,
		nextID: 1,
	}
}

func (s *simulation) randomPosition() core.Position3D {
	return core.Position3D{
		X: (s.rng.Float64()*2 - 1) * s.spread,
		Y: (s.rng.Float64()*2 - 1) * s.spread,
		Z: s.rng.Float64() * 20,
	}
}

// spawn adds one random vehicle. Refusals are expected once the limit is hit.
func (s *simulation) spawn() error {
	model := s.models[s.rng.IntN(len(s.models))]
	_, err := s.fleet.Spawn(s.nextID, model, s.randomPosition(), false)
	s.nextID++
	if errors.Is(err, fleet.ErrRefused) {
		return nil
	}
	return err
}

// step moves every vehicle a little and occasionally replaces one.
func (s *simulation) step() error {
	vehicles := s.fleet.Vehicles()
	for _, v := range vehicles {
		pos := v.Position
		pos.X += s.rng.NormFloat64() * 5
		pos.Y += s.rng.NormFloat64() * 5
		if err := s.fleet.Move(v.ID, pos); err != nil {
			return err
		}
	}

	if len(vehicles) > 0 && s.rng.IntN(20) == 0 {
		victim := vehicles[s.rng.IntN(len(vehicles))]
		if err := s.fleet.Destroy(victim.ID); err != nil {
			return err
		}
		if err := s.spawn(); err != nil {
			return err
		}
	}

	s.fleet.Tick()
	return nil
}

type simulationReport struct {
	Ticks    int            `json:"ticks" yaml:"ticks"`
	Spawned  int            `json:"spawned" yaml:"spawned"`
	Stats    registry.Stats `json:"stats" yaml:"stats"`
	Duration string         `json:"duration" yaml:"duration"`
	Snapshot string         `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

func simulateCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	ticks := fs.Int("ticks", 600, "number of ticks to run")
	vehicles := fs.Int("vehicles", 40, "vehicles to spawn before the first tick")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	spread := fs.Float64("spread", 1000, "half-width of the spawn area")
	interval := fs.Duration("interval", 0, "wall-clock delay between ticks")
	asJSON := fs.Bool("json", false, "print JSON instead of YAML")
	upload := fs.Bool("upload", false, "upload the snapshot to the configured archive")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := openBackend(a)
	if err != nil {
		return err
	}

	m, err := a.newFleet(backend)
	if err != nil {
		_ = backend.Close()
		return err
	}

	mon, err := startMonitor(ctx, a, m)
	if err != nil {
		_ = backend.Close()
		return err
	}

	finish := func() {
		closeMonitor(a, mon)
		m.Clear()
		closeBackend(a, backend)
	}

	sim := newSimulation(m, *seed, *spread)
	m.SetFocus(core.Position3D{})

	start := time.Now()
	for range *vehicles {
		if err := sim.spawn(); err != nil {
			finish()
			return fmt.Errorf("spawning: %w", err)
		}
	}
	a.Logger.Info("Simulation started", "vehicles", m.Stats().Live, "ticks", *ticks, "seed", *seed)

	done := 0
	for done < *ticks && ctx.Err() == nil {
		if err := sim.step(); err != nil {
			finish()
			return fmt.Errorf("tick %d: %w", done, err)
		}
		done++
		if *interval > 0 {
			time.Sleep(*interval)
		}
	}

	report := simulationReport{
		Ticks:    done,
		Spawned:  int(sim.nextID - 1),
		Stats:    m.Stats(),
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}

	finish()
	if exp, ok := backend.(storage.Exporter); ok {
		report.Snapshot = exp.ExportPath()
	}

	a.Logger.Info("Simulation finished", "ticks", done, "duration", report.Duration)

	if *upload {
		if err := uploadSnapshot(ctx, a, report); err != nil {
			return err
		}
	}
	return output(os.Stdout, report, *asJSON)
}
