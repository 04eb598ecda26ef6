package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/OCAP2/fleet/internal/api"
	"github.com/OCAP2/fleet/internal/catalog"
	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/internal/fleet"
	"github.com/OCAP2/fleet/internal/monitor"
	"github.com/OCAP2/fleet/internal/storage"

	"github.com/spf13/viper"
)

// openBackend creates and initializes the configured storage backend and
// stores the catalog in it.
func openBackend(a *app) (storage.Backend, error) {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	if err := backend.SaveCatalog(catalog.Models()); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	a.Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return backend, nil
}

func closeBackend(a *app, backend storage.Backend) {
	if err := backend.Close(); err != nil {
		a.Logger.Error("Failed to close storage backend", "error", err)
		return
	}
	if exp, ok := backend.(storage.Exporter); ok && exp.ExportPath() != "" {
		a.Logger.Info("Snapshot written", "path", exp.ExportPath())
	}
}

// startMonitor samples the registry into a status file next to the logs and,
// when enabled, into InfluxDB.
func startMonitor(ctx context.Context, a *app, m *fleet.Manager) (*monitor.Service, error) {
	influxCfg := config.GetInfluxConfig()

	deps := monitor.Dependencies{
		Source:     m,
		StatusFile: filepath.Join(viper.GetString("logsDir"), "status.json"),
		Interval:   influxCfg.Interval,
		Logger:     a.Logger,
	}

	if influxCfg.Enabled {
		sink, err := monitor.NewInfluxSink(ctx, influxCfg, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize InfluxDB: %w", err)
		}
		deps.Sink = sink
	}

	mon := monitor.NewService(deps)
	mon.Start(ctx)
	return mon, nil
}

func closeMonitor(a *app, mon *monitor.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mon.Close(ctx); err != nil {
		a.Logger.Error("Failed to write final registry sample", "error", err)
	}
}

// uploadSnapshot sends the exported snapshot file to the archive service.
func uploadSnapshot(ctx context.Context, a *app, report simulationReport) error {
	apiCfg := config.GetAPIConfig()
	if apiCfg.ServerURL == "" {
		return fmt.Errorf("upload requested but api.serverUrl is not set")
	}
	if report.Snapshot == "" {
		return fmt.Errorf("upload requested but the storage backend wrote no snapshot file")
	}

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(ctx); err != nil {
		return err
	}
	err := client.Upload(ctx, report.Snapshot, api.UploadMetadata{
		StartTime: a.Session.StartTime(),
		Frames:    uint(report.Ticks),
		Vehicles:  report.Spawned,
		Tag:       apiCfg.Tag,
	})
	if err != nil {
		return err
	}
	a.Logger.Info("Snapshot uploaded", "path", report.Snapshot, "server", apiCfg.ServerURL)
	return nil
}
