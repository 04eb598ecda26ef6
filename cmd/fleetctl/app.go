package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/OCAP2/fleet/internal/classify"
	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/internal/fleet"
	"github.com/OCAP2/fleet/internal/logging"
	"github.com/OCAP2/fleet/internal/mission"
	"github.com/OCAP2/fleet/internal/modelinfo"
	intOtel "github.com/OCAP2/fleet/internal/otel"
	"github.com/OCAP2/fleet/internal/registry"
	"github.com/OCAP2/fleet/internal/storage"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// app holds the process-wide services shared by every subcommand.
type app struct {
	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider
	Session      *mission.Context

	logFile *os.File
	closers []io.Closer
}

// newApp loads the config and sets up logging and telemetry. Logs never go to
// stdout, which carries command output and the host protocol.
func newApp(configDir string) (*app, error) {
	a := &app{
		SlogManager: logging.NewSlogManager(),
		Session:     mission.NewContext(),
	}

	// bootstrap logger until the config is read
	a.SlogManager.Setup(os.Stderr, "info", nil)
	a.Logger = a.SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		a.Logger.Warn("Failed to load config, using defaults!", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, a.Session.StartTime())
	if _, err := os.Stat(logPath); err == nil {
		_ = os.Rename(logPath, logPath+".old")
	}
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		a.Logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
	} else {
		a.logFile = f
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		a.OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:        otelCfg.Enabled,
			ServiceName:    otelCfg.ServiceName,
			BatchTimeout:   otelCfg.BatchTimeout,
			LogWriter:      a.logWriter(),
			MetricWriter:   a.logWriter(),
			MetricInterval: 30 * time.Second,
			Endpoint:       otelCfg.Endpoint,
			Insecure:       otelCfg.Insecure,
		})
		if err != nil {
			a.Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		h, closer, err := logging.NewGraylogHandler(graylogCfg.Address, viper.GetString("logLevel"))
		if err != nil {
			a.Logger.Error("Failed to initialize Graylog handler", "error", err)
		} else {
			a.SlogManager.AddHandler(h)
			a.closers = append(a.closers, closer)
		}
	}

	session := a.Session
	a.SlogManager.SetContextProvider(func(context.Context) []slog.Attr {
		return []slog.Attr{slog.Uint64("frame", uint64(session.Frame()))}
	})

	var otelLogProvider *sdklog.LoggerProvider
	if a.OTelProvider != nil {
		otelLogProvider = a.OTelProvider.LoggerProvider()
	}

	var out io.Writer = os.Stderr
	if a.logFile != nil {
		out = a.logFile
	}
	a.SlogManager.Setup(out, viper.GetString("logLevel"), otelLogProvider)
	a.Logger = a.SlogManager.Logger()
	a.Logger.Info("Logging to file", "path", logPath, "version", CurrentVersion)

	return a, nil
}

func (a *app) logWriter() io.Writer {
	if a.logFile != nil {
		return a.logFile
	}
	return io.Discard
}

// newFleet builds a fleet manager over a fresh registry.
func (a *app) newFleet(backend storage.Backend) (*fleet.Manager, error) {
	regCfg := config.GetRegistryConfig()

	reg, err := registry.New(registry.Config{
		MaxVehicles: regCfg.MaxVehicles,
		Logger:      a.Logger,
		Meter:       a.meter(registry.InstrumentationName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	m, err := fleet.New(fleet.Dependencies{
		Registry:     reg,
		Classifier:   classify.New(modelinfo.Static{}),
		Backend:      backend,
		Session:      a.Session,
		Logger:       a.Logger,
		StreamRadius: regCfg.StreamRadius,
	})
	if err != nil {
		_ = reg.Close()
		return nil, err
	}
	a.closers = append(a.closers, m)
	return m, nil
}

// meter returns the provider's meter when telemetry is configured and the
// global one otherwise.
func (a *app) meter(name string) metric.Meter {
	if a.OTelProvider != nil && a.OTelProvider.Enabled() {
		return a.OTelProvider.Meter(name)
	}
	return otel.Meter(name)
}

// Close flushes telemetry and closes log outputs.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.SlogManager.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flush logs:", err)
	}
	if a.OTelProvider != nil {
		if err := a.OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "otel shutdown:", err)
		}
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
