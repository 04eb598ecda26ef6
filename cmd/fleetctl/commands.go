package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/internal/dispatcher"
	"github.com/OCAP2/fleet/internal/handlers"
	"github.com/OCAP2/fleet/internal/parser"
	"github.com/OCAP2/fleet/internal/storage"
	"github.com/OCAP2/fleet/internal/storage/gormstore"
	"github.com/OCAP2/fleet/pkg/hostio"

	"gopkg.in/yaml.v3"
)

// output encodes v as YAML, or indented JSON when asJSON is set.
func output(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func modelsCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print JSON instead of YAML")
	_ = fs.Parse(args)

	m, err := a.newFleet(nil)
	if err != nil {
		return err
	}
	return output(os.Stdout, m.Models(), *asJSON)
}

func infoCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print JSON instead of YAML")
	_ = fs.Parse(args)

	model, err := parser.ParseModel(fs.Args())
	if err != nil {
		return err
	}
	m, err := a.newFleet(nil)
	if err != nil {
		return err
	}
	info, ok := m.Info(model)
	if !ok {
		return fmt.Errorf("model %d is not in the catalog", model)
	}
	return output(os.Stdout, info, *asJSON)
}

func seatCmd(a *app, args []string) error {
	req, err := parser.ParseSeat(args)
	if err != nil {
		return err
	}
	m, err := a.newFleet(nil)
	if err != nil {
		return err
	}
	s := m.Seat(req.Model, req.Index)
	fmt.Printf("%d %s\n", uint8(s), s)
	return nil
}

func variantsCmd(a *app, args []string) error {
	model, err := parser.ParseModel(args)
	if err != nil {
		return err
	}
	count := 1
	if len(args) > 1 {
		if count, err = strconv.Atoi(args[1]); err != nil || count < 1 {
			return fmt.Errorf("invalid count %q", args[1])
		}
	}

	m, err := a.newFleet(nil)
	if err != nil {
		return err
	}
	for range count {
		v := m.PickVariants(model)
		fmt.Printf("%d %d\n", v.Primary, v.Secondary)
	}
	return nil
}

// serveCmd answers host commands on stdin/stdout until stdin closes or the
// process is interrupted.
func serveCmd(a *app, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := openBackend(a)
	if err != nil {
		return err
	}
	defer closeBackend(a, backend)

	m, err := a.newFleet(backend)
	if err != nil {
		return err
	}

	mon, err := startMonitor(ctx, a, m)
	if err != nil {
		return err
	}
	defer closeMonitor(a, mon)

	d, err := dispatcher.NewWithMeter(a.Logger, a.meter(dispatcher.InstrumentationName))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	defer d.Close()

	handlers.NewService(handlers.Dependencies{
		Fleet:      m,
		Logger:     a.Logger,
		LogManager: a.SlogManager,
		Version:    CurrentVersion,
	}).RegisterHandlers(d)
	a.Logger.Info("Serving host commands", "commands", len(d.Commands()))

	srv := hostio.NewServer(d,
		hostio.WithVersion(CurrentVersion),
		hostio.WithLogger(a.Logger),
	)
	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info("Host session ended")
	return nil
}

// historyCmd prints the recorded track of a vehicle from a SQLite file, or
// from the configured database when -db is empty.
func historyCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite file to read (default: configured storage)")
	asJSON := fs.Bool("json", false, "print JSON instead of YAML")
	_ = fs.Parse(args)

	id, err := parser.ParseID(fs.Args())
	if err != nil {
		return err
	}

	storageCfg := config.GetStorageConfig()
	switch {
	case *dbPath != "":
		storageCfg.Type = "sqlite"
		storageCfg.SQLite = config.SQLiteConfig{Path: *dbPath}
	case storageCfg.Type != "sqlite" && storageCfg.Type != "postgres":
		return fmt.Errorf("history needs a database, got storage type %q", storageCfg.Type)
	}

	backend, err := storage.NewBackend(storageCfg, a.Logger)
	if err != nil {
		return err
	}
	store, ok := backend.(*gormstore.Backend)
	if !ok {
		return fmt.Errorf("storage type %q has no history", storageCfg.Type)
	}
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	h, err := store.History(id)
	if err != nil {
		return err
	}
	return output(os.Stdout, h, *asJSON)
}
