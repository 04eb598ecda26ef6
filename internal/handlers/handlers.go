// Package handlers exposes the fleet to the scripting host as dispatcher commands.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/OCAP2/fleet/internal/dispatcher"
	"github.com/OCAP2/fleet/internal/fleet"
	"github.com/OCAP2/fleet/internal/parser"
)

// ErrBadArgs is returned when a command's arguments cannot be parsed.
var ErrBadArgs = errors.New("bad arguments")

// LogWriter receives log lines sent by the scripting host.
type LogWriter interface {
	WriteLog(functionName, data, level string)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Fleet      *fleet.Manager
	Logger     *slog.Logger
	LogManager LogWriter // optional
	Version    string
}

// Service provides handler methods for the scripting host.
type Service struct {
	fleet   *fleet.Manager
	log     *slog.Logger
	hostLog LogWriter
	version string
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		fleet:   deps.Fleet,
		log:     deps.Logger.With("component", "handlers"),
		hostLog: deps.LogManager,
		version: deps.Version,
	}
}

// RegisterHandlers registers every command with the dispatcher.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Model queries - sync, the caller waits for the answer
	d.Register(":VEHICLE:TYPE:", s.handleType)
	d.Register(":VEHICLE:SEAT:", s.handleSeat)
	d.Register(":VEHICLE:VARIANT:", s.handleVariant)
	d.Register(":VEHICLE:INFO:", s.handleInfo)

	// Registry queries
	d.Register(":VEHICLE:NEAREST:", s.handleNearest)
	d.Register(":VEHICLE:GET:", s.handleGet)
	d.Register(":REGISTRY:STATUS:", s.handleStatus)
	d.Register(":REGISTRY:VEHICLES:", s.handleVehicles)

	// Vehicle lifetime - sync so later commands see the vehicle
	d.Register(":VEHICLE:SPAWN:", s.handleSpawn, dispatcher.Logged())
	d.Register(":VEHICLE:DESTROY:", s.handleDestroy, dispatcher.Logged())
	d.Register(":VEHICLE:STREAMIN:", s.handleStreamIn, dispatcher.Logged())
	d.Register(":VEHICLE:STREAMOUT:", s.handleStreamOut, dispatcher.Logged())

	// High-volume position updates - buffered
	d.Register(":VEHICLE:MOVE:", s.handleMove, dispatcher.Buffered(10000), dispatcher.Logged())

	// Session control
	d.Register(":REGISTRY:TICK:", s.handleTick)
	d.Register(":REGISTRY:CLEAR:", s.handleClear, dispatcher.Logged())
	d.Register(":REGISTRY:RESTREAM:", s.handleRestream, dispatcher.Logged())
	d.Register(":STREAM:FOCUS:", s.handleFocus)

	d.Register(":VERSION:", s.handleVersion)
	if s.hostLog != nil {
		d.Register(":LOG:", s.handleLog, dispatcher.Buffered(1000))
	}
}

func badArgs(err error) error {
	return fmt.Errorf("%w: %v", ErrBadArgs, err)
}

func (s *Service) handleType(e dispatcher.Event) (any, error) {
	model, err := parser.ParseModel(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return s.fleet.ClassifyModel(model).String(), nil
}

func (s *Service) handleSeat(e dispatcher.Event) (any, error) {
	req, err := parser.ParseSeat(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return uint8(s.fleet.Seat(req.Model, req.Index)), nil
}

func (s *Service) handleVariant(e dispatcher.Event) (any, error) {
	model, err := parser.ParseModel(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return s.fleet.PickVariants(model), nil
}

func (s *Service) handleInfo(e dispatcher.Event) (any, error) {
	model, err := parser.ParseModel(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	info, ok := s.fleet.Info(model)
	if !ok {
		return nil, fmt.Errorf("%w: %d", fleet.ErrInvalidModel, model)
	}
	return info, nil
}

// handleNearest returns the closest vehicle, or nil when none is in range.
func (s *Service) handleNearest(e dispatcher.Event) (any, error) {
	req, err := parser.ParseNearest(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	v, ok := s.fleet.Nearest(req.Position, req.Radius)
	if !ok {
		return nil, nil
	}
	return s.fleet.Get(v.ID())
}

func (s *Service) handleGet(e dispatcher.Event) (any, error) {
	id, err := parser.ParseID(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return s.fleet.Get(id)
}

func (s *Service) handleStatus(dispatcher.Event) (any, error) {
	return s.fleet.Stats(), nil
}

func (s *Service) handleVehicles(dispatcher.Event) (any, error) {
	return s.fleet.Vehicles(), nil
}

func (s *Service) handleSpawn(e dispatcher.Event) (any, error) {
	req, err := parser.ParseSpawn(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	v, err := s.fleet.Spawn(req.ID, req.Model, req.Position, req.StreamedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn vehicle: %w", err)
	}
	return s.fleet.Get(v.ID())
}

func (s *Service) handleDestroy(e dispatcher.Event) (any, error) {
	id, err := parser.ParseID(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return nil, s.fleet.Destroy(id)
}

func (s *Service) handleStreamIn(e dispatcher.Event) (any, error) {
	id, err := parser.ParseID(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return nil, s.fleet.StreamIn(id)
}

func (s *Service) handleStreamOut(e dispatcher.Event) (any, error) {
	id, err := parser.ParseID(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return nil, s.fleet.StreamOut(id)
}

func (s *Service) handleMove(e dispatcher.Event) (any, error) {
	req, err := parser.ParseMove(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return nil, s.fleet.Move(req.ID, req.Position)
}

func (s *Service) handleTick(dispatcher.Event) (any, error) {
	return s.fleet.Tick(), nil
}

func (s *Service) handleClear(dispatcher.Event) (any, error) {
	n := s.fleet.Clear()
	s.log.Info("registry cleared", "destroyed", n)
	return n, nil
}

func (s *Service) handleRestream(e dispatcher.Event) (any, error) {
	model, err := parser.ParseModel(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	return s.fleet.RestreamModel(model), nil
}

func (s *Service) handleFocus(e dispatcher.Event) (any, error) {
	pos, err := parser.ParseFocus(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	s.fleet.SetFocus(pos)
	return nil, nil
}

func (s *Service) handleVersion(dispatcher.Event) (any, error) {
	return s.version, nil
}

// handleLog writes [function, level, message] from the host to the log.
func (s *Service) handleLog(e dispatcher.Event) (any, error) {
	req, err := parser.ParseLog(e.Args)
	if err != nil {
		return nil, badArgs(err)
	}
	s.hostLog.WriteLog(req.Function, req.Message, req.Level)
	return nil, nil
}
