package parser

import (
	"fmt"
	"strings"

	"github.com/OCAP2/fleet/pkg/core"
)

// SpawnRequest registers a vehicle created by the simulation.
type SpawnRequest struct {
	ID         core.ElementID
	Model      core.ModelID
	Position   core.Position3D
	StreamedIn bool
}

// MoveRequest updates the position of a vehicle.
type MoveRequest struct {
	ID       core.ElementID
	Position core.Position3D
}

// NearestRequest searches for the closest vehicle within a radius.
type NearestRequest struct {
	Position core.Position3D
	Radius   float64
}

// SeatRequest resolves a passenger index of a model.
type SeatRequest struct {
	Model core.ModelID
	Index uint8
}

// ParseModel parses [model].
func ParseModel(args []string) (core.ModelID, error) {
	data, err := need(args, 1)
	if err != nil {
		return 0, err
	}
	return ParseModelID(data[0])
}

// ParseID parses [id].
func ParseID(args []string) (core.ElementID, error) {
	data, err := need(args, 1)
	if err != nil {
		return 0, err
	}
	return ParseElementID(data[0])
}

// ParseSpawn parses [id, model, position, streamedIn?]. streamedIn defaults to true.
func ParseSpawn(args []string) (SpawnRequest, error) {
	var req SpawnRequest

	data, err := need(args, 3)
	if err != nil {
		return req, err
	}

	if req.ID, err = ParseElementID(data[0]); err != nil {
		return req, err
	}
	if req.Model, err = ParseModelID(data[1]); err != nil {
		return req, err
	}
	if req.Position, err = ParsePosition(data[2]); err != nil {
		return req, err
	}

	req.StreamedIn = true
	if len(data) > 3 && data[3] != "" {
		if req.StreamedIn, err = ParseBool(data[3]); err != nil {
			return req, fmt.Errorf("error converting streamedIn: %w", err)
		}
	}
	return req, nil
}

// ParseMove parses [id, position].
func ParseMove(args []string) (MoveRequest, error) {
	var req MoveRequest

	data, err := need(args, 2)
	if err != nil {
		return req, err
	}
	if req.ID, err = ParseElementID(data[0]); err != nil {
		return req, err
	}
	if req.Position, err = ParsePosition(data[1]); err != nil {
		return req, err
	}
	return req, nil
}

// ParseNearest parses [position, radius].
func ParseNearest(args []string) (NearestRequest, error) {
	var req NearestRequest

	data, err := need(args, 2)
	if err != nil {
		return req, err
	}
	if req.Position, err = ParsePosition(data[0]); err != nil {
		return req, err
	}
	if req.Radius, err = ParseRadius(data[1]); err != nil {
		return req, err
	}
	return req, nil
}

// ParseSeat parses [model, index].
func ParseSeat(args []string) (SeatRequest, error) {
	var req SeatRequest

	data, err := need(args, 2)
	if err != nil {
		return req, err
	}
	if req.Model, err = ParseModelID(data[0]); err != nil {
		return req, err
	}
	if req.Index, err = ParseSeatIndex(data[1]); err != nil {
		return req, err
	}
	return req, nil
}

// ParseFocus parses [position].
func ParseFocus(args []string) (core.Position3D, error) {
	data, err := need(args, 1)
	if err != nil {
		return core.Position3D{}, err
	}
	return ParsePosition(data[0])
}

// LogRequest is a log line sent by the scripting host.
type LogRequest struct {
	Function string
	Level    string
	Message  string
}

// ParseLog parses [function, level, message...]. Extra arguments are joined
// back into the message since it may itself contain the separator.
func ParseLog(args []string) (LogRequest, error) {
	data, err := need(args, 3)
	if err != nil {
		return LogRequest{}, err
	}
	return LogRequest{
		Function: data[0],
		Level:    data[1],
		Message:  strings.Join(data[2:], "|"),
	}, nil
}
