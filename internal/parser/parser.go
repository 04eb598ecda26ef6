// Package parser converts raw scripting-host arguments into typed requests.
// SQF has no integer type, so numeric arguments may arrive as "32" or "32.00".
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/OCAP2/fleet/internal/geo"
	"github.com/OCAP2/fleet/internal/util"
	"github.com/OCAP2/fleet/pkg/core"
)

// ErrMissingArgs is returned when a command receives fewer arguments than it needs.
var ErrMissingArgs = errors.New("missing arguments")

// parseUintFromFloat parses a string that may be an integer ("32") or float ("32.00") into uint64.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}

// parseIntFromFloat parses a string that may be an integer or float into int64.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

func parseBounded(s string, max uint64, what string) (uint64, error) {
	v, err := parseUintFromFloat(s)
	if err != nil {
		return 0, fmt.Errorf("error converting %s: %w", what, err)
	}
	if v > max {
		return 0, fmt.Errorf("%s %d out of range", what, v)
	}
	return v, nil
}

// ParseModelID parses a model id.
func ParseModelID(s string) (core.ModelID, error) {
	v, err := parseBounded(s, math.MaxUint16, "model id")
	return core.ModelID(v), err
}

// ParseElementID parses a simulation element id.
func ParseElementID(s string) (core.ElementID, error) {
	v, err := parseBounded(s, math.MaxUint32, "element id")
	return core.ElementID(v), err
}

// ParseSeatIndex parses a passenger index. Negative indices map to 255, which
// resolves to no seat.
func ParseSeatIndex(s string) (uint8, error) {
	v, err := parseIntFromFloat(s)
	if err != nil {
		return 0, fmt.Errorf("error converting seat index: %w", err)
	}
	if v < 0 || v > math.MaxUint8 {
		return core.Unknown, nil
	}
	return uint8(v), nil
}

// ParseBool accepts true/false and 1/0.
func ParseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("error converting bool: %w", err)
	}
	return b, nil
}

// ParseRadius parses a non-negative search radius.
func ParseRadius(s string) (float64, error) {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting radius: %w", err)
	}
	if r < 0 || math.IsNaN(r) {
		return 0, fmt.Errorf("radius %v out of range", r)
	}
	return r, nil
}

// ParsePosition parses "x,y[,z]" with optional brackets.
func ParsePosition(s string) (core.Position3D, error) {
	p, err := geo.PositionFromString(s)
	if err != nil {
		return p, fmt.Errorf("error converting position %q: %w", s, err)
	}
	return p, nil
}

func need(args []string, n int) ([]string, error) {
	if len(args) < n {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrMissingArgs, n, len(args))
	}
	return util.CleanArgs(args), nil
}
