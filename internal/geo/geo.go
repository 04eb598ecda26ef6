package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/OCAP2/fleet/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Positions are stored as planar XYZ points in world units. The simulation's
// map is flat and has no geodetic reference, so no SRID transform is applied.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PositionFromString parses "x,y" or "x,y,z", optionally wrapped in brackets,
// into a core.Position3D.
func PositionFromString(coords string) (core.Position3D, error) {
	coords = strings.TrimSpace(coords)
	coords = strings.TrimPrefix(coords, "[")
	coords = strings.TrimSuffix(coords, "]")

	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}

	var vals [3]float64
	for i := 0; i < len(parts) && i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
		vals[i] = v
	}
	return core.Position3D{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// PointFromPosition converts a position into an XYZ point.
func PointFromPosition(p core.Position3D) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	})
}

// PositionFromPoint converts a point back into a position. Empty points map
// to the origin.
func PositionFromPoint(pt geom.Point) core.Position3D {
	c, ok := pt.Coordinates()
	if !ok {
		return core.Position3D{}
	}
	return core.Position3D{X: c.X, Y: c.Y, Z: c.Z}
}

// Distance3D returns the Euclidean distance between two XYZ points. Empty
// points are treated as the origin.
func Distance3D(a, b geom.Point) float64 {
	return PositionFromPoint(a).DistanceTo(PositionFromPoint(b))
}
