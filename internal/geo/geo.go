package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/seatwise/extension/pkg/natives"
)

// Positions are stored as a 2D point plus a separate elevation column, so
// SQLite (no spatial awareness) and PostGIS read the same WKB.

// PointFromVector returns the XY point of a world position and its elevation.
func PointFromVector(v natives.Vector3) (geom.Point, float64) {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: v.X, Y: v.Y},
		Type: geom.DimXY,
	}), v.Z
}

// VectorFromPoint rebuilds a world position from a stored point and elevation.
// An empty point yields the origin at the given elevation.
func VectorFromPoint(p geom.Point, elev float64) natives.Vector3 {
	c, ok := p.Coordinates()
	if !ok {
		return natives.Vector3{Z: elev}
	}
	return natives.Vector3{X: c.X, Y: c.Y, Z: elev}
}
