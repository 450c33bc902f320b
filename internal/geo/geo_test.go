package geo

import (
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/pkg/natives"
)

func TestPointFromVector(t *testing.T) {
	point, elev := PointFromVector(natives.Vector3{X: 100.5, Y: 200.25, Z: 31})

	coords, ok := point.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 100.5, coords.X)
	assert.Equal(t, 200.25, coords.Y)
	assert.Equal(t, 31.0, elev)
	assert.Equal(t, geom.DimXY, point.CoordinatesType())
}

func TestVectorFromPoint(t *testing.T) {
	tests := []struct {
		name  string
		point geom.Point
		elev  float64
		want  natives.Vector3
	}{
		{"point", geom.NewPoint(geom.Coordinates{XY: geom.XY{X: 1, Y: 2}}), 3, natives.Vector3{X: 1, Y: 2, Z: 3}},
		{"empty", geom.NewEmptyPoint(geom.DimXY), 4, natives.Vector3{Z: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VectorFromPoint(tt.point, tt.elev))
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	v := natives.Vector3{X: -1200.75, Y: 4530.5, Z: 12.25}
	assert.Equal(t, v, VectorFromPoint(PointFromVector(v)))
}
