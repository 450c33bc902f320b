package targeting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/pkg/natives"
	"github.com/seatwise/extension/pkg/natives/nativestest"
)

var defaultCfg = config.TargetingConfig{UseRaycast: true, LookRange: 8, DetectionRange: 6}

func assertVec(t *testing.T, want, got natives.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z")
}

func TestRotationToDirection(t *testing.T) {
	tests := []struct {
		name string
		rot  natives.Vector3
		want natives.Vector3
	}{
		{"level north", natives.Vector3{}, natives.Vector3{X: 0, Y: 1, Z: 0}},
		{"yaw 90", natives.Vector3{Z: math.Pi / 2}, natives.Vector3{X: -1, Y: 0, Z: 0}},
		{"yaw -90", natives.Vector3{Z: -math.Pi / 2}, natives.Vector3{X: 1, Y: 0, Z: 0}},
		{"straight up", natives.Vector3{X: math.Pi / 2}, natives.Vector3{X: 0, Y: 0, Z: 1}},
		{"pitch down 45", natives.Vector3{X: -math.Pi / 4}, natives.Vector3{X: 0, Y: math.Sqrt2 / 2, Z: -math.Sqrt2 / 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec(t, tt.want, RotationToDirection(tt.rot))
		})
	}
}

func TestRotationToDirection_Scaling(t *testing.T) {
	for pitch := -1.5; pitch <= 1.5; pitch += 0.25 {
		for yaw := -3.0; yaw <= 3.0; yaw += 0.5 {
			d := RotationToDirection(natives.Vector3{X: pitch, Z: yaw})
			assert.InDelta(t, math.Cos(pitch), math.Hypot(d.X, d.Y), 1e-9)
			assert.InDelta(t, math.Sin(pitch), d.Z, 1e-9)
		}
	}
}

func TestRaycastGameplayCamera(t *testing.T) {
	w := nativestest.New()
	w.CamCoord = natives.Vector3{X: 10, Y: 20, Z: 30}
	w.CamRot = natives.Vector3{Z: 90} // degrees

	r := NewResolver(w, defaultCfg)
	r.RaycastGameplayCamera(8)

	require.Len(t, w.Probes, 1)
	assert.Equal(t, w.CamCoord, w.Probes[0].From)
	assertVec(t, natives.Vector3{X: 2, Y: 20, Z: 30}, w.Probes[0].To)
	assert.Equal(t, w.Player, w.Probes[0].Ignore)
}

func TestResolveTargetVehicle_RaycastHit(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(7, &nativestest.Vehicle{Valid: true, Position: natives.Vector3{Y: 7}})
	w.AddVehicle(8, &nativestest.Vehicle{Valid: true, Position: natives.Vector3{Y: 1}})
	w.RayHit = natives.RaycastResult{Hit: true, Entity: 7}

	target, ok := NewResolver(w, defaultCfg).ResolveTargetVehicle()

	require.True(t, ok)
	assert.Equal(t, natives.EntityID(7), target.Vehicle)
	assert.Equal(t, SourceRaycast, target.Source)
	assert.Empty(t, w.ClosestQueries, "fallback must not run on a vehicle hit")
}

func TestResolveTargetVehicle_NonVehicleHitFallsBack(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(8, &nativestest.Vehicle{Valid: true, Position: natives.Vector3{X: 2}})
	w.RayHit = natives.RaycastResult{Hit: true, Entity: 99}

	target, ok := NewResolver(w, defaultCfg).ResolveTargetVehicle()

	require.True(t, ok)
	assert.Equal(t, natives.EntityID(8), target.Vehicle)
	assert.Equal(t, SourceNearest, target.Source)
	assert.Equal(t, []float64{6}, w.ClosestQueries)
}

func TestResolveTargetVehicle_RaycastDisabled(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(7, &nativestest.Vehicle{Valid: true, Position: natives.Vector3{X: 1}})
	w.RayHit = natives.RaycastResult{Hit: true, Entity: 7}

	cfg := defaultCfg
	cfg.UseRaycast = false
	target, ok := NewResolver(w, cfg).ResolveTargetVehicle()

	require.True(t, ok)
	assert.Equal(t, SourceNearest, target.Source)
	assert.Empty(t, w.Probes)
}

func TestResolveTargetVehicle_InvalidHitFallsBack(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(7, &nativestest.Vehicle{Valid: false})
	w.RayHit = natives.RaycastResult{Hit: true, Entity: 7}

	_, ok := NewResolver(w, defaultCfg).ResolveTargetVehicle()
	assert.False(t, ok)
}

func TestResolveTargetVehicle_NoneInRange(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(7, &nativestest.Vehicle{Valid: true, Position: natives.Vector3{X: 50}})

	r := NewResolver(w, defaultCfg)
	hit := r.RaycastGameplayCamera(defaultCfg.LookRange)
	assert.False(t, hit.Hit)

	_, ok := r.ResolveTargetVehicle()
	assert.False(t, ok)
	assert.Equal(t, natives.EntityID(0), w.ClosestVehicle(w.PlayerPosition, defaultCfg.DetectionRange))
}
