// Package targeting resolves the vehicle the local player intends to interact with.
package targeting

import (
	"math"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/pkg/natives"
)

// Source tells how a target vehicle was resolved.
type Source string

const (
	SourceRaycast Source = "raycast"
	SourceNearest Source = "nearest"
)

// Target is a resolved vehicle.
type Target struct {
	Vehicle natives.EntityID
	Source  Source
}

// RotationToDirection converts a rotation in radians (x=pitch, z=yaw) into a
// forward direction vector.
func RotationToDirection(rot natives.Vector3) natives.Vector3 {
	horizontal := math.Abs(math.Cos(rot.X))
	return natives.Vector3{
		X: -math.Sin(rot.Z) * horizontal,
		Y: math.Cos(rot.Z) * horizontal,
		Z: math.Sin(rot.X),
	}
}

// Resolver finds target vehicles through the host natives.
type Resolver struct {
	n   natives.Natives
	cfg config.TargetingConfig
}

// NewResolver creates a Resolver.
func NewResolver(n natives.Natives, cfg config.TargetingConfig) *Resolver {
	return &Resolver{n: n, cfg: cfg}
}

// RaycastGameplayCamera probes from the gameplay camera along its forward
// direction out to distance, ignoring the local player.
func (r *Resolver) RaycastGameplayCamera(distance float64) natives.RaycastResult {
	rot := r.n.GameplayCamRot().ToRadians()
	from := r.n.GameplayCamCoord()
	to := from.Add(RotationToDirection(rot).Scale(distance))
	return r.n.ShapeTestLOSProbe(from, to, r.n.LocalPlayer())
}

// ResolveTargetVehicle returns the vehicle the camera looks at, falling back to
// the nearest vehicle around the player. ok is false when neither yields a
// valid vehicle.
func (r *Resolver) ResolveTargetVehicle() (t Target, ok bool) {
	if r.cfg.UseRaycast {
		hit := r.RaycastGameplayCamera(r.cfg.LookRange)
		if hit.Hit && hit.Entity != 0 && r.n.IsEntityAVehicle(hit.Entity) && r.n.IsVehicleValid(hit.Entity) {
			return Target{Vehicle: hit.Entity, Source: SourceRaycast}, true
		}
	}

	vehicle := r.n.ClosestVehicle(r.n.LocalPlayerPosition(), r.cfg.DetectionRange)
	if vehicle == 0 || !r.n.IsVehicleValid(vehicle) {
		return Target{}, false
	}
	return Target{Vehicle: vehicle, Source: SourceNearest}, true
}
