// Package nativestest provides an in-memory natives.Natives for tests.
package nativestest

import (
	"github.com/seatwise/extension/pkg/natives"
)

// Vehicle is a fake vehicle in the World.
type Vehicle struct {
	Valid     bool
	Model     natives.ModelHash
	Lock      natives.LockState
	Bicycle   bool
	Bike      bool
	Position  natives.Vector3
	Bones     map[string]natives.Vector3 // bone name -> world position
	Occupied  map[natives.Seat]bool
	boneNames []string
}

// EnterCall records a TaskEnterVehicle invocation.
type EnterCall struct {
	Ped       natives.EntityID
	Vehicle   natives.EntityID
	TimeoutMs int
	Seat      natives.Seat
	Speed     float64
	Flags     natives.EntryFlag
}

// ProbeCall records a ShapeTestLOSProbe invocation.
type ProbeCall struct {
	From, To natives.Vector3
	Ignore   natives.EntityID
}

// World is a scriptable fake of the host runtime. Zero value is an empty world
// with an invalid player; use New for a ready player.
type World struct {
	Player         natives.EntityID
	PlayerValid    bool
	PlayerPosition natives.Vector3
	PlayerVehicle  natives.EntityID

	CursorVisible   bool
	ControlsEnabled bool
	KeysDown        map[natives.Key]bool
	JustPressed     map[natives.Control]bool
	ActiveTasks     map[natives.TaskID]bool

	CamRot   natives.Vector3 // degrees
	CamCoord natives.Vector3
	RayHit   natives.RaycastResult

	Vehicles        map[natives.EntityID]*Vehicle
	NonVehicles     map[natives.EntityID]bool
	TryingToEnter   natives.EntityID
	TryingLocked    bool
	ClosestOverride *natives.EntityID

	// ClearResetsEntry makes task clears drop the pending entry the way the
	// host does, so reads after a clear see no vehicle.
	ClearResetsEntry bool

	// Recorded commands
	Enters             []EnterCall
	Probes             []ProbeCall
	Disabled           []natives.Control
	Cleared            int
	ClearedImmediately int
	ClosestQueries     []float64
}

// New returns a world with a valid player at the origin and game controls enabled.
func New() *World {
	return &World{
		Player:          1,
		PlayerValid:     true,
		ControlsEnabled: true,
		KeysDown:        map[natives.Key]bool{},
		JustPressed:     map[natives.Control]bool{},
		ActiveTasks:     map[natives.TaskID]bool{},
		Vehicles:        map[natives.EntityID]*Vehicle{},
		NonVehicles:     map[natives.EntityID]bool{},
	}
}

// AddVehicle registers v under id. Bones are resolved in the order of boneOrder;
// names missing from v.Bones resolve to bone index -1.
func (w *World) AddVehicle(id natives.EntityID, v *Vehicle, boneOrder ...string) *Vehicle {
	if v.Occupied == nil {
		v.Occupied = map[natives.Seat]bool{}
	}
	v.boneNames = boneOrder
	w.Vehicles[id] = v
	return v
}

func (w *World) IsCursorVisible() bool { return w.CursorVisible }
func (w *World) GameControlsEnabled() bool { return w.ControlsEnabled }
func (w *World) IsKeyDown(key natives.Key) bool {
	return w.KeysDown[key]
}

func (w *World) IsControlJustPressed(_ int, control natives.Control) bool {
	return w.JustPressed[control]
}

func (w *World) DisableControlAction(_ int, control natives.Control) {
	w.Disabled = append(w.Disabled, control)
}

func (w *World) LocalPlayer() natives.EntityID { return w.Player }
func (w *World) IsLocalPlayerValid() bool { return w.PlayerValid }
func (w *World) LocalPlayerPosition() natives.Vector3 { return w.PlayerPosition }
func (w *World) LocalPlayerVehicle() natives.EntityID { return w.PlayerVehicle }
func (w *World) GameplayCamRot() natives.Vector3 { return w.CamRot }
func (w *World) GameplayCamCoord() natives.Vector3 { return w.CamCoord }

func (w *World) ShapeTestLOSProbe(from, to natives.Vector3, ignore natives.EntityID) natives.RaycastResult {
	w.Probes = append(w.Probes, ProbeCall{From: from, To: to, Ignore: ignore})
	return w.RayHit
}

// ClosestVehicle returns the nearest valid vehicle within radius, or ClosestOverride if set.
func (w *World) ClosestVehicle(pos natives.Vector3, radius float64) natives.EntityID {
	w.ClosestQueries = append(w.ClosestQueries, radius)
	if w.ClosestOverride != nil {
		return *w.ClosestOverride
	}
	var best natives.EntityID
	var bestDist float64
	for id, v := range w.Vehicles {
		if !v.Valid {
			continue
		}
		d := pos.DistanceTo(v.Position)
		if d > radius {
			continue
		}
		if best == 0 || d < bestDist || (d == bestDist && id < best) {
			best, bestDist = id, d
		}
	}
	return best
}

func (w *World) IsEntityAVehicle(entity natives.EntityID) bool {
	_, ok := w.Vehicles[entity]
	return ok && !w.NonVehicles[entity]
}

func (w *World) IsVehicleValid(vehicle natives.EntityID) bool {
	v, ok := w.Vehicles[vehicle]
	return ok && v.Valid
}

func (w *World) VehicleModel(vehicle natives.EntityID) natives.ModelHash {
	if v, ok := w.Vehicles[vehicle]; ok {
		return v.Model
	}
	return 0
}

func (w *World) VehicleLockState(vehicle natives.EntityID) natives.LockState {
	if v, ok := w.Vehicles[vehicle]; ok {
		return v.Lock
	}
	return natives.LockStateNone
}

func (w *World) IsVehicleSeatFree(vehicle natives.EntityID, seat natives.Seat, _ bool) bool {
	v, ok := w.Vehicles[vehicle]
	return ok && !v.Occupied[seat]
}

func (w *World) IsThisModelABicycle(model natives.ModelHash) bool {
	for _, v := range w.Vehicles {
		if v.Model == model && v.Bicycle {
			return true
		}
	}
	return false
}

func (w *World) IsThisModelABike(model natives.ModelHash) bool {
	for _, v := range w.Vehicles {
		if v.Model == model && v.Bike {
			return true
		}
	}
	return false
}

func (w *World) EntityBoneIndexByName(entity natives.EntityID, bone string) int {
	v, ok := w.Vehicles[entity]
	if !ok {
		return -1
	}
	if _, ok := v.Bones[bone]; !ok {
		return -1
	}
	for i, name := range v.boneNames {
		if name == bone {
			return i
		}
	}
	return -1
}

func (w *World) WorldPositionOfEntityBone(entity natives.EntityID, boneIndex int) natives.Vector3 {
	v, ok := w.Vehicles[entity]
	if !ok || boneIndex < 0 || boneIndex >= len(v.boneNames) {
		return natives.Vector3{}
	}
	return v.Bones[v.boneNames[boneIndex]]
}

func (w *World) IsTaskActive(_ natives.EntityID, task natives.TaskID) bool {
	return w.ActiveTasks[task]
}

func (w *World) VehiclePedIsTryingToEnter(natives.EntityID) natives.EntityID {
	return w.TryingToEnter
}

func (w *World) IsPedTryingToEnterALockedVehicle(natives.EntityID) bool {
	return w.TryingLocked
}

func (w *World) TaskEnterVehicle(ped, vehicle natives.EntityID, timeoutMs int, seat natives.Seat, speed float64, flags natives.EntryFlag) {
	w.Enters = append(w.Enters, EnterCall{
		Ped:       ped,
		Vehicle:   vehicle,
		TimeoutMs: timeoutMs,
		Seat:      seat,
		Speed:     speed,
		Flags:     flags,
	})
}

func (w *World) ClearPedTasks(natives.EntityID) {
	w.Cleared++
	w.resetEntry()
}

func (w *World) ClearPedTasksImmediately(natives.EntityID) {
	w.ClearedImmediately++
	w.resetEntry()
}

func (w *World) resetEntry() {
	if !w.ClearResetsEntry {
		return
	}
	w.TryingToEnter = 0
	w.TryingLocked = false
	delete(w.ActiveTasks, natives.TaskEnterVehicle)
}

var _ natives.Natives = (*World)(nil)
