// Package natives defines the typed capability surface this extension uses to
// query and command the host game runtime.
//
// Every method maps onto exactly one host native. Implementations must be safe to
// call from the host's main loop only; none of them block across frames.
package natives

// EntityID is the host-assigned script handle of an entity. Zero means "none".
type EntityID int32

// ModelHash identifies an entity model (see Joaat).
type ModelHash uint32

// Key is a virtual key code as delivered by the host's key-down events.
type Key int

// Common key codes.
const (
	KeyShift Key = 16
	KeyF     Key = 70
	KeyG     Key = 71
)

// Control is a host input control identifier.
type Control int

// ControlGroup is the input group controls are read from.
const ControlGroup = 0

// Controls used by the extension.
const (
	ControlEnter         Control = 23
	ControlMoveUpOnly    Control = 32
	ControlMoveDownOnly  Control = 33
	ControlMoveLeftOnly  Control = 34
	ControlMoveRightOnly Control = 35
	ControlVehicleExit   Control = 75
)

// MovementControls are the four directional controls that cancel a default entry.
var MovementControls = [...]Control{
	ControlMoveUpOnly,
	ControlMoveDownOnly,
	ControlMoveLeftOnly,
	ControlMoveRightOnly,
}

// TaskID identifies a host task type for task introspection.
type TaskID int

// Task types queried by the extension.
const (
	TaskEnterVehicle TaskID = 160
	TaskExitVehicle  TaskID = 163
)

// LockState is the door lock state of a vehicle.
type LockState int

// Lock states. Any other value is treated as "other".
const (
	LockStateNone     LockState = 0
	LockStateUnlocked LockState = 1
	LockStateLocked   LockState = 2
)

func (s LockState) String() string {
	switch s {
	case LockStateUnlocked:
		return "unlocked"
	case LockStateLocked:
		return "locked"
	default:
		return "other"
	}
}

// Seat is a per-vehicle seat index. Only meaningful for the vehicle it was resolved against.
type Seat int

// Well-known seats.
const (
	SeatDriver         Seat = -1
	SeatFrontPassenger Seat = 0
)

// EntryFlag is the flag set passed to the enter-vehicle task.
type EntryFlag int

// Entry flag sets.
const (
	EntryFlagStandard  EntryFlag = 1
	EntryFlagAlternate EntryFlag = 16
)

// RaycastResult is the result of a single line-of-sight probe.
type RaycastResult struct {
	Hit      bool
	Position Vector3
	Entity   EntityID
}

// Natives is the host native API consumed by the extension.
type Natives interface {
	// UI / input
	IsCursorVisible() bool
	GameControlsEnabled() bool
	IsKeyDown(key Key) bool
	IsControlJustPressed(group int, control Control) bool
	DisableControlAction(group int, control Control)

	// Local player
	LocalPlayer() EntityID
	IsLocalPlayerValid() bool
	LocalPlayerPosition() Vector3
	LocalPlayerVehicle() EntityID

	// Camera and world queries
	GameplayCamRot() Vector3
	GameplayCamCoord() Vector3
	ShapeTestLOSProbe(from, to Vector3, ignore EntityID) RaycastResult
	ClosestVehicle(pos Vector3, radius float64) EntityID
	IsEntityAVehicle(entity EntityID) bool

	// Vehicle state
	IsVehicleValid(vehicle EntityID) bool
	VehicleModel(vehicle EntityID) ModelHash
	VehicleLockState(vehicle EntityID) LockState
	IsVehicleSeatFree(vehicle EntityID, seat Seat, isTaskRunning bool) bool
	IsThisModelABicycle(model ModelHash) bool
	IsThisModelABike(model ModelHash) bool
	EntityBoneIndexByName(entity EntityID, bone string) int
	WorldPositionOfEntityBone(entity EntityID, boneIndex int) Vector3

	// Tasks
	IsTaskActive(ped EntityID, task TaskID) bool
	VehiclePedIsTryingToEnter(ped EntityID) EntityID
	IsPedTryingToEnterALockedVehicle(ped EntityID) bool
	TaskEnterVehicle(ped, vehicle EntityID, timeoutMs int, seat Seat, speed float64, flags EntryFlag)
	ClearPedTasks(ped EntityID)
	ClearPedTasksImmediately(ped EntityID)
}
