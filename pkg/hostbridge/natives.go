package hostbridge

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/seatwise/extension/pkg/natives"
)

// ErrNoInvoker is returned when a native is called before the host registered its invoker.
var ErrNoInvoker = errors.New("no native invoker registered")

// Caller invokes a host native by name. args is a JSON array of positional
// arguments; the reply is the JSON-encoded return value.
type Caller func(name string, args []byte) ([]byte, error)

// Host native names.
const (
	nativeIsCursorVisible              = "isCursorVisible"
	nativeGameControlsEnabled          = "gameControlsEnabled"
	nativeIsKeyDown                    = "isKeyDown"
	nativeIsControlJustPressed         = "isControlJustPressed"
	nativeDisableControlAction         = "disableControlAction"
	nativeLocalPlayer                  = "localPlayerScriptID"
	nativeLocalPlayerValid             = "localPlayerValid"
	nativeLocalPlayerPos               = "localPlayerPos"
	nativeLocalPlayerVehicle           = "localPlayerVehicle"
	nativeGetGameplayCamRot            = "getGameplayCamRot"
	nativeGetGameplayCamCoord          = "getGameplayCamCoord"
	nativeShapeTestLosProbe            = "startExpensiveSynchronousShapeTestLosProbe"
	nativeGetClosestVehicle            = "getClosestVehicle"
	nativeIsEntityAVehicle             = "isEntityAVehicle"
	nativeVehicleValid                 = "vehicleValid"
	nativeGetEntityModel               = "getEntityModel"
	nativeVehicleLockState             = "vehicleLockState"
	nativeIsVehicleSeatFree            = "isVehicleSeatFree"
	nativeIsThisModelABicycle          = "isThisModelABicycle"
	nativeIsThisModelABike             = "isThisModelABike"
	nativeGetEntityBoneIndexByName     = "getEntityBoneIndexByName"
	nativeGetWorldPositionOfBone       = "getWorldPositionOfEntityBone"
	nativeGetIsTaskActive              = "getIsTaskActive"
	nativeGetVehiclePedIsTryingToEnter = "getVehiclePedIsTryingToEnter"
	nativeIsPedTryingToEnterLocked     = "isPedTryingToEnterALockedVehicle"
	nativeTaskEnterVehicle             = "taskEnterVehicle"
	nativeClearPedTasks                = "clearPedTasks"
	nativeClearPedTasksImmediately     = "clearPedTasksImmediately"
)

// camRotOrder is the rotation order requested for the gameplay camera.
const camRotOrder = 2

// shapeTestFlags selects every collision type in a line-of-sight probe.
const shapeTestFlags = -1

// RemoteNatives implements natives.Natives by calling into the host through
// a Caller. A failed call yields the zero value: no vehicle, not free, not
// pressed. Each failing native is logged once.
type RemoteNatives struct {
	call   Caller
	log    *slog.Logger
	warned sync.Map
}

// NewRemoteNatives creates a RemoteNatives. log may be nil.
func NewRemoteNatives(call Caller, log *slog.Logger) *RemoteNatives {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RemoteNatives{call: call, log: log}
}

var _ natives.Natives = (*RemoteNatives)(nil)

// invoke calls name with args and decodes the reply into out (if non-nil).
func (r *RemoteNatives) invoke(name string, out any, args ...any) bool {
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		r.fail(name, err)
		return false
	}

	if r.call == nil {
		r.fail(name, ErrNoInvoker)
		return false
	}
	reply, err := r.call(name, payload)
	if err != nil {
		r.fail(name, err)
		return false
	}
	if out == nil {
		return true
	}
	if err := json.Unmarshal(reply, out); err != nil {
		r.fail(name, err)
		return false
	}
	return true
}

func (r *RemoteNatives) fail(name string, err error) {
	if _, seen := r.warned.LoadOrStore(name, struct{}{}); seen {
		r.log.Debug("native call failed", "native", name, "error", err)
		return
	}
	r.log.Warn("native call failed", "native", name, "error", err)
}

func (r *RemoteNatives) callBool(name string, args ...any) bool {
	var v bool
	r.invoke(name, &v, args...)
	return v
}

func (r *RemoteNatives) callEntity(name string, args ...any) natives.EntityID {
	var v natives.EntityID
	r.invoke(name, &v, args...)
	return v
}

func (r *RemoteNatives) callVector(name string, args ...any) natives.Vector3 {
	var v natives.Vector3
	r.invoke(name, &v, args...)
	return v
}

func (r *RemoteNatives) IsCursorVisible() bool {
	return r.callBool(nativeIsCursorVisible)
}

func (r *RemoteNatives) GameControlsEnabled() bool {
	return r.callBool(nativeGameControlsEnabled)
}

func (r *RemoteNatives) IsKeyDown(key natives.Key) bool {
	return r.callBool(nativeIsKeyDown, int(key))
}

func (r *RemoteNatives) IsControlJustPressed(group int, control natives.Control) bool {
	return r.callBool(nativeIsControlJustPressed, group, int(control))
}

func (r *RemoteNatives) DisableControlAction(group int, control natives.Control) {
	r.invoke(nativeDisableControlAction, nil, group, int(control), true)
}

func (r *RemoteNatives) LocalPlayer() natives.EntityID {
	return r.callEntity(nativeLocalPlayer)
}

func (r *RemoteNatives) IsLocalPlayerValid() bool {
	return r.callBool(nativeLocalPlayerValid)
}

func (r *RemoteNatives) LocalPlayerPosition() natives.Vector3 {
	return r.callVector(nativeLocalPlayerPos)
}

func (r *RemoteNatives) LocalPlayerVehicle() natives.EntityID {
	return r.callEntity(nativeLocalPlayerVehicle)
}

func (r *RemoteNatives) GameplayCamRot() natives.Vector3 {
	return r.callVector(nativeGetGameplayCamRot, camRotOrder)
}

func (r *RemoteNatives) GameplayCamCoord() natives.Vector3 {
	return r.callVector(nativeGetGameplayCamCoord)
}

// probeReply is the decoded shape test result.
type probeReply struct {
	Hit      bool             `json:"hit"`
	Position natives.Vector3  `json:"coords"`
	Entity   natives.EntityID `json:"entity"`
}

func (r *RemoteNatives) ShapeTestLOSProbe(from, to natives.Vector3, ignore natives.EntityID) natives.RaycastResult {
	var reply probeReply
	if !r.invoke(nativeShapeTestLosProbe, &reply,
		from.X, from.Y, from.Z, to.X, to.Y, to.Z, shapeTestFlags, ignore, 0) {
		return natives.RaycastResult{}
	}
	return natives.RaycastResult{Hit: reply.Hit, Position: reply.Position, Entity: reply.Entity}
}

func (r *RemoteNatives) ClosestVehicle(pos natives.Vector3, radius float64) natives.EntityID {
	return r.callEntity(nativeGetClosestVehicle, pos, radius)
}

func (r *RemoteNatives) IsEntityAVehicle(entity natives.EntityID) bool {
	return r.callBool(nativeIsEntityAVehicle, entity)
}

func (r *RemoteNatives) IsVehicleValid(vehicle natives.EntityID) bool {
	return r.callBool(nativeVehicleValid, vehicle)
}

// VehicleModel accepts both signed and unsigned hash replies.
func (r *RemoteNatives) VehicleModel(vehicle natives.EntityID) natives.ModelHash {
	var v int64
	r.invoke(nativeGetEntityModel, &v, vehicle)
	return natives.ModelHash(uint32(v))
}

func (r *RemoteNatives) VehicleLockState(vehicle natives.EntityID) natives.LockState {
	var v natives.LockState
	r.invoke(nativeVehicleLockState, &v, vehicle)
	return v
}

func (r *RemoteNatives) IsVehicleSeatFree(vehicle natives.EntityID, seat natives.Seat, isTaskRunning bool) bool {
	return r.callBool(nativeIsVehicleSeatFree, vehicle, int(seat), isTaskRunning)
}

func (r *RemoteNatives) IsThisModelABicycle(model natives.ModelHash) bool {
	return r.callBool(nativeIsThisModelABicycle, uint32(model))
}

func (r *RemoteNatives) IsThisModelABike(model natives.ModelHash) bool {
	return r.callBool(nativeIsThisModelABike, uint32(model))
}

// EntityBoneIndexByName returns -1 when the call fails, matching a missing bone.
func (r *RemoteNatives) EntityBoneIndexByName(entity natives.EntityID, bone string) int {
	v := -1
	if !r.invoke(nativeGetEntityBoneIndexByName, &v, entity, bone) {
		return -1
	}
	return v
}

func (r *RemoteNatives) WorldPositionOfEntityBone(entity natives.EntityID, boneIndex int) natives.Vector3 {
	return r.callVector(nativeGetWorldPositionOfBone, entity, boneIndex)
}

func (r *RemoteNatives) IsTaskActive(ped natives.EntityID, task natives.TaskID) bool {
	return r.callBool(nativeGetIsTaskActive, ped, int(task))
}

func (r *RemoteNatives) VehiclePedIsTryingToEnter(ped natives.EntityID) natives.EntityID {
	return r.callEntity(nativeGetVehiclePedIsTryingToEnter, ped)
}

func (r *RemoteNatives) IsPedTryingToEnterALockedVehicle(ped natives.EntityID) bool {
	return r.callBool(nativeIsPedTryingToEnterLocked, ped)
}

func (r *RemoteNatives) TaskEnterVehicle(ped, vehicle natives.EntityID, timeoutMs int, seat natives.Seat, speed float64, flags natives.EntryFlag) {
	r.invoke(nativeTaskEnterVehicle, nil, ped, vehicle, timeoutMs, int(seat), speed, int(flags), nil)
}

func (r *RemoteNatives) ClearPedTasks(ped natives.EntityID) {
	r.invoke(nativeClearPedTasks, nil, ped)
}

func (r *RemoteNatives) ClearPedTasksImmediately(ped natives.EntityID) {
	r.invoke(nativeClearPedTasksImmediately, nil, ped)
}
