// Package tickguard suppresses the host's default vehicle-entry behaviour every frame.
//
// All checks read live host state; nothing is carried between ticks.
package tickguard

import (
	"log/slog"

	"github.com/seatwise/extension/pkg/core"
	"github.com/seatwise/extension/pkg/natives"
)

// Recorder receives every task cancellation the Guard performs.
type Recorder interface {
	RecordGuardIntervention(g *core.GuardIntervention)
}

// Guard runs the per-tick suppression and cancellation checks.
type Guard struct {
	n   natives.Natives
	rec Recorder
	log *slog.Logger
}

// New creates a Guard. rec and log may be nil.
func New(n natives.Natives, rec Recorder, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Guard{n: n, rec: rec, log: log}
}

// Tick runs all checks in their fixed order.
func (g *Guard) Tick() {
	g.SuppressDefaultEntry()
	g.CancelOnMovement()
	g.SuppressWindowBreaking()
}

// SuppressDefaultEntry disables the built-in enter control for this frame, and
// the exit control too while the player sits in a locked vehicle.
func (g *Guard) SuppressDefaultEntry() {
	g.n.DisableControlAction(natives.ControlGroup, natives.ControlEnter)

	vehicle := g.n.LocalPlayerVehicle()
	if vehicle != 0 && g.n.VehicleLockState(vehicle) == natives.LockStateLocked {
		g.n.DisableControlAction(natives.ControlGroup, natives.ControlVehicleExit)
	}
}

// CancelOnMovement clears the player's tasks when a default entry is in
// progress and a movement control was just pressed. Exits are never interrupted.
func (g *Guard) CancelOnMovement() {
	if !g.n.IsLocalPlayerValid() {
		return
	}
	player := g.n.LocalPlayer()
	if g.n.IsTaskActive(player, natives.TaskExitVehicle) {
		return
	}
	if !g.n.IsTaskActive(player, natives.TaskEnterVehicle) {
		return
	}
	if !g.movementJustPressed() {
		return
	}

	// read before clearing; the host forgets the target with the task
	vehicle := g.n.VehiclePedIsTryingToEnter(player)
	g.n.ClearPedTasks(player)
	g.log.Debug("entry cancelled by movement", "vehicle", vehicle)
	g.record(core.InterventionMovementCancel, vehicle, natives.LockStateNone)
}

func (g *Guard) movementJustPressed() bool {
	for _, c := range natives.MovementControls {
		if g.n.IsControlJustPressed(natives.ControlGroup, c) {
			return true
		}
	}
	return false
}

// SuppressWindowBreaking force-clears the player's tasks when the host starts
// its locked-vehicle entry against a vehicle whose lock state is unlocked.
func (g *Guard) SuppressWindowBreaking() {
	player := g.n.LocalPlayer()
	vehicle := g.n.VehiclePedIsTryingToEnter(player)
	if vehicle == 0 || !g.n.IsVehicleValid(vehicle) {
		return
	}
	lock := g.n.VehicleLockState(vehicle)
	if lock != natives.LockStateUnlocked {
		return
	}
	if !g.n.IsPedTryingToEnterALockedVehicle(player) {
		return
	}

	g.n.ClearPedTasksImmediately(player)
	g.log.Debug("window breaking suppressed", "vehicle", vehicle)
	g.record(core.InterventionWindowBreak, vehicle, lock)
}

func (g *Guard) record(kind core.InterventionKind, vehicle natives.EntityID, lock natives.LockState) {
	if g.rec == nil {
		return
	}
	g.rec.RecordGuardIntervention(&core.GuardIntervention{
		Kind:      kind,
		Vehicle:   vehicle,
		LockState: lock,
	})
}
