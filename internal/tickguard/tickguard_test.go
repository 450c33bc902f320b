package tickguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/pkg/core"
	"github.com/seatwise/extension/pkg/natives"
	"github.com/seatwise/extension/pkg/natives/nativestest"
)

type fakeRecorder struct {
	interventions []*core.GuardIntervention
}

func (r *fakeRecorder) RecordGuardIntervention(g *core.GuardIntervention) {
	r.interventions = append(r.interventions, g)
}

func TestSuppressDefaultEntry(t *testing.T) {
	tests := []struct {
		name    string
		inCar   bool
		lock    natives.LockState
		wantCtl []natives.Control
	}{
		{"on foot", false, natives.LockStateLocked, []natives.Control{natives.ControlEnter}},
		{"in unlocked car", true, natives.LockStateUnlocked, []natives.Control{natives.ControlEnter}},
		{"in other-state car", true, natives.LockStateNone, []natives.Control{natives.ControlEnter}},
		{"in locked car", true, natives.LockStateLocked, []natives.Control{natives.ControlEnter, natives.ControlVehicleExit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := nativestest.New()
			w.AddVehicle(5, &nativestest.Vehicle{Valid: true, Lock: tt.lock})
			if tt.inCar {
				w.PlayerVehicle = 5
			}

			New(w, nil, nil).SuppressDefaultEntry()
			assert.Equal(t, tt.wantCtl, w.Disabled)
		})
	}
}

func TestCancelOnMovement(t *testing.T) {
	tests := []struct {
		name      string
		valid     bool
		entering  bool
		exiting   bool
		pressed   natives.Control
		wantClear bool
	}{
		{"all conditions", true, true, false, natives.ControlMoveUpOnly, true},
		{"move down", true, true, false, natives.ControlMoveDownOnly, true},
		{"move left", true, true, false, natives.ControlMoveLeftOnly, true},
		{"move right", true, true, false, natives.ControlMoveRightOnly, true},
		{"invalid player", false, true, false, natives.ControlMoveUpOnly, false},
		{"not entering", true, false, false, natives.ControlMoveUpOnly, false},
		{"exiting", true, true, true, natives.ControlMoveUpOnly, false},
		{"no movement", true, true, false, natives.ControlEnter, false},
		{"nothing pressed", true, true, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := nativestest.New()
			w.PlayerValid = tt.valid
			w.ActiveTasks[natives.TaskEnterVehicle] = tt.entering
			w.ActiveTasks[natives.TaskExitVehicle] = tt.exiting
			if tt.pressed != 0 {
				w.JustPressed[tt.pressed] = true
			}
			rec := &fakeRecorder{}

			New(w, rec, nil).CancelOnMovement()

			if tt.wantClear {
				assert.Equal(t, 1, w.Cleared)
				require.Len(t, rec.interventions, 1)
				assert.Equal(t, core.InterventionMovementCancel, rec.interventions[0].Kind)
			} else {
				assert.Zero(t, w.Cleared)
				assert.Empty(t, rec.interventions)
			}
			assert.Zero(t, w.ClearedImmediately)
		})
	}
}

func TestCancelOnMovement_RecordsVehicleBeforeClear(t *testing.T) {
	w := nativestest.New()
	w.ClearResetsEntry = true
	w.ActiveTasks[natives.TaskEnterVehicle] = true
	w.JustPressed[natives.ControlMoveUpOnly] = true
	w.TryingToEnter = 7
	rec := &fakeRecorder{}

	New(w, rec, nil).CancelOnMovement()

	require.Len(t, rec.interventions, 1)
	assert.Equal(t, natives.EntityID(7), rec.interventions[0].Vehicle)
	assert.Zero(t, w.TryingToEnter, "clear drops the pending entry")
}

func TestSuppressWindowBreaking(t *testing.T) {
	tests := []struct {
		name      string
		trying    natives.EntityID
		valid     bool
		lock      natives.LockState
		lockedTry bool
		wantClear bool
	}{
		{"unlocked and flagged", 5, true, natives.LockStateUnlocked, true, true},
		{"unlocked not flagged", 5, true, natives.LockStateUnlocked, false, false},
		{"locked and flagged", 5, true, natives.LockStateLocked, true, false},
		{"other lock state flagged", 5, true, natives.LockStateNone, true, false},
		{"invalid vehicle", 5, false, natives.LockStateUnlocked, true, false},
		{"not entering", 0, true, natives.LockStateUnlocked, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := nativestest.New()
			w.AddVehicle(5, &nativestest.Vehicle{Valid: tt.valid, Lock: tt.lock})
			w.TryingToEnter = tt.trying
			w.TryingLocked = tt.lockedTry
			rec := &fakeRecorder{}

			New(w, rec, nil).SuppressWindowBreaking()

			if tt.wantClear {
				assert.Equal(t, 1, w.ClearedImmediately)
				require.Len(t, rec.interventions, 1)
				assert.Equal(t, core.InterventionWindowBreak, rec.interventions[0].Kind)
				assert.Equal(t, natives.EntityID(5), rec.interventions[0].Vehicle)
				assert.Equal(t, natives.LockStateUnlocked, rec.interventions[0].LockState)
			} else {
				assert.Zero(t, w.ClearedImmediately)
				assert.Empty(t, rec.interventions)
			}
			assert.Zero(t, w.Cleared)
		})
	}
}

func TestTick_RunsAllChecks(t *testing.T) {
	w := nativestest.New()
	w.AddVehicle(5, &nativestest.Vehicle{Valid: true, Lock: natives.LockStateUnlocked})
	w.ActiveTasks[natives.TaskEnterVehicle] = true
	w.JustPressed[natives.ControlMoveLeftOnly] = true
	w.TryingToEnter = 5
	w.TryingLocked = true

	New(w, nil, nil).Tick()

	assert.Equal(t, []natives.Control{natives.ControlEnter}, w.Disabled)
	assert.Equal(t, 1, w.Cleared)
	assert.Equal(t, 1, w.ClearedImmediately)
}

func TestTick_Stateless(t *testing.T) {
	w := nativestest.New()
	g := New(w, nil, nil)

	w.ActiveTasks[natives.TaskEnterVehicle] = true
	w.JustPressed[natives.ControlMoveUpOnly] = true
	g.Tick()
	require.Equal(t, 1, w.Cleared)

	w.JustPressed = map[natives.Control]bool{}
	g.Tick()
	assert.Equal(t, 1, w.Cleared, "no press on the next tick, no clear")
}
