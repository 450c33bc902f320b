// Package entry issues enter-vehicle commands for the local player.
package entry

import (
	"log/slog"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/seats"
	"github.com/seatwise/extension/internal/targeting"
	"github.com/seatwise/extension/pkg/core"
	"github.com/seatwise/extension/pkg/natives"
)

// Recorder receives every enter-vehicle command the Dispatcher issues.
type Recorder interface {
	RecordEntryAttempt(a *core.EntryAttempt)
}

// Dependencies holds all dependencies for the entry Dispatcher
type Dependencies struct {
	Natives  natives.Natives
	Resolver *targeting.Resolver
	Selector *seats.Selector
	Recorder Recorder // optional
	Logger   *slog.Logger
}

// Dispatcher starts driver and passenger entries. Unmet preconditions make
// every call a silent no-op; host task failures are not observed.
type Dispatcher struct {
	deps Dependencies
	cfg  config.EntryConfig
	log  *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(deps Dependencies, cfg config.EntryConfig) *Dispatcher {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{deps: deps, cfg: cfg, log: log}
}

// canEnter checks the shared preconditions of both entry paths.
func (d *Dispatcher) canEnter() bool {
	n := d.deps.Natives
	switch {
	case n.IsCursorVisible():
		d.log.Debug("entry skipped", "reason", "cursor visible")
		return false
	case n.LocalPlayerVehicle() != 0:
		d.log.Debug("entry skipped", "reason", "already in vehicle")
		return false
	case n.IsTaskActive(n.LocalPlayer(), natives.TaskEnterVehicle):
		d.log.Debug("entry skipped", "reason", "already entering")
		return false
	}
	return true
}

// EnterAsDriver sends the player to the driver seat of the targeted vehicle.
func (d *Dispatcher) EnterAsDriver() {
	if !d.canEnter() {
		return
	}
	n := d.deps.Natives

	target, ok := d.deps.Resolver.ResolveTargetVehicle()
	if !ok {
		d.log.Debug("entry skipped", "reason", "no vehicle")
		return
	}
	if !n.IsVehicleSeatFree(target.Vehicle, natives.SeatDriver, false) {
		d.log.Debug("entry skipped", "reason", "driver seat taken", "vehicle", target.Vehicle)
		return
	}

	d.enter(core.EntryModeDriver, target, natives.SeatDriver, natives.EntryFlagStandard, false)
}

// EnterAsPassenger sends the player to the best passenger seat of the targeted
// vehicle. Grab seats are considered only when wantGrabSeats is set.
func (d *Dispatcher) EnterAsPassenger(wantGrabSeats bool) {
	if !d.canEnter() {
		return
	}

	target, ok := d.deps.Resolver.ResolveTargetVehicle()
	if !ok {
		d.log.Debug("entry skipped", "reason", "no vehicle")
		return
	}

	seat, ok := d.deps.Selector.SelectBestSeat(target.Vehicle, wantGrabSeats)
	if !ok {
		d.log.Debug("entry skipped", "reason", "no free seat", "vehicle", target.Vehicle)
		return
	}

	flag := d.deps.Selector.EntryFlag(d.deps.Natives.VehicleModel(target.Vehicle), seat)
	d.enter(core.EntryModePassenger, target, seat, flag, wantGrabSeats)
}

func (d *Dispatcher) enter(mode core.EntryMode, target targeting.Target, seat natives.Seat, flag natives.EntryFlag, grab bool) {
	n := d.deps.Natives
	player := n.LocalPlayer()

	n.TaskEnterVehicle(player, target.Vehicle, int(d.cfg.Timeout.Milliseconds()), seat, d.cfg.Speed, flag)
	d.log.Debug("entry dispatched", "mode", mode, "vehicle", target.Vehicle, "seat", seat, "flag", flag, "source", target.Source)

	if d.deps.Recorder == nil {
		return
	}
	d.deps.Recorder.RecordEntryAttempt(&core.EntryAttempt{
		Mode:           mode,
		Vehicle:        target.Vehicle,
		Model:          n.VehicleModel(target.Vehicle),
		Seat:           seat,
		Flag:           flag,
		TargetSource:   string(target.Source),
		PlayerPosition: n.LocalPlayerPosition(),
		GrabSeats:      grab,
	})
}
