// Package script binds the vehicle-entry components to host input: key
// presses start entries and every frame runs the tick guard.
package script

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/dispatcher"
	"github.com/seatwise/extension/internal/entry"
	"github.com/seatwise/extension/internal/seatdata"
	"github.com/seatwise/extension/internal/seats"
	"github.com/seatwise/extension/internal/targeting"
	"github.com/seatwise/extension/internal/tickguard"
	"github.com/seatwise/extension/internal/util"
	"github.com/seatwise/extension/pkg/natives"
)

// Host commands handled by the script.
const (
	CommandKeyDown = ":KEYDOWN:"
	CommandTick    = ":TICK:"
)

// Recorder receives entry attempts and guard interventions.
type Recorder interface {
	entry.Recorder
	tickguard.Recorder
}

// Dependencies holds all dependencies for the Script
type Dependencies struct {
	Natives  natives.Natives
	Recorder Recorder // optional
	Logger   *slog.Logger
}

// components is one immutable build of the script for a Settings value.
type components struct {
	keys  config.KeyConfig
	entry *entry.Dispatcher
	guard *tickguard.Guard
}

// Script routes host input to the entry dispatcher and tick guard. Settings
// can be swapped at runtime with Apply.
type Script struct {
	deps    Dependencies
	log     *slog.Logger
	current atomic.Pointer[components]
}

// New creates a Script for the given settings. It fails if the seat profile
// cannot be loaded.
func New(deps Dependencies, settings config.Settings) (*Script, error) {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Script{deps: deps, log: log}
	if err := s.Apply(settings); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply rebuilds the components from settings and swaps them in. On error
// the previous components stay active.
func (s *Script) Apply(settings config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	profile, err := seatdata.Load(settings.SeatProfile)
	if err != nil {
		return fmt.Errorf("failed to load seat profile: %w", err)
	}

	n := s.deps.Natives
	var entryRec entry.Recorder
	var guardRec tickguard.Recorder
	if s.deps.Recorder != nil {
		entryRec, guardRec = s.deps.Recorder, s.deps.Recorder
	}

	c := &components{
		keys: settings.Keys,
		entry: entry.NewDispatcher(entry.Dependencies{
			Natives:  n,
			Resolver: targeting.NewResolver(n, settings.Targeting),
			Selector: seats.NewSelector(n, profile),
			Recorder: entryRec,
			Logger:   s.log.With("component", "entry"),
		}, settings.Entry),
		guard: tickguard.New(n, guardRec, s.log.With("component", "tickguard")),
	}
	s.current.Store(c)
	s.log.Info("script settings applied",
		"driverKey", settings.Keys.Driver,
		"passengerKey", settings.Keys.Passenger,
		"raycast", settings.Targeting.UseRaycast,
		"seatProfile", settings.SeatProfile,
	)
	return nil
}

// OnKeyDown handles a key press. Keys are ignored unless the local player is
// valid, game controls are enabled and the player is on foot.
func (s *Script) OnKeyDown(key natives.Key) {
	n := s.deps.Natives
	if !n.IsLocalPlayerValid() || !n.GameControlsEnabled() || n.LocalPlayerVehicle() != 0 {
		return
	}

	c := s.current.Load()
	switch key {
	case c.keys.Driver:
		c.entry.EnterAsDriver()
	case c.keys.Passenger:
		c.entry.EnterAsPassenger(n.IsKeyDown(c.keys.PassengerMode))
	}
}

// OnTick runs the tick guard for one frame.
func (s *Script) OnTick() {
	s.current.Load().guard.Tick()
}

// Register adds the :KEYDOWN: and :TICK: handlers to d.
func (s *Script) Register(d *dispatcher.Dispatcher) {
	d.Register(CommandKeyDown, func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", CommandKeyDown, len(e.Args))
		}
		key, err := util.ParseIntArg(e.Args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", CommandKeyDown, err)
		}
		s.OnKeyDown(natives.Key(key))
		return nil, nil
	}, dispatcher.Logged())

	d.Register(CommandTick, func(dispatcher.Event) (any, error) {
		s.OnTick()
		return nil, nil
	}, dispatcher.Timed())
}
