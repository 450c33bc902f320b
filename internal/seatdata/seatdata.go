// Package seatdata holds the model-specific seat tables used by seat selection:
// the ordered seat-bone names, the grab-seat set and the animatable-seat thresholds.
package seatdata

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seatwise/extension/pkg/natives"
)

//go:embed default.yaml
var defaultProfile []byte

// Profile is the seat table set for one host-game build.
type Profile struct {
	SeatBones               []string       `yaml:"seatBones"`
	GrabSeats               []int          `yaml:"grabSeats"`
	DefaultAnimatableSeats  int            `yaml:"defaultAnimatableSeats"`
	AnimatableSeatOverrides map[string]int `yaml:"animatableSeatOverrides"`

	grab      map[natives.Seat]struct{}
	overrides map[natives.ModelHash]int
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("seatdata: embedded profile: %v", err))
	}
	return p
}

// Load reads a profile from a YAML file. An empty path returns Default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seat profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding seat profile: %w", err)
	}
	if len(p.SeatBones) == 0 {
		return nil, fmt.Errorf("seat profile has no seatBones")
	}
	if p.DefaultAnimatableSeats < 0 {
		return nil, fmt.Errorf("defaultAnimatableSeats must not be negative, got %d", p.DefaultAnimatableSeats)
	}

	p.grab = make(map[natives.Seat]struct{}, len(p.GrabSeats))
	for _, s := range p.GrabSeats {
		p.grab[natives.Seat(s)] = struct{}{}
	}
	p.overrides = make(map[natives.ModelHash]int, len(p.AnimatableSeatOverrides))
	for model, n := range p.AnimatableSeatOverrides {
		p.overrides[natives.Joaat(model)] = n
	}
	return &p, nil
}

// IsGrabSeat reports whether seat requires the passenger-mode modifier.
func (p *Profile) IsGrabSeat(seat natives.Seat) bool {
	_, ok := p.grab[seat]
	return ok
}

// AnimatableSeats returns the number of leading seats that use the standard
// entry animation for model.
func (p *Profile) AnimatableSeats(model natives.ModelHash) int {
	if n, ok := p.overrides[model]; ok {
		return n
	}
	return p.DefaultAnimatableSeats
}
