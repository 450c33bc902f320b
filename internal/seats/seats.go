// Package seats picks the passenger seat a player should enter.
package seats

import (
	"math"

	"github.com/seatwise/extension/internal/seatdata"
	"github.com/seatwise/extension/pkg/natives"
)

// Selector chooses the closest eligible seat of a vehicle.
type Selector struct {
	n       natives.Natives
	profile *seatdata.Profile
}

// NewSelector creates a Selector using the given seat tables.
func NewSelector(n natives.Natives, profile *seatdata.Profile) *Selector {
	return &Selector{n: n, profile: profile}
}

// SelectBestSeat returns the free seat of vehicle closest to the player.
// Grab seats are only eligible when wantGrabSeats is set. ok is false when
// no passenger seat can be offered.
func (s *Selector) SelectBestSeat(vehicle natives.EntityID, wantGrabSeats bool) (seat natives.Seat, ok bool) {
	model := s.n.VehicleModel(vehicle)
	if s.n.IsThisModelABicycle(model) {
		return 0, false
	}
	if s.n.IsThisModelABike(model) {
		if s.n.IsVehicleSeatFree(vehicle, natives.SeatFrontPassenger, false) {
			return natives.SeatFrontPassenger, true
		}
		return 0, false
	}

	player := s.n.LocalPlayerPosition()
	best := math.MaxFloat64
	for i, pos := range s.seatPositions(vehicle) {
		candidate := natives.Seat(i)
		if !s.n.IsVehicleSeatFree(vehicle, candidate, true) {
			continue
		}
		if s.profile.IsGrabSeat(candidate) && !wantGrabSeats {
			continue
		}
		// strict: the first enumerated seat keeps a tie
		if d := player.DistanceTo(pos); d < best {
			best = d
			seat, ok = candidate, true
		}
	}
	return seat, ok
}

// seatPositions returns the world positions of the seat bones the vehicle
// exposes, in table order. Index in the result is the seat index.
func (s *Selector) seatPositions(vehicle natives.EntityID) []natives.Vector3 {
	positions := make([]natives.Vector3, 0, len(s.profile.SeatBones))
	for _, name := range s.profile.SeatBones {
		bone := s.n.EntityBoneIndexByName(vehicle, name)
		if bone == -1 {
			continue
		}
		positions = append(positions, s.n.WorldPositionOfEntityBone(vehicle, bone))
	}
	return positions
}

// EntryFlag returns the entry flag set for entering seat of a vehicle of model.
// Seats past the model's animatable range use the alternate flag set.
func (s *Selector) EntryFlag(model natives.ModelHash, seat natives.Seat) natives.EntryFlag {
	if int(seat) < s.profile.AnimatableSeats(model) {
		return natives.EntryFlagStandard
	}
	return natives.EntryFlagAlternate
}
