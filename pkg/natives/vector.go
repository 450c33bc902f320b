package natives

import (
	"math"
	"strings"
)

// Vector3 is a world-space coordinate or direction.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v*f.
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vector3) DistanceTo(o Vector3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ToRadians converts a rotation in degrees to radians component-wise.
func (v Vector3) ToRadians() Vector3 {
	return v.Scale(math.Pi / 180)
}

// Joaat returns the host's model hash of name (Jenkins one-at-a-time over the lower-cased bytes).
func Joaat(name string) ModelHash {
	var h uint32
	for _, c := range []byte(strings.ToLower(name)) {
		h += uint32(c)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return ModelHash(h)
}
