package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Vec3 represents a 3D vector or point in cartesian space.
// Public fields because they are fundamental data, not internal state;
// this allows clean literal initialization: v := Vec3{1, 2, 3}
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// String implements the fmt.Stringer interface.
func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers returning new values: immutable and cheap for small structs.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts the other vector from the current vector.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul scales the vector by a scalar value.
func (v Vec3) Mul(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// ElemMul multiplies two vectors element by element (Hadamard product).
func (v Vec3) ElemMul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Dot calculates the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Faster than Len() as it avoids the square root. Use for comparisons.
func (v Vec3) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len calculates the magnitude (length) of the vector.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSqr())
}

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Clamp limits the vector magnitude to maxLen, preserving direction.
// A vector already within the limit is returned unchanged; a zero vector
// stays zero (no division by zero).
func (v Vec3) Clamp(maxLen float64) Vec3 {
	l := v.Len()
	if l <= maxLen || l < Epsilon {
		return v
	}
	return v.Mul(maxLen / l)
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vec3) DistanceSquaredTo(other Vec3) float64 {
	return v.Sub(other).LenSqr()
}

// Wrap applies a periodic (toroidal) boundary to each axis independently.
// A component beyond +boundary re-enters from the negative face offset by the
// modulus remainder, and symmetrically for -boundary. This is a true wrap,
// not a clamp or a bounce: Wrap is the identity for components already inside
// [-boundary, boundary].
func (v Vec3) Wrap(boundary float64) Vec3 {
	return Vec3{
		X: wrapAxis(v.X, boundary),
		Y: wrapAxis(v.Y, boundary),
		Z: wrapAxis(v.Z, boundary),
	}
}

func wrapAxis(x, boundary float64) float64 {
	switch {
	case x > boundary:
		return math.Mod(x, boundary) - boundary
	case x < -boundary:
		return boundary - math.Mod(-x, boundary)
	default:
		return x
	}
}

// InBounds reports whether every component lies within [-boundary, boundary].
func (v Vec3) InBounds(boundary float64) bool {
	return math.Abs(v.X) <= boundary && math.Abs(v.Y) <= boundary && math.Abs(v.Z) <= boundary
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
// This handles floating point inaccuracies.
func (v Vec3) Eq(other Vec3) bool {
	return math.Abs(v.X-other.X) <= Epsilon &&
		math.Abs(v.Y-other.Y) <= Epsilon &&
		math.Abs(v.Z-other.Z) <= Epsilon
}
