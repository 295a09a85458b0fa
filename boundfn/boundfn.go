// Package boundfn implements the closed family of monotone, time-bounded
// shape functions used to spread a scheduled SubstanceChange over a
// duration. Grounded on original_source/mortalsim-core/src/math.rs.
package boundfn

import "math"

// Kind tags which shape function to apply. It is a closed set — Linear and
// Sigmoid are the only members, matching the Rust BoundFn enum.
type Kind int

const (
	// Linear ramps the contribution proportionally to elapsed time, then
	// holds flat at the full amount once duration has elapsed.
	Linear Kind = iota
	// Sigmoid ramps the contribution along a logistic curve scaled so it
	// reads ~0 at t=0, ~a/2 at t=d/2, and ~a at t=d.
	Sigmoid
)

// String renders the Kind for logging/diagnostics.
func (k Kind) String() string {
	switch k {
	case Linear:
		return "Linear"
	case Sigmoid:
		return "Sigmoid"
	default:
		return "Unknown"
	}
}

// Call evaluates the shape function for elapsed time t, duration d, and
// amplitude a. Both shapes are pure and side-effect-free, and are monotone
// non-decreasing when a >= 0, non-increasing when a <= 0.
func (k Kind) Call(t, d, a float64) float64 {
	switch k {
	case Sigmoid:
		return sigmoid(t, d, a)
	default:
		return linear(t, d, a)
	}
}

// linear returns a*t/d for 0 <= t < d, else a.
func linear(t, d, a float64) float64 {
	if t < d {
		return a * t / d
	}
	return a
}

// sigmoid returns a logistic curve bounded so it reads ~0 at t=0 and ~a at
// t=d, using Euler's number e as the original does (4e/d scaling, 2e
// offset).
func sigmoid(t, d, a float64) float64 {
	const e = math.E
	return a / (1.0 + math.Exp(-((4.0*e/d)*t-2.0*e)))
}
