// Package simtime defines the scalar time representation shared across the
// kernel, per spec.md §3.
package simtime

// SimTime is a point in simulated time, in seconds, double precision.
type SimTime = float64

// SimTimeSpan is a duration in simulated time, same unit as SimTime;
// arithmetic between the two is ordinary real arithmetic.
type SimTimeSpan = float64
