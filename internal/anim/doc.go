// Package anim drives popup transitions. Effects are sets of keyframed tracks
// that write interpolated values through setter funcs. The Engine advances
// running effects on Bubble Tea frame ticks and reports completion through a
// callback, so every transition finishes on the update goroutine.
package anim
