// Package geom provides the small set of rectangle and point types popups are
// placed with, along with the auto-placement formula.
package geom
