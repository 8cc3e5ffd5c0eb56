// Package screen is the terminal toolkit popups are drawn with.
//
// A Screen is the root surface: it holds z-ordered layers (overlays, scroll
// wrappers and popup bodies) and composites them over a background string
// the host renders. Layers are spliced into background lines cell by cell,
// so anything not covered by a layer shows through.
//
// Toolkit implements popup.Toolkit on top of a Screen and an animator.
package screen
