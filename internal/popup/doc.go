// Package popup implements the popup lifecycle and the queue that sequences
// popups one at a time.
//
// A Controller owns one popup: its visibility state machine, its optional
// dimming overlay and scroll wrapper, and its notification channels. A Queue
// is shared by the controllers of one application session; it keeps pending
// show requests in FIFO order and promotes the next request whenever the
// current popup finishes hiding.
//
// Rendering, animation and input delivery belong to the host and are reached
// through the Surface, Toolkit and anim.Animator interfaces. Everything in
// this package runs on the host's single update goroutine.
package popup
