// Package toast implements transient notifications with auto-dismiss timers,
// pause-on-hover, proportional progress bars and stacked positioning.
//
// A Manager owns one container per screen position and drives each toast
// through an explicit state machine (Entering, Active, Paused, Removing,
// Removed). Time comes from a Scheduler and every display side effect goes
// through a Renderer, so the lifecycle runs the same against a terminal, a
// web page, a GTK surface or a test double.
//
// A Manager is not safe for concurrent use. All calls, and all callbacks fired
// by its Scheduler, must happen on a single goroutine. Loop provides such a
// goroutine for real-time use; ManualClock provides deterministic time.
package toast
