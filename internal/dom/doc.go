// Package dom is an in-memory element tree that implements toast.Renderer.
//
// It keeps the markup contract of the browser widget (container and toast
// class names, accessibility attributes, progress bar styles) so the same
// document can be served as HTML by the web surface or sampled by the
// terminal playground. Animation end events are emulated through a
// toast.Scheduler when one is configured; otherwise callers dispatch them.
//
// A Document is not safe for concurrent use. Drive it from the goroutine
// that owns the toast manager.
package dom
