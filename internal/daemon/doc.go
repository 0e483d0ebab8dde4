// Package daemon provides supporting services for the toast surfaces:
// configuration hot-reload and rate-limited internal notices.
package daemon
