// Package display renders toasts as GTK4/libadwaita layer-shell windows.
// Each screen position gets one window holding a vertical stack of toasts.
// Everything in this package must run on the GTK main thread.
package display
