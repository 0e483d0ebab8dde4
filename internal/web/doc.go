// Package web serves toasts to a browser.
//
// A Server owns a toast.Loop, an in-memory dom.Document and the toast.Manager
// rendering into it. Every manager call from an HTTP handler is funnelled
// through Loop.Do so the manager stays single-threaded. Lifecycle events are
// pushed to browsers over a WebSocket together with the toast's current
// markup, and the theme stylesheet is hot reloaded the same way.
//
// Routes:
//
//	GET    /                        page with the live document
//	GET    /toast.css               active web theme
//	GET    /api/toasts              snapshots of every attached toast
//	POST   /api/toasts              show a toast
//	GET    /api/toasts/{id}         snapshot of one toast
//	DELETE /api/toasts/{id}         remove a toast
//	POST   /api/toasts/{id}/pause   suspend the dismiss timer
//	POST   /api/toasts/{id}/resume  restart the dismiss timer
//	POST   /api/toasts/{id}/enter   pointer entered the toast
//	POST   /api/toasts/{id}/leave   pointer left the toast
//	POST   /api/toasts/{id}/close   close button pressed
//	GET    /api/history             removed toasts (WithHistory)
//	GET    /api/history/{id}        one removed toast
//	DELETE /api/history             clear or prune (?older_than=7d) the history
//	GET    /ws                      lifecycle event stream
//	GET    /metrics                 Prometheus metrics
package web
