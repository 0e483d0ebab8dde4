// Package theme resolves and hot-reloads the CSS used to style toasts.
//
// Themes exist per surface: the web surface styles the markup produced by the
// dom package and is served by toastui serve, the gtk surface styles the
// layer-shell windows of toastd. Each surface has bundled themes and can be
// overridden from ~/.config/toastui/themes/<surface>/<name>.css.
package theme
