package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/store"
	"github.com/jmylchreest/toastui/internal/web"
)

var serveOpts struct {
	addr      string
	themesDir string
	noWatch   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve toasts to browsers over HTTP",
	Long: `Serve the browser surface: a page that renders toasts, a JSON API to
show and remove them and a WebSocket that streams lifecycle events.

Routes:
  GET    /                       Toast page
  GET    /toast.css              Active theme stylesheet
  GET    /ws                     Lifecycle event stream
  GET    /metrics                Prometheus metrics (server.metrics)
  GET    /api/toasts             List live toasts
  POST   /api/toasts             Show a toast
  GET    /api/toasts/{id}        Get one toast
  DELETE /api/toasts/{id}        Remove a toast
  POST   /api/toasts/{id}/pause  Pause the dismiss timer
  POST   /api/toasts/{id}/resume Resume the dismiss timer
  GET    /api/history            Removed toasts (history.enabled)
  DELETE /api/history            Clear or prune the history

The config file is watched and applied while the server runs.

Examples:
  toastui serve
  toastui serve --addr 0.0.0.0:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "",
		"Listen address (default: server.addr from config)")
	serveCmd.Flags().StringVar(&serveOpts.themesDir, "themes-dir", "",
		"Directory with user themes (default: $XDG_CONFIG_HOME/toastui/themes/web)")
	serveCmd.Flags().BoolVar(&serveOpts.noWatch, "no-watch", false,
		"Do not reload the config file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveOpts.addr != "" {
		addr = serveOpts.addr
	}

	opts := []web.Option{web.WithLogger(logger)}
	if serveOpts.themesDir != "" {
		opts = append(opts, web.WithThemesDir(serveOpts.themesDir))
	}
	if cfg.History.Enabled {
		history, err := openHistory()
		if err != nil {
			logger.Warn("toast history disabled", "error", err)
		} else {
			defer func() { _ = history.Close() }()
			opts = append(opts, web.WithHistory(history))
		}
	}
	srv := web.New(cfg, opts...)

	notifier := daemon.NewInternalNotifier(logger)
	notifier.SetNotifyHandler(daemon.ManagerHandler(srv.Manager(), srv.Post))

	if !serveOpts.noWatch {
		current := cfg
		watcher := daemon.NewConfigWatcher(configPath(), logger)
		watcher.SetReloadCallback(func(next *config.Config) {
			themeChanged := next.Theme.Name != current.Theme.Name
			srv.UpdateConfig(next)
			current = next
			notifier.NotifyConfigReloaded()
			if themeChanged {
				notifier.NotifyThemeReloaded(next.Theme.Name)
			}
		})
		watcher.SetErrorCallback(notifier.NotifyConfigError)
		if err := watcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	notifier.NotifyStartup(version)
	fmt.Fprintf(cmd.ErrOrStderr(), "toastui serving on http://%s\n", addr)

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// openHistory opens and loads the history file named by the config.
func openHistory() (*store.Store, error) {
	path := cfg.HistoryFile()
	if path == "" {
		var err error
		if path, err = store.HistoryPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve history path: %w", err)
		}
	}

	p, err := store.NewJSONLPersistence(path)
	if err != nil {
		return nil, err
	}

	history := store.NewStore(p,
		store.WithLimit(cfg.History.MaxEntries),
		store.WithLogger(logger),
	)
	if err := history.Hydrate(); err != nil {
		_ = history.Close()
		return nil, fmt.Errorf("failed to load history %s: %w", path, err)
	}
	logger.Debug("loaded toast history", "path", path, "records", history.Count())
	return history, nil
}
