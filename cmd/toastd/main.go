// Package main is the entry point for the toastd notification daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/display"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	appID   = "io.github.jmylchreest.toastd"
	appName = "toastd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/toastui/config.toml)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("toastd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}

	os.Exit(run(path, logger))
}

// run starts the GTK application and blocks until it exits.
func run(configPath string, logger *slog.Logger) int {
	logger.Info("starting toastd", "version", version)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		return 1
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		dbusServer       *dbus.NotificationServer
		renderer         *display.Renderer
		manager          *toast.Manager
		themeLoader      *display.ThemeLoader
		audioManager     *audio.Manager
		configWatcher    *daemon.ConfigWatcher
		internalNotifier *daemon.InternalNotifier
		running          atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := func() {
		if !running.Swap(false) {
			return
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if renderer != nil {
			renderer.Close()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			stop()
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = display.NewThemeLoader(logger)
		themeLoader.LoadTheme(cfg.Theme.Name)
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		var err error
		renderer, err = display.NewRenderer(&app.Application, cfg, logger)
		if err != nil {
			logger.Error("failed to start display", "error", err)
			app.Quit()
			return
		}
		sched := renderer.Scheduler()

		manager = toast.NewManager(renderer, sched,
			toast.WithLogger(logger),
			toast.WithSettings(cfg.ToastSettings()),
		)

		internalNotifier = daemon.NewInternalNotifier(logger)
		internalNotifier.SetNotifyHandler(daemon.ManagerHandler(manager, sched.Post))

		audioManager = audio.NewManager(cfg, logger)
		audioManager.SetErrorCallback(internalNotifier.NotifyAudioError)
		if err := audioManager.Start(); err != nil {
			logger.Warn("failed to start audio manager", "error", err)
		}
		manager.Subscribe(audioManager.Observe)

		dbusServer = dbus.NewNotificationServer(logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{
			Name:        appName,
			Vendor:      "toastui",
			Version:     version,
			SpecVersion: "1.2",
		})
		bridge := dbus.NewBridge(dbusServer, manager, sched.Post, logger)
		manager.Subscribe(bridge.Observe)

		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			renderer.Close()
			app.Quit()
			return
		}

		configWatcher = daemon.NewConfigWatcher(configPath, logger)
		configWatcher.SetReloadCallback(func(newConfig *config.Config) {
			glib.IdleAdd(func() {
				applyConfig(ctx, cfg, newConfig, manager, renderer, audioManager, themeLoader, internalNotifier)
				cfg = newConfig
				internalNotifier.NotifyConfigReloaded()
			})
		})
		configWatcher.SetErrorCallback(internalNotifier.NotifyConfigError)
		if err := configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		logger.Info("toastd ready", "dbus_interface", dbus.DBusInterface)
		internalNotifier.NotifyStartup(version)

		// GTK apps quit when all windows are closed, and toast windows come
		// and go. A hidden window keeps the application running.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
	})

	status := app.Run(os.Args[:1])
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("toastd stopped")
	return 0
}

// applyConfig pushes a reloaded config into the running components.
// It runs on the GTK main loop.
func applyConfig(
	ctx context.Context,
	old, next *config.Config,
	manager *toast.Manager,
	renderer *display.Renderer,
	audioManager *audio.Manager,
	themeLoader *display.ThemeLoader,
	notifier *daemon.InternalNotifier,
) {
	manager.SetSettings(next.ToastSettings())
	renderer.UpdateConfig(next)
	audioManager.UpdateConfig(next)

	if next.Theme.Name != old.Theme.Name {
		themeLoader.LoadTheme(next.Theme.Name)
		themeLoader.StartHotReload(ctx)
		notifier.NotifyThemeReloaded(themeLoader.CurrentTheme())
	}
}
