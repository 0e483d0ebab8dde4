package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/input"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/web"
)

const (
	viaDBus = "dbus"
	viaWeb  = "web"
)

var sendOpts struct {
	typ        string
	title      string
	position   string
	duration   string
	persistent bool
	stdin      bool
	via        string
	addr       string
	appName    string
	replaces   uint32
}

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Show a toast through a running toastd or toastui serve",
	Long: `Send a toast to a running surface.

By default the toast goes to toastd over the session bus. Use --via web to
send it to "toastui serve" instead.

With --stdin, toasts are read from standard input: a JSON array, one JSON
object per line or one plain message per line. Flags fill in fields a
request leaves empty.

Examples:
  toastui send "Saved"
  toastui send --type error --title "Build" "3 tests failed"
  toastui send --persistent --position bottom-center "Update ready"
  echo '{"message":"Deployed","type":"success"}' | toastui send --stdin --via web`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.typ, "type", "t", "",
		"Toast type (info, success, error, warning)")
	sendCmd.Flags().StringVar(&sendOpts.title, "title", "",
		"Title (default: localized title for the type)")
	sendCmd.Flags().StringVarP(&sendOpts.position, "position", "p", "",
		"Position (top-right, top-left, bottom-right, bottom-left, top-center, bottom-center)")
	sendCmd.Flags().StringVarP(&sendOpts.duration, "duration", "d", "",
		"Auto-dismiss delay in milliseconds or as a Go duration (e.g. 2500, 10s)")
	sendCmd.Flags().BoolVar(&sendOpts.persistent, "persistent", false,
		"Keep the toast until it is closed")
	sendCmd.Flags().BoolVar(&sendOpts.stdin, "stdin", false,
		"Read toast requests from standard input")
	sendCmd.Flags().StringVar(&sendOpts.via, "via", viaDBus,
		"Transport (dbus, web)")
	sendCmd.Flags().StringVar(&sendOpts.addr, "addr", "",
		"Web server address for --via web (default: server.addr from config)")
	sendCmd.Flags().StringVar(&sendOpts.appName, "app-name", "toastui",
		"Application name sent over D-Bus")
	sendCmd.Flags().Uint32Var(&sendOpts.replaces, "replaces", 0,
		"D-Bus notification ID to replace")
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	defaults, err := sendDefaults()
	if err != nil {
		return err
	}

	var requests []input.Request
	switch {
	case sendOpts.stdin:
		requests, err = input.NewStdinReader().Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read toasts: %w", err)
		}
		for i := range requests {
			requests[i] = mergeRequest(requests[i], defaults)
		}
	case len(args) == 1:
		defaults.Message = args[0]
		requests = []input.Request{defaults}
	default:
		return errors.New("a message or --stdin is required")
	}

	for _, r := range requests {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	switch strings.ToLower(sendOpts.via) {
	case viaDBus:
		return sendDBus(ctx, cmd, requests)
	case viaWeb:
		return sendWeb(ctx, cmd, requests)
	default:
		return fmt.Errorf("unknown transport %q (use %s or %s)", sendOpts.via, viaDBus, viaWeb)
	}
}

// sendDefaults builds a request from the flags.
func sendDefaults() (input.Request, error) {
	r := input.Request{
		Title:      sendOpts.title,
		Type:       toast.Type(strings.ToLower(sendOpts.typ)),
		Position:   toast.Position(strings.ToLower(sendOpts.position)),
		Persistent: sendOpts.persistent,
	}
	if sendOpts.duration != "" {
		var d config.Duration
		if err := d.UnmarshalText([]byte(sendOpts.duration)); err != nil {
			return r, fmt.Errorf("invalid --duration: %w", err)
		}
		r.Duration = &d
	}
	return r, nil
}

// mergeRequest fills fields r leaves empty from defaults.
func mergeRequest(r, defaults input.Request) input.Request {
	if r.Title == "" {
		r.Title = defaults.Title
	}
	if r.Type == "" {
		r.Type = defaults.Type
	}
	if r.Position == "" {
		r.Position = defaults.Position
	}
	if r.Duration == nil && !r.Persistent {
		r.Duration = defaults.Duration
		r.Persistent = defaults.Persistent
	}
	return r
}

func sendDBus(ctx context.Context, cmd *cobra.Command, requests []input.Request) error {
	client, err := dbus.NewClient()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer func() { _ = client.Close() }()

	for _, r := range requests {
		id, err := client.Send(ctx, dbus.SendRequest{
			AppName:    sendOpts.appName,
			Title:      r.Title,
			Message:    r.Message,
			Type:       r.Type,
			Position:   r.Position,
			Duration:   r.Timeout(),
			ReplacesID: sendOpts.replaces,
		})
		if err != nil {
			return fmt.Errorf("failed to send toast: %w", err)
		}
		logger.Debug("sent toast over D-Bus", "id", id)
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func sendWeb(ctx context.Context, cmd *cobra.Command, requests []input.Request) error {
	client := web.NewClient(serverAddr(sendOpts.addr))

	for _, r := range requests {
		snap, err := client.Show(ctx, web.ShowRequest{
			Message:    r.Message,
			Type:       r.Type,
			Title:      r.Title,
			Position:   r.Position,
			Duration:   r.Duration,
			Persistent: r.Persistent,
		})
		if err != nil {
			return fmt.Errorf("failed to send toast: %w", err)
		}
		logger.Debug("sent toast over HTTP", "id", snap.ID)
		fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
	}
	return nil
}

// serverAddr returns addr, or the configured server address when empty.
func serverAddr(addr string) string {
	if addr != "" {
		return addr
	}
	return cfg.Server.Addr
}
