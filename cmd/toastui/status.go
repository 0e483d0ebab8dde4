package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/web"
)

var statusOpts struct {
	addr string
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the toasts on a running "toastui serve" in Waybar's custom
module JSON format.

  "custom/toasts": {
    "exec": "toastui status",
    "interval": 2,
    "return-type": "json",
    "on-click": "toastui remove --all"
  }

The output includes:
  - text: Number of live toasts
  - alt/class: Most severe type on screen (error, warning, success, info),
    "empty" when there are none and "error" when the server is unreachable
  - tooltip: Breakdown by type`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusOpts.addr, "addr", "",
		"Web server address (default: server.addr from config)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	toasts, err := web.NewClient(serverAddr(statusOpts.addr)).List(ctx)
	if err != nil {
		logger.Debug("failed to fetch toasts", "error", err)
		return outputStatus(WaybarStatus{Text: "", Alt: "error", Class: "error", Tooltip: "toastui serve unreachable"})
	}
	return outputStatus(generateStatus(toasts))
}

// severity lists types from most to least severe.
var severity = []toast.Type{toast.TypeError, toast.TypeWarning, toast.TypeSuccess, toast.TypeInfo}

// generateStatus creates a WaybarStatus from live toasts.
func generateStatus(toasts []toast.Snapshot) WaybarStatus {
	if len(toasts) == 0 {
		return WaybarStatus{
			Text:  "",
			Alt:   "empty",
			Class: "empty",
		}
	}

	counts := core.CountByType(toasts)

	class := string(toast.TypeInfo)
	var lines []string
	for _, t := range severity {
		n := counts[t]
		if n == 0 {
			continue
		}
		if len(lines) == 0 {
			class = string(t)
		}
		lines = append(lines, fmt.Sprintf("%s %s: %d", t.Icon(), t, n))
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", len(toasts)),
		Alt:        class,
		Tooltip:    fmt.Sprintf("%d active\n%s", len(toasts), strings.Join(lines, "\n")),
		Class:      class,
		Percentage: min(len(toasts), 100),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(status WaybarStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
