package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/web"
)

var removeOpts struct {
	addr   string
	all    bool
	filter string
	dryRun bool
}

var removeCmd = &cobra.Command{
	Use:     "remove [id|index|-]...",
	Aliases: []string{"rm"},
	Short:   "Remove toasts from a running toastui serve",
	Long: `Remove toasts from a running "toastui serve".

Toasts are selected by ID, unique ID prefix or 1-based index in the
default list order. "-" reads selections from standard input, one per
line, so lines of "toastui list --format dmenu" can be piped in.
Removal runs the leave animation; removing a toast twice is harmless.

Examples:
  toastui remove 01JD5X
  toastui remove --all
  toastui remove --filter "type=info"
  toastui list --format dmenu | fuzzel -d | toastui remove -`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringVar(&removeOpts.addr, "addr", "",
		"Web server address (default: server.addr from config)")
	removeCmd.Flags().BoolVar(&removeOpts.all, "all", false,
		"Remove every toast")
	removeCmd.Flags().StringVar(&removeOpts.filter, "filter", "",
		"Remove the toasts matching a filter expression")
	removeCmd.Flags().BoolVar(&removeOpts.dryRun, "dry-run", false,
		"Show what would be removed without removing")
}

func runRemove(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !removeOpts.all && removeOpts.filter == "" {
		return errors.New("specify toasts to remove, --filter or --all")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := web.NewClient(serverAddr(removeOpts.addr))
	toasts, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list toasts: %w", err)
	}
	core.Sort(toasts, core.DefaultSortOptions())

	targets, err := selectTargets(toasts, args, time.Now())
	if err != nil {
		return err
	}

	if removeOpts.dryRun {
		for _, t := range targets {
			fmt.Fprintf(cmd.OutOrStdout(), "would remove %s (%s: %s)\n", t.ID, t.Type, t.Title)
		}
		return nil
	}

	removed := 0
	for _, t := range targets {
		if err := client.Remove(ctx, t.ID); err != nil {
			var apiErr *web.APIError
			if errors.As(err, &apiErr) && apiErr.Status == 404 {
				logger.Debug("toast already gone", "id", t.ID)
				continue
			}
			return fmt.Errorf("failed to remove toast %s: %w", t.ID, err)
		}
		removed++
	}

	logger.Debug("removed toasts", "count", removed)
	fmt.Fprintf(cmd.ErrOrStderr(), "Removed %d toast(s)\n", removed)
	return nil
}

// selectTargets resolves the selections in args against toasts.
func selectTargets(toasts []toast.Snapshot, args []string, now time.Time) ([]toast.Snapshot, error) {
	if removeOpts.all {
		return toasts, nil
	}

	if removeOpts.filter != "" {
		expr, err := core.ParseFilter(removeOpts.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid --filter: %w", err)
		}
		toasts = core.FilterWithExpr(toasts, expr, now)
		if len(args) == 0 {
			return toasts, nil
		}
	}

	selections, err := expandSelections(args)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []toast.Snapshot
	for _, sel := range selections {
		var t *toast.Snapshot
		if idx, err := strconv.Atoi(sel); err == nil && idx > 0 {
			t = core.LookupByIndex(toasts, idx)
		} else {
			t = core.LookupByID(toasts, sel)
		}
		if t == nil {
			return nil, fmt.Errorf("toast %s not found", sel)
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, *t)
		}
	}
	return out, nil
}

// expandSelections replaces "-" with the non-empty lines of stdin.
func expandSelections(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if arg != "-" {
			out = append(out, parseSelection(arg))
			continue
		}
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				out = append(out, parseSelection(line))
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read selections: %w", err)
		}
	}
	return out, nil
}
