package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/output"
	"github.com/jmylchreest/toastui/internal/store"
	"github.com/jmylchreest/toastui/internal/web"
)

var historyOpts struct {
	addr   string
	limit  int
	filter string
	format string
	clear  bool
	prune  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or prune the toasts a running toastui serve has removed",
	Long: `Show the history of removed toasts kept by "toastui serve".

Records are listed most recently removed first. The JSON format includes
why each toast left: 1 = expired, 2 = dismissed, 3 = closed.

Examples:
  toastui history
  toastui history --filter "type=error" --format json
  toastui history --prune 7d
  toastui history --clear`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyOpts.addr, "addr", "",
		"Web server address (default: server.addr from config)")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of records to show (0=unlimited)")
	historyCmd.Flags().StringVar(&historyOpts.filter, "filter", "",
		"Filter expression (see toastui list --help)")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, dmenu, json, ids)")
	historyCmd.Flags().BoolVar(&historyOpts.clear, "clear", false,
		"Remove every record")
	historyCmd.Flags().StringVar(&historyOpts.prune, "prune", "",
		"Remove records older than a duration (e.g. 48h, 7d, 1w)")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "prune")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := web.NewClient(serverAddr(historyOpts.addr))

	if historyOpts.clear || historyOpts.prune != "" {
		var olderThan time.Duration
		if historyOpts.prune != "" {
			d, err := core.ParseDuration(historyOpts.prune)
			if err != nil || d <= 0 {
				return fmt.Errorf("invalid --prune duration %q", historyOpts.prune)
			}
			olderThan = d
		}
		n, err := client.PruneHistory(ctx, olderThan)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Removed %d record(s)\n", n)
		return nil
	}

	records, err := client.History(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	now := time.Now()
	records, err = filterRecords(records, historyOpts.filter, now)
	if err != nil {
		return err
	}
	if historyOpts.limit > 0 && len(records) > historyOpts.limit {
		records = records[:historyOpts.limit]
	}
	if len(records) == 0 {
		logger.Debug("no history to output")
		return nil
	}

	format := output.FormatType(strings.ToLower(historyOpts.format))
	if format == output.FormatJSON {
		return output.NewJSONFormatter(output.DefaultFormatterOptions()).Encode(os.Stdout, records)
	}

	opts := output.DefaultFormatterOptions()
	opts.Now = now
	return output.NewFormatter(format, opts).Format(os.Stdout, store.Snapshots(records))
}

// filterRecords keeps the records whose toast matches expr.
func filterRecords(records []store.Record, expr string, now time.Time) ([]store.Record, error) {
	if expr == "" {
		return records, nil
	}
	f, err := core.ParseFilter(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid --filter: %w", err)
	}

	var out []store.Record
	for _, r := range records {
		if f.Match(r.Snapshot, now) {
			out = append(out, r)
		}
	}
	return out, nil
}
