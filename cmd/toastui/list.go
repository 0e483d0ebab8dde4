package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/output"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/web"
)

var listOpts struct {
	addr string

	// Filter options
	typ      string
	position string
	state    string
	filter   string
	search   string
	limit    int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	field    string
	template string
}

var listCmd = &cobra.Command{
	Use:     "list [index|id]",
	Aliases: []string{"ls"},
	Short:   "List the toasts on a running toastui serve",
	Long: `List the live toasts of a running "toastui serve".

Without arguments, outputs every toast in plain format. With an index
(1-based, after filtering and sorting) or an ID (or unique ID prefix),
outputs that toast only.

Filter expressions combine conditions with commas:
  type=error               Exact match (case-insensitive)
  title!=Done              Not equal
  message~disk             Contains
  message~=^disk.*full$    Regular expression
  remaining<2s             Remaining time comparison
  age>=1m                  Time since the toast was shown
  persistent=true          Toasts without a dismiss timer
  state=paused             Lifecycle state

Examples:
  toastui list
  toastui list --format json
  toastui list --filter "type=error,age<5m"
  toastui list 1 --field message
  toastui list --format dmenu | fuzzel -d | toastui remove -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.addr, "addr", "",
		"Web server address (default: server.addr from config)")

	listCmd.Flags().StringVar(&listOpts.typ, "type", "",
		"Only show toasts of this type")
	listCmd.Flags().StringVar(&listOpts.position, "position", "",
		"Only show toasts at this position")
	listCmd.Flags().StringVar(&listOpts.state, "state", "",
		"Only show toasts in this state (entering, active, paused, removing)")
	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (see above)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in title and message")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of toasts to show (0=unlimited)")

	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", string(core.SortByCreated),
		"Sort by field (created, remaining, type, position)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", string(core.SortDesc),
		"Sort order (asc, desc)")

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, dmenu, json, ids)")
	listCmd.Flags().StringVar(&listOpts.field, "field", "",
		"Output a single field (id, type, title, message, position, state, remaining, created, all)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for dmenu output")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	toasts, err := web.NewClient(serverAddr(listOpts.addr)).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list toasts: %w", err)
	}
	logger.Debug("fetched toasts", "count", len(toasts))

	now := time.Now()
	toasts, err = applyListFilters(toasts, now)
	if err != nil {
		return err
	}
	if err := applyListSort(toasts); err != nil {
		return err
	}

	if len(args) == 1 {
		return handleListLookup(toasts, args[0], now)
	}

	if len(toasts) == 0 {
		logger.Debug("no toasts to output")
		return nil
	}
	return createFormatter(now).Format(os.Stdout, toasts)
}

// applyListFilters applies the filter flags to toasts.
func applyListFilters(toasts []toast.Snapshot, now time.Time) ([]toast.Snapshot, error) {
	opts := core.FilterOptions{
		Type:     toast.Type(strings.ToLower(listOpts.typ)),
		Position: toast.Position(strings.ToLower(listOpts.position)),
	}
	if listOpts.state != "" {
		s, err := core.ParseState(listOpts.state)
		if err != nil {
			return nil, err
		}
		opts.State = &s
	}
	toasts = core.Filter(toasts, opts)

	if listOpts.filter != "" {
		expr, err := core.ParseFilter(listOpts.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid --filter: %w", err)
		}
		toasts = core.FilterWithExpr(toasts, expr, now)
	}

	if listOpts.search != "" {
		toasts = core.Search(toasts, listOpts.search)
	}

	if listOpts.limit > 0 && len(toasts) > listOpts.limit {
		toasts = toasts[:listOpts.limit]
	}
	return toasts, nil
}

// applyListSort sorts toasts based on the sort flags.
func applyListSort(toasts []toast.Snapshot) error {
	field, err := core.ParseSortField(listOpts.sortBy)
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(listOpts.sortOrder)
	if err != nil {
		return err
	}
	core.Sort(toasts, core.SortOptions{Field: field, Order: order})
	return nil
}

// handleListLookup outputs the single toast selected by arg.
func handleListLookup(toasts []toast.Snapshot, arg string, now time.Time) error {
	sel := parseSelection(arg)

	var t *toast.Snapshot
	if idx, err := strconv.Atoi(sel); err == nil && idx > 0 {
		t = core.LookupByIndex(toasts, idx)
	} else {
		t = core.LookupByID(toasts, sel)
	}
	if t == nil {
		return fmt.Errorf("toast %s not found", arg)
	}

	if listOpts.field != "" {
		fmt.Println(output.FormatField(*t, listOpts.field))
		return nil
	}

	// A single toast defaults to JSON
	if !listFormatChanged() {
		listOpts.format = string(output.FormatJSON)
	}
	return createFormatter(now).Format(os.Stdout, []toast.Snapshot{*t})
}

func listFormatChanged() bool {
	f := listCmd.Flags().Lookup("format")
	return f != nil && f.Changed
}

// parseSelection extracts an index or ID from a line of list output.
// Input could be a full dmenu line, "1 | now | active, 3s left | ℹ 알림: Saved", or just an
// ID or index.
func parseSelection(selection string) string {
	selection = strings.TrimSpace(selection)
	if !strings.ContainsAny(selection, " |") {
		return selection
	}

	first, _, _ := strings.Cut(selection, "|")
	first = strings.TrimSpace(first)
	if idx, err := strconv.Atoi(first); err == nil && idx > 0 {
		return first
	}
	return selection
}

// createFormatter creates the output formatter based on the flags.
func createFormatter(now time.Time) output.Formatter {
	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.Now = now
	return output.NewFormatter(output.FormatType(strings.ToLower(listOpts.format)), opts)
}
