package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive toast playground",
	Long: `Launch a terminal playground that renders toasts in all six positions.

Toasts run through the same lifecycle as on the desktop: they animate in,
count down, pause while selected and animate out.

Key bindings:
  i/s/e/w     Show an info, success, error or warning toast
  p           Cycle the position new toasts appear at
  t           Toggle persistent toasts
  j/k, ↑/↓    Select a toast (selecting hovers it)
  x           Close the selected toast
  C           Close every toast
  enter       Inspect the selected toast
  y           Copy the selected toast as YAML
  space       Freeze time
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Config: cfg,
	})
}
