package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/scenario"
)

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plan <scenario.yaml>",
		Short: "Replay a scenario against a simulated display",
		Long: `Replay a scenario file through the stacking engine without an X server
and print the resulting order, bottom to top.

A scenario declares windows and panels, then an optional list of
operations (raise, lower, remove, map, set, show, hide, refresh):

  windows:
    - name: editor
    - name: find
      type: dialog
      transient_for: editor
    - name: osd
      ontop: true
  panels:
    - name: bar
  operations:
    - op: set
      window: editor
      set:
        fullscreen: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			res, err := scenario.Run(sc, opts.logger)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printPlan(newPrinter(cmd.OutOrStdout()), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printPlan(p *printer, res *scenario.Result) {
	p.title("order (bottom to top)")
	for i, pl := range res.Order {
		name := pl.Name
		if name == "" {
			name = "-"
		}
		p.printf("  %2d  %s %s %s\n",
			i+1,
			p.style(styleID, fmt.Sprintf("%-8s", pl.ID)),
			p.layer(pl.Layer),
			name)
	}
	p.printf("%s\n", p.style(styleDim, fmt.Sprintf("%d stacked, %d refreshes, %s",
		len(res.Stack), res.Refreshes, plural(res.Commands, "command"))))
}

