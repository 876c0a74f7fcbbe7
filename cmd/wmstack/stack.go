package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/ipc"
	"github.com/1broseidon/wmstack/internal/stacking"
)

func newStackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Inspect and reorder the daemon's window stack",
	}
	cmd.AddCommand(newStackListCmd())
	cmd.AddCommand(newStackMoveCmd("raise", "Move a window to the top of its layer", (*ipc.Client).Raise))
	cmd.AddCommand(newStackMoveCmd("lower", "Move a window to the bottom of its layer", (*ipc.Client).Lower))
	cmd.AddCommand(newStackRefreshCmd())
	return cmd
}

func newStackListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stacked windows bottom to top",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := ipc.NewClient().GetStack()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stack)
			}
			printStack(newPrinter(cmd.OutOrStdout()), stack)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printStack(p *printer, stack *ipc.StackData) {
	p.title("windows (bottom to top)")
	if len(stack.Windows) == 0 {
		p.printf("  %s\n", p.style(styleDim, "none"))
	}
	for _, w := range stack.Windows {
		p.printf("  %s %s %s", p.style(styleID, fmt.Sprintf("%-10s", stacking.WindowID(w.ID))), p.layer(w.Layer), describe(w))
		if w.TransientFor != 0 {
			p.printf(" %s", p.style(styleDim, "transient for "+stacking.WindowID(w.TransientFor).String()))
		}
		p.printf("\n")
	}

	p.title("panels")
	if len(stack.Panels) == 0 {
		p.printf("  %s\n", p.style(styleDim, "none"))
	}
	for _, panel := range stack.Panels {
		flags := fmt.Sprintf("screen %d", panel.Screen)
		if panel.OnTop {
			flags += ", ontop"
		}
		if !panel.Visible {
			flags += ", hidden"
		}
		p.printf("  %s %s\n", p.style(styleID, fmt.Sprintf("%-10s", stacking.WindowID(panel.ID))), flags)
	}

	if stack.Dirty {
		p.printf("%s\n", p.style(styleWarn, "restack pending"))
	}
}

func describe(w ipc.WindowEntry) string {
	switch {
	case w.Class != "" && w.Title != "":
		return fmt.Sprintf("%s %q", w.Class, w.Title)
	case w.Class != "":
		return w.Class
	case w.Title != "":
		return fmt.Sprintf("%q", w.Title)
	}
	return ""
}

func newStackMoveCmd(name, short string, move func(*ipc.Client, uint32) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <window-id>",
		Short: short,
		Long: short + `.

The window id may be decimal or 0x-prefixed hex, as printed by
"wmstack stack list" and xprop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := stacking.ParseWindowID(args[0])
			if err != nil {
				return err
			}
			if err := move(ipc.NewClient(), uint32(w)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, w)
			return nil
		},
	}
}

func newStackRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a full restack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ipc.NewClient().Refresh()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restacked: %s\n", plural(res.Commands, "command"))
			return nil
		},
	}
}
