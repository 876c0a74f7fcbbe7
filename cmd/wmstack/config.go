package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/wmstack/internal/config"
	"github.com/1broseidon/wmstack/internal/ipc"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate, print and explain configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := opts.loadConfig(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
				return nil
			},
		},
		newConfigPrintCmd(opts),
		&cobra.Command{
			Use:   "explain <yaml.path>",
			Short: "Show a config value and where it was set",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := opts.loadConfig()
				if err != nil {
					return err
				}
				value, src, err := config.Explain(res, args[0])
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(value)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "path: %s\n", args[0])
				fmt.Fprintf(w, "source: %s\n", config.FormatSource(src))
				fmt.Fprintf(w, "value:\n%s", out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reload",
			Short: "Ask the running daemon to reload its config",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := ipc.NewClient().Reload(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "config: reloaded")
				return nil
			},
		},
	)
	return cmd
}

func newConfigPrintCmd(opts *globalOptions) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				res, err := opts.loadConfig()
				if err != nil {
					return err
				}
				cfg = res.Config
				if res.File != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "# file: %s\n", res.File)
				}
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults (no files)")
	return cmd
}
