package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/daemon"
	"github.com/1broseidon/wmstack/internal/logging"
)

func newDaemonCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Manage window stacking on the current display (foreground)",
		Long: `Connect to the X display named by $DISPLAY, adopt the mapped top-level
windows and keep them stacked by layer until interrupted.

The daemon serves the IPC socket used by the other commands, reloads its
config on change or SIGHUP and, when dbus.enabled is set, exports the
stacking service on the session bus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			res, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !opts.verbose {
				level, err := logging.ParseLevel(res.Config.LogLevel)
				if err != nil {
					return err
				}
				opts.charm.SetLevel(level)
			}

			backend, events, closeDisplay, err := openDisplay(opts.logger)
			if err != nil {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			defer closeDisplay()

			d := daemon.New(backend, events, daemon.Options{
				ConfigPath: path,
				Config:     res.Config,
				LogHandler: opts.charm,
				Logger:     opts.logger,
			})
			opts.logger.Info("daemon starting", "session", d.Session().ID(), "config", path)
			return d.Run(cmd.Context())
		},
	}
}
