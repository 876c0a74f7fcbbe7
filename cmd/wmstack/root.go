package main

import (
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/config"
	"github.com/1broseidon/wmstack/internal/logging"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

// globalOptions holds the persistent flags and the logger built from them.
type globalOptions struct {
	verbose    bool
	configPath string

	charm  *charmlog.Logger
	logger *slog.Logger
}

// loadConfig reads --config, or the default location when unset.
func (o *globalOptions) loadConfig() (*config.LoadResult, error) {
	if o.configPath != "" {
		return config.LoadFromPath(o.configPath)
	}
	return config.LoadWithSources()
}

// resolvedConfigPath returns --config or the default location.
func (o *globalOptions) resolvedConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultConfigPath()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "wmstack",
		Short: "Layered window stacking for X11",
		Long: `wmstack keeps the Z-order of top-level X11 windows consistent with
their layer: desktop windows at the bottom, then panels, below, normal,
above, fullscreen and ontop windows, with transient dialogs stacked
directly above their owner.

Run "wmstack daemon" to manage the display, or "wmstack plan" to replay
a scenario file against a simulated display.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			// Log to stderr so stdout is clean for output
			opts.charm = logging.New(os.Stderr, level)
			opts.logger = logging.Slog(opts.charm)
			slog.SetDefault(opts.logger)
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to config file (default: ~/.config/wmstack/config.yaml)")

	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newStatusCmd())
	root.AddCommand(newStackCmd())
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newMCPCmd())

	return root
}
