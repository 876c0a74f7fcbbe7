package main

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			printStatus(newPrinter(cmd.OutOrStdout()), status, time.Now())
			return nil
		},
	}
}

func printStatus(p *printer, status *ipc.StatusData, now time.Time) {
	running := p.style(styleOK, "running")
	if !status.DaemonRunning {
		running = p.style(styleWarn, "stopped")
	}
	p.field("daemon", running)
	p.field("session", status.SessionID)
	p.field("started", humanize.RelTime(status.StartedAt, now, "ago", "from now"))
	p.field("windows", status.Windows)
	p.field("panels", status.Panels)
	p.field("refreshes", humanize.Comma(int64(status.Refreshes)))
	p.field("last restack", plural(status.LastCommands, "command"))
	p.field("dirty", status.Dirty)
	p.field("dbus", status.DBus)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
