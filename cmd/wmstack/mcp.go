package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/wmstack/internal/ipc"
	"github.com/1broseidon/wmstack/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve stack tools over stdio, backed by the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcp.NewServer(ipc.NewClient()).Run(cmd.Context())
		},
	})
	return cmd
}
