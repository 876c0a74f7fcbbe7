// Package mcp exposes the running stacking daemon as Model Context
// Protocol tools over stdio. Every tool is a thin wrapper over an IPC
// request.
package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wmstack/internal/ipc"
	"github.com/1broseidon/wmstack/internal/stacking"
)

const (
	ServerName    = "wmstack"
	ServerVersion = "0.1.0"
)

// StackClient is the subset of the IPC client the tools need.
type StackClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetStack() (*ipc.StackData, error)
	Raise(window uint32) error
	Lower(window uint32) error
	Refresh() (*ipc.RefreshData, error)
}

var _ StackClient = (*ipc.Client)(nil)

// Server is the MCP server for wmstack.
type Server struct {
	mcpServer *mcpsdk.Server
	client    StackClient
}

// NewServer creates a new MCP server talking to the daemon through client.
func NewServer(client StackClient) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_stack",
		Description: "List managed windows bottom to top with their stacking layer, transient owner, class and title, plus the panels. Optionally filter by layer.",
	}, s.handleListStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Raise a window to the top of its layer. Windows never leave their layer: raising a normal window keeps it below on-top windows.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lower_window",
		Description: "Lower a window to the bottom of its layer.",
	}, s.handleLowerWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "refresh_stack",
		Description: "Force a full restack pass and report how many ordering commands were sent to the display.",
	}, s.handleRefreshStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon session id, uptime, window and panel counts and whether a restack is pending.",
	}, s.handleGetStatus)
}

func (s *Server) handleListStack(_ context.Context, _ *mcpsdk.CallToolRequest, args ListStackInput) (*mcpsdk.CallToolResult, ListStackOutput, error) {
	stack, err := s.client.GetStack()
	if err != nil {
		return nil, ListStackOutput{}, err
	}

	out := ListStackOutput{
		Windows: make([]ipc.WindowEntry, 0, len(stack.Windows)),
		Panels:  stack.Panels,
		Dirty:   stack.Dirty,
	}
	for _, w := range stack.Windows {
		if args.Layer != "" && w.Layer != args.Layer {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	if out.Panels == nil {
		out.Panels = []ipc.PanelEntry{}
	}
	return nil, out, nil
}

func (s *Server) handleRaiseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	w, err := stacking.ParseWindowID(args.Window)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if err := s.client.Raise(uint32(w)); err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to raise %s: %w", w, err)
	}
	return nil, WindowOutput{Window: w.String(), Action: "raised"}, nil
}

func (s *Server) handleLowerWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	w, err := stacking.ParseWindowID(args.Window)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if err := s.client.Lower(uint32(w)); err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to lower %s: %w", w, err)
	}
	return nil, WindowOutput{Window: w.String(), Action: "lowered"}, nil
}

func (s *Server) handleRefreshStack(_ context.Context, _ *mcpsdk.CallToolRequest, _ RefreshStackInput) (*mcpsdk.CallToolResult, RefreshStackOutput, error) {
	data, err := s.client.Refresh()
	if err != nil {
		return nil, RefreshStackOutput{}, err
	}
	return nil, RefreshStackOutput{Commands: data.Commands}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		SessionID:     status.SessionID,
		StartedAt:     status.StartedAt.Format(time.RFC3339),
		UptimeSeconds: status.UptimeSeconds,
		Windows:       status.Windows,
		Panels:        status.Panels,
		Dirty:         status.Dirty,
		Refreshes:     status.Refreshes,
		DBus:          status.DBus,
	}, nil
}
