package mcp

import "github.com/1broseidon/wmstack/internal/ipc"

// ListStackInput is the input for the list_stack tool.
type ListStackInput struct {
	Layer string `json:"layer,omitempty" jsonschema:"Only return windows in this layer (desktop, below, normal, above, fullscreen, ontop, ignore)"`
}

// ListStackOutput is the output for the list_stack tool. Windows are
// ordered bottom to top.
type ListStackOutput struct {
	Windows []ipc.WindowEntry `json:"windows"`
	Panels  []ipc.PanelEntry  `json:"panels"`
	Dirty   bool              `json:"dirty"`
}

// WindowInput is the input for raise_window and lower_window.
type WindowInput struct {
	Window string `json:"window" jsonschema:"required,Window id as decimal or 0x-prefixed hex (e.g. 0x2a00007)"`
}

// WindowOutput reports the window a request acted on.
type WindowOutput struct {
	Window string `json:"window"`
	Action string `json:"action"`
}

// RefreshStackInput is the input for the refresh_stack tool.
type RefreshStackInput struct{}

// RefreshStackOutput is the output for the refresh_stack tool.
type RefreshStackOutput struct {
	Commands int `json:"commands"`
}

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	SessionID     string `json:"session_id"`
	StartedAt     string `json:"started_at"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Windows       int    `json:"windows"`
	Panels        int    `json:"panels"`
	Dirty         bool   `json:"dirty"`
	Refreshes     int    `json:"refreshes"`
	DBus          bool   `json:"dbus"`
}
