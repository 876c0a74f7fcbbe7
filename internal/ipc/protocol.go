package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload    CommandType = "RELOAD"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandGetStack  CommandType = "GET_STACK"
	CommandRaise     CommandType = "RAISE"
	CommandLower     CommandType = "LOWER"
	CommandRefresh   CommandType = "REFRESH"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	SessionID     string    `json:"session_id"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Windows       int       `json:"windows"`
	Panels        int       `json:"panels"`
	Dirty         bool      `json:"dirty"`
	Refreshes     int       `json:"refreshes"`
	LastCommands  int       `json:"last_commands"`
	DBus          bool      `json:"dbus"`
	DaemonRunning bool      `json:"daemon_running"`
}

// WindowEntry describes one stacked window.
type WindowEntry struct {
	ID           uint32 `json:"id"`
	Layer        string `json:"layer"`
	TransientFor uint32 `json:"transient_for,omitempty"`
	Class        string `json:"class,omitempty"`
	Title        string `json:"title,omitempty"`
}

// PanelEntry describes one panel.
type PanelEntry struct {
	ID      uint32 `json:"id"`
	OnTop   bool   `json:"ontop"`
	Visible bool   `json:"visible"`
	Screen  int    `json:"screen"`
}

// StackData represents the data returned by GET_STACK. Windows are
// ordered bottom to top.
type StackData struct {
	Windows []WindowEntry `json:"windows"`
	Panels  []PanelEntry  `json:"panels"`
	Dirty   bool          `json:"dirty"`
}

// WindowPayload is the payload for RAISE and LOWER.
type WindowPayload struct {
	Window uint32 `json:"window"`
}

// RefreshData represents the data returned by REFRESH.
type RefreshData struct {
	Commands int `json:"commands"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
