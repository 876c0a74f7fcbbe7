package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/wmstack/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStack retrieves the current stacking order, bottom first.
func (c *Client) GetStack() (*StackData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStack})
	if err != nil {
		return nil, err
	}

	var stack StackData
	if err := json.Unmarshal(resp.Data, &stack); err != nil {
		return nil, fmt.Errorf("failed to parse stack data: %w", err)
	}
	return &stack, nil
}

// Raise moves window to the top of its layer.
func (c *Client) Raise(window uint32) error {
	return c.sendWindow(CommandRaise, window)
}

// Lower moves window to the bottom of its layer.
func (c *Client) Lower(window uint32) error {
	return c.sendWindow(CommandLower, window)
}

// Refresh forces a restack pass.
func (c *Client) Refresh() (*RefreshData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandRefresh})
	if err != nil {
		return nil, err
	}

	var data RefreshData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse refresh data: %w", err)
	}
	return &data, nil
}

func (c *Client) sendWindow(cmd CommandType, window uint32) error {
	payload, err := json.Marshal(WindowPayload{Window: window})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: cmd, Payload: payload})
	return err
}

// IsDaemonRunning checks if the daemon is running by attempting to connect
func (c *Client) IsDaemonRunning() bool {
	conn, err := net.DialTimeout("unix", c.socketPath, 1*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
