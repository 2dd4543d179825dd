package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/visibility"
)

// DefaultClientTimeout bounds a whole request. Hiding many unresponsive
// windows can take a while, so it is generous.
const DefaultClientTimeout = 30 * time.Second

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultClientTimeout,
	}
}

// WithTimeout returns a copy of the client using timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.timeout = timeout
	return &cp
}

// sendRequest sends a request and waits for a response
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

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with payload and decodes the response data into out.
func (c *Client) call(cmd CommandType, payload interface{}, out interface{}) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetConfig retrieves the daemon's current config.
func (c *Client) GetConfig() (*config.Config, error) {
	var cfg config.Config
	if err := c.call(CommandGetConfig, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetWindows lists the windows that can be selected.
func (c *Client) GetWindows() ([]enumerator.WindowHandle, error) {
	var windows []enumerator.WindowHandle
	if err := c.call(CommandGetWindows, nil, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// SaveSettings merges s into the daemon config and persists it.
func (c *Client) SaveSettings(s config.Settings) (*dispatch.SaveResult, error) {
	var result dispatch.SaveResult
	if err := c.call(CommandSaveSettings, s, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HideNow hides ids, or the saved selection when ids is empty.
func (c *Client) HideNow(ids []platform.WindowID) (*visibility.HideResult, error) {
	var payload interface{}
	if len(ids) > 0 {
		payload = HidePayload{IDs: ids}
	}
	var result visibility.HideResult
	if err := c.call(CommandHideNow, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ShowNow restores every hidden window.
func (c *Client) ShowNow() (*visibility.RestoreResult, error) {
	var result visibility.RestoreResult
	if err := c.call(CommandShowNow, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*dispatch.Status, error) {
	var status dispatch.Status
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.WithTimeout(2 * time.Second).GetStatus()
	return err
}
