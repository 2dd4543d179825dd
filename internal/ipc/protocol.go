package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winhide/internal/platform"
	"github.com/google/uuid"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetConfig    CommandType = "get-config"
	CommandGetWindows   CommandType = "get-windows"
	CommandSaveSettings CommandType = "save-settings"
	CommandHideNow      CommandType = "hide-now"
	CommandShowNow      CommandType = "show-now"
	CommandGetStatus    CommandType = "get-status"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// HidePayload is the optional payload of hide-now. Without ids the saved
// selection is hidden.
type HidePayload struct {
	IDs []platform.WindowID `json:"ids,omitempty"`
}

// NewRequest builds a request with a fresh id.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{
		ID:      uuid.NewString(),
		Command: cmd,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
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
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
