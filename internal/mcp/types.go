package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes a single selectable window.
type WindowInfo struct {
	ID     uint32 `json:"id"`
	Title  string `json:"title"`
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// HideWindowsInput is the input for the hide_windows tool.
type HideWindowsInput struct {
	IDs []uint32 `json:"ids,omitempty" jsonschema:"Window ids to hide. When empty the saved selection is hidden."`
}

// HideWindowsOutput is the output for the hide_windows tool.
type HideWindowsOutput struct {
	Hidden  []uint32 `json:"hidden"`
	Skipped []uint32 `json:"skipped"`
}

// RestoreWindowsInput is the input for the restore_windows tool.
type RestoreWindowsInput struct{}

// RestoreWindowsOutput is the output for the restore_windows tool.
type RestoreWindowsOutput struct {
	Restored []uint32 `json:"restored"`
	Dropped  []uint32 `json:"dropped"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// HiddenWindow is one entry of the hidden set.
type HiddenWindow struct {
	ID           uint32 `json:"id"`
	Method       string `json:"method"`
	WasMinimized bool   `json:"was_minimized"`
	WasMaximized bool   `json:"was_maximized"`
	HiddenAt     string `json:"hidden_at"`
}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Platform      string         `json:"platform"`
	HideHotkey    string         `json:"hide_hotkey"`
	ShowHotkey    string         `json:"show_hotkey"`
	SelectedCount int            `json:"selected_count"`
	Hidden        []HiddenWindow `json:"hidden"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}
