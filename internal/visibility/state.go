package visibility

import (
	"time"

	"github.com/1broseidon/winhide/internal/platform"
)

// Method records which hide path was applied to a window.
type Method string

const (
	MethodNative   Method = "native"
	MethodFallback Method = "fallback"
)

// SavedState is what a window looked like just before it was hidden.
type SavedState struct {
	Bounds       platform.Rect `json:"bounds"`
	WasMinimized bool          `json:"wasMinimized"`
	WasMaximized bool          `json:"wasMaximized"`
	HiddenAt     time.Time     `json:"hiddenAt"`
	Method       Method        `json:"method"`
}

// HiddenEntry pairs a window id with its saved state.
type HiddenEntry struct {
	ID    platform.WindowID `json:"id"`
	State SavedState        `json:"state"`
}

// HideResult reports the outcome of Hide.
type HideResult struct {
	Hidden  []platform.WindowID `json:"hidden"`
	Skipped []platform.WindowID `json:"skipped"`
}

// RestoreResult reports the outcome of RestoreAll.
type RestoreResult struct {
	Restored []platform.WindowID `json:"restored"`
	Dropped  []platform.WindowID `json:"dropped"`
}

// offscreen returns a rect of the same size placed past the bottom-right
// corner of the desktop.
func offscreen(r platform.Rect, desktop platform.Rect) platform.Rect {
	const margin = 5000
	return platform.Rect{
		X:      desktop.X + desktop.Width + margin,
		Y:      desktop.Y + desktop.Height + margin,
		Width:  r.Width,
		Height: r.Height,
	}
}
