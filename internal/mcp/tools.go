package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/winhide/internal/platform"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.daemon.GetWindows()
	if err != nil {
		s.logger.Warn("list_windows failed", zap.Error(err))
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:     uint32(w.ID),
			Title:  w.Title,
			Path:   w.Path,
			X:      w.Bounds.X,
			Y:      w.Bounds.Y,
			Width:  w.Bounds.Width,
			Height: w.Bounds.Height,
		})
	}
	s.logger.Debug("list_windows", zap.Int("count", len(out.Windows)))
	return nil, out, nil
}

func (s *Server) handleHideWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args HideWindowsInput) (*mcpsdk.CallToolResult, HideWindowsOutput, error) {
	ids := make([]platform.WindowID, 0, len(args.IDs))
	for _, id := range args.IDs {
		ids = append(ids, platform.WindowID(id))
	}

	res, err := s.daemon.HideNow(ids)
	if err != nil {
		s.logger.Warn("hide_windows failed", zap.Error(err))
		return nil, HideWindowsOutput{}, fmt.Errorf("failed to hide windows: %w", err)
	}

	out := HideWindowsOutput{
		Hidden:  toUint32(res.Hidden),
		Skipped: toUint32(res.Skipped),
	}
	s.logger.Info("hide_windows", zap.Int("hidden", len(out.Hidden)), zap.Int("skipped", len(out.Skipped)))
	return nil, out, nil
}

func (s *Server) handleRestoreWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ RestoreWindowsInput) (*mcpsdk.CallToolResult, RestoreWindowsOutput, error) {
	res, err := s.daemon.ShowNow()
	if err != nil {
		s.logger.Warn("restore_windows failed", zap.Error(err))
		return nil, RestoreWindowsOutput{}, fmt.Errorf("failed to restore windows: %w", err)
	}

	out := RestoreWindowsOutput{
		Restored: toUint32(res.Restored),
		Dropped:  toUint32(res.Dropped),
	}
	s.logger.Info("restore_windows", zap.Int("restored", len(out.Restored)), zap.Int("dropped", len(out.Dropped)))
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("failed to get status: %w", err)
	}

	out := GetStatusOutput{
		Platform:      st.Platform,
		HideHotkey:    st.HideHotkey,
		ShowHotkey:    st.ShowHotkey,
		SelectedCount: st.SelectedCount,
		Hidden:        make([]HiddenWindow, 0, len(st.Hidden)),
		UptimeSeconds: st.UptimeSeconds,
	}
	for _, e := range st.Hidden {
		out.Hidden = append(out.Hidden, HiddenWindow{
			ID:           uint32(e.ID),
			Method:       string(e.State.Method),
			WasMinimized: e.State.WasMinimized,
			WasMaximized: e.State.WasMaximized,
			HiddenAt:     e.State.HiddenAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

// toUint32 never returns nil so results always encode as JSON arrays.
func toUint32(ids []platform.WindowID) []uint32 {
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		out = append(out, uint32(id))
	}
	return out
}
