package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/visibility"
)

const (
	ServerName    = "winhide"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools need.
type Daemon interface {
	GetWindows() ([]enumerator.WindowHandle, error)
	HideNow(ids []platform.WindowID) (*visibility.HideResult, error)
	ShowNow() (*visibility.RestoreResult, error)
	GetStatus() (*dispatch.Status, error)
}

// Server exposes the running daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *zap.Logger
}

// NewServer creates a new MCP server backed by daemon.
func NewServer(daemon Daemon, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		daemon: daemon,
		logger: logger.Named("mcp"),
	}

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
		Name:        "list_windows",
		Description: "List the top-level windows that can be hidden, sorted by title. Returns each window's id, title, executable path and bounds.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_windows",
		Description: "Hide windows from view, the taskbar and the task switcher. Pass ids from list_windows, or omit them to hide the saved selection. Ids that no longer exist are reported as skipped.",
	}, s.handleHideWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_windows",
		Description: "Restore every hidden window to its saved position, size and minimized/maximized state. Windows closed while hidden are reported as dropped.",
	}, s.handleRestoreWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the configured hotkeys, the size of the saved selection and the windows currently hidden.",
	}, s.handleGetStatus)
}
