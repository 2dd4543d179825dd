package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/visibility"
	"go.uber.org/zap"
)

// ErrDaemonRunning is returned by Start when another daemon already owns
// the socket.
var ErrDaemonRunning = errors.New("another winhide daemon is already listening")

const readTimeout = 10 * time.Second

// Handler is the command surface the server exposes. *dispatch.Dispatcher
// implements it.
type Handler interface {
	Config() *config.Config
	RequestList() ([]enumerator.WindowHandle, error)
	RequestSaveConfig(s config.Settings) (dispatch.SaveResult, error)
	RequestHide(ids []platform.WindowID) visibility.HideResult
	HideSelected() visibility.HideResult
	RequestRestore() visibility.RestoreResult
	Status() dispatch.Status
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	logger       *zap.Logger
	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to socketPath.
func NewServer(socketPath string, handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger.Named("ipc"),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A socket that still answers belongs to a live daemon; anything else
	// is stale and can be replaced.
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("%s: %w", s.socketPath, ErrDaemonRunning)
	}
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.logger.Warn("IPC accept error", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	log := s.logger.With(zap.String("command", string(req.Command)), zap.String("request_id", req.ID))
	log.Debug("IPC request")

	resp := s.handleCommand(req)
	resp.ID = req.ID
	if resp.Status == StatusError {
		log.Warn("IPC request failed", zap.String("error", resp.Error))
	}
	s.send(conn, resp)
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetConfig:
		return ok(s.handler.Config())
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandSaveSettings:
		return s.handleSaveSettings(req.Payload)
	case CommandHideNow:
		return s.handleHideNow(req.Payload)
	case CommandShowNow:
		return ok(s.handler.RequestRestore())
	case CommandGetStatus:
		return ok(s.handler.Status())
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetWindows() *Response {
	windows, err := s.handler.RequestList()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	if windows == nil {
		windows = []enumerator.WindowHandle{}
	}
	return ok(windows)
}

func (s *Server) handleSaveSettings(payload json.RawMessage) *Response {
	if len(payload) == 0 {
		return NewErrorResponse("save-settings requires a payload")
	}
	var settings config.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid settings: %v", err))
	}

	result, err := s.handler.RequestSaveConfig(settings)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save settings: %v", err))
	}
	return ok(result)
}

func (s *Server) handleHideNow(payload json.RawMessage) *Response {
	var p HidePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid hide payload: %v", err))
		}
	}
	if len(p.IDs) == 0 {
		return ok(s.handler.HideSelected())
	}
	return ok(s.handler.RequestHide(p.IDs))
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("Failed to marshal response", zap.Error(err))
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("Failed to send response", zap.Error(err))
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
