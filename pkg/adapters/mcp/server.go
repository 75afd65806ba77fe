package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// SessionsURI is the resource listing stored session ids.
const SessionsURI = "hearth://sessions"

// Assistant is the part of hearth.Assistant exposed over MCP.
type Assistant interface {
	Handle(ctx context.Context, sessionID string, turn domain.Turn) (domain.Response, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	Sessions(ctx context.Context) ([]string, error)
	Reset(ctx context.Context, sessionID string) error
}

var _ Assistant = (*hearth.Assistant)(nil)

// TurnArgs are the arguments of the handle_turn tool.
type TurnArgs struct {
	SessionID string          `mapstructure:"session_id"`
	Intent    domain.Intent   `mapstructure:"intent"`
	Entities  []domain.Entity `mapstructure:"entities"`
}

// TurnResult is the structured outcome of handle_turn.
type TurnResult struct {
	SessionID string              `json:"session_id"`
	Kind      domain.ResponseKind `json:"kind"`
	Text      string              `json:"text"`
}

// Server exposes an Assistant as an MCP server.
type Server struct {
	assistant Assistant
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(assistant Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		assistant: assistant,
		logger:    logger,
		mcpServer: server.NewMCPServer("hearth-mcp", hearth.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening (sse)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("handle_turn",
		mcp.WithDescription("Run one classified turn of a home assistant conversation and return its reply or clarifying prompt."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id; a new id starts an empty session")),
		mcp.WithString("intent", mcp.Required(), mcp.Description("Classified intent, e.g. close-door or specify-location")),
		mcp.WithArray("entities",
			mcp.Description("Recognized entities: [{\"type\":\"location\",\"value\":[{\"id\":\"loc1\"}]}]"),
			mcp.Items(map[string]any{"type": "object"}),
		),
	), s.handleTurn)

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Inspect the thermostat temperatures and pending action of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Forget a session; its next turn starts empty."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id")),
	), s.handleResetSession)
}

func (s *Server) handleTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args TurnArgs
	if err := mapstructure.Decode(request.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.SessionID == "" || args.Intent == "" {
		return mcp.NewToolResultError("session_id and intent are required"), nil
	}

	resp, err := s.assistant.Handle(ctx, args.SessionID, domain.Turn{Intent: args.Intent, Entities: args.Entities})
	if err != nil {
		s.logger.ErrorContext(ctx, "mcp turn failed", "session_id", args.SessionID, "intent", args.Intent, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("turn failed: %v", err)), nil
	}
	return jsonResult(TurnResult{SessionID: args.SessionID, Kind: resp.Kind, Text: resp.Text})
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session, err := s.assistant.Session(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("session %q not found", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return jsonResult(session)
}

func (s *Server) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.assistant.Reset(ctx, id); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %q reset", id)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored sessions",
		mcp.WithMIMEType("application/json"),
	), s.readSessions)
}

func (s *Server) readSessions(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.assistant.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: SessionsURI, MIMEType: "application/json", Text: string(data)},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
