// Package mcpserver exposes the pitch-practice tools over the Model Context
// Protocol so agent clients can score pitches and run persona conversations.
package mcpserver

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
)

// Config holds server configuration.
type Config struct {
	Port         int
	PersonaDir   string
	StoreBackend string // "file" or "sqlite"
	DBPath       string
}

// DefaultConfig returns a Config populated from environment variables.
func DefaultConfig() Config {
	return Config{
		Port:         8000,
		PersonaDir:   config.EnvOr("PERSONA_DIR", "journalists"),
		StoreBackend: config.EnvOr("PERSONA_STORE", "file"),
		DBPath:       config.EnvOr("PERSONA_DB", "pitchcoach.db"),
	}
}

// Server is the MCP server for pitch practice.
type Server struct {
	cfg      Config
	mcp      *server.MCPServer
	handlers *Handlers
	log      *slog.Logger
	closer   func() error
}

// New creates and configures the MCP server.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	var store persona.Store
	closer := func() error { return nil }
	switch cfg.StoreBackend {
	case "sqlite":
		s, err := persona.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		store = s
		closer = s.Close
	case "file", "":
		store = persona.NewFileStore(cfg.PersonaDir)
	default:
		return nil, fmt.Errorf("unknown persona store backend %q: choose file or sqlite", cfg.StoreBackend)
	}

	completer := llm.NewClaude(config.ModelFor(config.TaskConversation))
	handlers := NewHandlers(store, completer, NewSessionRegistry(), logger)

	mcpServer := server.NewMCPServer(
		"pitchcoach",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools := ToolDefs()
	mcpServer.AddTool(tools[0], handlers.HandleListPersonas)
	mcpServer.AddTool(tools[1], handlers.HandleGetPersona)
	mcpServer.AddTool(tools[2], handlers.HandleEvaluatePitch)
	mcpServer.AddTool(tools[3], handlers.HandleStartConversation)
	mcpServer.AddTool(tools[4], handlers.HandleSendMessage)
	mcpServer.AddTool(tools[5], handlers.HandleGetConversation)

	return &Server{
		cfg:      cfg,
		mcp:      mcpServer,
		handlers: handlers,
		log:      logger,
		closer:   closer,
	}, nil
}

// Close releases the persona store.
func (s *Server) Close() {
	if err := s.closer(); err != nil {
		s.log.Error("Store close error", "error", err)
	}
}

// Start runs the HTTP MCP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info("Starting MCP server", "addr", addr, "store", s.cfg.StoreBackend)

	httpServer := server.NewStreamableHTTPServer(s.mcp,
		server.WithStateLess(true),
	)
	return httpServer.Start(addr)
}
