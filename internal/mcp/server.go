// ABOUTME: MCP server setup for the volleyball training store.
// ABOUTME: Wraps the MCP server with storage, entry and reporting access.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	entry     *entry.Controller
	reports   *report.Engine
	defaults  report.Options
	log       *log.Logger
}

// NewServer creates a new MCP server over repo. defaults supplies the report
// window and minimum sample when a caller omits them.
func NewServer(repo storage.Repository, logger *log.Logger, defaults report.Options) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "volley",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		entry:     entry.New(repo, logger),
		reports:   report.NewEngine(repo),
		defaults:  defaults,
		log:       logger.WithPrefix("mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
