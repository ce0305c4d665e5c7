package mcp

// Implementation Plan:
// 1. Server struct wrapping the mcp-go stdio server
// 2. NewServer - registers the editor_context tool
// 3. Serve - blocks on stdio with graceful shutdown on SIGINT/SIGTERM
// 4. Each tool call builds a fresh snapshot; no state between calls

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
)

// Server manages the MCP server lifecycle. It holds only configuration;
// every tool call re-reads editor state from scratch.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates an MCP server exposing editor state from the given
// storage root.
func NewServer(storageRoot string) *Server {
	s := server.NewMCPServer(
		"edctx",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddEditorContextTool(s, storageRoot)

	return &Server{mcp: s}
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
