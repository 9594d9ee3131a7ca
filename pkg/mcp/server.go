// Package mcp implements the context-exchange pair: a server exposing the
// corpus as an MCP tool and a client that augments tasks with the records
// it looks up.
package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jllopis/agentlink/pkg/corpus"
)

// LookupToolName is the MCP tool the server registers for context lookups.
const LookupToolName = "context_lookup"

// Server wraps the mcp-go server and answers context lookups against a
// fixed corpus. Lookup results keep corpus insertion order; an empty result
// is a valid response, not an error.
type Server struct {
	mcpServer *server.MCPServer
	store     *corpus.Store
}

// NewServer creates a context server over the given corpus.
func NewServer(name, version string, store *corpus.Store) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
		store:     store,
	}
	tool := mcp.NewTool(LookupToolName,
		mcp.WithDescription("Look up context records by case-insensitive substring match."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Space-separated query terms.")),
	)
	s.mcpServer.AddTool(tool, s.handleLookup)
	return s
}

func (s *Server) handleLookup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	query, _ := args["query"].(string)
	records := s.store.Lookup(strings.Fields(query)...)
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// MCPServer exposes the underlying server for transport wiring.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdio for out-of-process clients.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
