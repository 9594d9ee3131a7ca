package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/corpus"
	"github.com/jllopis/agentlink/pkg/errors"
	"github.com/jllopis/agentlink/pkg/resilience"
)

const defaultLookupTimeout = 3 * time.Second

// ContextResponse is the outcome of one augmentation exchange. Latency is
// the measured wall-clock time of the lookup call, not a fabricated value.
type ContextResponse struct {
	Records []corpus.Record
	Latency time.Duration
	Found   bool
}

// ClientOption customizes the context client.
type ClientOption func(*ContextClient)

// WithLookupTimeout sets the per-lookup timeout. Lookups that exceed it
// fail with CONTEXT_TIMEOUT, which agents treat as a degradation.
func WithLookupTimeout(timeout time.Duration) ClientOption {
	return func(c *ContextClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// ContextClient requests context records for a task over MCP.
type ContextClient struct {
	mcpClient *client.Client
	timeout   time.Duration
}

// NewInProcessClient connects a context client to the server over the
// mcp-go in-process transport and performs the initialize handshake.
func NewInProcessClient(srv *Server, opts ...ClientOption) (*ContextClient, error) {
	mcpClient, err := client.NewInProcessClient(srv.MCPServer())
	if err != nil {
		return nil, err
	}
	if err := mcpClient.Start(context.Background()); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "agentlink-context-client",
		Version: "0.1.0",
	}
	if _, err := mcpClient.Initialize(ctx, initRequest); err != nil {
		return nil, err
	}

	c := &ContextClient{mcpClient: mcpClient, timeout: defaultLookupTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RequestContext derives query terms from the task input, performs the
// lookup and wraps the result. A miss yields Found=false, never an error;
// only transport failures and timeouts surface as errors.
func (c *ContextClient) RequestContext(ctx context.Context, task *core.Task) (*ContextResponse, error) {
	terms := Tokenize(task.Input)
	if len(terms) == 0 {
		return &ContextResponse{Found: false}, nil
	}

	start := time.Now()
	result, err := resilience.WithTimeout(ctx, c.timeout, errors.CodeContextTimeout,
		func(ctx context.Context) (*mcp.CallToolResult, error) {
			req := mcp.CallToolRequest{}
			req.Params.Name = LookupToolName
			req.Params.Arguments = map[string]any{"query": strings.Join(terms, " ")}
			return c.mcpClient.CallTool(ctx, req)
		})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(result)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "malformed context response", err)
	}
	return &ContextResponse{
		Records: records,
		Latency: latency,
		Found:   len(records) > 0,
	}, nil
}

// Close shuts down the transport.
func (c *ContextClient) Close() error {
	return c.mcpClient.Close()
}

func decodeRecords(result *mcp.CallToolResult) ([]corpus.Record, error) {
	if result == nil || len(result.Content) == 0 {
		return nil, nil
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return nil, fmt.Errorf("expected text content, got %T", result.Content[0])
	}
	var records []corpus.Record
	if err := json.Unmarshal([]byte(text.Text), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FormatForPrompt renders a context response as the block prepended to a
// model prompt.
func FormatForPrompt(resp *ContextResponse) string {
	if resp == nil || !resp.Found {
		return "No relevant context information found."
	}
	var b strings.Builder
	b.WriteString("CONTEXT INFORMATION:\n\n")
	for _, rec := range resp.Records {
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n\n", rec.Key, rec.SourceTag, rec.Value)
	}
	return b.String()
}

// stopwords excluded from derived query terms. Short function words would
// otherwise substring-match almost every record.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "was": {}, "are": {}, "for": {}, "with": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "how": {},
	"why": {}, "about": {}, "tell": {}, "does": {}, "did": {}, "has": {},
	"have": {}, "that": {}, "this": {}, "you": {}, "your": {}, "can": {},
	"please": {}, "will": {}, "from": {}, "into": {},
}

// Tokenize derives lookup terms from task input: lowercase alphanumeric
// runs, minimum three characters, stopwords removed, order preserved.
func Tokenize(input string) []string {
	lower := strings.ToLower(input)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, field := range fields {
		if len(field) < 3 {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}
	return out
}
