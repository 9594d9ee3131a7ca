package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/corpus"
)

func testServer() *Server {
	store := corpus.New("company-database", []corpus.Record{
		{Key: "Acme Corp", Value: "Founded 1990"},
		{Key: "Products", Value: "Acme sells rockets and anvils"},
		{Key: "Mission", Value: "Build better anvils"},
	})
	return NewServer("agentlink-context", "0.1.0", store)
}

func testClient(t *testing.T, opts ...ClientOption) *ContextClient {
	t.Helper()
	c, err := NewInProcessClient(testServer(), opts...)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRequestContextFindsRecords(t *testing.T) {
	c := testClient(t)
	task := core.NewTask("When was Acme founded?")
	resp, err := c.RequestContext(context.Background(), task)
	if err != nil {
		t.Fatalf("request context: %v", err)
	}
	if !resp.Found {
		t.Fatalf("expected a hit")
	}
	if resp.Records[0].Key != "Acme Corp" {
		t.Fatalf("expected corpus order, got %v", resp.Records)
	}
	if resp.Latency <= 0 {
		t.Fatalf("expected measured latency, got %v", resp.Latency)
	}
}

func TestRequestContextMissIsNotAnError(t *testing.T) {
	c := testClient(t)
	task := core.NewTask("zzz-nomatch")
	resp, err := c.RequestContext(context.Background(), task)
	if err != nil {
		t.Fatalf("request context: %v", err)
	}
	if resp.Found || len(resp.Records) != 0 {
		t.Fatalf("expected empty miss, got %+v", resp)
	}
}

func TestRequestContextEmptyInput(t *testing.T) {
	c := testClient(t)
	resp, err := c.RequestContext(context.Background(), core.NewTask("to me"))
	if err != nil {
		t.Fatalf("request context: %v", err)
	}
	if resp.Found {
		t.Fatalf("stopword-only input must not match")
	}
}

func TestRequestContextTimeoutOption(t *testing.T) {
	c := testClient(t, WithLookupTimeout(50*time.Millisecond))
	if c.timeout != 50*time.Millisecond {
		t.Fatalf("timeout option not applied")
	}
}

func TestFormatForPrompt(t *testing.T) {
	resp := &ContextResponse{
		Found: true,
		Records: []corpus.Record{
			{Key: "Acme Corp", Value: "Founded 1990", SourceTag: "company-database - Acme Corp"},
		},
	}
	block := FormatForPrompt(resp)
	if !strings.Contains(block, "CONTEXT INFORMATION:") {
		t.Fatalf("missing heading: %q", block)
	}
	if !strings.Contains(block, "Founded 1990") {
		t.Fatalf("missing record value: %q", block)
	}
	if !strings.Contains(block, "company-database - Acme Corp") {
		t.Fatalf("missing source tag: %q", block)
	}
}

func TestFormatForPromptMiss(t *testing.T) {
	if got := FormatForPrompt(&ContextResponse{Found: false}); !strings.Contains(got, "No relevant context") {
		t.Fatalf("unexpected miss text %q", got)
	}
	if got := FormatForPrompt(nil); !strings.Contains(got, "No relevant context") {
		t.Fatalf("unexpected nil text %q", got)
	}
}

func TestTokenize(t *testing.T) {
	terms := Tokenize("When was Acme Corp founded? Tell me about ACME!")
	want := []string{"acme", "corp", "founded"}
	if len(terms) != len(want) {
		t.Fatalf("expected %v, got %v", want, terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, terms)
		}
	}
}
