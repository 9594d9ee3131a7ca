package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/agentlink/pkg/agent"
	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/corpus"
	"github.com/jllopis/agentlink/pkg/errors"
	"github.com/jllopis/agentlink/pkg/llm"
	"github.com/jllopis/agentlink/pkg/mcp"
	"github.com/jllopis/agentlink/pkg/registry"
)

type staticContext struct {
	resp *mcp.ContextResponse
}

func (s staticContext) RequestContext(_ context.Context, _ *core.Task) (*mcp.ContextResponse, error) {
	return s.resp, nil
}

func acmeContext() staticContext {
	return staticContext{resp: &mcp.ContextResponse{
		Found:   true,
		Latency: time.Millisecond,
		Records: []corpus.Record{{Key: "Acme Corp", Value: "Founded 1990", SourceTag: "test"}},
	}}
}

func setup(t *testing.T, mock *llm.MockProvider) (*registry.Registry, *Orchestrator) {
	t.Helper()
	reg := registry.New()
	assistant, err := agent.NewLlm(
		core.AgentCard{ID: "assistant", DisplayName: "Assistant", Capabilities: []string{"chat"}},
		mock,
		agent.WithInstruction("You are a helpful assistant."),
		agent.WithContextProvider(acmeContext()),
	)
	if err != nil {
		t.Fatalf("assistant: %v", err)
	}
	if err := reg.Register(assistant); err != nil {
		t.Fatalf("register: %v", err)
	}

	orch, err := New(reg)
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	return reg, orch
}

func TestRunDirect(t *testing.T) {
	mock := &llm.MockProvider{Response: "hello"}
	_, orch := setup(t, mock)

	out, err := orch.Run(context.Background(), Request{
		Input:      "say hello",
		Mode:       ModeDirect,
		Capability: "chat",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Result == nil || out.Result.OutputText != "hello" {
		t.Fatalf("unexpected result %+v", out)
	}
	if out.AgentCard.ID != "assistant" {
		t.Fatalf("unexpected agent %q", out.AgentCard.ID)
	}
	if out.TaskID == "" {
		t.Fatalf("expected task id")
	}
}

func TestRunDirectNoCapableAgent(t *testing.T) {
	mock := &llm.MockProvider{Response: "hello"}
	_, orch := setup(t, mock)

	_, err := orch.Run(context.Background(), Request{
		Input:      "anything",
		Mode:       ModeDirect,
		Capability: "unknown-capability",
	})
	if !errors.HasCode(err, errors.CodeNoCapableAgent) {
		t.Fatalf("expected NO_CAPABLE_AGENT, got %v", err)
	}
}

func TestRunComparison(t *testing.T) {
	mock := &llm.MockProvider{Response: "answer"}
	_, orch := setup(t, mock)

	out, err := orch.Run(context.Background(), Request{
		Input:      "When was Acme founded?",
		Mode:       ModeWithContextComparison,
		Capability: "chat",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.WithContext == nil || out.WithoutContext == nil {
		t.Fatalf("expected both results, got %+v", out)
	}
	if len(mock.Prompts) != 2 {
		t.Fatalf("expected two prompts, got %d", len(mock.Prompts))
	}
	if !strings.Contains(mock.Prompts[0], "Founded 1990") {
		t.Fatalf("with-context prompt missing record: %q", mock.Prompts[0])
	}
	if strings.Contains(mock.Prompts[1], "Founded 1990") {
		t.Fatalf("without-context prompt leaked the record: %q", mock.Prompts[1])
	}
	// used_tools lists are independent slices.
	out.WithContext.UsedTools = append(out.WithContext.UsedTools, "mutated")
	if len(out.WithoutContext.UsedTools) != 0 {
		t.Fatalf("comparison results share state")
	}
}

func TestRunComparisonRequiresLlmAgent(t *testing.T) {
	mock := &llm.MockProvider{Response: "x"}
	reg, orch := setup(t, mock)

	w, err := agent.NewWorkflow(
		core.AgentCard{ID: "wf", Capabilities: []string{"composite"}},
		reg, []string{"chat"},
	)
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if err := reg.Register(w); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = orch.Run(context.Background(), Request{
		Input:      "x",
		Mode:       ModeWithContextComparison,
		Capability: "composite",
	})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRunWorkflow(t *testing.T) {
	mock := &llm.MockProvider{Response: "step output"}
	reg, orch := setup(t, mock)

	w, err := agent.NewWorkflow(
		core.AgentCard{ID: "research-workflow", Capabilities: []string{"research-and-chat"}},
		reg, []string{"chat"},
	)
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if err := reg.Register(w); err != nil {
		t.Fatalf("register: %v", err)
	}

	out, err := orch.Run(context.Background(), Request{
		Input:      "study acme",
		Mode:       ModeWorkflow,
		Capability: "research-and-chat",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Result == nil || len(out.Result.SubResults) != 1 {
		t.Fatalf("expected workflow result with one sub-result, got %+v", out.Result)
	}
}

func TestRunWorkflowRequiresWorkflowAgent(t *testing.T) {
	mock := &llm.MockProvider{Response: "x"}
	_, orch := setup(t, mock)

	_, err := orch.Run(context.Background(), Request{
		Input:      "x",
		Mode:       ModeWorkflow,
		Capability: "chat",
	})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRunUnknownMode(t *testing.T) {
	mock := &llm.MockProvider{Response: "x"}
	_, orch := setup(t, mock)
	_, err := orch.Run(context.Background(), Request{Input: "x", Mode: Mode("bogus"), Capability: "chat"})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
