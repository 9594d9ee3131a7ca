// Package agent provides the closed set of agent variants: LlmAgent and
// WorkflowAgent. Both implement core.Agent; routing depends on nothing else.
package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/errors"
	"github.com/jllopis/agentlink/pkg/llm"
	"github.com/jllopis/agentlink/pkg/mcp"
	"github.com/jllopis/agentlink/pkg/resilience"
	"github.com/jllopis/agentlink/pkg/tool"
)

const defaultModelTimeout = 5 * time.Second

// ContextProvider supplies external records for prompt augmentation.
// Satisfied by mcp.ContextClient.
type ContextProvider interface {
	RequestContext(ctx context.Context, task *core.Task) (*mcp.ContextResponse, error)
}

// LlmAgent processes a task with a single model call, optionally preceded
// by one context exchange and at most one tool invocation.
type LlmAgent struct {
	card         core.AgentCard
	instruction  string
	provider     llm.Provider
	model        string
	options      llm.Options
	tools        []*tool.Tool
	selector     tool.Selector
	contextProv  ContextProvider
	modelTimeout time.Duration
	logger       *slog.Logger
}

// LlmOption configures an LlmAgent.
type LlmOption func(*LlmAgent)

// WithInstruction sets the system instruction prepended to every prompt.
func WithInstruction(instruction string) LlmOption {
	return func(a *LlmAgent) { a.instruction = instruction }
}

// WithModel selects the model name and sampling options.
func WithModel(model string, options llm.Options) LlmOption {
	return func(a *LlmAgent) {
		a.model = model
		a.options = options
	}
}

// WithTools registers the tools the agent may invoke. Tools are fixed at
// construction time.
func WithTools(tools ...*tool.Tool) LlmOption {
	return func(a *LlmAgent) { a.tools = append(a.tools, tools...) }
}

// WithToolSelector replaces the default directive trigger policy.
func WithToolSelector(selector tool.Selector) LlmOption {
	return func(a *LlmAgent) { a.selector = selector }
}

// WithContextProvider attaches a context provider for prompt augmentation.
func WithContextProvider(provider ContextProvider) LlmOption {
	return func(a *LlmAgent) { a.contextProv = provider }
}

// WithModelTimeout bounds the model call.
func WithModelTimeout(timeout time.Duration) LlmOption {
	return func(a *LlmAgent) {
		if timeout > 0 {
			a.modelTimeout = timeout
		}
	}
}

// WithLogger sets the agent logger.
func WithLogger(logger *slog.Logger) LlmOption {
	return func(a *LlmAgent) { a.logger = logger }
}

// NewLlm creates an LlmAgent. The provider is required.
func NewLlm(card core.AgentCard, provider llm.Provider, opts ...LlmOption) (*LlmAgent, error) {
	if card.ID == "" {
		return nil, errors.New(errors.CodeInvalidInput, "agent card has no id", nil)
	}
	if provider == nil {
		return nil, errors.New(errors.CodeInvalidInput, "llm provider is required", nil).WithAgent(card.ID)
	}
	a := &LlmAgent{
		card:         card.Clone(),
		provider:     provider,
		selector:     tool.DirectiveSelector,
		modelTimeout: defaultModelTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Card returns the agent's capability card.
func (a *LlmAgent) Card() core.AgentCard { return a.card.Clone() }

// WithoutContext returns a copy of the agent with the context provider
// detached. The copy shares no mutable state with the original, so the
// with/without comparison runs as two independent evaluations.
func (a *LlmAgent) WithoutContext() *LlmAgent {
	clone := *a
	clone.card = a.card.Clone()
	clone.tools = append([]*tool.Tool(nil), a.tools...)
	clone.contextProv = nil
	return &clone
}

// Process runs the context exchange, the optional single tool round and the
// model call, in that order. Any failure is wrapped as AGENT_PROCESSING
// carrying this agent's ID; the context-timeout fallback is the only
// swallowed condition, and it is logged.
func (a *LlmAgent) Process(ctx context.Context, task *core.Task) (*core.TaskResult, error) {
	task.Start()

	contextBlock, err := a.lookupContext(ctx, task)
	if err != nil {
		task.Fail()
		return nil, errors.New(errors.CodeAgentProcessing, "context exchange failed", err).WithAgent(a.card.ID)
	}

	toolBlock, usedTools, input, err := a.runToolRound(ctx, task.Input)
	if err != nil {
		task.Fail()
		return nil, errors.New(errors.CodeAgentProcessing, "tool invocation failed", err).WithAgent(a.card.ID)
	}

	prompt := buildPrompt(a.instruction, contextBlock, toolBlock, input)
	resp, err := resilience.WithTimeout(ctx, a.modelTimeout, errors.CodeModelCall,
		func(ctx context.Context) (*llm.GenerateResponse, error) {
			out, genErr := a.provider.Generate(ctx, llm.GenerateRequest{
				Model:   a.model,
				Prompt:  prompt,
				Options: a.options,
			})
			if genErr != nil {
				return nil, errors.New(errors.CodeModelCall, "text generation failed", genErr).
					WithRecoverable(true)
			}
			return out, nil
		})
	if err != nil {
		task.Fail()
		return nil, errors.New(errors.CodeAgentProcessing, "model call failed", err).WithAgent(a.card.ID)
	}

	result := &core.TaskResult{
		OutputText: resp.Text,
		UsedTools:  usedTools,
	}
	task.Complete(result)
	return result, nil
}

// lookupContext returns the context block for the prompt, or "" when no
// provider is attached, the lookup misses, or it times out.
func (a *LlmAgent) lookupContext(ctx context.Context, task *core.Task) (string, error) {
	if a.contextProv == nil {
		return "", nil
	}
	resp, err := a.contextProv.RequestContext(ctx, task)
	if err != nil {
		if errors.HasCode(err, errors.CodeContextTimeout) {
			a.logger.WarnContext(ctx, "context lookup timed out, proceeding without context",
				"agent_id", a.card.ID, "task_id", task.ID)
			return "", nil
		}
		return "", err
	}
	if !resp.Found {
		return "", nil
	}
	a.logger.DebugContext(ctx, "context records attached",
		"agent_id", a.card.ID, "records", len(resp.Records), "latency", resp.Latency)
	return mcp.FormatForPrompt(resp), nil
}

// runToolRound fires at most one tool per call. The selector decides
// whether an invocation happens; the schema validates its arguments.
func (a *LlmAgent) runToolRound(ctx context.Context, input string) (block string, usedTools []string, rest string, err error) {
	rest = input
	if len(a.tools) == 0 || a.selector == nil {
		return "", nil, rest, nil
	}
	inv := a.selector(input)
	if inv == nil {
		return "", nil, rest, nil
	}
	selected := a.findTool(inv.Name)
	if selected == nil {
		return "", nil, "", errors.New(errors.CodeToolArgument, "unknown tool", nil).
			WithAgent(a.card.ID).
			WithContext("tool", inv.Name)
	}
	output, callErr := selected.Call(ctx, inv.Args)
	if callErr != nil {
		return "", nil, "", callErr
	}
	if inv.Rest != "" {
		rest = inv.Rest
	}
	block = "TOOL OUTPUT (" + selected.Name + "):\n" + output + "\n"
	return block, []string{selected.Name}, rest, nil
}

func (a *LlmAgent) findTool(name string) *tool.Tool {
	for _, t := range a.tools {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// buildPrompt assembles the final prompt. It is a pure function: two calls
// with the same arguments yield the same prompt, which keeps the
// with/without-context comparison side-effect free.
func buildPrompt(instruction, contextBlock, toolBlock, input string) string {
	var b strings.Builder
	if instruction != "" {
		b.WriteString(instruction)
		b.WriteString("\n\n")
	}
	if contextBlock != "" {
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	if toolBlock != "" {
		b.WriteString(toolBlock)
		b.WriteString("\n")
	}
	b.WriteString(input)
	return b.String()
}

var _ core.Agent = (*LlmAgent)(nil)
