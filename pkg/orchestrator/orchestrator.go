// Package orchestrator drives a task through registry lookup, optional
// delegation and optional context augmentation. It never retries: failures
// surface to the caller with their code and originating agent intact.
package orchestrator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/agentlink/pkg/agent"
	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/errors"
	"github.com/jllopis/agentlink/pkg/registry"
)

// Mode selects how a request is executed.
type Mode string

const (
	// ModeDirect resolves one capable agent and returns its result.
	ModeDirect Mode = "direct"
	// ModeWithContextComparison runs the same LlmAgent twice, with and
	// without its context provider, for side-by-side display.
	ModeWithContextComparison Mode = "with_context_comparison"
	// ModeWorkflow resolves a workflow agent for a composite capability.
	ModeWorkflow Mode = "workflow"
)

// Request is one user interaction.
type Request struct {
	Input      string
	Mode       Mode
	Capability string
}

// Result carries the outcome of a run. Result is set for direct and
// workflow modes; WithContext/WithoutContext are set for comparison mode.
type Result struct {
	Mode           Mode
	AgentCard      core.AgentCard
	TaskID         string
	Result         *core.TaskResult
	WithContext    *core.TaskResult
	WithoutContext *core.TaskResult
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// Orchestrator routes requests through the shared registry. It holds no
// per-request state, so one instance serves concurrent sessions.
type Orchestrator struct {
	reg    *registry.Registry
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates an orchestrator over a populated registry.
func New(reg *registry.Registry, opts ...Option) (*Orchestrator, error) {
	if reg == nil {
		return nil, errors.New(errors.CodeInvalidInput, "registry is required", nil)
	}
	o := &Orchestrator{
		reg:    reg,
		logger: slog.Default(),
		tracer: otel.Tracer("agentlink/orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes one request. Routing failures and agent failures propagate
// untouched; retrying is a caller-level policy.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.run",
		trace.WithAttributes(
			attribute.String("mode", string(req.Mode)),
			attribute.String("capability", req.Capability),
		))
	defer span.End()

	result, err := o.run(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		o.logger.ErrorContext(ctx, "run failed",
			"mode", req.Mode, "capability", req.Capability, "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("agent_id", result.AgentCard.ID))
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request) (*Result, error) {
	switch req.Mode {
	case ModeDirect:
		return o.runDirect(ctx, req)
	case ModeWithContextComparison:
		return o.runComparison(ctx, req)
	case ModeWorkflow:
		return o.runWorkflow(ctx, req)
	default:
		return nil, errors.New(errors.CodeInvalidInput, "unknown mode", nil).
			WithContext("mode", string(req.Mode))
	}
}

func (o *Orchestrator) runDirect(ctx context.Context, req Request) (*Result, error) {
	resolved, err := o.reg.Resolve(req.Capability)
	if err != nil {
		return nil, err
	}
	task := core.NewTask(req.Input)
	result, err := resolved.Process(ctx, task)
	if err != nil {
		return nil, err
	}
	return &Result{
		Mode:      req.Mode,
		AgentCard: resolved.Card(),
		TaskID:    task.ID,
		Result:    result,
	}, nil
}

func (o *Orchestrator) runComparison(ctx context.Context, req Request) (*Result, error) {
	resolved, err := o.reg.Resolve(req.Capability)
	if err != nil {
		return nil, err
	}
	llmAgent, ok := resolved.(*agent.LlmAgent)
	if !ok {
		return nil, errors.New(errors.CodeInvalidInput, "comparison mode requires an LLM agent", nil).
			WithAgent(resolved.Card().ID)
	}

	// Two independent evaluations over fresh tasks; nothing is shared
	// between the runs beyond the immutable agent configuration.
	withTask := core.NewTask(req.Input)
	withResult, err := llmAgent.Process(ctx, withTask)
	if err != nil {
		return nil, err
	}
	withoutTask := core.NewTask(req.Input)
	withoutResult, err := llmAgent.WithoutContext().Process(ctx, withoutTask)
	if err != nil {
		return nil, err
	}
	return &Result{
		Mode:           req.Mode,
		AgentCard:      resolved.Card(),
		TaskID:         withTask.ID,
		WithContext:    withResult,
		WithoutContext: withoutResult,
	}, nil
}

func (o *Orchestrator) runWorkflow(ctx context.Context, req Request) (*Result, error) {
	resolved, err := o.reg.Resolve(req.Capability)
	if err != nil {
		return nil, err
	}
	if _, ok := resolved.(*agent.WorkflowAgent); !ok {
		return nil, errors.New(errors.CodeInvalidInput, "workflow mode requires a workflow agent", nil).
			WithAgent(resolved.Card().ID)
	}
	task := core.NewTask(req.Input)
	result, err := resolved.Process(ctx, task)
	if err != nil {
		return nil, err
	}
	return &Result{
		Mode:      req.Mode,
		AgentCard: resolved.Card(),
		TaskID:    task.ID,
		Result:    result,
	}, nil
}
