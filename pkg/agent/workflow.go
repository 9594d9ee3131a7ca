package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/errors"
	"github.com/jllopis/agentlink/pkg/registry"
)

// WorkflowAgent sequences other agents. Each step names a delegate
// capability tag; the registry resolves it at run time. Workflows are
// all-or-nothing: any child failure aborts the chain.
type WorkflowAgent struct {
	card   core.AgentCard
	steps  []string
	reg    *registry.Registry
	logger *slog.Logger
}

// WorkflowOption configures a WorkflowAgent.
type WorkflowOption func(*WorkflowAgent)

// WithWorkflowLogger sets the workflow logger.
func WithWorkflowLogger(logger *slog.Logger) WorkflowOption {
	return func(w *WorkflowAgent) { w.logger = logger }
}

// NewWorkflow creates a WorkflowAgent over the given registry and ordered
// delegate capability tags.
func NewWorkflow(card core.AgentCard, reg *registry.Registry, steps []string, opts ...WorkflowOption) (*WorkflowAgent, error) {
	if card.ID == "" {
		return nil, errors.New(errors.CodeInvalidInput, "agent card has no id", nil)
	}
	if reg == nil {
		return nil, errors.New(errors.CodeInvalidInput, "registry is required", nil).WithAgent(card.ID)
	}
	if len(steps) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "workflow needs at least one step", nil).WithAgent(card.ID)
	}
	w := &WorkflowAgent{
		card:   card.Clone(),
		steps:  append([]string(nil), steps...),
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Card returns the agent's capability card.
func (w *WorkflowAgent) Card() core.AgentCard { return w.card.Clone() }

// Process resolves every delegate tag up front, then runs the delegates
// sequentially. Each child task carries this agent's ID in its ancestry;
// delegating to an agent already in the chain fails fast with
// DELEGATION_CYCLE. On any child failure the whole workflow fails with
// AGENT_PROCESSING wrapping the child's error and no further step runs.
func (w *WorkflowAgent) Process(ctx context.Context, task *core.Task) (*core.TaskResult, error) {
	task.Start()

	delegates := make([]core.Agent, len(w.steps))
	for i, tag := range w.steps {
		delegate, err := w.reg.ResolveTask(tag, task)
		if err != nil {
			task.Fail()
			return nil, errors.AsAgentLinkError(err).WithAgent(w.card.ID)
		}
		delegates[i] = delegate
	}

	var (
		outputs    []string
		subResults []*core.TaskResult
	)
	for i, delegate := range delegates {
		childInput := task.Input
		if len(outputs) > 0 {
			childInput = task.Input + "\n\nPrevious step output:\n" + outputs[len(outputs)-1]
		}
		child := core.NewChildTask(task, w.card.ID, childInput)

		delegateID := delegate.Card().ID
		if child.HasAncestor(delegateID) {
			task.Fail()
			return nil, errors.New(errors.CodeDelegationCycle, "delegate is an ancestor in the active chain", nil).
				WithAgent(w.card.ID).
				WithContext("delegate", delegateID).
				WithContext("step", w.steps[i])
		}

		w.logger.DebugContext(ctx, "delegating step",
			"workflow_id", w.card.ID, "step", w.steps[i], "delegate", delegateID)
		result, err := delegate.Process(ctx, child)
		if err != nil {
			task.Fail()
			return nil, errors.New(errors.CodeAgentProcessing, "workflow step failed", err).
				WithAgent(w.card.ID).
				WithContext("step", w.steps[i]).
				WithContext("delegate", delegateID)
		}
		outputs = append(outputs, result.OutputText)
		subResults = append(subResults, result)
	}

	result := &core.TaskResult{
		OutputText: strings.Join(outputs, "\n\n"),
		SubResults: subResults,
	}
	task.Complete(result)
	return result, nil
}

var _ core.Agent = (*WorkflowAgent)(nil)
