package core

import "context"

// Agent is the minimal executable unit of the runtime. The closed set of
// implementations is agent.LlmAgent and agent.WorkflowAgent; routing never
// depends on anything beyond the card and Process.
type Agent interface {
	Card() AgentCard
	Process(ctx context.Context, task *Task) (*TaskResult, error)
}
