package core

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus describes the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is the unit of work routed through the registry. Tasks live for a
// single request: they are created by the orchestrator, mutated by whichever
// agent currently holds them and discarded when the request finishes.
type Task struct {
	ID            string
	Input         string
	OriginAgentID string
	// Ancestry is the ordered chain of agent IDs that delegated this task,
	// root first. It is the delegation chain used for cycle detection.
	Ancestry  []string
	Status    TaskStatus
	Result    *TaskResult
	CreatedAt time.Time
}

// NewTask creates a pending task with a generated ID.
func NewTask(input string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		Input:     input,
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// NewChildTask creates a sub-task spawned by originID while processing
// parent. The child inherits the parent's ancestry with originID appended.
func NewChildTask(parent *Task, originID, input string) *Task {
	child := NewTask(input)
	child.OriginAgentID = originID
	child.Ancestry = append(append([]string(nil), parent.Ancestry...), originID)
	return child
}

// HasAncestor reports whether agentID appears in the task's delegation chain.
func (t *Task) HasAncestor(agentID string) bool {
	for _, id := range t.Ancestry {
		if id == agentID {
			return true
		}
	}
	return false
}

// Start marks the task in progress.
func (t *Task) Start() {
	t.Status = TaskStatusInProgress
}

// Complete records the result and marks the task completed.
func (t *Task) Complete(result *TaskResult) {
	t.Status = TaskStatusCompleted
	t.Result = result
}

// Fail marks the task failed.
func (t *Task) Fail() {
	t.Status = TaskStatusFailed
}

// TaskResult is what an agent returns for a processed task. Workflow agents
// collect their children's results in SubResults, in delegation order.
type TaskResult struct {
	OutputText string        `json:"output_text"`
	UsedTools  []string      `json:"used_tools,omitempty"`
	SubResults []*TaskResult `json:"sub_results,omitempty"`
}
