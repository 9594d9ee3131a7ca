// Package session persists orchestrator results for the surrounding
// application. The core treats snapshots as opaque serializable state and
// defines no wire format beyond JSON.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/orchestrator"
)

// ErrNotFound indicates no state is stored under the session ID.
var ErrNotFound = errors.New("session: not found")

// Snapshot is the state saved per session.
type Snapshot struct {
	Input          string               `json:"input"`
	Mode           orchestrator.Mode    `json:"mode"`
	AgentID        string               `json:"agent_id"`
	Result         *core.TaskResult     `json:"result,omitempty"`
	WithContext    *core.TaskResult     `json:"with_context,omitempty"`
	WithoutContext *core.TaskResult     `json:"without_context,omitempty"`
	SavedAt        time.Time            `json:"saved_at"`
}

// FromResult builds a snapshot from an orchestrator result.
func FromResult(input string, result *orchestrator.Result) Snapshot {
	return Snapshot{
		Input:          input,
		Mode:           result.Mode,
		AgentID:        result.AgentCard.ID,
		Result:         result.Result,
		WithContext:    result.WithContext,
		WithoutContext: result.WithoutContext,
		SavedAt:        time.Now().UTC(),
	}
}

// Store saves and loads session state. Save overwrites any previous state
// for the ID.
type Store interface {
	Save(ctx context.Context, sessionID string, state Snapshot) error
	Load(ctx context.Context, sessionID string) (Snapshot, error)
}
