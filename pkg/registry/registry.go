// Package registry holds the capability cards of all known agents and
// resolves tasks to a capable agent. Registration is expected at startup
// only; after that the registry is read-heavy and safe for concurrent use.
package registry

import (
	"strings"
	"sync"

	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/errors"
)

// Registry maps agent IDs to agents and preserves registration order so
// capability lookups are stable and deterministic.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]core.Agent
	agents []core.Agent
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]core.Agent)}
}

// Register adds an agent. It fails with CodeDuplicateAgent when the ID is
// already present and with CodeInvalidInput when the card declares no
// capabilities, since such an agent could never be resolved.
func (r *Registry) Register(agent core.Agent) error {
	card := agent.Card()
	if strings.TrimSpace(card.ID) == "" {
		return errors.New(errors.CodeInvalidInput, "agent card has no id", nil)
	}
	if len(card.Capabilities) == 0 {
		return errors.New(errors.CodeInvalidInput, "agent card declares no capabilities", nil).
			WithAgent(card.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[card.ID]; ok {
		return errors.New(errors.CodeDuplicateAgent, "agent id already registered", nil).
			WithAgent(card.ID)
	}
	r.byID[card.ID] = agent
	r.agents = append(r.agents, agent)
	return nil
}

// Get returns the agent with the given ID, or nil.
func (r *Registry) Get(id string) core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// FindCapable returns the cards of all agents declaring tag, in
// registration order. An unknown tag yields an empty slice, not an error.
func (r *Registry) FindCapable(tag string) []core.AgentCard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.AgentCard, 0)
	for _, agent := range r.agents {
		if card := agent.Card(); card.HasCapability(tag) {
			out = append(out, card.Clone())
		}
	}
	return out
}

// Resolve picks the earliest-registered agent declaring tag. It fails with
// CodeNoCapableAgent when nothing matches; the caller surfaces that as a
// terminal failure for the request.
func (r *Registry) Resolve(tag string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, agent := range r.agents {
		if agent.Card().HasCapability(tag) {
			return agent, nil
		}
	}
	return nil, errors.New(errors.CodeNoCapableAgent, "no agent declares capability", nil).
		WithContext("capability", tag)
}

// ResolveTask resolves the capability tag attached to a task's routing
// request. It exists so workflow delegation and orchestrator routing share
// one code path.
func (r *Registry) ResolveTask(tag string, task *core.Task) (core.Agent, error) {
	agent, err := r.Resolve(tag)
	if err != nil {
		if task != nil {
			return nil, errors.AsAgentLinkError(err).WithContext("task_id", task.ID)
		}
		return nil, err
	}
	return agent, nil
}

// Cards lists all registered cards in registration order.
func (r *Registry) Cards() []core.AgentCard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.AgentCard, 0, len(r.agents))
	for _, agent := range r.agents {
		out = append(out, agent.Card().Clone())
	}
	return out
}
