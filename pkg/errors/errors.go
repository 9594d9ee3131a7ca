// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling for agentlink.
// Every failure that crosses a package boundary carries a code and,
// where known, the identifier of the agent it originated in.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies agentlink errors for routing, logging and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeDuplicateAgent indicates an agent ID was registered twice.
	// Registration happens at startup, so this is fatal to wiring.
	CodeDuplicateAgent ErrorCode = "DUPLICATE_AGENT"

	// CodeNoCapableAgent indicates no registered agent matched the
	// requested capability. Terminal for the request, never retried.
	CodeNoCapableAgent ErrorCode = "NO_CAPABLE_AGENT"

	// CodeToolArgument indicates tool arguments failed schema validation.
	CodeToolArgument ErrorCode = "TOOL_ARGUMENT"

	// CodeModelCall indicates the text-generation collaborator failed
	// or exceeded its timeout.
	CodeModelCall ErrorCode = "MODEL_CALL"

	// CodeContextTimeout indicates a context lookup exceeded its timeout.
	// Agents treat this as a degradation, not a failure.
	CodeContextTimeout ErrorCode = "CONTEXT_TIMEOUT"

	// CodeDelegationCycle indicates a workflow tried to delegate to an
	// agent already present in its active delegation chain.
	CodeDelegationCycle ErrorCode = "DELEGATION_CYCLE"

	// CodeAgentProcessing wraps any failure raised while an agent was
	// processing a task, including child failures inside a workflow.
	CodeAgentProcessing ErrorCode = "AGENT_PROCESSING"
)

// AgentLinkError is a typed error with enough structure for the caller
// to render a useful message. It implements the error interface and can
// be unwrapped with errors.As / errors.Is.
type AgentLinkError struct {
	Code        ErrorCode
	Message     string
	Err         error
	AgentID     string
	Context     map[string]any
	Recoverable bool
}

// Error implements the error interface.
func (e *AgentLinkError) Error() string {
	switch {
	case e.Err != nil && e.AgentID != "":
		return fmt.Sprintf("[%s] agent %s: %s: %v", e.Code, e.AgentID, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	case e.AgentID != "":
		return fmt.Sprintf("[%s] agent %s: %s", e.Code, e.AgentID, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *AgentLinkError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *AgentLinkError) MarshalJSON() ([]byte, error) {
	payload := struct {
		Code        string         `json:"code"`
		Message     string         `json:"message"`
		AgentID     string         `json:"agent_id,omitempty"`
		Err         string         `json:"error,omitempty"`
		Recoverable bool           `json:"recoverable"`
		Context     map[string]any `json:"context,omitempty"`
	}{
		Code:        string(e.Code),
		Message:     e.Message,
		AgentID:     e.AgentID,
		Recoverable: e.Recoverable,
		Context:     e.Context,
	}
	if e.Err != nil {
		payload.Err = e.Err.Error()
	}
	return json.Marshal(payload)
}

// New creates a new AgentLinkError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *AgentLinkError {
	return &AgentLinkError{
		Code:    code,
		Message: msg,
		Err:     cause,
	}
}

// WithAgent records the originating agent ID.
// Returns the error for method chaining.
func (e *AgentLinkError) WithAgent(agentID string) *AgentLinkError {
	e.AgentID = agentID
	return e
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *AgentLinkError) WithContext(key string, value any) *AgentLinkError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithRecoverable marks whether the caller may sensibly retry by hand.
// Returns the error for method chaining.
func (e *AgentLinkError) WithRecoverable(recoverable bool) *AgentLinkError {
	e.Recoverable = recoverable
	return e
}

// AsAgentLinkError attempts to convert an error to an AgentLinkError.
// Unknown errors are wrapped as CodeInternal.
func AsAgentLinkError(err error) *AgentLinkError {
	if err == nil {
		return nil
	}
	var ae *AgentLinkError
	if stderrors.As(err, &ae) {
		return ae
	}
	return New(CodeInternal, "wrapped error", err)
}

// HasCode reports whether err or any error in its chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AgentLinkError
		if !stderrors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Err
	}
	return false
}
