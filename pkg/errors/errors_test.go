package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeModelCall, "generate failed", fmt.Errorf("boom")).WithAgent("assistant")
	msg := err.Error()
	if !strings.Contains(msg, "MODEL_CALL") {
		t.Fatalf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "assistant") {
		t.Fatalf("expected agent id in message, got %q", msg)
	}
	if !strings.Contains(msg, "boom") {
		t.Fatalf("expected cause in message, got %q", msg)
	}
}

func TestUnwrapChain(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	inner := New(CodeModelCall, "generate failed", cause)
	outer := New(CodeAgentProcessing, "workflow step failed", inner).WithAgent("research-workflow")

	if !stderrors.Is(outer, cause) {
		t.Fatalf("expected errors.Is to reach the root cause")
	}
	var ae *AgentLinkError
	if !stderrors.As(outer, &ae) || ae.Code != CodeAgentProcessing {
		t.Fatalf("expected outer code first, got %+v", ae)
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeNoCapableAgent, "no agent for tag", nil)
	outer := New(CodeAgentProcessing, "delegation failed", inner)

	if !HasCode(outer, CodeAgentProcessing) {
		t.Fatalf("expected outer code to match")
	}
	if !HasCode(outer, CodeNoCapableAgent) {
		t.Fatalf("expected inner code to match")
	}
	if HasCode(outer, CodeToolArgument) {
		t.Fatalf("did not expect TOOL_ARGUMENT in chain")
	}
	if HasCode(nil, CodeInternal) {
		t.Fatalf("nil error must not match any code")
	}
}

func TestAsAgentLinkErrorWrapsUnknown(t *testing.T) {
	err := AsAgentLinkError(fmt.Errorf("plain"))
	if err.Code != CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if AsAgentLinkError(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeToolArgument, "missing field", nil).
		WithAgent("analyst").
		WithContext("field", "query").
		WithRecoverable(false)
	payload, jerr := err.MarshalJSON()
	if jerr != nil {
		t.Fatalf("marshal: %v", jerr)
	}
	for _, want := range []string{"TOOL_ARGUMENT", "analyst", "query"} {
		if !strings.Contains(string(payload), want) {
			t.Fatalf("expected %q in %s", want, payload)
		}
	}
}
