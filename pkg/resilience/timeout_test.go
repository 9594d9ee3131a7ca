package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/jllopis/agentlink/pkg/errors"
)

func TestWithTimeoutCompletes(t *testing.T) {
	out, err := WithTimeout(context.Background(), time.Second, errors.CodeModelCall, func(_ context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected value %q", out)
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	_, err := WithTimeout(context.Background(), 10*time.Millisecond, errors.CodeContextTimeout, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(time.Second):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	if !errors.HasCode(err, errors.CodeContextTimeout) {
		t.Fatalf("expected CONTEXT_TIMEOUT, got %v", err)
	}
	if ae := errors.AsAgentLinkError(err); !ae.Recoverable {
		t.Fatalf("timeouts should be marked recoverable")
	}
}

func TestWithTimeoutZeroDisables(t *testing.T) {
	out, err := WithTimeout(context.Background(), 0, errors.CodeModelCall, func(_ context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || out != 42 {
		t.Fatalf("unexpected result %d %v", out, err)
	}
}
