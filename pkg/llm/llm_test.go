package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockProviderRecordsPrompts(t *testing.T) {
	mock := &MockProvider{Response: "hello"}
	resp, err := mock.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if len(mock.Prompts) != 1 || mock.Prompts[0] != "hi" {
		t.Fatalf("expected recorded prompt, got %v", mock.Prompts)
	}
}

func TestFailingMockProvider(t *testing.T) {
	failing := &FailingMockProvider{}
	if _, err := failing.Generate(context.Background(), GenerateRequest{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOllamaGenerateMapsOptions(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Response:        "generated",
			Done:            true,
			EvalCount:       5,
			PromptEvalCount: 3,
		})
	}))
	defer srv.Close()

	provider := NewOllama(srv.URL)
	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Model:  "test-model",
		Prompt: "question",
		Options: Options{Temperature: 0.2, MaxOutputTokens: 64},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "generated" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 8 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if got.Options["temperature"] != 0.2 {
		t.Fatalf("temperature not forwarded: %v", got.Options)
	}
	if got.Options["num_predict"] != float64(64) {
		t.Fatalf("max tokens not forwarded: %v", got.Options)
	}
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewOllama(srv.URL)
	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error on 500")
	}
}
