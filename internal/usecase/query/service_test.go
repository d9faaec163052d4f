package query

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// --- Mock ---

type mockCompleter struct {
	resp openai.ChatCompletionResponse
	err  error

	gotReq openai.ChatCompletionRequest
}

func (m *mockCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.gotReq = req
	return m.resp, m.err
}

// --- Tests ---

func TestEstimateCount(t *testing.T) {
	svc := New(&mockCompleter{}, "test-model", zap.NewNop())

	if got := svc.EstimateCount("hello"); got != 15 {
		t.Errorf("EstimateCount(%q) = %d, want 15", "hello", got)
	}
	if got := svc.EstimateCount(""); got != 0 {
		t.Errorf("EstimateCount(\"\") = %d, want 0", got)
	}
}

func TestRun_MapsOutputAndTokens(t *testing.T) {
	m := &mockCompleter{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "the answer"}},
			},
			Usage: openai.Usage{TotalTokens: 42},
		},
	}
	svc := New(m, "test-model", zap.NewNop())

	res, err := svc.Run(context.Background(), "the question")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.OutputText != "the answer" {
		t.Errorf("output = %q, want %q", res.OutputText, "the answer")
	}
	if res.Tokens != 42 {
		t.Errorf("tokens = %d, want 42", res.Tokens)
	}
	if m.gotReq.Model != "test-model" {
		t.Errorf("model = %q, want %q", m.gotReq.Model, "test-model")
	}
}

func TestRun_ProviderError(t *testing.T) {
	cause := errors.New("rate limited")
	svc := New(&mockCompleter{err: cause}, "test-model", zap.NewNop())

	_, err := svc.Run(context.Background(), "input")
	if !errors.Is(err, cause) {
		t.Fatalf("expected the provider error, got %v", err)
	}
}

func TestRun_EmptyChoices(t *testing.T) {
	svc := New(&mockCompleter{}, "test-model", zap.NewNop())

	if _, err := svc.Run(context.Background(), "input"); err == nil {
		t.Fatal("expected error for empty completion response")
	}
}
