// Package query runs the billable work of the acctdemo service: a chat
// completion against an OpenAI-compatible provider. The token usage the
// provider reports is the actual count charged to the project.
package query

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Completer is the consumer interface over the completion provider client.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Result is the outcome of one completed query.
type Result struct {
	OutputText string
	Tokens     int64
}

// Service executes queries against the completion provider.
type Service struct {
	client Completer
	model  string
	logger *zap.Logger
}

// New creates a query Service.
func New(client Completer, model string, logger *zap.Logger) *Service {
	return &Service{client: client, model: model, logger: logger}
}

// EstimateCount returns the usage estimate for an input before the
// completion runs: three tokens per input byte, deliberately pessimistic
// so the reservation covers the eventual charge.
func (s *Service) EstimateCount(input string) int64 {
	return int64(len(input)) * 3
}

// Run executes the completion and returns the output text together with
// the total token count reported by the provider.
func (s *Service) Run(ctx context.Context, input string) (Result, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("empty completion response")
	}

	s.logger.Debug("query completed",
		zap.String("model", s.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return Result{
		OutputText: resp.Choices[0].Message.Content,
		Tokens:     int64(resp.Usage.TotalTokens),
	}, nil
}
