package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"

	"github.com/hearthhq/hearth/internal/config"
)

const (
	maxCompletionTokens = 500
	maxRetries          = 2
	retryBase           = 500 * time.Millisecond
	requestTimeout      = 30 * time.Second
)

// ErrDisabled is returned when no API key is configured. Callers fall
// back to local heuristics instead of surfacing it.
var ErrDisabled = errors.New("ai: not configured")

// Service talks to an OpenAI-compatible chat completion endpoint and
// turns its answers into todo prioritization and insight text. With no
// API key it stays constructed but disabled, and every operation serves
// its fallback.
type Service struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewService(cfg config.AIConfig, logger *slog.Logger) *Service {
	s := &Service{
		model:  cfg.Model,
		logger: logger.With("component", "ai"),
	}
	if cfg.APIKey == "" {
		s.logger.Info("AI disabled, no API key configured")
		return s
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	s.logger.Info("AI enabled", "model", cfg.Model)
	return s
}

// Enabled reports whether an API key was configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// complete sends a single user message and returns the model's text.
// Transient failures are retried with exponential backoff.
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", ErrDisabled
	}

	var content string
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		resp, err := s.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
			Model:     s.model,
			MaxTokens: maxCompletionTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			if transient(err) {
				s.logger.Warn("completion attempt failed", "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return content, nil
}

// transient reports whether an error is worth retrying. Rate limits and
// server-side failures are; auth and validation errors are not.
func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	// No HTTP status means the request never reached the server.
	return true
}
