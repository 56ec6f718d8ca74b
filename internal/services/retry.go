package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazelcreek/fable-engine/pkg/chat"
)

// RetryingLLM wraps an LLMService with a small fixed retry budget for
// transient failures. The budget is bounded so a dead model can never
// block a turn indefinitely; callers still own their fallbacks.
type RetryingLLM struct {
	inner   LLMService
	retries int
	delay   time.Duration
	logger  *slog.Logger
}

// WithRetries wraps an LLM service. retries is the number of extra
// attempts after the first failure.
func WithRetries(inner LLMService, retries int, logger *slog.Logger) *RetryingLLM {
	return &RetryingLLM{
		inner:   inner,
		retries: retries,
		delay:   500 * time.Millisecond,
		logger:  logger,
	}
}

func (r *RetryingLLM) InitModel(ctx context.Context, modelName string) error {
	return r.inner.InitModel(ctx, modelName)
}

func (r *RetryingLLM) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	return r.inner.IsModelReady(ctx, modelName)
}

func (r *RetryingLLM) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			r.logger.Warn("Retrying LLM call", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.delay):
			}
		}
		resp, err := r.inner.Chat(ctx, messages)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
