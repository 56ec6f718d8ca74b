package services

import (
	"context"

	"github.com/hazelcreek/fable-engine/pkg/chat"
)

// LLMService defines the interface for the external model boundary.
// Every call is treated as fallible; callers own their fallbacks.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the given messages.
	Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error)

	// IsModelReady checks whether the model can serve requests.
	IsModelReady(ctx context.Context, modelName string) (bool, error)
}
