package llmHandlers

import (
	"context"

	"github.com/finaccosolutions/finacco-backend/internal/models"
)

// Message represents a message in the conversation
type Message struct {
	Role    models.Role
	Content string
}

type Client interface {
	Chat(ctx context.Context, systemMessage string, messages []Message) (string, error)
}
