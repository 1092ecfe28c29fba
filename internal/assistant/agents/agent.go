package agents

import (
	"context"
	"fmt"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/prompts"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/models"
)

type Agent struct {
	llmClient llmHandlers.Client
}

// NewAgent wraps an already-built provider client. Building the client is the
// caller's job because the gemini provider needs the requesting user's key.
func NewAgent(llmClient llmHandlers.Client) *Agent {
	return &Agent{
		llmClient: llmClient,
	}
}

// ProcessRequest answers a general query with the site prompt and the
// conversation so far
func (a *Agent) ProcessRequest(ctx context.Context, message string, chatHistory []llmHandlers.Message) (string, error) {
	systemMessage := prompts.MASTER_PROMPT

	messages := []llmHandlers.Message{}

	if len(chatHistory) > 0 {
		messages = append(messages, chatHistory...)
	}

	messages = append(messages, llmHandlers.Message{
		Role:    models.RoleUser,
		Content: message,
	})

	// Call the LLM
	response, err := a.llmClient.Chat(ctx, systemMessage, messages)
	if err != nil {
		return "", fmt.Errorf("LLM chat error: %w", err)
	}

	return response, nil
}
