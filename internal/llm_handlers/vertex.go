package llmHandlers

import (
	"context"
	"strings"
)

// VertexAnthropicClient implements Client over the Vertex rawPredict endpoint
type VertexAnthropicClient struct {
	MaxTokens int
}

func NewVertexAnthropicClient() *VertexAnthropicClient {
	return &VertexAnthropicClient{MaxTokens: 1024}
}

// Chat returns a single string answer (convenience wrapper).
func (c *VertexAnthropicClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	resp, err := callClaudeWithMessages(ctx, systemMessage, messages, c.MaxTokens)
	if err != nil {
		return "", err
	}
	return strings.Join(resp.TextContent, "\n\n"), nil
}
