package llmHandlers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GenaiGeminiClient implements Client for Gemini via Google AI API
type GenaiGeminiClient struct {
	client  *genai.Client
	modelID string

	Temperature float32
	MaxTokens   int32
}

// NewGenaiGeminiClient builds a client bound to the given API key. The key
// comes from the signed-in user's stored credential, not from the process env.
func NewGenaiGeminiClient(ctx context.Context, apiKey string) (*GenaiGeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	modelID := os.Getenv("GEMINI_MODEL_ID")
	if modelID == "" {
		modelID = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})

	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GenaiGeminiClient{
		client:      client,
		modelID:     modelID,
		Temperature: 0.7,
		MaxTokens:   1024,
	}, nil
}

// convertMessagesToGenaiContent converts our Message format to genai.Content
func convertMessagesToGenaiContent(messages []Message) []*genai.Content {
	contents := []*genai.Content{}

	for _, m := range messages {
		// Map role: "assistant" -> "model", everything else -> "user"
		roleOut := "user"
		if m.Role == "assistant" || m.Role == "model" {
			roleOut = "model"
		}

		textPart := &genai.Part{Text: m.Content}
		contents = append(contents, &genai.Content{
			Role:  roleOut,
			Parts: []*genai.Part{textPart},
		})
	}

	return contents
}

func (v *GenaiGeminiClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	contents := convertMessagesToGenaiContent(messages)

	// Build generation config
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &v.Temperature,
		MaxOutputTokens: v.MaxTokens,
	}

	// Add system instruction if exists
	if systemMessage != "" {
		systemPart := &genai.Part{Text: systemMessage}
		sysContent := &genai.Content{
			Parts: []*genai.Part{systemPart},
		}
		genConfig.SystemInstruction = sysContent
	}

	// Call GenerateContent with the model ID, contents, and config
	resp, err := v.client.Models.GenerateContent(ctx, v.modelID, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	// Collect output text from parts
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
		}
	}

	return sb.String(), nil
}
