package llmHandlers

import (
	"context"
	"fmt"
	"os"
)

type Provider string

const (
	ProviderGemini       Provider = "gemini"
	ProviderVertexClaude Provider = "vertex_anthropic"
	ProviderLangChain    Provider = "langchain" // openai / groq / llama etc.
)

// NewLLMClient builds the provider selected by LLM_PROVIDER. The geminiKey is
// the calling user's stored credential and only applies to the gemini provider;
// the other providers are configured from the environment.
func NewLLMClient(ctx context.Context, geminiKey string) (Client, error) {
	kind := os.Getenv("LLM_PROVIDER")
	if kind == "" {
		kind = string(ProviderGemini)
	}

	switch Provider(kind) {
	case ProviderGemini:
		return NewGenaiGeminiClient(ctx, geminiKey)
	case ProviderVertexClaude:
		return NewVertexAnthropicClient(), nil
	case ProviderLangChain:
		return NewLangChainClient(LangChainConfig{
			Model:   os.Getenv("LANGCHAIN_MODEL"),
			BaseURL: os.Getenv("LANGCHAIN_BASE_URL"),
			APIKey:  os.Getenv("LANGCHAIN_API_KEY"),
		})
	default:
		return nil, fmt.Errorf("unknown provider %s", kind)
	}
}
