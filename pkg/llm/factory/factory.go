package factory

import (
	"fmt"
	"time"

	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/llm/gemini"
	"ai-studymate-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case "gemini":
		return gemini.NewGeminiProvider(apiKey, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
