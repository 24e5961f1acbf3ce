package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"ai-studymate-be/pkg/apperror"
)

const geminiEmbeddingModel = "text-embedding-004"

// GeminiProvider calls the Gemini batchEmbedContents endpoint.
type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string, timeout time.Duration) Provider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{Timeout: timeout},
	}
}

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"task_type,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	requests := make([]geminiEmbedRequest, len(texts))
	for i, text := range texts {
		requests[i] = geminiEmbedRequest{
			Model:    "models/" + geminiEmbeddingModel,
			Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
			TaskType: taskType,
		}
	}

	payload, err := json.Marshal(geminiBatchRequest{Requests: requests})
	if err != nil {
		return nil, apperror.Provider("gemini", "marshal request: %v", err)
	}

	endpoint := "https://generativelanguage.googleapis.com/v1/models/" +
		geminiEmbeddingModel + ":batchEmbedContents"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, apperror.Provider("gemini", "create request: %v", err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, classifyTransportError("gemini", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.Provider("gemini", "read response: %v", err)
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, apperror.RateLimit("gemini")
	}
	if res.StatusCode != http.StatusOK {
		return nil, apperror.Provider("gemini", "status %d: %s", res.StatusCode, string(body))
	}

	var parsed geminiBatchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperror.Provider("gemini", "unmarshal response: %v", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, apperror.Provider("gemini", "expected %d embeddings, got %d", len(texts), len(parsed.Embeddings))
	}

	vectors := make([][]float32, len(parsed.Embeddings))
	for i, e := range parsed.Embeddings {
		if len(e.Values) == 0 {
			return nil, apperror.Provider("gemini", "empty embedding at index %d", i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// classifyTransportError separates bounded-timeout failures from other
// transport errors so callers can report them distinctly.
func classifyTransportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Timeout(provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperror.Timeout(provider, err)
	}
	return apperror.Provider(provider, "request failed: %v", err)
}
