package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/embedding"
)

// JinaProvider embeds via the Jina AI embeddings API, which accepts the whole
// batch in a single call.
type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewJinaProvider(apiKey string, timeout time.Duration) *JinaProvider {
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v2-base-en",
		client:  &http.Client{Timeout: timeout},
	}
}

var _ embedding.Provider = (*JinaProvider)(nil)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *JinaProvider) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	// taskType is ignored: jina v2 models are symmetric.
	payload, err := json.Marshal(embeddingRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, apperror.Provider("jina", "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, apperror.Provider("jina", "create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Timeout("jina", err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, apperror.Timeout("jina", err)
		}
		return nil, apperror.Provider("jina", "request failed: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, apperror.RateLimit("jina")
	}
	if res.StatusCode != http.StatusOK {
		return nil, apperror.Provider("jina", "status %d: %s", res.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperror.Provider("jina", "unmarshal response: %v", err)
	}
	if parsed.Error != nil {
		return nil, apperror.Provider("jina", "api error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) != len(texts) {
		return nil, apperror.Provider("jina", "expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	// Responses are index-keyed; restore input order before returning.
	sort.Slice(parsed.Data, func(i, j int) bool { return parsed.Data[i].Index < parsed.Data[j].Index })

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if len(d.Embedding) == 0 {
			return nil, apperror.Provider("jina", "empty embedding at index %d", i)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
