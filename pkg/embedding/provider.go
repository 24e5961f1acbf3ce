package embedding

import "context"

// Task types hint the provider at the retrieval role of the text. Providers
// without such a notion ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider turns text into fixed-length vectors via an external service.
//
// EmbedBatch issues exactly one upstream call for the whole input and returns
// one vector per input string, in input order. It is a pure single-shot
// gateway: no retry logic lives here, callers own the backoff policy.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
