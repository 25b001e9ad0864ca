package port

import "context"

// ModelRequest carries one unit of work for an LLM call. For text chunks the
// content is embedded in Prompt; for image payloads ImageData/ImageMIME are
// set and Prompt holds the instructions.
type ModelRequest struct {
	Prompt    string
	ImageData []byte
	ImageMIME string
}

// ModelClient abstracts a single LLM provider. The model parameter selects
// the concrete model within the provider, so the same request can be replayed
// against different capability tiers. Implementations must normalize provider
// errors into the classified error type at this boundary; callers depend only
// on that classification.
type ModelClient interface {
	Invoke(ctx context.Context, model string, req ModelRequest) (string, error)
}
