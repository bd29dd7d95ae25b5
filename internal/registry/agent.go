package registry

import "context"

// Message is a single conversational turn passed to an agent.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest carries the conversation plus provider specific options
// that the server forwards without interpretation.
type GenerateRequest struct {
	Messages []Message              `json:"messages"`
	ThreadID string                 `json:"threadId,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type GenerateResult struct {
	Text         string `json:"text"`
	FinishReason string `json:"finishReason,omitempty"`
}

// Chunk is one streamed piece of an agent response.
type Chunk struct {
	Text string `json:"text,omitempty"`
	Done bool   `json:"done,omitempty"`
}

// Agent is an externally implemented collaborator. The execution engine
// behind Generate and Stream lives outside this server.
type Agent interface {
	Name() string
	Description() string
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Stream(ctx context.Context, req GenerateRequest) (<-chan Chunk, error)
}
