package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mastra-ai/go-mastra/internal/registry"
)

// Builtins selectable by name through config. Real deployments register
// their own collaborators through Options; these exist so a bare binary
// still serves something.
var builtinAgents = map[string]registry.Agent{
	"echo": &echoAgent{},
}

var builtinWorkflows = map[string]registry.Workflow{
	"echo": &echoWorkflow{},
}

var (
	ErrNoBuiltinAgent = func(name string) error {
		return fmt.Errorf("no builtin agent named '%s'", name)
	}

	ErrNoBuiltinWorkflow = func(name string) error {
		return fmt.Errorf("no builtin workflow named '%s'", name)
	}
)

type echoAgent struct{}

func (a *echoAgent) Name() string        { return "echo" }
func (a *echoAgent) Description() string { return "echoes the last message back" }

func (a *echoAgent) Generate(ctx context.Context, req registry.GenerateRequest) (*registry.GenerateResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages to echo")
	}
	return &registry.GenerateResult{
		Text:         req.Messages[len(req.Messages)-1].Content,
		FinishReason: "stop",
	}, nil
}

func (a *echoAgent) Stream(ctx context.Context, req registry.GenerateRequest) (<-chan registry.Chunk, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages to echo")
	}
	out := make(chan registry.Chunk)
	go func() {
		defer close(out)
		for _, word := range strings.Fields(req.Messages[len(req.Messages)-1].Content) {
			select {
			case out <- registry.Chunk{Text: word + " "}:
			case <-ctx.Done():
				return
			}
		}
		out <- registry.Chunk{Done: true}
	}()
	return out, nil
}

type echoWorkflow struct{}

func (w *echoWorkflow) Name() string        { return "echo" }
func (w *echoWorkflow) Description() string { return "returns its input unchanged" }

func (w *echoWorkflow) Run(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	return input, nil
}
