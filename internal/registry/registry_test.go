package registry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mastra-ai/go-mastra/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Log = zerolog.Nop()
	os.Exit(m.Run())
}

type stubAgent struct {
	name string
	text string
	err  error
}

func (a *stubAgent) Name() string        { return a.name }
func (a *stubAgent) Description() string { return "stub agent" }

func (a *stubAgent) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &GenerateResult{Text: a.text, FinishReason: "stop"}, nil
}

func (a *stubAgent) Stream(ctx context.Context, req GenerateRequest) (<-chan Chunk, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := make(chan Chunk)
	go func() {
		defer close(out)
		out <- Chunk{Text: a.text}
		out <- Chunk{Done: true}
	}()
	return out, nil
}

type stubWorkflow struct {
	name  string
	delay time.Duration
	err   error
}

func (w *stubWorkflow) Name() string        { return w.name }
func (w *stubWorkflow) Description() string { return "stub workflow" }

func (w *stubWorkflow) Run(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	select {
	case <-time.After(w.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if w.err != nil {
		return nil, w.err
	}
	return map[string]interface{}{"echo": input["value"]}, nil
}

type recordingHook struct {
	mu      sync.Mutex
	started []string
	ended   []string
}

func (h *recordingHook) OnRunStart(run *Run) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, run.Key)
}

func (h *recordingHook) OnRunEnd(run *Run) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ended = append(h.ended, run.Key)
}

func (h *recordingHook) endedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ended)
}

func newTestOrchestrator(t *testing.T, hooks ...RunHook) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(Options{
		Agents:     []Agent{&stubAgent{name: "weather", text: "sunny"}},
		Workflows:  []Workflow{&stubWorkflow{name: "daily-report"}},
		Hooks:      hooks,
		RunExpiry:  time.Hour,
		RunTimeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	return o
}

func TestNewOrchestratorDuplicateAgent(t *testing.T) {
	_, err := NewOrchestrator(Options{
		Agents: []Agent{
			&stubAgent{name: "weather"},
			&stubAgent{name: "weather"},
		},
	})
	assert.EqualError(t, err, ErrExistingAgent("weather").Error())
}

func TestGenerate(t *testing.T) {
	hook := &recordingHook{}
	o := newTestOrchestrator(t, hook)

	result, run, err := o.Generate(context.Background(), "weather", GenerateRequest{
		Messages: []Message{{Role: "user", Content: "forecast?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sunny", result.Text)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, []string{"weather"}, hook.started)
	assert.Equal(t, []string{"weather"}, hook.ended)

	lookup, err := o.Run(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, lookup.Status)
}

func TestGenerateUnknownAgent(t *testing.T) {
	o := newTestOrchestrator(t)
	_, _, err := o.Generate(context.Background(), "nope", GenerateRequest{})
	assert.EqualError(t, err, ErrNoExistingAgent("nope").Error())
}

func TestGenerateAgentError(t *testing.T) {
	o, err := NewOrchestrator(Options{
		Agents:     []Agent{&stubAgent{name: "broken", err: fmt.Errorf("provider down")}},
		RunExpiry:  time.Hour,
		RunTimeout: time.Second,
	})
	require.NoError(t, err)

	_, run, err := o.Generate(context.Background(), "broken", GenerateRequest{})
	assert.Error(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "provider down", run.Error)
}

func TestStream(t *testing.T) {
	hook := &recordingHook{}
	o := newTestOrchestrator(t, hook)

	chunks, run, err := o.Stream(context.Background(), "weather", GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)

	collected := make([]Chunk, 0)
	for chunk := range chunks {
		collected = append(collected, chunk)
	}
	require.Len(t, collected, 2)
	assert.Equal(t, "sunny", collected[0].Text)
	assert.True(t, collected[1].Done)

	assert.Eventually(t, func() bool {
		lookup, err := o.Run(run.ID)
		return err == nil && lookup.Status == RunStatusCompleted
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return hook.endedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestStartWorkflowRun(t *testing.T) {
	o := newTestOrchestrator(t)

	run, err := o.StartWorkflowRun("daily-report", map[string]interface{}{"value": "hi"})
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, KindWorkflow, run.Kind)

	assert.Eventually(t, func() bool {
		lookup, err := o.Run(run.ID)
		return err == nil && lookup.Status == RunStatusCompleted
	}, time.Second, 10*time.Millisecond)

	lookup, err := o.Run(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", lookup.Output["echo"])
}

func TestStartWorkflowRunTimeout(t *testing.T) {
	o, err := NewOrchestrator(Options{
		Workflows:  []Workflow{&stubWorkflow{name: "slow", delay: time.Second}},
		RunExpiry:  time.Hour,
		RunTimeout: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	run, err := o.StartWorkflowRun("slow", nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		lookup, err := o.Run(run.ID)
		return err == nil && lookup.Status == RunStatusTimedOut
	}, time.Second, 10*time.Millisecond)
}

func TestStartWorkflowRunUnknown(t *testing.T) {
	o := newTestOrchestrator(t)
	_, err := o.StartWorkflowRun("nope", nil)
	assert.EqualError(t, err, ErrNoExistingWorkflow("nope").Error())
}

func TestGetStats(t *testing.T) {
	o, err := NewOrchestrator(Options{
		Workflows:  []Workflow{&stubWorkflow{name: "slow", delay: 200 * time.Millisecond}},
		RunExpiry:  time.Hour,
		RunTimeout: time.Minute,
	})
	require.NoError(t, err)

	_, err = o.StartWorkflowRun("slow", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, o.GetStats().ActiveRuns["slow"])

	assert.Eventually(t, func() bool {
		return o.GetStats().ActiveRuns["slow"] == 0
	}, time.Second, 10*time.Millisecond)
}
