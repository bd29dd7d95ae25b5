package registry

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mastra-ai/go-mastra/pkg/logger"
	"github.com/mastra-ai/go-mastra/pkg/timer"
)

// Orchestrator holds the registered agents and workflows and proxies
// execution to them, keeping a ledger of the runs it has seen.
type Orchestrator struct {
	agents     map[string]Agent
	workflows  map[string]Workflow
	runs       *runLedger
	hooks      []RunHook
	runTimeout time.Duration
}

// Options are the options required to create a new orchestrator
type Options struct {
	// Agents and Workflows are the registered collaborators routes are generated for
	Agents    []Agent
	Workflows []Workflow

	// Hooks allow for external events to be triggered on run start or end
	Hooks []RunHook

	// RunExpiry refers to how long a finished run stays queryable before being swept
	RunExpiry time.Duration

	// RunTimeout is the max duration a workflow run may take before being cancelled
	RunTimeout time.Duration
}

type RunStats struct {
	ActiveRuns map[string]int
}

func NewOrchestrator(options Options) (*Orchestrator, error) {
	agents := make(map[string]Agent)
	for _, agent := range options.Agents {
		if _, ok := agents[agent.Name()]; ok {
			return nil, ErrExistingAgent(agent.Name())
		}
		agents[agent.Name()] = agent
	}
	workflows := make(map[string]Workflow)
	for _, workflow := range options.Workflows {
		if _, ok := workflows[workflow.Name()]; ok {
			return nil, ErrExistingWorkflow(workflow.Name())
		}
		workflows[workflow.Name()] = workflow
	}
	return &Orchestrator{
		agents:     agents,
		workflows:  workflows,
		runs:       newRunLedger(options.RunExpiry),
		hooks:      options.Hooks,
		runTimeout: options.RunTimeout,
	}, nil
}

func (o *Orchestrator) Agents() []Agent {
	agents := make([]Agent, 0, len(o.agents))
	for _, agent := range o.agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name() < agents[j].Name() })
	return agents
}

func (o *Orchestrator) Agent(key string) (Agent, error) {
	agent, ok := o.agents[key]
	if !ok {
		return nil, ErrNoExistingAgent(key)
	}
	return agent, nil
}

func (o *Orchestrator) Workflows() []Workflow {
	workflows := make([]Workflow, 0, len(o.workflows))
	for _, workflow := range o.workflows {
		workflows = append(workflows, workflow)
	}
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].Name() < workflows[j].Name() })
	return workflows
}

func (o *Orchestrator) Workflow(key string) (Workflow, error) {
	workflow, ok := o.workflows[key]
	if !ok {
		return nil, ErrNoExistingWorkflow(key)
	}
	return workflow, nil
}

// Keys returns every registered agent and workflow name.
func (o *Orchestrator) Keys() []string {
	keys := make([]string, 0, len(o.agents)+len(o.workflows))
	for key := range o.agents {
		keys = append(keys, key)
	}
	for key := range o.workflows {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Generate proxies a synchronous generation to the named agent.
func (o *Orchestrator) Generate(ctx context.Context, key string, req GenerateRequest) (*GenerateResult, *Run, error) {
	agent, err := o.Agent(key)
	if err != nil {
		return nil, nil, err
	}
	run := o.startRun(KindAgent, key)
	result, err := agent.Generate(ctx, req)
	if err != nil {
		o.endRun(run.ID, RunStatusFailed, nil, err)
		return nil, o.snapshot(run.ID), err
	}
	o.endRun(run.ID, RunStatusCompleted, map[string]interface{}{"text": result.Text}, nil)
	return result, o.snapshot(run.ID), nil
}

// Stream proxies a streamed generation to the named agent. The returned
// channel mirrors the agent's channel; the run is finished once it closes.
func (o *Orchestrator) Stream(ctx context.Context, key string, req GenerateRequest) (<-chan Chunk, *Run, error) {
	agent, err := o.Agent(key)
	if err != nil {
		return nil, nil, err
	}
	run := o.startRun(KindAgent, key)
	chunks, err := agent.Stream(ctx, req)
	if err != nil {
		o.endRun(run.ID, RunStatusFailed, nil, err)
		return nil, o.snapshot(run.ID), err
	}
	out := make(chan Chunk)
	go func() {
		defer close(out)
		for chunk := range chunks {
			select {
			case out <- chunk:
			case <-ctx.Done():
				o.endRun(run.ID, RunStatusFailed, nil, ctx.Err())
				return
			}
		}
		o.endRun(run.ID, RunStatusCompleted, nil, nil)
	}()
	return out, o.snapshot(run.ID), nil
}

// StartWorkflowRun kicks off the named workflow asynchronously and returns
// the running run. A watchdog cancels the workflow if it exceeds the
// configured run timeout.
func (o *Orchestrator) StartWorkflowRun(key string, input map[string]interface{}) (*Run, error) {
	workflow, err := o.Workflow(key)
	if err != nil {
		return nil, err
	}
	run := o.startRun(KindWorkflow, key)

	ctx, cancel := context.WithCancel(context.Background())
	alarm := make(chan bool, 1)
	watchdog := timer.NewTimer(o.runTimeout, alarm)
	watchdog.Start()
	done := make(chan struct{})
	timedOut := make(chan struct{}, 1)
	go func() {
		select {
		case <-alarm:
			timedOut <- struct{}{}
			cancel()
		case <-done:
		}
	}()
	go func() {
		defer cancel()
		output, err := workflow.Run(ctx, input)
		watchdog.Stop()
		close(done)
		select {
		case <-timedOut:
			logger.Log.Warn().Msgf("workflow run with id %s timed out", run.ID)
			o.endRun(run.ID, RunStatusTimedOut, nil, ErrRunTimeout(run.ID))
		default:
			if err != nil {
				o.endRun(run.ID, RunStatusFailed, nil, err)
			} else {
				o.endRun(run.ID, RunStatusCompleted, output, nil)
			}
		}
	}()
	return run, nil
}

// Run returns a snapshot of the run with the given id.
func (o *Orchestrator) Run(runID string) (*Run, error) {
	return o.runs.get(runID)
}

func (o *Orchestrator) GetStats() *RunStats {
	return &RunStats{
		ActiveRuns: o.runs.activeByKey(),
	}
}

func (o *Orchestrator) startRun(kind, key string) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Key:       key,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	o.runs.add(run)
	snapshot := *run
	for _, hook := range o.hooks {
		hook.OnRunStart(&snapshot)
	}
	return &snapshot
}

func (o *Orchestrator) endRun(runID string, status RunStatus, output map[string]interface{}, err error) {
	o.runs.finish(runID, status, output, err)
	snapshot, lookupErr := o.runs.get(runID)
	if lookupErr != nil {
		return
	}
	for _, hook := range o.hooks {
		hook.OnRunEnd(snapshot)
	}
}

func (o *Orchestrator) snapshot(runID string) *Run {
	run, err := o.runs.get(runID)
	if err != nil {
		return nil
	}
	return run
}
