package registry

import (
	"sync"
	"time"

	"github.com/mastra-ai/go-mastra/pkg/logger"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusTimedOut  RunStatus = "timed_out"
)

const (
	KindAgent    = "agent"
	KindWorkflow = "workflow"
)

// Run is the server side record of one agent generation or workflow
// execution. Mutations go through the ledger so reads always see a
// consistent snapshot.
type Run struct {
	ID         string                 `json:"runId"`
	Kind       string                 `json:"kind"`
	Key        string                 `json:"key"`
	Status     RunStatus              `json:"status"`
	Output     map[string]interface{} `json:"output,omitempty"`
	Error      string                 `json:"error,omitempty"`
	StartedAt  time.Time              `json:"startedAt"`
	FinishedAt time.Time              `json:"finishedAt,omitempty"`
}

// runLedger keeps recent runs in memory. Finished runs are swept once they
// pass the configured expiry, mirroring long term storage to the run store
// hooks rather than holding everything forever.
type runLedger struct {
	mu     sync.RWMutex
	runs   map[string]*Run
	expiry time.Duration
}

func newRunLedger(expiry time.Duration) *runLedger {
	ledger := &runLedger{
		runs:   make(map[string]*Run),
		expiry: expiry,
	}
	go ledger.clean()
	return ledger
}

func (l *runLedger) add(run *Run) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs[run.ID] = run
}

func (l *runLedger) get(runID string) (*Run, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	run, ok := l.runs[runID]
	if !ok {
		return nil, ErrNoExistingRun(runID)
	}
	snapshot := *run
	return &snapshot, nil
}

func (l *runLedger) finish(runID string, status RunStatus, output map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	run, ok := l.runs[runID]
	if !ok || run.Status != RunStatusRunning {
		return
	}
	run.Status = status
	run.Output = output
	if err != nil {
		run.Error = err.Error()
	}
	run.FinishedAt = time.Now().UTC()
}

func (l *runLedger) activeByKey() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	active := make(map[string]int)
	for _, run := range l.runs {
		if run.Status == RunStatusRunning {
			active[run.Key]++
		}
	}
	return active
}

func (l *runLedger) clean() {
	// every minute sweep finished runs that are past expiry
	for range time.Tick(time.Minute) {
		now := time.Now().UTC()
		l.mu.Lock()
		for runID, run := range l.runs {
			if run.Status == RunStatusRunning {
				continue
			}
			if now.After(run.FinishedAt.Add(l.expiry)) {
				logger.Log.Debug().Caller().Msgf("sweeping expired run with id %s", runID)
				delete(l.runs, runID)
			}
		}
		l.mu.Unlock()
	}
}
