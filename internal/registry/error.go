package registry

import "fmt"

var (
	ErrNoExistingAgent = func(key string) error {
		return fmt.Errorf("agent does not exist for key '%s'", key)
	}

	ErrNoExistingWorkflow = func(key string) error {
		return fmt.Errorf("workflow does not exist for key '%s'", key)
	}

	ErrExistingAgent = func(key string) error {
		return fmt.Errorf("agent already registered for key '%s'", key)
	}

	ErrExistingWorkflow = func(key string) error {
		return fmt.Errorf("workflow already registered for key '%s'", key)
	}

	ErrNoExistingRun = func(runID string) error {
		return fmt.Errorf("run '%s' does not exist", runID)
	}

	ErrRunTimeout = func(runID string) error {
		return fmt.Errorf("run '%s' exceeded its allowed duration", runID)
	}
)
