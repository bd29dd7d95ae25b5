package registry

// RunHook allows for external events to be triggered on run start and end
// This can be useful for updating statistics, storing completed runs, etc.
type RunHook interface {
	OnRunStart(run *Run)
	OnRunEnd(run *Run)
}
