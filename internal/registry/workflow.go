package registry

import "context"

// Workflow is an externally implemented collaborator executed asynchronously
// through StartWorkflowRun. Run must honor ctx cancellation.
type Workflow interface {
	Name() string
	Description() string
	Run(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}
