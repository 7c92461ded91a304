package platform

import (
	"github.com/google/uuid"
)

// workflowIDPrefix namespaces registration workflows in Temporal.
const workflowIDPrefix = "register-ous-"

// NewRunID returns a random identifier attached to every log line of a run.
func NewRunID() string {
	return uuid.New().String()
}

// RegistrationWorkflowID derives a Temporal workflow ID for a batch in the
// given region. runID keeps concurrent batches in one region distinct.
func RegistrationWorkflowID(region, runID string) string {
	return workflowIDPrefix + region + "-" + runID
}

// RegionTaskQueue returns the Temporal task queue served by workers bound to
// region. Each worker talks to one regional Control Tower endpoint.
func RegionTaskQueue(base, region string) string {
	return base + "-" + region
}
