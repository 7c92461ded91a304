package model

// OperationStatus is the status of a Control Tower baseline operation.
type OperationStatus string

// Baseline operation statuses as reported by GetBaselineOperation. An empty
// status means the response carried none.
const (
	OperationStatusSucceeded  OperationStatus = "SUCCEEDED"
	OperationStatusFailed     OperationStatus = "FAILED"
	OperationStatusInProgress OperationStatus = "IN_PROGRESS"
	OperationStatusUnknown    OperationStatus = ""
)

// Terminal reports whether the operation will not change status again.
func (s OperationStatus) Terminal() bool {
	return s == OperationStatusSucceeded || s == OperationStatusFailed
}

// EnableStatus classifies the immediate response to an enable-baseline request.
type EnableStatus string

const (
	EnableStatusStarted           EnableStatus = "started"
	EnableStatusAlreadyRegistered EnableStatus = "already_registered"
	EnableStatusInProgress        EnableStatus = "in_progress"
)

// Outcome is the terminal registration result for a single OU.
type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeAlreadyRegistered Outcome = "already_registered"
	OutcomeFailed            Outcome = "failed"
)

// Success reports whether the batch may continue past this OU.
func (o Outcome) Success() bool {
	return o == OutcomeRegistered || o == OutcomeAlreadyRegistered
}
