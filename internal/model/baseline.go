package model

// Control Tower baseline constants used for every enable request.
const (
	ControlTowerBaselineName    = "AWSControlTowerBaseline"
	IdentityCenterBaselineName  = "IdentityCenterBaseline"
	ControlTowerBaselineVersion = "4.0"
	IdentityCenterParameterKey  = "IdentityCenterEnabledBaselineArn"
)

// Baseline is a baseline known to the control plane.
type Baseline struct {
	Name string `json:"name"`
	ARN  string `json:"arn"`
}

// EnabledBaseline is a baseline that has been enabled on some target.
type EnabledBaseline struct {
	ARN                string `json:"arn"`
	BaselineIdentifier string `json:"baseline_identifier"`
	TargetIdentifier   string `json:"target_identifier"`
}

// Baselines holds the two identifiers resolved once per run and passed to
// every enable request.
type Baselines struct {
	BaselineIdentifier        string `json:"baseline_identifier"`
	IdentityCenterBaselineARN string `json:"identity_center_baseline_arn"`
}

// EnableResult is the classified response to a single enable request.
// OperationID is only set when Status is EnableStatusStarted.
type EnableResult struct {
	Status      EnableStatus `json:"status"`
	OperationID string       `json:"operation_id,omitempty"`
}

// BaselineOperation is the polled state of an enable operation.
type BaselineOperation struct {
	OperationID   string          `json:"operation_id"`
	Status        OperationStatus `json:"status"`
	StatusMessage string          `json:"status_message,omitempty"`
}
