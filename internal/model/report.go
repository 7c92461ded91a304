package model

// Report summarises a batch run. FailedOU is empty when every OU succeeded.
type Report struct {
	Registered []string `json:"registered"`
	Skipped    []string `json:"skipped"`
	FailedOU   string   `json:"failed_ou,omitempty"`
}

// Record appends the OU to the list matching its outcome.
func (r *Report) Record(ouID string, outcome Outcome) {
	switch outcome {
	case OutcomeRegistered:
		r.Registered = append(r.Registered, ouID)
	case OutcomeAlreadyRegistered:
		r.Skipped = append(r.Skipped, ouID)
	default:
		r.FailedOU = ouID
	}
}
