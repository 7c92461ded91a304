package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts terminal per-OU outcomes.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ouregister_registrations_total",
		Help: "Terminal OU registration outcomes.",
	}, []string{"outcome"})

	// EnableAttemptsTotal counts enable-baseline calls by classified result.
	EnableAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ouregister_enable_attempts_total",
		Help: "Enable-baseline attempts by result (started, already_registered, in_progress, error).",
	}, []string{"result"})

	// OperationPollsTotal counts baseline operation polls by observed status.
	OperationPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ouregister_operation_polls_total",
		Help: "Baseline operation status polls by observed status.",
	}, []string{"status"})

	// BatchesTotal counts batch runs by result.
	BatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ouregister_batches_total",
		Help: "Batch runs by result (completed, resolve_failed, halted).",
	}, []string{"result"})
)
