package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/ouregister/internal/activity"
	"github.com/edvin/ouregister/internal/model"
)

// RegisterOrganizationalUnitsParams holds parameters for
// RegisterOrganizationalUnitsWorkflow.
type RegisterOrganizationalUnitsParams struct {
	OUs []model.OrganizationalUnit `json:"ous"`
}

// RegisterOrganizationalUnitsWorkflow resolves the shared baselines once and
// registers each OU in order, failing on the first OU that cannot be
// registered. No activity is retried by Temporal: registration carries its
// own budgets and resolution failures are fatal.
func RegisterOrganizationalUnitsWorkflow(ctx workflow.Context, params RegisterOrganizationalUnitsParams) (model.Report, error) {
	logger := workflow.GetLogger(ctx)
	var report model.Report

	resolveCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
	var baselines model.Baselines
	if err := workflow.ExecuteActivity(resolveCtx, "ResolveBaselines").Get(ctx, &baselines); err != nil {
		return report, fmt.Errorf("resolve baselines: %w", err)
	}

	// Timeouts follow the worker's retry budgets.
	var timeouts activity.Timeouts
	if err := workflow.ExecuteActivity(resolveCtx, "RegistrationTimeouts").Get(ctx, &timeouts); err != nil {
		return report, fmt.Errorf("registration timeouts: %w", err)
	}
	registerCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeouts.StartToClose,
		HeartbeatTimeout:    timeouts.Heartbeat,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	for i, ou := range params.OUs {
		var outcome model.Outcome
		err := workflow.ExecuteActivity(registerCtx, "RegisterOrganizationalUnit", activity.RegisterOrganizationalUnitParams{
			OU:        ou,
			Baselines: baselines,
		}).Get(ctx, &outcome)
		if err != nil {
			logger.Error("failed to register OU, stopping", "ou", ou.ID, "remaining", len(params.OUs)-i-1, "error", err)
			return report, fmt.Errorf("register OU %s: %w", ou.ID, err)
		}

		report.Record(ou.ID, outcome)
		if !outcome.Success() {
			logger.Error("failed to register OU, stopping", "ou", ou.ID, "remaining", len(params.OUs)-i-1)
			return report, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("failed to register OU %s", ou.ID), "RegistrationFailed", nil)
		}
		logger.Info("OU registration finished", "ou", ou.ID, "outcome", string(outcome))
	}

	return report, nil
}
