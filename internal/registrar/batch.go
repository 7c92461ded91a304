package registrar

import (
	"context"
	"fmt"

	"github.com/edvin/ouregister/internal/metrics"
	"github.com/edvin/ouregister/internal/model"
)

// RegisterOne registers a single OU. Errors from either stage are logged and
// reported as OutcomeFailed.
func (r *Registrar) RegisterOne(ctx context.Context, ou model.OrganizationalUnit, baselines model.Baselines) model.Outcome {
	logger := r.logger.With().Str("ou_id", ou.ID).Logger()
	logger.Info().Str("ou_arn", ou.ARN).Msg("registering OU")

	outcome := r.registerOne(ctx, ou, baselines)
	metrics.RegistrationsTotal.WithLabelValues(string(outcome)).Inc()

	switch outcome {
	case model.OutcomeRegistered:
		logger.Info().Msg("successfully registered OU")
	case model.OutcomeAlreadyRegistered:
		logger.Info().Msg("skipped OU (already registered)")
	default:
		logger.Error().Msg("failed to register OU")
	}
	return outcome
}

func (r *Registrar) registerOne(ctx context.Context, ou model.OrganizationalUnit, baselines model.Baselines) model.Outcome {
	res, err := r.AwaitEnableSlot(ctx, ou, baselines)
	if err != nil {
		r.logger.Error().Err(err).Str("ou_id", ou.ID).Msg("error registering OU")
		return model.OutcomeFailed
	}
	if res.Status == model.EnableStatusAlreadyRegistered {
		return model.OutcomeAlreadyRegistered
	}

	ok, err := r.AwaitTerminal(ctx, res.OperationID)
	if err != nil {
		r.logger.Error().Err(err).Str("ou_id", ou.ID).Str("operation_id", res.OperationID).Msg("error registering OU")
		return model.OutcomeFailed
	}
	if !ok {
		return model.OutcomeFailed
	}
	return model.OutcomeRegistered
}

// Run resolves the shared baselines once and registers the OUs in order,
// stopping at the first failure. OUs registered before the failure stay
// registered.
func (r *Registrar) Run(ctx context.Context, ous []model.OrganizationalUnit) (model.Report, error) {
	var report model.Report

	baselines, err := r.ResolveBaselines(ctx)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues("resolve_failed").Inc()
		r.logger.Error().Err(err).Msg("error getting baseline information")
		return report, fmt.Errorf("resolve baselines: %w", err)
	}

	for i, ou := range ous {
		outcome := r.RegisterOne(ctx, ou, baselines)
		report.Record(ou.ID, outcome)
		if outcome.Success() {
			continue
		}

		metrics.BatchesTotal.WithLabelValues("halted").Inc()
		r.logger.Error().
			Str("ou_id", ou.ID).
			Int("remaining", len(ous)-i-1).
			Msg("failed to register OU, stopping the process")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, fmt.Errorf("%w: OU %s: %w", ErrRegistrationFailed, ou.ID, ctxErr)
		}
		return report, fmt.Errorf("%w: OU %s", ErrRegistrationFailed, ou.ID)
	}

	metrics.BatchesTotal.WithLabelValues("completed").Inc()
	r.logger.Info().
		Int("registered", len(report.Registered)).
		Int("skipped", len(report.Skipped)).
		Msg("all OUs registered")
	return report, nil
}
