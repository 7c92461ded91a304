package registrar

import (
	"context"
	"errors"
	"fmt"

	"github.com/edvin/ouregister/internal/controltower"
	"github.com/edvin/ouregister/internal/metrics"
	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/retry"
)

// EnableBaseline issues a single enable request for the OU and classifies the
// response. Conflicts meaning "already governed" and "another operation is in
// progress" are results, not errors; any other failure is returned.
func (r *Registrar) EnableBaseline(ctx context.Context, ou model.OrganizationalUnit, baselines model.Baselines) (model.EnableResult, error) {
	logger := r.logger.With().Str("ou_id", ou.ID).Logger()

	opID, err := r.plane.EnableBaseline(ctx, ou.ARN, baselines)
	switch {
	case err == nil && opID != "":
		metrics.EnableAttemptsTotal.WithLabelValues(string(model.EnableStatusStarted)).Inc()
		logger.Info().Str("operation_id", opID).Msg("enable baseline started")
		return model.EnableResult{Status: model.EnableStatusStarted, OperationID: opID}, nil
	case err == nil:
		metrics.EnableAttemptsTotal.WithLabelValues("error").Inc()
		return model.EnableResult{}, fmt.Errorf("enable baseline on OU %s: response carried no operation identifier", ou.ID)
	case controltower.IsAlreadyGoverned(err):
		metrics.EnableAttemptsTotal.WithLabelValues(string(model.EnableStatusAlreadyRegistered)).Inc()
		logger.Info().Msg("OU is already registered with Control Tower")
		return model.EnableResult{Status: model.EnableStatusAlreadyRegistered}, nil
	case controltower.IsOperationInProgress(err):
		metrics.EnableAttemptsTotal.WithLabelValues(string(model.EnableStatusInProgress)).Inc()
		logger.Info().Msg("another operation is in progress for OU")
		return model.EnableResult{Status: model.EnableStatusInProgress}, nil
	default:
		metrics.EnableAttemptsTotal.WithLabelValues("error").Inc()
		return model.EnableResult{}, fmt.Errorf("enable baseline on OU %s: %w", ou.ID, err)
	}
}

// AwaitEnableSlot retries EnableBaseline until it starts an operation or
// reports the OU already registered. In-progress conflicts and errors alike
// are retried after the enable interval; only the log line differs.
func (r *Registrar) AwaitEnableSlot(ctx context.Context, ou model.OrganizationalUnit, baselines model.Baselines) (model.EnableResult, error) {
	logger := r.logger.With().Str("ou_id", ou.ID).Logger()

	var result model.EnableResult
	err := retry.Do(ctx, r.opts.Enable, r.opts.OnWait, func(ctx context.Context, attempt int) (bool, error) {
		res, err := r.EnableBaseline(ctx, ou, baselines)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return true, ctxErr
			}
			logger.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", r.opts.Enable.Attempts).
				Msg("error while waiting for in-progress operations")
			return false, err
		}
		if res.Status == model.EnableStatusInProgress {
			logger.Info().
				Int("attempt", attempt).
				Int("max_attempts", r.opts.Enable.Attempts).
				Dur("retry_in", r.opts.Enable.Interval).
				Msg("waiting for in-progress operation")
			return false, nil
		}
		result = res
		return true, nil
	})
	if errors.Is(err, retry.ErrExhausted) {
		return model.EnableResult{}, fmt.Errorf("%w for OU %s: %w", ErrEnableSlotTimeout, ou.ID, err)
	}
	if err != nil {
		return model.EnableResult{}, err
	}
	return result, nil
}
