package registrar

import (
	"context"
	"errors"
	"strings"

	"github.com/edvin/ouregister/internal/metrics"
	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/retry"
)

// AwaitTerminal polls the operation until it succeeds or fails. Unknown
// statuses and poll errors use up an attempt. Running out of attempts counts
// as failure. The returned error is non-nil only when ctx ends.
func (r *Registrar) AwaitTerminal(ctx context.Context, operationID string) (bool, error) {
	logger := r.logger.With().Str("operation_id", operationID).Logger()

	var succeeded bool
	err := retry.Do(ctx, r.opts.Poll, r.opts.OnWait, func(ctx context.Context, attempt int) (bool, error) {
		op, err := r.plane.GetBaselineOperation(ctx, operationID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return true, ctxErr
			}
			metrics.OperationPollsTotal.WithLabelValues("error").Inc()
			logger.Warn().Err(err).Int("attempt", attempt).Msg("error checking operation status")
			return false, err
		}
		metrics.OperationPollsTotal.WithLabelValues(pollLabel(op.Status)).Inc()

		if op.Status.Terminal() {
			succeeded = op.Status == model.OperationStatusSucceeded
			if !succeeded {
				logger.Error().Str("status_message", op.StatusMessage).Msg("baseline operation failed")
			}
			return true, nil
		}

		if op.Status == model.OperationStatusUnknown {
			logger.Warn().Int("attempt", attempt).Msg("status not found in operation response")
		} else {
			logger.Info().Int("attempt", attempt).Str("status", string(op.Status)).Msg("operation status")
		}
		return false, nil
	})
	if errors.Is(err, retry.ErrExhausted) {
		logger.Warn().Int("max_attempts", r.opts.Poll.Attempts).Msg("operation did not reach a terminal status")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return succeeded, nil
}

func pollLabel(s model.OperationStatus) string {
	switch s {
	case model.OperationStatusSucceeded, model.OperationStatusFailed, model.OperationStatusInProgress:
		return strings.ToLower(string(s))
	case model.OperationStatusUnknown:
		return "unknown"
	default:
		return "other"
	}
}
