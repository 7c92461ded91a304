package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/activity"

	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/registrar"
)

const (
	// callAllowance is budgeted for each control plane call on top of the
	// pauses between calls.
	callAllowance        = 15 * time.Second
	registrationHeadroom = 5 * time.Minute
	heartbeatHeadroom    = time.Minute
)

// ControlTower contains activities that register OUs with Control Tower.
// Each activity runs the registrar's own retry budgets, so they are meant to
// be scheduled without Temporal retries.
type ControlTower struct {
	registrar *registrar.Registrar
}

// NewControlTower creates a ControlTower activity struct. opts.OnWait is
// replaced by a heartbeat, so a registration heartbeats before every pause.
func NewControlTower(plane registrar.ControlPlane, logger zerolog.Logger, opts registrar.Options) *ControlTower {
	opts.OnWait = heartbeat
	return &ControlTower{registrar: registrar.New(plane, logger, opts)}
}

// RegisterOrganizationalUnitParams holds parameters for RegisterOrganizationalUnit.
type RegisterOrganizationalUnitParams struct {
	OU        model.OrganizationalUnit `json:"ou"`
	Baselines model.Baselines          `json:"baselines"`
}

// Timeouts are the activity timeouts RegisterOrganizationalUnit needs to use
// up its retry budgets without being cut short by Temporal.
type Timeouts struct {
	StartToClose time.Duration `json:"start_to_close"`
	Heartbeat    time.Duration `json:"heartbeat"`
}

// TimeoutsFor derives registration timeouts from the registrar options: every
// pause plus an allowance per call, and a heartbeat window one headroom
// longer than the longest pause.
func TimeoutsFor(opts registrar.Options) Timeouts {
	calls := opts.Enable.Attempts + opts.Poll.Attempts
	return Timeouts{
		StartToClose: opts.Budget() + time.Duration(calls)*callAllowance + registrationHeadroom,
		Heartbeat:    opts.MaxPause() + heartbeatHeadroom,
	}
}

// RegistrationTimeouts reports the timeouts this worker's budgets need.
func (a *ControlTower) RegistrationTimeouts(ctx context.Context) (Timeouts, error) {
	return TimeoutsFor(a.registrar.Options()), nil
}

// ResolveBaselines resolves the baseline identifier and identity center
// baseline ARN shared by every OU in a batch.
func (a *ControlTower) ResolveBaselines(ctx context.Context) (model.Baselines, error) {
	b, err := a.registrar.ResolveBaselines(ctx)
	if err != nil {
		return model.Baselines{}, fmt.Errorf("resolve baselines: %w", err)
	}
	return b, nil
}

// RegisterOrganizationalUnit enables the baseline on one OU and waits for the
// operation to finish. A failed registration is reported as OutcomeFailed,
// not as an activity error.
func (a *ControlTower) RegisterOrganizationalUnit(ctx context.Context, params RegisterOrganizationalUnitParams) (model.Outcome, error) {
	outcome := a.registrar.RegisterOne(ctx, params.OU, params.Baselines)
	if outcome == model.OutcomeFailed && ctx.Err() != nil {
		return outcome, ctx.Err()
	}
	return outcome, nil
}

func heartbeat(ctx context.Context, pause time.Duration) {
	activity.RecordHeartbeat(ctx, pause.String())
}
