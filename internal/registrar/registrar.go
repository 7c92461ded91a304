// Package registrar drives Control Tower baseline enablement for a list of
// organizational units to a terminal outcome per OU.
//
// The control plane allows one baseline operation per target at a time and
// only reveals a running operation by rejecting the next enable request, so
// the Registrar keeps no local view of operation state: it retries the
// enable call until a slot opens, then polls the operation it started.
package registrar

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/retry"
)

var (
	// ErrNotFound is returned when a required baseline cannot be resolved.
	ErrNotFound = errors.New("not found")
	// ErrEnableSlotTimeout is returned when another operation stayed in
	// progress for the whole enable attempt budget.
	ErrEnableSlotTimeout = errors.New("timed out waiting for in-progress operations")
	// ErrRegistrationFailed is returned by Run when an OU could not be registered.
	ErrRegistrationFailed = errors.New("registration failed")
)

// ControlPlane is the subset of Control Tower the Registrar drives.
// EnableBaseline errors must be returned unclassified so conflicts can be
// recognised.
type ControlPlane interface {
	ListBaselines(ctx context.Context) ([]model.Baseline, error)
	ListEnabledBaselines(ctx context.Context) ([]model.EnabledBaseline, error)
	EnableBaseline(ctx context.Context, targetARN string, baselines model.Baselines) (string, error)
	GetBaselineOperation(ctx context.Context, operationID string) (model.BaselineOperation, error)
}

// Options tunes resolution and the two retry budgets.
type Options struct {
	// IdentityCenterMarker is matched against enabled baseline ARNs.
	IdentityCenterMarker string
	Enable               retry.Policy
	Poll                 retry.Policy
	// OnWait, when set, is called before every pause of either loop.
	OnWait retry.Observer
}

// Budget is the longest a single OU registration can spend pausing: every
// enable pause followed by every poll pause.
func (o Options) Budget() time.Duration {
	return o.Enable.Wait() + o.Poll.Wait()
}

// MaxPause is the longest single pause of either loop.
func (o Options) MaxPause() time.Duration {
	return max(o.Enable.Interval, o.Poll.Interval)
}

// DefaultOptions returns 20 enable attempts 60s apart and 40 polls 30s apart.
func DefaultOptions() Options {
	return Options{
		IdentityCenterMarker: "IdentityCenter",
		Enable:               retry.Policy{Attempts: 20, Interval: 60 * time.Second},
		Poll:                 retry.Policy{Attempts: 40, Interval: 30 * time.Second},
	}
}

// Registrar registers OUs one at a time.
type Registrar struct {
	plane  ControlPlane
	logger zerolog.Logger
	opts   Options
}

// New returns a Registrar. Zero-valued option fields fall back to
// DefaultOptions.
func New(plane ControlPlane, logger zerolog.Logger, opts Options) *Registrar {
	def := DefaultOptions()
	if opts.IdentityCenterMarker == "" {
		opts.IdentityCenterMarker = def.IdentityCenterMarker
	}
	if opts.Enable.Attempts == 0 {
		opts.Enable.Attempts = def.Enable.Attempts
	}
	if opts.Enable.Interval == 0 {
		opts.Enable.Interval = def.Enable.Interval
	}
	if opts.Poll.Attempts == 0 {
		opts.Poll.Attempts = def.Poll.Attempts
	}
	if opts.Poll.Interval == 0 {
		opts.Poll.Interval = def.Poll.Interval
	}
	return &Registrar{
		plane:  plane,
		logger: logger.With().Str("component", "registrar").Logger(),
		opts:   opts,
	}
}

// Options returns the effective options, with defaults applied.
func (r *Registrar) Options() Options {
	return r.opts
}
