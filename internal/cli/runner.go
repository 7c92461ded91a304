package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/ouregister/internal/config"
	"github.com/edvin/ouregister/internal/controltower"
	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/platform"
	"github.com/edvin/ouregister/internal/registrar"
	"github.com/edvin/ouregister/internal/retry"
	"github.com/edvin/ouregister/internal/workflow"
)

// RegistrarOptions maps the configuration onto registrar options.
func RegistrarOptions(cfg *config.Config) registrar.Options {
	return registrar.Options{
		IdentityCenterMarker: cfg.IdentityCenterMarker,
		Enable:               retry.Policy{Attempts: cfg.EnableMaxAttempts, Interval: cfg.EnableRetryInterval},
		Poll:                 retry.Policy{Attempts: cfg.PollMaxAttempts, Interval: cfg.PollInterval},
	}
}

// NewRunnerFactory returns the factory used by the register-ous binary.
func NewRunnerFactory(cfg *config.Config, logger zerolog.Logger) RunnerFactory {
	return func(ctx context.Context, useTemporal bool) (Runner, error) {
		if !useTemporal {
			return &LocalRunner{cfg: cfg, logger: logger}, nil
		}
		if err := cfg.Validate("temporal-client"); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		opts, err := cfg.TemporalClientOptions()
		if err != nil {
			return nil, err
		}
		tc, err := temporalclient.Dial(opts)
		if err != nil {
			return nil, fmt.Errorf("connect to temporal: %w", err)
		}
		return &TemporalRunner{client: tc, taskQueue: cfg.TemporalTaskQueue, logger: logger}, nil
	}
}

var _ registrar.ControlPlane = (*controltower.Client)(nil)

// LocalRunner drives the registration in this process.
type LocalRunner struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func (r *LocalRunner) Run(ctx context.Context, region string, ous []model.OrganizationalUnit) (model.Report, error) {
	runLogger := r.logger.With().Str("run_id", platform.NewRunID()).Str("region", region).Logger()

	client, err := controltower.New(ctx, runLogger, controltower.Options{
		Region:          region,
		AccessKeyID:     r.cfg.AWSAccessKeyID,
		SecretAccessKey: r.cfg.AWSSecretAccessKey,
		SessionToken:    r.cfg.AWSSessionToken,
	})
	if err != nil {
		return model.Report{}, err
	}

	return registrar.New(client, runLogger, RegistrarOptions(r.cfg)).Run(ctx, ous)
}

// TemporalRunner starts RegisterOrganizationalUnitsWorkflow on the region's
// task queue and waits for its result.
type TemporalRunner struct {
	client    temporalclient.Client
	taskQueue string
	logger    zerolog.Logger
}

func (r *TemporalRunner) Run(ctx context.Context, region string, ous []model.OrganizationalUnit) (model.Report, error) {
	defer r.client.Close()

	queue := platform.RegionTaskQueue(r.taskQueue, region)
	run, err := r.client.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        platform.RegistrationWorkflowID(region, platform.NewRunID()),
		TaskQueue: queue,
	}, workflow.RegisterOrganizationalUnitsWorkflow, workflow.RegisterOrganizationalUnitsParams{OUs: ous})
	if err != nil {
		return model.Report{}, fmt.Errorf("start registration workflow: %w", err)
	}

	r.logger.Info().
		Str("workflow_id", run.GetID()).
		Str("run_id", run.GetRunID()).
		Str("task_queue", queue).
		Msg("registration workflow started")

	var report model.Report
	if err := run.Get(ctx, &report); err != nil {
		return model.Report{}, fmt.Errorf("registration workflow %s: %w", run.GetID(), err)
	}
	return report, nil
}
