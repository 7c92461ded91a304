// Package cli implements the register-ous command line.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edvin/ouregister/internal/config"
	"github.com/edvin/ouregister/internal/inventory"
	"github.com/edvin/ouregister/internal/model"
)

// Runner executes one registration batch for a region.
type Runner interface {
	Run(ctx context.Context, region string, ous []model.OrganizationalUnit) (model.Report, error)
}

// RunnerFactory returns the in-process runner, or the Temporal-backed one
// when useTemporal is set.
type RunnerFactory func(ctx context.Context, useTemporal bool) (Runner, error)

// NewRootCommand builds the register-ous command.
func NewRootCommand(cfg *config.Config, logger zerolog.Logger, newRunner RunnerFactory) *cobra.Command {
	var (
		file        string
		useTemporal bool
	)

	cmd := &cobra.Command{
		Use:   "register-ous <region> <ous_json>",
		Short: "Register organizational units with AWS Control Tower",
		Long: `Enable the AWSControlTowerBaseline on each organizational unit, in order,
waiting for every operation to finish before moving on.

OUs are given as a JSON array of {"id","arn"} objects, or read from a YAML
or JSON file with --file. Processing stops at the first OU that cannot be
registered and the command exits non-zero.`,
		Example: `  register-ous us-east-1 '[{"id":"ou-ab12-cdef3456","arn":"arn:aws:organizations::123456789012:ou/o-abc/ou-ab12-cdef3456"}]'
  register-ous --file ous.yaml
  register-ous eu-west-1 --file ous.yaml --temporal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			region, ous, err := resolveInput(cfg, file, args)
			if err != nil {
				return err
			}

			runner, err := newRunner(cmd.Context(), useTemporal)
			if err != nil {
				return err
			}

			logger.Info().Str("region", region).Int("ous", len(ous)).Bool("temporal", useTemporal).Msg("starting OU registration")
			report, err := runner.Run(cmd.Context(), region, ous)
			if err != nil {
				return err
			}

			logger.Info().
				Strs("registered", report.Registered).
				Strs("skipped", report.Skipped).
				Msg("OU registration complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read OUs from a YAML or JSON file instead of the ous_json argument")
	cmd.Flags().BoolVar(&useTemporal, "temporal", false, "Run the batch as a Temporal workflow and wait for it")

	return cmd
}

// resolveInput picks the region from the first argument, the inventory file,
// or AWS_REGION, in that order.
func resolveInput(cfg *config.Config, file string, args []string) (string, []model.OrganizationalUnit, error) {
	var (
		region string
		ous    []model.OrganizationalUnit
	)

	if len(args) > 0 {
		region = args[0]
	}

	if file != "" {
		f, err := inventory.LoadFile(file)
		if err != nil {
			return "", nil, err
		}
		if region == "" {
			region = f.Region
		}
		ous = f.OrganizationalUnits
	} else {
		parsed, err := inventory.ParseJSON([]byte(args[1]))
		if err != nil {
			return "", nil, err
		}
		ous = parsed
	}

	if region == "" {
		region = cfg.AWSRegion
	}
	if region == "" {
		return "", nil, fmt.Errorf("region is required: pass it as the first argument, set region in the file, or set AWS_REGION")
	}
	return region, ous, nil
}
