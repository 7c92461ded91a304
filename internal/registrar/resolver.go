package registrar

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/ouregister/internal/model"
)

// ResolveBaselines resolves the baseline identifier and the identity center
// enabled baseline ARN, listing each collection once. Either failing is fatal
// for the run.
func (r *Registrar) ResolveBaselines(ctx context.Context) (model.Baselines, error) {
	baselines, err := r.plane.ListBaselines(ctx)
	if err != nil {
		return model.Baselines{}, fmt.Errorf("resolve baseline identifier: %w", err)
	}
	id, err := FindBaselineIdentifier(baselines)
	if err != nil {
		return model.Baselines{}, err
	}

	icARN, err := r.identityCenterBaselineARN(ctx, baselines)
	if err != nil {
		return model.Baselines{}, err
	}

	r.logger.Info().
		Str("baseline_identifier", id).
		Str("identity_center_baseline_arn", icARN).
		Msg("resolved baselines")

	return model.Baselines{
		BaselineIdentifier:        id,
		IdentityCenterBaselineARN: icARN,
	}, nil
}

// ResolveBaselineIdentifier returns the ARN of the AWSControlTowerBaseline.
func (r *Registrar) ResolveBaselineIdentifier(ctx context.Context) (string, error) {
	baselines, err := r.plane.ListBaselines(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve baseline identifier: %w", err)
	}
	return FindBaselineIdentifier(baselines)
}

// ResolveIdentityCenterBaselineArn returns the ARN of the enabled identity
// center baseline. See FindIdentityCenterBaselineARN for the match rules.
func (r *Registrar) ResolveIdentityCenterBaselineArn(ctx context.Context) (string, error) {
	baselines, err := r.plane.ListBaselines(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve identity center baseline: %w", err)
	}
	return r.identityCenterBaselineARN(ctx, baselines)
}

func (r *Registrar) identityCenterBaselineARN(ctx context.Context, baselines []model.Baseline) (string, error) {
	enabled, err := r.plane.ListEnabledBaselines(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve identity center baseline: %w", err)
	}
	icBaseline, _ := findBaselineARN(baselines, model.IdentityCenterBaselineName)
	return FindIdentityCenterBaselineARN(enabled, r.opts.IdentityCenterMarker, icBaseline)
}

// FindBaselineIdentifier returns the ARN of the first baseline named
// AWSControlTowerBaseline.
func FindBaselineIdentifier(baselines []model.Baseline) (string, error) {
	arn, ok := findBaselineARN(baselines, model.ControlTowerBaselineName)
	if !ok {
		return "", fmt.Errorf("%s %w", model.ControlTowerBaselineName, ErrNotFound)
	}
	return arn, nil
}

// FindIdentityCenterBaselineARN returns the ARN of the first enabled baseline
// whose ARN contains marker, or else the first whose baseline identifier is
// icBaselineARN. Empty marker or icBaselineARN disables that match.
func FindIdentityCenterBaselineARN(enabled []model.EnabledBaseline, marker, icBaselineARN string) (string, error) {
	if arn, ok := matchMarker(enabled, marker); ok {
		return arn, nil
	}
	if icBaselineARN != "" {
		for _, b := range enabled {
			if b.BaselineIdentifier == icBaselineARN {
				return b.ARN, nil
			}
		}
	}
	return "", fmt.Errorf("%s %w", model.IdentityCenterBaselineName, ErrNotFound)
}

func findBaselineARN(baselines []model.Baseline, name string) (string, bool) {
	for _, b := range baselines {
		if b.Name == name {
			return b.ARN, true
		}
	}
	return "", false
}

func matchMarker(enabled []model.EnabledBaseline, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}
	for _, b := range enabled {
		if strings.Contains(b.ARN, marker) {
			return b.ARN, true
		}
	}
	return "", false
}
