package controltower

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/aws/aws-sdk-go-v2/service/controltower/document"
	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
	"github.com/rs/zerolog"

	"github.com/edvin/ouregister/internal/model"
)

// API is the subset of the Control Tower SDK client used by Client.
type API interface {
	controltower.ListBaselinesAPIClient
	controltower.ListEnabledBaselinesAPIClient
	EnableBaseline(ctx context.Context, params *controltower.EnableBaselineInput, optFns ...func(*controltower.Options)) (*controltower.EnableBaselineOutput, error)
	GetBaselineOperation(ctx context.Context, params *controltower.GetBaselineOperationInput, optFns ...func(*controltower.Options)) (*controltower.GetBaselineOperationOutput, error)
}

// Options configures the SDK client built by New.
type Options struct {
	Region string
	// Static credentials override the default chain when AccessKeyID is set.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Client translates between the Control Tower SDK and the model types.
type Client struct {
	api    API
	logger zerolog.Logger
}

// New loads the default AWS configuration for the region and returns a Client
// backed by the real Control Tower service.
func New(ctx context.Context, logger zerolog.Logger, opts Options) (*Client, error) {
	if opts.Region == "" {
		return nil, fmt.Errorf("controltower: region is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewWithAPI(controltower.NewFromConfig(awsCfg), logger), nil
}

// NewWithAPI wraps an existing SDK client (or a fake of one).
func NewWithAPI(api API, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger.With().Str("component", "controltower").Logger(),
	}
}

// ListBaselines returns every baseline available in the region.
func (c *Client) ListBaselines(ctx context.Context) ([]model.Baseline, error) {
	var out []model.Baseline
	paginator := controltower.NewListBaselinesPaginator(c.api, &controltower.ListBaselinesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list baselines: %w", err)
		}
		for _, b := range page.Baselines {
			out = append(out, model.Baseline{
				Name: aws.ToString(b.Name),
				ARN:  aws.ToString(b.Arn),
			})
		}
	}
	c.logger.Debug().Int("count", len(out)).Msg("listed baselines")
	return out, nil
}

// ListEnabledBaselines returns every baseline currently enabled on any target.
func (c *Client) ListEnabledBaselines(ctx context.Context) ([]model.EnabledBaseline, error) {
	var out []model.EnabledBaseline
	paginator := controltower.NewListEnabledBaselinesPaginator(c.api, &controltower.ListEnabledBaselinesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list enabled baselines: %w", err)
		}
		for _, b := range page.EnabledBaselines {
			out = append(out, model.EnabledBaseline{
				ARN:                aws.ToString(b.Arn),
				BaselineIdentifier: aws.ToString(b.BaselineIdentifier),
				TargetIdentifier:   aws.ToString(b.TargetIdentifier),
			})
		}
	}
	c.logger.Debug().Int("count", len(out)).Msg("listed enabled baselines")
	return out, nil
}

// EnableBaseline starts enabling the Control Tower baseline on the target OU
// and returns the operation identifier. Errors are returned unclassified; see
// IsAlreadyGoverned and IsOperationInProgress.
func (c *Client) EnableBaseline(ctx context.Context, targetARN string, baselines model.Baselines) (string, error) {
	out, err := c.api.EnableBaseline(ctx, &controltower.EnableBaselineInput{
		BaselineIdentifier: aws.String(baselines.BaselineIdentifier),
		BaselineVersion:    aws.String(model.ControlTowerBaselineVersion),
		TargetIdentifier:   aws.String(targetARN),
		Parameters: []cttypes.EnabledBaselineParameter{
			{
				Key:   aws.String(model.IdentityCenterParameterKey),
				Value: document.NewLazyDocument(baselines.IdentityCenterBaselineARN),
			},
		},
	})
	if err != nil {
		return "", err
	}

	c.logger.Info().
		Str("target", targetARN).
		Str("operation_id", aws.ToString(out.OperationIdentifier)).
		Str("enabled_baseline_arn", aws.ToString(out.Arn)).
		Msg("enable baseline accepted")
	return aws.ToString(out.OperationIdentifier), nil
}

// GetBaselineOperation fetches the current state of a baseline operation.
func (c *Client) GetBaselineOperation(ctx context.Context, operationID string) (model.BaselineOperation, error) {
	out, err := c.api.GetBaselineOperation(ctx, &controltower.GetBaselineOperationInput{
		OperationIdentifier: aws.String(operationID),
	})
	if err != nil {
		return model.BaselineOperation{}, fmt.Errorf("get baseline operation %s: %w", operationID, err)
	}

	op := model.BaselineOperation{OperationID: operationID}
	if out.BaselineOperation != nil {
		op.Status = model.OperationStatus(out.BaselineOperation.Status)
		op.StatusMessage = aws.ToString(out.BaselineOperation.StatusMessage)
	}
	return op, nil
}
