package registrar

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/retry"
)

// mockPlane implements ControlPlane for registrar tests.
type mockPlane struct {
	mock.Mock
}

func (m *mockPlane) ListBaselines(ctx context.Context) ([]model.Baseline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Baseline), args.Error(1)
}

func (m *mockPlane) ListEnabledBaselines(ctx context.Context) ([]model.EnabledBaseline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EnabledBaseline), args.Error(1)
}

func (m *mockPlane) EnableBaseline(ctx context.Context, targetARN string, baselines model.Baselines) (string, error) {
	args := m.Called(ctx, targetARN, baselines)
	return args.String(0), args.Error(1)
}

func (m *mockPlane) GetBaselineOperation(ctx context.Context, operationID string) (model.BaselineOperation, error) {
	args := m.Called(ctx, operationID)
	return args.Get(0).(model.BaselineOperation), args.Error(1)
}

// Short real intervals keep the loops fast; distinct values tell the enable
// loop's pauses from the poller's.
const (
	enableTick = time.Millisecond
	pollTick   = 2 * time.Millisecond
)

// waitRecorder remembers every pause the registrar announces.
type waitRecorder struct {
	seen []time.Duration
}

func (w *waitRecorder) observe(_ context.Context, d time.Duration) {
	w.seen = append(w.seen, d)
}

var (
	testBaselines = model.Baselines{
		BaselineIdentifier:        "arn:aws:controltower:us-east-1::baseline/17BSJV3IGJ2QSGA2",
		IdentityCenterBaselineARN: "arn:aws:controltower:us-east-1:123456789012:enabledbaseline/XIC",
	}
	ou1 = model.OrganizationalUnit{ID: "ou-1", ARN: "arn:aws:organizations::123456789012:ou/o-abc/ou-1"}
	ou2 = model.OrganizationalUnit{ID: "ou-2", ARN: "arn:aws:organizations::123456789012:ou/o-abc/ou-2"}
	ou3 = model.OrganizationalUnit{ID: "ou-3", ARN: "arn:aws:organizations::123456789012:ou/o-abc/ou-3"}
)

func alreadyGoverned() error {
	return &cttypes.ConflictException{Message: aws.String("AWS Control Tower cannot perform this operation: the target is already governed.")}
}

func operationInProgress() error {
	return &cttypes.ConflictException{Message: aws.String("AWS Control Tower cannot perform this operation because another operation is in progress.")}
}

func status(s model.OperationStatus) model.BaselineOperation {
	return model.BaselineOperation{Status: s}
}

func newTestRegistrar(plane ControlPlane) (*Registrar, *waitRecorder) {
	w := &waitRecorder{}
	r := New(plane, zerolog.Nop(), Options{
		IdentityCenterMarker: "IdentityCenter",
		Enable:               retry.Policy{Attempts: 20, Interval: enableTick},
		Poll:                 retry.Policy{Attempts: 40, Interval: pollTick},
		OnWait:               w.observe,
	})
	return r, w
}

func repeat(d time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = d
	}
	return out
}
