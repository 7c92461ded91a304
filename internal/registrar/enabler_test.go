package registrar

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/ouregister/internal/metrics"
	"github.com/edvin/ouregister/internal/model"
	"github.com/edvin/ouregister/internal/retry"
)

func TestEnableBaseline_Classification(t *testing.T) {
	tests := []struct {
		name      string
		opID      string
		err       error
		want      model.EnableResult
		wantError bool
	}{
		{
			name: "started",
			opID: "op-1",
			want: model.EnableResult{Status: model.EnableStatusStarted, OperationID: "op-1"},
		},
		{
			name: "already governed",
			err:  alreadyGoverned(),
			want: model.EnableResult{Status: model.EnableStatusAlreadyRegistered},
		},
		{
			name: "operation in progress",
			err:  operationInProgress(),
			want: model.EnableResult{Status: model.EnableStatusInProgress},
		},
		{
			name:      "other conflict",
			err:       &smithy.GenericAPIError{Code: "ConflictException", Message: "baseline version 4.0 is not compatible"},
			wantError: true,
		},
		{
			name:      "throttling",
			err:       &smithy.GenericAPIError{Code: "ThrottlingException", Message: "Rate exceeded"},
			wantError: true,
		},
		{
			name:      "accepted without operation id",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := &mockPlane{}
			plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return(tt.opID, tt.err)

			r, _ := newTestRegistrar(plane)
			got, err := r.EnableBaseline(context.Background(), ou1, testBaselines)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "ou-1")
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAwaitEnableSlot_RetriesThroughConflicts(t *testing.T) {
	const conflicts = 5

	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("", operationInProgress()).Times(conflicts)
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("op-42", nil).Once()

	r, waits := newTestRegistrar(plane)
	got, err := r.AwaitEnableSlot(context.Background(), ou1, testBaselines)
	require.NoError(t, err)
	assert.Equal(t, model.EnableResult{Status: model.EnableStatusStarted, OperationID: "op-42"}, got)
	assert.Equal(t, repeat(enableTick, conflicts), waits.seen)
	plane.AssertNumberOfCalls(t, "EnableBaseline", conflicts+1)
}

func TestAwaitEnableSlot_TimesOutAfterBudget(t *testing.T) {
	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("", operationInProgress())

	r, waits := newTestRegistrar(plane)
	_, err := r.AwaitEnableSlot(context.Background(), ou1, testBaselines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnableSlotTimeout)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Contains(t, err.Error(), "ou-1")
	plane.AssertNumberOfCalls(t, "EnableBaseline", 20)
	assert.Len(t, waits.seen, 19)
}

func TestAwaitEnableSlot_RetriesErrors(t *testing.T) {
	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).
		Return("", &smithy.GenericAPIError{Code: "ThrottlingException", Message: "Rate exceeded"}).Twice()
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("", operationInProgress()).Once()
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("op-7", nil).Once()

	r, waits := newTestRegistrar(plane)
	got, err := r.AwaitEnableSlot(context.Background(), ou1, testBaselines)
	require.NoError(t, err)
	assert.Equal(t, "op-7", got.OperationID)
	assert.Len(t, waits.seen, 3)
}

func TestAwaitEnableSlot_PersistentErrorExhaustsBudget(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}
	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("", denied)

	r, _ := newTestRegistrar(plane)
	_, err := r.AwaitEnableSlot(context.Background(), ou1, testBaselines)
	assert.ErrorIs(t, err, ErrEnableSlotTimeout)
	assert.ErrorIs(t, err, denied)
	plane.AssertNumberOfCalls(t, "EnableBaseline", 20)
}

func TestAwaitEnableSlot_AlreadyRegisteredReturnsImmediately(t *testing.T) {
	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Return("", alreadyGoverned()).Once()

	before := testutil.ToFloat64(metrics.EnableAttemptsTotal.WithLabelValues("already_registered"))

	r, waits := newTestRegistrar(plane)
	got, err := r.AwaitEnableSlot(context.Background(), ou1, testBaselines)
	require.NoError(t, err)
	assert.Equal(t, model.EnableStatusAlreadyRegistered, got.Status)
	assert.Empty(t, waits.seen)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EnableAttemptsTotal.WithLabelValues("already_registered")))
}

func TestAwaitEnableSlot_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	plane := &mockPlane{}
	plane.On("EnableBaseline", mock.Anything, ou1.ARN, testBaselines).Run(func(mock.Arguments) {
		cancel()
	}).Return("", errors.New("request canceled"))

	r, _ := newTestRegistrar(plane)
	_, err := r.AwaitEnableSlot(ctx, ou1, testBaselines)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrEnableSlotTimeout)
	plane.AssertNumberOfCalls(t, "EnableBaseline", 1)
}
