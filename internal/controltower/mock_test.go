package controltower

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/stretchr/testify/mock"
)

// mockAPI implements API for client tests.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListBaselines(ctx context.Context, params *controltower.ListBaselinesInput, optFns ...func(*controltower.Options)) (*controltower.ListBaselinesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*controltower.ListBaselinesOutput), args.Error(1)
}

func (m *mockAPI) ListEnabledBaselines(ctx context.Context, params *controltower.ListEnabledBaselinesInput, optFns ...func(*controltower.Options)) (*controltower.ListEnabledBaselinesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*controltower.ListEnabledBaselinesOutput), args.Error(1)
}

func (m *mockAPI) EnableBaseline(ctx context.Context, params *controltower.EnableBaselineInput, optFns ...func(*controltower.Options)) (*controltower.EnableBaselineOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*controltower.EnableBaselineOutput), args.Error(1)
}

func (m *mockAPI) GetBaselineOperation(ctx context.Context, params *controltower.GetBaselineOperationInput, optFns ...func(*controltower.Options)) (*controltower.GetBaselineOperationOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*controltower.GetBaselineOperationOutput), args.Error(1)
}
