package workflow

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/ouregister/internal/registrar"
)

// ErrorTypingInterceptor is a Temporal worker interceptor that gives activity
// errors a type: BaselineNotFound for unresolvable baselines, otherwise the
// activity name. The type is what the Temporal UI shows for a failed activity.
type ErrorTypingInterceptor struct {
	interceptor.WorkerInterceptorBase
}

func (e *ErrorTypingInterceptor) InterceptActivity(
	ctx context.Context,
	next interceptor.ActivityInboundInterceptor,
) interceptor.ActivityInboundInterceptor {
	return &errorTypingActivityInterceptor{next: next}
}

type errorTypingActivityInterceptor struct {
	interceptor.ActivityInboundInterceptorBase
	next interceptor.ActivityInboundInterceptor
}

func (e *errorTypingActivityInterceptor) Init(outbound interceptor.ActivityOutboundInterceptor) error {
	return e.next.Init(outbound)
}

func (e *errorTypingActivityInterceptor) ExecuteActivity(
	ctx context.Context,
	in *interceptor.ExecuteActivityInput,
) (interface{}, error) {
	result, err := e.next.ExecuteActivity(ctx, in)
	if err != nil {
		return result, typeActivityError(activity.GetInfo(ctx).ActivityType.Name, err)
	}
	return result, nil
}

// typeActivityError wraps err in an ApplicationError unless it already has a
// type. Missing baselines cannot be fixed by retrying and are non-retryable.
func typeActivityError(activityName string, err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() != "" {
		return err
	}
	if errors.Is(err, registrar.ErrNotFound) {
		return temporal.NewNonRetryableApplicationError(err.Error(), "BaselineNotFound", err)
	}
	return temporal.NewApplicationError(err.Error(), activityName, err)
}
