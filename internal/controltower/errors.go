package controltower

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

const (
	conflictErrorCode          = "ConflictException"
	alreadyGovernedMessage     = "already governed"
	operationInProgressMessage = "another operation is in progress"
)

// IsAlreadyGoverned reports whether err is a conflict raised because the
// target OU is already registered with Control Tower.
func IsAlreadyGoverned(err error) bool {
	return isConflictWith(err, alreadyGovernedMessage)
}

// IsOperationInProgress reports whether err is a conflict raised because
// another baseline operation is running against the same target.
func IsOperationInProgress(err error) bool {
	return isConflictWith(err, operationInProgressMessage)
}

func isConflictWith(err error, fragment string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.ErrorCode() != conflictErrorCode {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.ErrorMessage()), fragment)
}
