package awsconf

import (
	"errors"

	"github.com/aws/smithy-go"
)

var notFoundCodes = map[string]bool{
	"NoSuchBucket":                            true,
	"NoSuchKey":                               true,
	"NotFound":                                true,
	"QueueDoesNotExist":                       true,
	"AWS.SimpleQueueService.NonExistentQueue": true,
}

// ErrorCode returns the service error code carried by err, or "" when err is not
// a service API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotFound reports whether err is a service error for a missing resource.
func IsNotFound(err error) bool {
	return notFoundCodes[ErrorCode(err)]
}
