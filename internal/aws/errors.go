package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/vietdv277/appsctl/internal/adapter"
)

// DescribeError renders err for the terminal. Service errors are shown as
// "Operation: Code: message"; remapped endpoint failures and anything else
// keep their own message.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var resErr *adapter.EndpointResolutionError
	if errors.As(err, &resErr) {
		return resErr.Error()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg := fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
		var opErr *smithy.OperationError
		if errors.As(err, &opErr) {
			msg = opErr.OperationName + ": " + msg
		}
		return msg
	}

	return err.Error()
}

// IsFault reports whether err is a server-side fault rather than a problem
// with the request
func IsFault(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultServer
}
