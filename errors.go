package mtpx

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ClientErrorCode marks errors synthesized locally by the sender rather
// than received from the transport.
const ClientErrorCode = -1000

// Error is a transport-level RPC error. The sender only inspects it
// through the classification predicates below; everything else passes
// through to the caller untouched.
type Error struct {
	Code        int32
	Type        string
	Description string

	cause error
}

func NewError(code int32, errType string, description string) *Error {
	return &Error{
		Code:        code,
		Type:        errType,
		Description: description,
	}
}

// WrapParseError builds the RESPONSE_PARSE_FAILED error delivered to a
// request's fail callback when its done callback cannot decode the
// response payload.
func WrapParseError(parseErr error) *Error {
	return &Error{
		Code:        ClientErrorCode,
		Type:        "RESPONSE_PARSE_FAILED",
		Description: fmt.Sprintf("parse failed: %s", parseErr),
		cause:       errors.WithMessage(parseErr, "response parse failed"),
	}
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("rpc error %d: %s", e.Code, e.Type)
	}
	return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Type, e.Description)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsFloodError reports whether the error is a flood-wait throttle.
func IsFloodError(rpcErr *Error) bool {
	return strings.HasPrefix(rpcErr.Type, "FLOOD_WAIT_")
}

// IsTemporaryError reports whether the error belongs to the class the
// Instance recovers from on its own, for example by waiting out a
// throttle or re-sending after an internal restart.
func IsTemporaryError(rpcErr *Error) bool {
	return rpcErr.Code < 0 || rpcErr.Code >= 500 || IsFloodError(rpcErr)
}

// IsDefaultHandledError reports whether, absent an explicit fail-skip
// policy, the error should be left to the Instance's default recovery
// instead of being surfaced to the caller.
func IsDefaultHandledError(rpcErr *Error) bool {
	return IsTemporaryError(rpcErr)
}
