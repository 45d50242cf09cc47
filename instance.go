package mtpx

import "time"

// RequestID identifies a single in-flight request. Ids are assigned
// from a process-wide counter and never reused within a process, so a
// request id never collides across concurrent senders.
type RequestID int64

// ShiftedDcID selects which data-center connection a request should be
// sent over. Zero means no preference.
type ShiftedDcID int32

// SerializedRequest is an opaque, already serialized request payload.
// The sender never inspects it.
type SerializedRequest []byte

// ResponseHandlers carries the per-request adapters handed to the
// Instance together with the payload.
//
// Done receives the raw response bytes; the slice is only valid for the
// duration of the call and must be copied before crossing contexts.
// Fail returns false to ask the Instance to apply its own default
// recovery instead of considering the request resolved.
type ResponseHandlers struct {
	Done func(id RequestID, data []byte)
	Fail func(id RequestID, rpcErr *Error) bool
}

// Instance is the shared RPC client this sender dispatches into. An
// Instance must only be touched from its own serialization context; the
// Sender posts every call through its instance runner rather than
// locking around the Instance.
//
// Both methods are fire-and-forget. Cancel must be safe to call with
// ids the Instance has never seen or has already answered.
type Instance interface {
	SendSerialized(
		id RequestID,
		payload SerializedRequest,
		handlers ResponseHandlers,
		dcID ShiftedDcID,
		canWait time.Duration,
		afterID RequestID)
	Cancel(id RequestID)
}

// Runner posts a task onto some execution context. Tasks posted to one
// Runner are expected to execute serially with respect to each other.
// taskq.Queue.Post satisfies this signature.
type Runner func(task func())

// DoneCallback handles a successful response payload. A non-nil return
// reports that the payload failed to decode; the sender then routes a
// RESPONSE_PARSE_FAILED error to the same request's fail callback.
type DoneCallback func(id RequestID, data []byte) error

// FailCallback handles a request failure.
type FailCallback func(id RequestID, rpcErr *Error)
