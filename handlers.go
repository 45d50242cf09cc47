package mtpx

import "go.uber.org/atomic"

// FailSkipPolicy controls which transport errors the fail adapter
// intercepts and which it declines, leaving them to the Instance's
// default recovery.
type FailSkipPolicy int

const (
	// FailSkipSimple declines every default-handled error.
	FailSkipSimple FailSkipPolicy = iota

	// FailSkipHandleFlood declines default-handled errors except
	// flood-waits, which are always surfaced to the caller.
	FailSkipHandleFlood

	// FailSkipExplicit surfaces every error to the caller.
	FailSkipExplicit
)

// The done and fail adapters are what the Instance invokes, on its own
// context. They do as little as possible there: error classification
// for the fail side, copying the payload for the done side, then a hop
// through the sender's runner. The alive guard is re-checked inside the
// runner task immediately before the sender is touched, so a response
// racing Close degrades to a no-op instead of resolving against a
// closed sender.

type doneHandler struct {
	sender *Sender
	alive  *atomic.Bool
	runner Runner
}

func newDoneHandler(sender *Sender) *doneHandler {
	return &doneHandler{
		sender: sender,
		alive:  sender.alive,
		runner: sender.runner,
	}
}

func (h *doneHandler) Handle(id RequestID, data []byte) {
	// The payload is only valid for the duration of this call.
	moved := make([]byte, len(data))
	copy(moved, data)

	h.runner(func() {
		if !h.alive.Load() {
			return
		}
		h.sender.requestDone(id, moved)
	})
}

type failHandler struct {
	sender     *Sender
	alive      *atomic.Bool
	runner     Runner
	skipPolicy FailSkipPolicy
}

func newFailHandler(sender *Sender, skipPolicy FailSkipPolicy) *failHandler {
	return &failHandler{
		sender:     sender,
		alive:      sender.alive,
		runner:     sender.runner,
		skipPolicy: skipPolicy,
	}
}

// Handle classifies the error before any context hop: declining has to
// happen synchronously so the Instance knows to run its own recovery
// for this delivery.
func (h *failHandler) Handle(id RequestID, rpcErr *Error) bool {
	switch h.skipPolicy {
	case FailSkipSimple:
		if IsDefaultHandledError(rpcErr) {
			return false
		}
	case FailSkipHandleFlood:
		if IsDefaultHandledError(rpcErr) && !IsFloodError(rpcErr) {
			return false
		}
	case FailSkipExplicit:
	}

	h.runner(func() {
		if !h.alive.Load() {
			return
		}
		h.sender.requestFail(id, rpcErr)
	})
	return true
}
