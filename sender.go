package mtpx

import (
	"context"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tgwire/mtpx/zaputils"
)

// Sender dispatches serialized requests from arbitrary goroutines onto
// a shared Instance and routes done/fail callbacks back through a
// caller-chosen runner. All Instance access is marshaled onto the
// instance runner; the Sender takes no locks around the Instance
// itself.
//
// Once Close returns, no callback runs and every still-pending request
// has had an Instance-level cancel issued for it.
type Sender struct {
	instance       Instance
	runner         Runner
	instanceRunner Runner
	logger         *zap.Logger

	// alive is shared with every adapter built by this sender; it is
	// flipped by Close before the registry is drained, so a resolution
	// task scheduled concurrently with teardown finds it false and
	// becomes a no-op.
	alive    *atomic.Bool
	requests *requestRegistry
}

type SenderOptions struct {
	// Runner is the execution context done/fail callbacks resolve on.
	// Tasks posted to it must execute serially. Defaults to running
	// tasks inline on the posting goroutine.
	Runner Runner

	// InstanceRunner is the execution context every Instance call is
	// posted to. It must serialize tasks with all other users of the
	// Instance. Defaults to running tasks inline.
	InstanceRunner Runner

	Logger *zap.Logger
}

func NewSender(instance Instance, opts *SenderOptions) *Sender {
	if opts == nil {
		opts = &SenderOptions{}
	}
	logger := loggerOrNop(opts.Logger)

	runner := opts.Runner
	if runner == nil {
		runner = func(task func()) { task() }
	}
	instanceRunner := opts.InstanceRunner
	if instanceRunner == nil {
		instanceRunner = func(task func()) { task() }
	}

	return &Sender{
		instance:       instance,
		runner:         runner,
		instanceRunner: instanceRunner,
		logger:         logger,

		alive:    atomic.NewBool(true),
		requests: newRequestRegistry(logger),
	}
}

// Request begins building a new request carrying payload. The returned
// builder borrows the sender and must be submitted with Send at most
// once.
func (s *Sender) Request(payload SerializedRequest) *RequestBuilder {
	return &RequestBuilder{
		sender:  s,
		payload: payload,
	}
}

func (s *Sender) withInstance(fn func(instance Instance)) {
	instance := s.instance
	s.instanceRunner(func() {
		fn(instance)
	})
}

// requestDone resolves id through its done callback. A response for an
// id that is no longer registered is expected during cancellation and
// teardown races and is dropped silently.
func (s *Sender) requestDone(id RequestID, data []byte) {
	pending, ok := s.requests.take(id)
	if !ok {
		s.logger.Debug("dropping response for unknown request",
			zaputils.RequestID("requestId", int64(id)))
		return
	}

	if parseErr := pending.done(id, data); parseErr != nil {
		rpcErr := WrapParseError(parseErr)
		s.logger.Debug("response payload failed to parse",
			zaputils.RequestID("requestId", int64(id)),
			zap.Error(parseErr))

		pending.fail(id, rpcErr)
		requestsFailed.Add(context.Background(), 1)
		return
	}

	requestsDone.Add(context.Background(), 1)
}

// requestFail resolves id through its fail callback. No-op for unknown
// ids.
func (s *Sender) requestFail(id RequestID, rpcErr *Error) {
	pending, ok := s.requests.take(id)
	if !ok {
		return
	}

	s.logger.Debug("request failed",
		zaputils.RequestID("requestId", int64(id)),
		zaputils.RPCError("error", rpcErr.Code, rpcErr.Type))

	pending.fail(id, rpcErr)
	requestsFailed.Add(context.Background(), 1)
}

// Cancel drops the pending entry for id, guaranteeing neither callback
// fires, then asynchronously asks the Instance to abandon the network
// request. Safe on ids that are unknown or already resolved.
func (s *Sender) Cancel(id RequestID) {
	s.Detach(id)
	s.withInstance(func(instance Instance) {
		instance.Cancel(id)
	})
	requestsCancelled.Add(context.Background(), 1)
}

// CancelAll drains every pending request without firing callbacks and
// issues one Instance cancel per drained id.
func (s *Sender) CancelAll() {
	s.cancelDrained(s.requests.drainAll())
}

// Detach removes the entry for id without notifying the Instance;
// ownership of the network request passes to the caller.
func (s *Sender) Detach(id RequestID) {
	s.requests.erase(id)
}

// Close tears the sender down. After Close returns no done or fail
// callback will run, and every request still pending at the drain point
// receives an Instance-level cancel. Close is idempotent.
func (s *Sender) Close() {
	if !s.alive.CompareAndSwap(true, false) {
		return
	}

	ids := s.requests.drainAndClose()
	s.logger.Debug("closing sender", zap.Int("numPending", len(ids)))
	s.cancelDrained(ids)
}

func (s *Sender) cancelDrained(ids []RequestID) {
	if len(ids) == 0 {
		return
	}

	s.withInstance(func(instance Instance) {
		for _, id := range ids {
			instance.Cancel(id)
		}
	})
	requestsCancelled.Add(context.Background(), int64(len(ids)))
}
