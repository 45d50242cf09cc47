package mtpx

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/tgwire/mtpx/zaputils"
)

type pendingRequest struct {
	done DoneCallback
	fail FailCallback
}

// requestRegistry tracks requests that have been handed to the Instance
// and not yet resolved, cancelled or detached. register happens on the
// submitting goroutine while take arrives from the callback runner and
// erase may come from Cancel on any goroutine, so access goes through
// the registry lock rather than relying on a single home context.
type requestRegistry struct {
	logger *zap.Logger

	lock    sync.Mutex
	closed  bool
	pending map[RequestID]pendingRequest
}

func newRequestRegistry(logger *zap.Logger) *requestRegistry {
	return &requestRegistry{
		logger:  logger,
		pending: make(map[RequestID]pendingRequest),
	}
}

// register inserts the entry for id. It returns false once the registry
// has been closed by drainAndClose, signalling the caller to skip
// submission. Registering an id twice is a programming error since ids
// come from the process-wide generator.
func (r *requestRegistry) register(id RequestID, pending pendingRequest) bool {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return false
	}
	if _, ok := r.pending[id]; ok {
		r.lock.Unlock()
		r.logger.DPanic("request id registered twice",
			zaputils.RequestID("requestId", int64(id)))
		return false
	}
	r.pending[id] = pending
	r.lock.Unlock()
	return true
}

// take removes and returns the entry for id. Each resolution path holds
// the entry it took exclusively, which is what makes delivery
// at-most-once.
func (r *requestRegistry) take(id RequestID) (pendingRequest, bool) {
	r.lock.Lock()
	pending, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.lock.Unlock()
	return pending, ok
}

// erase removes the entry for id without returning it; neither callback
// can fire for an erased id.
func (r *requestRegistry) erase(id RequestID) bool {
	r.lock.Lock()
	_, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.lock.Unlock()
	return ok
}

// drainAll removes every pending entry and returns the drained ids in
// ascending order.
func (r *requestRegistry) drainAll() []RequestID {
	r.lock.Lock()
	ids := r.drainLocked()
	r.lock.Unlock()
	return ids
}

// drainAndClose behaves like drainAll and additionally rejects all
// future register calls. Used on sender teardown.
func (r *requestRegistry) drainAndClose() []RequestID {
	r.lock.Lock()
	r.closed = true
	ids := r.drainLocked()
	r.lock.Unlock()
	return ids
}

func (r *requestRegistry) drainLocked() []RequestID {
	ids := make([]RequestID, 0, len(r.pending))
	for id := range r.pending {
		ids = append(ids, id)
	}
	r.pending = make(map[RequestID]pendingRequest)

	// Sorted so the per-id instance cancels go out in submission order.
	slices.Sort(ids)
	return ids
}
