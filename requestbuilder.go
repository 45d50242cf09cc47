package mtpx

import (
	"context"
	"time"

	"github.com/tgwire/mtpx/zaputils"
)

// RequestBuilder accumulates the options for one request before it is
// handed to the Instance. Builders are single use: Send consumes the
// payload, and calling Send twice is a programming error.
type RequestBuilder struct {
	sender  *Sender
	payload SerializedRequest
	sent    bool

	dcID       ShiftedDcID
	canWait    time.Duration
	afterID    RequestID
	skipPolicy FailSkipPolicy
	done       DoneCallback
	fail       FailCallback
}

// SetToDC targets the request at a specific data-center connection.
func (b *RequestBuilder) SetToDC(dcID ShiftedDcID) *RequestBuilder {
	b.dcID = dcID
	return b
}

// SetCanWait sets the advisory wait budget forwarded to the Instance.
// The sender itself never applies a timeout.
func (b *RequestBuilder) SetCanWait(canWait time.Duration) *RequestBuilder {
	b.canWait = canWait
	return b
}

func (b *RequestBuilder) SetFailSkipPolicy(policy FailSkipPolicy) *RequestBuilder {
	b.skipPolicy = policy
	return b
}

// SetAfter asks the transport to order this request after the
// submission of afterID. The hint is passed through unmodified.
func (b *RequestBuilder) SetAfter(afterID RequestID) *RequestBuilder {
	b.afterID = afterID
	return b
}

func (b *RequestBuilder) OnDone(done DoneCallback) *RequestBuilder {
	b.done = done
	return b
}

func (b *RequestBuilder) OnFail(fail FailCallback) *RequestBuilder {
	b.fail = fail
	return b
}

// Send registers the callbacks, posts the payload to the Instance on
// its runner and immediately returns the new request id. It never
// blocks on the network exchange.
func (b *RequestBuilder) Send() RequestID {
	if b.sent {
		panic("mtpx: RequestBuilder.Send called twice")
	}
	b.sent = true

	requestID := nextRequestID()

	done := b.done
	if done == nil {
		done = func(RequestID, []byte) error { return nil }
	}
	fail := b.fail
	if fail == nil {
		fail = func(RequestID, *Error) {}
	}

	sender := b.sender

	// Registration happens before submission so a response arriving
	// instantly cannot find the registry empty.
	if !sender.requests.register(requestID, pendingRequest{done: done, fail: fail}) {
		// The sender has been closed; nothing will ever resolve this id.
		return requestID
	}

	payload := b.payload
	b.payload = nil

	handlers := ResponseHandlers{
		Done: newDoneHandler(sender).Handle,
		Fail: newFailHandler(sender, b.skipPolicy).Handle,
	}

	dcID := b.dcID
	canWait := b.canWait
	afterID := b.afterID
	sender.withInstance(func(instance Instance) {
		instance.SendSerialized(requestID, payload, handlers, dcID, canWait, afterID)
	})

	requestsSent.Add(context.Background(), 1)
	sender.logger.Debug("sent request",
		zaputils.RequestID("requestId", int64(requestID)),
		zaputils.DcID("dcId", int32(dcID)))

	return requestID
}
