package mtpx

import "go.uber.org/atomic"

// requestIDCounter hands out process-wide unique request ids. It is
// initialized once at process start and never reset, so ids stay unique
// across every Sender in the process for its whole lifetime.
var requestIDCounter atomic.Int64

func nextRequestID() RequestID {
	return RequestID(requestIDCounter.Inc())
}
