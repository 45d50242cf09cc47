package mtpx

import "github.com/tgwire/mtpx/taskq"

// testQueueRunner adapts a taskq.Queue into the Runner shape for tests
// that want real cross-goroutine execution contexts.
type testQueueRunner struct {
	queue *taskq.Queue
}

func newTestQueueRunner() *testQueueRunner {
	return &testQueueRunner{
		queue: taskq.NewQueue(nil),
	}
}

func (r *testQueueRunner) post(task func()) { r.queue.Post(task) }
func (r *testQueueRunner) flush()           { r.queue.Flush() }
func (r *testQueueRunner) close()           { r.queue.Close() }
