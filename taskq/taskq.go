// Package taskq provides serial execution contexts for code that must
// only run on one logical thread at a time. A Queue stands in for the
// home context of an RPC instance or of a sender's callbacks: tasks
// posted from any goroutine run one at a time, in post order, on the
// queue's own goroutine.
package taskq

import (
	"sync"

	"go.uber.org/zap"
)

type Queue struct {
	logger *zap.Logger

	lock   sync.Mutex
	wait   *sync.Cond
	tasks  []func()
	closed bool

	// doneCh is closed after the run loop exits.
	doneCh chan struct{}
}

type QueueOptions struct {
	Logger *zap.Logger
}

func NewQueue(opts *QueueOptions) *Queue {
	if opts == nil {
		opts = &QueueOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	q := &Queue{
		logger: logger,
		doneCh: make(chan struct{}),
	}
	q.wait = sync.NewCond(&q.lock)
	go q.run()

	return q
}

func (q *Queue) run() {
	defer close(q.doneCh)

	for {
		q.lock.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.wait.Wait()
		}
		if q.closed {
			numDropped := len(q.tasks)
			q.tasks = nil
			q.lock.Unlock()

			if numDropped > 0 {
				q.logger.Debug("dropping undispatched tasks",
					zap.Int("numTasks", numDropped))
			}
			return
		}

		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.lock.Unlock()

		q.invoke(task)
	}
}

// invoke runs one task with panic recovery so a misbehaving task cannot
// take the whole queue down with it.
func (q *Queue) invoke(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task panicked", zap.Any("panicValue", r))
		}
	}()

	task()
}

// Post enqueues task for execution. It never blocks the caller; tasks
// posted after Close are dropped.
func (q *Queue) Post(task func()) {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		q.logger.Debug("dropping task posted after close")
		return
	}
	q.tasks = append(q.tasks, task)
	q.lock.Unlock()

	q.wait.Signal()
}

// Flush blocks until every task posted before the call has run, or
// until the queue is closed.
func (q *Queue) Flush() {
	flushed := make(chan struct{})

	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return
	}
	q.tasks = append(q.tasks, func() { close(flushed) })
	q.lock.Unlock()

	q.wait.Signal()

	select {
	case <-flushed:
	case <-q.doneCh:
	}
}

// Close stops the run loop and waits for it to exit. Tasks that have
// not started yet are dropped. Close is idempotent and safe to call
// from multiple goroutines.
func (q *Queue) Close() {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		<-q.doneCh
		return
	}
	q.closed = true
	q.lock.Unlock()

	q.wait.Signal()
	<-q.doneCh
}
