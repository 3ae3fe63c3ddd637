// Package executor provides the blocking-capable execution resource used
// to keep remote introspection and userinfo calls off non-blocking
// contexts.
package executor

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrPoolClosed = errors.New("executor pool is closed")
	ErrQueueFull  = errors.New("executor queue is full")
)

// Pool is a bounded pool of goroutines for work that is allowed to block.
// Submission is fire-and-forget; callers wire results back over their own
// channels.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	lock   sync.Mutex
	closed bool
}

// NewPool starts a pool with the given number of workers and queue
// capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit enqueues a task. It never blocks: a full queue returns
// ErrQueueFull so the caller can surface back-pressure instead of stalling
// a non-blocking context.
func (p *Pool) Submit(task func()) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for queued tasks to drain.
func (p *Pool) Close() {
	p.lock.Lock()
	if p.closed {
		p.lock.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.lock.Unlock()
	p.wg.Wait()
}
