// Package worker runs CPU bound tasks, such as ticking characters, on a bounded goroutine pool.
package worker

import (
	"runtime"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Pool is a goroutine pool that reports panicking tasks to the log and to Sentry instead of
// crashing the process.
type Pool struct {
	pool *ants.Pool
	log  *logrus.Logger
	wg   sync.WaitGroup
}

// New returns a pool of size workers. A size of zero or below uses one worker per CPU.
func New(size int, log *logrus.Logger) (*Pool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{log: log}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(p.handlePanic))
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

func (p *Pool) handlePanic(v any) {
	p.log.Errorf("worker task panic: %v", v)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "worker")
	})
	hub.Recover(v)
	hub.Flush(time.Second * 5)
}

// Submit queues f, blocking while every worker is busy.
func (p *Pool) Submit(f func()) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		f()
	})
	if err != nil {
		p.wg.Done()
	}
	return err
}

// Wait blocks until every task submitted so far has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Size returns the number of workers of the pool.
func (p *Pool) Size() int {
	return p.pool.Cap()
}

// Release waits for running tasks and closes the pool.
func (p *Pool) Release() {
	p.Wait()
	p.pool.Release()
}
