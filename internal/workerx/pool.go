// Package workerx provides a small request/response worker pool.
//
// CPU-bound work (decryption, image transcoding) runs on dedicated
// goroutines owned by the pool; callers reach them only through channels, so
// the pipeline never shares mutable state with a worker and a slow decode
// cannot stall the caller past its context deadline.
package workerx

import (
	"context"
	"errors"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("worker pool closed")

type result[R any] struct {
	val R
	err error
}

type job[Q, R any] struct {
	req  Q
	resp chan result[R]
}

// Pool runs fn on a fixed set of worker goroutines.
type Pool[Q, R any] struct {
	jobs chan job[Q, R]
	quit chan struct{}
}

// NewPool starts workers goroutines executing fn. workers values below 1 are
// clamped to 1.
func NewPool[Q, R any](workers int, fn func(Q) (R, error)) *Pool[Q, R] {
	if workers < 1 {
		workers = 1
	}
	p := &Pool[Q, R]{
		jobs: make(chan job[Q, R]),
		quit: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.run(fn)
	}
	return p
}

func (p *Pool[Q, R]) run(fn func(Q) (R, error)) {
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.jobs:
			v, err := fn(j.req)
			// resp is buffered; never blocks if the caller gave up.
			j.resp <- result[R]{val: v, err: err}
		}
	}
}

// Do submits req and waits for the worker's response or ctx cancellation.
// A request already picked up by a worker runs to completion either way; its
// result is simply dropped.
func (p *Pool[Q, R]) Do(ctx context.Context, req Q) (R, error) {
	var zero R

	// Closed pools refuse new work outright, even if a worker has not yet
	// observed the quit signal.
	select {
	case <-p.quit:
		return zero, ErrPoolClosed
	default:
	}

	j := job[Q, R]{req: req, resp: make(chan result[R], 1)}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.quit:
		return zero, ErrPoolClosed
	}

	select {
	case r := <-j.resp:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops the workers. Pending Do calls return ErrPoolClosed or their
// in-flight result, whichever wins.
func (p *Pool[Q, R]) Close() {
	close(p.quit)
}
