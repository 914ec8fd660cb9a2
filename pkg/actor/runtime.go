// Package actor provides a minimal single-goroutine cooperative scheduler.
//
// A Runtime owns exactly one goroutine that drains a FIFO mailbox of
// closures. Everything dispatched onto the same Runtime executes strictly
// sequentially, so state touched only from dispatched closures needs no
// locking. Many independent actors can share one Runtime as long as each
// actor's state is confined to it.
package actor

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Runtime is a single-goroutine executor with an unbounded FIFO mailbox.
// Producers never block.
type Runtime struct {
	tag string

	mu      sync.Mutex
	mailbox []func()
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// New starts a runtime. The tag identifies it in logs.
func New(tag string) *Runtime {
	r := &Runtime{
		tag:  tag,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go r.run()
	log.Debug().Str("runtime", tag).Msg("actor runtime started")
	return r
}

// Tag returns the runtime's log tag.
func (r *Runtime) Tag() string { return r.tag }

// Dispatch enqueues fn for execution on the scheduler goroutine, preserving
// submission order. It reports false once Shutdown has begun, in which case
// fn is dropped.
func (r *Runtime) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.mailbox = append(r.mailbox, fn)
	r.mu.Unlock()
	r.signal()
	return true
}

// Shutdown stops the runtime. Work already in the mailbox still runs to
// completion on the scheduler goroutine; new dispatches are rejected.
// Safe to call more than once.
func (r *Runtime) Shutdown() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.signal()
}

// Wait blocks until the scheduler goroutine has exited. Callers must invoke
// Shutdown first or Wait never returns.
func (r *Runtime) Wait() {
	<-r.done
}

func (r *Runtime) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Runtime) run() {
	for {
		r.mu.Lock()
		if len(r.mailbox) == 0 {
			if r.closed {
				r.mu.Unlock()
				close(r.done)
				log.Debug().Str("runtime", r.tag).Msg("actor runtime stopped")
				return
			}
			r.mu.Unlock()
			<-r.wake
			continue
		}
		fn := r.mailbox[0]
		r.mailbox = r.mailbox[1:]
		r.mu.Unlock()
		fn()
	}
}
