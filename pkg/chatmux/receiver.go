package chatmux

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-go-golems/chatmux/pkg/protocol"
)

// Receiver is the multi-producer, single-consumer delivery channel between
// worker runtimes and the caller. Producers never block; the single consumer
// may block up to its timeout.
type Receiver struct {
	mu    sync.Mutex
	queue []protocol.Response
	wake  chan struct{}

	// Exactly one goroutine may sit in Receive at a time; this flag turns a
	// silent race into a loud contract failure.
	receiving atomic.Bool
}

func newReceiver() *Receiver {
	return &Receiver{wake: make(chan struct{}, 1)}
}

func (r *Receiver) push(resp protocol.Response) {
	r.mu.Lock()
	r.queue = append(r.queue, resp)
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Receiver) pop() (protocol.Response, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return protocol.Response{}, false
	}
	resp := r.queue[0]
	r.queue = r.queue[1:]
	return resp, true
}

// Receive returns the next queued response, blocking up to timeout when the
// queue is empty. On timeout it returns the zero Response. Calling Receive
// from two goroutines concurrently is a contract violation and panics.
func (r *Receiver) Receive(timeout time.Duration) protocol.Response {
	if !r.receiving.CompareAndSwap(false, true) {
		panic("chatmux: Receive called concurrently from multiple goroutines")
	}
	defer r.receiving.Store(false)

	if resp, ok := r.pop(); ok {
		return resp
	}
	if timeout <= 0 {
		return protocol.Response{}
	}

	deadline := time.Now().Add(timeout)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-r.wake:
			if resp, ok := r.pop(); ok {
				return resp
			}
			// Spurious wake: a previous consumer pass already drained the
			// corresponding response. Re-arm for the remaining time.
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return protocol.Response{}
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(remaining)
		case <-timer.C:
			return protocol.Response{}
		}
	}
}
