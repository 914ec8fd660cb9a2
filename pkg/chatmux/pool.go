package chatmux

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatmux/pkg/session"
)

// poolSlot pairs a worker with the number of sessions observing it. A slot
// whose count dropped to zero keeps its worker alive until the next acquire
// reclaims it, so in-flight shutdown never races a fresh assignment.
type poolSlot struct {
	worker *worker
	refs   int
}

// workerPool is an elastic pool of worker runtimes. Capacity is fixed at
// first use from the available hardware parallelism clamped into the
// configured bounds; sessions beyond capacity share the least-loaded worker.
type workerPool struct {
	receiver *Receiver
	resolver session.Resolver
	min, max int

	mu        sync.Mutex
	slots     []*poolSlot
	reclaimed []*worker
}

// workerHandle is one session's owning reference to a pooled worker.
type workerHandle struct {
	pool   *workerPool
	slot   *poolSlot
	worker *worker
	once   sync.Once
}

func newWorkerPool(receiver *Receiver, resolver session.Resolver, minWorkers, maxWorkers int) *workerPool {
	return &workerPool{
		receiver: receiver,
		resolver: resolver,
		min:      minWorkers,
		max:      maxWorkers,
	}
}

func (p *workerPool) capacity() int {
	n := runtime.NumCPU()
	if n < p.min {
		n = p.min
	}
	if n > p.max {
		n = p.max
	}
	return n * 5 / 4
}

// acquire returns a handle on the least-observed live worker, allocating a
// fresh worker when the chosen slot is empty or fully released. Safe for
// concurrent use; the lock covers pool bookkeeping only.
func (p *workerPool) acquire() *workerHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.slots == nil {
		capacity := p.capacity()
		p.slots = make([]*poolSlot, capacity)
		for i := range p.slots {
			p.slots[i] = &poolSlot{}
		}
		log.Debug().Int("capacity", capacity).Msg("worker pool initialized")
	}

	slot := p.slots[0]
	for _, s := range p.slots[1:] {
		if s.refs < slot.refs {
			slot = s
		}
	}

	if slot.refs == 0 {
		if slot.worker != nil {
			// Fully released worker: reclaim the slot lazily, now that a
			// new assignment wants it. The runtime drains on its own; close
			// joins it through the reclaimed list.
			slot.worker.shutdown()
			p.reclaimed = append(p.reclaimed, slot.worker)
		}
		slot.worker = newWorker(p.receiver, p.resolver)
	}
	slot.refs++
	return &workerHandle{pool: p, slot: slot, worker: slot.worker}
}

func (h *workerHandle) release() {
	h.once.Do(func() {
		h.pool.mu.Lock()
		h.slot.refs--
		h.pool.mu.Unlock()
	})
}

func (h *workerHandle) get() *worker {
	return h.worker
}

// close shuts every worker down and waits for their runtimes to drain.
// Callers must have released all handles first.
func (p *workerPool) close() {
	p.mu.Lock()
	workers := make([]*worker, 0, len(p.slots))
	for _, s := range p.slots {
		if s.worker != nil {
			workers = append(workers, s.worker)
			s.worker = nil
		}
	}
	reclaimed := p.reclaimed
	p.reclaimed = nil
	p.mu.Unlock()

	for _, w := range workers {
		w.shutdown()
	}
	for _, w := range workers {
		w.wait()
	}
	for _, w := range reclaimed {
		w.wait()
	}
}
