package chatmux

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatmux/pkg/protocol"
)

// closeDrainTimeout bounds each drain step during Close. Teardown trades
// latency for guaranteed reclamation: the drain retries until every session
// has delivered its terminal close signal.
const closeDrainTimeout = 10 * time.Second

// sessionEntry is the router-side record of one live session.
type sessionEntry struct {
	handle  *workerHandle
	closing bool
}

// Manager multiplexes many logical sessions over a shared pool of worker
// runtimes. It is the process-wide entry point: construct one explicitly and
// pass it where needed.
//
// All methods are safe for concurrent use except Receive, which must only
// ever be called from one goroutine at a time.
type Manager struct {
	receiver *Receiver
	pool     *workerPool

	mu       sync.RWMutex
	sessions map[protocol.SessionID]*sessionEntry

	nextSessionID atomic.Int64
	closed        atomic.Bool
}

// NewManager creates a manager with its own worker pool and receiver.
func NewManager(opts Options) *Manager {
	opts.setDefaults()
	receiver := newReceiver()
	return &Manager{
		receiver: receiver,
		pool:     newWorkerPool(receiver, opts.Resolver, opts.MinWorkers, opts.MaxWorkers),
		sessions: map[protocol.SessionID]*sessionEntry{},
	}
}

// CreateSession spawns a new session actor on the least-loaded worker and
// returns its identifier. Identifiers are positive, monotonically increasing
// and never reused. On a closed manager it returns 0; no session is created.
func (m *Manager) CreateSession() protocol.SessionID {
	if m.closed.Load() {
		log.Warn().Msg("session creation on closed manager rejected")
		return 0
	}
	id := protocol.SessionID(m.nextSessionID.Add(1))
	handle := m.pool.acquire()
	handle.get().create(id)

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{handle: handle}
	m.mu.Unlock()

	log.Debug().Int64("session_id", int64(id)).Msg("session created")
	return id
}

// Send forwards a request to the session's worker, fire and forget.
// Malformed requests (zero request id, nil function) are dropped with a
// diagnostic. Requests for unknown or closing sessions yield an error
// response through Receive instead of being forwarded.
func (m *Manager) Send(id protocol.SessionID, requestID protocol.RequestID, fn protocol.Function) {
	if requestID == 0 || fn == nil {
		log.Warn().Int64("session_id", int64(id)).Uint64("request_id", uint64(requestID)).Msg("dropping malformed request")
		return
	}

	m.mu.RLock()
	entry := m.sessions[id]
	routable := entry != nil && !entry.closing
	m.mu.RUnlock()

	if !routable {
		m.receiver.push(protocol.Response{SessionID: id, RequestID: requestID, Result: protocol.ErrInvalidSession()})
		return
	}

	// A close request routed through Send marks the session closing the same
	// way CloseSession does, so nothing is ever dispatched to the actor after
	// the request that destroys it.
	if _, ok := fn.(*protocol.CloseSession); ok {
		m.mu.Lock()
		if entry.closing {
			m.mu.Unlock()
			m.receiver.push(protocol.Response{SessionID: id, RequestID: requestID, Result: protocol.ErrInvalidSession()})
			return
		}
		entry.closing = true
		m.mu.Unlock()
	}
	entry.handle.get().send(id, requestID, fn)
}

// Receive drains one response, blocking up to timeout when none is queued.
// The zero Response means no event arrived in time. When the drained
// response is a session's terminal close signal, the session's routing
// state is erased before it is returned.
func (m *Manager) Receive(timeout time.Duration) protocol.Response {
	resp := m.receiver.Receive(timeout)
	if resp.IsSessionClosed() {
		m.mu.Lock()
		entry := m.sessions[resp.SessionID]
		delete(m.sessions, resp.SessionID)
		m.mu.Unlock()
		if entry != nil {
			entry.handle.release()
		}
		log.Debug().Int64("session_id", int64(resp.SessionID)).Msg("session closed")
	}
	return resp
}

// CloseSession asks a session's actor to shut down. The session keeps its
// routing entry until its terminal close signal is drained via Receive;
// requests sent in the meantime yield the invalid-session error. Closing an
// unknown or already closing session is a no-op.
func (m *Manager) CloseSession(id protocol.SessionID) {
	m.mu.Lock()
	entry := m.sessions[id]
	if entry == nil {
		m.mu.Unlock()
		log.Warn().Int64("session_id", int64(id)).Msg("close of unknown session ignored")
		return
	}
	if entry.closing {
		m.mu.Unlock()
		return
	}
	entry.closing = true
	m.mu.Unlock()

	entry.handle.get().closeSession(id)
}

// Execute evaluates a session-less function synchronously, bypassing the
// routing layer entirely.
func (m *Manager) Execute(fn protocol.Function) protocol.Result {
	return protocol.Execute(fn)
}

// Close shuts the manager down: every live session is closed, the receiver
// is drained until all terminal close signals have been observed, then the
// worker pool is stopped. The caller must not call Receive concurrently.
// Safe to call more than once. Afterwards CreateSession is rejected and
// Send yields the invalid-session error.
func (m *Manager) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}

	m.mu.RLock()
	ids := make([]protocol.SessionID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.CloseSession(id)
	}

	for {
		m.mu.RLock()
		remaining := len(m.sessions)
		m.mu.RUnlock()
		if remaining == 0 {
			break
		}
		if resp := m.Receive(closeDrainTimeout); resp.IsTimeout() {
			log.Warn().Int("remaining_sessions", remaining).Msg("still draining sessions during shutdown")
		}
	}

	m.pool.close()
	log.Debug().Msg("manager closed")
}
