package chatmux

import (
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatmux/pkg/actor"
	"github.com/go-go-golems/chatmux/pkg/protocol"
	"github.com/go-go-golems/chatmux/pkg/session"
)

// worker hosts session actors on one runtime. The sessions map is confined
// to the runtime goroutine: every access happens inside a dispatched
// closure, so no locking is needed.
type worker struct {
	id       string
	runtime  *actor.Runtime
	receiver *Receiver
	resolver session.Resolver

	sessions map[protocol.SessionID]*session.Session
}

// receiverCallback forwards one session's output into the shared receiver.
// Its OnClosed emits the terminal close signal, exactly once per session.
type receiverCallback struct {
	sessionID protocol.SessionID
	receiver  *Receiver
}

func (c *receiverCallback) OnResult(id protocol.RequestID, result protocol.Result) {
	c.receiver.push(protocol.Response{SessionID: c.sessionID, RequestID: id, Result: result})
}

func (c *receiverCallback) OnClosed() {
	c.receiver.push(protocol.Response{SessionID: c.sessionID})
}

func newWorker(receiver *Receiver, resolver session.Resolver) *worker {
	id := uuid.NewString()[:8]
	return &worker{
		id:       id,
		runtime:  actor.New("worker-" + id),
		receiver: receiver,
		resolver: resolver,
		sessions: map[protocol.SessionID]*session.Session{},
	}
}

func (w *worker) create(id protocol.SessionID) {
	w.runtime.Dispatch(func() {
		callback := &receiverCallback{sessionID: id, receiver: w.receiver}
		w.sessions[id] = session.New(id, callback, w.resolver)
		log.Debug().Str("worker_id", w.id).Int64("session_id", int64(id)).Msg("session actor spawned")
	})
}

func (w *worker) send(id protocol.SessionID, requestID protocol.RequestID, fn protocol.Function) {
	w.runtime.Dispatch(func() {
		s := w.sessions[id]
		if s == nil {
			// The router should never route here, but a request must still
			// get an answer if it does.
			log.Warn().Str("worker_id", w.id).Int64("session_id", int64(id)).Msg("request for absent session actor")
			w.receiver.push(protocol.Response{SessionID: id, RequestID: requestID, Result: protocol.ErrInvalidSession()})
			return
		}
		defer func() {
			if p := recover(); p != nil {
				log.Error().Str("worker_id", w.id).Int64("session_id", int64(id)).
					Interface("panic", p).Bytes("stack", debug.Stack()).
					Msg("session actor panicked, destroying it")
				w.destroySession(id)
			}
		}()
		if s.Handle(requestID, fn) {
			w.destroySession(id)
		}
	})
}

func (w *worker) closeSession(id protocol.SessionID) {
	w.runtime.Dispatch(func() {
		w.destroySession(id)
	})
}

// destroySession runs on the runtime goroutine.
func (w *worker) destroySession(id protocol.SessionID) {
	s := w.sessions[id]
	if s == nil {
		return
	}
	delete(w.sessions, id)
	s.Destroy()
	log.Debug().Str("worker_id", w.id).Int64("session_id", int64(id)).Msg("session actor destroyed")
}

// shutdown destroys any remaining sessions (each still delivers its terminal
// close signal) and stops the runtime. It does not wait.
func (w *worker) shutdown() {
	w.runtime.Dispatch(func() {
		for id := range w.sessions {
			w.destroySession(id)
		}
	})
	w.runtime.Shutdown()
}

func (w *worker) wait() {
	w.runtime.Wait()
}
