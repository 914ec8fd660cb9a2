// Package chatmux multiplexes many logical client sessions over a small,
// elastic pool of worker runtimes.
//
// A Manager owns the pool and a single response receiver. Callers create
// sessions, fire requests at them, and drain asynchronous results from one
// goroutine:
//
//	m := chatmux.NewManager(chatmux.Options{})
//	defer m.Close()
//
//	id := m.CreateSession()
//	m.Send(id, 1, &protocol.AddMessage{ConversationID: 7, MessageID: 10})
//	resp := m.Receive(time.Second)
//
// Each session is pinned to one worker runtime for its whole life, so its
// requests execute in submission order and its actor state needs no locks.
// Closing a session eventually produces exactly one terminal close signal
// (RequestID zero, nil Result); callers must keep draining Receive until
// they have seen it for every session they created.
package chatmux
