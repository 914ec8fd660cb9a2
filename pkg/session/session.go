// Package session implements the per-session actor: it interprets protocol
// functions against per-conversation message-ordering indexes and reports
// results through a callback supplied by the hosting worker.
//
// A Session has no internal locking. The hosting runtime guarantees that all
// calls into one Session happen sequentially.
package session

import (
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/chatmux/pkg/ordered"
	"github.com/go-go-golems/chatmux/pkg/protocol"
)

// Callback receives everything a session produces. OnClosed is invoked
// exactly once, when the session is destroyed.
type Callback interface {
	OnResult(id protocol.RequestID, result protocol.Result)
	OnClosed()
}

type conversation struct {
	index *ordered.Index
	dates map[ordered.MessageID]int64
}

func (c *conversation) getDate(id ordered.MessageID) int64 {
	return c.dates[id]
}

// Session is one logical client multiplexed onto a shared worker runtime.
type Session struct {
	id       protocol.SessionID
	callback Callback
	resolver Resolver

	conversations map[int64]*conversation
	closed        bool
}

// New creates a session reporting through callback. resolver may be nil when
// no entity loading is wanted.
func New(id protocol.SessionID, callback Callback, resolver Resolver) *Session {
	return &Session{
		id:            id,
		callback:      callback,
		resolver:      resolver,
		conversations: map[int64]*conversation{},
	}
}

// ID returns the session identifier.
func (s *Session) ID() protocol.SessionID { return s.id }

// Destroy releases the session and delivers the terminal close signal.
// Idempotent; every session is destroyed exactly once by its worker.
func (s *Session) Destroy() {
	if s.closed {
		return
	}
	s.closed = true
	s.conversations = nil
	s.callback.OnClosed()
}

// Handle interprets one request and replies through the callback. It reports
// whether the request asked the session to close; the caller is responsible
// for destroying the session afterwards.
func (s *Session) Handle(requestID protocol.RequestID, fn protocol.Function) (closing bool) {
	if s.closed {
		log.Error().Int64("session_id", int64(s.id)).Str("function", fn.FunctionName()).Msg("request for destroyed session dropped")
		return false
	}

	switch req := fn.(type) {
	case *protocol.AddMessage:
		s.reply(requestID, s.addMessage(req))
	case *protocol.DeleteMessage:
		s.reply(requestID, s.deleteMessage(req))
	case *protocol.AttachMessage:
		s.reply(requestID, s.attachMessage(req))
	case *protocol.GetHistory:
		s.reply(requestID, s.getHistory(req))
	case *protocol.SearchByDate:
		s.reply(requestID, s.searchByDate(req))
	case *protocol.SearchRange:
		s.reply(requestID, s.searchRange(req))
	case *protocol.GetConversationCount:
		s.reply(requestID, &protocol.Count{Value: len(s.conversations)})
	case *protocol.CloseSession:
		s.reply(requestID, &protocol.Ok{})
		return true
	case protocol.StaticFunction:
		s.reply(requestID, protocol.Execute(fn))
	default:
		s.reply(requestID, protocol.NewError(400, "Unsupported function "+fn.FunctionName()))
	}
	return false
}

func (s *Session) reply(requestID protocol.RequestID, result protocol.Result) {
	s.callback.OnResult(requestID, result)
}

func (s *Session) conversationFor(id int64) *conversation {
	conv := s.conversations[id]
	if conv == nil {
		conv = &conversation{index: &ordered.Index{}, dates: map[ordered.MessageID]int64{}}
		s.conversations[id] = conv
	}
	return conv
}

func (s *Session) addMessage(req *protocol.AddMessage) protocol.Result {
	if req.ConversationID == 0 || req.MessageID == 0 {
		return protocol.NewError(400, "Invalid message identifier specified")
	}
	conv := s.conversationFor(req.ConversationID)
	if conv.index.Get(req.MessageID) != nil {
		return protocol.NewError(400, "Message is already added")
	}

	if s.resolver != nil && (req.SenderUserID != 0 || req.ForwardFromID != 0) {
		var deps Dependencies
		deps.AddMessageSender(UserID(req.SenderUserID))
		deps.AddConversation(ConversationID(req.ForwardFromID))
		if !deps.ResolveForce(s.resolver, "addMessage") {
			return protocol.NewError(400, "Failed to load message dependencies")
		}
	}

	// Messages arriving with explicit ordering context skip the heuristic.
	var info ordered.AttachInfo
	if !req.AttachPrevious && !req.AttachNext {
		info = conv.index.AutoAttach(req.MessageID, req.LastMessageID, req.Unsent)
	}
	msg := conv.index.Insert(req.MessageID)
	msg.HavePrevious = info.HavePrevious
	msg.HaveNext = info.HaveNext
	conv.dates[req.MessageID] = req.Date

	// Explicit attach hints run after insertion. A hint asserts the caller
	// already knows the neighbor exists; a hint without its neighbor is a
	// contract violation and the index treats it as fatal. AttachMessage is
	// the recoverable path for callers without that knowledge.
	if req.AttachPrevious {
		conv.index.AttachToPrevious(req.MessageID)
	}
	if req.AttachNext {
		conv.index.AttachToNext(req.MessageID)
	}

	return &protocol.MessageInfo{
		MessageID:    msg.ID,
		HavePrevious: msg.HavePrevious,
		HaveNext:     msg.HaveNext,
	}
}

func (s *Session) deleteMessage(req *protocol.DeleteMessage) protocol.Result {
	conv := s.conversations[req.ConversationID]
	if conv == nil || conv.index.Get(req.MessageID) == nil {
		return protocol.NewError(400, "Message not found")
	}
	conv.index.Erase(req.MessageID)
	delete(conv.dates, req.MessageID)
	return &protocol.Ok{}
}

func (s *Session) attachMessage(req *protocol.AttachMessage) protocol.Result {
	conv := s.conversations[req.ConversationID]
	if conv == nil {
		return protocol.NewError(400, "Conversation not found")
	}
	msg := conv.index.Get(req.MessageID)
	if msg == nil {
		return protocol.NewError(400, "Message not found")
	}
	// The index treats a missing neighbor as a broken invariant, so the
	// protocol layer verifies it first and keeps the failure recoverable.
	if req.ToNext {
		if conv.index.Ceiling(req.MessageID+1) == nil {
			return protocol.NewError(400, "Message has no next message")
		}
		conv.index.AttachToNext(req.MessageID)
	} else {
		if conv.index.Floor(req.MessageID-1) == nil {
			return protocol.NewError(400, "Message has no previous message")
		}
		conv.index.AttachToPrevious(req.MessageID)
	}
	return &protocol.MessageInfo{
		MessageID:    msg.ID,
		HavePrevious: msg.HavePrevious,
		HaveNext:     msg.HaveNext,
	}
}

func (s *Session) getHistory(req *protocol.GetHistory) protocol.Result {
	conv := s.conversations[req.ConversationID]
	if conv == nil {
		return &protocol.Messages{}
	}
	var ids []ordered.MessageID
	if req.Newer {
		ids = conv.index.FindNewer(req.FromMessageID)
		if req.Limit > 0 && len(ids) > req.Limit {
			ids = ids[:req.Limit]
		}
	} else {
		ids = conv.index.FindOlder(req.FromMessageID)
		if req.Limit > 0 && len(ids) > req.Limit {
			ids = ids[len(ids)-req.Limit:]
		}
	}
	return &protocol.Messages{IDs: ids}
}

func (s *Session) searchByDate(req *protocol.SearchByDate) protocol.Result {
	conv := s.conversations[req.ConversationID]
	if conv == nil {
		return &protocol.FoundMessage{}
	}
	return &protocol.FoundMessage{MessageID: conv.index.FindByDate(req.Date, conv.getDate)}
}

func (s *Session) searchRange(req *protocol.SearchRange) protocol.Result {
	conv := s.conversations[req.ConversationID]
	if conv == nil {
		return &protocol.Messages{}
	}
	return &protocol.Messages{IDs: conv.index.FindRangeByDate(req.MinDate, req.MaxDate, conv.getDate)}
}
