// Package protocol defines the request/response payload surface exchanged
// between callers and session actors, plus the synchronous evaluator for
// functions that need no actor state.
//
// The multiplexing core treats functions as opaque; only session actors and
// Execute interpret them.
package protocol

import (
	"fmt"

	"github.com/go-go-golems/chatmux/pkg/ordered"
)

// SessionID identifies one logical client session. Zero is never a valid
// session and marks "no event" responses.
type SessionID int64

// RequestID is a caller-chosen correlation token. Zero is reserved for
// lifecycle responses that no request originated.
type RequestID uint64

// Function is a request payload. Implementations are plain data structs.
type Function interface {
	FunctionName() string
}

// Result is a response payload.
type Result interface {
	ResultName() string
}

// Response is one event delivered back to the caller. The zero Response
// (SessionID == 0) means no event arrived within the receive timeout. A
// Response with RequestID == 0 and a nil Result is the terminal close
// signal for its session, delivered exactly once.
type Response struct {
	SessionID SessionID
	RequestID RequestID
	Result    Result
}

// IsTimeout reports whether the response is the empty no-event marker.
func (r Response) IsTimeout() bool {
	return r.SessionID == 0
}

// IsSessionClosed reports whether the response is a session's terminal
// close signal.
func (r Response) IsSessionClosed() bool {
	return r.SessionID != 0 && r.RequestID == 0 && r.Result == nil
}

// Error is a structured failure result. It doubles as a Go error.
type Error struct {
	Code    int32
	Message string
}

func NewError(code int32, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) ResultName() string { return "error" }

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// ErrInvalidSession is synthesized by the router when a request targets an
// unknown or already closed session.
func ErrInvalidSession() *Error {
	return NewError(400, "Invalid session identifier specified")
}

// Requests interpreted by session actors.

// AddMessage records a message in a conversation's ordering index. When
// AttachPrevious/AttachNext are unset the session auto-attaches using
// LastMessageID as the newest-known-message hint. Unsent marks locally
// originated messages that were not acknowledged by the server yet.
type AddMessage struct {
	ConversationID int64
	MessageID      ordered.MessageID
	Date           int64
	Unsent         bool
	LastMessageID  ordered.MessageID
	AttachPrevious bool
	AttachNext     bool

	// Referenced entities, resolved through the session's entity resolver
	// before the message is indexed.
	SenderUserID  int64
	ForwardFromID int64
}

func (*AddMessage) FunctionName() string { return "addMessage" }

// DeleteMessage evicts a message from a conversation's index.
type DeleteMessage struct {
	ConversationID int64
	MessageID      ordered.MessageID
}

func (*DeleteMessage) FunctionName() string { return "deleteMessage" }

// AttachMessage explicitly links a message to an already known neighbor.
type AttachMessage struct {
	ConversationID int64
	MessageID      ordered.MessageID
	ToNext         bool
}

func (*AttachMessage) FunctionName() string { return "attachMessage" }

// GetHistory returns message identifiers on one side of FromMessageID.
// Newer selects the direction; Limit of zero means unbounded.
type GetHistory struct {
	ConversationID int64
	FromMessageID  ordered.MessageID
	Newer          bool
	Limit          int
}

func (*GetHistory) FunctionName() string { return "getHistory" }

// SearchByDate finds the newest message sent at or before Date.
type SearchByDate struct {
	ConversationID int64
	Date           int64
}

func (*SearchByDate) FunctionName() string { return "searchByDate" }

// SearchRange finds all messages sent within [MinDate, MaxDate].
type SearchRange struct {
	ConversationID int64
	MinDate        int64
	MaxDate        int64
}

func (*SearchRange) FunctionName() string { return "searchRange" }

// GetConversationCount reports how many conversations the session tracks.
type GetConversationCount struct{}

func (*GetConversationCount) FunctionName() string { return "getConversationCount" }

// CloseSession asks the session actor to shut down. The reply is followed by
// the terminal close signal.
type CloseSession struct{}

func (*CloseSession) FunctionName() string { return "closeSession" }

// Ping is a static connectivity probe.
type Ping struct{}

func (*Ping) FunctionName() string { return "ping" }

// GetVersion reports the library version.
type GetVersion struct{}

func (*GetVersion) FunctionName() string { return "getVersion" }

// Results.

// Ok acknowledges a request with no other payload.
type Ok struct{}

func (*Ok) ResultName() string { return "ok" }

// MessageInfo describes an indexed message and its neighbor knowledge.
type MessageInfo struct {
	MessageID    ordered.MessageID
	HavePrevious bool
	HaveNext     bool
}

func (*MessageInfo) ResultName() string { return "messageInfo" }

// Messages carries an ordered list of message identifiers.
type Messages struct {
	IDs []ordered.MessageID
}

func (*Messages) ResultName() string { return "messages" }

// FoundMessage carries a single search hit; a zero MessageID means no match.
type FoundMessage struct {
	MessageID ordered.MessageID
}

func (*FoundMessage) ResultName() string { return "foundMessage" }

// Count carries a single counter value.
type Count struct {
	Value int
}

func (*Count) ResultName() string { return "count" }

// Pong answers a Ping.
type Pong struct{}

func (*Pong) ResultName() string { return "pong" }

// Version answers GetVersion.
type Version struct {
	Value string
}

func (*Version) ResultName() string { return "version" }
