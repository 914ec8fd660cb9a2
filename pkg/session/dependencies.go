package session

import (
	"github.com/rs/zerolog/log"
)

// UserID identifies a user entity referenced by a message.
type UserID int64

// ConversationID identifies a conversation entity.
type ConversationID int64

// Resolver lazily loads entities referenced by incoming messages. It is an
// external collaborator: the session only cares whether a referenced entity
// could be made available. Implementations report false for entities they
// cannot load.
type Resolver interface {
	LoadUser(id UserID) bool
	LoadConversation(id ConversationID) bool
}

// Dependencies collects the set of entities a message references so they can
// be resolved in one pass before the message is indexed.
type Dependencies struct {
	userIDs         map[UserID]struct{}
	conversationIDs map[ConversationID]struct{}
}

// AddUser records a referenced user. Zero ids are ignored.
func (d *Dependencies) AddUser(id UserID) {
	if id == 0 {
		return
	}
	if d.userIDs == nil {
		d.userIDs = map[UserID]struct{}{}
	}
	d.userIDs[id] = struct{}{}
}

// AddConversation records a referenced conversation. Zero ids are ignored.
func (d *Dependencies) AddConversation(id ConversationID) {
	if id == 0 {
		return
	}
	if d.conversationIDs == nil {
		d.conversationIDs = map[ConversationID]struct{}{}
	}
	d.conversationIDs[id] = struct{}{}
}

// AddMessageSender records the sender of a message.
func (d *Dependencies) AddMessageSender(userID UserID) {
	d.AddUser(userID)
}

// ConversationIDs returns the collected conversation references.
func (d *Dependencies) ConversationIDs() []ConversationID {
	ids := make([]ConversationID, 0, len(d.conversationIDs))
	for id := range d.conversationIDs {
		ids = append(ids, id)
	}
	return ids
}

// ResolveForce loads every collected entity through r and reports whether
// all of them resolved. Failures are logged with the call site's source tag
// and do not stop the remaining resolutions.
func (d *Dependencies) ResolveForce(r Resolver, source string) bool {
	if r == nil {
		return true
	}
	ok := true
	for id := range d.userIDs {
		if !r.LoadUser(id) {
			log.Error().Int64("user_id", int64(id)).Str("source", source).Msg("failed to load user dependency")
			ok = false
		}
	}
	for id := range d.conversationIDs {
		if !r.LoadConversation(id) {
			log.Error().Int64("conversation_id", int64(id)).Str("source", source).Msg("failed to load conversation dependency")
			ok = false
		}
	}
	return ok
}
