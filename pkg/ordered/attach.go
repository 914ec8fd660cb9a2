package ordered

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// AttachInfo reports how a message relates to its chronological neighbors
// after an attachment attempt.
type AttachInfo struct {
	HavePrevious bool
	HaveNext     bool
}

// AttachToPrevious marks id as attached to its in-order predecessor and the
// predecessor as attached to id. It is idempotent. Callers must only invoke
// it when the predecessor is known to exist; a missing neighbor panics.
func (idx *Index) AttachToPrevious(id MessageID) {
	msg := idx.Get(id)
	if msg == nil {
		panic(fmt.Sprintf("ordered: attach of unknown message %d", id))
	}
	if msg.HavePrevious {
		return
	}
	msg.HavePrevious = true
	prev := idx.previous(id)
	if prev == nil {
		panic(fmt.Sprintf("ordered: message %d has no previous message to attach to", id))
	}
	log.Debug().Int64("message_id", int64(id)).Int64("previous_id", int64(prev.ID)).Msg("attach message to previous")
	if prev.HaveNext {
		msg.HaveNext = true
	} else {
		prev.HaveNext = true
	}
}

// AttachToNext is the mirror of AttachToPrevious for the in-order successor.
func (idx *Index) AttachToNext(id MessageID) {
	msg := idx.Get(id)
	if msg == nil {
		panic(fmt.Sprintf("ordered: attach of unknown message %d", id))
	}
	if msg.HaveNext {
		return
	}
	msg.HaveNext = true
	next := idx.next(id)
	if next == nil {
		panic(fmt.Sprintf("ordered: message %d has no next message to attach to", id))
	}
	log.Debug().Int64("message_id", int64(id)).Int64("next_id", int64(next.ID)).Msg("attach message to next")
	if next.HavePrevious {
		msg.HavePrevious = true
	} else {
		next.HavePrevious = true
	}
}

// AutoAttach decides how a message without explicit ordering context should
// link into the conversation. It must be called before Insert(id); the
// returned flags belong on the freshly inserted entry.
//
// lastID, when non-zero, is the newest message identifier the conversation is
// known to have: a new message at or below it cannot leave a gap behind the
// predecessor it attaches to. unsent marks locally originated messages that
// have not been acknowledged yet; those never attach forward, since the
// messages after them are not known to be final.
//
// A zero AttachInfo means the message cannot be attached yet and should stay
// provisionally disconnected until more context arrives.
func (idx *Index) AutoAttach(id, lastID MessageID, unsent bool) AttachInfo {
	prev := idx.Floor(id)
	if prev != nil && prev.ID == id {
		panic(fmt.Sprintf("ordered: auto-attach of already indexed message %d", id))
	}
	if prev != nil && (prev.HaveNext || (lastID != 0 && id <= lastID)) {
		log.Debug().Int64("message_id", int64(id)).Int64("previous_id", int64(prev.ID)).Msg("auto-attach message to previous")
		haveNext := prev.HaveNext
		prev.HaveNext = true
		return AttachInfo{HavePrevious: true, HaveNext: haveNext}
	}
	if !unsent {
		if next := idx.Ceiling(id); next != nil && !next.HavePrevious {
			log.Debug().Int64("message_id", int64(id)).Int64("next_id", int64(next.ID)).Msg("auto-attach message to next")
			return AttachInfo{HavePrevious: false, HaveNext: true}
		}
	}
	log.Debug().Int64("message_id", int64(id)).Msg("cannot auto-attach message")
	return AttachInfo{}
}
