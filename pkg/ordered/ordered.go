package ordered

import (
	"fmt"
)

// MessageID is a totally ordered message identifier within one conversation.
type MessageID int64

// priorityMultiplier mixes identifiers into balance priorities. The exact
// constant does not matter beyond being odd and well-mixed; it only drives
// tree shape, never visible ordering.
const priorityMultiplier = 2101234567

// Message is one entry of the index. ID never changes after insertion.
// HavePrevious and HaveNext record whether the chronologically adjacent
// messages are already known to the owner.
type Message struct {
	ID           MessageID
	HavePrevious bool
	HaveNext     bool

	priority    int32
	left, right *Message
}

// Index holds all known messages of a single conversation.
type Index struct {
	root *Message
	size int
}

func messagePriority(id MessageID) int32 {
	return int32(uint32(uint64(id) * priorityMultiplier))
}

// Insert adds a new message identifier and returns its entry. Inserting an
// identifier that is already present is a contract violation and panics: it
// means the conversation ordering invariant was broken upstream.
func (idx *Index) Insert(id MessageID) *Message {
	priority := messagePriority(id)
	v := &idx.root
	for *v != nil && (*v).priority >= priority {
		switch {
		case (*v).ID < id:
			v = &(*v).right
		case (*v).ID == id:
			panic(fmt.Sprintf("ordered: message %d inserted twice", id))
		default:
			v = &(*v).left
		}
	}

	msg := &Message{ID: id, priority: priority}

	// Split the subtree rooted at *v by id and hang the two halves off the
	// new entry. Each step moves ownership of one subtree into the chain.
	left := &msg.left
	right := &msg.right
	cur := *v
	for cur != nil {
		if cur.ID < id {
			*left = cur
			left = &cur.right
			cur = cur.right
		} else {
			*right = cur
			right = &cur.left
			cur = cur.left
		}
	}
	*left = nil
	*right = nil
	*v = msg
	idx.size++
	return msg
}

// Erase removes a message identifier. Erasing an identifier that is not
// present is a contract violation and panics.
func (idx *Index) Erase(id MessageID) {
	v := &idx.root
	for *v != nil && (*v).ID != id {
		if (*v).ID < id {
			v = &(*v).right
		} else {
			v = &(*v).left
		}
	}
	result := *v
	if result == nil {
		panic(fmt.Sprintf("ordered: erase of unknown message %d", id))
	}
	left := result.left
	right := result.right

	// Pull up whichever child has higher priority until the hole falls off
	// the bottom of the tree.
	for left != nil || right != nil {
		if left == nil || (right != nil && right.priority > left.priority) {
			*v = right
			v = &right.left
			right = *v
		} else {
			*v = left
			v = &left.right
			left = *v
		}
	}
	*v = nil
	idx.size--
}

// Get returns the entry for id, or nil when it is not present.
func (idx *Index) Get(id MessageID) *Message {
	cur := idx.root
	for cur != nil {
		switch {
		case cur.ID < id:
			cur = cur.right
		case cur.ID > id:
			cur = cur.left
		default:
			return cur
		}
	}
	return nil
}

// Floor returns the newest entry with an identifier not greater than id,
// or nil when every entry is newer.
func (idx *Index) Floor(id MessageID) *Message {
	var res *Message
	cur := idx.root
	for cur != nil {
		if cur.ID <= id {
			res = cur
			cur = cur.right
		} else {
			cur = cur.left
		}
	}
	return res
}

// Ceiling returns the oldest entry with an identifier not less than id,
// or nil when every entry is older.
func (idx *Index) Ceiling(id MessageID) *Message {
	var res *Message
	cur := idx.root
	for cur != nil {
		if cur.ID >= id {
			res = cur
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return res
}

func (idx *Index) previous(id MessageID) *Message {
	return idx.Floor(id - 1)
}

func (idx *Index) next(id MessageID) *Message {
	return idx.Ceiling(id + 1)
}

// Empty reports whether the index holds no messages.
func (idx *Index) Empty() bool {
	return idx.root == nil
}

// Size returns the number of indexed messages.
func (idx *Index) Size() int {
	return idx.size
}

// InOrder returns every indexed identifier in ascending order.
func (idx *Index) InOrder() []MessageID {
	ids := make([]MessageID, 0, idx.size)
	var walk func(*Message)
	walk = func(m *Message) {
		if m == nil {
			return
		}
		walk(m.left)
		ids = append(ids, m.ID)
		walk(m.right)
	}
	walk(idx.root)
	return ids
}
