// Package ordered maintains a per-conversation, gap-aware index of message
// identifiers.
//
// The index is a treap: a binary search tree ordered by message identifier,
// balanced by priorities derived deterministically from the identifiers.
// Besides ordering, every entry tracks whether its immediate chronological
// neighbors are already known, which is how missing history ranges are
// detected and repaired when messages arrive out of order.
//
// An Index is owned by exactly one conversation actor and is not safe for
// concurrent use.
package ordered
