package ordered

// FindOlder returns all identifiers not greater than maxID, oldest first.
func (idx *Index) FindOlder(maxID MessageID) []MessageID {
	var ids []MessageID
	var walk func(*Message)
	walk = func(m *Message) {
		if m == nil {
			return
		}
		walk(m.left)
		if m.ID <= maxID {
			ids = append(ids, m.ID)
			walk(m.right)
		}
	}
	walk(idx.root)
	return ids
}

// FindNewer returns all identifiers greater than minID, oldest first.
func (idx *Index) FindNewer(minID MessageID) []MessageID {
	var ids []MessageID
	var walk func(*Message)
	walk = func(m *Message) {
		if m == nil {
			return
		}
		if m.ID > minID {
			walk(m.left)
			ids = append(ids, m.ID)
		}
		walk(m.right)
	}
	walk(idx.root)
	return ids
}

// FindByDate returns the newest message whose date does not exceed date,
// or zero when there is none. Dates are resolved through getDate, which the
// owning conversation supplies; dates must be non-decreasing in message id.
func (idx *Index) FindByDate(date int64, getDate func(MessageID) int64) MessageID {
	var walk func(*Message) MessageID
	walk = func(m *Message) MessageID {
		if m == nil {
			return 0
		}
		if getDate(m.ID) > date {
			return walk(m.left)
		}
		if id := walk(m.right); id != 0 {
			return id
		}
		return m.ID
	}
	return walk(idx.root)
}

// FindRangeByDate returns all identifiers whose date lies in [minDate, maxDate],
// oldest first, resolving dates through getDate.
func (idx *Index) FindRangeByDate(minDate, maxDate int64, getDate func(MessageID) int64) []MessageID {
	var ids []MessageID
	var walk func(*Message)
	walk = func(m *Message) {
		if m == nil {
			return
		}
		date := getDate(m.ID)
		if date >= minDate {
			walk(m.left)
			if date <= maxDate {
				ids = append(ids, m.ID)
			}
		}
		if date <= maxDate {
			walk(m.right)
		}
	}
	walk(idx.root)
	return ids
}

// Traverse visits the index in tree order, descending left only while
// needOlder allows it and right only while needNewer does. Both predicates
// are supplied by the owner and must be pure.
func (idx *Index) Traverse(needOlder, needNewer func(MessageID) bool) {
	var walk func(*Message)
	walk = func(m *Message) {
		if m == nil {
			return
		}
		if needOlder(m.ID) {
			walk(m.left)
		}
		if needNewer(m.ID) {
			walk(m.right)
		}
	}
	walk(idx.root)
}
