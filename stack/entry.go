package stack

import "github.com/xy-planning-network/junction/route"

// An Entry is a destination recorded in navigation history.
//
// Its JSON form is what every Store persists.
type Entry struct {
	Name        string           `json:"name"`
	RouteMethod route.Method     `json:"routeMethod"`
	URI         string           `json:"uri"`
	Parameters  route.Parameters `json:"parameters"`
}

// A Stack is an ordered navigation history, most recent last.
//
// A Stack is not safe for concurrent use; a Navigator guards its own.
type Stack struct {
	entries []Entry

	// ids identify each entry for as long as it stays in the Stack.
	ids  []uint64
	next uint64
}

// NewStack constructs a Stack holding entries.
func NewStack(entries ...Entry) *Stack {
	s := &Stack{
		entries: make([]Entry, 0, len(entries)),
		ids:     make([]uint64, 0, len(entries)),
	}
	for _, e := range entries {
		s.Push(e)
	}
	return s
}

// Push appends e.
func (s *Stack) Push(e Entry) {
	s.next++
	s.entries = append(s.entries, e)
	s.ids = append(s.ids, s.next)
}

// Replace swaps the most recent entry for e, or appends e to an empty Stack.
func (s *Stack) Replace(e Entry) {
	s.Pop()
	s.Push(e)
}

// ReplaceAll drops every entry, leaving only e.
func (s *Stack) ReplaceAll(e Entry) {
	s.entries = s.entries[:0]
	s.ids = s.ids[:0]
	s.Push(e)
}

// Pop removes and returns the most recent entry.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}

	last := len(s.entries) - 1
	e := s.entries[last]
	s.entries = s.entries[:last]
	s.ids = s.ids[:last]
	return e, true
}

// top returns the identity of the most recent entry.
func (s *Stack) top() (uint64, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[len(s.ids)-1], true
}

// remove drops the entry identified by id, wherever it now sits.
// It reports whether the entry was still in the Stack.
func (s *Stack) remove(id uint64) bool {
	for i, got := range s.ids {
		if got == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Peek returns the most recent entry.
func (s *Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Previous returns the entry a pop returns to:
// the one below the most recent, or the most recent when it is alone.
func (s *Stack) Previous() (Entry, bool) {
	switch len(s.entries) {
	case 0:
		return Entry{}, false
	case 1:
		return s.entries[0], true
	default:
		return s.entries[len(s.entries)-2], true
	}
}

// Len returns the number of entries.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns a copy of every entry, oldest first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		e.Parameters = e.Parameters.Clone()
		out[i] = e
	}
	return out
}
