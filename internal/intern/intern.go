package intern

import (
	"sync"

	"capture_collector/internal/event"
)

// sentSet tracks which keys have already had their payload emitted.
// Entries are append-only for the life of the session.
type sentSet struct {
	mu   sync.Mutex
	keys map[uint64]struct{}
}

// markIfNew atomically checks for key and records it. It returns true only
// for the single caller that inserted the key, even under concurrent calls.
func (s *sentSet) markIfNew(key uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.keys[key]; seen {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Interner owns the three intern domains of one capture session. The emit
// function appends an interned-payload event to the session's buffer; it is
// called outside any domain lock, after the key has been marked sent, so the
// mark and the emit of a given key happen exactly once and in that order
// within the winning caller.
type Interner struct {
	strings     sentSet
	callstacks  sentSet
	tracepoints sentSet
	emit        func(event.Event)
}

// New creates an Interner that emits interned-payload events through emit.
func New(emit func(event.Event)) *Interner {
	return &Interner{
		strings:     sentSet{keys: make(map[uint64]struct{})},
		callstacks:  sentSet{keys: make(map[uint64]struct{})},
		tracepoints: sentSet{keys: make(map[uint64]struct{})},
		emit:        emit,
	}
}

// String interns s and returns its key. The InternedString event is emitted
// at most once per unique content across the session.
func (in *Interner) String(s string) uint64 {
	key := StringKey(s)
	if in.strings.markIfNew(key) {
		in.emit(event.InternedString{Key: key, Intern: s})
	}
	return key
}

// Callstack interns cs and returns its key. The InternedCallstack event is
// emitted at most once per unique stack across the session.
func (in *Interner) Callstack(cs event.Callstack) uint64 {
	key := CallstackKey(cs)
	if in.callstacks.markIfNew(key) {
		in.emit(event.InternedCallstack{Key: key, Intern: cs})
	}
	return key
}

// Tracepoint interns info and returns its key. The InternedTracepointInfo
// event is emitted at most once per unique descriptor across the session.
func (in *Interner) Tracepoint(info event.TracepointInfo) uint64 {
	key := TracepointKey(info)
	if in.tracepoints.markIfNew(key) {
		in.emit(event.InternedTracepointInfo{Key: key, Intern: info})
	}
	return key
}
