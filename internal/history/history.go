// Package history keeps a bounded, linear undo/redo log of raster snapshots.
package history

import (
	"github.com/google/uuid"

	"github.com/example/colorbook/internal/raster"
	"github.com/example/colorbook/internal/view"
)

// DefaultMaxSize caps the number of snapshots kept in memory.
const DefaultMaxSize = 50

// Cause records which operation produced an entry.
type Cause string

const (
	CauseLoad   Cause = "load"
	CauseStroke Cause = "stroke"
	CauseFill   Cause = "fill"
	CauseClear  Cause = "clear"
)

// Entry is a full raster snapshot together with the view it was captured
// under. Entries are never modified after creation.
type Entry struct {
	ID     string
	Cause  Cause
	Buffer *raster.Buffer
	View   view.State
}

// NewEntry wraps buf and v in a uniquely identified entry.
func NewEntry(buf *raster.Buffer, v view.State, cause Cause) *Entry {
	return &Entry{ID: uuid.NewString(), Cause: cause, Buffer: buf, View: v}
}

// Store is an ordered log with a cursor at the current entry. Entries after
// the cursor form the redo branch.
type Store struct {
	entries []*Entry
	cursor  int
	max     int
}

// New creates an empty store. A non-positive max selects DefaultMaxSize.
func New(max int) *Store {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return &Store{cursor: -1, max: max}
}

// Push appends e, discarding any redo branch and evicting the oldest entry
// when the store is full.
func (s *Store) Push(e *Entry) {
	if s.cursor < len(s.entries)-1 {
		for i := s.cursor + 1; i < len(s.entries); i++ {
			s.entries[i] = nil
		}
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, e)
	s.cursor = len(s.entries) - 1
	if len(s.entries) > s.max {
		copy(s.entries, s.entries[1:])
		s.entries[len(s.entries)-1] = nil
		s.entries = s.entries[:len(s.entries)-1]
		if s.cursor > -1 {
			s.cursor--
		}
	}
}

// Undo moves the cursor back one entry and returns it. It reports false
// when there is nothing to undo.
func (s *Store) Undo() (*Entry, bool) {
	if !s.CanUndo() {
		return nil, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Redo moves the cursor forward one entry and returns it.
func (s *Store) Redo() (*Entry, bool) {
	if !s.CanRedo() {
		return nil, false
	}
	s.cursor++
	return s.entries[s.cursor], true
}

// Current returns the entry under the cursor.
func (s *Store) Current() (*Entry, bool) {
	if s.cursor < 0 {
		return nil, false
	}
	return s.entries[s.cursor], true
}

// Clear drops every entry.
func (s *Store) Clear() {
	for i := range s.entries {
		s.entries[i] = nil
	}
	s.entries = s.entries[:0]
	s.cursor = -1
}

func (s *Store) CanUndo() bool { return s.cursor > 0 }
func (s *Store) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Len returns the number of stored entries, including the redo branch.
func (s *Store) Len() int { return len(s.entries) }

// Cursor returns the index of the current entry, or -1 when empty.
func (s *Store) Cursor() int { return s.cursor }

// Max returns the capacity of the store.
func (s *Store) Max() int { return s.max }

// At returns the entry at index i.
func (s *Store) At(i int) (*Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return nil, false
	}
	return s.entries[i], true
}
