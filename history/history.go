// Package history implements a bounded history ring: add with
// duplicate collapsing, a scratch newest-entry convention for
// in-progress editing, index-based navigation, and escape-encoded
// persistence.
package history

// Ring is a bounded sequence of prior lines, oldest first. It is not
// safe for concurrent use; that is the caller's job.
type Ring struct {
	entries []string // oldest .. newest
	maxLen  int
}

// DefaultMaxLen is the default bound for a new ring.
const DefaultMaxLen = 100

// New returns an empty ring bounded at maxLen (at least 1).
func New(maxLen int) *Ring {
	if maxLen < 1 {
		maxLen = 1
	}
	return &Ring{maxLen: maxLen}
}

// Len returns the number of entries currently stored.
func (r *Ring) Len() int { return len(r.entries) }

// MaxLen returns the current bound.
func (r *Ring) MaxLen() int { return r.maxLen }

// SetMaxLen changes the bound, truncating the oldest entries if
// necessary. Returns false (and does nothing) for n < 1.
func (r *Ring) SetMaxLen(n int) bool {
	if n < 1 {
		return false
	}
	r.maxLen = n
	if len(r.entries) > n {
		r.entries = append([]string(nil), r.entries[len(r.entries)-n:]...)
	}
	return true
}

// All returns a copy of the ring's entries, oldest first.
func (r *Ring) All() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Add appends line as a new committed entry, collapsing it against the
// current newest entry if equal. Returns whether the entry was
// actually appended.
func (r *Ring) Add(line string) bool {
	if r.maxLen == 0 {
		return false
	}
	if n := len(r.entries); n > 0 && r.entries[n-1] == line {
		return false
	}
	if len(r.entries) == r.maxLen {
		r.entries = append(r.entries[:0], r.entries[1:]...)
	}
	r.entries = append(r.entries, line)
	return true
}

// BeginEdit pushes an empty scratch entry as the newest slot, to be
// rewritten while a line is under edit so navigation and search see
// the in-progress text.
func (r *Ring) BeginEdit() {
	if len(r.entries) == r.maxLen {
		r.entries = append(r.entries[:0], r.entries[1:]...)
	}
	r.entries = append(r.entries, "")
}

// EndEdit removes the newest (scratch) entry pushed by BeginEdit.
func (r *Ring) EndEdit() {
	if n := len(r.entries); n > 0 {
		r.entries = r.entries[:n-1]
	}
}

// Get returns the entry at index, where 0 is the newest. Out-of-range
// indices return "".
func (r *Ring) Get(index int) string {
	i := len(r.entries) - 1 - index
	if i < 0 || i >= len(r.entries) {
		return ""
	}
	return r.entries[i]
}

// Set overwrites the entry at index (0 == newest). Out-of-range
// indices are ignored.
func (r *Ring) Set(index int, line string) {
	i := len(r.entries) - 1 - index
	if i < 0 || i >= len(r.entries) {
		return
	}
	r.entries[i] = line
}

// Navigate steps the history cursor for Up/Down: it first writes
// current back into the slot at index (so the in-progress buffer rides
// along), then moves index by delta (clamped to the valid range) and
// returns the entry found there.
func (r *Ring) Navigate(index int, delta int, current string) (newIndex int, line string) {
	r.Set(index, current)
	newIndex = index + delta
	if newIndex < 0 {
		newIndex = 0
	}
	if max := len(r.entries) - 1; newIndex > max {
		newIndex = max
	}
	return newIndex, r.Get(newIndex)
}

// Jump implements the PageUp/PageDown "jump to oldest/newest" variant:
// write back current, then jump straight to the given absolute index
// (clamped).
func (r *Ring) Jump(index int, current string, target int) (newIndex int, line string) {
	r.Set(index, current)
	if target < 0 {
		target = 0
	}
	if max := len(r.entries) - 1; target > max {
		target = max
	}
	return target, r.Get(target)
}
