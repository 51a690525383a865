// Package complete implements the tab-completion engine: word
// extraction, a callback-driven candidate sink kept in
// case-insensitive ascending order, and the two presentation modes
// (rotation and list/grid).
package complete

import (
	"sort"
	"strings"
)

// Sink is the growing, ordered candidate vector the host callback
// fills in. Unlike a plain append, Add keeps entries in
// case-insensitive ascending order, using a binary search for the
// insertion point.
type Sink struct {
	candidates []string
}

// Add inserts candidate at its case-insensitive sorted position, after
// any entries that compare equal to it. Duplicates are kept; the
// callback is trusted.
func (s *Sink) Add(candidate string) {
	key := strings.ToLower(candidate)
	i := sort.Search(len(s.candidates), func(i int) bool {
		return strings.ToLower(s.candidates[i]) > key
	})
	s.candidates = append(s.candidates, "")
	copy(s.candidates[i+1:], s.candidates[i:])
	s.candidates[i] = candidate
}

// Len returns the number of collected candidates.
func (s *Sink) Len() int { return len(s.candidates) }

// At returns the candidate at index i.
func (s *Sink) At(i int) string { return s.candidates[i] }

// All returns the full candidate slice (read-only use expected).
func (s *Sink) All() []string { return s.candidates }

// Callback is the host's completion provider: given the extracted
// word and its [start,end) span in the line buffer, it adds zero or
// more candidates to sink. The core makes the full line buffer
// available through a side channel (the Editor's LineBuffer method in
// package line) so the callback may inspect context left of start.
type Callback func(word string, start, end int, sink *Sink)

// FilterCallback optionally rewrites a candidate for grid display
// only; the stored/inserted string is untouched. Returning "" (with
// ok=false) means "display unchanged".
type FilterCallback func(candidate string) (display string, ok bool)

// ExtractWord finds the word under completion by scanning left from
// the cursor while the byte is not a space. start is the first
// non-space index, end is the cursor itself.
func ExtractWord(line string, cursor int) (word string, start, end int) {
	if cursor > len(line) {
		cursor = len(line)
	}
	start = cursor
	for start > 0 && line[start-1] != ' ' {
		start--
	}
	return line[start:cursor], start, cursor
}

// LongestCommonPrefix returns the longest common prefix shared by all
// candidates (empty slice or any empty string yields "").
func LongestCommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		prefix = commonPrefix(prefix, c)
		if prefix == "" {
			break
		}
	}
	return prefix
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
