package line

import "unicode/utf8"

// Return codes InsertChar and RemoveChar use to tell the caller how
// much repainting an edit needs.
const (
	Refused     = 0 // no room, buffer unchanged
	FullRefresh = 1 // caller must repaint the whole line
	FastPath    = 2 // caller may instead issue the single-byte/backspace shortcut
)

// Buffer is a bounded line of text addressed in codepoints externally
// and bytes internally, with a cursor and a one-slot kill-ring
// capture. length and chars are the buffer's invariants and are kept
// consistent by every method below.
type Buffer struct {
	buf     []byte // buf[:length] is the live content
	length  int    // bytes in use
	chars   int    // codepoints in use
	pos     int    // cursor, in codepoints, 0 <= pos <= chars
	bufmax  int    // byte capacity ceiling (including the notional NUL)
	capture []byte // kill-ring slot, nil when empty
}

// NewBuffer returns an empty buffer bounded at bufmax bytes.
func NewBuffer(bufmax int) *Buffer {
	if bufmax < 2 {
		bufmax = 2
	}
	return &Buffer{bufmax: bufmax}
}

// Len returns the number of bytes in use.
func (b *Buffer) Len() int { return b.length }

// Chars returns the number of codepoints in use.
func (b *Buffer) Chars() int { return b.chars }

// Pos returns the cursor, in codepoints.
func (b *Buffer) Pos() int { return b.pos }

// SetPos moves the cursor, clamped to [0, chars].
func (b *Buffer) SetPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > b.chars {
		pos = b.chars
	}
	b.pos = pos
}

// String returns the buffer's current content.
func (b *Buffer) String() string { return string(b.buf[:b.length]) }

// Capture returns the kill-ring slot's contents ("" if empty).
func (b *Buffer) Capture() string {
	if b.capture == nil {
		return ""
	}
	return string(b.capture)
}

// byteOffset converts a codepoint index into a byte offset into
// buf[:length].
func (b *Buffer) byteOffset(charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	off, n := 0, 0
	for off < b.length && n < charIdx {
		_, size := utf8.DecodeRune(b.buf[off:b.length])
		off += size
		n++
	}
	return off
}

// ByteOffset converts a codepoint index into a byte offset into the
// buffer's current content, for collaborators (like the completion
// engine) that work on byte-indexed substrings of String().
func (b *Buffer) ByteOffset(charIdx int) int { return b.byteOffset(charIdx) }

// CharIndex converts a byte offset into String() back into a codepoint
// index, the inverse of ByteOffset.
func (b *Buffer) CharIndex(byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= b.length {
		return b.chars
	}
	return utf8.RuneCount(b.buf[:byteOff])
}

// GetChar returns the codepoint at index pos, or ok=false if out of
// range.
func (b *Buffer) GetChar(pos int) (r rune, ok bool) {
	if pos < 0 || pos >= b.chars {
		return 0, false
	}
	off := b.byteOffset(pos)
	r, _ = utf8.DecodeRune(b.buf[off:b.length])
	return r, true
}

// InsertChar inserts cp at codepoint index pos. availableCols is the
// number of display columns left for buffer content (cols minus
// prompt width, computed by the renderer) — used only to decide the
// fast-path return; the insertion itself never fails because of it.
// NUL is always refused.
func (b *Buffer) InsertChar(pos int, cp rune, availableCols int) int {
	if cp == 0 {
		return Refused
	}
	if pos < 0 {
		pos = 0
	}
	if pos > b.chars {
		pos = b.chars
	}

	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], cp)
	if b.length+n >= b.bufmax-1 {
		return Refused
	}

	wasEnd := pos == b.chars && pos == b.pos
	off := b.byteOffset(pos)
	nb := make([]byte, 0, b.length+n)
	nb = append(nb, b.buf[:off]...)
	nb = append(nb, tmp[:n]...)
	nb = append(nb, b.buf[off:b.length]...)
	b.buf = nb
	b.length += n
	b.chars++
	if pos <= b.pos {
		b.pos++
	}

	if wasEnd && cp >= 0x20 && cp != 0x7f && availableCols > b.chars {
		return FastPath
	}
	return FullRefresh
}

// RemoveChar deletes the codepoint at pos. Fast path applies when the
// removed character was a single-cell printable at the end of the
// line with the cursor behind it, where a "\b \b" write is enough.
func (b *Buffer) RemoveChar(pos int) int {
	if pos < 0 || pos >= b.chars {
		return Refused
	}
	off := b.byteOffset(pos)
	r, size := utf8.DecodeRune(b.buf[off:b.length])
	fast := pos == b.chars-1 && b.pos == b.chars &&
		size == 1 && r >= 0x20 && r != 0x7f

	nb := make([]byte, 0, b.length-size)
	nb = append(nb, b.buf[:off]...)
	nb = append(nb, b.buf[off+size:b.length]...)
	b.buf = nb
	b.length -= size
	b.chars--
	if b.pos > pos {
		b.pos--
	}
	if b.pos > b.chars {
		b.pos = b.chars
	}

	if fast {
		return FastPath
	}
	return FullRefresh
}

// RemoveChars removes n codepoints starting at pos, copying the
// removed bytes into the kill-ring capture slot (replacing its prior
// contents) before removing. Returns the number of codepoints
// actually removed.
func (b *Buffer) RemoveChars(pos, n int) int {
	if pos < 0 || pos >= b.chars || n <= 0 {
		return 0
	}
	if pos+n > b.chars {
		n = b.chars - pos
	}
	startOff := b.byteOffset(pos)
	endOff := b.byteOffset(pos + n)

	b.capture = append([]byte(nil), b.buf[startOff:endOff]...)

	nb := make([]byte, 0, b.length-(endOff-startOff))
	nb = append(nb, b.buf[:startOff]...)
	nb = append(nb, b.buf[endOff:b.length]...)
	b.buf = nb
	b.length -= endOff - startOff
	b.chars -= n
	if b.pos > pos {
		if b.pos >= pos+n {
			b.pos -= n
		} else {
			b.pos = pos
		}
	}
	return n
}

// InsertChars inserts the codepoints decoded from s starting at pos,
// stopping at the first one InsertChar refuses. availableCols is
// forwarded to InsertChar for each codepoint (recomputed as the
// buffer grows would require renderer feedback mid-call, so callers
// inserting multi-codepoint spans — paste, yank, completion — pass 0
// to always force a full refresh, which is always correct, just not
// always fastest).
func (b *Buffer) InsertChars(pos int, s string, availableCols int) int {
	count := 0
	for _, r := range s {
		if b.InsertChar(pos, r, availableCols) == Refused {
			break
		}
		pos++
		count++
	}
	return count
}

// SetCurrent replaces the whole buffer with s (truncated to fit
// bufmax-1 bytes without splitting a codepoint), moving the cursor to
// the end.
func (b *Buffer) SetCurrent(s string) {
	max := b.bufmax - 1
	if len(s) > max {
		// Trim back to the last full codepoint boundary <= max.
		for max > 0 && !utf8.RuneStart(s[max]) {
			max--
		}
		s = s[:max]
	}
	b.buf = []byte(s)
	b.length = len(b.buf)
	b.chars = utf8.RuneCount(b.buf)
	b.pos = b.chars
}

// restoreCapture resets the kill-ring slot to a previously saved
// value, used by operations (like transpose) that must not count as a
// kill for capture purposes even though they're built on RemoveChars.
func (b *Buffer) restoreCapture(s string) {
	if s == "" {
		b.capture = nil
		return
	}
	b.capture = []byte(s)
}

// Reset clears the buffer to empty, as the Session Controller does at
// the start of every editing call.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.length = 0
	b.chars = 0
	b.pos = 0
}
