package line

import (
	"errors"
	"fmt"
)

// HistoryAdd commits line to the editor's history ring.
func (e *Editor) HistoryAdd(line string) bool { return e.hist.Add(line) }

// HistorySetMaxLen bounds the history ring at n entries.
func (e *Editor) HistorySetMaxLen(n int) bool { return e.hist.SetMaxLen(n) }

// HistoryMaxLen returns the history ring's current bound.
func (e *Editor) HistoryMaxLen() int { return e.hist.MaxLen() }

// HistorySave writes the history ring to path.
func (e *Editor) HistorySave(path string) error { return e.hist.Save(path) }

// HistoryLoad replaces the history ring with the contents of path.
func (e *Editor) HistoryLoad(path string) error { return e.hist.Load(path) }

// History returns a copy of the history ring, oldest first.
func (e *Editor) History() []string { return e.hist.All() }

// SetMultiline is reserved; multi-line editing is not implemented at
// this revision, so this is a documented no-op kept for caller-API
// parity with other line editors.
func (e *Editor) SetMultiline(bool) {}

// SetCompletionAppendChar sets the character appended after a single
// list-mode completion match; 0 suppresses it. Completion callbacks
// may call this to, e.g., drop the trailing space when the lone
// candidate is a directory.
func (e *Editor) SetCompletionAppendChar(ch rune) { e.appendChar = ch }

// CompletionAppendChar returns the current append character.
func (e *Editor) CompletionAppendChar() rune { return e.appendChar }

// LineBuffer returns the full current line under edit. It exists for
// completion callbacks, which receive only the extracted word and its
// span but may want to look left of start to disambiguate command vs
// argument position. Outside an active ReadLine it returns "".
func (e *Editor) LineBuffer() string {
	if e.buf == nil {
		return ""
	}
	return e.buf.String()
}

// PrintKeyCodes is a diagnostic mode: it echoes each decoded
// key event until Ctrl-C, without touching the edit buffer or
// history — useful for verifying what a given terminal emulator sends
// for a given key.
func (e *Editor) PrintKeyCodes() error {
	if e.inCallback {
		return errors.New("line: PrintKeyCodes called from a completion callback")
	}
	if err := e.ta.EnableRaw(); err != nil {
		return err
	}
	e.installExitHook()
	defer e.ta.DisableRaw()

	e.ta.Write([]byte("Key codes (Ctrl-C to exit):\r\n"))
	decoder := NewDecoder(e.ta)
	for {
		k, err := decoder.Next()
		if err != nil {
			return err
		}
		var line string
		switch k.KindOf() {
		case KeyPrintable:
			line = fmt.Sprintf("printable: %q (U+%04X)\r\n", k.Rune, k.Rune)
		case KeyControl:
			line = fmt.Sprintf("control:   0x%02x\r\n", k.Ctrl)
			if k.Ctrl == 0x03 { // Ctrl-C
				e.ta.Write([]byte(line))
				return nil
			}
		case KeySpecial:
			line = fmt.Sprintf("special:   %v\r\n", k.Name)
		case KeyError:
			line = "error decoding key\r\n"
		}
		e.ta.Write([]byte(line))
	}
}
