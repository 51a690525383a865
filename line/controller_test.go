package line

import (
	"testing"

	"github.com/kylelemons/lined/complete"
	"github.com/kylelemons/lined/history"
)

func TestReadLineBackspaceScenario(t *testing.T) {
	// Type "hello", Backspace x2, Enter -> "hel".
	input := "hello\x7f\x7f\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "hel" {
		t.Errorf("ReadLine() = %q, want %q", got, "hel")
	}
}

func TestReadLineKillAndYankScenario(t *testing.T) {
	// Type "abc def", Ctrl-A, Ctrl-K, Ctrl-Y, Enter -> "abc def".
	input := "abc def\x01\x0b\x19\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "abc def" {
		t.Errorf("ReadLine() = %q, want %q", got, "abc def")
	}
}

func TestReadLineCtrlCInterrupts(t *testing.T) {
	input := "ab\x03"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	_, err := e.ReadLine("> ")
	if err != ErrInterrupted {
		t.Errorf("ReadLine() err = %v, want ErrInterrupted", err)
	}
}

func TestReadLineCtrlDOnEmptyIsEOF(t *testing.T) {
	input := "\x04"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	_, err := e.ReadLine("> ")
	if err == nil {
		t.Fatal("expected an EOF error")
	}
}

func TestReadLineHistoryNavigation(t *testing.T) {
	h := history.New(10)
	h.Add("first")
	h.Add("second")
	ta := newFakeAdapter(80, "\x10\r") // Ctrl-P (up) then Enter
	e := New(ta, h)

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "second" {
		t.Errorf("ReadLine() = %q, want %q (most recent history entry)", got, "second")
	}
}

func TestReadLineTransposeScenario(t *testing.T) {
	// Type "ab", Ctrl-T -> "ba".
	input := "ab\x14\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "ba" {
		t.Errorf("ReadLine() = %q, want %q", got, "ba")
	}
}

func TestReadLineFastPathEchoesWithoutRepaint(t *testing.T) {
	// Appending printables at the end of a short line takes the
	// single-byte echo path; backspacing the last one takes "\b \b".
	// Neither triggers a full repaint, so the output stream contains
	// the raw writes back to back.
	input := "ab\x7f\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "a" {
		t.Errorf("ReadLine() = %q, want %q", got, "a")
	}
	out := ta.written.String()
	if !contains(out, "ab\b \b") {
		t.Errorf("output %q missing the fast-path echo and backspace writes", out)
	}
}

func TestReadLineDeleteKeyRemovesAtCursor(t *testing.T) {
	// Type "abc", Home, Delete (ESC [ 3 ~) -> "bc".
	input := "abc\x1b[H\x1b[3~\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "bc" {
		t.Errorf("ReadLine() = %q, want %q", got, "bc")
	}
}

func TestReadLineKillWordAndYank(t *testing.T) {
	// Type "foo bar", Ctrl-W (kill word), Ctrl-Y (yank it back).
	input := "foo bar\x17\x19\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "foo bar" {
		t.Errorf("ReadLine() = %q, want %q", got, "foo bar")
	}
}

func TestReadLineMetaDotCyclesLastTokens(t *testing.T) {
	// Meta-. appends the previous line's last token, a second Meta-.
	// replaces it with the token from the line before.
	h := history.New(10)
	h.Add("older one tail")
	h.Add("prev cmd last")
	input := "ls \x1b.\x1b.\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, h)

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "ls tail" {
		t.Errorf("ReadLine() = %q, want %q", got, "ls tail")
	}
}

func TestReadLineReverseSearchAccept(t *testing.T) {
	// Ctrl-R, type "b" (matches the newest entry containing it), Ctrl-J
	// to accept, Enter to submit.
	h := history.New(10)
	h.Add("a")
	h.Add("ab")
	h.Add("abc")
	input := "\x12b\x0a\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, h)

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "abc" {
		t.Errorf("ReadLine() = %q, want %q (newest match)", got, "abc")
	}
}

func TestReadLineReverseSearchAbortClearsLine(t *testing.T) {
	// Type "abc", Ctrl-R, Ctrl-G aborts and clears, then type "x".
	input := "abc\x12\x07x\r"
	ta := newFakeAdapter(80, input)
	e := New(ta, history.New(10))

	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "x" {
		t.Errorf("ReadLine() = %q, want %q (abort clears the buffer)", got, "x")
	}
}

func TestReadLineCallbackCannotReenter(t *testing.T) {
	ta := newFakeAdapter(80, "h\t\r")
	e := New(ta, history.New(10))
	var reentrantErr error
	e.SetCompletionCallback(func(word string, start, end int, sink *complete.Sink) {
		_, reentrantErr = e.ReadLine("> ")
		sink.Add("hello")
	})
	if _, err := e.ReadLine("> "); err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if reentrantErr == nil {
		t.Error("re-entrant ReadLine from a completion callback should fail")
	}
}

func TestReadLineCompletionRotationMode(t *testing.T) {
	ta := newFakeAdapter(80, "h\t\r") // type "h", TAB, Enter (accept first candidate)
	e := New(ta, history.New(10))
	e.SetCompletionCallback(func(word string, start, end int, sink *complete.Sink) {
		sink.Add("hello")
	})
	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadLine() = %q, want %q", got, "hello")
	}
}

func TestReadLineCompletionListModeInsertsCommonPrefix(t *testing.T) {
	ta := newFakeAdapter(80, "h\t\r")
	e := New(ta, history.New(10))
	e.SetListMode(true)
	e.SetCompletionCallback(func(word string, start, end int, sink *complete.Sink) {
		sink.Add("hello")
		sink.Add("hello there")
	})
	got, err := e.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadLine() = %q, want %q (longest common prefix)", got, "hello")
	}
}
