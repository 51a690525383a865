// Package line implements the interactive edit session: the edit
// buffer, renderer, key decoder and session controller that together
// provide one ReadLine call.
package line

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kylelemons/lined/complete"
	"github.com/kylelemons/lined/history"
	"github.com/kylelemons/lined/term"
)

// ErrInterrupted is returned when the user presses Ctrl-C during
// editing.
var ErrInterrupted = errors.New("line: interrupted")

var exitHookOnce sync.Once

// Editor owns one terminal adapter and one history ring across any
// number of sequential ReadLine calls. It is not safe for concurrent
// use; the caller must serialize.
type Editor struct {
	ta   term.Adapter
	hist *history.Ring

	completionCB complete.Callback
	filterCB     complete.FilterCallback
	listMode     bool
	appendChar   rune
	inCallback   bool

	metaDotIdx     int
	metaDotPrevLen int

	buf      *Buffer
	renderer *Renderer
	histIdx  int

	// needRefresh is cleared by a handler that already painted its own
	// edit (the single-byte and "\b \b" fast paths), telling the main
	// loop to skip the full repaint for this key.
	needRefresh bool
}

// New binds an editor to an adapter and a history ring.
func New(ta term.Adapter, hist *history.Ring) *Editor {
	return &Editor{ta: ta, hist: hist, appendChar: ' '}
}

// SetCompletionCallback registers fn, returning the prior callback.
func (e *Editor) SetCompletionCallback(fn complete.Callback) complete.Callback {
	prior := e.completionCB
	e.completionCB = fn
	return prior
}

// SetCompletionFilterCallback registers fn, returning the prior one.
func (e *Editor) SetCompletionFilterCallback(fn complete.FilterCallback) complete.FilterCallback {
	prior := e.filterCB
	e.filterCB = fn
	return prior
}

// SetListMode toggles rotation mode (false, the default) vs. grid
// list mode (true) for TAB completion.
func (e *Editor) SetListMode(on bool) { e.listMode = on }

// ClearScreen clears the terminal.
func (e *Editor) ClearScreen() { e.ta.ClearScreen() }

func (e *Editor) installExitHook() {
	exitHookOnce.Do(func() {
		installTerminationHook(e.ta)
	})
}

// ReadLine performs one full edit call. It returns (line, nil) on
// Enter, ("", io.EOF) on Ctrl-D with an empty buffer, or
// ("", ErrInterrupted) on Ctrl-C. Any other non-nil error is an I/O
// failure.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if e.inCallback {
		return "", errors.New("line: ReadLine called from a completion callback")
	}
	if err := e.ta.EnableRaw(); err != nil {
		return e.fallbackReadLine(prompt)
	}
	e.installExitHook()
	defer e.ta.DisableRaw()

	e.renderer = NewRenderer(e.ta, prompt)
	e.buf = NewBuffer(term.MaxLineBytes)
	e.histIdx = 0
	e.metaDotIdx = 0
	e.metaDotPrevLen = 0

	e.hist.BeginEdit()
	defer e.hist.EndEdit()

	e.buf.SetCurrent("")
	e.renderer.Refresh(e.buf)

	decoder := NewDecoder(e.ta)
	var pending *Key

	for {
		var k Key
		var err error
		if pending != nil {
			k = *pending
			pending = nil
		} else {
			k, err = decoder.Next()
			if err != nil {
				return "", fmt.Errorf("line: read: %w", err)
			}
		}

		if e.isCompletionTAB(k) {
			reinject, err := e.runCompletion(decoder)
			if err != nil {
				return "", err
			}
			if reinject != nil {
				pending = reinject
			}
			e.renderer.Refresh(e.buf)
			continue
		}

		e.needRefresh = true
		done, result, err, reinject := e.dispatch(k, decoder)
		if reinject != nil {
			pending = reinject
			continue
		}
		if done {
			return result, err
		}
		if e.needRefresh {
			e.renderer.Refresh(e.buf)
		}
	}
}

func (e *Editor) isCompletionTAB(k Key) bool {
	if e.completionCB == nil {
		return false
	}
	if k.KindOf() != KeyControl || k.Ctrl != term.TAB {
		return false
	}
	return e.listMode || e.buf.Pos() == e.buf.Chars()
}

// dispatch routes one key event to its editing action. Returns done=true
// with the final (result, err) on a terminating key; reinject is
// non-nil when a sub-mode consumed a key but wants the controller to
// reprocess a different one immediately.
func (e *Editor) dispatch(k Key, decoder *Decoder) (done bool, result string, err error, reinject *Key) {
	// Meta-. cycling only survives consecutive presses; any other key
	// resets it so the next press starts from the previous line again.
	if k.KindOf() != KeySpecial || k.Name != MetaDot {
		defer func() {
			e.metaDotIdx = 0
			e.metaDotPrevLen = 0
		}()
	}

	switch k.KindOf() {
	case KeyError:
		return true, "", fmt.Errorf("line: decode error"), nil

	case KeyControl:
		switch k.Ctrl {
		case term.CR, term.LF:
			return true, e.buf.String(), nil, nil
		case term.CtrlC:
			return true, "", ErrInterrupted, nil
		case term.BS, term.DEL:
			e.backspace()
		case term.CtrlD:
			if e.buf.Chars() == 0 {
				return true, "", io.EOF, nil
			}
			e.buf.RemoveChar(e.buf.Pos())
		case term.CtrlW:
			e.killWordLeft()
		case term.CtrlU:
			e.buf.RemoveChars(0, e.buf.Pos())
		case term.CtrlK:
			e.buf.RemoveChars(e.buf.Pos(), e.buf.Chars()-e.buf.Pos())
		case term.CtrlY:
			if cap := e.buf.Capture(); cap != "" {
				if e.buf.InsertChars(e.buf.Pos(), cap, 0) < utf8.RuneCountInString(cap) {
					e.ta.Write([]byte{term.BEL})
				}
			}
		case term.CtrlT:
			e.transpose()
		case term.CtrlV:
			return e.literalInsert(decoder)
		case term.CtrlB:
			e.buf.SetPos(e.buf.Pos() - 1)
		case term.CtrlF:
			e.buf.SetPos(e.buf.Pos() + 1)
		case term.CtrlA:
			e.buf.SetPos(0)
		case term.CtrlE:
			e.buf.SetPos(e.buf.Chars())
		case term.CtrlP:
			e.historyStep(1)
		case term.CtrlN:
			e.historyStep(-1)
		case term.CtrlR:
			return e.runReverseSearch(decoder)
		case term.CtrlL:
			e.ta.ClearScreen()
			e.renderer.RecomputeCols()
		case term.TAB:
			e.insertOrBeep('\t')
		default:
			// Unrecognized control byte: ignored.
		}

	case KeySpecial:
		switch k.Name {
		case Left:
			e.buf.SetPos(e.buf.Pos() - 1)
		case Right:
			e.buf.SetPos(e.buf.Pos() + 1)
		case Home:
			e.buf.SetPos(0)
		case End:
			e.buf.SetPos(e.buf.Chars())
		case Delete:
			e.buf.RemoveChar(e.buf.Pos())
		case Up:
			e.historyStep(1)
		case Down:
			e.historyStep(-1)
		case PageUp:
			e.historyJump(e.hist.Len() - 1)
		case PageDown:
			e.historyJump(0)
		case Insert:
			// Reserved, ignored.
		case MetaDot:
			e.insertLastHistoryToken()
		case SpecialNone:
			// Unterminated/unknown escape sequence: nothing to do.
		}

	case KeyPrintable:
		e.insertOrBeep(k.Rune)
	}
	return false, "", nil, nil
}

// insertOrBeep inserts cp at the cursor, ringing the bell when the
// buffer refuses it (full, or NUL). When the buffer reports the
// fast path — appending a printable that still fits on the row — the
// character is echoed with a single write instead of a full repaint.
func (e *Editor) insertOrBeep(cp rune) {
	switch e.buf.InsertChar(e.buf.Pos(), cp, e.renderer.AvailableCols()) {
	case Refused:
		e.ta.Write([]byte{term.BEL})
	case FastPath:
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], cp)
		e.ta.Write(tmp[:n])
		e.needRefresh = false
	}
}

func (e *Editor) backspace() {
	if e.buf.Pos() == 0 {
		return
	}
	if e.buf.RemoveChar(e.buf.Pos()-1) == FastPath {
		e.ta.Write([]byte("\b \b"))
		e.needRefresh = false
	}
}

func (e *Editor) killWordLeft() {
	pos := e.buf.Pos()
	end := pos
	for pos > 0 {
		if r, ok := e.buf.GetChar(pos - 1); ok && r != ' ' {
			break
		}
		pos--
	}
	for pos > 0 {
		if r, ok := e.buf.GetChar(pos - 1); ok && r == ' ' {
			break
		}
		pos--
	}
	if pos < end {
		e.buf.RemoveChars(pos, end-pos)
	}
}

func (e *Editor) transpose() {
	pos := e.buf.Pos()
	chars := e.buf.Chars()
	if chars < 2 {
		return
	}
	if pos == chars {
		pos--
	}
	if pos < 1 {
		return
	}
	a, okA := e.buf.GetChar(pos - 1)
	b, okB := e.buf.GetChar(pos)
	if !okA || !okB {
		return
	}
	// Transpose is not a kill-style operation; it must not disturb the
	// capture slot the way RemoveChars normally would.
	savedCapture := e.buf.Capture()
	e.buf.RemoveChars(pos-1, 2)
	e.buf.InsertChar(pos-1, b, 0)
	e.buf.InsertChar(pos, a, 0)
	e.buf.SetPos(pos + 1)
	e.buf.restoreCapture(savedCapture)
}

func (e *Editor) literalInsert(decoder *Decoder) (done bool, result string, err error, reinject *Key) {
	k, rerr := decoder.Next()
	if rerr != nil {
		return true, "", fmt.Errorf("line: read: %w", rerr), nil
	}
	var r rune
	switch k.KindOf() {
	case KeyPrintable:
		r = k.Rune
	case KeyControl:
		r = rune(k.Ctrl)
	default:
		return false, "", nil, nil
	}
	if e.buf.InsertChar(e.buf.Pos(), r, 0) == Refused {
		e.ta.Write([]byte{term.BEL})
	}
	return false, "", nil, nil
}

func (e *Editor) historyStep(delta int) {
	newIdx, line := e.hist.Navigate(e.histIdx, delta, e.buf.String())
	e.histIdx = newIdx
	e.buf.SetCurrent(line)
}

func (e *Editor) historyJump(target int) {
	newIdx, line := e.hist.Jump(e.histIdx, e.buf.String(), target)
	e.histIdx = newIdx
	e.buf.SetCurrent(line)
}

// insertLastHistoryToken implements Meta-.: insert the last
// whitespace-separated token of the previous history line; repeated
// presses cycle further back, first removing the previously inserted
// token.
func (e *Editor) insertLastHistoryToken() {
	if e.metaDotPrevLen > 0 {
		pos := e.buf.Pos()
		e.buf.RemoveChars(pos-e.metaDotPrevLen, e.metaDotPrevLen)
		e.metaDotIdx++
	} else {
		e.metaDotIdx = 1
	}

	line := e.hist.Get(e.metaDotIdx)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		e.metaDotPrevLen = 0
		return
	}
	token := fields[len(fields)-1]
	e.buf.InsertChars(e.buf.Pos(), token, 0)
	e.metaDotPrevLen = len([]rune(token))
}

// fallbackReadLine is the unsupported-terminal path: a plain line
// read, stripping a trailing LF.
func (e *Editor) fallbackReadLine(prompt string) (string, error) {
	fmt.Fprint(stdoutWriter{e.ta}, prompt)
	var sb strings.Builder
	for {
		b, err := e.ta.ReadByte(-1)
		if err != nil {
			return "", err
		}
		if b < 0 {
			return "", io.EOF
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(byte(b))
		}
	}
	return sb.String(), nil
}

type stdoutWriter struct{ ta term.Adapter }

func (w stdoutWriter) Write(p []byte) (int, error) { return w.ta.Write(p) }
