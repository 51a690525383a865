package line

import (
	"fmt"

	"github.com/kylelemons/lined/history"
	"github.com/kylelemons/lined/term"
)

// runReverseSearch runs the Ctrl-R sub-loop: a growing/shrinking
// pattern rescanned on every change, with its own temporary prompt.
func (e *Editor) runReverseSearch(decoder *Decoder) (done bool, result string, err error, reinject *Key) {
	savedLine := e.buf.String()
	// Mirror the in-progress text into its history slot first, so the
	// scan indexes over what the user actually sees.
	e.hist.Set(e.histIdx, savedLine)
	search := history.NewSearch(e.histIdx)

	basePrompt := e.currentPromptText()
	restore := func() {
		e.renderer.SetPrompt(basePrompt)
	}

	render := func(matchLine string, cursorAt int) {
		e.renderer.SetPrompt(fmt.Sprintf("(reverse-i-search)'%s': ", search.Pattern()))
		e.buf.SetCurrent(matchLine)
		e.buf.SetPos(cursorAt)
		e.renderer.Refresh(e.buf)
	}

	matchLine := savedLine
	matchPos := 0
	render(matchLine, matchPos)

	for {
		k, rerr := decoder.Next()
		if rerr != nil {
			restore()
			return true, "", fmt.Errorf("line: read: %w", rerr), nil
		}

		switch {
		case k.KindOf() == KeyPrintable:
			search.Extend(k.Rune)
			idx, line, ok := rescan(search, e.hist)
			if ok {
				e.histIdx = idx
				matchLine, matchPos = line, matchStart(line, search.Pattern())
			} else {
				e.ta.Write([]byte{term.BEL})
			}
			render(matchLine, matchPos)

		case k.KindOf() == KeyControl && (k.Ctrl == term.BS || k.Ctrl == term.DEL):
			if search.Shrink() {
				idx, line, ok := rescan(search, e.hist)
				if ok {
					e.histIdx = idx
					matchLine, matchPos = line, matchStart(line, search.Pattern())
				} else if search.Pattern() == "" {
					matchLine, matchPos = savedLine, 0
				}
				render(matchLine, matchPos)
			}

		case k.KindOf() == KeyControl && k.Ctrl == term.CtrlR:
			idx, line, ok := search.Older(e.hist, true)
			if ok {
				e.histIdx = idx
				matchLine, matchPos = line, matchStart(line, search.Pattern())
				render(matchLine, matchPos)
			} else {
				e.ta.Write([]byte{term.BEL})
			}

		case k.KindOf() == KeySpecial && k.Name == Up:
			idx, line, ok := search.Older(e.hist, true)
			if ok {
				e.histIdx = idx
				matchLine, matchPos = line, matchStart(line, search.Pattern())
				render(matchLine, matchPos)
			} else {
				e.ta.Write([]byte{term.BEL})
			}

		case k.KindOf() == KeyControl && k.Ctrl == term.CtrlN:
			idx, line, ok := search.Newer(e.hist, true)
			if ok {
				e.histIdx = idx
				matchLine, matchPos = line, matchStart(line, search.Pattern())
				render(matchLine, matchPos)
			} else {
				e.ta.Write([]byte{term.BEL})
			}

		case k.KindOf() == KeySpecial && k.Name == Down:
			idx, line, ok := search.Newer(e.hist, true)
			if ok {
				e.histIdx = idx
				matchLine, matchPos = line, matchStart(line, search.Pattern())
				render(matchLine, matchPos)
			} else {
				e.ta.Write([]byte{term.BEL})
			}

		case k.KindOf() == KeyControl && (k.Ctrl == term.CtrlG || k.Ctrl == term.CtrlC):
			// Abort clears the line; the edit itself continues.
			restore()
			e.buf.SetCurrent("")
			e.renderer.Refresh(e.buf)
			return false, "", nil, nil

		case k.KindOf() == KeyControl && k.Ctrl == term.LF:
			restore()
			e.buf.SetCurrent(matchLine)
			e.buf.SetPos(matchPos)
			e.renderer.Refresh(e.buf)
			return false, "", nil, nil

		default:
			restore()
			e.buf.SetCurrent(matchLine)
			e.buf.SetPos(matchPos)
			e.renderer.Refresh(e.buf)
			return false, "", nil, &k
		}
	}
}

func (e *Editor) currentPromptText() string {
	// The renderer only stores the active prompt; reverse search needs
	// to put it back once the sub-loop ends.
	return e.renderer.prompt
}

// rescan re-evaluates the pattern from the current position, matching
// peterh/liner's "pattern changed" behavior.
func rescan(s *history.Search, h *history.Ring) (int, string, bool) {
	return s.Rescan(h)
}

// matchStart finds the byte offset of pattern's first occurrence in
// line, converted to a codepoint index (0 if pattern is empty or not
// found, matching "cursor at the match start").
func matchStart(line, pattern string) int {
	if pattern == "" {
		return 0
	}
	idx := indexOf(line, pattern)
	if idx < 0 {
		return 0
	}
	return len([]rune(line[:idx]))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
