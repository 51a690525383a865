package line

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/kylelemons/lined/term"
)

// isControl reports whether r is a control codepoint the renderer
// must show via RenderControl rather than writing raw.
func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// Renderer repaints the visible slice of the line after every edit,
// the single-line refresh style of linenoise: rewrite the whole
// visible window each time rather than diffing against prior output.
type Renderer struct {
	ta     term.Adapter
	cols   int
	prompt string
}

// NewRenderer binds a renderer to an adapter and a prompt. The prompt
// may contain ANSI SGR color sequences; their bytes are excluded from
// the displayed-width accounting.
func NewRenderer(ta term.Adapter, prompt string) *Renderer {
	return &Renderer{ta: ta, prompt: prompt, cols: ta.WindowWidth()}
}

// SetPrompt changes the active prompt (used by reverse-i-search,
// which temporarily substitutes its own prompt text).
func (r *Renderer) SetPrompt(prompt string) { r.prompt = prompt }

// Cols returns the last-known terminal width.
func (r *Renderer) Cols() int { return r.cols }

// RecomputeCols refreshes cols from the adapter (Ctrl-L does this).
func (r *Renderer) RecomputeCols() { r.cols = r.ta.WindowWidth() }

// AvailableCols returns the display columns left for buffer content
// once the prompt is accounted for — the value Buffer.InsertChar
// wants for its fast-path decision.
func (r *Renderer) AvailableCols() int {
	pchars := r.promptDisplayWidth()
	avail := r.cols - pchars
	if avail < 0 {
		avail = 0
	}
	return avail
}

func (r *Renderer) promptDisplayWidth() int {
	return utf8.RuneCountInString(r.prompt) - term.ColorSGRBytes([]byte(r.prompt))
}

// Refresh repaints the line: recompute cols, shrink
// the displayed window from the left until the content fits, then
// emit cursor-to-col-0, prompt, visible codepoints (raw spans
// coalesced, control glyphs via render_control), erase-to-EOL, and
// move the cursor to its final column.
func (r *Renderer) Refresh(b *Buffer) {
	r.cols = r.ta.WindowWidth()
	pchars := r.promptDisplayWidth()

	runes := []rune(b.String())
	chars := len(runes)
	pos := b.Pos()
	if pos > chars {
		pos = chars
	}

	n := pchars + chars + controlCountUpTo(runes, pos)
	if pos < chars && isControl(runes[pos]) {
		n++
	}

	start := 0
	for n >= r.cols && start < chars {
		if isControl(runes[start]) {
			n--
		}
		n--
		start++
		pos--
	}
	visible := runes[start:]
	visiblePos := pos

	r.ta.CursorToColumnZero()
	r.ta.Write([]byte(r.prompt))

	var raw strings.Builder
	flush := func() {
		if raw.Len() > 0 {
			r.ta.Write([]byte(raw.String()))
			raw.Reset()
		}
	}

	col := pchars
	cursorCol := col
	for i, rn := range visible {
		w := 1
		if !isControl(rn) {
			w = runewidth.RuneWidth(rn)
		} else {
			w = 2
		}
		if col+w > r.cols {
			break
		}
		if isControl(rn) {
			flush()
			r.ta.RenderControl(byte(rn) + '@')
		} else {
			raw.WriteRune(rn)
		}
		col += w
		if i+1 == visiblePos {
			cursorCol = col
		}
	}
	flush()
	if visiblePos == 0 {
		cursorCol = pchars
	}

	r.ta.EraseToEOL()
	r.ta.MoveToColumn(cursorCol)
}

func controlCountUpTo(runes []rune, upTo int) int {
	n := 0
	for i := 0; i < upTo && i < len(runes); i++ {
		if isControl(runes[i]) {
			n++
		}
	}
	return n
}
