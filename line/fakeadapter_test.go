package line

import (
	"strconv"
	"strings"
)

// fakeAdapter is an in-memory term.Adapter for testing the renderer
// and session controller without a real TTY: writes accumulate in a
// buffer, reads are served from a preloaded byte queue.
type fakeAdapter struct {
	written strings.Builder
	input   []byte
	inPos   int
	cols    int
	raw     bool
}

func newFakeAdapter(cols int, input string) *fakeAdapter {
	return &fakeAdapter{cols: cols, input: []byte(input)}
}

func (f *fakeAdapter) EnableRaw() error  { f.raw = true; return nil }
func (f *fakeAdapter) DisableRaw() error { f.raw = false; return nil }

func (f *fakeAdapter) ReadByte(timeoutMS int) (int, error) {
	if f.inPos >= len(f.input) {
		return -1, nil
	}
	b := f.input[f.inPos]
	f.inPos++
	return int(b), nil
}

func (f *fakeAdapter) Write(b []byte) (int, error) {
	f.written.Write(b)
	return len(b), nil
}

func (f *fakeAdapter) WindowWidth() int { return f.cols }

func (f *fakeAdapter) ClearScreen()        { f.written.WriteString("<clear>") }
func (f *fakeAdapter) CursorToColumnZero() { f.written.WriteString("\r") }
func (f *fakeAdapter) EraseToEOL()         { f.written.WriteString("<EOL>") }
func (f *fakeAdapter) MoveToColumn(x int) {
	f.written.WriteString("<col:" + strconv.Itoa(x) + ">")
}
func (f *fakeAdapter) RenderControl(ch byte) {
	f.written.WriteByte('^')
	f.written.WriteByte(ch)
}
