package line

import (
	"fmt"

	"github.com/kylelemons/lined/complete"
	"github.com/kylelemons/lined/term"
)

// runCompletion drives the completion UI once TAB has been accepted
// by isCompletionTAB. It returns a key to reinject (if
// any) for the caller to feed back through the main dispatcher.
func (e *Editor) runCompletion(decoder *Decoder) (*Key, error) {
	line := e.buf.String()
	bytePos := e.buf.ByteOffset(e.buf.Pos())
	word, startByte, endByte := complete.ExtractWord(line, bytePos)
	start := e.buf.CharIndex(startByte)
	end := e.buf.CharIndex(endByte)

	// The callback may read LineBuffer but may not re-enter the
	// editing API; inCallback is the guard ReadLine checks.
	var sink complete.Sink
	e.inCallback = true
	e.completionCB(word, start, end, &sink)
	e.inCallback = false

	if e.listMode {
		return e.runListMode(word, start, &sink)
	}
	return e.runRotationMode(&sink, decoder)
}

func (e *Editor) runRotationMode(sink *complete.Sink, decoder *Decoder) (*Key, error) {
	if sink.Len() == 0 {
		e.ta.Write([]byte{term.BEL})
		return nil, nil
	}
	original := e.buf.String()
	rot := complete.NewRotation(sink.All(), original)

	for {
		e.buf.SetCurrent(rot.Current())
		e.renderer.Refresh(e.buf)

		k, err := decoder.Next()
		if err != nil {
			return nil, fmt.Errorf("line: read: %w", err)
		}
		if k.KindOf() == KeyControl && k.Ctrl == term.TAB {
			_, wrapped := rot.Advance()
			if wrapped {
				e.ta.Write([]byte{term.BEL})
			}
			continue
		}
		if k.KindOf() == KeyControl && k.Ctrl == term.ESC {
			e.buf.SetCurrent(rot.Abort())
			return nil, nil
		}
		e.buf.SetCurrent(rot.Current())
		return &k, nil
	}
}

func (e *Editor) runListMode(word string, start int, sink *complete.Sink) (*Key, error) {
	res := complete.ApplyListMode(word, sink.All(), e.appendChar)
	if res.Beep {
		e.ta.Write([]byte{term.BEL})
	}
	if res.Insert != "" {
		e.buf.InsertChars(start+len([]rune(word)), res.Insert, 0)
	}

	if res.ShowGrid {
		e.renderer.Refresh(e.buf)
		rows := complete.FormatGrid(res.Candidates, e.renderer.Cols(), e.filterCB)
		for _, row := range rows {
			e.ta.Write([]byte("\r\n"))
			e.ta.Write([]byte(row))
		}
		e.ta.Write([]byte("\r\n"))
		return nil, nil
	}

	if res.AppendChar != 0 {
		pos := e.buf.Pos()
		if r, ok := e.buf.GetChar(pos); ok && r == res.AppendChar {
			e.buf.SetPos(pos + 1)
		} else {
			e.buf.InsertChar(pos, res.AppendChar, 0)
		}
	}
	return nil, nil
}
