//go:build windows

package term

import (
	"strconv"

	"golang.org/x/sys/windows"
)

// windowsHandle is the Windows Adapter backend. Rather than hand-roll
// cell-by-cell console writes, it asks the console for VT100
// processing (ENABLE_VIRTUAL_TERMINAL_INPUT/PROCESSING) the same way
// golang.org/x/term's own Windows backend does, so the ANSI byte
// vocabulary in term.go works unchanged on both platforms and the rest
// of the module never branches on GOOS.
type windowsHandle struct {
	in, out windows.Handle
	inMode  uint32
	outMode uint32
	rawMode uint32
	rawSet  bool
}

func Open() (Adapter, error) {
	in, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, ErrNotATerminal
	}
	out, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, ErrNotATerminal
	}
	var inMode, outMode uint32
	if err := windows.GetConsoleMode(in, &inMode); err != nil {
		return nil, ErrNotATerminal
	}
	if err := windows.GetConsoleMode(out, &outMode); err != nil {
		return nil, ErrNotATerminal
	}
	return &windowsHandle{in: in, out: out, inMode: inMode, outMode: outMode}, nil
}

func (h *windowsHandle) EnableRaw() error {
	raw := h.inMode &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT)
	raw |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	if err := windows.SetConsoleMode(h.in, raw); err != nil {
		return fmtErrno("enable_raw", err)
	}
	if err := windows.SetConsoleMode(h.out, h.outMode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		windows.SetConsoleMode(h.in, h.inMode)
		return fmtErrno("enable_raw", err)
	}
	h.rawMode = raw
	h.rawSet = true
	return nil
}

func (h *windowsHandle) DisableRaw() error {
	if !h.rawSet {
		return nil
	}
	h.rawSet = false
	err1 := windows.SetConsoleMode(h.in, h.inMode)
	err2 := windows.SetConsoleMode(h.out, h.outMode)
	if err1 != nil {
		return fmtErrno("disable_raw", err1)
	}
	if err2 != nil {
		return fmtErrno("disable_raw", err2)
	}
	return nil
}

func (h *windowsHandle) ReadByte(timeoutMS int) (int, error) {
	if timeoutMS >= 0 {
		waitMS := uint32(timeoutMS)
		ev, err := windows.WaitForSingleObject(h.in, waitMS)
		if err != nil {
			return -1, fmtErrno("read_byte", err)
		}
		if ev == uint32(windows.WAIT_TIMEOUT) {
			return -1, nil
		}
	}
	var b [1]byte
	var read uint32
	if err := windows.ReadFile(h.in, b[:], &read, nil); err != nil {
		return -1, fmtErrno("read_byte", err)
	}
	if read == 0 {
		return -1, nil
	}
	return int(b[0]), nil
}

func (h *windowsHandle) Write(b []byte) (int, error) {
	var written uint32
	err := windows.WriteFile(h.out, b, &written, nil)
	if err != nil {
		return int(written), fmtErrno("write", err)
	}
	return int(written), nil
}

func (h *windowsHandle) WindowWidth() int {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h.out, &info); err == nil {
		w := int(info.Size.X)
		if w > 0 {
			return w
		}
	}
	return 80
}

func (h *windowsHandle) ClearScreen()        { h.Write([]byte("\x1b[H\x1b[2J")) }
func (h *windowsHandle) CursorToColumnZero() { h.Write([]byte("\r")) }
func (h *windowsHandle) EraseToEOL()         { h.Write([]byte("\x1b[0K")) }
func (h *windowsHandle) MoveToColumn(x int) {
	if x < 0 {
		x = 0
	}
	h.Write([]byte("\r\x1b[" + strconv.Itoa(x) + "C"))
}
func (h *windowsHandle) RenderControl(ch byte) {
	h.Write(append([]byte("\x1b[7m^"), ch, 0x1b, '[', '0', 'm'))
}
