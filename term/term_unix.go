//go:build linux || darwin || freebsd || netbsd || openbsd

package term

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// posixHandle is the POSIX Adapter backend: golang.org/x/term for raw
// mode, golang.org/x/sys/unix for the window-size ioctl (with the
// ESC[6n probe as its fallback) and for poll(2), which implements the
// per-byte read timeout.
type posixHandle struct {
	in     *os.File
	out    *os.File
	fd     int
	saved  *xterm.State
	rawSet bool
}

// Open binds the Adapter to the process's stdin/stdout, refusing
// non-terminals and terminals on the unsupported list.
func Open() (Adapter, error) {
	in, out := os.Stdin, os.Stdout
	fd := int(in.Fd())
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return nil, ErrNotATerminal
	}
	if isUnsupportedTermName(os.Getenv("TERM")) {
		return nil, ErrUnsupportedTerm
	}
	return &posixHandle{in: in, out: out, fd: fd}, nil
}

func (h *posixHandle) EnableRaw() error {
	state, err := xterm.MakeRaw(h.fd)
	if err != nil {
		return fmtErrno("enable_raw", err)
	}
	h.saved = state
	h.rawSet = true
	return nil
}

func (h *posixHandle) DisableRaw() error {
	if !h.rawSet || h.saved == nil {
		return nil
	}
	err := xterm.Restore(h.fd, h.saved)
	h.rawSet = false
	h.saved = nil
	if err != nil {
		return fmtErrno("disable_raw", err)
	}
	return nil
}

func (h *posixHandle) ReadByte(timeoutMS int) (int, error) {
	if timeoutMS >= 0 {
		fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeoutMS)
		if err != nil {
			if err == unix.EINTR {
				return -1, nil
			}
			return -1, fmtErrno("read_byte", err)
		}
		if n == 0 {
			return -1, nil
		}
	}
	var b [1]byte
	n, err := h.in.Read(b[:])
	if err != nil {
		if os.IsTimeout(err) {
			return -1, nil
		}
		return -1, fmtErrno("read_byte", err)
	}
	if n == 0 {
		return -1, nil
	}
	return int(b[0]), nil
}

func (h *posixHandle) Write(b []byte) (int, error) {
	n, err := h.out.Write(b)
	if err != nil {
		return n, fmtErrno("write", err)
	}
	return n, nil
}

func (h *posixHandle) WindowWidth() int {
	if _, cols, err := ioctlWinsize(h.fd); err == nil && cols > 0 {
		return cols
	}
	if cols, ok := h.probeWidth(); ok {
		return cols
	}
	return 80
}

// ioctlWinsize wraps unix.IoctlGetWinsize, reporting (rows, cols, err).
func ioctlWinsize(fd int) (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Row), int(ws.Col), nil
}

// probeWidth measures the width with the ESC[6n cursor-report trick:
// save position, jump to column 999, report, restore.
func (h *posixHandle) probeWidth() (int, bool) {
	start, ok := h.cursorColumn()
	if !ok {
		return 0, false
	}
	if _, err := h.out.Write([]byte("\x1b[999C")); err != nil {
		return 0, false
	}
	cols, ok := h.cursorColumn()
	if !ok {
		return 0, false
	}
	if cols > start {
		h.out.Write([]byte("\x1b[" + strconv.Itoa(cols-start) + "D"))
	}
	return cols, true
}

func (h *posixHandle) cursorColumn() (int, bool) {
	if _, err := h.out.Write([]byte("\x1b[6n")); err != nil {
		return 0, false
	}
	var buf [32]byte
	i := 0
	for i < len(buf)-1 {
		n, err := h.ReadByte(WindowProbeTimeout)
		if err != nil || n < 0 {
			return 0, false
		}
		buf[i] = byte(n)
		if buf[i] == 'R' {
			break
		}
		i++
	}
	if i < 2 || buf[0] != ESC || buf[1] != '[' {
		return 0, false
	}
	parts := strings.Split(string(buf[2:i]), ";")
	if len(parts) != 2 {
		return 0, false
	}
	cols, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return cols, true
}

func (h *posixHandle) ClearScreen()         { h.Write([]byte("\x1b[H\x1b[2J")) }
func (h *posixHandle) CursorToColumnZero()  { h.Write([]byte("\r")) }
func (h *posixHandle) EraseToEOL()          { h.Write([]byte("\x1b[0K")) }
func (h *posixHandle) MoveToColumn(x int) {
	if x < 0 {
		x = 0
	}
	h.Write([]byte("\r\x1b[" + strconv.Itoa(x) + "C"))
}
func (h *posixHandle) RenderControl(ch byte) {
	h.Write(append([]byte("\x1b[7m^"), ch, 0x1b, '[', '0', 'm'))
}
