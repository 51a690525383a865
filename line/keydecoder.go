package line

import "unicode/utf8"

// KeyKind identifies the shape of a decoded event.
type KeyKind int

const (
	KeyPrintable KeyKind = iota
	KeyControl
	KeySpecial
	KeyError
)

// Special identifies a named non-printable key.
type Special int

const (
	SpecialNone Special = iota
	Up
	Down
	Left
	Right
	Home
	End
	Insert
	Delete
	PageUp
	PageDown
	MetaDot
)

var specialNames = [...]string{
	"none", "up", "down", "left", "right", "home", "end",
	"insert", "delete", "page-up", "page-down", "meta-dot",
}

func (s Special) String() string {
	if s >= 0 && int(s) < len(specialNames) {
		return specialNames[s]
	}
	return "unknown"
}

// Key is one decoded event: exactly one of Rune (KeyPrintable),
// Ctrl (KeyControl, the low control byte) or Name (KeySpecial) is
// meaningful, selected by KindOf.
type Key struct {
	kindTag KeyKind
	Rune    rune
	Ctrl    byte
	Name    Special
}

func printable(r rune) Key  { return Key{kindTag: KeyPrintable, Rune: r} }
func control(b byte) Key    { return Key{kindTag: KeyControl, Ctrl: b} }
func special(s Special) Key { return Key{kindTag: KeySpecial, Name: s} }
func keyError() Key         { return Key{kindTag: KeyError} }

// KindOf reports the decoded event's kind.
func (k Key) KindOf() KeyKind { return k.kindTag }

// ByteReader is the subset of the Terminal Adapter the decoder
// depends on: read one byte with a millisecond timeout, -1 meaning
// timeout or error.
type ByteReader interface {
	ReadByte(timeoutMS int) (int, error)
}

const (
	escByteTimeoutMS     = 50
	runawayByteLimit     = 16
	runawayIdleTimeoutMS = 200
)

// Decoder turns the terminal's byte stream into key events: a small
// table-driven DFA over ESC / ESC[ / ESC O prefixes, plus UTF-8
// accumulation for multi-byte codepoints.
type Decoder struct {
	r ByteReader
}

// NewDecoder wraps r.
func NewDecoder(r ByteReader) *Decoder { return &Decoder{r: r} }

// Next reads and decodes one key event, blocking indefinitely for the
// first byte.
func (d *Decoder) Next() (Key, error) {
	b, err := d.r.ReadByte(-1)
	if err != nil {
		return keyError(), err
	}
	if b < 0 {
		return keyError(), nil
	}
	return d.decode(byte(b))
}

func (d *Decoder) decode(b byte) (Key, error) {
	switch {
	case b == 0x1b:
		return d.decodeEscape()
	case b < 0x20 || b == 0x7f:
		return control(b), nil
	case b >= 0x80:
		return d.decodeUTF8(b)
	default:
		return printable(rune(b)), nil
	}
}

// decodeEscape handles the ESC prefix: timeout -> bare ESC, '.' ->
// MetaDot, '[' or 'O' -> CSI/SS3 table, anything else -> pass through
// as Meta-prefixed (re-emitted as that byte).
func (d *Decoder) decodeEscape() (Key, error) {
	n, err := d.r.ReadByte(escByteTimeoutMS)
	if err != nil {
		return keyError(), err
	}
	if n < 0 {
		return control(0x1b), nil
	}
	switch byte(n) {
	case '.':
		return special(MetaDot), nil
	case '[', 'O':
		return d.decodeCSI()
	default:
		return d.decode(byte(n))
	}
}

// decodeCSI handles the byte following ESC[ / ESCO.
func (d *Decoder) decodeCSI() (Key, error) {
	n, err := d.r.ReadByte(escByteTimeoutMS)
	if err != nil {
		return keyError(), err
	}
	if n < 0 {
		return special(SpecialNone), nil
	}
	switch byte(n) {
	case 'A':
		return special(Up), nil
	case 'B':
		return special(Down), nil
	case 'C':
		return special(Right), nil
	case 'D':
		return special(Left), nil
	case 'F':
		return special(End), nil
	case 'H':
		return special(Home), nil
	}
	if n >= '1' && n <= '8' {
		return d.decodeNumericCSI(byte(n))
	}
	return special(SpecialNone), nil
}

var numericCSI = map[byte]Special{
	'2': Insert,
	'3': Delete,
	'5': PageUp,
	'6': PageDown,
	'7': Home,
	'8': End,
}

// decodeNumericCSI handles the "[1..8]~" numeric forms, draining a
// runaway sequence (one without a '~' terminator) up to 16 bytes or
// 200ms idle rather than hanging.
func (d *Decoder) decodeNumericCSI(first byte) (Key, error) {
	n, err := d.r.ReadByte(escByteTimeoutMS)
	if err != nil {
		return keyError(), err
	}
	if n < 0 {
		return special(SpecialNone), nil
	}
	if n == '~' {
		if s, ok := numericCSI[first]; ok {
			return special(s), nil
		}
		return special(SpecialNone), nil
	}
	// Not immediately terminated: drain up to the runaway limit
	// looking for '~'.
	for i := 0; i < runawayByteLimit; i++ {
		b, err := d.r.ReadByte(runawayIdleTimeoutMS)
		if err != nil {
			return keyError(), err
		}
		if b < 0 {
			return special(SpecialNone), nil
		}
		if byte(b) == '~' {
			return special(SpecialNone), nil
		}
	}
	return special(SpecialNone), nil
}

// decodeUTF8 accumulates the remaining bytes of a multi-byte
// codepoint whose lead byte b was already read.
func (d *Decoder) decodeUTF8(b byte) (Key, error) {
	n := utf8SeqLen(b)
	if n <= 1 {
		// Invalid lead byte: surface it as U+FFFD rather than blocking
		// for continuation bytes that will never come.
		return printable(utf8.RuneError), nil
	}
	buf := make([]byte, 1, n)
	buf[0] = b
	for len(buf) < n {
		cb, err := d.r.ReadByte(escByteTimeoutMS)
		if err != nil {
			return keyError(), err
		}
		if cb < 0 {
			r, _ := utf8.DecodeRune(buf)
			return printable(r), nil
		}
		buf = append(buf, byte(cb))
	}
	r, _ := utf8.DecodeRune(buf)
	return printable(r), nil
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}
