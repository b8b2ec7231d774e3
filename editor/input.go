package editor

// This file generalizes the teacher's readKey — a flat switch decoding
// one raw byte (or a short ESC-prefixed sequence) into a key code — to
// the richer input alphabet of spec.md §4.11: Alt-letter shortcuts, SGR
// mouse reporting, and the full set of parametric/modified escape
// sequences. The teacher never needed mouse or Alt-letter support, so
// that part has no direct precedent in the pack; it follows the same
// peek-one-byte-at-a-time, switch-on-the-next-byte shape readKey uses.

// rawReader is the minimal surface ReadKey needs from the terminal fd:
// under raw mode (VMIN=0, VTIME=1) a Read returning 0 bytes and no error
// means "nothing arrived within the decisecond timeout", which is how
// the ESC-follow-up peek is implemented — no separate timer is needed.
type rawReader interface {
	Read(p []byte) (int, error)
}

// MouseEvent carries the decoded fields of an SGR mouse report.
type MouseEvent struct {
	Button  int
	Row     int
	Col     int
	Pressed bool
	Motion  bool
	Shift   bool
	Alt     bool
	Ctrl    bool
}

func readByte(r rawReader) (byte, bool, error) {
	buf := make([]byte, 1)
	n, err := r.Read(buf)
	if n == 1 {
		return buf[0], true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

var altLetterKeys = map[byte]int{
	't': AltT, 'T': AltT,
	'l': AltL, 'L': AltL,
	'q': AltQ, 'Q': AltQ,
	'j': AltJ, 'J': AltJ,
	's': AltS, 'S': AltS,
	'n': AltN, 'N': AltN,
	'w': AltW, 'W': AltW,
	'c': AltC, 'C': AltC,
	'v': AltV, 'V': AltV,
	'm': AltM, 'M': AltM,
}

// ReadKey decodes the next key event. It returns (code, nil, nil) for an
// ordinary or escape-sequence key, (MouseEventKey, ev, nil) for a mouse
// report, and (0, nil, nil) when nothing arrived this tick (the main
// loop should just redraw if needed and read again).
func ReadKey(r rawReader) (int, *MouseEvent, error) {
	c, ok, err := readByte(r)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, nil
	}
	if c != 0x1b {
		return int(c), nil, nil
	}

	b1, ok, err := readByte(r)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return '\x1b', nil, nil
	}
	if key, isAlt := altLetterKeys[b1]; isAlt {
		return key, nil, nil
	}
	switch b1 {
	case ']':
		return AltCloseBracket, nil, nil
	case '[':
		return readCSI(r)
	case 'O':
		return readSS3(r)
	case BACKSPACE:
		return AltBackspace, nil, nil
	}
	return '\x1b', nil, nil
}

func readSS3(r rawReader) (int, *MouseEvent, error) {
	b2, ok, err := readByte(r)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return '\x1b', nil, nil
	}
	switch b2 {
	case 'H':
		return HomeKey, nil, nil
	case 'F':
		return EndKey, nil, nil
	}
	return '\x1b', nil, nil
}

func readCSI(r rawReader) (int, *MouseEvent, error) {
	b2, ok, err := readByte(r)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return AltOpenBracket, nil, nil
	}
	switch {
	case b2 == '<':
		return readSGRMouse(r)
	case b2 >= '0' && b2 <= '9':
		return readParametric(r, b2)
	default:
		return letterArrowKey(b2), nil, nil
	}
}

func letterArrowKey(b byte) int {
	switch b {
	case 'A':
		return ArrowUp
	case 'B':
		return ArrowDown
	case 'C':
		return ArrowRight
	case 'D':
		return ArrowLeft
	case 'H':
		return HomeKey
	case 'F':
		return EndKey
	case 'Z':
		return ShiftTab
	}
	return '\x1b'
}

// readParametric handles the digit-led CSI forms: N~ (Home/End/PgUp/
// PgDn/Delete/F10), N;N~ (Ctrl+Delete), and N;N<letter> (modified
// arrow/Home/End).
func readParametric(r rawReader, first byte) (int, *MouseEvent, error) {
	params := []int{int(first - '0')}
	for {
		b, ok, err := readByte(r)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return '\x1b', nil, nil
		}
		switch {
		case b >= '0' && b <= '9':
			params[len(params)-1] = params[len(params)-1]*10 + int(b-'0')
		case b == ';':
			params = append(params, 0)
		case b == '~':
			return parametricTilde(params), nil, nil
		default:
			return parametricLetter(params, b), nil, nil
		}
	}
}

func parametricTilde(params []int) int {
	if len(params) == 1 {
		switch params[0] {
		case 1, 7:
			return HomeKey
		case 3:
			return DeleteKey
		case 4, 8:
			return EndKey
		case 5:
			return PageUp
		case 6:
			return PageDown
		case 21:
			return F10Key
		}
	}
	if len(params) == 2 && params[0] == 3 && params[1] == 5 {
		return CtrlDelete
	}
	return '\x1b'
}

func parametricLetter(params []int, final byte) int {
	if len(params) != 2 || params[0] != 1 {
		switch final {
		case 'H':
			return HomeKey
		case 'F':
			return EndKey
		}
		return '\x1b'
	}
	switch final {
	case 'A':
		return modifiedArrow(params[1], ArrowUp, ShiftArrowUp, AltArrowUp, AltShiftArrowUp, CtrlArrowUp)
	case 'B':
		return modifiedArrow(params[1], ArrowDown, ShiftArrowDown, AltArrowDown, AltShiftArrowDown, CtrlArrowDown)
	case 'C':
		return modifiedArrow(params[1], ArrowRight, ShiftArrowRight, AltArrowRight, AltShiftArrowRight, CtrlArrowRight)
	case 'D':
		return modifiedArrow(params[1], ArrowLeft, ShiftArrowLeft, AltArrowLeft, AltShiftArrowLeft, CtrlArrowLeft)
	case 'H':
		return HomeKey
	case 'F':
		return EndKey
	}
	return '\x1b'
}

// modifiedArrow maps the SGR modifier parameter (2=Shift, 3=Alt,
// 4=Alt+Shift, 5=Ctrl) onto the key family for one direction.
func modifiedArrow(mod, plain, shift, alt, altShift, ctrl int) int {
	switch mod {
	case 2:
		return shift
	case 3:
		return alt
	case 4:
		return altShift
	case 5:
		return ctrl
	}
	return plain
}

// readSGRMouse parses `button;col;row` followed by M (press) or m
// (release). The button byte's bit 5 (0x20) is motion, bits 2-4
// (0x04/0x08/0x10) are Shift/Alt/Ctrl, and the remaining bits are the
// button number (64/65 are scroll up/down).
func readSGRMouse(r rawReader) (int, *MouseEvent, error) {
	nums, final, ok, err := readSemicolonParams(r)
	if err != nil {
		return 0, nil, err
	}
	if !ok || len(nums) != 3 || (final != 'M' && final != 'm') {
		return '\x1b', nil, nil
	}
	btn := nums[0]
	ev := &MouseEvent{
		Button:  btn &^ 0x3c,
		Col:     nums[1],
		Row:     nums[2],
		Pressed: final == 'M',
		Motion:  btn&0x20 != 0,
		Shift:   btn&0x04 != 0,
		Alt:     btn&0x08 != 0,
		Ctrl:    btn&0x10 != 0,
	}
	return MouseEventKey, ev, nil
}

// readSemicolonParams reads semicolon-separated decimal numbers up to
// the first non-digit, non-semicolon byte, which it returns as final.
func readSemicolonParams(r rawReader) (nums []int, final byte, ok bool, err error) {
	cur := 0
	for {
		b, got, rerr := readByte(r)
		if rerr != nil {
			return nil, 0, false, rerr
		}
		if !got {
			return nil, 0, false, nil
		}
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
		case b == ';':
			nums = append(nums, cur)
			cur = 0
		default:
			nums = append(nums, cur)
			return nums, b, true, nil
		}
	}
}
