package editor

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Editor is the whole in-process state of one buffer: the row store and
// its derived syntax state, the primary and secondary cursors, the
// active selection, the undo log, the transient search index and
// bracket match, the viewport, and the terminal/mouse/clipboard plumbing
// around all of it. Everything above this file (row.go, syntax.go,
// selection.go, undo.go, cursorset.go, edit.go, mutate.go, bracket.go,
// search.go, viewport.go, input.go, terminal.go, clipboard.go, width.go,
// render.go) operates on an *Editor; this file wires them together and
// drives the main loop, generalizing the teacher's monolithic Editor
// struct and ProcessKeypress switch.
type Editor struct {
	rows             []Row
	cy, cx           int
	secondaryCursors []Position
	allowOverlap     bool

	selection    Selection
	undo         UndoLog
	searchIndex  SearchIndex
	bracketMatch BracketMatch

	syntax       *Syntax
	wrapEnabled  bool
	UnicodeWidth bool

	dirty    int
	filename string

	screenRows, screenCols int
	rowOffset, colOffset   int
	centeredScroll         bool
	lastWheelTime          time.Time
	scrollSpeed            int

	statusMessage     string
	statusMessageTime time.Time

	terminal *Terminal
	resized  atomic.Bool

	lastClipboardSync string

	quitTimes int
}

// NewEditor returns a freshly constructed, unopened editor.
func NewEditor() *Editor {
	return &Editor{terminal: &Terminal{}}
}

// Init queries the window size and resets all buffer state to an empty,
// untitled document.
func (e *Editor) Init() error {
	e.rows = nil
	e.cy, e.cx = 0, 0
	e.rowOffset, e.colOffset = 0, 0
	e.dirty = 0
	e.filename = ""
	e.statusMessage = ""
	e.statusMessageTime = time.Time{}
	e.syntax = nil
	e.quitTimes = QuitTimes
	e.secondaryCursors = nil
	e.selection.Clear()
	e.searchIndex.Clear()

	rows, cols, err := getWindowSize()
	if err != nil {
		return fmt.Errorf("getting window size: %w", err)
	}
	e.screenRows = rows - 2
	e.screenCols = cols
	return nil
}

// getLineEnding picks the line separator RowsToString writes, matching
// the host OS convention.
func getLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Open replaces the buffer with filename's contents.
func (e *Editor) Open(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open file %q: %w", filename, err)
	}
	defer file.Close()

	e.filename = filename
	e.rows = nil
	e.cy, e.cx = 0, 0
	e.rowOffset, e.colOffset = 0, 0
	e.secondaryCursors = nil
	e.selection.Clear()
	e.undo = UndoLog{}
	e.syntax = SelectSyntax(filename)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := bytes_TrimLineEnding(scanner.Bytes())
		e.rawInsertRowAt(len(e.rows), line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	e.dirty = 0
	return nil
}

// bytes_TrimLineEnding strips a trailing \r left behind on a \r\n file
// (bufio.Scanner's default split already strips the \n).
func bytes_TrimLineEnding(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

// RowsToString joins the buffer back into file content.
func (e *Editor) RowsToString() []byte {
	lineEnding := getLineEnding()
	var buf strings.Builder
	for _, row := range e.rows {
		buf.Write(row.Chars)
		buf.WriteString(lineEnding)
	}
	return []byte(buf.String())
}

// Save writes the buffer to e.filename, prompting for one first if unset.
func (e *Editor) Save() {
	if e.filename == "" {
		name := e.Prompt("Save as: %s (ESC to cancel)", nil)
		if name == "" {
			e.SetStatusMessage("Save aborted")
			return
		}
		e.filename = name
		e.syntax = SelectSyntax(name)
	}

	buf := e.RowsToString()
	file, err := os.OpenFile(e.filename, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		e.SetStatusMessage("Can't save! I/O error: %v", err)
		return
	}
	defer file.Close()

	if err := file.Truncate(int64(len(buf))); err != nil {
		e.SetStatusMessage("Can't save! I/O error: %v", err)
		return
	}
	n, err := file.Write(buf)
	if err != nil {
		e.SetStatusMessage("Can't save! I/O error: %v", err)
		return
	}
	if n != len(buf) {
		e.SetStatusMessage("Can't save! Partial write: %d/%d bytes", n, len(buf))
		return
	}
	e.SetStatusMessage("%d bytes written to disk", len(buf))
	e.dirty = 0
}

// SetStatusMessage sets the message-bar text, stamped to fade after 5s.
func (e *Editor) SetStatusMessage(format string, args ...any) {
	e.statusMessage = fmt.Sprintf(format, args...)
	e.statusMessageTime = time.Now()
}

// ShowError surfaces an error in the status bar rather than exiting.
func (e *Editor) ShowError(format string, args ...any) {
	e.SetStatusMessage("Warn: "+format, args...)
}

// Prompt reads a line of input at the message bar, invoking callback (if
// non-nil) after every keystroke — the hook Find uses to live-update the
// search index as the query is typed.
func (e *Editor) Prompt(prompt string, callback func(query []byte, key int)) string {
	buf := make([]byte, 0, 128)
	for {
		e.SetStatusMessage(prompt, string(buf))
		e.RefreshScreen()

		key, _, err := ReadKey(os.Stdin)
		if err != nil {
			e.ShowError("%v", err)
			continue
		}
		if key == 0 {
			continue
		}

		switch key {
		case DeleteKey, BACKSPACE, withControlKey('h'):
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case '\x1b':
			e.SetStatusMessage("")
			if callback != nil {
				callback(buf, key)
			}
			return ""
		case '\r':
			if len(buf) > 0 {
				e.SetStatusMessage("")
				if callback != nil {
					callback(buf, key)
				}
				return string(buf)
			}
		default:
			if key >= 32 && key < 127 {
				buf = append(buf, byte(key))
			}
		}
		if callback != nil {
			callback(buf, key)
		}
	}
}

// findCallback drives the search index live as the query is typed and
// the user steps through matches with the arrow keys.
func (e *Editor) findCallback(query []byte, key int) {
	switch key {
	case '\r', '\x1b':
		return
	case ArrowRight, ArrowDown:
		if m, ok := e.searchIndex.Next(); ok {
			e.JumpToMatch(m)
		}
		return
	case ArrowLeft, ArrowUp:
		if m, ok := e.searchIndex.Prev(); ok {
			e.JumpToMatch(m)
		}
		return
	}
	e.searchIndex.Search(e.rows, string(query))
	if m, ok := e.searchIndex.Next(); ok {
		e.JumpToMatch(m)
	}
}

// Find prompts for a search query, restoring the cursor/viewport if the
// prompt is cancelled.
func (e *Editor) Find() {
	savedCx, savedCy := e.cx, e.cy
	savedColOffset, savedRowOffset := e.colOffset, e.rowOffset

	query := e.Prompt("Search: %s (Use ESC/Arrows/Enter)", e.findCallback)
	e.searchIndex.Clear()

	if query == "" {
		e.cx, e.cy = savedCx, savedCy
		e.colOffset, e.rowOffset = savedColOffset, savedRowOffset
	}
}

// MoveCursor applies one of the plain arrow keys to the primary cursor,
// clamping to the buffer's bounds.
func (e *Editor) MoveCursor(key int) {
	switch key {
	case ArrowLeft:
		if e.cx != 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = len(e.rows[e.cy].Chars)
		}
	case ArrowRight:
		if e.cy < len(e.rows) && e.cx < len(e.rows[e.cy].Chars) {
			e.cx++
		} else if e.cy < len(e.rows) && e.cx == len(e.rows[e.cy].Chars) {
			e.cy++
			e.cx = 0
		}
	case ArrowUp:
		if e.cy != 0 {
			e.cy--
		}
	case ArrowDown:
		if e.cy < len(e.rows) {
			e.cy++
		}
	}
	e.clampCursor()
}

// handleMouse applies one decoded SGR mouse report: a press places the
// primary cursor (adding a secondary cursor instead when the press
// carries Alt, per the Kitty multi-cursor gesture of spec.md §4.11); a
// wheel tick scrolls by WheelTick's ramped step count.
func (e *Editor) handleMouse(ev *MouseEvent) {
	switch ev.Button {
	case 64: // wheel up
		steps := e.WheelTick(time.Now())
		for i := 0; i < steps; i++ {
			e.rowOffset--
		}
		if e.rowOffset < 0 {
			e.rowOffset = 0
		}
		return
	case 65: // wheel down
		steps := e.WheelTick(time.Now())
		for i := 0; i < steps; i++ {
			e.rowOffset++
		}
		return
	}
	row := ev.Row - 1 + e.rowOffset
	col := ev.Col - 1 + e.colOffset
	if row < 0 {
		row = 0
	}
	if row > len(e.rows) {
		row = len(e.rows)
	}
	rowLen := 0
	if row < len(e.rows) {
		rowLen = e.rows[row].rxToCx(col)
	}
	pos := Position{Row: row, Col: rowLen}

	if ev.Motion {
		if e.selection.Active {
			e.selection.Extend(pos)
			e.cy, e.cx = pos.Row, pos.Col
		}
		return
	}
	if !ev.Pressed {
		return
	}
	if ev.Alt {
		e.AddCursor(pos)
		return
	}
	e.ClearSecondaryCursors()
	e.cy, e.cx = pos.Row, pos.Col

	switch e.selection.RegisterClick(pos, time.Now()) {
	case SelWord:
		e.SelectWord(pos.Row, pos.Col)
	case SelLine:
		e.SelectLine(pos.Row)
	default:
		e.selection.Start(pos)
	}
}

// ProcessKeypress reads one event and dispatches it — the generalized
// form of the teacher's ProcessKeypress switch, extended with selection,
// multi-cursor, undo/redo, and mouse handling.
func (e *Editor) ProcessKeypress() {
	key, mouse, err := ReadKey(os.Stdin)
	if err != nil {
		e.ShowError("%v", err)
		return
	}
	if key == 0 && mouse == nil {
		return // nothing arrived this tick
	}
	if key == MouseEventKey {
		e.handleMouse(mouse)
		e.quitTimes = QuitTimes
		return
	}

	switch key {
	case '\r':
		if len(e.secondaryCursors) > 0 {
			e.InsertNewlineAllCursors()
		} else {
			e.InsertNewline()
		}

	case withControlKey('q'):
		if e.dirty > 0 && e.quitTimes > 0 {
			e.SetStatusMessage("WARNING: File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
			e.quitTimes--
			return
		}
		e.RestoreTerminal()
		DisableMouseReporting()
		os.Stdout.WriteString(clearScreenSeq)
		os.Stdout.WriteString(cursorHomeSeq)
		os.Exit(0)

	case withControlKey('s'):
		e.Save()

	case withControlKey('z'):
		e.Undo()

	case withControlKey('y'):
		e.Redo()

	case withControlKey('c'):
		if err := e.Copy(); err != nil {
			e.ShowError("%v", err)
		}

	case withControlKey('v'):
		if err := e.Paste(); err != nil {
			e.ShowError("%v", err)
		}

	case withControlKey('a'):
		e.SelectAll()

	case withControlKey('f'):
		e.Find()

	case withControlKey('r'):
		e.Redraw()

	case withControlKey('w'):
		e.wrapEnabled = !e.wrapEnabled

	case AltCloseBracket:
		e.IndentLines([]int{e.cy})
	case AltOpenBracket:
		e.UnindentLines([]int{e.cy})

	case HomeKey:
		e.cx = 0
	case EndKey:
		if e.cy < len(e.rows) {
			e.cx = len(e.rows[e.cy].Chars)
		}

	case BACKSPACE, withControlKey('h'):
		if len(e.secondaryCursors) > 0 {
			e.DeleteBackwardAllCursors()
		} else {
			e.DeleteBackward()
		}
	case DeleteKey:
		e.DeleteForward()

	case CtrlDelete:
		e.DeleteWordForward()
	case AltBackspace:
		e.DeleteWordBackward()

	case PageUp:
		e.cy = e.rowOffset
		for i := 0; i < e.screenRows; i++ {
			e.MoveCursor(ArrowUp)
		}
	case PageDown:
		e.cy = min(e.rowOffset+e.screenRows-1, len(e.rows))
		for i := 0; i < e.screenRows; i++ {
			e.MoveCursor(ArrowDown)
		}

	case ArrowLeft, ArrowRight, ArrowUp, ArrowDown:
		if len(e.secondaryCursors) > 0 {
			e.ClearSecondaryCursors()
		}
		e.selection.Clear()
		e.MoveCursor(key)

	case ShiftArrowLeft, ShiftArrowRight, ShiftArrowUp, ShiftArrowDown:
		if !e.selection.Active {
			e.selection.Start(Position{e.cy, e.cx})
		}
		e.MoveCursor(shiftToPlainArrow(key))
		e.selection.Extend(Position{e.cy, e.cx})

	case AltArrowUp:
		if n := e.MoveLineUp(e.cy); n != e.cy {
			e.cy = n
		}
	case AltArrowDown:
		if n := e.MoveLineDown(e.cy); n != e.cy {
			e.cy = n
		}

	case CtrlArrowLeft:
		p := e.wordBackwardBoundary(Position{e.cy, e.cx})
		e.cy, e.cx = p.Row, p.Col
	case CtrlArrowRight:
		p := e.wordForwardBoundary(Position{e.cy, e.cx})
		e.cy, e.cx = p.Row, p.Col

	case AltT:
		e.centeredScroll = !e.centeredScroll
	case AltL:
		e.ToggleLineComment([]int{e.cy})
	case AltQ:
		e.ReflowParagraph(e.cy, e.screenCols)
	case AltS:
		e.UnicodeWidth = !e.UnicodeWidth
	case AltJ:
		e.JoinParagraph(e.cy)
	case AltN:
		e.cy = e.DuplicateLine(e.cy)
	case AltW:
		e.DeleteLine(e.cy)
	case AltC:
		e.ToggleBlockComment([]int{e.cy})
	case AltV:
		p := e.JoinLineWithNext(e.cy)
		e.cy, e.cx = p.Row, p.Col
	case AltM:
		if e.bracketMatch.Valid {
			target := e.bracketMatch.B
			if target == (Position{e.cy, e.cx}) {
				target = e.bracketMatch.A
			}
			e.cy, e.cx = target.Row, target.Col
		}

	case withControlKey('l'), '\x1b':
		e.selection.Clear()
		e.searchIndex.Clear()
		e.ClearSecondaryCursors()

	default:
		if key >= 0 && key < 256 && !isControlByte(byte(key)) {
			if len(e.secondaryCursors) > 0 {
				e.InsertCharAllCursors(byte(key))
			} else {
				e.InsertChar(byte(key))
			}
		}
	}

	e.clampAllCursors()
	e.quitTimes = QuitTimes
}

func isControlByte(c byte) bool {
	return c < 32 || c == 127
}

func shiftToPlainArrow(key int) int {
	switch key {
	case ShiftArrowLeft:
		return ArrowLeft
	case ShiftArrowRight:
		return ArrowRight
	case ShiftArrowUp:
		return ArrowUp
	case ShiftArrowDown:
		return ArrowDown
	}
	return key
}

// Run is the main loop: enable raw mode and mouse reporting, watch for
// terminal resizes, and alternate between drawing a frame and processing
// one input event until the process exits via Ctrl-Q.
func (e *Editor) Run() {
	if err := e.EnableRawMode(); err != nil {
		e.Die("%v", err)
	}
	defer e.RestoreTerminal()
	EnableMouseReporting()
	defer DisableMouseReporting()
	e.WatchResize()

	e.SetStatusMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find")

	for {
		e.CheckResize()
		e.RefreshScreen()
		e.ProcessKeypress()
	}
}
