package editor

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Terminal holds the state needed to restore the tty on exit.
type Terminal struct {
	originalState *term.State
}

// Die restores the terminal, prints an error to stderr, and exits — the
// last-resort error path for conditions the status bar can't usefully
// report (spec.md §7).
func (e *Editor) Die(format string, args ...any) {
	e.RestoreTerminal()
	os.Stdout.WriteString(clearScreenSeq)
	os.Stdout.WriteString(cursorHomeSeq)
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// EnableRawMode disables canonical mode, echo, signal generation, and
// input translation, per spec.md §6.
func (e *Editor) EnableRawMode() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("not running in a terminal")
	}
	var err error
	e.terminal.originalState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("enabling terminal raw mode: %w", err)
	}
	return nil
}

// RestoreTerminal undoes EnableRawMode; safe to call more than once.
func (e *Editor) RestoreTerminal() {
	if e.terminal != nil && e.terminal.originalState != nil {
		term.Restore(int(os.Stdin.Fd()), e.terminal.originalState)
		e.terminal.originalState = nil
	}
}

// getWindowSize queries the terminal size via the OS ioctl, falling back
// to the cursor-position-report trick when that fails.
func getWindowSize() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(os.Stdout.Fd()))
	if err == nil && rows > 0 && cols > 0 {
		return rows, cols, nil
	}
	return getWindowSizeByCursorReport()
}

// getWindowSizeByCursorReport moves the cursor to an unreachably large
// row/col (clamped by the terminal to the real bottom-right corner),
// asks for a cursor position report, and parses the response.
func getWindowSizeByCursorReport() (int, int, error) {
	if _, err := os.Stdout.WriteString(cursorToBottomRightSeq + cursorGetPositionSeq); err != nil {
		return 0, 0, err
	}
	return readCursorPositionReport(os.Stdin)
}

func readCursorPositionReport(r rawReader) (int, int, error) {
	var buf []byte
	for len(buf) < 32 {
		b, ok, err := readByte(r)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			break
		}
		buf = append(buf, b)
		if b == 'R' {
			break
		}
	}
	if len(buf) < 3 || buf[0] != 0x1b || buf[1] != '[' {
		return 0, 0, errors.New("invalid cursor position report")
	}
	parts := strings.Split(string(buf[2:len(buf)-1]), ";")
	if len(parts) != 2 {
		return 0, 0, errors.New("invalid cursor position report")
	}
	rows, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	cols, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// WatchResize installs a SIGWINCH handler. Per spec.md §5 the handler
// itself does no allocation, I/O, or mutation beyond setting a volatile
// flag; the main loop picks it up via CheckResize.
func (e *Editor) WatchResize() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			e.resized.Store(true)
		}
	}()
}

// CheckResize consumes a pending resize flag and redraws if one is set.
// Called once per main-loop iteration.
func (e *Editor) CheckResize() {
	if e.resized.CompareAndSwap(true, false) {
		e.Redraw()
	}
}

// Redraw re-queries the window size, reserving the bottom two rows for
// the status and message bars, and refreshes the screen.
func (e *Editor) Redraw() {
	rows, cols, err := getWindowSize()
	if err != nil {
		e.ShowError("%v", err)
		return
	}
	e.screenRows = rows - 2
	e.screenCols = cols
	e.RefreshScreen()
}
