package editor

import "fmt"

// ANSI/VT escape sequences, migrated from the root package's ansi.go and
// extended with 24-bit color, SGR mouse reporting, and the Kitty
// multi-cursor protocol (spec.md §6).

const (
	clearScreenSeq = "\x1b[2J" // clear entire screen
	clearLineSeq   = "\x1b[K"  // clear line from cursor to end
	cursorHomeSeq  = "\x1b[H"  // move cursor to top-left (1,1)

	cursorHideSeq = "\x1b[?25l"
	cursorShowSeq = "\x1b[?25h"

	cursorToBottomRightSeq = "\x1b[999;999H"
	cursorGetPositionSeq   = "\x1b[6n"

	cursorPositionFormat = "\x1b[%d;%dH"

	attrsResetSeq      = "\x1b[m"
	attrsReverseSeq    = "\x1b[7m"
	attrsUnderlineSeq  = "\x1b[4m"
	attrsNoUnderline   = "\x1b[24m"
	attrsStrikeSeq     = "\x1b[9m"
	attrsNoStrikeSeq   = "\x1b[29m"

	fgRGBFormat = "\x1b[38;2;%d;%d;%dm"
	bgRGBFormat = "\x1b[48;2;%d;%d;%dm"

	// SGR mouse reporting: mode 1002 reports button-drag events, mode
	// 1006 switches the report encoding to the unambiguous SGR form
	// readSGRMouse in input.go parses.
	mouseEnableSeq  = "\x1b[?1002h\x1b[?1006h"
	mouseDisableSeq = "\x1b[?1006l\x1b[?1002l"

	// Kitty's multi-cursor extension: one escape per secondary cursor
	// positions a steady-block cursor glyph there; the clear form resets
	// to a single default-shape cursor.
	kittyCursorFormat = "\x1b[>29;2:%d:%d q"
	kittyCursorClear  = "\x1b[>0;4 q"
)

// fmtRGBForeground/fmtRGBBackground build a 24-bit color escape for one
// syntax highlight color.
func fmtRGBForeground(r, g, b byte) string {
	return fmt.Sprintf(fgRGBFormat, r, g, b)
}

func fmtRGBBackground(r, g, b byte) string {
	return fmt.Sprintf(bgRGBFormat, r, g, b)
}
