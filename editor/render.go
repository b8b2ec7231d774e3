package editor

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// This file generalizes the teacher's DrawRows/DrawStatusBar/
// DrawMessageBar/RefreshScreen from a flat 256-color, single-cursor,
// no-wrap renderer into one that understands soft-wrapped visual lines,
// 24-bit color, the transient search/bracket-match highlight overlays,
// selection reverse video, and Kitty multi-cursor escapes.

type appendBuffer struct {
	b []byte
}

func (ab *appendBuffer) append(s string) {
	ab.b = append(ab.b, s...)
}

// graphicsFor returns the escape sequence to switch into hl's style: a
// 24-bit foreground color for every non-normal class (syntax.go's
// syntaxToGraphics), reverse video layered on top for search/bracket
// matches.
func graphicsFor(hl HighlightClass) string {
	if hl == HLNormal {
		return ""
	}
	c, reverse := syntaxToGraphics(hl)
	seq := fmtRGBForeground(byte(c[0]), byte(c[1]), byte(c[2]))
	if reverse {
		seq += attrsReverseSeq
	}
	return seq
}

// visualLine is one rendered screen line: a logical row and the
// [RenderFrom,RenderTo) render-column span of it that line shows.
type visualLine struct {
	Row               int
	RenderFrom, RenderTo int
}

// visualLineAt returns the idx-th visual line across the whole buffer
// (0-based). With wrap off this is just row idx in full; with wrap on,
// a logical row spans as many visual lines as wrapSegmentCount reports.
func (e *Editor) visualLineAt(idx int) (visualLine, bool) {
	if idx < 0 {
		return visualLine{}, false
	}
	if !e.wrapEnabled {
		if idx >= len(e.rows) {
			return visualLine{}, false
		}
		return visualLine{Row: idx, RenderFrom: 0, RenderTo: len(e.rows[idx].Render)}, true
	}
	remaining := idx
	for r := range e.rows {
		row := &e.rows[r]
		row.computeWrapBreaks(e.screenCols)
		segCount := len(row.WrapBreaks) + 1
		if remaining < segCount {
			from := 0
			if remaining > 0 {
				from = row.WrapBreaks[remaining-1]
			}
			to := len(row.Render)
			if remaining < len(row.WrapBreaks) {
				to = row.WrapBreaks[remaining]
			}
			return visualLine{Row: r, RenderFrom: from, RenderTo: to}, true
		}
		remaining -= segCount
	}
	return visualLine{}, false
}

// selectionRenderSpan returns the [from,to) render-column span of row
// that lies within the active selection, if any.
func (e *Editor) selectionRenderSpan(row int) (from, to int, ok bool) {
	if !e.selection.Active {
		return 0, 0, false
	}
	start, end := e.selection.Normalize()
	if row < start.Row || row > end.Row {
		return 0, 0, false
	}
	r := &e.rows[row]
	from = 0
	if row == start.Row {
		from = e.cxToRx(r, start.Col)
	}
	to = len(r.Render)
	if row == end.Row {
		to = e.cxToRx(r, end.Col)
	}
	return from, to, true
}

func (e *Editor) drawWelcome(abuf *appendBuffer) {
	welcome := "caret editor -- version " + CaretVersion
	welcomeLen := min(len(welcome), e.screenCols)
	padding := (e.screenCols - welcomeLen) / 2
	if padding > 0 {
		abuf.append("~")
		padding--
	}
	for i := 0; i < padding; i++ {
		abuf.append(" ")
	}
	abuf.append(welcome[:welcomeLen])
}

func (e *Editor) drawVisualLine(abuf *appendBuffer, vl visualLine) {
	row := &e.rows[vl.Row]
	from, to := vl.RenderFrom, vl.RenderTo
	if !e.wrapEnabled {
		from = min(e.colOffset, len(row.Render))
		to = min(len(row.Render), from+e.screenCols)
	}
	selFrom, selTo, hasSel := e.selectionRenderSpan(vl.Row)

	current := ""
	for i := from; i < to; i++ {
		style := graphicsFor(row.Highlight[i])
		if hasSel && i >= selFrom && i < selTo {
			style = attrsReverseSeq
		}
		if style != current {
			abuf.append(attrsResetSeq)
			if style != "" {
				abuf.append(style)
			}
			current = style
		}
		abuf.append(string(row.Render[i]))
	}
	abuf.append(attrsResetSeq)
}

// DrawRows renders every screen line: buffer content (possibly
// soft-wrapped), a welcome banner when the buffer is empty, or a `~`
// past-end filler line, matching the teacher's DrawRows layout.
func (e *Editor) DrawRows(abuf *appendBuffer) {
	for y := 0; y < e.screenRows; y++ {
		vl, ok := e.visualLineAt(y + e.rowOffset)
		switch {
		case !ok && len(e.rows) == 0 && y == e.screenRows/3:
			e.drawWelcome(abuf)
		case !ok:
			abuf.append("~")
		default:
			e.drawVisualLine(abuf, vl)
		}
		abuf.append(clearLineSeq)
		abuf.append("\r\n")
	}
}

// DrawStatusBar renders the inverted-video filename/line-count bar.
func (e *Editor) DrawStatusBar(abuf *appendBuffer) {
	abuf.append(attrsReverseSeq)

	filename := "[No Name]"
	if e.filename != "" {
		filename = e.filename
	}
	dirtyFlag := ""
	if e.dirty > 0 {
		dirtyFlag = "(modified)"
	}
	status := fmt.Sprintf("%.20s - %d lines %s", filename, len(e.rows), dirtyFlag)
	statusLen := min(len(status), e.screenCols)

	filetype := "no ft"
	if e.syntax != nil {
		filetype = e.syntax.Filetype
	}
	rstatus := fmt.Sprintf("%s | %d/%d", filetype, e.cy+1, len(e.rows))
	rstatusLen := len(rstatus)

	abuf.append(status[:statusLen])
	for statusLen < e.screenCols {
		if e.screenCols-statusLen == rstatusLen {
			abuf.append(rstatus)
			break
		}
		abuf.append(" ")
		statusLen++
	}
	abuf.append(attrsResetSeq)
	abuf.append("\r\n")
}

// DrawMessageBar renders the transient status message, fading after 5s.
func (e *Editor) DrawMessageBar(abuf *appendBuffer) {
	abuf.append(clearLineSeq)
	if time.Since(e.statusMessageTime) < 5*time.Second {
		messageLen := min(len(e.statusMessage), e.screenCols)
		abuf.append(e.statusMessage[:messageLen])
	}
}

// hlSpot is one Highlight-slice entry paintBracketMatch overwrote, kept
// so RefreshScreen can restore it right after this frame is drawn.
type hlSpot struct {
	row, col int
	prev     HighlightClass
}

func (e *Editor) renderColFor(pos Position) int {
	if pos.Row < 0 || pos.Row >= len(e.rows) {
		return -1
	}
	return e.cxToRx(&e.rows[pos.Row], pos.Col)
}

// paintBracketMatch overlays HLBracketMatch on both partner positions of
// the current bracket match, if any, for this one frame.
func (e *Editor) paintBracketMatch() []hlSpot {
	if !e.bracketMatch.Valid {
		return nil
	}
	var spots []hlSpot
	for _, pos := range []Position{e.bracketMatch.A, e.bracketMatch.B} {
		rc := e.renderColFor(pos)
		if pos.Row < 0 || pos.Row >= len(e.rows) {
			continue
		}
		row := &e.rows[pos.Row]
		if rc < 0 || rc >= len(row.Highlight) {
			continue
		}
		spots = append(spots, hlSpot{pos.Row, rc, row.Highlight[rc]})
		row.Highlight[rc] = HLBracketMatch
	}
	return spots
}

func (e *Editor) restoreHLSpots(spots []hlSpot) {
	for _, s := range spots {
		e.rows[s.row].Highlight[s.col] = s.prev
	}
}

// kittyCursorEscapes emits one Kitty multi-cursor positioning escape per
// secondary cursor, or the clear sequence when there are none.
func (e *Editor) kittyCursorEscapes() string {
	if len(e.secondaryCursors) == 0 {
		return kittyCursorClear
	}
	var b strings.Builder
	for _, pos := range e.secondaryCursors {
		col := 1
		if pos.Row < len(e.rows) {
			col = e.cxToRx(&e.rows[pos.Row], pos.Col) + 1
		}
		screenRow := e.visualRowOf(pos.Row) - e.rowOffset + 1
		fmt.Fprintf(&b, kittyCursorFormat, screenRow, col)
	}
	return b.String()
}

// RefreshScreen scrolls the viewport to the cursor, recomputes the
// bracket match, draws one consolidated frame, and restores the
// transient bracket-match highlight before returning.
func (e *Editor) RefreshScreen() {
	e.ScrollToCursor()
	e.RefreshBracketMatch()

	var abuf appendBuffer
	abuf.append(cursorHideSeq)
	abuf.append(cursorHomeSeq)

	spots := e.paintBracketMatch()
	e.DrawRows(&abuf)
	e.DrawStatusBar(&abuf)
	e.DrawMessageBar(&abuf)
	e.restoreHLSpots(spots)

	cursorScreenRow := e.cursorVisualRow() - e.rowOffset + 1
	cursorScreenCol := 1
	if e.cy < len(e.rows) {
		cursorScreenCol = e.cxToRx(&e.rows[e.cy], e.cx) + 1
		if !e.wrapEnabled {
			cursorScreenCol -= e.colOffset
		}
	}
	abuf.append(fmt.Sprintf(cursorPositionFormat, cursorScreenRow, cursorScreenCol))
	abuf.append(e.kittyCursorEscapes())
	abuf.append(cursorShowSeq)

	os.Stdout.Write(abuf.b)
}

// EnableMouseReporting/DisableMouseReporting toggle SGR mouse reporting
// (modes 1002 and 1006) on entry/exit.
func EnableMouseReporting() {
	os.Stdout.WriteString(mouseEnableSeq)
}

func DisableMouseReporting() {
	os.Stdout.WriteString(mouseDisableSeq)
}
