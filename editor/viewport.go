package editor

import "time"

// This file implements the viewport/scroll model of spec.md §4.10,
// generalizing the teacher's Scroll (which only ever kept a single
// logical row per screen line) to also account for soft-wrap: a logical
// row can occupy more than one visual row, so row_offset and cursor
// visibility are tracked in visual-row units whenever wrap is on.

// visualRowOf returns how many visual rows precede row r (r itself when
// wrap is off, since every logical row is then exactly one visual row).
func (e *Editor) visualRowOf(r int) int {
	if !e.wrapEnabled {
		return r
	}
	total := 0
	for i := 0; i < r && i < len(e.rows); i++ {
		total += e.rows[i].wrapSegmentCount(true, e.screenCols)
	}
	return total
}

// cursorVisualRow returns the visual row the primary cursor currently
// occupies, accounting for which wrap segment of its logical row cx
// falls into.
func (e *Editor) cursorVisualRow() int {
	base := e.visualRowOf(e.cy)
	if !e.wrapEnabled || e.cy >= len(e.rows) {
		return base
	}
	row := &e.rows[e.cy]
	row.computeWrapBreaks(e.screenCols)
	rx := row.cxToRx(e.cx)
	seg := 0
	for _, b := range row.WrapBreaks {
		if rx < b {
			break
		}
		seg++
	}
	return base + seg
}

// totalVisualRows is the visual-row extent of the whole buffer.
func (e *Editor) totalVisualRows() int {
	if !e.wrapEnabled {
		return len(e.rows)
	}
	total := 0
	for i := range e.rows {
		total += e.rows[i].wrapSegmentCount(true, e.screenCols)
	}
	return total
}

// ScrollToCursor applies the active scroll mode (edge-triggered or
// centered) to bring the cursor's visual row into view, and the
// horizontal scroll when wrap is off.
func (e *Editor) ScrollToCursor() {
	if e.centeredScroll {
		e.scrollCentered()
	} else {
		e.scrollEdgeTriggered()
	}
	e.scrollHorizontal()
}

// scrollEdgeTriggered: row_offset snaps to the cursor's visual row only
// when it has scrolled off the top or bottom of the screen.
func (e *Editor) scrollEdgeTriggered() {
	vr := e.cursorVisualRow()
	if vr < e.rowOffset {
		e.rowOffset = vr
	}
	if vr >= e.rowOffset+e.screenRows {
		e.rowOffset = vr - e.screenRows + 1
	}
	if e.rowOffset < 0 {
		e.rowOffset = 0
	}
}

// scrollCentered keeps the cursor's visual row vertically centered.
func (e *Editor) scrollCentered() {
	vr := e.cursorVisualRow()
	e.rowOffset = vr - e.screenRows/2
	maxOffset := e.totalVisualRows() - e.screenRows + 1
	if maxOffset < 0 {
		maxOffset = 0
	}
	if e.rowOffset < 0 {
		e.rowOffset = 0
	}
	if e.rowOffset > maxOffset {
		e.rowOffset = maxOffset
	}
}

// scrollHorizontal keeps the cursor's render column within the visible
// window — only meaningful when soft-wrap is off (a wrapped row never
// extends past screenCols).
func (e *Editor) scrollHorizontal() {
	if e.wrapEnabled || e.cy >= len(e.rows) {
		return
	}
	rx := e.rows[e.cy].cxToRx(e.cx)
	if rx < e.colOffset {
		e.colOffset = rx
	}
	if rx >= e.colOffset+e.screenCols {
		e.colOffset = rx - e.screenCols + 1
	}
	if e.colOffset < 0 {
		e.colOffset = 0
	}
}

// Tactile scroll-speed multiplier (spec.md §4.10): consecutive wheel
// ticks less than 80ms apart ramp the multiplier up (capped at 15); a
// gap over 150ms resets it to 1.
const (
	scrollTickRamp  = 80 * time.Millisecond
	scrollTickReset = 150 * time.Millisecond
	maxScrollSpeed  = 15
)

// WheelTick registers one mouse-wheel tick at now and returns the number
// of arrow-movement steps to dispatch for it.
func (e *Editor) WheelTick(now time.Time) int {
	if !e.lastWheelTime.IsZero() {
		gap := now.Sub(e.lastWheelTime)
		switch {
		case gap < scrollTickRamp:
			if e.scrollSpeed < maxScrollSpeed {
				e.scrollSpeed++
			}
		case gap > scrollTickReset:
			e.scrollSpeed = 1
		}
	} else {
		e.scrollSpeed = 1
	}
	e.lastWheelTime = now
	return e.scrollSpeed
}
