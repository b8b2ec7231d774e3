package editor

import "slices"

// Row holds one line of the buffer: the raw chars the user typed, the
// derived render form (tabs expanded), the per-render-character highlight
// classification, the open-comment continuation bit, and cached soft-wrap
// break positions. All four of render/highlight/wrapBreaks are pure
// functions of chars (and, for highlight/openComment, of the previous
// row's openComment bit) and are regenerated whenever chars changes.
type Row struct {
	idx         int
	Chars       []byte
	Render      []byte
	Highlight   []HighlightClass
	OpenComment bool
	Dirty       bool // unused by the core; exposed for a UI layer
	WrapBreaks  []int
	wrapWidth   int // the availableWidth WrapBreaks was computed for; -1 if unset
}

func newRow(idx int, chars []byte) *Row {
	r := &Row{idx: idx, Chars: slices.Clone(chars), wrapWidth: -1}
	return r
}

// updateRender regenerates Render from Chars, expanding tabs to the next
// multiple of TabStop.
func (r *Row) updateRender() {
	tabs := 0
	for _, c := range r.Chars {
		if c == '\t' {
			tabs++
		}
	}
	render := make([]byte, 0, len(r.Chars)+tabs*(TabStop-1))
	col := 0
	for _, c := range r.Chars {
		if c == '\t' {
			render = append(render, ' ')
			col++
			for col%TabStop != 0 {
				render = append(render, ' ')
				col++
			}
		} else {
			render = append(render, c)
			col++
		}
	}
	r.Render = render
	r.wrapWidth = -1 // invalidate cached wrap breaks, chars changed
}

// cxToRx converts a cursor column (index into Chars) to a render column.
func (r *Row) cxToRx(cx int) int {
	rx := 0
	for j := 0; j < cx && j < len(r.Chars); j++ {
		if r.Chars[j] == '\t' {
			rx += TabStop - (rx % TabStop)
		} else {
			rx++
		}
	}
	return rx
}

// rxToCx is the inverse of cxToRx: the largest cx whose render column is
// <= rx.
func (r *Row) rxToCx(rx int) int {
	curRx := 0
	cx := 0
	for ; cx < len(r.Chars); cx++ {
		if r.Chars[cx] == '\t' {
			curRx += (TabStop - 1) - (curRx % TabStop)
		}
		curRx++
		if curRx > rx {
			return cx
		}
	}
	return cx
}

// computeWrapBreaks greedily segments Render into spans of at most
// availableWidth render columns, preferring to break at the most recent
// whitespace boundary, falling back to a hard break at the width limit.
// Cached on the row; recomputed only when availableWidth changes or Chars
// changed since the last call.
func (r *Row) computeWrapBreaks(availableWidth int) {
	if r.wrapWidth == availableWidth && r.WrapBreaks != nil {
		return
	}
	r.wrapWidth = availableWidth
	r.WrapBreaks = r.WrapBreaks[:0]
	if availableWidth <= 0 || len(r.Render) <= availableWidth {
		return
	}
	segStart := 0
	lastWhitespace := -1
	for i := 0; i < len(r.Render); i++ {
		if r.Render[i] == ' ' || r.Render[i] == '\t' {
			lastWhitespace = i
		}
		if i-segStart+1 > availableWidth {
			var breakAt int
			if lastWhitespace > segStart {
				breakAt = lastWhitespace + 1
			} else {
				breakAt = segStart + availableWidth
			}
			r.WrapBreaks = append(r.WrapBreaks, breakAt)
			segStart = breakAt
			lastWhitespace = -1
			i = breakAt - 1
		}
	}
}

// wrapSegmentCount is how many visual rows this logical row occupies.
func (r *Row) wrapSegmentCount(wrapEnabled bool, availableWidth int) int {
	if !wrapEnabled {
		return 1
	}
	r.computeWrapBreaks(availableWidth)
	return len(r.WrapBreaks) + 1
}

/*** row-store primitives — no undo logging, no cursor rebasing; callers
  in edit.go/undo.go are responsible for both ***/

// insertRowAt splices a new row into rows at index at, renumbering the
// idx of every row from at+1 on.
func insertRowAt(rows []Row, at int, chars []byte) []Row {
	newRow := Row{idx: at, wrapWidth: -1}
	newRow.Chars = slices.Clone(chars)
	rows = slices.Insert(rows, at, newRow)
	for j := at + 1; j < len(rows); j++ {
		rows[j].idx = j
	}
	return rows
}

// deleteRowAt removes the row at index at and returns its chars (the undo
// payload needed to restore it).
func deleteRowAt(rows []Row, at int) ([]Row, []byte) {
	payload := slices.Clone(rows[at].Chars)
	rows = slices.Delete(rows, at, at+1)
	for j := at; j < len(rows); j++ {
		rows[j].idx = j
	}
	return rows, payload
}

func insertCharAt(row *Row, at int, c byte) {
	if at < 0 || at > len(row.Chars) {
		at = len(row.Chars)
	}
	row.Chars = slices.Insert(row.Chars, at, c)
}

// deleteCharAt removes the byte at index at and returns it.
func deleteCharAt(row *Row, at int) byte {
	c := row.Chars[at]
	row.Chars = slices.Delete(row.Chars, at, at+1)
	return c
}

func appendBytes(row *Row, s []byte) {
	row.Chars = append(row.Chars, s...)
}
