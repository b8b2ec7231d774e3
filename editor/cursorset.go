package editor

import "slices"

// This file holds the secondary-cursor set and the Kilo-style rebasing
// machinery described in spec.md §4.5: typing, newline, and deletion
// operations apply once per cursor, and every other cursor's position is
// then recomputed analytically from its own pre-edit snapshot rather than
// by tracking the live mutation as it happens.

// allCursorPositions returns the primary cursor followed by every
// secondary, in no particular order.
func (e *Editor) allCursorPositions() []Position {
	all := make([]Position, 0, 1+len(e.secondaryCursors))
	all = append(all, Position{e.cy, e.cx})
	all = append(all, e.secondaryCursors...)
	return all
}

// setAllCursorPositions is the inverse of allCursorPositions: pos[0]
// becomes the primary, pos[1:] the new secondary set.
func (e *Editor) setAllCursorPositions(pos []Position) {
	e.cy, e.cx = pos[0].Row, pos[0].Col
	e.secondaryCursors = append(e.secondaryCursors[:0], pos[1:]...)
}

// AddCursor introduces a new secondary cursor at pos (e.g. from a
// Kitty-protocol multi-click or Alt-click), then dedups.
func (e *Editor) AddCursor(pos Position) {
	e.secondaryCursors = append(e.secondaryCursors, pos)
	e.dedupCursors()
}

// ClearSecondaryCursors drops back to a single cursor at the primary
// position (Escape, per spec.md §4.5).
func (e *Editor) ClearSecondaryCursors() {
	e.secondaryCursors = e.secondaryCursors[:0]
}

// dedupCursors drops secondaries coincident with the primary (unless
// AllowOverlap lets one through), sorts the rest into document order, and
// collapses adjacent duplicates.
func (e *Editor) dedupCursors() {
	primary := Position{e.cy, e.cx}
	kept := e.secondaryCursors[:0]
	overlapUsed := false
	for _, s := range e.secondaryCursors {
		if s == primary {
			if e.allowOverlap && !overlapUsed {
				kept = append(kept, s)
				overlapUsed = true
			}
			continue
		}
		kept = append(kept, s)
	}
	e.secondaryCursors = kept

	slices.SortFunc(e.secondaryCursors, func(a, b Position) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	if e.allowOverlap {
		return
	}
	e.secondaryCursors = slices.CompactFunc(e.secondaryCursors, func(a, b Position) bool {
		return a == b
	})
}

// clampCursor keeps the primary cursor within the buffer: cy in
// [0,len(rows)] (== len(rows) is the one-past-the-end position a fresh
// buffer or a cursor below the last row's deletion can land on), cx in
// [0, len(current row's chars)].
func (e *Editor) clampCursor() {
	if e.cy < 0 {
		e.cy = 0
	}
	if e.cy > len(e.rows) {
		e.cy = len(e.rows)
	}
	rowLen := 0
	if e.cy < len(e.rows) {
		rowLen = len(e.rows[e.cy].Chars)
	}
	if e.cx < 0 {
		e.cx = 0
	}
	if e.cx > rowLen {
		e.cx = rowLen
	}
}

// clampAllCursors clamps the primary and every secondary into the buffer.
func (e *Editor) clampAllCursors() {
	e.clampCursor()
	for i := range e.secondaryCursors {
		p := &e.secondaryCursors[i]
		if p.Row < 0 {
			p.Row = 0
		}
		if p.Row > len(e.rows) {
			p.Row = len(e.rows)
		}
		rowLen := 0
		if p.Row < len(e.rows) {
			rowLen = len(e.rows[p.Row].Chars)
		}
		if p.Col < 0 {
			p.Col = 0
		}
		if p.Col > rowLen {
			p.Col = rowLen
		}
	}
}

// --- elementary rebase formulas ---
//
// Each answers: "an edit happened at editedPos (of a known shape); where
// does pos move to?" They are pure and know nothing about undo or the
// row store — applyPerCursor folds them over every surviving cursor once
// per edit actually applied.

// rebaseAfterCharInsert: one character was inserted at editedPos.
func rebaseAfterCharInsert(pos, editedPos Position) Position {
	if pos.Row == editedPos.Row && pos.Col >= editedPos.Col {
		pos.Col++
	}
	return pos
}

// rebaseAfterCharDeleteAt: the character at (row,col) was removed.
func rebaseAfterCharDeleteAt(pos Position, row, col int) Position {
	if pos.Row == row && pos.Col > col {
		pos.Col--
	}
	return pos
}

// rebaseAfterRowInsertAbove: a blank row was spliced in at atRow, pushing
// atRow and everything below it down by one (the cursor_x==0 branch of
// newline-insert).
func rebaseAfterRowInsertAbove(pos Position, atRow int) Position {
	if pos.Row >= atRow {
		pos.Row++
	}
	return pos
}

// rebaseAfterRowSplit: row atRow was split at atCol; the tail (prefixed
// by prefixLen bytes of auto-indent) became row atRow+1.
func rebaseAfterRowSplit(pos Position, atRow, atCol, prefixLen int) Position {
	switch {
	case pos.Row < atRow:
		return pos
	case pos.Row == atRow:
		if pos.Col >= atCol {
			return Position{atRow + 1, prefixLen + (pos.Col - atCol)}
		}
		return pos
	default:
		return Position{pos.Row + 1, pos.Col}
	}
}

// rebaseAfterBackspaceRowMerge: row mergedRow was appended onto
// mergedRow-1 (its original length was prevRowLen) and then deleted —
// the row-0-column backspace case.
func rebaseAfterBackspaceRowMerge(pos Position, mergedRow, prevRowLen int) Position {
	switch {
	case pos.Row < mergedRow:
		return pos
	case pos.Row == mergedRow:
		return Position{mergedRow - 1, prevRowLen + pos.Col}
	default:
		return Position{pos.Row - 1, pos.Col}
	}
}

// rebaseAfterRowDelete: the row at atRow was removed entirely; a cursor
// that was on it lands at (atRow, 0) of whatever now occupies that index.
func rebaseAfterRowDelete(pos Position, atRow int) Position {
	switch {
	case pos.Row < atRow:
		return pos
	case pos.Row == atRow:
		return Position{atRow, 0}
	default:
		return Position{pos.Row - 1, pos.Col}
	}
}

// cursorEdit records what applyPerCursor's op closure actually did at one
// original cursor position, so rebase can be a pure function of that
// record instead of needing to re-inspect live, already-mutated rows.
// Aux is op-specific: e.g. for backspace it is -2 (no-op at (0,0)), -1
// (an in-line char delete), or the previous row's length (a row-merge).
type cursorEdit struct {
	Orig Position
	Aux  int
}

// applyPerCursor is the generic multi-cursor driver: it takes a snapshot
// of every cursor, applies op once per cursor in reverse document order
// (so editing at one cursor never invalidates the raw coordinates a
// cursor further up is still waiting to use), logs the whole batch as one
// undo group, then rebases every cursor's position from its own original
// snapshot entry by folding rebase over every edit actually applied (in
// the same reverse order) — never by reading back the live, already
// mutated position.
func (e *Editor) applyPerCursor(op func(pos Position) int, rebase func(pos Position, edit cursorEdit) Position) {
	originals := e.allCursorPositions()
	ordered := slices.Clone(originals)
	slices.SortFunc(ordered, func(a, b Position) int {
		if a.Row != b.Row {
			return b.Row - a.Row
		}
		return b.Col - a.Col
	})

	e.undo.BeginBatch()
	edits := make([]cursorEdit, len(ordered))
	for i, p := range ordered {
		edits[i] = cursorEdit{Orig: p, Aux: op(p)}
	}
	e.undo.EndBatch()

	rebased := make([]Position, len(originals))
	for i, orig := range originals {
		pos := orig
		for _, ed := range edits {
			pos = rebase(pos, ed)
		}
		rebased[i] = pos
	}
	e.setAllCursorPositions(rebased)
	e.clampAllCursors()
	e.dedupCursors()
}
