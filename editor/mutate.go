package editor

import (
	"bytes"
	"time"

	"slices"
)

// This file holds the row-store "raw" mutation primitives: they touch
// rows/render/highlight and the dirty counter but never write to the
// undo log and never touch the cursor set. edit.go's logged operations
// call these and append an undo entry; undo.go's Undo/Redo call these
// directly to apply inverse/forward edits.

// updateRowAndPropagate regenerates row idx's render form and then
// recomputes highlight starting at idx, continuing to idx+1, idx+2, ...
// only while OpenComment keeps changing relative to each row's previously
// cached value (spec.md §9: iterative worklist instead of recursion).
// Forcing the first step regardless of "changed" is what makes this
// correct both for in-place edits (idx's own chars changed) and for row
// insert/delete (idx's identity shifted, so its cached OpenComment is
// stale by construction).
func (e *Editor) updateRowAndPropagate(idx int) {
	if idx < 0 || idx >= len(e.rows) {
		return
	}
	e.rows[idx].updateRender()
	e.recomputeHighlightFrom(idx)
}

func (e *Editor) recomputeHighlightFrom(start int) {
	if start < 0 || start >= len(e.rows) {
		return
	}
	i := start
	for i < len(e.rows) {
		prevOpen := false
		if i > 0 {
			prevOpen = e.rows[i-1].OpenComment
		}
		oldOpen := e.rows[i].OpenComment
		e.rows[i].updateHighlight(prevOpen, e.syntax)
		if i != start && e.rows[i].OpenComment == oldOpen {
			break
		}
		i++
	}
}

func (e *Editor) rawInsertRowAt(at int, chars []byte) {
	e.rows = insertRowAt(e.rows, at, chars)
	e.updateRowAndPropagate(at)
	e.dirty++
}

func (e *Editor) rawDeleteRowAt(at int) []byte {
	var payload []byte
	e.rows, payload = deleteRowAt(e.rows, at)
	if at < len(e.rows) {
		e.updateRowAndPropagate(at)
	}
	e.dirty++
	return payload
}

func (e *Editor) rawInsertCharAt(row, col int, c byte) {
	insertCharAt(&e.rows[row], col, c)
	e.updateRowAndPropagate(row)
	e.dirty++
}

func (e *Editor) rawDeleteCharAt(row, col int) byte {
	c := deleteCharAt(&e.rows[row], col)
	e.updateRowAndPropagate(row)
	e.dirty++
	return c
}

func (e *Editor) rawAppendBytes(row int, s []byte) {
	appendBytes(&e.rows[row], s)
	e.updateRowAndPropagate(row)
	e.dirty++
}

// rawSplitRowAt splits row at col: a new row is spliced in at row+1
// holding prefix+chars[col:] (prefix is the auto-indent text, if any, the
// newline operation prepends to the new row), and row is truncated to
// chars[:col].
func (e *Editor) rawSplitRowAt(row, col int, prefix []byte) {
	tail := slices.Clone(e.rows[row].Chars[col:])
	e.rows[row].Chars = slices.Clone(e.rows[row].Chars[:col])
	e.updateRowAndPropagate(row)
	newContent := append(slices.Clone(prefix), tail...)
	e.rows = insertRowAt(e.rows, row+1, newContent)
	e.updateRowAndPropagate(row + 1)
	e.dirty++
}

// rawJoinRowWithNext merges row+1 into row, first stripping prefixLen
// bytes from row+1 (the auto-indent rawSplitRowAt added, which must not
// reappear in the restored content), and deletes row+1. The inverse of
// rawSplitRowAt.
func (e *Editor) rawJoinRowWithNext(row, prefixLen int) {
	next := e.rows[row+1].Chars
	if prefixLen > len(next) {
		prefixLen = len(next)
	}
	next = next[prefixLen:]
	e.rows[row].Chars = append(e.rows[row].Chars, next...)
	e.rows, _ = deleteRowAt(e.rows, row+1)
	e.updateRowAndPropagate(row)
	e.dirty++
}

// rawJoinInsertingSep merges row+1 into row, splicing sep between them —
// the forward direction of a logged "join with next" edit (spec.md §4.6).
// Unlike rawJoinRowWithNext it inserts rather than strips, and its exact
// inverse is rawSplitRowAtSkipping.
func (e *Editor) rawJoinInsertingSep(row int, sep []byte) {
	next := e.rows[row+1].Chars
	merged := append(slices.Clone(e.rows[row].Chars), sep...)
	merged = append(merged, next...)
	e.rows[row].Chars = merged
	e.rows, _ = deleteRowAt(e.rows, row+1)
	e.updateRowAndPropagate(row)
	e.dirty++
}

// rawSplitRowAtSkipping splits row at col, discarding the next skipLen
// bytes of the tail before making it the new row+1 — the inverse of
// rawJoinInsertingSep (skipLen strips back out exactly what sep added).
func (e *Editor) rawSplitRowAtSkipping(row, col, skipLen int) {
	tail := e.rows[row].Chars[col:]
	if skipLen > len(tail) {
		skipLen = len(tail)
	}
	tail = slices.Clone(tail[skipLen:])
	e.rows[row].Chars = slices.Clone(e.rows[row].Chars[:col])
	e.updateRowAndPropagate(row)
	e.rows = insertRowAt(e.rows, row+1, tail)
	e.updateRowAndPropagate(row + 1)
	e.dirty++
}

// rawInsertTextAt inserts payload (possibly containing '\n') at pos. Used
// as the inverse of selection-delete/paste, and to perform paste itself.
func (e *Editor) rawInsertTextAt(pos Position, payload []byte) {
	lines := bytes.Split(payload, []byte("\n"))
	if len(lines) == 1 {
		row := &e.rows[pos.Row]
		row.Chars = slices.Insert(row.Chars, pos.Col, lines[0]...)
		e.updateRowAndPropagate(pos.Row)
		e.dirty++
		return
	}

	row := &e.rows[pos.Row]
	tail := slices.Clone(row.Chars[pos.Col:])
	row.Chars = append(slices.Clone(row.Chars[:pos.Col]), lines[0]...)
	e.updateRowAndPropagate(pos.Row)

	insertAt := pos.Row + 1
	for i := 1; i < len(lines)-1; i++ {
		e.rows = insertRowAt(e.rows, insertAt, lines[i])
		e.updateRowAndPropagate(insertAt)
		insertAt++
	}
	lastLine := append(slices.Clone(lines[len(lines)-1]), tail...)
	e.rows = insertRowAt(e.rows, insertAt, lastLine)
	e.updateRowAndPropagate(insertAt)
	e.dirty++
}

// textRange extracts the text in [start,end), joined by '\n' across rows —
// the payload logDeleteText records before removing it.
func (e *Editor) textRange(start, end Position) []byte {
	if start == end {
		return nil
	}
	if start.Row == end.Row {
		return slices.Clone(e.rows[start.Row].Chars[start.Col:end.Col])
	}
	var b []byte
	b = append(b, e.rows[start.Row].Chars[start.Col:]...)
	for r := start.Row + 1; r < end.Row; r++ {
		b = append(b, '\n')
		b = append(b, e.rows[r].Chars...)
	}
	b = append(b, '\n')
	b = append(b, e.rows[end.Row].Chars[:end.Col]...)
	return b
}

// endPositionAfterInsert returns the position immediately after payload
// once inserted at pos — the split point between payload and whatever
// followed pos before the insert.
func endPositionAfterInsert(pos Position, payload []byte) Position {
	lines := bytes.Split(payload, []byte("\n"))
	if len(lines) == 1 {
		return Position{pos.Row, pos.Col + len(lines[0])}
	}
	return Position{pos.Row + len(lines) - 1, len(lines[len(lines)-1])}
}

// logInsertText is the generic atomic "insert text" undo primitive: the
// operations that splice payload in at pos (paste, indent, comment-marker
// insertion, row-content replacement) funnel through here, and each call
// is invertible by a single logDeleteText-shaped entry.
func (e *Editor) logInsertText(pos Position, payload []byte) Position {
	end := endPositionAfterInsert(pos, payload)
	e.rawInsertTextAt(pos, payload)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoPaste, PreCursor: pos, Target: pos, EndPos: end, Payload: slices.Clone(payload)})
	return end
}

// logDeleteText is the generic atomic "delete text range" undo primitive.
func (e *Editor) logDeleteText(start, end Position) []byte {
	payload := e.textRange(start, end)
	e.rawDeleteRange(start, end)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoSelectionDelete, PreCursor: start, Target: start, EndPos: end, Payload: payload})
	return payload
}

// rawDeleteRange deletes [start,end), collapsing the endpoint rows into
// one — the forward direction of selection-delete/paste.
func (e *Editor) rawDeleteRange(start, end Position) {
	if start.Row == end.Row {
		row := &e.rows[start.Row]
		row.Chars = append(slices.Clone(row.Chars[:start.Col]), row.Chars[end.Col:]...)
		e.updateRowAndPropagate(start.Row)
		e.dirty++
		return
	}
	head := e.rows[start.Row].Chars[:start.Col]
	tail := e.rows[end.Row].Chars[end.Col:]
	merged := append(slices.Clone(head), tail...)
	e.rows[start.Row].Chars = merged
	for r := end.Row; r > start.Row; r-- {
		e.rows, _ = deleteRowAt(e.rows, r)
	}
	e.updateRowAndPropagate(start.Row)
	e.dirty++
}
