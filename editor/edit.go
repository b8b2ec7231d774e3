package editor

import (
	"bytes"
	"slices"
	"time"
)

// This file holds the logged editing operations of spec.md §4.6: the
// single-cursor primitives (char insert/delete, newline, word delete),
// the line-level operations (duplicate/delete/join/move/reflow/join
// paragraph, comment toggle, indent/unindent), and the multi-cursor
// wrappers that drive them through applyPerCursor (cursorset.go).

// --- selection-aware single-cursor primitives ---

// DeleteSelection removes the active selection's text and collapses the
// cursor to its start. No-op if there is no active selection.
func (e *Editor) DeleteSelection() {
	if !e.selection.Active {
		return
	}
	start, end := e.selection.Normalize()
	e.selection.Clear()
	if start == end {
		return
	}
	e.logDeleteText(start, end)
	e.cy, e.cx = start.Row, start.Col
}

// PasteText inserts text at the cursor, replacing the selection first if
// one is active — the editing side of the clipboard bridge (§6).
func (e *Editor) PasteText(text string) {
	if e.selection.Active {
		e.DeleteSelection()
	}
	end := e.logInsertText(Position{e.cy, e.cx}, []byte(text))
	e.cy, e.cx = end.Row, end.Col
}

func leadingSpaces(chars []byte) int {
	n := 0
	for n < len(chars) && chars[n] == ' ' {
		n++
	}
	return n
}

// autoUnindentOnBrace implements the `}` auto-unindent rule: if, after
// inserting c, the line starts with `}` once leading spaces are skipped,
// up to IndentUnit of those spaces are removed.
func (e *Editor) autoUnindentOnBrace(c byte) {
	if c != '}' {
		return
	}
	row := &e.rows[e.cy]
	trimmed := bytes.TrimLeft(row.Chars, " ")
	if len(trimmed) == 0 || trimmed[0] != '}' {
		return
	}
	remove := len(row.Chars) - len(trimmed)
	if remove > IndentUnit {
		remove = IndentUnit
	}
	if remove == 0 {
		return
	}
	pre := Position{e.cy, e.cx}
	for i := 0; i < remove; i++ {
		ch := e.rows[e.cy].Chars[0]
		e.rawDeleteCharAt(e.cy, 0)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoCharDeleteBackspace, PreCursor: pre, Target: Position{e.cy, 0}, Char: ch})
	}
	e.cx -= remove
}

// InsertChar is the single-cursor character-insert operation.
func (e *Editor) InsertChar(c byte) {
	if e.selection.Active {
		e.DeleteSelection()
	}
	if e.cy == len(e.rows) {
		pre := Position{e.cy, e.cx}
		e.rawInsertRowAt(e.cy, nil)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pre, Target: Position{e.cy, 0}})
	}
	pre := Position{e.cy, e.cx}
	e.rawInsertCharAt(e.cy, e.cx, c)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoCharInsert, PreCursor: pre, Target: Position{e.cy, e.cx}, Char: c})
	e.cx++
	e.autoUnindentOnBrace(c)
}

// InsertNewline is the single-cursor Enter-key operation.
func (e *Editor) InsertNewline() {
	if e.selection.Active {
		e.DeleteSelection()
	}
	if e.cy >= len(e.rows) {
		pre := Position{e.cy, e.cx}
		e.rawInsertRowAt(len(e.rows), nil)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pre, Target: Position{e.cy, 0}})
		e.cy++
		e.cx = 0
		return
	}

	row := &e.rows[e.cy]
	pre := Position{e.cy, e.cx}

	if e.cx == 0 {
		e.rawInsertRowAt(e.cy, nil)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pre, Target: Position{e.cy, 0}})
		e.cy++
		e.cx = 0
		return
	}

	baseIndent := leadingSpaces(row.Chars)
	extra := 0
	before := bytes.TrimRight(row.Chars[:e.cx], " \t")
	if len(before) > 0 && before[len(before)-1] == '{' {
		extra = IndentUnit
	}
	indent := bytes.Repeat([]byte{' '}, baseIndent+extra)

	e.rawSplitRowAt(e.cy, e.cx, indent)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoRowSplit, PreCursor: pre, Target: Position{e.cy, e.cx}, Payload: slices.Clone(indent)})
	e.cy++
	e.cx = len(indent)
}

// DeleteBackward is the single-cursor backspace operation.
func (e *Editor) DeleteBackward() {
	if e.selection.Active {
		e.DeleteSelection()
		return
	}
	e.deleteBackwardCore(UndoCharDeleteBackspace)
}

func (e *Editor) deleteBackwardCore(kind UndoKind) {
	if e.cy == 0 && e.cx == 0 {
		return
	}
	if e.cy >= len(e.rows) {
		e.cy = len(e.rows) - 1
		e.cx = len(e.rows[e.cy].Chars)
	}
	if e.cx == 0 {
		pre := Position{e.cy, e.cx}
		prevLen := len(e.rows[e.cy-1].Chars)
		e.rawJoinRowWithNext(e.cy-1, 0)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowJoin, PreCursor: pre, Target: Position{e.cy - 1, prevLen}})
		e.cy--
		e.cx = prevLen
		return
	}
	pre := Position{e.cy, e.cx}
	c := e.rows[e.cy].Chars[e.cx-1]
	e.rawDeleteCharAt(e.cy, e.cx-1)
	e.undo.Log(time.Now(), undoEntry{Kind: kind, PreCursor: pre, Target: Position{e.cy, e.cx - 1}, Char: c})
	e.cx--
}

func (e *Editor) moveCursorRightRaw() {
	if e.cy >= len(e.rows) {
		return
	}
	row := &e.rows[e.cy]
	if e.cx < len(row.Chars) {
		e.cx++
	} else if e.cy+1 < len(e.rows) {
		e.cy++
		e.cx = 0
	}
}

// DeleteForward is implemented, per spec.md §4.6, as right-arrow then
// backspace.
func (e *Editor) DeleteForward() {
	if e.selection.Active {
		e.DeleteSelection()
		return
	}
	if e.cy >= len(e.rows) {
		return
	}
	row := &e.rows[e.cy]
	if e.cx >= len(row.Chars) && e.cy+1 >= len(e.rows) {
		return
	}
	e.moveCursorRightRaw()
	e.deleteBackwardCore(UndoCharDeleteForward)
}

// --- position stepping across row boundaries, for word deletion ---

func (e *Editor) leftOf(pos Position) Position {
	if pos.Col > 0 {
		return Position{pos.Row, pos.Col - 1}
	}
	if pos.Row > 0 {
		return Position{pos.Row - 1, len(e.rows[pos.Row-1].Chars)}
	}
	return pos
}

func (e *Editor) rightOf(pos Position) Position {
	if pos.Row >= len(e.rows) {
		return pos
	}
	if pos.Col < len(e.rows[pos.Row].Chars) {
		return Position{pos.Row, pos.Col + 1}
	}
	if pos.Row+1 < len(e.rows) {
		return Position{pos.Row + 1, 0}
	}
	return pos
}

func (e *Editor) charBefore(pos Position) (byte, bool) {
	l := e.leftOf(pos)
	if l == pos {
		return 0, false
	}
	if l.Col >= len(e.rows[l.Row].Chars) {
		return '\n', true
	}
	return e.rows[l.Row].Chars[l.Col], true
}

func (e *Editor) charAt(pos Position) (byte, bool) {
	if pos.Row >= len(e.rows) {
		return 0, false
	}
	if pos.Col < len(e.rows[pos.Row].Chars) {
		return e.rows[pos.Row].Chars[pos.Col], true
	}
	if pos.Row+1 < len(e.rows) {
		return '\n', true
	}
	return 0, false
}

func (e *Editor) wordBackwardBoundary(from Position) Position {
	pos := from
	for {
		c, ok := e.charBefore(pos)
		if !ok || isWordChar(c) {
			break
		}
		pos = e.leftOf(pos)
	}
	for {
		c, ok := e.charBefore(pos)
		if !ok || !isWordChar(c) {
			break
		}
		pos = e.leftOf(pos)
	}
	return pos
}

func (e *Editor) wordForwardBoundary(from Position) Position {
	pos := from
	for {
		c, ok := e.charAt(pos)
		if !ok || !isWordChar(c) {
			break
		}
		pos = e.rightOf(pos)
	}
	for {
		c, ok := e.charAt(pos)
		if !ok || isWordChar(c) {
			break
		}
		pos = e.rightOf(pos)
	}
	return pos
}

// DeleteWordBackward deletes from the cursor back to the previous
// word-start boundary.
func (e *Editor) DeleteWordBackward() {
	if e.selection.Active {
		e.DeleteSelection()
		return
	}
	end := Position{e.cy, e.cx}
	start := e.wordBackwardBoundary(end)
	if start == end {
		return
	}
	e.logDeleteText(start, end)
	e.cy, e.cx = start.Row, start.Col
}

// DeleteWordForward deletes from the cursor forward past the rest of the
// current word and the non-word characters after it, stopping at the
// start of the next word.
func (e *Editor) DeleteWordForward() {
	if e.selection.Active {
		e.DeleteSelection()
		return
	}
	start := Position{e.cy, e.cx}
	end := e.wordForwardBoundary(start)
	if start == end {
		return
	}
	e.logDeleteText(start, end)
}

// --- line operations (spec.md §4.6) ---

func (e *Editor) duplicateLineAt(row int) {
	payload := slices.Clone(e.rows[row].Chars)
	pre := Position{row, 0}
	e.rawInsertRowAt(row+1, payload)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pre, Target: Position{row + 1, 0}, Payload: payload})
}

// DuplicateLine inserts a copy of row below it and returns the row the
// cursor should move to.
func (e *Editor) DuplicateLine(row int) int {
	e.duplicateLineAt(row)
	return row + 1
}

func (e *Editor) deleteLineAt(row int) {
	payload := slices.Clone(e.rows[row].Chars)
	pre := Position{row, 0}
	e.rawDeleteRowAt(row)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoRowDelete, PreCursor: pre, Target: Position{row, 0}, RowPayload: payload})
}

// DeleteLine removes row, clamping the cursor onto whatever now occupies
// that index.
func (e *Editor) DeleteLine(row int) {
	e.deleteLineAt(row)
	e.clampCursor()
}

// joinLineWithNext appends row+1 to row with a single space separator,
// unless row already ends or row+1 already begins with a space, and
// returns the join-point position.
func (e *Editor) joinLineWithNext(row int) Position {
	if row+1 >= len(e.rows) {
		return Position{row, len(e.rows[row].Chars)}
	}
	cur := e.rows[row].Chars
	next := e.rows[row+1].Chars
	sep := []byte(" ")
	if (len(cur) > 0 && cur[len(cur)-1] == ' ') || (len(next) > 0 && next[0] == ' ') {
		sep = nil
	}
	atCol := len(cur)
	e.rawJoinInsertingSep(row, sep)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoRowJoin, PreCursor: Position{row, atCol}, Target: Position{row, atCol}, Payload: sep})
	return Position{row, atCol + len(sep)}
}

// JoinLineWithNext is the public Join-with-next entry point.
func (e *Editor) JoinLineWithNext(row int) Position {
	return e.joinLineWithNext(row)
}

// replaceRowContent atomically swaps row's content for newChars, logged
// as a delete-then-insert pair — the generic primitive swapRows and the
// paragraph operations build on.
func (e *Editor) replaceRowContent(row int, newChars []byte) {
	old := slices.Clone(e.rows[row].Chars)
	start := Position{row, 0}
	end := Position{row, len(old)}
	e.rawDeleteRange(start, end)
	e.undo.Log(time.Now(), undoEntry{Kind: UndoSelectionDelete, PreCursor: start, Target: start, EndPos: end, Payload: old})
	e.logInsertText(start, newChars)
}

func (e *Editor) swapRows(a, b int) {
	if a == b {
		return
	}
	if a > b {
		a, b = b, a
	}
	chA := slices.Clone(e.rows[a].Chars)
	chB := slices.Clone(e.rows[b].Chars)
	e.undo.BeginBatch()
	e.replaceRowContent(a, chB)
	e.replaceRowContent(b, chA)
	e.undo.EndBatch()
}

// MoveLineUp swaps row with its predecessor and returns the row the
// cursor should follow to.
func (e *Editor) MoveLineUp(row int) int {
	if row <= 0 {
		return row
	}
	e.swapRows(row-1, row)
	return row - 1
}

// MoveLineDown swaps row with its successor and returns the row the
// cursor should follow to.
func (e *Editor) MoveLineDown(row int) int {
	if row+1 >= len(e.rows) {
		return row
	}
	e.swapRows(row, row+1)
	return row + 1
}

// --- paragraph reflow / join (Alt+Q, Alt+J) ---

func paragraphBounds(rows []Row, at int) (start, end int) {
	start, end = at, at
	for start > 0 && len(bytes.TrimSpace(rows[start-1].Chars)) > 0 {
		start--
	}
	for end+1 < len(rows) && len(bytes.TrimSpace(rows[end+1].Chars)) > 0 {
		end++
	}
	return
}

// linePrefix extracts the leading whitespace plus an optional "// " or
// "* " marker from chars — the prefix preserved across reflow/join.
func linePrefix(chars []byte) []byte {
	i := leadingSpaces(chars)
	for i < len(chars) && chars[i] == '\t' {
		i++
	}
	rest := chars[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("// ")):
		return chars[:i+3]
	case bytes.HasPrefix(rest, []byte("//")):
		return chars[:i+2]
	case bytes.HasPrefix(rest, []byte("* ")):
		return chars[:i+2]
	case bytes.HasPrefix(rest, []byte("*")):
		return chars[:i+1]
	default:
		return chars[:i]
	}
}

func paragraphWords(rows []Row, start, end int, prefix []byte) [][]byte {
	var words [][]byte
	for r := start; r <= end; r++ {
		content := rows[r].Chars
		if r == start {
			content = content[len(prefix):]
		} else {
			content = bytes.TrimLeft(content, " \t")
		}
		words = append(words, bytes.Fields(content)...)
	}
	return words
}

// JoinParagraph concatenates the paragraph around at into a single row.
func (e *Editor) JoinParagraph(at int) {
	start, end := paragraphBounds(e.rows, at)
	if start == end {
		return
	}
	prefix := linePrefix(e.rows[start].Chars)
	words := paragraphWords(e.rows, start, end, prefix)
	joined := append(slices.Clone(prefix), bytes.Join(words, []byte(" "))...)

	e.undo.BeginBatch()
	for r := end; r > start; r-- {
		e.deleteLineAt(r)
	}
	e.replaceRowContent(start, joined)
	e.undo.EndBatch()
}

// ReflowParagraph re-wraps the paragraph around at to wrapColumn,
// preserving its per-first-line prefix on every emitted row.
func (e *Editor) ReflowParagraph(at, wrapColumn int) {
	start, end := paragraphBounds(e.rows, at)
	if start > end {
		return
	}
	prefix := linePrefix(e.rows[start].Chars)
	words := paragraphWords(e.rows, start, end, prefix)
	if len(words) == 0 {
		return
	}

	limit := wrapColumn - len(prefix)
	if limit < 1 {
		limit = 1
	}

	var lines [][]byte
	var cur []byte
	for _, w := range words {
		if len(cur) == 0 {
			cur = slices.Clone(w)
			continue
		}
		if len(cur)+1+len(w) > limit {
			lines = append(lines, cur)
			cur = slices.Clone(w)
			continue
		}
		cur = append(append(cur, ' '), w...)
	}
	lines = append(lines, cur)

	e.undo.BeginBatch()
	for r := end; r > start; r-- {
		e.deleteLineAt(r)
	}
	e.replaceRowContent(start, append(slices.Clone(prefix), lines[0]...))
	for i := 1; i < len(lines); i++ {
		pre := Position{start + i - 1, 0}
		e.rawInsertRowAt(start+i, nil)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pre, Target: Position{start + i, 0}})
		e.replaceRowContent(start+i, append(slices.Clone(prefix), lines[i]...))
	}
	e.undo.EndBatch()
}

// --- comment toggle (spec.md §4.6) ---

func lineIsCommented(chars []byte, marker string) (commented bool, firstNonWS int) {
	firstNonWS = leadingSpaces(chars)
	for firstNonWS < len(chars) && chars[firstNonWS] == '\t' {
		firstNonWS++
	}
	return bytes.HasPrefix(chars[firstNonWS:], []byte(marker)), firstNonWS
}

func (e *Editor) toggleLineCommentAt(row int, marker string, comment bool) {
	chars := e.rows[row].Chars
	commented, firstNonWS := lineIsCommented(chars, marker)
	if comment && !commented {
		payload := append([]byte(marker), ' ')
		e.logInsertText(Position{row, firstNonWS}, payload)
		return
	}
	if !comment && commented {
		end := firstNonWS + len(marker)
		if end < len(chars) && chars[end] == ' ' {
			end++
		}
		e.logDeleteText(Position{row, firstNonWS}, Position{row, end})
	}
}

// ToggleLineComment comments or uncomments every row in rows uniformly:
// if all are already commented, it uncomments; otherwise it comments
// every row not yet commented.
func (e *Editor) ToggleLineComment(rows []int) {
	if e.syntax == nil || e.syntax.LineComment == "" || len(rows) == 0 {
		return
	}
	marker := e.syntax.LineComment
	allCommented := true
	for _, r := range rows {
		if commented, _ := lineIsCommented(e.rows[r].Chars, marker); !commented {
			allCommented = false
			break
		}
	}
	comment := !allCommented
	e.undo.BeginBatch()
	for _, r := range rows {
		e.toggleLineCommentAt(r, marker, comment)
	}
	e.undo.EndBatch()
}

func trimmedBounds(chars []byte) (first, last int) {
	first = 0
	for first < len(chars) && (chars[first] == ' ' || chars[first] == '\t') {
		first++
	}
	last = len(chars)
	for last > first && (chars[last-1] == ' ' || chars[last-1] == '\t') {
		last--
	}
	return
}

func blockIsCommented(chars []byte, open, closeMarker string) bool {
	first, last := trimmedBounds(chars)
	body := chars[first:last]
	return len(body) >= len(open)+len(closeMarker) &&
		bytes.HasPrefix(body, []byte(open)) && bytes.HasSuffix(body, []byte(closeMarker))
}

func (e *Editor) toggleBlockCommentAt(row int, open, closeMarker string, comment bool) {
	chars := e.rows[row].Chars
	already := blockIsCommented(chars, open, closeMarker)

	if comment && !already {
		firstNonWS, lastNonWS := trimmedBounds(chars)
		if lastNonWS <= firstNonWS {
			return
		}
		e.logInsertText(Position{row, lastNonWS}, append([]byte(" "), []byte(closeMarker)...))
		e.logInsertText(Position{row, firstNonWS}, append([]byte(open), ' '))
		return
	}
	if !comment && already {
		firstNonWS, lastNonWS := trimmedBounds(chars)
		sufStart := lastNonWS - len(closeMarker)
		if sufStart > firstNonWS && chars[sufStart-1] == ' ' {
			sufStart--
		}
		e.logDeleteText(Position{row, sufStart}, Position{row, lastNonWS})

		chars = e.rows[row].Chars
		preEnd := firstNonWS + len(open)
		if preEnd < len(chars) && chars[preEnd] == ' ' {
			preEnd++
		}
		e.logDeleteText(Position{row, firstNonWS}, Position{row, preEnd})
	}
}

// ToggleBlockComment wraps/unwraps every row in rows with the language's
// block-comment delimiters, uniformly, by the same all-commented test as
// ToggleLineComment.
func (e *Editor) ToggleBlockComment(rows []int) {
	if e.syntax == nil || e.syntax.BlockCommentOn == "" || e.syntax.BlockCommentOff == "" || len(rows) == 0 {
		return
	}
	open, closeMarker := e.syntax.BlockCommentOn, e.syntax.BlockCommentOff
	allCommented := true
	for _, r := range rows {
		if !blockIsCommented(e.rows[r].Chars, open, closeMarker) {
			allCommented = false
			break
		}
	}
	comment := !allCommented
	e.undo.BeginBatch()
	for _, r := range rows {
		e.toggleBlockCommentAt(r, open, closeMarker, comment)
	}
	e.undo.EndBatch()
}

// --- indent / unindent ---

func (e *Editor) indentRow(row int) {
	e.logInsertText(Position{row, 0}, bytes.Repeat([]byte{' '}, IndentUnit))
}

func (e *Editor) unindentRow(row int) {
	chars := e.rows[row].Chars
	n := 0
	for n < len(chars) && n < IndentUnit && chars[n] == ' ' {
		n++
	}
	if n == 0 {
		return
	}
	e.logDeleteText(Position{row, 0}, Position{row, n})
}

// IndentLines adds one indent unit of leading spaces to every row.
func (e *Editor) IndentLines(rows []int) {
	e.undo.BeginBatch()
	for _, r := range rows {
		e.indentRow(r)
	}
	e.undo.EndBatch()
}

// UnindentLines removes up to one indent unit of leading spaces from
// every row.
func (e *Editor) UnindentLines(rows []int) {
	e.undo.BeginBatch()
	for _, r := range rows {
		e.unindentRow(r)
	}
	e.undo.EndBatch()
}

// --- multi-cursor wrappers (spec.md §4.5) ---

// InsertCharAllCursors inserts c at the primary cursor and, if any are
// active, at every secondary cursor too, rebasing per spec.md §4.5.
func (e *Editor) InsertCharAllCursors(c byte) {
	if len(e.secondaryCursors) == 0 {
		e.InsertChar(c)
		return
	}
	e.applyPerCursor(func(pos Position) int {
		if pos.Row >= len(e.rows) {
			return 0
		}
		e.rawInsertCharAt(pos.Row, pos.Col, c)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoCharInsert, PreCursor: pos, Target: pos, Char: c})
		return 0
	}, func(pos Position, ed cursorEdit) Position {
		return rebaseAfterCharInsert(pos, ed.Orig)
	})
}

// InsertNewlineAllCursors inserts a newline at every cursor.
func (e *Editor) InsertNewlineAllCursors() {
	if len(e.secondaryCursors) == 0 {
		e.InsertNewline()
		return
	}
	e.applyPerCursor(func(pos Position) int {
		if pos.Row >= len(e.rows) {
			e.rawInsertRowAt(len(e.rows), nil)
			e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pos, Target: Position{pos.Row, 0}})
			return 0
		}
		row := &e.rows[pos.Row]
		if pos.Col == 0 {
			e.rawInsertRowAt(pos.Row, nil)
			e.undo.Log(time.Now(), undoEntry{Kind: UndoRowInsert, PreCursor: pos, Target: Position{pos.Row, 0}})
			return 0
		}
		baseIndent := leadingSpaces(row.Chars)
		extra := 0
		before := bytes.TrimRight(row.Chars[:pos.Col], " \t")
		if len(before) > 0 && before[len(before)-1] == '{' {
			extra = IndentUnit
		}
		indent := bytes.Repeat([]byte{' '}, baseIndent+extra)
		e.rawSplitRowAt(pos.Row, pos.Col, indent)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoRowSplit, PreCursor: pos, Target: pos, Payload: slices.Clone(indent)})
		return len(indent)
	}, func(pos Position, ed cursorEdit) Position {
		if ed.Orig.Col == 0 {
			return rebaseAfterRowInsertAbove(pos, ed.Orig.Row)
		}
		return rebaseAfterRowSplit(pos, ed.Orig.Row, ed.Orig.Col, ed.Aux)
	})
}

// DeleteBackwardAllCursors applies backspace at every cursor.
func (e *Editor) DeleteBackwardAllCursors() {
	if len(e.secondaryCursors) == 0 {
		e.DeleteBackward()
		return
	}
	e.applyPerCursor(func(pos Position) int {
		if pos.Row == 0 && pos.Col == 0 {
			return -2
		}
		if pos.Col == 0 {
			if pos.Row == 0 {
				return -2
			}
			prevLen := len(e.rows[pos.Row-1].Chars)
			e.rawJoinRowWithNext(pos.Row-1, 0)
			e.undo.Log(time.Now(), undoEntry{Kind: UndoRowJoin, PreCursor: pos, Target: Position{pos.Row - 1, prevLen}})
			return prevLen
		}
		c := e.rows[pos.Row].Chars[pos.Col-1]
		e.rawDeleteCharAt(pos.Row, pos.Col-1)
		e.undo.Log(time.Now(), undoEntry{Kind: UndoCharDeleteBackspace, PreCursor: pos, Target: Position{pos.Row, pos.Col - 1}, Char: c})
		return -1
	}, func(pos Position, ed cursorEdit) Position {
		switch {
		case ed.Aux == -2:
			return pos
		case ed.Aux == -1:
			return rebaseAfterCharDeleteAt(pos, ed.Orig.Row, ed.Orig.Col-1)
		default:
			return rebaseAfterBackspaceRowMerge(pos, ed.Orig.Row, ed.Aux)
		}
	})
}
