package editor

import "time"

// UndoKind tags an undo entry with the operation that produced it.
type UndoKind int

const (
	UndoCharInsert UndoKind = iota
	UndoCharDeleteBackspace
	UndoCharDeleteForward
	UndoRowInsert
	UndoRowDelete
	UndoRowSplit
	UndoSelectionDelete
	UndoPaste
	UndoRowJoin
)

// forcesNewGroup reports whether this kind always starts a fresh undo
// group, per spec.md §4.7.
func (k UndoKind) forcesNewGroup() bool {
	switch k {
	case UndoRowInsert, UndoRowDelete, UndoRowSplit, UndoSelectionDelete, UndoPaste, UndoRowJoin:
		return true
	default:
		return false
	}
}

// undoEntry is one reversible elementary edit.
type undoEntry struct {
	Kind UndoKind

	// PreCursor is the cursor position before the edit, restored on undo.
	PreCursor Position
	// Target is (row_idx, char_pos) the edit applied at.
	Target Position
	// Char is the character datum for char-insert/char-delete kinds.
	Char byte
	// RowPayload is the full row content for row-delete (to restore it).
	RowPayload []byte
	// EndPos + Payload cover selection-delete/paste: the deleted/pasted
	// range's end position and its multi-line text (joined by '\n').
	// Payload is reused for row-split (the auto-indent prefix prepended
	// to the new row) and row-join (the separator spliced between rows).
	EndPos  Position
	Payload []byte
}

type undoGroup struct {
	id      int
	entries []undoEntry
}

// UndoLog is the grouped, bounded, append-only journal of inverse
// operations described in spec.md §3/§4.7.
type UndoLog struct {
	groups   []undoGroup
	pos      int // number of groups currently "applied"; undo decrements, redo increments
	nextID   int
	lastTime time.Time
	// batchForced is set by BeginBatch and consumed by the first Log call
	// of the batch, so a multi-cursor batch forces exactly one new group
	// no matter how many entries it logs.
	batchForced   bool
	inBatch       bool
	lastLogIsZero bool
}

// BeginBatch marks the start of a multi-cursor edit: the whole batch will
// land in one freshly-started undo group, atomically.
func (u *UndoLog) BeginBatch() {
	u.inBatch = true
	u.batchForced = true
}

// EndBatch closes the batch. Entries logged after this are no longer
// forced into the batch's group.
func (u *UndoLog) EndBatch() {
	u.inBatch = false
	u.batchForced = false
}

// Log appends one undo entry, applying the grouping/truncation rules of
// spec.md §4.7: entries within 500ms of the previous Log call join the
// same group; row-insert/row-delete/row-split/selection-delete/paste
// always force a new group; a multi-cursor batch forces one new group for
// its first entry only. Logging while pos is below the top of the log
// truncates every group above pos first (redo-truncation).
func (u *UndoLog) Log(now time.Time, e undoEntry) {
	if u.pos < len(u.groups) {
		u.groups = u.groups[:u.pos]
	}

	// Inside a batch, only the first entry (batchForced) may open a group:
	// a batch of row-kind entries (line-join's text splice + row delete,
	// say) must land in the one group BeginBatch started, not split into
	// several just because those kinds normally force their own group.
	startNew := len(u.groups) == 0 ||
		u.batchForced ||
		(!u.inBatch && e.Kind.forcesNewGroup()) ||
		(!u.inBatch && !u.lastLogIsZero && now.Sub(u.lastTime) > UndoGroupGap)

	u.batchForced = false
	u.lastTime = now
	u.lastLogIsZero = false

	if startNew {
		u.nextID++
		u.groups = append(u.groups, undoGroup{id: u.nextID})
		u.pos = len(u.groups)
	}
	g := &u.groups[len(u.groups)-1]
	g.entries = append(g.entries, e)

	u.trim()
}

// trim enforces the bounded log size: when the total entry count would
// exceed UndoLimit, the oldest quarter of *groups* is dropped (groups are
// never split).
func (u *UndoLog) trim() {
	total := 0
	for _, g := range u.groups {
		total += len(g.entries)
	}
	if total <= UndoLimit {
		return
	}
	dropGroups := len(u.groups) / 4
	if dropGroups == 0 {
		return
	}
	u.groups = u.groups[dropGroups:]
	u.pos -= dropGroups
	if u.pos < 0 {
		u.pos = 0
	}
}

// CanUndo/CanRedo expose whether there is anything to peel/replay.
func (u *UndoLog) CanUndo() bool { return u.pos > 0 }
func (u *UndoLog) CanRedo() bool { return u.pos < len(u.groups) }

// topGroupEntries returns the entries of the group undo would peel next,
// in application (forward) order.
func (u *UndoLog) topGroupEntries() []undoEntry {
	if !u.CanUndo() {
		return nil
	}
	return u.groups[u.pos-1].entries
}

func (u *UndoLog) nextGroupEntries() []undoEntry {
	if !u.CanRedo() {
		return nil
	}
	return u.groups[u.pos].entries
}

// Undo peels the current top group, applying the inverse of each entry in
// reverse order, and moves the cursor back to the group's first pre-edit
// position.
func (e *Editor) Undo() {
	if !e.undo.CanUndo() {
		e.SetStatusMessage("Nothing to undo")
		return
	}
	entries := e.undo.topGroupEntries()
	var restoreCursor Position
	for i := len(entries) - 1; i >= 0; i-- {
		restoreCursor = e.applyInverse(entries[i])
	}
	e.undo.pos--
	e.cy, e.cx = restoreCursor.Row, restoreCursor.Col
	e.clampCursor()
}

// Redo replays the next group forward.
func (e *Editor) Redo() {
	if !e.undo.CanRedo() {
		e.SetStatusMessage("Nothing to redo")
		return
	}
	entries := e.undo.nextGroupEntries()
	for _, entry := range entries {
		e.applyForward(entry)
	}
	e.undo.pos++
}

// applyInverse undoes one entry's effect and returns the cursor position
// it should restore to (its PreCursor).
func (e *Editor) applyInverse(en undoEntry) Position {
	switch en.Kind {
	case UndoCharInsert:
		e.rawDeleteCharAt(en.Target.Row, en.Target.Col)
	case UndoCharDeleteBackspace, UndoCharDeleteForward:
		e.rawInsertCharAt(en.Target.Row, en.Target.Col, en.Char)
	case UndoRowInsert:
		e.rawDeleteRowAt(en.Target.Row)
	case UndoRowDelete:
		e.rawInsertRowAt(en.Target.Row, en.RowPayload)
	case UndoRowSplit:
		e.rawJoinRowWithNext(en.Target.Row, len(en.Payload))
	case UndoSelectionDelete:
		e.rawInsertTextAt(en.Target, en.Payload)
	case UndoPaste:
		e.rawDeleteRange(en.Target, en.EndPos)
	case UndoRowJoin:
		e.rawSplitRowAtSkipping(en.Target.Row, en.Target.Col, len(en.Payload))
	}
	return en.PreCursor
}

// applyForward redoes one entry's effect.
func (e *Editor) applyForward(en undoEntry) {
	switch en.Kind {
	case UndoCharInsert:
		e.rawInsertCharAt(en.Target.Row, en.Target.Col, en.Char)
		e.cy, e.cx = en.Target.Row, en.Target.Col+1
	case UndoCharDeleteBackspace:
		e.rawDeleteCharAt(en.Target.Row, en.Target.Col)
		e.cy, e.cx = en.Target.Row, en.Target.Col
	case UndoCharDeleteForward:
		e.rawDeleteCharAt(en.Target.Row, en.Target.Col)
		e.cy, e.cx = en.Target.Row, en.Target.Col
	case UndoRowInsert:
		e.rawInsertRowAt(en.Target.Row, en.Payload)
		e.cy, e.cx = en.Target.Row+1, 0
	case UndoRowDelete:
		e.rawDeleteRowAt(en.Target.Row)
		e.cy, e.cx = en.Target.Row, en.Target.Col
	case UndoRowSplit:
		e.rawSplitRowAt(en.Target.Row, en.Target.Col, en.Payload)
		e.cy, e.cx = en.Target.Row+1, len(en.Payload)
	case UndoSelectionDelete:
		e.rawDeleteRange(en.Target, en.EndPos)
		e.cy, e.cx = en.Target.Row, en.Target.Col
	case UndoPaste:
		e.rawInsertTextAt(en.Target, en.Payload)
		e.cy, e.cx = en.EndPos.Row, en.EndPos.Col
	case UndoRowJoin:
		e.rawJoinInsertingSep(en.Target.Row, en.Payload)
		e.cy, e.cx = en.Target.Row, en.Target.Col+len(en.Payload)
	}
}
