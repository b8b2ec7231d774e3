package editor

import "testing"

func newTestEditor() *Editor {
	e := &Editor{terminal: &Terminal{}}
	e.screenRows = 20
	e.screenCols = 80
	return e
}

func TestEditorDeleteCharSingle(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("hello"))

	e.rawDeleteCharAt(0, 1) // delete 'e' from "hello"

	if got := string(e.rows[0].Chars); got != "hllo" {
		t.Errorf("expected %q, got %q", "hllo", got)
	}
	if len(e.rows[0].Chars) != 4 {
		t.Errorf("expected chars length 4, got %d", len(e.rows[0].Chars))
	}
}

func TestEditorDeleteCharMultiple(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("abc"))

	e.rawDeleteCharAt(0, 0) // "abc" -> "bc"
	e.rawDeleteCharAt(0, 0) // "bc" -> "c"

	if got := string(e.rows[0].Chars); got != "c" {
		t.Errorf("expected %q, got %q", "c", got)
	}
}

func TestInsertCharAppendsAtCursor(t *testing.T) {
	e := newTestEditor()
	e.InsertChar('h')
	e.InsertChar('i')

	if got := string(e.rows[0].Chars); got != "hi" {
		t.Errorf("expected %q, got %q", "hi", got)
	}
	if e.cx != 2 {
		t.Errorf("expected cx 2, got %d", e.cx)
	}
}

func TestInsertNewlineSplitsRow(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("hello world"))
	e.cy, e.cx = 0, 5

	e.InsertNewline()

	if len(e.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(e.rows))
	}
	if got := string(e.rows[0].Chars); got != "hello" {
		t.Errorf("expected first row %q, got %q", "hello", got)
	}
	if got := string(e.rows[1].Chars); got != " world" {
		t.Errorf("expected second row %q, got %q", " world", got)
	}
	if e.cy != 1 || e.cx != 0 {
		t.Errorf("expected cursor at (1,0), got (%d,%d)", e.cy, e.cx)
	}
}

func TestDeleteBackwardJoinsRows(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("foo"))
	e.rawInsertRowAt(1, []byte("bar"))
	e.cy, e.cx = 1, 0

	e.DeleteBackward()

	if len(e.rows) != 1 {
		t.Fatalf("expected rows joined into 1, got %d", len(e.rows))
	}
	if got := string(e.rows[0].Chars); got != "foobar" {
		t.Errorf("expected %q, got %q", "foobar", got)
	}
	if e.cy != 0 || e.cx != 3 {
		t.Errorf("expected cursor at (0,3), got (%d,%d)", e.cy, e.cx)
	}
}

func TestUndoRestoresStateAfterInsertChar(t *testing.T) {
	e := newTestEditor()
	e.InsertChar('a')
	e.InsertChar('b')

	// Both inserts land in the same undo group: the first InsertChar also
	// logs the row-insert that created row 0, which forces a new group,
	// and the second InsertChar follows within UndoGroupGap.
	e.Undo()
	if len(e.rows) != 0 {
		t.Errorf("after undo expected no rows, got %d", len(e.rows))
	}

	e.Redo()
	if got := string(e.rows[0].Chars); got != "ab" {
		t.Errorf("after redo expected %q, got %q", "ab", got)
	}
}

func TestRowsToStringJoinsWithNewline(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("line one"))
	e.rawInsertRowAt(1, []byte("line two"))

	got := string(e.RowsToString())
	want := "line one" + getLineEnding() + "line two" + getLineEnding()
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMoveCursorClampsAtRowBounds(t *testing.T) {
	e := newTestEditor()
	e.rawInsertRowAt(0, []byte("hi"))
	e.cy, e.cx = 0, 0

	e.MoveCursor(ArrowLeft)
	if e.cx != 0 {
		t.Errorf("expected cx to stay at 0, got %d", e.cx)
	}

	e.cx = 2
	e.MoveCursor(ArrowRight)
	if e.cy != 1 || e.cx != 0 {
		t.Errorf("expected cursor to move to next row, got (%d,%d)", e.cy, e.cx)
	}
}
