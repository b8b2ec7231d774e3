package editor

import "testing"

func newBracketTestEditor(lines ...string) *Editor {
	e := newTestEditor()
	for i, l := range lines {
		e.rawInsertRowAt(i, []byte(l))
	}
	return e
}

func TestMatchBracketsExactPosition(t *testing.T) {
	e := newBracketTestEditor("foo(bar)")

	m := e.MatchBrackets(0, 3) // '('
	if !m.Valid {
		t.Fatal("expected a match on the opening paren")
	}
	if m.A != (Position{0, 3}) || m.B != (Position{0, 7}) {
		t.Errorf("expected A=(0,3) B=(0,7), got A=%v B=%v", m.A, m.B)
	}
}

func TestMatchBracketsClosingResolvesBackward(t *testing.T) {
	e := newBracketTestEditor("foo(bar)")

	m := e.MatchBrackets(0, 7) // ')'
	if !m.Valid {
		t.Fatal("expected a match on the closing paren")
	}
	if m.A != (Position{0, 3}) || m.B != (Position{0, 7}) {
		t.Errorf("expected A=(0,3) B=(0,7), got A=%v B=%v", m.A, m.B)
	}
}

func TestMatchBracketsEnclosingScan(t *testing.T) {
	e := newBracketTestEditor("foo(bar)")

	m := e.MatchBrackets(0, 5) // inside, on 'a'
	if !m.Valid {
		t.Fatal("expected a match from inside the pair")
	}
	if m.A != (Position{0, 3}) || m.B != (Position{0, 7}) {
		t.Errorf("expected A=(0,3) B=(0,7), got A=%v B=%v", m.A, m.B)
	}
}

func TestMatchBracketsNestedDepth(t *testing.T) {
	e := newBracketTestEditor("f(g(x), y)")

	m := e.MatchBrackets(0, 1) // outer '('
	if !m.Valid {
		t.Fatal("expected a match on the outer paren")
	}
	if m.B.Col != 9 {
		t.Errorf("expected outer close at col 9, got %d", m.B.Col)
	}
}

func TestMatchBracketsNoMatchOutsideAnyBracket(t *testing.T) {
	e := newBracketTestEditor("no brackets here")

	m := e.MatchBrackets(0, 2)
	if m.Valid {
		t.Errorf("expected no match, got %v", m)
	}
}

func TestMatchBracketsIgnoresBracketInString(t *testing.T) {
	e := newBracketTestEditor(`"(" (ok)`)
	e.syntax = SelectSyntax("test.go")

	m := e.MatchBrackets(0, 7) // the real ')' at the end
	if !m.Valid {
		t.Fatal("expected a match skipping over the stray '(' inside the string")
	}
	if m.A != (Position{0, 4}) || m.B != (Position{0, 7}) {
		t.Errorf("expected A=(0,4) B=(0,7), got A=%v B=%v", m.A, m.B)
	}
}
