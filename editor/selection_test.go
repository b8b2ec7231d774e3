package editor

import (
	"testing"
	"time"
)

func baseTime() time.Time {
	return time.Unix(1700000000, 0)
}

func TestSelectWordExpandsToWordBoundaries(t *testing.T) {
	e := newBracketTestEditor("hello, world")

	e.SelectWord(0, 8) // inside "world"
	start, end := e.selection.Normalize()
	if start != (Position{0, 7}) || end != (Position{0, 12}) {
		t.Errorf("expected word span (0,7)-(0,12), got (%v)-(%v)", start, end)
	}
}

func TestSelectLineCoversRowContentOnly(t *testing.T) {
	e := newBracketTestEditor("first", "second")

	e.SelectLine(0)
	start, end := e.selection.Normalize()
	if start != (Position{0, 0}) || end != (Position{0, 5}) {
		t.Errorf("expected (0,0)-(0,5), got (%v)-(%v)", start, end)
	}
}

func TestSelectLineLastRowEndsAtContentLength(t *testing.T) {
	e := newBracketTestEditor("only")

	e.SelectLine(0)
	start, end := e.selection.Normalize()
	if start != (Position{0, 0}) || end != (Position{0, 4}) {
		t.Errorf("expected (0,0)-(0,4), got (%v)-(%v)", start, end)
	}
}

func TestGetSelectedTextSingleRow(t *testing.T) {
	e := newBracketTestEditor("hello world")
	e.selection.Start(Position{0, 0})
	e.selection.Extend(Position{0, 5})

	if got := e.GetSelectedText(); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestGetSelectedTextMultiRow(t *testing.T) {
	e := newBracketTestEditor("foo", "bar")
	e.selection.Start(Position{0, 1})
	e.selection.Extend(Position{1, 2})

	if got := e.GetSelectedText(); got != "oo\nba" {
		t.Errorf("expected %q, got %q", "oo\nba", got)
	}
}

func TestRegisterClickSequenceProducesWordThenLine(t *testing.T) {
	var s Selection
	t0 := baseTime()
	pos := Position{0, 4}

	if mode := s.RegisterClick(pos, t0); mode != SelChar {
		t.Errorf("expected first click to be SelChar, got %v", mode)
	}
	if mode := s.RegisterClick(pos, t0.Add(100*time.Millisecond)); mode != SelWord {
		t.Errorf("expected second quick click to be SelWord, got %v", mode)
	}
	if mode := s.RegisterClick(pos, t0.Add(200*time.Millisecond)); mode != SelLine {
		t.Errorf("expected third quick click to be SelLine, got %v", mode)
	}
}

func TestRegisterClickResetsAfterMoving(t *testing.T) {
	var s Selection
	t0 := baseTime()

	s.RegisterClick(Position{0, 0}, t0)
	mode := s.RegisterClick(Position{5, 0}, t0.Add(50*time.Millisecond))
	if mode != SelChar {
		t.Errorf("expected a click far away to reset to SelChar, got %v", mode)
	}
}
