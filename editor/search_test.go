package editor

import "testing"

func TestSimpleSearchFindsOverlappingStarts(t *testing.T) {
	e := newBracketTestEditor("aaa")

	matches := simpleSearch(e.rows, []byte("aa"))
	if len(matches) != 2 {
		t.Fatalf("expected 2 overlapping-start matches, got %d", len(matches))
	}
	if matches[0].RxCol != 0 || matches[1].RxCol != 1 {
		t.Errorf("expected matches at columns 0 and 1, got %d and %d", matches[0].RxCol, matches[1].RxCol)
	}
}

func TestSearchIndexNextWrapsAround(t *testing.T) {
	e := newBracketTestEditor("foo bar foo")
	var idx SearchIndex
	idx.Search(e.rows, "foo")

	if idx.Empty() {
		t.Fatal("expected 2 matches for \"foo\"")
	}

	m1, ok := idx.Next()
	if !ok || m1.RxCol != 0 {
		t.Errorf("expected first match at col 0, got %v ok=%v", m1, ok)
	}
	m2, ok := idx.Next()
	if !ok || m2.RxCol != 8 {
		t.Errorf("expected second match at col 8, got %v ok=%v", m2, ok)
	}
	m3, ok := idx.Next()
	if !ok || m3.RxCol != 0 {
		t.Errorf("expected wrap-around back to col 0, got %v ok=%v", m3, ok)
	}
}

func TestSearchIndexPrevWrapsAround(t *testing.T) {
	e := newBracketTestEditor("foo bar foo")
	var idx SearchIndex
	idx.Search(e.rows, "foo")

	m, ok := idx.Prev()
	if !ok || m.RxCol != 8 {
		t.Errorf("expected Prev with nothing selected to land on the last match (col 8), got %v ok=%v", m, ok)
	}
}

func TestSearchIndexClearEmptiesResults(t *testing.T) {
	e := newBracketTestEditor("foo")
	var idx SearchIndex
	idx.Search(e.rows, "foo")
	idx.Clear()

	if !idx.Empty() {
		t.Error("expected Clear to empty the match set")
	}
	if _, ok := idx.Current(); ok {
		t.Error("expected Current to report no selection after Clear")
	}
}

func TestPaintAndRestoreSearchMatchHighlight(t *testing.T) {
	e := newBracketTestEditor("foo bar")
	m := SearchMatch{Row: 0, RxCol: 4, Length: 3}

	before := append([]HighlightClass(nil), e.rows[0].Highlight[4:7]...)
	saved := paintSearchMatch(e.rows, m)
	for i := 4; i < 7; i++ {
		if e.rows[0].Highlight[i] != HLSearchMatch {
			t.Errorf("expected col %d painted HLSearchMatch, got %v", i, e.rows[0].Highlight[i])
		}
	}
	restoreSearchMatchHighlight(e.rows, m, saved)
	for i, want := range before {
		if e.rows[0].Highlight[4+i] != want {
			t.Errorf("expected col %d restored to %v, got %v", 4+i, want, e.rows[0].Highlight[4+i])
		}
	}
}
