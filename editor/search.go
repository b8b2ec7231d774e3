package editor

import "bytes"

// This file generalizes the teacher's FindCallback/Find into a
// standalone search index (spec.md §4.9): a transient list of match
// positions, independent of the prompt UI, that survives only until the
// next edit.

// SearchMatch is one occurrence: (row, render-column offset, length in
// render columns).
type SearchMatch struct {
	Row    int
	RxCol  int
	Length int
}

// SearchIndex holds the results of the most recent simple_search, plus
// which match is currently selected for navigation.
type SearchIndex struct {
	query   []byte
	matches []SearchMatch
	current int // index into matches, or -1 if none selected yet
}

// simpleSearch scans every row's render string for occurrences of query
// (stepping by +1 after each hit, not by the match length, so overlapping
// occurrences starting one column later are still found individually) and
// records every (line, render_offset, length).
func simpleSearch(rows []Row, query []byte) []SearchMatch {
	var matches []SearchMatch
	if len(query) == 0 {
		return matches
	}
	for r := range rows {
		render := rows[r].Render
		for start := 0; start <= len(render)-len(query); start++ {
			if bytes.Equal(render[start:start+len(query)], query) {
				matches = append(matches, SearchMatch{Row: r, RxCol: start, Length: len(query)})
			}
		}
	}
	return matches
}

// Search runs simple_search(query) against rows and replaces the index's
// result set. The selection resets (no match considered current yet).
func (s *SearchIndex) Search(rows []Row, query string) {
	s.query = []byte(query)
	s.matches = simpleSearch(rows, s.query)
	s.current = -1
}

// Clear drops the result set, e.g. on Escape or before the next edit
// (results are transient and do not survive a buffer mutation).
func (s *SearchIndex) Clear() {
	s.query = nil
	s.matches = nil
	s.current = -1
}

// Empty reports whether there is nothing to navigate.
func (s *SearchIndex) Empty() bool { return len(s.matches) == 0 }

// Next advances to the next match (wrapping around), or the first match
// if none is selected yet.
func (s *SearchIndex) Next() (SearchMatch, bool) {
	if s.Empty() {
		return SearchMatch{}, false
	}
	if s.current == -1 {
		s.current = 0
	} else {
		s.current = (s.current + 1) % len(s.matches)
	}
	return s.matches[s.current], true
}

// Prev steps to the previous match (wrapping around), or the last match
// if none is selected yet.
func (s *SearchIndex) Prev() (SearchMatch, bool) {
	if s.Empty() {
		return SearchMatch{}, false
	}
	if s.current == -1 {
		s.current = len(s.matches) - 1
	} else {
		s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
	}
	return s.matches[s.current], true
}

// Current returns the currently selected match, if any.
func (s *SearchIndex) Current() (SearchMatch, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return SearchMatch{}, false
	}
	return s.matches[s.current], true
}

// JumpToMatch moves the editor's primary cursor to m's start, converting
// its render-column offset back to a char column via rxToCx, and
// requests the viewport scroll to make it visible.
func (e *Editor) JumpToMatch(m SearchMatch) {
	e.cy = m.Row
	e.cx = e.rows[m.Row].rxToCx(m.RxCol)
	e.ScrollToCursor()
}

// paintSearchMatch overlays HLSearchMatch on m's render span, returning
// the highlight slice values it overwrote so the caller can restore them
// before the next action (the paint is transient per spec.md §4.9).
func paintSearchMatch(rows []Row, m SearchMatch) (saved []HighlightClass) {
	row := &rows[m.Row]
	end := m.RxCol + m.Length
	if end > len(row.Highlight) {
		end = len(row.Highlight)
	}
	saved = append(saved, row.Highlight[m.RxCol:end]...)
	for i := m.RxCol; i < end; i++ {
		row.Highlight[i] = HLSearchMatch
	}
	return saved
}

// restoreSearchMatchHighlight undoes paintSearchMatch's overlay.
func restoreSearchMatchHighlight(rows []Row, m SearchMatch, saved []HighlightClass) {
	row := &rows[m.Row]
	end := m.RxCol + len(saved)
	if end > len(row.Highlight) {
		end = len(row.Highlight)
	}
	copy(row.Highlight[m.RxCol:end], saved)
}
