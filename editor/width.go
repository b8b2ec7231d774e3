package editor

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// This file is the opt-in Unicode-aware alternative to Row's
// byte-per-column cxToRx/rxToCx (spec.md §9's open question): a grapheme
// cluster may be more than one rune (combining marks, emoji ZWJ
// sequences) and may render as zero, one, or two terminal columns.
// Disabled by default; enabled via Editor.UnicodeWidth.

// DisplayWidth is the monospace column width of a plain (already
// tab-free) string, regardless of UnicodeWidth. Nothing in this package
// calls it: the status and message bars measure their text by byte
// length.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// unicodeCxToRx is the Unicode-aware counterpart of Row.cxToRx: cx is
// still a byte offset into render, but each grapheme cluster contributes
// its display width rather than a flat one column.
func unicodeCxToRx(render []byte, cx int) int {
	if cx > len(render) {
		cx = len(render)
	}
	s := string(render[:cx])
	rx := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			rx += TabStop - (rx % TabStop)
			continue
		}
		rx += width
	}
	return rx
}

// unicodeRxToCx is the inverse: the largest byte offset into render
// whose accumulated display width does not exceed rx.
func unicodeRxToCx(render []byte, rx int) int {
	s := string(render)
	curRx := 0
	cx := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			width = TabStop - (curRx % TabStop)
		}
		if curRx+width > rx {
			return cx
		}
		curRx += width
		cx += len(cluster)
	}
	return cx
}

// cxToRx and rxToCx dispatch to the byte-per-column or Unicode-aware
// mapper depending on the editor's UnicodeWidth setting.
func (e *Editor) cxToRx(row *Row, cx int) int {
	if !e.UnicodeWidth {
		return row.cxToRx(cx)
	}
	return unicodeCxToRx(row.Render, cx)
}

func (e *Editor) rxToCx(row *Row, rx int) int {
	if !e.UnicodeWidth {
		return row.rxToCx(rx)
	}
	return unicodeRxToCx(row.Render, rx)
}
