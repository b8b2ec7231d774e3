package editor

import (
	"bytes"

	"github.com/dlclark/regexp2"
)

// Syntax highlighting flags.
const (
	HighlightNumbers = 1 << 0
	HighlightStrings = 1 << 1
)

// Syntax describes one filetype's highlighting rules.
type Syntax struct {
	Filetype       string
	FileMatch      []string
	Keywords       [][]string // keywords[0] -> HLKeyword1, keywords[1] -> HLKeyword2
	LineComment    string
	BlockCommentOn string
	BlockCommentOff string
	Flags          int
	// Patterns are optional line-anchored regexes (§4.3 rule 1), applied
	// once per row before the hand-written scanner below runs. A pattern
	// that fails to compile is skipped entirely (§7).
	Patterns []string

	compiled []*regexp2.Regexp
}

// compilePatterns compiles s.Patterns, skipping (and never re-attempting)
// any pattern that fails to parse.
func (s *Syntax) compilePatterns() {
	if s.compiled != nil || len(s.Patterns) == 0 {
		return
	}
	s.compiled = make([]*regexp2.Regexp, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			continue // §7: regex compilation failure -> pattern skipped
		}
		s.compiled = append(s.compiled, re)
	}
}

// BuiltinSyntaxes are the filetype tables shipped with the editor.
var BuiltinSyntaxes = []Syntax{
	{
		Filetype:  "c",
		FileMatch: []string{".c", ".h", ".cpp"},
		Keywords: [][]string{
			{"switch", "if", "while", "for", "break", "continue", "return", "else",
				"struct", "union", "typedef", "static", "enum", "class", "case"},
			{"int", "long", "double", "float", "char", "unsigned", "signed", "void"},
		},
		LineComment:     "//",
		BlockCommentOn:  "/*",
		BlockCommentOff: "*/",
		Flags:           HighlightNumbers | HighlightStrings,
	},
	{
		Filetype:  "go",
		FileMatch: []string{".go", ".mod", ".sum"},
		Keywords: [][]string{
			{"break", "case", "chan", "const", "continue", "default", "defer", "else",
				"fallthrough", "for", "go", "goto", "if", "import", "map", "package",
				"range", "return", "select", "struct", "switch", "type", "var"},
			{"interface", "func"},
		},
		LineComment:     "//",
		BlockCommentOn:  "/*",
		BlockCommentOff: "*/",
		Flags:           HighlightNumbers | HighlightStrings,
		// TODO(x) and FIXME(x) call-outs, matched once per row before the
		// keyword scan below, independent of string/comment state.
		Patterns: []string{`\b(TODO|FIXME)\b`},
	},
}

// SelectSyntax returns the first builtin syntax whose FileMatch entry
// matches filename, or nil.
func SelectSyntax(filename string) *Syntax {
	if filename == "" {
		return nil
	}
	ext := ""
	if i := bytes.LastIndexByte([]byte(filename), '.'); i != -1 {
		ext = filename[i:]
	}
	for i := range BuiltinSyntaxes {
		s := &BuiltinSyntaxes[i]
		for _, pattern := range s.FileMatch {
			isExt := len(pattern) > 0 && pattern[0] == '.'
			if (isExt && ext != "" && ext == pattern) ||
				(!isExt && bytes.Contains([]byte(filename), []byte(pattern))) {
				s.compilePatterns()
				return s
			}
		}
	}
	return nil
}

// updateHighlight is a pure function of Row.Render, syntax, and the
// previous row's open-comment state: it never looks at sibling rows
// directly (the caller supplies prevOpenComment), matching spec.md §3's
// invariant that open_comment on row i is a pure function of rows 0..i.
// It returns whether OpenComment flipped, so the caller can propagate
// recomputation to the next row with an explicit worklist instead of
// recursion (spec.md §9 open question).
func (r *Row) updateHighlight(prevOpenComment bool, syntax *Syntax) bool {
	r.Highlight = make([]HighlightClass, len(r.Render))

	if syntax == nil {
		changed := r.OpenComment
		r.OpenComment = false
		return changed
	}

	for _, re := range syntax.compiled {
		paintRegexMatches(r, re)
	}

	scs := []byte(syntax.LineComment)
	mcs := []byte(syntax.BlockCommentOn)
	mce := []byte(syntax.BlockCommentOff)

	prevSep := true
	var inString byte
	inComment := prevOpenComment

	render := r.Render
	for i := 0; i < len(render); {
		c := render[i]
		prevHl := HLNormal
		if i > 0 {
			prevHl = r.Highlight[i-1]
		}

		if len(scs) > 0 && inString == 0 && !inComment {
			if bytes.HasPrefix(render[i:], scs) {
				for j := i; j < len(render); j++ {
					r.Highlight[j] = HLComment
				}
				break
			}
		}

		if len(mcs) > 0 && len(mce) > 0 && inString == 0 {
			if inComment {
				r.Highlight[i] = HLMLComment
				if bytes.HasPrefix(render[i:], mce) {
					for j := 0; j < len(mce) && i+j < len(render); j++ {
						r.Highlight[i+j] = HLMLComment
					}
					inComment = false
					i += len(mce)
					continue
				}
				i++
				continue
			} else if bytes.HasPrefix(render[i:], mcs) {
				inComment = true
				for j := 0; j < len(mcs) && i+j < len(render); j++ {
					r.Highlight[i+j] = HLMLComment
				}
				i += len(mcs)
				continue
			}
		}

		if syntax.Flags&HighlightStrings != 0 {
			if inString != 0 {
				r.Highlight[i] = HLString
				if c == '\\' && i+1 < len(render) {
					r.Highlight[i+1] = HLString
					i += 2
					continue
				}
				if c == inString {
					inString = 0
				}
				i++
				prevSep = true
				continue
			} else if c == '"' || c == '\'' {
				inString = c
				r.Highlight[i] = HLString
				i++
				continue
			}
		}

		if syntax.Flags&HighlightNumbers != 0 {
			if (isDigit(c) && (prevSep || prevHl == HLNumber)) || (c == '.' && prevHl == HLNumber) {
				r.Highlight[i] = HLNumber
				i++
				prevSep = false
				continue
			}
		}

		if prevSep {
			for cls, sublist := range syntax.Keywords {
				for _, kw := range sublist {
					if bytes.HasPrefix(render[i:], []byte(kw)) {
						end := i + len(kw)
						if end == len(render) || isSeparator(render[end]) {
							for k := i; k < end; k++ {
								r.Highlight[k] = HLKeyword1 + HighlightClass(cls)
							}
						}
					}
				}
			}
			prevSep = false
		} else {
			prevSep = isSeparator(c)
		}
		i++
	}

	changed := r.OpenComment != inComment
	r.OpenComment = inComment
	return changed
}

// paintRegexMatches applies a single compiled pattern against the row's
// render string, painting every matched span HLKeyword1. Patterns are
// advisory call-outs layered under the main scanner; later rules (string/
// comment) can still override these cells since they run after.
func paintRegexMatches(r *Row, re *regexp2.Regexp) {
	text := string(r.Render)
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		start, length := m.Index, m.Length
		for k := start; k < start+length && k < len(r.Highlight); k++ {
			r.Highlight[k] = HLKeyword1
		}
		m, err = re.FindNextMatch(m)
	}
}

func syntaxToGraphics(hl HighlightClass) (rgb [3]int, reverse bool) {
	switch hl {
	case HLComment, HLMLComment:
		return [3]int{95, 175, 175}, false // cyan-ish
	case HLKeyword1:
		return [3]int{215, 175, 95}, false // yellow-ish
	case HLKeyword2:
		return [3]int{135, 175, 95}, false // green-ish
	case HLString:
		return [3]int{175, 95, 175}, false // magenta-ish
	case HLNumber:
		return [3]int{215, 95, 95}, false // red-ish
	case HLSearchMatch:
		return [3]int{95, 135, 215}, true
	case HLBracketMatch:
		return [3]int{255, 215, 0}, true
	default:
		return [3]int{220, 220, 220}, false
	}
}

