package segmenter

import "sort"

// span is a half-open byte interval [Start, End) into the original source.
type span struct {
	Start int
	End   int
}

func (s span) Len() int { return s.End - s.Start }

// lineIndex gives line-oriented access to an immutable source string.
// Line numbers inside the index are 0-based; the public mapping to record
// line numbers (1-based, inclusive) happens in LineRange.
type lineIndex struct {
	src    string
	starts []int
}

// indexLines scans the source once and records the start offset of every line.
// An empty source still has one (empty) line so that offset 0 maps to line 1.
func indexLines(src string) *lineIndex {
	starts := make([]int, 1, 64)
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

func (ix *lineIndex) Count() int { return len(ix.starts) }

// LineStart returns the byte offset of line i.
func (ix *lineIndex) LineStart(i int) int { return ix.starts[i] }

// LineEnd returns the offset just past the last content byte of line i,
// excluding the line terminator.
func (ix *lineIndex) LineEnd(i int) int {
	if i+1 < len(ix.starts) {
		return ix.starts[i+1] - 1
	}
	return len(ix.src)
}

// LineText returns line i without its terminator.
func (ix *lineIndex) LineText(i int) string {
	return ix.src[ix.LineStart(i):ix.LineEnd(i)]
}

// LineAt returns the 1-based line number containing byte offset off.
func (ix *lineIndex) LineAt(off int) int {
	return sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > off
	})
}

// LineRange maps a span to 1-based inclusive line numbers. The end line is
// the line containing the span's last byte, so spans that stop right after
// a newline do not leak onto the following line.
func (ix *lineIndex) LineRange(s span) (startLine, endLine int) {
	startLine = ix.LineAt(s.Start)
	end := s.End - 1
	if end < s.Start {
		end = s.Start
	}
	endLine = ix.LineAt(end)
	return startLine, endLine
}

// Text returns the verbatim source bytes of a span.
func (ix *lineIndex) Text(s span) string {
	return ix.src[s.Start:s.End]
}
