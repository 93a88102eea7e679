package segmenter

import (
	"strings"

	"abapseg/internal/domain"
)

// Options controls segmentation policy.
type Options struct {
	// KeepBlankGaps emits whitespace-only gaps between blocks as raw_code
	// records instead of dropping them. Off by default: downstream indexers
	// rarely want formatting whitespace, but consumers that need exact line
	// coverage can turn it on.
	KeepBlankGaps bool
}

// Engine segments a source unit into an ordered list of typed, line-addressed
// records. It is a pure function of its input: no error paths, no shared
// state across calls, safe for concurrent use.
type Engine struct {
	opts   Options
	rules  []*recognizer
	method *recognizer
}

// New builds an engine with freshly compiled recognizers.
func New(opts Options) *Engine {
	return &Engine{
		opts:   opts,
		rules:  newRecognizers(),
		method: newMethodRecognizer(),
	}
}

// Segment walks the source once, left to right. Recognized blocks are
// emitted in source order; the text between and around them becomes raw_code
// records, so every non-blank byte of the input is accounted for. A source
// with no recognizable block yields exactly one raw_code record covering the
// whole input.
func (e *Engine) Segment(unit domain.SourceUnit) []domain.Record {
	ix := indexLines(unit.Code)
	var records []domain.Record

	lastEnd := 0
	line := 0
	for line < ix.Count() {
		m, ok := e.matchAt(ix, line)
		if !ok {
			line++
			continue
		}
		records = e.appendGap(records, unit, ix, span{lastEnd, m.Span.Start})
		records = e.emit(records, unit, ix, m)
		lastEnd = m.Span.End
		line = m.CloserLine + 1
	}
	records = e.appendGap(records, unit, ix, span{lastEnd, len(unit.Code)})

	if len(records) == 0 {
		records = append(records, e.fallback(unit, ix))
	}
	return records
}

// matchAt tries every recognizer at line at, in precedence order.
func (e *Engine) matchAt(ix *lineIndex, at int) (match, bool) {
	for _, r := range e.rules {
		if m, ok := r.TryMatch(ix, at, ix.Count()); ok {
			return m, true
		}
	}
	return match{}, false
}

// emit appends the record(s) for one matched block. Class implementations
// expand into a container record plus one record per nested method; every
// other kind is a single verbatim record.
func (e *Engine) emit(records []domain.Record, unit domain.SourceUnit, ix *lineIndex, m match) []domain.Record {
	if m.Kind == domain.KindClassImpl {
		return e.emitClassImpl(records, unit, ix, m)
	}
	start, end := ix.LineRange(m.Span)
	return append(records, domain.Record{
		PgmName:   unit.PgmName,
		IncName:   unit.IncName,
		Kind:      m.Kind,
		Name:      m.Name,
		Mode:      m.Mode,
		StartLine: start,
		EndLine:   end,
		Code:      ix.Text(m.Span),
	})
}

// appendGap emits the text of a complementary span as raw_code. Blank gaps
// are suppressed unless KeepBlankGaps is set; empty spans never emit.
func (e *Engine) appendGap(records []domain.Record, unit domain.SourceUnit, ix *lineIndex, s span) []domain.Record {
	if s.Len() <= 0 {
		return records
	}
	text := ix.Text(s)
	if !e.opts.KeepBlankGaps && strings.TrimSpace(text) == "" {
		return records
	}
	start, end := ix.LineRange(s)
	return append(records, domain.Record{
		PgmName:   unit.PgmName,
		IncName:   unit.IncName,
		Kind:      domain.KindRawCode,
		Name:      unit.IncName,
		StartLine: start,
		EndLine:   end,
		Code:      text,
	})
}

// fallback covers the whole input when the scan produced nothing: either no
// block matched and the gap policy swallowed everything, or the input is
// empty. A strictly empty source reports lines 0/0.
func (e *Engine) fallback(unit domain.SourceUnit, ix *lineIndex) domain.Record {
	rec := domain.Record{
		PgmName: unit.PgmName,
		IncName: unit.IncName,
		Kind:    domain.KindRawCode,
		Name:    unit.IncName,
		Code:    unit.Code,
	}
	if len(unit.Code) > 0 {
		rec.StartLine, rec.EndLine = ix.LineRange(span{0, len(unit.Code)})
	}
	return rec
}
