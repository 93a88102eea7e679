package segmenter

import (
	"strings"

	"abapseg/internal/domain"
)

// emitClassImpl splits a class implementation block into a container record
// (the class text with every method span excised) followed by one record per
// method, in source order. Line numbers for all of them derive from offsets
// into the original source, never from the reconstructed container text.
func (e *Engine) emitClassImpl(records []domain.Record, unit domain.SourceUnit, ix *lineIndex, m match) []domain.Record {
	methods := e.findMethods(ix, m.HeaderLine+1, m.CloserLine)

	spans := make([]span, len(methods))
	for i, mm := range methods {
		spans[i] = mm.Span
	}

	start, end := ix.LineRange(m.Span)
	records = append(records, domain.Record{
		PgmName:   unit.PgmName,
		IncName:   unit.IncName,
		Kind:      domain.KindClassImpl,
		Name:      m.Name,
		StartLine: start,
		EndLine:   end,
		Code:      containerText(ix, m.Span, spans),
	})

	for _, mm := range methods {
		ms, me := ix.LineRange(mm.Span)
		records = append(records, domain.Record{
			PgmName:   unit.PgmName,
			IncName:   unit.IncName,
			Kind:      domain.KindMethod,
			Name:      mm.Name,
			ClassImpl: m.Name,
			StartLine: ms,
			EndLine:   me,
			Code:      ix.Text(mm.Span),
		})
	}
	return records
}

// findMethods scans the class body lines [from, to) for method blocks.
// Methods may be densely packed; the scan resumes on the line after each
// closer. A method header whose ENDMETHOD lies outside the class body does
// not match and stays part of the container text.
func (e *Engine) findMethods(ix *lineIndex, from, to int) []match {
	var out []match
	line := from
	for line < to {
		m, ok := e.method.TryMatch(ix, line, to)
		if !ok {
			line++
			continue
		}
		out = append(out, m)
		line = m.CloserLine + 1
	}
	return out
}

// containerText assembles the class text minus its method spans. The kept
// sub-ranges of the original span (header, anything between methods, footer)
// are trimmed at their excision edges, blank pieces are skipped, and the rest
// joins with a single newline. With no methods the container is the verbatim
// block.
func containerText(ix *lineIndex, class span, methods []span) string {
	if len(methods) == 0 {
		return ix.Text(class)
	}

	kept := make([]span, 0, len(methods)+1)
	cursor := class.Start
	for _, m := range methods {
		kept = append(kept, span{cursor, m.Start})
		cursor = m.End
	}
	kept = append(kept, span{cursor, class.End})

	pieces := make([]string, 0, len(kept))
	for i, k := range kept {
		text := ix.Text(k)
		if i > 0 {
			text = strings.TrimLeft(text, " \t\r\n")
		}
		if i < len(kept)-1 {
			text = strings.TrimRight(text, " \t\r\n")
		}
		if text == "" {
			continue
		}
		pieces = append(pieces, text)
	}
	return strings.Join(pieces, "\n")
}
