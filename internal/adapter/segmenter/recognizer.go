package segmenter

import (
	"regexp"
	"strings"

	"abapseg/internal/domain"
)

// trailingComment allows an end-of-line " comment after a closing statement.
const trailingComment = `(?:[ \t]*"[^\n]*)?\s*$`

// recognizer matches one block kind. The header pattern is anchored at line
// start and must capture the block name as submatch 1 (and, for MODULE, the
// optional mode as submatch 2). The closer pattern matches the terminating
// statement on its own line.
type recognizer struct {
	kind   domain.BlockKind
	header *regexp.Regexp
	closer *regexp.Regexp
}

// match is one recognized block: its kind, header identifiers, byte span and
// the 0-based line range it occupies.
type match struct {
	Kind       domain.BlockKind
	Name       string
	Mode       domain.Mode
	Span       span
	HeaderLine int
	CloserLine int
}

// TryMatch attempts to recognize a block whose header sits on line at. The
// closer is searched strictly below the header and strictly above limit
// (exclusive), so nested scans cannot run past their enclosing block. A
// header with no closer in range is not a match; the text falls through to
// gap handling.
func (r *recognizer) TryMatch(ix *lineIndex, at, limit int) (match, bool) {
	sub := r.header.FindStringSubmatch(ix.LineText(at))
	if sub == nil {
		return match{}, false
	}
	for j := at + 1; j < limit; j++ {
		if !r.closer.MatchString(ix.LineText(j)) {
			continue
		}
		m := match{
			Kind:       r.kind,
			Name:       sub[1],
			Span:       span{ix.LineStart(at), ix.LineEnd(j)},
			HeaderLine: at,
			CloserLine: j,
		}
		if len(sub) > 2 && sub[2] != "" {
			m.Mode = domain.Mode(strings.ToUpper(sub[2]))
		}
		return m, true
	}
	return match{}, false
}

// newRecognizers builds the top-level recognizers in precedence order. Each
// engine owns its own compiled patterns; there is no package-level regexp
// state.
func newRecognizers() []*recognizer {
	return []*recognizer{
		{
			kind:   domain.KindPerform,
			header: regexp.MustCompile(`(?i)^\s*FORM\s+(\w+)\b.*\.`),
			closer: regexp.MustCompile(`(?i)^\s*ENDFORM\s*\.` + trailingComment),
		},
		{
			kind:   domain.KindClassDefinition,
			header: regexp.MustCompile(`(?i)^\s*CLASS\s+(\w+)\s+DEFINITION\b.*\.`),
			closer: regexp.MustCompile(`(?i)^\s*ENDCLASS\s*\.` + trailingComment),
		},
		{
			kind:   domain.KindClassImpl,
			header: regexp.MustCompile(`(?i)^\s*CLASS\s+(\w+)\s+IMPLEMENTATION\s*\.`),
			closer: regexp.MustCompile(`(?i)^\s*ENDCLASS\s*\.` + trailingComment),
		},
		{
			kind:   domain.KindFunction,
			header: regexp.MustCompile(`(?i)^\s*FUNCTION\s+(\w+)\s*\.`),
			closer: regexp.MustCompile(`(?i)^\s*ENDFUNCTION\s*\.` + trailingComment),
		},
		{
			kind:   domain.KindModule,
			header: regexp.MustCompile(`(?i)^\s*MODULE\s+(\w+)(?:\s+(INPUT|OUTPUT))?\s*\.`),
			closer: regexp.MustCompile(`(?i)^\s*ENDMODULE\s*\.` + trailingComment),
		},
		{
			kind:   domain.KindMacro,
			header: regexp.MustCompile(`(?i)^\s*DEFINE\s+(\w+)\s*\.`),
			closer: regexp.MustCompile(`(?i)^\s*END-OF-DEFINITION\s*\.` + trailingComment),
		},
	}
}

// newMethodRecognizer builds the nested method recognizer. Method names may
// carry one ~ interface qualifier; the reserved constructor names are plain
// identifiers and need no special casing.
func newMethodRecognizer() *recognizer {
	return &recognizer{
		kind:   domain.KindMethod,
		header: regexp.MustCompile(`(?i)^\s*METHOD\s+([A-Za-z_]\w*(?:~\w+)?)\s*\.`),
		closer: regexp.MustCompile(`(?i)^\s*ENDMETHOD\s*\.` + trailingComment),
	}
}
