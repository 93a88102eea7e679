package domain

// SourceUnit is one segmentation input: the source text plus the two
// identity fields that are copied verbatim onto every output record.
type SourceUnit struct {
	PgmName string `json:"pgm_name"`
	IncName string `json:"inc_name"`
	Code    string `json:"code"`
}

// BlockKind is the closed set of record types. Values are the wire names.
type BlockKind string

const (
	KindPerform         BlockKind = "perform"
	KindClassDefinition BlockKind = "class_definition"
	KindClassImpl       BlockKind = "class_impl"
	KindMethod          BlockKind = "method"
	KindFunction        BlockKind = "function"
	KindModule          BlockKind = "module"
	KindMacro           BlockKind = "macro"
	KindRawCode         BlockKind = "raw_code"
)

// Mode is the optional execution mode of a MODULE block.
type Mode string

const (
	ModeInput  Mode = "INPUT"
	ModeOutput Mode = "OUTPUT"
)

// Record is one emitted segment. Line numbers are 1-based and inclusive,
// always computed against the original source text.
type Record struct {
	PgmName   string    `json:"pgm_name"`
	IncName   string    `json:"inc_name"`
	Kind      BlockKind `json:"type"`
	Name      string    `json:"name"`
	ClassImpl string    `json:"class_implementation,omitempty"`
	Mode      Mode      `json:"mode,omitempty"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Code      string    `json:"code"`
}

// SourceRef identifies a stored segmentation result.
type SourceRef struct {
	PgmName     string
	IncName     string
	ContentHash string
	Records     int
}

type Stats struct {
	TotalSources int
	TotalRecords int
}
