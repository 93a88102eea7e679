package port

import "abapseg/internal/domain"

type Segmenter interface {
	Segment(unit domain.SourceUnit) []domain.Record
}
