package port

import "abapseg/internal/domain"

type SegmentStore interface {
	PutResult(unit domain.SourceUnit, contentHash string, records []domain.Record) error

	ContentHash(pgmName, incName string) (string, bool, error)

	Records(pgmName, incName string) ([]domain.Record, error)

	ListSources() ([]domain.SourceRef, error)

	GetStats() (domain.Stats, error)

	Close() error
}
