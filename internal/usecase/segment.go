package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"abapseg/internal/adapter/fs"
	"abapseg/internal/domain"
	"abapseg/internal/port"
)

// SegmentUseCase orchestrates segmentation for the batch path: walk a tree,
// segment each file, persist results, skip files whose content is unchanged
// since the previous run.
type SegmentUseCase struct {
	segmenter port.Segmenter
	store     port.SegmentStore
	walker    port.FileWalker
}

func NewSegmentUseCase(segmenter port.Segmenter, store port.SegmentStore, walker port.FileWalker) *SegmentUseCase {
	return &SegmentUseCase{
		segmenter: segmenter,
		store:     store,
		walker:    walker,
	}
}

// Segment runs the engine for a single unit.
func (u *SegmentUseCase) Segment(unit domain.SourceUnit) []domain.Record {
	return u.segmenter.Segment(unit)
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	FilesProcessed int
	FilesSkipped   int
	RecordsCreated int
	ByKind         map[domain.BlockKind]int
	Errors         []string
}

// ProgressFunc reports batch progress: files done, total files, current path.
type ProgressFunc func(done, total int, path string)

// Batch segments every file the walker selects under root. The program name
// is attached to every unit; the include name is the file's root-relative
// path. Files whose content hash matches the stored one are skipped.
func (u *SegmentUseCase) Batch(root, pgmName string, progress ProgressFunc) (*BatchResult, error) {
	result := &BatchResult{ByKind: make(map[domain.BlockKind]int)}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.RelPath)
		}

		code, err := fs.ReadFile(file.Path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", file.RelPath, err))
			continue
		}

		unit := domain.SourceUnit{
			PgmName: pgmName,
			IncName: file.RelPath,
			Code:    code,
		}
		hash := contentHash(code)

		if stored, ok, err := u.store.ContentHash(unit.PgmName, unit.IncName); err == nil && ok && stored == hash {
			result.FilesSkipped++
			continue
		}

		records := u.segmenter.Segment(unit)
		if err := u.store.PutResult(unit, hash, records); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to store %s: %v", file.RelPath, err))
			continue
		}

		result.FilesProcessed++
		result.RecordsCreated += len(records)
		for _, rec := range records {
			result.ByKind[rec.Kind]++
		}
	}

	if progress != nil {
		progress(len(files), len(files), "")
	}
	return result, nil
}

func contentHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
