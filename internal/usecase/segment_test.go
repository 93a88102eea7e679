package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"abapseg/internal/adapter/fs"
	"abapseg/internal/adapter/segmenter"
	"abapseg/internal/adapter/store"
	"abapseg/internal/domain"
)

func newBatchFixture(t *testing.T) (*SegmentUseCase, *store.BoltStore, string) {
	t.Helper()
	root := t.TempDir()

	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "segments.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	engine := segmenter.New(segmenter.Options{})
	walker := fs.NewWalker([]string{"**/*.abap"}, nil)
	return NewSegmentUseCase(engine, st, walker), st, root
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBatchSegmentsTree(t *testing.T) {
	uc, st, root := newBatchFixture(t)
	writeSource(t, root, "zreport.abap", "FORM f.\nENDFORM.\n")
	writeSource(t, root, "sub/zinc.abap", "* just a comment\n")

	result, err := uc.Batch(root, "ZPKG", nil)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if result.FilesProcessed != 2 {
		t.Errorf("expected 2 files processed, got %d", result.FilesProcessed)
	}
	if result.RecordsCreated != 2 {
		t.Errorf("expected 2 records, got %d", result.RecordsCreated)
	}
	if result.ByKind[domain.KindPerform] != 1 || result.ByKind[domain.KindRawCode] != 1 {
		t.Errorf("unexpected kind counts: %v", result.ByKind)
	}

	records, err := st.Records("ZPKG", "zreport.abap")
	if err != nil {
		t.Fatalf("stored records missing: %v", err)
	}
	if records[0].Kind != domain.KindPerform || records[0].Name != "f" {
		t.Errorf("unexpected stored record: %+v", records[0])
	}
	if records[0].PgmName != "ZPKG" || records[0].IncName != "zreport.abap" {
		t.Errorf("identity fields wrong: %q/%q", records[0].PgmName, records[0].IncName)
	}
}

func TestBatchSkipsUnchangedFiles(t *testing.T) {
	uc, _, root := newBatchFixture(t)
	writeSource(t, root, "a.abap", "FORM f.\nENDFORM.\n")

	if _, err := uc.Batch(root, "ZPKG", nil); err != nil {
		t.Fatal(err)
	}

	result, err := uc.Batch(root, "ZPKG", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesSkipped != 1 || result.FilesProcessed != 0 {
		t.Errorf("expected unchanged file skipped, got processed=%d skipped=%d",
			result.FilesProcessed, result.FilesSkipped)
	}

	// Touching the content forces a re-run.
	writeSource(t, root, "a.abap", "FORM g.\nENDFORM.\n")
	result, err = uc.Batch(root, "ZPKG", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesProcessed != 1 {
		t.Errorf("expected changed file reprocessed, got %d", result.FilesProcessed)
	}
}

func TestBatchReportsProgress(t *testing.T) {
	uc, _, root := newBatchFixture(t)
	writeSource(t, root, "a.abap", "x\n")
	writeSource(t, root, "b.abap", "y\n")

	var calls int
	var lastDone, lastTotal int
	_, err := uc.Batch(root, "ZPKG", func(done, total int, path string) {
		calls++
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Fatal("expected progress callbacks")
	}
	if lastDone != lastTotal || lastTotal != 2 {
		t.Errorf("expected final progress 2/2, got %d/%d", lastDone, lastTotal)
	}
}

func TestSegmentPassThrough(t *testing.T) {
	uc, _, _ := newBatchFixture(t)

	records := uc.Segment(domain.SourceUnit{PgmName: "P", IncName: "I", Code: "FORM f.\nENDFORM."})
	if len(records) != 1 || records[0].Kind != domain.KindPerform {
		t.Errorf("unexpected result: %+v", records)
	}
}
