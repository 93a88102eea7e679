package store

import (
	"path/filepath"
	"testing"

	"abapseg/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "segments.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecords() []domain.Record {
	return []domain.Record{
		{PgmName: "ZR", IncName: "ZR_F01", Kind: domain.KindPerform, Name: "FOO", StartLine: 1, EndLine: 3, Code: "FORM FOO.\nENDFORM."},
		{PgmName: "ZR", IncName: "ZR_F01", Kind: domain.KindRawCode, Name: "ZR_F01", StartLine: 4, EndLine: 5, Code: "tail"},
	}
}

func TestPutAndGetResult(t *testing.T) {
	s := newTestStore(t)
	unit := domain.SourceUnit{PgmName: "ZR", IncName: "ZR_F01", Code: "..."}

	if err := s.PutResult(unit, "hash1", testRecords()); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	hash, found, err := s.ContentHash("ZR", "ZR_F01")
	if err != nil {
		t.Fatalf("hash lookup failed: %v", err)
	}
	if !found || hash != "hash1" {
		t.Errorf("expected hash1, got %q (found=%v)", hash, found)
	}

	records, err := s.Records("ZR", "ZR_F01")
	if err != nil {
		t.Fatalf("records lookup failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != domain.KindPerform || records[0].Name != "FOO" {
		t.Errorf("round-trip lost record data: %+v", records[0])
	}
	if records[1].Kind != domain.KindRawCode {
		t.Errorf("expected raw_code second, got %s", records[1].Kind)
	}
}

func TestContentHashMissing(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.ContentHash("NO", "SUCH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected missing source to report not found")
	}
}

func TestPutResultReplaces(t *testing.T) {
	s := newTestStore(t)
	unit := domain.SourceUnit{PgmName: "ZR", IncName: "ZR_F01"}

	if err := s.PutResult(unit, "hash1", testRecords()); err != nil {
		t.Fatal(err)
	}
	if err := s.PutResult(unit, "hash2", testRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	hash, _, _ := s.ContentHash("ZR", "ZR_F01")
	if hash != "hash2" {
		t.Errorf("expected replaced hash2, got %q", hash)
	}
	records, err := s.Records("ZR", "ZR_F01")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after replace, got %d", len(records))
	}
}

func TestListSourcesAndStats(t *testing.T) {
	s := newTestStore(t)

	units := []domain.SourceUnit{
		{PgmName: "ZR", IncName: "A"},
		{PgmName: "ZR", IncName: "B"},
	}
	for _, u := range units {
		if err := s.PutResult(u, "h", testRecords()); err != nil {
			t.Fatal(err)
		}
	}

	refs, err := s.ListSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(refs))
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSources != 2 || stats.TotalRecords != 4 {
		t.Errorf("expected 2 sources / 4 records, got %d / %d", stats.TotalSources, stats.TotalRecords)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutResult(domain.SourceUnit{PgmName: "ZR", IncName: "A"}, "h", testRecords()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSources != 0 {
		t.Errorf("expected empty store after clear, got %d sources", stats.TotalSources)
	}
}
