package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"abapseg/internal/domain"
)

// schemaVersion guards the on-disk layout. Bumping it forces a rebuild on
// the next batch run.
const schemaVersion = "1"

var (
	bucketSources = []byte("sources")
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")
	keySchema     = []byte("schema_version")
)

// BoltStore persists segmentation results for batch runs: one entry per
// (pgm_name, inc_name) source, keyed so unchanged content can be skipped on
// re-runs. The engine itself stays stateless; this is tooling-level storage.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSources, bucketRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// checkSchema clears the store when it was written by an older layout.
func (s *BoltStore) checkSchema() error {
	var stored string
	err := s.db.View(func(tx *bbolt.Tx) error {
		stored = string(tx.Bucket(bucketMeta).Get(keySchema))
		return nil
	})
	if err != nil {
		return err
	}
	if stored == schemaVersion {
		return nil
	}
	if stored != "" {
		if err := s.Clear(); err != nil {
			return fmt.Errorf("failed to clear outdated store: %w", err)
		}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keySchema, []byte(schemaVersion))
	})
}

type sourceMeta struct {
	PgmName     string `json:"pgm_name"`
	IncName     string `json:"inc_name"`
	ContentHash string `json:"content_hash"`
	Records     int    `json:"records"`
}

func sourceKey(pgmName, incName string) []byte {
	return []byte(pgmName + "\x00" + incName)
}

// PutResult stores the records for one source, replacing any previous run.
func (s *BoltStore) PutResult(unit domain.SourceUnit, contentHash string, records []domain.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := sourceKey(unit.PgmName, unit.IncName)

		meta, err := json.Marshal(sourceMeta{
			PgmName:     unit.PgmName,
			IncName:     unit.IncName,
			ContentHash: contentHash,
			Records:     len(records),
		})
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketSources).Put(key, meta); err != nil {
			return err
		}

		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRecords).Put(key, data)
	})
}

// ContentHash reports the stored hash for a source, if any.
func (s *BoltStore) ContentHash(pgmName, incName string) (string, bool, error) {
	var hash string
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSources).Get(sourceKey(pgmName, incName))
		if data == nil {
			return nil
		}
		var meta sourceMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		hash = meta.ContentHash
		found = true
		return nil
	})
	return hash, found, err
}

// Records returns the stored records for a source.
func (s *BoltStore) Records(pgmName, incName string) ([]domain.Record, error) {
	var records []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get(sourceKey(pgmName, incName))
		if data == nil {
			return fmt.Errorf("no records for %s/%s", pgmName, incName)
		}
		return json.Unmarshal(data, &records)
	})
	return records, err
}

// ListSources returns metadata for every stored source.
func (s *BoltStore) ListSources() ([]domain.SourceRef, error) {
	var refs []domain.SourceRef
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			var meta sourceMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			refs = append(refs, domain.SourceRef{
				PgmName:     meta.PgmName,
				IncName:     meta.IncName,
				ContentHash: meta.ContentHash,
				Records:     meta.Records,
			})
			return nil
		})
	})
	return refs, err
}

// GetStats returns corpus-level totals.
func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			var meta sourceMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			stats.TotalSources++
			stats.TotalRecords += meta.Records
			return nil
		})
	})
	return stats, err
}

// Clear drops all stored results.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSources, bucketRecords, bucketMeta} {
			if err := tx.DeleteBucket(b); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(b); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put(keySchema, []byte(schemaVersion))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
