package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"sigdump/internal/domain"
)

var (
	bucketResults = []byte("results")
	bucketMeta    = []byte("meta")
)

// BoltStore caches per-document extraction results keyed by document path.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketResults, bucketMeta} {
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

	return &BoltStore{db: db}, nil
}

type resultRecord struct {
	ID         string              `json:"id"`
	Hash       string              `json:"hash"`
	ModTime    int64               `json:"mod_time"`
	Signatures []string            `json:"signatures"`
	Stats      domain.ExtractStats `json:"stats"`
}

func toRecord(r domain.DocumentResult) resultRecord {
	return resultRecord{
		ID:         r.Document.ID,
		Hash:       r.Document.Hash,
		ModTime:    r.Document.ModTime.Unix(),
		Signatures: r.Signatures,
		Stats:      r.Stats,
	}
}

func (rec resultRecord) result(path string) domain.DocumentResult {
	return domain.DocumentResult{
		Document: domain.Document{
			ID:      rec.ID,
			Path:    path,
			Hash:    rec.Hash,
			ModTime: time.Unix(rec.ModTime, 0),
		},
		Signatures: rec.Signatures,
		Stats:      rec.Stats,
	}
}

func (s *BoltStore) PutResult(result domain.DocumentResult) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(toRecord(result))
		if err != nil {
			return err
		}
		return tx.Bucket(bucketResults).Put([]byte(result.Document.Path), data)
	})
}

func (s *BoltStore) GetResult(path string) (domain.DocumentResult, bool, error) {
	var (
		result domain.DocumentResult
		found  bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketResults).Get([]byte(path))
		if data == nil {
			return nil
		}
		var rec resultRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("corrupt cache entry for %s: %w", path, err)
		}
		result = rec.result(path)
		found = true
		return nil
	})
	return result, found, err
}

func (s *BoltStore) DeleteResult(path string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).Delete([]byte(path))
	})
}

func (s *BoltStore) ListResults() ([]domain.DocumentResult, error) {
	var results []domain.DocumentResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).ForEach(func(k, v []byte) error {
			var rec resultRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil
			}
			results = append(results, rec.result(string(k)))
			return nil
		})
	})
	return results, err
}

// Clear drops every cached result.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketResults); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketResults)
		return err
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
