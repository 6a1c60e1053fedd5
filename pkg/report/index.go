package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names for the report index.
var (
	bucketRecords = []byte("records")
	bucketTags    = []byte("tags")
)

// tagSep joins a tag and a record id into one composite key. NUL cannot
// appear in either half, so prefix scans per tag stay unambiguous.
const tagSep = "\x00"

// boltIndex maps record ids to their decoded form and tags to their member
// ids. It is derived state: the JSON files in the reports directory remain
// authoritative, and the index is rebuilt from them whenever a store opens.
type boltIndex struct {
	db *bolt.DB
}

// openIndex opens (or creates) the index database and ensures its buckets
// exist.
func openIndex(path string, timeout time.Duration) (boltIndex, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return boltIndex{}, fmt.Errorf("failed to open report index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists(bucketTags); err != nil {
			return fmt.Errorf("failed to create tags bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return boltIndex{}, err
	}

	return boltIndex{db: db}, nil
}

// put indexes one record under its id and tag.
func (ix boltIndex) put(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record for index: %w", err)
	}

	return ix.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketRecords).Put([]byte(rec.ID), data); err != nil {
			return fmt.Errorf("failed to index record: %w", err)
		}
		if err := tx.Bucket(bucketTags).Put(tagKey(rec.Tag, rec.ID), nil); err != nil {
			return fmt.Errorf("failed to index tag: %w", err)
		}
		return nil
	})
}

// delete removes one record from both buckets. Missing entries are not an
// error; the files on disk decide existence.
func (ix boltIndex) delete(id, tag string) error {
	return ix.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketRecords).Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to unindex record: %w", err)
		}
		if tag != "" {
			if err := tx.Bucket(bucketTags).Delete(tagKey(tag, id)); err != nil {
				return fmt.Errorf("failed to unindex tag: %w", err)
			}
		}
		return nil
	})
}

// tagOf returns the indexed tag for a record id, or "" when the record is
// not indexed.
func (ix boltIndex) tagOf(id string) string {
	var tag string

	_ = ix.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(id))
		if data == nil {
			return nil
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil
		}

		tag = rec.Tag
		return nil
	})

	return tag
}

// idsForTag returns the indexed record ids carrying a tag, in key order.
func (ix boltIndex) idsForTag(tag string) ([]string, error) {
	var ids []string

	err := ix.db.View(func(tx *bolt.Tx) error {
		prefix := []byte(tag + tagSep)
		c := tx.Bucket(bucketTags).Cursor()

		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			ids = append(ids, string(k[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag index: %w", err)
	}

	return ids, nil
}

// rebuild drops both buckets and reinserts the given records.
func (ix boltIndex) rebuild(records []*Record) error {
	return ix.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRecords, bucketTags} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return fmt.Errorf("failed to reset index bucket: %w", err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to recreate index bucket: %w", err)
			}
		}

		recs := tx.Bucket(bucketRecords)
		tags := tx.Bucket(bucketTags)

		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal record for index: %w", err)
			}
			if err := recs.Put([]byte(rec.ID), data); err != nil {
				return fmt.Errorf("failed to index record: %w", err)
			}
			if err := tags.Put(tagKey(rec.Tag, rec.ID), nil); err != nil {
				return fmt.Errorf("failed to index tag: %w", err)
			}
		}

		return nil
	})
}

// Close closes the underlying database.
func (ix boltIndex) Close() error {
	return ix.db.Close()
}

func tagKey(tag, id string) []byte {
	return []byte(tag + tagSep + id)
}
