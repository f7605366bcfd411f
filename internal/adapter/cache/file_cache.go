package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketEmbeddings = []byte("embeddings")

// FileCache persists serialized embedding-store state keyed by the
// fingerprint of the source model file (name + size). Re-embedding an
// unchanged file becomes a cache hit; a changed file misses because
// its fingerprint differs.
type FileCache struct {
	db *bbolt.DB
}

// Open opens (or creates) a cache database at path.
func Open(path string) (*FileCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create embeddings bucket: %w", err)
	}

	return &FileCache{db: db}, nil
}

func cacheKey(fingerprint string) []byte {
	hash := sha256.Sum256([]byte(fingerprint))
	return []byte(hex.EncodeToString(hash[:16]))
}

// Get returns the cached embeddings bytes for a fingerprint.
func (c *FileCache) Get(fingerprint string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		if b == nil {
			return nil
		}
		if v := b.Get(cacheKey(fingerprint)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// Put stores embeddings bytes for a fingerprint, replacing any
// previous entry.
func (c *FileCache) Put(fingerprint string, data []byte) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		if b == nil {
			return fmt.Errorf("embeddings bucket not found")
		}
		return b.Put(cacheKey(fingerprint), data)
	})
}

// Delete removes the entry for a fingerprint, if present.
func (c *FileCache) Delete(fingerprint string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		if b == nil {
			return nil
		}
		return b.Delete(cacheKey(fingerprint))
	})
}

func (c *FileCache) Close() error {
	return c.db.Close()
}
