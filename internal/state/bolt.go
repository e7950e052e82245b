package state

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("defaults")

// BoltStore persists values in a single bbolt bucket.
type BoltStore struct {
	db  *bolt.DB
	obs observers
}

func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init state bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(boltBucket).Get([]byte(key)); v != nil {
			out = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, mapBoltErr(err)
	}
	return out, out != nil, nil
}

func (b *BoltStore) Set(key string, value []byte) error {
	return b.Update(key, func([]byte, bool) ([]byte, error) { return value, nil })
}

func (b *BoltStore) Delete(key string) error {
	return b.Update(key, func([]byte, bool) ([]byte, error) { return nil, nil })
}

func (b *BoltStore) Update(key string, fn UpdateFunc) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		current := bucket.Get([]byte(key))
		next, err := fn(bytes.Clone(current), current != nil)
		if err != nil {
			return err
		}
		if next == nil {
			return bucket.Delete([]byte(key))
		}
		return bucket.Put([]byte(key), next)
	})
	if err != nil {
		return mapBoltErr(err)
	}
	b.obs.notify(key)
	return nil
}

func (b *BoltStore) Observe(key string, fn func(string)) func() {
	return b.obs.add(key, fn)
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

func mapBoltErr(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}
