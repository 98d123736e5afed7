package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "kv"

// Bolt is a Store backed by a bbolt file.
type Bolt struct {
	db    *bbolt.DB
	quota int64
}

// OpenBolt opens or creates the bbolt file at path.
func OpenBolt(path string, opts ...Option) (*Bolt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	s := newSettings(opts)

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Bolt{db: db, quota: s.quota}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var out []byte
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			out = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, mapBoltErr(err)
	}
	return out, found, nil
}

func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validKey(key); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if err := checkQuota(b.quota, bucketUsage(bucket), len(bucket.Get([]byte(key))), len(value)); err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
	return mapBoltErr(err)
}

func (b *Bolt) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		for _, k := range keys {
			if err := bucket.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	return mapBoltErr(err)
}

func (b *Bolt) Usage(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var usage int64
	err := b.db.View(func(tx *bbolt.Tx) error {
		usage = bucketUsage(tx.Bucket([]byte(boltBucket)))
		return nil
	})
	return usage, mapBoltErr(err)
}

// Close closes the underlying file.
func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func bucketUsage(bucket *bbolt.Bucket) int64 {
	var n int64
	_ = bucket.ForEach(func(_, v []byte) error {
		n += int64(len(v))
		return nil
	})
	return n
}

func mapBoltErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bbolt.ErrDatabaseNotOpen):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, syscall.ENOSPC):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	default:
		return err
	}
}
