// Package storage keeps the durable catalog documents in a bbolt file, one
// JSON document per collection key.
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Collection keys.
const (
	KeyProducts   = "my-products"
	KeyCategories = "my-categories"
	KeyBanners    = "my-banners"
	KeySettings   = "my-settings"
)

var (
	bucketName = []byte("storefront")
	json       = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Store struct {
	db   *bolt.DB
	path string
}

// Open opens (or creates) the bbolt file at path and ensures the bucket.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create storage bucket")
	}
	zap.L().Info("storage opened", zap.String("namespace", "storage"), zap.String("path", path))
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load decodes the document stored under key into v. found is false when the
// key is absent; a non-nil error means the document exists but is unreadable.
func (s *Store) Load(key string, v interface{}) (found bool, err error) {
	var raw []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			raw = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "read %s", key)
	}
	if raw == nil || string(bytes.TrimSpace(raw)) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

// Save encodes v and writes it under key in a single transaction.
func (s *Store) Save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	return errors.Wrapf(err, "write %s", key)
}

// PutRaw stores bytes as-is. It exists for repair tools and tests that need
// to plant unreadable documents.
func (s *Store) PutRaw(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete %s", key)
}

// DropAll removes every stored document.
func (s *Store) DropAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketName) != nil {
			if err := tx.DeleteBucket(bucketName); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
