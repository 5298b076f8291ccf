package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "expenses"

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) a BoltDB file at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// InsertMany writes all expenses in a single transaction
func (b *BoltStore) InsertMany(_ context.Context, expenses []*Expense) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		for _, e := range expenses {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshaling expense: %w", err)
			}
			if err := bucket.Put([]byte(e.ID), data); err != nil {
				return fmt.Errorf("putting expense %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// ListExpenses returns all expenses, newest first. Records that cannot be
// decoded at all are logged and skipped.
func (b *BoltStore) ListExpenses(_ context.Context) ([]*Expense, error) {
	expenses := make([]*Expense, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var e Expense
			if err := json.Unmarshal(v, &e); err != nil {
				slog.Warn("Skipping unreadable expense", "id", string(k), "error", err)
				return nil
			}
			expenses = append(expenses, &e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(expenses, sortNewestFirst)
	return expenses, nil
}

// DeleteExpense removes an expense from the database
func (b *BoltStore) DeleteExpense(_ context.Context, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// DeleteAll drops and recreates the expenses bucket
func (b *BoltStore) DeleteAll(_ context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("deleting bucket: %w", err)
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}
