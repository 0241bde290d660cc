// Package dedupe remembers which broker messages were already applied so a
// redelivered decision becomes a no-op.
package dedupe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"marketplace_escrow/pkg/logger"
	"time"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

const keyPrefix = "processed/"

var ErrEmptyMessageID = errors.New("empty message id")

type PebbleStore struct {
	db *pebble.DB
}

func Open(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open dedupe store %s: %w", dir, err)
	}
	logger.Info("[dedupe][pebble] store opened", zap.String("dir", dir))
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Seen(id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyMessageID
	}
	_, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

// Mark records id with the time it was applied. The write is synced before
// returning.
func (s *PebbleStore) Mark(id string, at time.Time) error {
	if id == "" {
		return ErrEmptyMessageID
	}
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(at.UTC().UnixNano()))
	return s.db.Set(key(id), val, pebble.Sync)
}

// ProcessedAt returns when id was marked, or the zero time if it never was.
func (s *PebbleStore) ProcessedAt(id string) (time.Time, error) {
	val, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return time.Time{}, fmt.Errorf("corrupt dedupe record for %q", id)
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(val))).UTC(), nil
}

// Prune drops records applied before cutoff and reports how many were removed.
func (s *PebbleStore) Prune(cutoff time.Time) (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte("processed0"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	batch := s.db.NewBatch()
	defer batch.Close()
	n := 0
	limit := uint64(cutoff.UTC().UnixNano())
	for iter.First(); iter.Valid(); iter.Next() {
		val := iter.Value()
		if len(val) == 8 && binary.BigEndian.Uint64(val) < limit {
			if err := batch.Delete(append([]byte(nil), iter.Key()...), nil); err != nil {
				return 0, err
			}
			n++
		}
	}
	if err := iter.Error(); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	logger.Info("[dedupe][pebble] pruned records", zap.Int("count", n))
	return n, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}
