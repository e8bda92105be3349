package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Daily taken-logs live in badger under a date-scoped key, one JSON map of
// medication id -> doses taken that day. A log is created lazily on the
// first dose of its day and read back whole; a missing key reads as an
// empty log.

const logKeyPrefix = "log:"

// DateKey formats a date as the canonical log key suffix (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DailyLog returns the taken-count map for a calendar day. A missing or
// unreadable log is an empty map, never an error the caller has to handle.
func (s *Store) DailyLog(ctx context.Context, dateKey string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := make(map[string]int)
	err := s.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(logKeyPrefix + dateKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &log)
		})
	})
	if err != nil {
		// Corrupted or unreadable log reads as empty; the day is simply
		// unaccounted rather than fatal.
		return make(map[string]int), nil
	}
	return log, nil
}

// RecordDose increments the taken-count for a medication on a calendar day
// and returns the new count.
func (s *Store) RecordDose(ctx context.Context, dateKey, medicationID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := s.badger.Update(func(txn *badger.Txn) error {
		log := make(map[string]int)

		item, err := txn.Get([]byte(logKeyPrefix + dateKey))
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &log)
			}); err != nil {
				log = make(map[string]int)
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		log[medicationID]++
		count = log[medicationID]

		data, err := json.Marshal(log)
		if err != nil {
			return err
		}
		return txn.Set([]byte(logKeyPrefix+dateKey), data)
	})
	return count, err
}

// TakenToday returns today's taken-count for one medication.
func (s *Store) TakenToday(ctx context.Context, medicationID string, now time.Time) (int, error) {
	log, err := s.DailyLog(ctx, DateKey(now))
	if err != nil {
		return 0, err
	}
	return log[medicationID], nil
}
