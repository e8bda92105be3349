package store

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

// External API responses (drug search, FDA labels) are cached in badger with
// a TTL so repeat lookups stay local.

const cacheKeyPrefix = "cache:"

// GetCached returns a cached payload, or false when absent or expired.
func (s *Store) GetCached(key string) ([]byte, bool) {
	var data []byte
	err := s.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores a payload under key for ttl.
func (s *Store) SetCached(key string, value []byte, ttl time.Duration) error {
	return s.badger.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(cacheKeyPrefix+key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}
