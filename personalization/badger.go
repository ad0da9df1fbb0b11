package personalization

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const profileKeyPrefix = "profile:"

// BadgerStore is the durable ProfileStore used in deployments: profiles are
// msgpack-encoded values in an embedded BadgerDB keyed by user ID. Badger
// transactions give us the atomic read-modify-write the Aggregator's
// per-user serialization relies on.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an already opened Badger database. The caller owns
// the database lifecycle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens a Badger database at the given directory.
func OpenBadgerStore(dir string) (*BadgerStore, func() error, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open profile store: %w", err)
	}
	return NewBadgerStore(db), db.Close, nil
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

// Load implements ProfileStore.
func (s *BadgerStore) Load(userID string) (*Profile, error) {
	var profile Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return msgpack.Unmarshal(v, &profile)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile load failed for %s: %w", userID, err)
	}

	return &profile, nil
}

// Save implements ProfileStore.
func (s *BadgerStore) Save(profile *Profile) error {
	data, err := msgpack.Marshal(profile)
	if err != nil {
		return fmt.Errorf("profile encode failed: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("profile save failed for %s: %w", profile.UserID, err)
	}

	return nil
}
