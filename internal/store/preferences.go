// Package store persists the few things that outlive a session: user
// preferences and keybinding overrides. Session state never touches disk.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"overlay/internal/types"
)

var (
	bucketPreferences = []byte("preferences")
	keyPreferences    = []byte("current")
)

type PreferencesStore interface {
	Load(ctx context.Context) (*types.Preferences, error)
	Save(ctx context.Context, prefs *types.Preferences) error
	Close() error
}

type bboltPreferencesStore struct {
	db *bolt.DB
}

func OpenPreferences(path string) (PreferencesStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("preferences db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltPreferencesStore{db: db}, nil
}

func (s *bboltPreferencesStore) Load(ctx context.Context) (*types.Preferences, error) {
	prefs := types.DefaultPreferences()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		raw := b.Get(keyPreferences)
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, prefs)
	})
	if err != nil {
		return nil, err
	}
	if prefs.PageSize <= 0 {
		prefs.PageSize = types.DefaultPreferences().PageSize
	}
	return prefs, nil
}

func (s *bboltPreferencesStore) Save(ctx context.Context, prefs *types.Preferences) error {
	if prefs == nil {
		return errors.New("preferences are required")
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return errors.New("preferences bucket missing")
		}
		return b.Put(keyPreferences, raw)
	})
}

func (s *bboltPreferencesStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
