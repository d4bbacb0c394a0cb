package database

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/melodix-games/melodix/internal/cache"
	"github.com/melodix-games/melodix/internal/database"
	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

var ErrNotFound = fmt.Errorf("not found")

const bucket = "guild_preferences"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) Fetch(guildID string) (model.Preference, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(guildID); ok {
			return v.(model.Preference), nil
		}
	}

	var pref model.Preference
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		bytes := b.Get([]byte(guildID))
		if len(bytes) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(bytes, &pref); err != nil {
			return fmt.Errorf("unmarshal: %v", err)
		}
		return nil
	}); err != nil {
		return pref, err
	}

	if db.cache != nil {
		db.cache.Add(guildID, pref)
	}

	return pref, nil
}

// FetchOrCreate returns the guild's stored preference, registering the
// defaults when the guild is seen for the first time.
func (db *DB) FetchOrCreate(guildID string) (model.Preference, error) {
	pref, err := db.Fetch(guildID)
	if err == nil {
		return pref, nil
	}
	if err != ErrNotFound {
		return pref, fmt.Errorf("fetch: %w", err)
	}

	pref = model.NewPreference(guildID)
	if err := db.Store(pref); err != nil {
		return pref, fmt.Errorf("store: %w", err)
	}

	return pref, nil
}

func (db *DB) Store(pref model.Preference) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		bytes, err := json.Marshal(pref)
		if err != nil {
			return fmt.Errorf("marshal: %v", err)
		}

		return b.Put([]byte(pref.GuildID), bytes)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(pref.GuildID, pref)
	}

	return nil
}
