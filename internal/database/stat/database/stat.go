package database

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/melodix-games/melodix/internal/cache"
	"github.com/melodix-games/melodix/internal/database"
	"github.com/melodix-games/melodix/internal/database/stat/model"
)

var ErrNotFound = fmt.Errorf("not found")

const bucket = "player_stats"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) Fetch(userID string) (model.Stat, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(userID); ok {
			return v.(model.Stat), nil
		}
	}

	var stat model.Stat
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		bytes := b.Get([]byte(userID))
		if len(bytes) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(bytes, &stat); err != nil {
			return fmt.Errorf("unmarshal: %v", err)
		}
		return nil
	}); err != nil {
		return stat, err
	}

	if db.cache != nil {
		db.cache.Add(userID, stat)
	}

	return stat, nil
}

// Delta is one session's contribution to a user's lifetime stats.
type Delta struct {
	Won          bool
	SongsGuessed int
	ExpGained    float64
}

// Apply folds a session delta into the stored stat in a single transaction.
func (db *DB) Apply(userID string, delta Delta) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		stat := model.NewStat(userID)
		if bytes := b.Get([]byte(userID)); len(bytes) > 0 {
			if err := json.Unmarshal(bytes, &stat); err != nil {
				return fmt.Errorf("unmarshal: %v", err)
			}
		}

		stat.GamesPlayed++
		if delta.Won {
			stat.GamesWon++
		}
		stat.SongsGuessed += delta.SongsGuessed
		stat.ExpGained += delta.ExpGained
		stat.LastPlayed = time.Now()

		bytes, err := json.Marshal(stat)
		if err != nil {
			return fmt.Errorf("marshal: %v", err)
		}

		return b.Put([]byte(userID), bytes)
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(userID)
	}

	return nil
}
