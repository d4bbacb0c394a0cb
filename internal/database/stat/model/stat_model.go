package model

import "time"

// Stat accumulates a user's lifetime quiz results across sessions.
type Stat struct {
	UserID       string    `json:"userId"`
	GamesPlayed  int       `json:"gamesPlayed"`
	GamesWon     int       `json:"gamesWon"`
	SongsGuessed int       `json:"songsGuessed"`
	ExpGained    float64   `json:"expGained"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

func NewStat(userID string) Stat {
	return Stat{UserID: userID}
}
