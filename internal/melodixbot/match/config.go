package match

import (
	"time"

	"github.com/melodix-games/melodix/internal/catalog"
)

type GameType string

const (
	GameTypeClassic     GameType = "classic"
	GameTypeElimination GameType = "elimination"
	GameTypeTeams       GameType = "teams"
)

type Config struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string
	OwnerID        string
	GameType       GameType

	// StartingLives seeds every elimination player, midgame joiners
	// included.
	StartingLives int

	// GuessWindow is how long after the first correct guess the round
	// stays open to collect near-simultaneous guessers.
	GuessWindow time.Duration

	// SkipMessageTTL is how long the "skipping..." notification lives
	// before auto-deletion.
	SkipMessageTTL time.Duration

	Songs     catalog.Provider
	Voice     VoicePlayer
	Out       Notifier
	Oracle    GuessOracle
	Occupancy OccupancyFn

	// DoneFn detaches the finished session from the registry.
	DoneFn func(session *Session) error
}
