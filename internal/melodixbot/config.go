package melodixbot

import (
	"time"

	"github.com/melodix-games/melodix/internal/database"
)

type Config struct {
	// Logging at debug level
	Debug bool `envconfig:"MELODIX_DEBUG" default:"false"`

	// Port on which the health check is launched
	Port string `envconfig:"MELODIX_PORT" default:"1234"`

	// profile port
	ProfPort string `envconfig:"MELODIX_PROF_PORT" default:"8888"`
	Prof     bool   `envconfig:"MELODIX_PROF" default:"false"`

	// Prefix that marks a chat message as a command
	CommandPrefix string `envconfig:"MELODIX_COMMAND_PREFIX" default:","`

	// Path to the song catalog seed file
	CatalogFilePath string `envconfig:"MELODIX_CATALOG_FILE_PATH" default:"songs.json"`

	// Number of items in the cache
	CacheSize int `envconfig:"MELODIX_CACHE_SIZE" default:"2048"`

	// A session with no accepted actions for this long gets swept
	InactiveThreshold time.Duration `envconfig:"MELODIX_INACTIVE_THRESHOLD" default:"30m"`
	SweepInterval     time.Duration `envconfig:"MELODIX_SWEEP_INTERVAL" default:"1m"`

	// How long a round stays open for more correct guessers after the first
	GuessWindow time.Duration `envconfig:"MELODIX_GUESS_WINDOW" default:"500ms"`

	// Lifetime of the transient skip announcement
	SkipMessageTTL time.Duration `envconfig:"MELODIX_SKIP_MESSAGE_TTL" default:"2500ms"`

	Db database.Config
}
