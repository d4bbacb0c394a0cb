package match

import "github.com/melodix-games/melodix/internal/catalog"

// The session talks to the platform through these narrow contracts. The
// gateway connection, audio streaming and embed rendering all live behind
// them.

// Embed is a platform-agnostic notification payload.
type Embed struct {
	Title       string
	Description string
	Fields      []ScoreField
}

// MessageRef identifies a sent message for later deletion.
type MessageRef struct {
	ChannelID string
	MessageID string
}

type Notifier interface {
	SendInfo(channelID string, embed Embed) (MessageRef, error)
	SendError(channelID string, embed Embed) error
	Delete(ref MessageRef) error
}

// VoiceConn is an opaque handle to one guild's voice connection.
type VoiceConn interface {
	Stop() error
}

// VoicePlayer joins channels and streams clips. Failures degrade to "no
// active connection"; they never take the session down.
type VoicePlayer interface {
	Join(voiceChannelID string) (VoiceConn, error)
	Play(conn VoiceConn, mediaRef string) error
	Disconnect(conn VoiceConn) error
}

// GuessOracle decides whether free-text input matches the round's song.
// The weight scales the points earned (partial credit for near misses).
type GuessOracle interface {
	Match(input string, song catalog.Song) (ok bool, weight float64)
}

// OccupancyFn reports the current non-bot member count of a voice channel.
// The skip threshold is recomputed against it on every vote.
type OccupancyFn func(voiceChannelID string) int
