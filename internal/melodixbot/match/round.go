package match

import (
	"github.com/google/uuid"

	"github.com/melodix-games/melodix/internal/catalog"
)

// Round is one question's ephemeral state. Deferred work (guess timeout,
// skip-message deletion) is keyed by the round's ID so stale timers cannot
// touch a round that already moved on.
type Round struct {
	id   string
	song catalog.Song

	skipVoters   map[string]struct{}
	skipAchieved bool

	correctGuessers []GuessResult
	guesserSeen     map[string]struct{}
}

func NewRound(song catalog.Song) *Round {
	return &Round{
		id:          uuid.NewString(),
		song:        song,
		skipVoters:  map[string]struct{}{},
		guesserSeen: map[string]struct{}{},
	}
}

func (r *Round) ID() string {
	return r.id
}

func (r *Round) Song() catalog.Song {
	return r.song
}

// UserSkipped records a skip vote. Voting twice is a no-op.
func (r *Round) UserSkipped(userID string) {
	r.skipVoters[userID] = struct{}{}
}

func (r *Round) NumSkippers() int {
	return len(r.skipVoters)
}

// SkipAchieved is a one-way latch; the session sets it once the threshold
// is met so later votes in the round become no-ops.
func (r *Round) SkipAchieved() bool {
	return r.skipAchieved
}

func (r *Round) AchieveSkip() {
	r.skipAchieved = true
}

// RequiredSkips is the live majority threshold for the given non-bot voice
// channel occupancy.
func RequiredSkips(occupancy int) int {
	return occupancy/2 + 1
}

// AddCorrectGuesser appends to the round's arrival-ordered guesser list.
// Repeat guesses by the same user do not stack.
func (r *Round) AddCorrectGuesser(result GuessResult) {
	if _, ok := r.guesserSeen[result.UserID]; ok {
		return
	}
	r.guesserSeen[result.UserID] = struct{}{}
	r.correctGuessers = append(r.correctGuessers, result)
}

func (r *Round) CorrectGuessers() []GuessResult {
	guessers := make([]GuessResult, len(r.correctGuessers))
	copy(guessers, r.correctGuessers)
	return guessers
}

func (r *Round) HasCorrectGuess() bool {
	return len(r.correctGuessers) > 0
}
