package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodix-games/melodix/internal/catalog"
)

func TestRequiredSkips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		occupancy int
		expected  int
	}{
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{5, 3},
		{10, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RequiredSkips(tt.occupancy), "occupancy %d", tt.occupancy)
	}
}

func TestRoundSkipVotes(t *testing.T) {
	t.Parallel()

	r := NewRound(catalog.Song{Name: "song"})
	assert.Equal(t, 0, r.NumSkippers())

	r.UserSkipped("u1")
	r.UserSkipped("u1")
	assert.Equal(t, 1, r.NumSkippers(), "double votes do not stack")

	r.UserSkipped("u2")
	assert.Equal(t, 2, r.NumSkippers())

	assert.False(t, r.SkipAchieved())
	r.AchieveSkip()
	assert.True(t, r.SkipAchieved())
}

func TestRoundCorrectGuessers(t *testing.T) {
	t.Parallel()

	r := NewRound(catalog.Song{Name: "song"})
	assert.False(t, r.HasCorrectGuess())

	r.AddCorrectGuesser(guess("u1", 1, 10))
	r.AddCorrectGuesser(guess("u2", 0.5, 5))
	r.AddCorrectGuesser(guess("u1", 1, 10))

	guessers := r.CorrectGuessers()
	require.Len(t, guessers, 2, "repeat guesses do not stack")
	assert.Equal(t, "u1", guessers[0].UserID)
	assert.Equal(t, "u2", guessers[1].UserID)
	assert.True(t, r.HasCorrectGuess())
}

func TestRoundIdentity(t *testing.T) {
	t.Parallel()

	r1 := NewRound(catalog.Song{Name: "a"})
	r2 := NewRound(catalog.Song{Name: "a"})
	assert.NotEqual(t, r1.ID(), r2.ID())
	assert.Equal(t, "a", r1.Song().Name)
}
