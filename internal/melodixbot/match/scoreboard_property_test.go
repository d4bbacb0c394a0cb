package match

import (
	"testing"

	"pgregory.net/rapid"
)

// TestClassicScoreboardWinnersProperty checks that the incrementally
// maintained first-place set always equals a full scan for the maximum
// score, for any sequence of credits.
func TestClassicScoreboardWinnersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewScoreboard()

		userIDs := []string{"u1", "u2", "u3", "u4", "u5"}
		numCredits := rapid.IntRange(1, 40).Draw(t, "numCredits")

		for i := 0; i < numCredits; i++ {
			idx := rapid.IntRange(0, len(userIDs)-1).Draw(t, "userIdx")
			points := float64(rapid.IntRange(1, 40).Draw(t, "points")) / 4
			s.Update([]GuessResult{guess(userIDs[idx], points, points*10)})
		}

		// full-scan oracle over every credited player
		var maxScore float64
		for _, id := range s.PlayerIDs() {
			if score := s.PlayerScore(id); score > maxScore {
				maxScore = score
			}
		}

		expected := map[string]bool{}
		for _, id := range s.PlayerIDs() {
			if s.PlayerScore(id) == maxScore {
				expected[id] = true
			}
		}

		winners := s.Winners()
		if len(winners) != len(expected) {
			t.Fatalf("winner count = %d, full scan found %d (max %v)", len(winners), len(expected), maxScore)
		}
		for _, winner := range winners {
			if !expected[winner.ID()] {
				t.Fatalf("winner %s does not hold the max score %v", winner.ID(), maxScore)
			}
			if winner.Score() != maxScore {
				t.Fatalf("winner %s score = %v, want %v", winner.ID(), winner.Score(), maxScore)
			}
			if !s.IsWinner(winner.ID()) {
				t.Fatalf("IsWinner(%s) = false for a reported winner", winner.ID())
			}
		}
	})
}

// TestEliminationScoreboardLivesProperty checks the life-accounting
// invariants under random guess and skip rounds: lives never go negative,
// never rise, and the winner set tracks the max-lives scan once scoring
// started.
func TestEliminationScoreboardLivesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lives := rapid.IntRange(1, 10).Draw(t, "lives")
		numPlayers := rapid.IntRange(2, 5).Draw(t, "numPlayers")

		s := NewEliminationScoreboard(lives)
		ids := make([]string, numPlayers)
		for i := range ids {
			ids[i] = "u" + string(rune('a'+i))
			s.AddPlayer(ids[i], ids[i], "")
		}

		numRounds := rapid.IntRange(1, 30).Draw(t, "numRounds")
		scored := false
		for i := 0; i < numRounds; i++ {
			if rapid.Bool().Draw(t, "skip") {
				s.DecrementAllLives()
			} else {
				idx := rapid.IntRange(0, numPlayers-1).Draw(t, "guesserIdx")
				s.Update([]GuessResult{guess(ids[idx], 1, 10)})
				scored = true
			}
		}

		maxLives := 0
		for _, id := range ids {
			if l := s.PlayerLives(id); l < 0 {
				t.Fatalf("player %s has negative lives %d", id, l)
			} else if l > maxLives {
				maxLives = l
			}
		}
		if maxLives > lives {
			t.Fatalf("max lives %d exceeds starting lives %d", maxLives, lives)
		}

		if scored {
			for _, winner := range s.Winners() {
				if s.PlayerLives(winner.ID()) != maxLives {
					t.Fatalf("winner %s has %d lives, max is %d", winner.ID(), s.PlayerLives(winner.ID()), maxLives)
				}
			}
			if len(s.Winners()) == 0 {
				t.Fatal("no winners after scoring rounds")
			}
		}
	})
}
