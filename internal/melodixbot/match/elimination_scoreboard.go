package match

import (
	"sort"

	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

// NewEliminationScoreboard builds the elimination variant: players spend
// lives instead of collecting points. A correct guess costs every other
// player one life.
func NewEliminationScoreboard(defaultLives int) *EliminationScoreboard {
	return &EliminationScoreboard{
		players:      map[string]*Player{},
		defaultLives: defaultLives,
	}
}

type EliminationScoreboard struct {
	players      map[string]*Player
	order        []string
	defaultLives int

	firstPlace []*Player
}

var _ Scoreboard = (*EliminationScoreboard)(nil)

// AddPlayer registers a player with the session-wide starting lives.
// Adding an existing player is a no-op.
func (s *EliminationScoreboard) AddPlayer(id, name, avatarURL string) *Player {
	return s.AddPlayerWithLives(id, name, avatarURL, s.defaultLives)
}

func (s *EliminationScoreboard) AddPlayerWithLives(id, name, avatarURL string, lives int) *Player {
	if player, ok := s.players[id]; ok {
		return player
	}
	player := NewPlayer(id, name, avatarURL, 0)
	player.SetLives(lives)
	s.players[id] = player
	s.order = append(s.order, id)
	return player
}

func (s *EliminationScoreboard) HasPlayer(id string) bool {
	_, ok := s.players[id]
	return ok
}

func (s *EliminationScoreboard) DefaultLives() int {
	return s.defaultLives
}

// Update credits exp to every listed guesser and applies the life penalty
// for the round: everyone but the first guesser loses one life. Update is
// called at most once per round, so the penalty cannot compound however
// many players guessed correctly.
func (s *EliminationScoreboard) Update(results []GuessResult) {
	if len(results) == 0 {
		return
	}

	for _, result := range results {
		if player, ok := s.players[result.UserID]; ok {
			player.IncrementExp(result.Exp)
		}
	}

	guesserID := results[0].UserID
	for _, id := range s.order {
		if id != guesserID {
			s.players[id].DecrementLife()
		}
	}

	s.recomputeFirstPlace()
}

// DecrementAllLives is the skip/timeout path: nobody guessed, everybody
// pays.
func (s *EliminationScoreboard) DecrementAllLives() {
	for _, id := range s.order {
		s.players[id].DecrementLife()
	}
	if len(s.firstPlace) > 0 {
		s.recomputeFirstPlace()
	}
}

// first place is the max-lives set; refreshed on every credit event while
// the per-round penalty is applied.
func (s *EliminationScoreboard) recomputeFirstPlace() {
	maxLives := -1
	for _, id := range s.order {
		if lives := s.players[id].Lives(); lives > maxLives {
			maxLives = lives
		}
	}
	s.firstPlace = s.firstPlace[:0]
	for _, id := range s.order {
		if player := s.players[id]; player.Lives() == maxLives {
			s.firstPlace = append(s.firstPlace, player)
		}
	}
}

func (s *EliminationScoreboard) Winners() []Participant {
	return playersAsParticipants(s.firstPlace)
}

// IsEmpty is true only when no player has ever been added; elimination
// lobbies register players before any scoring happens.
func (s *EliminationScoreboard) IsEmpty() bool {
	return len(s.players) == 0
}

// GameFinished reports whether at most one player is left standing. A
// lone-player session never finishes by elimination, only via goal or
// duration.
func (s *EliminationScoreboard) GameFinished(model.Preference) bool {
	if len(s.players) <= 1 {
		return false
	}
	return s.AliveCount() <= 1
}

func (s *EliminationScoreboard) AliveCount() int {
	var alive int
	for _, id := range s.order {
		if s.players[id].IsAlive() {
			alive++
		}
	}
	return alive
}

// LivesOfWeakestPlayer includes eliminated players sitting at zero.
func (s *EliminationScoreboard) LivesOfWeakestPlayer() int {
	weakest := -1
	for _, id := range s.order {
		if lives := s.players[id].Lives(); weakest == -1 || lives < weakest {
			weakest = lives
		}
	}
	if weakest == -1 {
		return 0
	}
	return weakest
}

func (s *EliminationScoreboard) PlayerLives(userID string) int {
	if player, ok := s.players[userID]; ok {
		return player.Lives()
	}
	return 0
}

func (s *EliminationScoreboard) ScoreFields() []ScoreField {
	players := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, s.players[id])
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Lives() > players[j].Lives()
	})
	fields := make([]ScoreField, len(players))
	for i, player := range players {
		fields[i] = ScoreField{
			Name:   player.Name(),
			Value:  FormatScore(float64(player.Lives())),
			Inline: true,
		}
	}
	return fields
}

func (s *EliminationScoreboard) PlayerIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *EliminationScoreboard) PlayerNames() []string {
	names := make([]string, 0, len(s.order))
	for _, id := range s.order {
		names = append(names, s.players[id].Name())
	}
	return names
}

func (s *EliminationScoreboard) PlayerScore(userID string) float64 {
	return float64(s.PlayerLives(userID))
}

func (s *EliminationScoreboard) PlayerExpGain(userID string) float64 {
	if player, ok := s.players[userID]; ok {
		return player.ExpGain()
	}
	return 0
}

func (s *EliminationScoreboard) IsWinner(userID string) bool {
	for _, player := range s.firstPlace {
		if player.ID() == userID {
			return true
		}
	}
	return false
}
