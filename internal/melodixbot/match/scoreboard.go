package match

import (
	"math"
	"sort"
	"strconv"

	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

// Participant is whatever a scoreboard variant ranks: a Player in classic
// and elimination games, a Team in teams games.
type Participant interface {
	ID() string
	Name() string
	Score() float64
}

// GuessResult is one correct guesser's credit for a round. A round's
// results are ordered by guess arrival.
type GuessResult struct {
	UserID    string
	UserName  string
	AvatarURL string
	Points    float64
	Exp       float64
}

// ScoreField is one participant's display entry, ranked by descending
// score with insertion order breaking ties.
type ScoreField struct {
	Name   string
	Value  string
	Inline bool
}

// Scoreboard is the capability shared by the three game variants. The
// concrete variant is fixed at session creation. Callers serialize access;
// a scoreboard performs no locking of its own.
type Scoreboard interface {
	// Update credits the round's correct guessers, ordered by arrival.
	// It is called at most once per round, which is what keeps the
	// elimination life penalty single-shot.
	Update(results []GuessResult)

	// Winners is the running first-place set, maintained incrementally on
	// every credit. Ties are preserved.
	Winners() []Participant

	// IsEmpty reports whether nobody has registered a score yet (for
	// elimination: whether no player was ever added).
	IsEmpty() bool

	GameFinished(pref model.Preference) bool

	ScoreFields() []ScoreField
	PlayerIDs() []string
	PlayerNames() []string
	PlayerScore(userID string) float64
	PlayerExpGain(userID string) float64
	IsWinner(userID string) bool
}

// NewScoreboard builds the classic variant: points accumulate per player,
// no elimination.
func NewScoreboard() *ClassicScoreboard {
	return &ClassicScoreboard{
		players: map[string]*Player{},
	}
}

type ClassicScoreboard struct {
	players map[string]*Player
	order   []string

	firstPlace   []*Player
	highestScore float64
}

var _ Scoreboard = (*ClassicScoreboard)(nil)

func (s *ClassicScoreboard) Update(results []GuessResult) {
	for _, result := range results {
		s.credit(result)
	}
}

func (s *ClassicScoreboard) credit(result GuessResult) {
	player, ok := s.players[result.UserID]
	if !ok {
		player = NewPlayer(result.UserID, result.UserName, result.AvatarURL, result.Points)
		s.players[result.UserID] = player
		s.order = append(s.order, result.UserID)
	} else {
		player.IncrementScore(result.Points)
	}
	player.IncrementExp(result.Exp)

	winnerScore := player.Score()
	if winnerScore == s.highestScore {
		s.firstPlace = append(s.firstPlace, player)
	} else if winnerScore > s.highestScore {
		s.highestScore = winnerScore
		s.firstPlace = []*Player{player}
	}
}

func (s *ClassicScoreboard) Winners() []Participant {
	return playersAsParticipants(s.firstPlace)
}

func (s *ClassicScoreboard) IsEmpty() bool {
	return len(s.firstPlace) == 0
}

func (s *ClassicScoreboard) GameFinished(pref model.Preference) bool {
	return pref.IsGoalSet() && !s.IsEmpty() && s.firstPlace[0].Score() >= pref.Options.Goal
}

func (s *ClassicScoreboard) ScoreFields() []ScoreField {
	return scoreFieldsFor(s.rankedPlayers())
}

func (s *ClassicScoreboard) PlayerIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *ClassicScoreboard) PlayerNames() []string {
	names := make([]string, 0, len(s.order))
	for _, id := range s.order {
		names = append(names, s.players[id].Name())
	}
	return names
}

func (s *ClassicScoreboard) PlayerScore(userID string) float64 {
	if player, ok := s.players[userID]; ok {
		return player.Score()
	}
	return 0
}

func (s *ClassicScoreboard) PlayerExpGain(userID string) float64 {
	if player, ok := s.players[userID]; ok {
		return player.ExpGain()
	}
	return 0
}

func (s *ClassicScoreboard) IsWinner(userID string) bool {
	for _, player := range s.firstPlace {
		if player.ID() == userID {
			return true
		}
	}
	return false
}

func (s *ClassicScoreboard) rankedPlayers() []*Player {
	players := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, s.players[id])
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score() > players[j].Score()
	})
	return players
}

func playersAsParticipants(players []*Player) []Participant {
	participants := make([]Participant, len(players))
	for i, player := range players {
		participants[i] = player
	}
	return participants
}

func scoreFieldsFor(players []*Player) []ScoreField {
	fields := make([]ScoreField, len(players))
	for i, player := range players {
		fields[i] = ScoreField{
			Name:   player.Name(),
			Value:  FormatScore(player.Score()),
			Inline: true,
		}
	}
	return fields
}

// FormatScore renders whole values without a fraction and everything else
// to one decimal place.
func FormatScore(score float64) string {
	rounded := math.Round(score*10) / 10
	if rounded == math.Trunc(rounded) {
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}
