package match

import (
	"regexp"
	"strings"
)

// markupModifiers are platform formatting characters stripped from
// user-provided team names: \ _ * ~ | `
var markupModifiers = regexp.MustCompile("[\\\\_*~|`]")

const maxTeamNameLength = 128

// SanitizeTeamName strips platform markup and truncates to the allowed
// length. An empty result means the input consisted solely of markup.
func SanitizeTeamName(raw string) string {
	name := markupModifiers.ReplaceAllString(strings.TrimSpace(raw), "")
	if runes := []rune(name); len(runes) > maxTeamNameLength {
		name = string(runes[:maxTeamNameLength])
	}
	return name
}

// Team groups players; its score is the sum of its members' individual
// scores.
type Team struct {
	name    string
	players map[string]*Player
	order   []string
}

func NewTeam(name string, founder *Player) *Team {
	t := &Team{
		name:    name,
		players: map[string]*Player{},
	}
	t.AddPlayer(founder)
	return t
}

func (t *Team) ID() string {
	return t.name
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) Score() float64 {
	var score float64
	for _, id := range t.order {
		score += t.players[id].Score()
	}
	return score
}

func (t *Team) AddPlayer(player *Player) {
	if _, ok := t.players[player.ID()]; ok {
		return
	}
	t.players[player.ID()] = player
	t.order = append(t.order, player.ID())
}

func (t *Team) RemovePlayer(userID string) {
	if _, ok := t.players[userID]; !ok {
		return
	}
	delete(t.players, userID)
	for i, id := range t.order {
		if id == userID {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *Team) HasPlayer(userID string) bool {
	_, ok := t.players[userID]
	return ok
}

func (t *Team) Player(userID string) *Player {
	return t.players[userID]
}

func (t *Team) NumPlayers() int {
	return len(t.players)
}

func (t *Team) Players() []*Player {
	players := make([]*Player, 0, len(t.order))
	for _, id := range t.order {
		players = append(players, t.players[id])
	}
	return players
}
