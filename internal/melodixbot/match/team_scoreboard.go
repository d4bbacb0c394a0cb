package match

import (
	"sort"

	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

// soleLeaderExpBonus rewards the sole first-place team's members when
// reading back their experience.
const soleLeaderExpBonus = 1.1

// NewTeamScoreboard builds the teams variant: participants are teams, a
// correct guess credits experience to every simultaneous guesser but the
// score point only to the first guesser's team.
func NewTeamScoreboard() *TeamScoreboard {
	return &TeamScoreboard{
		teams: map[string]*Team{},
	}
}

type TeamScoreboard struct {
	teams map[string]*Team
	order []string

	firstPlace   []*Team
	highestScore float64
}

var _ Scoreboard = (*TeamScoreboard)(nil)

func (s *TeamScoreboard) Update(results []GuessResult) {
	if len(results) == 0 {
		return
	}

	// everybody gets exp
	for _, result := range results {
		if player := s.Player(result.UserID); player != nil {
			player.IncrementExp(result.Exp)
		}
	}

	// the first guesser earns the point for their team
	first := results[0]
	player := s.Player(first.UserID)
	if player == nil {
		return
	}
	player.IncrementScore(first.Points)

	team := s.TeamOfPlayer(first.UserID)
	teamScore := team.Score()
	if teamScore == s.highestScore {
		s.firstPlace = append(s.firstPlace, team)
	} else if teamScore > s.highestScore {
		s.highestScore = teamScore
		s.firstPlace = []*Team{team}
	}
}

// AddTeam creates a team holding its founder, moving the founder out of
// any previous team first.
func (s *TeamScoreboard) AddTeam(name string, founder *Player) *Team {
	if s.Player(founder.ID()) != nil {
		s.RemovePlayer(founder.ID())
	}
	team := NewTeam(name, founder)
	s.teams[name] = team
	s.order = append(s.order, name)
	return team
}

// AddPlayer moves the player into the named team, removing them from any
// team they were on.
func (s *TeamScoreboard) AddPlayer(teamName string, player *Player) {
	s.RemovePlayer(player.ID())
	s.teams[teamName].AddPlayer(player)
}

// RemovePlayer removes the player from their team. A team left empty is
// destroyed; if it was alone in first place, first place is recomputed
// from the remaining teams, or cleared when every remaining score is 0.
func (s *TeamScoreboard) RemovePlayer(userID string) {
	team := s.TeamOfPlayer(userID)
	if team == nil {
		return
	}
	team.RemovePlayer(userID)
	if team.NumPlayers() > 0 {
		return
	}

	for i, t := range s.firstPlace {
		if t == team {
			s.firstPlace = append(s.firstPlace[:i], s.firstPlace[i+1:]...)
			break
		}
	}
	delete(s.teams, team.Name())
	for i, name := range s.order {
		if name == team.Name() {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if len(s.firstPlace) > 0 {
		return
	}

	// the destroyed team was the only leader; second place moves up
	var highest float64
	for _, name := range s.order {
		if score := s.teams[name].Score(); score > highest {
			highest = score
		}
	}
	s.highestScore = highest
	if highest == 0 {
		return
	}
	for _, name := range s.order {
		if t := s.teams[name]; t.Score() == highest {
			s.firstPlace = append(s.firstPlace, t)
		}
	}
}

func (s *TeamScoreboard) HasTeam(name string) bool {
	_, ok := s.teams[name]
	return ok
}

func (s *TeamScoreboard) Team(name string) *Team {
	return s.teams[name]
}

func (s *TeamScoreboard) Teams() []*Team {
	teams := make([]*Team, 0, len(s.order))
	for _, name := range s.order {
		teams = append(teams, s.teams[name])
	}
	return teams
}

func (s *TeamScoreboard) TeamOfPlayer(userID string) *Team {
	for _, name := range s.order {
		if s.teams[name].HasPlayer(userID) {
			return s.teams[name]
		}
	}
	return nil
}

func (s *TeamScoreboard) Player(userID string) *Player {
	if team := s.TeamOfPlayer(userID); team != nil {
		return team.Player(userID)
	}
	return nil
}

func (s *TeamScoreboard) IsTeamFirstPlace(name string) bool {
	for _, team := range s.firstPlace {
		if team.Name() == name {
			return true
		}
	}
	return false
}

func (s *TeamScoreboard) Winners() []Participant {
	participants := make([]Participant, len(s.firstPlace))
	for i, team := range s.firstPlace {
		participants[i] = team
	}
	return participants
}

func (s *TeamScoreboard) IsEmpty() bool {
	return len(s.firstPlace) == 0
}

func (s *TeamScoreboard) GameFinished(pref model.Preference) bool {
	return pref.IsGoalSet() && !s.IsEmpty() && s.firstPlace[0].Score() >= pref.Options.Goal
}

func (s *TeamScoreboard) ScoreFields() []ScoreField {
	if s.IsEmpty() {
		return nil
	}
	teams := s.Teams()
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Score() > teams[j].Score()
	})
	fields := make([]ScoreField, len(teams))
	for i, team := range teams {
		fields[i] = ScoreField{
			Name:   "Team " + team.Name(),
			Value:  FormatScore(team.Score()),
			Inline: true,
		}
	}
	return fields
}

func (s *TeamScoreboard) PlayerIDs() []string {
	var ids []string
	for _, name := range s.order {
		for _, player := range s.teams[name].Players() {
			ids = append(ids, player.ID())
		}
	}
	return ids
}

func (s *TeamScoreboard) PlayerNames() []string {
	var names []string
	for _, name := range s.order {
		for _, player := range s.teams[name].Players() {
			names = append(names, player.Name())
		}
	}
	return names
}

func (s *TeamScoreboard) PlayerScore(userID string) float64 {
	if player := s.Player(userID); player != nil {
		return player.Score()
	}
	return 0
}

// PlayerExpGain applies the sole-leader bonus: the player's team must be
// the only team in first place and more than one team must exist.
func (s *TeamScoreboard) PlayerExpGain(userID string) float64 {
	player := s.Player(userID)
	if player == nil {
		return 0
	}
	team := s.TeamOfPlayer(userID)
	if s.IsTeamFirstPlace(team.Name()) && len(s.teams) > 1 && len(s.firstPlace) == 1 {
		return player.ExpGain() * soleLeaderExpBonus
	}
	return player.ExpGain()
}

func (s *TeamScoreboard) IsWinner(userID string) bool {
	team := s.TeamOfPlayer(userID)
	if team == nil {
		return false
	}
	return s.IsTeamFirstPlace(team.Name())
}
