package match

// Player is one participant's identity plus mutable score counters. A
// Player is owned by exactly one scoreboard (or one team) for the lifetime
// of a session.
type Player struct {
	id        string
	name      string
	avatarURL string
	score     float64
	expGain   float64
	lives     int
}

func NewPlayer(id, name, avatarURL string, score float64) *Player {
	return &Player{
		id:        id,
		name:      name,
		avatarURL: avatarURL,
		score:     score,
	}
}

func (p *Player) ID() string {
	return p.id
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) AvatarURL() string {
	return p.avatarURL
}

func (p *Player) Score() float64 {
	return p.score
}

func (p *Player) IncrementScore(points float64) {
	p.score += points
}

func (p *Player) ExpGain() float64 {
	return p.expGain
}

func (p *Player) IncrementExp(exp float64) {
	p.expGain += exp
}

func (p *Player) Lives() int {
	return p.lives
}

func (p *Player) SetLives(lives int) {
	p.lives = lives
}

// DecrementLife floors at zero. A dead player stays addressable for score
// queries.
func (p *Player) DecrementLife() {
	if p.lives > 0 {
		p.lives--
	}
}

func (p *Player) IsAlive() bool {
	return p.lives > 0
}
