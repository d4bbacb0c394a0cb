package model

import "time"

type ShuffleType string

const (
	// ShuffleRandom picks any eligible song, repeats allowed.
	ShuffleRandom ShuffleType = "random"
	// ShuffleUnique avoids repeats until the eligible pool is exhausted.
	ShuffleUnique ShuffleType = "unique"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderCoed   Gender = "coed"
)

const (
	DefaultBeginningYear = 2008
	DefaultEndYear       = 2100
	DefaultLimit         = 500
	DefaultLives         = 10
)

// Options is the per-guild game configuration blob. Zero values mean
// "option disabled" for Goal, Duration and GuessTimeout.
type Options struct {
	Goal          float64     `json:"goal"`
	Duration      int         `json:"duration"`     // minutes
	GuessTimeout  int         `json:"guessTimeout"` // seconds
	StartingLives int         `json:"startingLives"`
	ShuffleType   ShuffleType `json:"shuffleType"`
	Gender        []Gender    `json:"gender"`
	BeginningYear int         `json:"beginningYear"`
	EndYear       int         `json:"endYear"`
	LimitStart    int         `json:"limitStart"`
	LimitEnd      int         `json:"limitEnd"`
	Groups        []string    `json:"groups"`
}

func DefaultOptions() Options {
	return Options{
		StartingLives: DefaultLives,
		ShuffleType:   ShuffleRandom,
		Gender:        []Gender{GenderMale, GenderFemale, GenderCoed},
		BeginningYear: DefaultBeginningYear,
		EndYear:       DefaultEndYear,
		LimitStart:    0,
		LimitEnd:      DefaultLimit,
	}
}

type Preference struct {
	GuildID  string    `json:"guildId"`
	Options  Options   `json:"options"`
	JoinDate time.Time `json:"joinDate"`
}

func NewPreference(guildID string) Preference {
	return Preference{
		GuildID:  guildID,
		Options:  DefaultOptions(),
		JoinDate: time.Now(),
	}
}

func (p *Preference) IsGoalSet() bool {
	return p.Options.Goal > 0
}

func (p *Preference) IsDurationSet() bool {
	return p.Options.Duration > 0
}

func (p *Preference) IsGuessTimeoutSet() bool {
	return p.Options.GuessTimeout > 0
}

func (p *Preference) IsGroupsMode() bool {
	return len(p.Options.Groups) > 0
}

func (p *Preference) ResetGoal() {
	p.Options.Goal = 0
}
