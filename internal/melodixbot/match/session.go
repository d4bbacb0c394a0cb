package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/melodix-games/melodix/internal/catalog"
	"github.com/melodix-games/melodix/internal/database/guildpref/model"
	"github.com/melodix-games/melodix/internal/logging"
)

const guessExpBase = 10.0

var (
	ErrNoEligibleSongs = fmt.Errorf("no eligible songs")
	ErrNotOwner        = fmt.Errorf("only the game owner can do that")
	ErrAlreadyBegun    = fmt.Errorf("game already begun")
	ErrNoTeams         = fmt.Errorf("no teams registered")
	ErrAlreadyJoined   = fmt.Errorf("player already joined")
	ErrAlreadyOnTeam   = fmt.Errorf("already a member of this team")
	ErrWrongGameType   = fmt.Errorf("wrong game type")
)

type endReason uint8

const (
	endReasonGuessed endReason = iota + 1
	endReasonSkipped
	endReasonTimeout
)

// Session runs one guild's game: a scoreboard variant fixed at creation,
// the current round, and the round lifecycle. All entry points serialize
// on the session mutex; timers re-enter through guarded handlers keyed by
// round identity.
type Session struct {
	Config Config

	mtx        sync.Mutex
	scoreboard Scoreboard
	round      *Round

	sessionInitialized bool
	finished           bool
	lastActive         time.Time
	startedAt          time.Time

	playedSongs map[string]struct{}
	guessCounts map[string]int

	voiceConn  VoiceConn
	guessTimer *time.Timer

	// results is populated once, when the session ends.
	results []PlayerResult
}

func NewSession(config Config) *Session {
	s := &Session{
		Config:      config,
		lastActive:  time.Now(),
		startedAt:   time.Now(),
		playedSongs: map[string]struct{}{},
		guessCounts: map[string]int{},
	}

	switch config.GameType {
	case GameTypeElimination:
		s.scoreboard = NewEliminationScoreboard(config.StartingLives)
	case GameTypeTeams:
		s.scoreboard = NewTeamScoreboard()
	default:
		// classic games have no lobby; the first round starts right away
		s.scoreboard = NewScoreboard()
		s.sessionInitialized = true
	}

	return s
}

func (s *Session) Scoreboard() Scoreboard {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.scoreboard
}

func (s *Session) GameType() GameType {
	return s.Config.GameType
}

func (s *Session) SessionInitialized() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.sessionInitialized
}

func (s *Session) Finished() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.finished
}

func (s *Session) LastActive() time.Time {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.lastActive
}

func (s *Session) LastActiveNow() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.lastActive = time.Now()
}

// RoundInProgress reports whether a question is currently open.
func (s *Session) RoundInProgress() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.round != nil
}

// CurrentSong returns the song of the in-flight round, if any.
func (s *Session) CurrentSong() (catalog.Song, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.round == nil {
		return catalog.Song{}, false
	}
	return s.round.Song(), true
}

// Begin flips an elimination/teams lobby into the playing state. Only the
// owner may begin, and only once.
func (s *Session) Begin(ctx context.Context, pref model.Preference, userID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.finished {
		return nil
	}
	if s.sessionInitialized {
		return ErrAlreadyBegun
	}
	if userID != s.Config.OwnerID {
		return ErrNotOwner
	}
	if ts, ok := s.scoreboard.(*TeamScoreboard); ok && len(ts.Teams()) == 0 {
		return ErrNoTeams
	}

	s.sessionInitialized = true
	s.startedAt = time.Now()
	s.lastActive = time.Now()

	return s.startRound(ctx, pref)
}

// JoinElimination registers a player. Joining after the owner began the
// game is a midgame join: full starting lives, no catch-up scoring.
func (s *Session) JoinElimination(userID, userName, avatarURL string) (player *Player, midgame bool, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	es, ok := s.scoreboard.(*EliminationScoreboard)
	if !ok {
		return nil, false, ErrWrongGameType
	}
	if es.HasPlayer(userID) {
		return nil, false, ErrAlreadyJoined
	}

	s.lastActive = time.Now()
	return es.AddPlayer(userID, userName, avatarURL), s.sessionInitialized, nil
}

type TeamJoinOutcome uint8

const (
	TeamCreated TeamJoinOutcome = iota + 1
	TeamJoined
)

// JoinTeam joins the named team, creating it when absent. A player
// switching teams takes their score with them.
func (s *Session) JoinTeam(userID, userName, avatarURL, teamName string) (TeamJoinOutcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ts, ok := s.scoreboard.(*TeamScoreboard)
	if !ok {
		return 0, ErrWrongGameType
	}

	player := ts.Player(userID)
	if player == nil {
		player = NewPlayer(userID, userName, avatarURL, 0)
	}

	s.lastActive = time.Now()

	if !ts.HasTeam(teamName) {
		ts.AddTeam(teamName, player)
		return TeamCreated, nil
	}

	if ts.Team(teamName).HasPlayer(userID) {
		return 0, ErrAlreadyOnTeam
	}
	ts.AddPlayer(teamName, player)
	return TeamJoined, nil
}

// StartRound selects the next song and opens a round. An empty candidate
// pool is recoverable: the guild is told and the session stays alive.
func (s *Session) StartRound(ctx context.Context, pref model.Preference) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.startRound(ctx, pref)
}

func (s *Session) startRound(ctx context.Context, pref model.Preference) error {
	logger := logging.FromContext(ctx).Named("match.startRound")

	if s.finished || !s.sessionInitialized || s.round != nil {
		return nil
	}

	if pref.IsDurationSet() && time.Since(s.startedAt) >= time.Duration(pref.Options.Duration)*time.Minute {
		logger.Infof("guild %s: duration limit reached, ending session", s.Config.GuildID)
		s.endSession(ctx)
		return nil
	}

	song, ok, err := s.pickSong(ctx, pref)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.Config.Out.SendError(s.Config.TextChannelID, renderNoSongsEmbed()); err != nil {
			logger.Errorf("send msg: %v", err)
		}
		return ErrNoEligibleSongs
	}

	s.round = NewRound(song)
	s.ensureVoiceConnection(ctx)
	if s.voiceConn != nil {
		if err := s.Config.Voice.Play(s.voiceConn, song.MediaRef); err != nil {
			logger.Errorf("guild %s: play: %v", s.Config.GuildID, err)
		}
	}

	if pref.IsGuessTimeoutSet() {
		roundID := s.round.ID()
		timeout := time.Duration(pref.Options.GuessTimeout) * time.Second
		s.guessTimer = time.AfterFunc(timeout, func() {
			s.handleGuessTimeout(ctx, pref, roundID)
		})
	}

	return nil
}

func (s *Session) pickSong(ctx context.Context, pref model.Preference) (catalog.Song, bool, error) {
	logger := logging.FromContext(ctx).Named("match.pickSong")

	var ignored map[string]struct{}
	unique := pref.Options.ShuffleType == model.ShuffleUnique
	if unique {
		ignored = s.playedSongs
	}

	songs, _, err := s.Config.Songs.FilteredSongs(pref, ignored)
	if err != nil {
		return catalog.Song{}, false, fmt.Errorf("filtered songs: %w", err)
	}

	// unique shuffle exhausted the pool; reset and go again
	if len(songs) == 0 && unique && len(s.playedSongs) > 0 {
		logger.Infof("guild %s: unique shuffle pool exhausted, resetting", s.Config.GuildID)
		s.playedSongs = map[string]struct{}{}
		if _, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderShuffleResetEmbed()); err != nil {
			logger.Errorf("send msg: %v", err)
		}
		songs, _, err = s.Config.Songs.FilteredSongs(pref, s.playedSongs)
		if err != nil {
			return catalog.Song{}, false, fmt.Errorf("filtered songs: %w", err)
		}
	}

	song, ok := catalog.RandomSong(songs)
	if !ok {
		return catalog.Song{}, false, nil
	}
	if unique {
		s.playedSongs[song.MediaRef] = struct{}{}
	}
	return song, true, nil
}

func (s *Session) ensureVoiceConnection(ctx context.Context) {
	if s.voiceConn != nil {
		return
	}
	logger := logging.FromContext(ctx).Named("match.ensureVoiceConnection")
	conn, err := s.Config.Voice.Join(s.Config.VoiceChannelID)
	if err != nil {
		// treated as no active connection, the game itself continues
		logger.Errorf("guild %s: voice join: %v", s.Config.GuildID, err)
		return
	}
	s.voiceConn = conn
}

// Guess feeds one player's free-text answer to the oracle. The first
// correct guess arms the round-completion timer; guesses landing inside
// the window join the round's batch.
func (s *Session) Guess(ctx context.Context, pref model.Preference, userID, userName, avatarURL, input string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.finished || s.round == nil {
		return
	}

	// lobby variants only take answers from registered players
	switch sb := s.scoreboard.(type) {
	case *EliminationScoreboard:
		if !sb.HasPlayer(userID) {
			return
		}
	case *TeamScoreboard:
		if sb.Player(userID) == nil {
			return
		}
	}

	ok, weight := s.Config.Oracle.Match(input, s.round.Song())
	if !ok {
		return
	}

	s.lastActive = time.Now()

	first := !s.round.HasCorrectGuess()
	s.round.AddCorrectGuesser(GuessResult{
		UserID:    userID,
		UserName:  userName,
		AvatarURL: avatarURL,
		Points:    weight,
		Exp:       computeExpGain(weight),
	})

	if first {
		roundID := s.round.ID()
		time.AfterFunc(s.Config.GuessWindow, func() {
			s.completeRound(ctx, pref, roundID)
		})
	}
}

func (s *Session) completeRound(ctx context.Context, pref model.Preference, roundID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.finished || s.round == nil || s.round.ID() != roundID {
		return
	}
	s.endRound(ctx, pref, endReasonGuessed)
}

func (s *Session) handleGuessTimeout(ctx context.Context, pref model.Preference, roundID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.finished || s.round == nil || s.round.ID() != roundID || s.round.HasCorrectGuess() {
		return
	}
	s.endRound(ctx, pref, endReasonTimeout)
}

// Skip records a vote and, on majority, latches the skip and moves on.
// Votes after the latch are no-ops.
func (s *Session) Skip(ctx context.Context, pref model.Preference, userID string) {
	logger := logging.FromContext(ctx).Named("match.Skip")

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.finished || s.round == nil {
		return
	}

	s.lastActive = time.Now()
	s.round.UserSkipped(userID)

	if s.round.SkipAchieved() {
		// song already being skipped
		return
	}

	required := RequiredSkips(s.Config.Occupancy(s.Config.VoiceChannelID))
	if s.round.NumSkippers() < required {
		if _, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderSkipNotificationEmbed(s.round.NumSkippers(), required)); err != nil {
			logger.Errorf("send msg: %v", err)
		}
		return
	}

	s.round.AchieveSkip()
	ref, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderSkipAchievedEmbed(s.round.NumSkippers(), required))
	if err != nil {
		logger.Errorf("send msg: %v", err)
	} else {
		s.scheduleMessageDelete(ctx, ref)
	}

	logger.Infof("guild %s: skip majority achieved", s.Config.GuildID)
	s.endRound(ctx, pref, endReasonSkipped)
}

// scheduleMessageDelete removes a transient notification later, unless the
// session has been torn down in the meantime.
func (s *Session) scheduleMessageDelete(ctx context.Context, ref MessageRef) {
	logger := logging.FromContext(ctx).Named("match.scheduleMessageDelete")
	time.AfterFunc(s.Config.SkipMessageTTL, func() {
		s.mtx.Lock()
		finished := s.finished
		s.mtx.Unlock()
		if finished {
			return
		}
		if err := s.Config.Out.Delete(ref); err != nil {
			logger.Errorf("delete msg: %v", err)
		}
	})
}

// endRound closes the current round, credits the scoreboard exactly once
// for the round's guesser batch, and either finishes the session or
// starts the next round. Lock held by caller.
func (s *Session) endRound(ctx context.Context, pref model.Preference, reason endReason) {
	logger := logging.FromContext(ctx).Named("match.endRound")

	round := s.round
	if round == nil {
		return
	}
	s.round = nil

	if s.guessTimer != nil {
		s.guessTimer.Stop()
		s.guessTimer = nil
	}
	if s.voiceConn != nil {
		if err := s.voiceConn.Stop(); err != nil {
			logger.Errorf("guild %s: stop audio: %v", s.Config.GuildID, err)
		}
	}

	switch reason {
	case endReasonGuessed:
		guessers := round.CorrectGuessers()
		s.scoreboard.Update(guessers)
		for _, guesser := range guessers {
			s.guessCounts[guesser.UserID]++
		}
		if _, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderRoundResultEmbed(guessers[0], round.Song())); err != nil {
			logger.Errorf("send msg: %v", err)
		}
	case endReasonSkipped, endReasonTimeout:
		if es, ok := s.scoreboard.(*EliminationScoreboard); ok {
			es.DecrementAllLives()
		}
		if reason == endReasonTimeout {
			if _, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderTimeoutEmbed(round.Song())); err != nil {
				logger.Errorf("send msg: %v", err)
			}
		}
	}

	if s.scoreboard.GameFinished(pref) {
		s.endSession(ctx)
		return
	}

	if err := s.startRound(ctx, pref); err != nil {
		logger.Errorf("guild %s: start round: %v", s.Config.GuildID, err)
	}
}

// EndSession tears the session down. Safe to call repeatedly and from any
// trigger path; only the first call announces the winner and releases the
// voice connection.
func (s *Session) EndSession(ctx context.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.endSession(ctx)
}

func (s *Session) endSession(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("match.endSession")

	if s.finished {
		return
	}
	s.finished = true
	s.round = nil

	if s.guessTimer != nil {
		s.guessTimer.Stop()
		s.guessTimer = nil
	}

	s.results = s.collectResults()

	if _, err := s.Config.Out.SendInfo(s.Config.TextChannelID, renderEndGameEmbed(s.scoreboard)); err != nil {
		logger.Errorf("send msg: %v", err)
	}

	if s.voiceConn != nil {
		if err := s.Config.Voice.Disconnect(s.voiceConn); err != nil {
			logger.Errorf("guild %s: voice disconnect: %v", s.Config.GuildID, err)
		}
		s.voiceConn = nil
	}

	if s.Config.DoneFn != nil {
		if err := s.Config.DoneFn(s); err != nil {
			logger.Errorf("done function: %v", err)
		}
	}

	logger.Infof("guild %s: game session closed", s.Config.GuildID)
}

// PlayerResult is one player's session outcome, used for lifetime stat
// accumulation.
type PlayerResult struct {
	UserID       string
	Won          bool
	SongsGuessed int
	ExpGained    float64
}

// Results holds each player's final outcome. It is written exactly once,
// during teardown, and never mutated after; DoneFn may read it without
// taking the session lock.
func (s *Session) Results() []PlayerResult {
	return s.results
}

func (s *Session) collectResults() []PlayerResult {
	ids := s.scoreboard.PlayerIDs()
	results := make([]PlayerResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, PlayerResult{
			UserID:       id,
			Won:          s.scoreboard.IsWinner(id),
			SongsGuessed: s.guessCounts[id],
			ExpGained:    s.scoreboard.PlayerExpGain(id),
		})
	}
	return results
}

func computeExpGain(weight float64) float64 {
	exp := guessExpBase * weight
	if isWeekend() {
		exp *= 2
	}
	return exp
}

func isWeekend() bool {
	switch time.Now().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
