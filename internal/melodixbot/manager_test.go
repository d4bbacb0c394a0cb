package melodixbot

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/melodix-games/melodix/internal/catalog"
	"github.com/melodix-games/melodix/internal/database"
	prefDb "github.com/melodix-games/melodix/internal/database/guildpref/database"
	prefModel "github.com/melodix-games/melodix/internal/database/guildpref/model"
	statDb "github.com/melodix-games/melodix/internal/database/stat/database"
	"github.com/melodix-games/melodix/internal/guess"
	"github.com/melodix-games/melodix/internal/melodixbot/match"
)

type recordingNotifier struct {
	mtx    sync.Mutex
	infos  []match.Embed
	errs   []match.Embed
	nextID int
}

func (n *recordingNotifier) SendInfo(channelID string, embed match.Embed) (match.MessageRef, error) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.infos = append(n.infos, embed)
	n.nextID++
	return match.MessageRef{ChannelID: channelID, MessageID: strconv.Itoa(n.nextID)}, nil
}

func (n *recordingNotifier) SendError(channelID string, embed match.Embed) error {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.errs = append(n.errs, embed)
	return nil
}

func (n *recordingNotifier) Delete(ref match.MessageRef) error {
	return nil
}

func (n *recordingNotifier) lastError() string {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if len(n.errs) == 0 {
		return ""
	}
	return n.errs[len(n.errs)-1].Title
}

func (n *recordingNotifier) lastInfo() match.Embed {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if len(n.infos) == 0 {
		return match.Embed{}
	}
	return n.infos[len(n.infos)-1]
}

type silentVoice struct{}

type silentConn struct{}

func (silentConn) Stop() error { return nil }

func (silentVoice) Join(string) (match.VoiceConn, error) { return silentConn{}, nil }
func (silentVoice) Play(match.VoiceConn, string) error   { return nil }
func (silentVoice) Disconnect(match.VoiceConn) error     { return nil }

type managerFixture struct {
	manager  *manager
	notifier *recordingNotifier
	statDb   *statDb.DB
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	bdb, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bdb.Close()
	})
	db := &database.DB{DB: bdb}

	songs := make([]catalog.Song, 5)
	for i := range songs {
		songs[i] = catalog.Song{
			Name:        "song" + strconv.Itoa(i),
			Artist:      "artist",
			MediaRef:    "ref" + strconv.Itoa(i),
			Members:     prefModel.GenderCoed,
			PublishYear: 2020,
			Views:       int64(100 - i),
		}
	}

	notifier := &recordingNotifier{}
	stats := statDb.New(db, nil)

	m := NewManager(
		Platform{
			Gateway:   nil,
			Voice:     silentVoice{},
			Out:       notifier,
			Oracle:    guess.New(),
			Occupancy: func(string) int { return 1 },
		},
		&Config{
			CommandPrefix:  ",",
			GuessWindow:    10 * time.Millisecond,
			SkipMessageTTL: 10 * time.Millisecond,
		},
		prefDb.New(db, nil),
		stats,
		catalog.NewMemoryProvider(songs),
	)

	return &managerFixture{manager: m, notifier: notifier, statDb: stats}
}

func update(text string) Update {
	return Update{
		GuildID:        "g1",
		ChannelID:      "c1",
		UserID:         "u1",
		UserName:       "u1",
		VoiceChannelID: "v1",
		Text:           text,
	}
}

func TestManagerPlayCreatesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)
	m := f.manager

	require.NoError(t, m.handleUpdate(ctx, update(",play")))

	session, ok := m.playingSession("g1")
	require.True(t, ok)
	assert.Equal(t, match.GameTypeClassic, session.GameType())
	assert.True(t, session.RoundInProgress())

	// second play is rejected while a game runs
	require.NoError(t, m.handleUpdate(ctx, update(",play")))
	assert.Equal(t, "Game in progress", f.notifier.lastError())

	require.NoError(t, m.handleUpdate(ctx, update(",end")))
	_, ok = m.playingSession("g1")
	assert.False(t, ok, "ended session is detached")
}

func TestManagerPlayRequiresVoiceChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)

	upd := update(",play")
	upd.VoiceChannelID = ""
	require.NoError(t, f.manager.handleUpdate(ctx, upd))

	_, ok := f.manager.playingSession("g1")
	assert.False(t, ok)
	assert.Equal(t, "Join voice first", f.notifier.lastError())
}

func TestManagerEliminationLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)
	m := f.manager

	require.NoError(t, m.handleUpdate(ctx, update(",play elimination 5")))

	session, ok := m.playingSession("g1")
	require.True(t, ok)
	assert.Equal(t, match.GameTypeElimination, session.GameType())
	assert.False(t, session.SessionInitialized(), "elimination opens a lobby")

	require.NoError(t, m.handleUpdate(ctx, update(",join")))
	joined := f.notifier.lastInfo()
	assert.Equal(t, "Joined", joined.Title)
	assert.Contains(t, joined.Description, "Playing: u1", "join reply lists the roster")

	require.NoError(t, m.handleUpdate(ctx, update(",begin")))
	assert.True(t, session.SessionInitialized())

	es := session.Scoreboard().(*match.EliminationScoreboard)
	assert.Equal(t, 5, es.PlayerLives("u1"))
}

func TestManagerGoalRejectedWhenLeaderAhead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)
	m := f.manager

	require.NoError(t, m.handleUpdate(ctx, update(",goal 10")))

	pref, err := m.prefDb.Fetch("g1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, pref.Options.Goal)

	require.NoError(t, m.handleUpdate(ctx, update(",play")))
	session, _ := m.playingSession("g1")

	// hand the leader 3 points
	session.Scoreboard().Update([]match.GuessResult{{UserID: "u1", UserName: "u1", Points: 3}})

	require.NoError(t, m.handleUpdate(ctx, update(",goal 2")))
	assert.Equal(t, "Goal too low", f.notifier.lastError())

	pref, err = m.prefDb.Fetch("g1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, pref.Options.Goal, "rejected goal leaves the stored goal alone")

	// raising above the leader is fine
	require.NoError(t, m.handleUpdate(ctx, update(",goal 20")))
	pref, err = m.prefDb.Fetch("g1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, pref.Options.Goal)

	require.NoError(t, m.handleUpdate(ctx, update(",end")))
}

func TestManagerGuessRouting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)
	m := f.manager

	// a guess without a session is a no-op
	require.NoError(t, m.handleUpdate(ctx, update("song0")))

	require.NoError(t, m.handleUpdate(ctx, update(",play")))
	session, _ := m.playingSession("g1")

	song, ok := session.CurrentSong()
	require.True(t, ok)
	require.NoError(t, m.handleUpdate(ctx, update(song.Name)))

	require.Eventually(t, func() bool {
		return session.Scoreboard().PlayerScore("u1") == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, m.handleUpdate(ctx, update(",end")))

	// session outcome landed in lifetime stats
	stat, err := f.statDb.Fetch("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stat.GamesPlayed)
	assert.Equal(t, 1, stat.SongsGuessed)
}

func TestManagerSweepEndsIdleSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newManagerFixture(t)
	m := f.manager
	m.config.InactiveThreshold = time.Nanosecond
	m.config.SweepInterval = 5 * time.Millisecond

	require.NoError(t, m.handleUpdate(ctx, update(",play")))
	_, ok := m.playingSession("g1")
	require.True(t, ok)

	sweepCtx, cancel := context.WithCancel(ctx)
	go func() {
		_ = m.sweep(sweepCtx)
	}()
	defer cancel()

	require.Eventually(t, func() bool {
		_, ok := m.playingSession("g1")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}
