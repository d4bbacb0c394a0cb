package melodixbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/melodix-games/melodix/internal/catalog"
	prefDb "github.com/melodix-games/melodix/internal/database/guildpref/database"
	statDb "github.com/melodix-games/melodix/internal/database/stat/database"
	"github.com/melodix-games/melodix/internal/logging"
	"github.com/melodix-games/melodix/internal/melodixbot/match"
)

// mailboxSize bounds how many queued updates one guild can fall behind.
const mailboxSize = 64

// Platform bundles everything the bot needs from the chat platform.
type Platform struct {
	Gateway   Gateway
	Voice     match.VoicePlayer
	Out       match.Notifier
	Oracle    match.GuessOracle
	Occupancy match.OccupancyFn
}

func NewManager(platform Platform, config *Config, prefDb *prefDb.DB, statDb *statDb.DB, songs catalog.Provider) *manager {
	return &manager{
		platform:        platform,
		config:          config,
		playingSessions: map[string]*match.Session{},
		mailboxes:       map[string]chan Update{},
		prefDb:          prefDb,
		statDb:          statDb,
		songs:           songs,
	}
}

type manager struct {
	mtx sync.RWMutex

	platform Platform
	config   *Config

	// key: guildId active playing session
	playingSessions map[string]*match.Session
	// key: guildId update queue, one consumer goroutine each
	mailboxes map[string]chan Update

	prefDb *prefDb.DB
	statDb *statDb.DB
	songs  catalog.Provider

	cancel func()
	wg     sync.WaitGroup
}

func (m *manager) Stop() {
	m.cancel()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.dispatch(ctx)
	})
	g.Go(func() error {
		return m.sweep(ctx)
	})

	err := g.Wait()
	m.wg.Wait()
	m.shutdown(ctx)
	return err
}

// dispatch fans gateway updates out to per-guild queues. One goroutine per
// guild keeps a guild's commands strictly ordered without serializing
// guilds against each other.
func (m *manager) dispatch(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("manager.dispatch")

	for {
		select {
		case upd, ok := <-m.platform.Gateway.Updates():
			if !ok {
				return nil
			}
			if upd.Bot || upd.GuildID == "" {
				continue
			}
			select {
			case m.mailbox(ctx, upd.GuildID) <- upd:
			default:
				logger.Warnf("guild %s: mailbox full, dropping update", upd.GuildID)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *manager) mailbox(ctx context.Context, guildID string) chan Update {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if ch, ok := m.mailboxes[guildID]; ok {
		return ch
	}

	ch := make(chan Update, mailboxSize)
	m.mailboxes[guildID] = ch
	m.wg.Add(1)
	go m.guildLoop(ctx, ch)

	return ch
}

func (m *manager) guildLoop(ctx context.Context, ch chan Update) {
	defer m.wg.Done()
	logger := logging.FromContext(ctx).Named("manager.guildLoop")

	for {
		select {
		case upd := <-ch:
			if err := m.handleUpdate(ctx, upd); err != nil {
				logger.Errorf("handle update: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// sweep ends sessions whose guild has gone quiet.
func (m *manager) sweep(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("manager.sweep")
	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, session := range m.sessions() {
				if time.Since(session.LastActive()) >= m.config.InactiveThreshold {
					logger.Infof("guild %s: inactive session swept", session.Config.GuildID)
					session.EndSession(ctx)
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *manager) handleUpdate(ctx context.Context, upd Update) error {
	if !strings.HasPrefix(upd.Text, m.config.CommandPrefix) {
		return m.handleGuess(ctx, upd)
	}

	args := strings.Fields(strings.TrimPrefix(upd.Text, m.config.CommandPrefix))
	if len(args) == 0 {
		return nil
	}

	return m.handleCommand(ctx, upd, args[0], args[1:])
}

func (m *manager) handleGuess(ctx context.Context, upd Update) error {
	session, ok := m.playingSession(upd.GuildID)
	if !ok {
		return nil
	}

	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	session.Guess(ctx, pref, upd.UserID, upd.UserName, upd.AvatarURL, upd.Text)
	return nil
}

// matchDoneFn detaches a finished session and folds its outcome into the
// lifetime stats. Called with the session lock held, so it only touches
// fields that are final by then.
func (m *manager) matchDoneFn(session *match.Session) error {
	m.mtx.Lock()
	delete(m.playingSessions, session.Config.GuildID)
	m.mtx.Unlock()

	for _, result := range session.Results() {
		if err := m.statDb.Apply(result.UserID, statDb.Delta{
			Won:          result.Won,
			SongsGuessed: result.SongsGuessed,
			ExpGained:    result.ExpGained,
		}); err != nil {
			return fmt.Errorf("stat db apply: %w", err)
		}
	}

	return nil
}

func (m *manager) shutdown(ctx context.Context) {
	for _, session := range m.sessions() {
		session.EndSession(ctx)
	}
}

func (m *manager) sessions() []*match.Session {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	sessions := make([]*match.Session, 0, len(m.playingSessions))
	for _, session := range m.playingSessions {
		sessions = append(sessions, session)
	}
	return sessions
}

func (m *manager) playingSession(guildID string) (*match.Session, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	session, ok := m.playingSessions[guildID]

	return session, ok
}
