package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/melodix-games/melodix/internal/logging"
	"github.com/melodix-games/melodix/internal/melodixbot"
	"github.com/melodix-games/melodix/internal/melodixbot/match"
)

const (
	guildID        = "console"
	textChannelID  = "console"
	voiceChannelID = "console-voice"
)

// Console stands in for a chat platform during local development: stdin
// lines become updates, embeds print to stdout, audio playback is logged.
// Input format is "<user> <text>", e.g. "alice ,play elimination".
type Console struct {
	mtx sync.Mutex

	updates   chan melodixbot.Update
	seenUsers map[string]struct{}
	nextMsgID int
}

func New() *Console {
	return &Console{
		updates:   make(chan melodixbot.Update),
		seenUsers: map[string]struct{}{},
	}
}

// Run pumps stdin into the update channel until EOF or cancellation.
func (c *Console) Run(ctx context.Context) error {
	logging.FromContext(ctx).Named("console.Run").Infof("reading updates from stdin")
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		user, text, ok := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if !ok || text == "" {
			continue
		}

		c.mtx.Lock()
		c.seenUsers[user] = struct{}{}
		c.mtx.Unlock()

		upd := melodixbot.Update{
			GuildID:        guildID,
			ChannelID:      textChannelID,
			UserID:         user,
			UserName:       user,
			VoiceChannelID: voiceChannelID,
			Text:           text,
		}

		select {
		case c.updates <- upd:
		case <-ctx.Done():
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan stdin: %w", err)
	}

	return nil
}

func (c *Console) Updates() <-chan melodixbot.Update {
	return c.updates
}

func (c *Console) SendInfo(channelID string, embed match.Embed) (match.MessageRef, error) {
	return c.print(channelID, "", embed)
}

func (c *Console) SendError(channelID string, embed match.Embed) error {
	_, err := c.print(channelID, "!", embed)
	return err
}

func (c *Console) Delete(ref match.MessageRef) error {
	fmt.Printf("[%s] (deleted message %s)\n", ref.ChannelID, ref.MessageID)
	return nil
}

func (c *Console) print(channelID, mark string, embed match.Embed) (match.MessageRef, error) {
	c.mtx.Lock()
	c.nextMsgID++
	msgID := strconv.Itoa(c.nextMsgID)
	c.mtx.Unlock()

	fmt.Printf("[%s] %s%s\n", channelID, mark, embed.Title)
	if embed.Description != "" {
		fmt.Println(embed.Description)
	}
	for _, field := range embed.Fields {
		fmt.Printf("  %s: %s\n", field.Name, field.Value)
	}

	return match.MessageRef{ChannelID: channelID, MessageID: msgID}, nil
}

type voiceConn struct{}

func (voiceConn) Stop() error {
	fmt.Println("(audio stopped)")
	return nil
}

func (c *Console) Join(voiceChannelID string) (match.VoiceConn, error) {
	fmt.Printf("(joined voice channel %s)\n", voiceChannelID)
	return voiceConn{}, nil
}

func (c *Console) Play(conn match.VoiceConn, mediaRef string) error {
	fmt.Printf("(now playing %s)\n", mediaRef)
	return nil
}

func (c *Console) Disconnect(conn match.VoiceConn) error {
	fmt.Println("(left voice channel)")
	return nil
}

// Occupancy counts everyone who has typed anything, which keeps skip
// thresholds meaningful in a terminal session.
func (c *Console) Occupancy(voiceChannelID string) int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if len(c.seenUsers) == 0 {
		return 1
	}
	return len(c.seenUsers)
}
