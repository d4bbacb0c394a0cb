package melodixbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	prefModel "github.com/melodix-games/melodix/internal/database/guildpref/model"
	statDb "github.com/melodix-games/melodix/internal/database/stat/database"
	"github.com/melodix-games/melodix/internal/logging"
	"github.com/melodix-games/melodix/internal/melodixbot/match"
)

func (m *manager) handleCommand(ctx context.Context, upd Update, cmd string, args []string) error {
	switch cmd {
	case "play":
		return m.handlePlayCmd(ctx, upd, args)
	case "join":
		return m.handleJoinCmd(ctx, upd, args)
	case "begin":
		return m.handleBeginCmd(ctx, upd)
	case "skip":
		return m.handleSkipCmd(ctx, upd)
	case "end":
		return m.handleEndCmd(ctx, upd)
	case "goal":
		return m.handleGoalCmd(ctx, upd, args)
	case "options":
		return m.handleOptionsCmd(ctx, upd)
	case "duration", "timeout", "shuffle", "gender", "groups", "limit", "year", "lives":
		return m.handleOptionSetterCmd(ctx, upd, cmd, args)
	case "profile":
		return m.handleProfileCmd(ctx, upd)
	case "count":
		return m.handleCountCmd(ctx, upd)
	case "help":
		m.sendInfo(ctx, upd.ChannelID, renderHelp(m.config.CommandPrefix))
	}

	return nil
}

func (m *manager) handlePlayCmd(ctx context.Context, upd Update, args []string) error {
	if _, ok := m.playingSession(upd.GuildID); ok {
		m.sendError(ctx, upd.ChannelID, simpleEmbed("Game in progress", "A game is already running in this server"))
		return nil
	}

	if upd.VoiceChannelID == "" {
		m.sendError(ctx, upd.ChannelID, simpleEmbed("Join voice first", "You need to be in a voice channel to start a game"))
		return nil
	}

	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	gameType := match.GameTypeClassic
	lives := pref.Options.StartingLives
	if lives <= 0 {
		lives = prefModel.DefaultLives
	}

	if len(args) > 0 {
		switch args[0] {
		case string(match.GameTypeElimination):
			gameType = match.GameTypeElimination
			if len(args) > 1 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n <= 0 {
					m.sendError(ctx, upd.ChannelID, simpleEmbed("Invalid lives", fmt.Sprintf("%q is not a valid number of lives", args[1])))
					return nil
				}
				lives = n
			}
		case string(match.GameTypeTeams):
			gameType = match.GameTypeTeams
		default:
			m.sendError(ctx, upd.ChannelID, simpleEmbed("Unknown game mode", fmt.Sprintf("%q is not a game mode. Try elimination or teams", args[0])))
			return nil
		}
	}

	session := match.NewSession(match.Config{
		GuildID:        upd.GuildID,
		TextChannelID:  upd.ChannelID,
		VoiceChannelID: upd.VoiceChannelID,
		OwnerID:        upd.UserID,
		GameType:       gameType,
		StartingLives:  lives,
		GuessWindow:    m.config.GuessWindow,
		SkipMessageTTL: m.config.SkipMessageTTL,
		Songs:          m.songs,
		Voice:          m.platform.Voice,
		Out:            m.platform.Out,
		Oracle:         m.platform.Oracle,
		Occupancy:      m.platform.Occupancy,
		DoneFn:         m.matchDoneFn,
	})

	m.mtx.Lock()
	m.playingSessions[upd.GuildID] = session
	m.mtx.Unlock()

	if gameType == match.GameTypeClassic {
		m.sendInfo(ctx, upd.ChannelID, renderGameStarting(upd.UserName, gameType, lives))
		if err := session.StartRound(ctx, pref); err != nil && !errors.Is(err, match.ErrNoEligibleSongs) {
			return fmt.Errorf("start round: %w", err)
		}
		return nil
	}

	m.sendInfo(ctx, upd.ChannelID, renderLobby(m.config.CommandPrefix, gameType, lives))
	return nil
}

func (m *manager) handleJoinCmd(ctx context.Context, upd Update, args []string) error {
	session, ok := m.playingSession(upd.GuildID)
	if !ok {
		m.sendError(ctx, upd.ChannelID, simpleEmbed("No game", "There is no game to join. Start one with "+m.config.CommandPrefix+"play"))
		return nil
	}

	switch session.GameType() {
	case match.GameTypeElimination:
		player, midgame, err := session.JoinElimination(upd.UserID, upd.UserName, upd.AvatarURL)
		if err != nil {
			if errors.Is(err, match.ErrAlreadyJoined) {
				m.sendError(ctx, upd.ChannelID, simpleEmbed("Already joined", "You are already in this game"))
				return nil
			}
			return fmt.Errorf("join elimination: %w", err)
		}

		if midgame {
			m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Joined midgame", fmt.Sprintf("**%s** jumps in with %d lives", upd.UserName, player.Lives())))
		} else {
			roster := strings.Join(session.Scoreboard().PlayerNames(), ", ")
			m.sendInfo(ctx, upd.ChannelID, simpleEmbed(
				"Joined",
				fmt.Sprintf("**%s** joined with %d lives. Playing: %s", upd.UserName, player.Lives(), roster),
			))
		}
	case match.GameTypeTeams:
		teamName := match.SanitizeTeamName(strings.Join(args, " "))
		if teamName == "" {
			m.sendError(ctx, upd.ChannelID, simpleEmbed("Team name required", "Give a team name: "+m.config.CommandPrefix+"join <team>"))
			return nil
		}

		outcome, err := session.JoinTeam(upd.UserID, upd.UserName, upd.AvatarURL, teamName)
		if err != nil {
			if errors.Is(err, match.ErrAlreadyOnTeam) {
				m.sendError(ctx, upd.ChannelID, simpleEmbed("Already on team", fmt.Sprintf("You are already on **%s**", teamName)))
				return nil
			}
			return fmt.Errorf("join team: %w", err)
		}

		switch outcome {
		case match.TeamCreated:
			m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Team created", fmt.Sprintf("**%s** founded team **%s**", upd.UserName, teamName)))
		case match.TeamJoined:
			m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Team joined", fmt.Sprintf("**%s** joined team **%s**", upd.UserName, teamName)))
		}
	default:
		m.sendError(ctx, upd.ChannelID, simpleEmbed("No teams here", "Classic games need no joining, just guess away"))
	}

	return nil
}

func (m *manager) handleBeginCmd(ctx context.Context, upd Update) error {
	session, ok := m.playingSession(upd.GuildID)
	if !ok {
		return nil
	}

	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	if err := session.Begin(ctx, pref, upd.UserID); err != nil {
		switch {
		case errors.Is(err, match.ErrNotOwner):
			m.sendError(ctx, upd.ChannelID, simpleEmbed("Not the owner", "Only the game owner can begin the game"))
		case errors.Is(err, match.ErrAlreadyBegun):
			m.sendError(ctx, upd.ChannelID, simpleEmbed("Already begun", "The game is already underway"))
		case errors.Is(err, match.ErrNoTeams):
			m.sendError(ctx, upd.ChannelID, simpleEmbed("No teams", "At least one team must join before the game can begin"))
		case errors.Is(err, match.ErrNoEligibleSongs):
		default:
			return fmt.Errorf("begin: %w", err)
		}
	}

	return nil
}

func (m *manager) handleSkipCmd(ctx context.Context, upd Update) error {
	session, ok := m.playingSession(upd.GuildID)
	if !ok {
		return nil
	}

	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	session.Skip(ctx, pref, upd.UserID)
	return nil
}

func (m *manager) handleEndCmd(ctx context.Context, upd Update) error {
	session, ok := m.playingSession(upd.GuildID)
	if !ok {
		return nil
	}

	session.EndSession(ctx)
	return nil
}

// handleGoalCmd sets the target score. A goal at or below the current
// leader's score would end the game on the spot, so those are rejected.
func (m *manager) handleGoalCmd(ctx context.Context, upd Update, args []string) error {
	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	if len(args) == 0 {
		pref.ResetGoal()
		if err := m.prefDb.Store(pref); err != nil {
			return fmt.Errorf("store pref: %w", err)
		}
		m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Goal reset", "Games now run until ended manually"))
		return nil
	}

	goal, err := strconv.Atoi(args[0])
	if err != nil || goal <= 0 {
		m.sendError(ctx, upd.ChannelID, simpleEmbed("Invalid goal", fmt.Sprintf("%q is not a valid goal", args[0])))
		return nil
	}

	if session, ok := m.playingSession(upd.GuildID); ok && session.SessionInitialized() {
		winners := session.Scoreboard().Winners()
		if len(winners) > 0 && winners[0].Score() >= float64(goal) {
			m.sendError(ctx, upd.ChannelID, simpleEmbed(
				"Goal too low",
				fmt.Sprintf("The current leader already has %s points, pick a higher goal", match.FormatScore(winners[0].Score())),
			))
			return nil
		}
	}

	pref.Options.Goal = float64(goal)
	if err := m.prefDb.Store(pref); err != nil {
		return fmt.Errorf("store pref: %w", err)
	}

	m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Goal set", fmt.Sprintf("First to %d points wins", goal)))
	return nil
}

func (m *manager) handleOptionsCmd(ctx context.Context, upd Update) error {
	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	count, beforeLimit, err := m.songs.SongCount(pref)
	if err != nil {
		return fmt.Errorf("song count: %w", err)
	}

	m.sendInfo(ctx, upd.ChannelID, renderOptions(pref, count, beforeLimit))
	return nil
}

func (m *manager) handleOptionSetterCmd(ctx context.Context, upd Update, cmd string, args []string) error {
	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	applied, err := applyOption(&pref, cmd, args)
	if err != nil {
		m.sendError(ctx, upd.ChannelID, simpleEmbed("Invalid option", err.Error()))
		return nil
	}

	if err := m.prefDb.Store(pref); err != nil {
		return fmt.Errorf("store pref: %w", err)
	}

	m.sendInfo(ctx, upd.ChannelID, simpleEmbed("Options updated", applied))
	return nil
}

// applyOption mutates one option field from command arguments and returns
// the confirmation text.
func applyOption(pref *prefModel.Preference, cmd string, args []string) (string, error) {
	reset := len(args) == 0 || args[0] == "reset"

	switch cmd {
	case "duration":
		if reset {
			pref.Options.Duration = 0
			return "Duration limit removed", nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%q is not a valid duration in minutes", args[0])
		}
		pref.Options.Duration = n
		return fmt.Sprintf("Games end after %d minutes", n), nil
	case "timeout":
		if reset {
			pref.Options.GuessTimeout = 0
			return "Guess timeout removed, rounds wait for a correct guess or a skip", nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%q is not a valid timeout in seconds", args[0])
		}
		pref.Options.GuessTimeout = n
		return fmt.Sprintf("Rounds time out after %d seconds", n), nil
	case "shuffle":
		if reset {
			pref.Options.ShuffleType = prefModel.ShuffleRandom
			return "Shuffle set to random", nil
		}
		switch prefModel.ShuffleType(args[0]) {
		case prefModel.ShuffleRandom, prefModel.ShuffleUnique:
			pref.Options.ShuffleType = prefModel.ShuffleType(args[0])
			return fmt.Sprintf("Shuffle set to %s", args[0]), nil
		default:
			return "", fmt.Errorf("%q is not a shuffle type. Try random or unique", args[0])
		}
	case "gender":
		if reset {
			pref.Options.Gender = []prefModel.Gender{prefModel.GenderMale, prefModel.GenderFemale, prefModel.GenderCoed}
			return "Gender filter reset", nil
		}
		var genders []prefModel.Gender
		for _, arg := range args {
			switch g := prefModel.Gender(arg); g {
			case prefModel.GenderMale, prefModel.GenderFemale, prefModel.GenderCoed:
				genders = append(genders, g)
			default:
				return "", fmt.Errorf("%q is not a gender. Try male, female or coed", arg)
			}
		}
		pref.Options.Gender = genders
		return fmt.Sprintf("Playing songs by %s artists", strings.Join(args, ", ")), nil
	case "groups":
		if reset {
			pref.Options.Groups = nil
			return "Group filter removed", nil
		}
		var groups []string
		for _, group := range strings.Split(strings.Join(args, " "), ",") {
			if group = strings.TrimSpace(group); group != "" {
				groups = append(groups, group)
			}
		}
		pref.Options.Groups = groups
		return fmt.Sprintf("Playing songs by %s only", strings.Join(groups, ", ")), nil
	case "limit":
		if reset {
			pref.Options.LimitStart = 0
			pref.Options.LimitEnd = prefModel.DefaultLimit
			return fmt.Sprintf("Limit reset to the top %d songs", prefModel.DefaultLimit), nil
		}
		end, err := strconv.Atoi(args[0])
		if err != nil || end <= 0 {
			return "", fmt.Errorf("%q is not a valid limit", args[0])
		}
		start := 0
		if len(args) > 1 {
			start = end
			if end, err = strconv.Atoi(args[1]); err != nil || end <= start {
				return "", fmt.Errorf("%q is not a valid limit range end", args[1])
			}
		}
		pref.Options.LimitStart = start
		pref.Options.LimitEnd = end
		if start > 0 {
			return fmt.Sprintf("Playing songs ranked %d to %d by views", start, end), nil
		}
		return fmt.Sprintf("Playing the top %d songs by views", end), nil
	case "year":
		if reset {
			pref.Options.BeginningYear = prefModel.DefaultBeginningYear
			pref.Options.EndYear = prefModel.DefaultEndYear
			return "Year range reset", nil
		}
		begin, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("%q is not a valid year", args[0])
		}
		end := prefModel.DefaultEndYear
		if len(args) > 1 {
			if end, err = strconv.Atoi(args[1]); err != nil || end < begin {
				return "", fmt.Errorf("%q is not a valid end year", args[1])
			}
		}
		pref.Options.BeginningYear = begin
		pref.Options.EndYear = end
		return fmt.Sprintf("Playing songs released between %d and %d", begin, end), nil
	case "lives":
		if reset {
			pref.Options.StartingLives = prefModel.DefaultLives
			return fmt.Sprintf("Elimination games start with %d lives", prefModel.DefaultLives), nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%q is not a valid number of lives", args[0])
		}
		pref.Options.StartingLives = n
		return fmt.Sprintf("Elimination games start with %d lives", n), nil
	}

	return "", fmt.Errorf("unknown option %q", cmd)
}

func (m *manager) handleProfileCmd(ctx context.Context, upd Update) error {
	stat, err := m.statDb.Fetch(upd.UserID)
	if err != nil {
		if errors.Is(err, statDb.ErrNotFound) {
			m.sendInfo(ctx, upd.ChannelID, simpleEmbed("No stats yet", "Play a game first"))
			return nil
		}
		return fmt.Errorf("fetch stat: %w", err)
	}

	m.sendInfo(ctx, upd.ChannelID, renderProfile(upd.UserName, stat))
	return nil
}

func (m *manager) handleCountCmd(ctx context.Context, upd Update) error {
	pref, err := m.prefDb.FetchOrCreate(upd.GuildID)
	if err != nil {
		return fmt.Errorf("fetch pref: %w", err)
	}

	count, beforeLimit, err := m.songs.SongCount(pref)
	if err != nil {
		return fmt.Errorf("song count: %w", err)
	}

	m.sendInfo(ctx, upd.ChannelID, simpleEmbed(
		"Song count",
		fmt.Sprintf("%d songs match the current options (%d before the limit window)", count, beforeLimit),
	))
	return nil
}

func (m *manager) sendInfo(ctx context.Context, channelID string, embed match.Embed) {
	if _, err := m.platform.Out.SendInfo(channelID, embed); err != nil {
		logging.FromContext(ctx).Named("manager.sendInfo").Errorf("send msg: %v", err)
	}
}

func (m *manager) sendError(ctx context.Context, channelID string, embed match.Embed) {
	if err := m.platform.Out.SendError(channelID, embed); err != nil {
		logging.FromContext(ctx).Named("manager.sendError").Errorf("send msg: %v", err)
	}
}

func simpleEmbed(title, description string) match.Embed {
	return match.Embed{Title: title, Description: description}
}
