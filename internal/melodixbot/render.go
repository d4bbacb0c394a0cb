package melodixbot

import (
	"fmt"
	"strconv"

	"github.com/enescakir/emoji"

	prefModel "github.com/melodix-games/melodix/internal/database/guildpref/model"
	statModel "github.com/melodix-games/melodix/internal/database/stat/model"
	"github.com/melodix-games/melodix/internal/melodixbot/match"
	"github.com/melodix-games/melodix/internal/strpool"
)

func renderHelp(prefix string) match.Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	_, _ = fmt.Fprintf(buf, "%s Guess the song being played, fastest correct answer scores\n\n", emoji.MusicalNotes.String())
	_, _ = fmt.Fprintf(buf, "*%splay* [elimination [lives] | teams] - start a game\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%sjoin* [team] - join an elimination game or a team\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%sbegin* - owner starts a lobby game\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%sskip* - vote to skip the current song\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%send* - end the game and crown a winner\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%sgoal* [points] - play to a target score\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%soptions* - show the current game options\n", prefix)
	_, _ = fmt.Fprintf(buf, "*%sprofile* - your lifetime stats\n", prefix)

	return match.Embed{
		Title:       fmt.Sprintf("%s Melodix", emoji.GameDie.String()),
		Description: buf.String(),
	}
}

func renderGameStarting(ownerName string, gameType match.GameType, lives int) match.Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	_, _ = fmt.Fprintf(buf, "%s **%s** started a %s game\n", emoji.MusicalNotes.String(), ownerName, gameType)
	if gameType == match.GameTypeElimination {
		_, _ = fmt.Fprintf(buf, "%s %s lives each\n", emoji.RedHeart.String(), strconv.Itoa(lives))
	}
	buf.WriteString("Listen closely and type the song name")

	return match.Embed{
		Title:       "Game starting",
		Description: buf.String(),
	}
}

func renderLobby(prefix string, gameType match.GameType, lives int) match.Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	switch gameType {
	case match.GameTypeElimination:
		_, _ = fmt.Fprintf(buf, "%s Everyone starts with %s lives ", emoji.RedHeart.String(), strconv.Itoa(lives))
		buf.WriteString("and loses one per missed song, last player standing wins\n\n")
		_, _ = fmt.Fprintf(buf, "Type *%sjoin* to play", prefix)
	case match.GameTypeTeams:
		_, _ = fmt.Fprintf(buf, "%s Band together, the team with the highest total score wins\n\n", emoji.Handshake.String())
		_, _ = fmt.Fprintf(buf, "Type *%sjoin <team>* to create or join a team", prefix)
	}
	_, _ = fmt.Fprintf(buf, "\nThe owner starts the game with *%sbegin*", prefix)

	return match.Embed{
		Title:       fmt.Sprintf("%s Lobby open", emoji.GameDie.String()),
		Description: buf.String(),
	}
}

func renderOptions(pref prefModel.Preference, count, beforeLimit int) match.Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	opts := pref.Options

	if pref.IsGoalSet() {
		_, _ = fmt.Fprintf(buf, "%s Goal: %s points\n", emoji.ChequeredFlag.String(), match.FormatScore(opts.Goal))
	}
	if pref.IsDurationSet() {
		_, _ = fmt.Fprintf(buf, "%s Duration: %s min\n", emoji.Stopwatch.String(), strconv.Itoa(opts.Duration))
	}
	if pref.IsGuessTimeoutSet() {
		_, _ = fmt.Fprintf(buf, "%s Guess timeout: %s sec\n", emoji.AlarmClock.String(), strconv.Itoa(opts.GuessTimeout))
	}

	_, _ = fmt.Fprintf(buf, "%s Shuffle: %s\n", emoji.ShuffleTracksButton.String(), opts.ShuffleType)

	if pref.IsGroupsMode() {
		buf.WriteString(emoji.Microphone.String() + " Groups: ")
		for i, group := range opts.Groups {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(group)
		}
		buf.WriteString("\n")
	} else {
		buf.WriteString(emoji.Microphone.String() + " Gender: ")
		for i, gender := range opts.Gender {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(string(gender))
		}
		buf.WriteString("\n")
	}

	_, _ = fmt.Fprintf(buf, "%s Years: %s - %s\n", emoji.Calendar.String(), strconv.Itoa(opts.BeginningYear), strconv.Itoa(opts.EndYear))
	_, _ = fmt.Fprintf(buf, "%s Limit: %s - %s\n", emoji.BarChart.String(), strconv.Itoa(opts.LimitStart), strconv.Itoa(opts.LimitEnd))
	_, _ = fmt.Fprintf(buf, "%s Lives: %s\n\n", emoji.RedHeart.String(), strconv.Itoa(opts.StartingLives))
	_, _ = fmt.Fprintf(buf, "%d songs playable (%d before the limit window)", count, beforeLimit)

	return match.Embed{
		Title:       fmt.Sprintf("%s Options", emoji.Gear.String()),
		Description: buf.String(),
	}
}

func renderProfile(userName string, stat statModel.Stat) match.Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	_, _ = fmt.Fprintf(buf, "%s Games played: %s\n", emoji.GameDie.String(), strconv.Itoa(stat.GamesPlayed))
	_, _ = fmt.Fprintf(buf, "%s Games won: %s\n", emoji.Trophy.String(), strconv.Itoa(stat.GamesWon))
	_, _ = fmt.Fprintf(buf, "%s Songs guessed: %s\n", emoji.MusicalNote.String(), strconv.Itoa(stat.SongsGuessed))
	_, _ = fmt.Fprintf(buf, "%s Exp gained: %s", emoji.Sparkles.String(), match.FormatScore(stat.ExpGained))

	return match.Embed{
		Title:       fmt.Sprintf("%s %s", emoji.BustInSilhouette.String(), userName),
		Description: buf.String(),
	}
}
