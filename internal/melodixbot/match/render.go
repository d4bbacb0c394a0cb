package match

import (
	"fmt"

	"github.com/enescakir/emoji"

	"github.com/melodix-games/melodix/internal/catalog"
	"github.com/melodix-games/melodix/internal/strpool"
)

func renderNoSongsEmbed() Embed {
	return Embed{
		Title:       fmt.Sprintf("%s No songs available", emoji.CrossMark.String()),
		Description: "No songs match the current game options. Loosen the filters and try again",
	}
}

func renderShuffleResetEmbed() Embed {
	return Embed{
		Title:       fmt.Sprintf("%s Shuffle reset", emoji.ShuffleTracksButton.String()),
		Description: "Every song in the selection has been played. Starting over from a fresh pool",
	}
}

func renderSkipNotificationEmbed(votes, required int) Embed {
	return Embed{
		Title:       fmt.Sprintf("%s Skip", emoji.FastForwardButton.String()),
		Description: fmt.Sprintf("%d/%d skips received", votes, required),
	}
}

func renderSkipAchievedEmbed(votes, required int) Embed {
	return Embed{
		Title:       fmt.Sprintf("%s Skipping song", emoji.FastForwardButton.String()),
		Description: fmt.Sprintf("%d/%d skips received, moving on", votes, required),
	}
}

func renderRoundResultEmbed(first GuessResult, song catalog.Song) Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	_, _ = fmt.Fprintf(buf, "%s *%s* guessed it!\n\n", emoji.PartyPopper.String(), first.UserName)
	_, _ = fmt.Fprintf(buf, "%s *%s* - %s\n", emoji.MusicalNote.String(), song.Name, song.Artist)
	_, _ = fmt.Fprintf(buf, "%s +%s exp", emoji.Sparkles.String(), FormatScore(first.Exp))

	return Embed{
		Title:       "Correct guess",
		Description: buf.String(),
	}
}

func renderTimeoutEmbed(song catalog.Song) Embed {
	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	_, _ = fmt.Fprintf(buf, "%s Nobody guessed in time\n\n", emoji.Stopwatch.String())
	_, _ = fmt.Fprintf(buf, "%s *%s* - %s", emoji.MusicalNote.String(), song.Name, song.Artist)

	return Embed{
		Title:       "Time's up",
		Description: buf.String(),
	}
}

func renderEndGameEmbed(scoreboard Scoreboard) Embed {
	return Embed{
		Title:       fmt.Sprintf("%s Game over", emoji.ChequeredFlag.String()),
		Description: WinnerMessage(scoreboard.Winners()),
		Fields:      scoreboard.ScoreFields(),
	}
}

// WinnerMessage writes the closing announcement: one name gets "wins",
// several get an and-joined list with "win".
func WinnerMessage(winners []Participant) string {
	if len(winners) == 0 {
		return "Nobody scored a single point " + emoji.CryingFace.String()
	}

	buf := strpool.Get()
	defer func() {
		buf.Reset()
		strpool.Put(buf)
	}()

	for i, winner := range winners {
		switch {
		case i == 0:
		case i == len(winners)-1:
			buf.WriteString(" and ")
		default:
			buf.WriteString(", ")
		}
		buf.WriteString("**")
		buf.WriteString(winner.Name())
		buf.WriteString("**")
	}

	if len(winners) == 1 {
		buf.WriteString(" wins!")
	} else {
		buf.WriteString(" win!")
	}
	buf.WriteString(" " + emoji.Trophy.String())

	return buf.String()
}
