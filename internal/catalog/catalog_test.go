package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

func seedSongs() []Song {
	return []Song{
		{Name: "Alpha", Artist: "GroupA", MediaRef: "a", Members: model.GenderFemale, PublishYear: 2015, Views: 500},
		{Name: "Beta", Artist: "GroupB", MediaRef: "b", Members: model.GenderMale, PublishYear: 2018, Views: 900},
		{Name: "Gamma", Artist: "GroupA", MediaRef: "c", Members: model.GenderFemale, PublishYear: 2021, Views: 100},
		{Name: "Delta", Artist: "GroupC", MediaRef: "d", Members: model.GenderCoed, PublishYear: 2005, Views: 700},
	}
}

func TestFilteredSongsDefaults(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")

	songs, beforeLimit, err := p.FilteredSongs(pref, nil)
	require.NoError(t, err)

	// default years start at 2008, dropping Delta
	require.Len(t, songs, 3)
	assert.Equal(t, 3, beforeLimit)

	// descending view order
	assert.Equal(t, "Beta", songs[0].Name)
	assert.Equal(t, "Alpha", songs[1].Name)
	assert.Equal(t, "Gamma", songs[2].Name)
}

func TestFilteredSongsGenderFilter(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")
	pref.Options.Gender = []model.Gender{model.GenderFemale}

	songs, _, err := p.FilteredSongs(pref, nil)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	for _, song := range songs {
		assert.Equal(t, model.GenderFemale, song.Members)
	}
}

func TestFilteredSongsGroupsModeOverridesGender(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")
	pref.Options.Gender = []model.Gender{model.GenderFemale}
	pref.Options.Groups = []string{"GroupB"}

	songs, _, err := p.FilteredSongs(pref, nil)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Beta", songs[0].Name)
}

func TestFilteredSongsYearRange(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")
	pref.Options.BeginningYear = 2000
	pref.Options.EndYear = 2016

	songs, _, err := p.FilteredSongs(pref, nil)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "Delta", songs[0].Name)
	assert.Equal(t, "Alpha", songs[1].Name)
}

func TestFilteredSongsLimitWindow(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")
	pref.Options.BeginningYear = 2000
	pref.Options.LimitStart = 1
	pref.Options.LimitEnd = 3

	songs, beforeLimit, err := p.FilteredSongs(pref, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, beforeLimit)
	require.Len(t, songs, 2)

	// window over the view-ranked list skips the most viewed song
	assert.Equal(t, "Delta", songs[0].Name)
	assert.Equal(t, "Alpha", songs[1].Name)
}

func TestFilteredSongsIgnored(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")

	songs, _, err := p.FilteredSongs(pref, map[string]struct{}{"b": {}, "a": {}})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Gamma", songs[0].Name)
}

func TestSongCount(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider(seedSongs())
	pref := model.NewPreference("g1")
	pref.Options.LimitEnd = 2

	count, beforeLimit, err := p.SongCount(pref)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, beforeLimit)
}

func TestRandomSong(t *testing.T) {
	t.Parallel()

	_, ok := RandomSong(nil)
	assert.False(t, ok)

	songs := seedSongs()
	song, ok := RandomSong(songs)
	require.True(t, ok)

	found := false
	for _, s := range songs {
		if s.MediaRef == song.MediaRef {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "songs.json")
	bytes, err := json.Marshal(seedSongs())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bytes, 0o600))

	p, err := LoadFromFile(path)
	require.NoError(t, err)

	pref := model.NewPreference("g1")
	pref.Options.BeginningYear = 2000
	count, _, err := p.SongCount(pref)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
