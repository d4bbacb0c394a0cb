package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/valyala/fastrand"

	"github.com/melodix-games/melodix/internal/database/guildpref/model"
)

// Song is one playable catalog entry. MediaRef points at the audio clip in
// whatever form the voice player understands.
type Song struct {
	Name        string       `json:"name"`
	Artist      string       `json:"artist"`
	MediaRef    string       `json:"mediaRef"`
	Members     model.Gender `json:"members"`
	PublishYear int          `json:"publishYear"`
	Views       int64        `json:"views"`
}

// Provider narrows the catalog down by guild preferences. Implementations
// must be safe for concurrent use across guilds.
type Provider interface {
	// FilteredSongs returns the eligible songs in descending view order,
	// minus any in ignored, along with the pool size before the limit
	// window was applied.
	FilteredSongs(pref model.Preference, ignored map[string]struct{}) ([]Song, int, error)
	SongCount(pref model.Preference) (count int, countBeforeLimit int, err error)
}

func NewMemoryProvider(songs []Song) *MemoryProvider {
	sorted := make([]Song, len(songs))
	copy(sorted, songs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})

	return &MemoryProvider{songs: sorted}
}

// LoadFromFile reads a JSON seed produced by the catalog ETL.
func LoadFromFile(path string) (*MemoryProvider, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}

	var songs []Song
	if err := json.Unmarshal(bytes, &songs); err != nil {
		return nil, fmt.Errorf("unmarshal catalog seed: %v", err)
	}

	return NewMemoryProvider(songs), nil
}

// MemoryProvider keeps the whole catalog in memory, pre-sorted by views.
type MemoryProvider struct {
	songs []Song
}

var _ Provider = (*MemoryProvider)(nil)

func (p *MemoryProvider) FilteredSongs(pref model.Preference, ignored map[string]struct{}) ([]Song, int, error) {
	opts := pref.Options
	var eligible []Song
	for _, song := range p.songs {
		if pref.IsGroupsMode() {
			if !containsGroup(opts.Groups, song.Artist) {
				continue
			}
		} else if !containsGender(opts.Gender, song.Members) {
			continue
		}

		if song.PublishYear < opts.BeginningYear || song.PublishYear > opts.EndYear {
			continue
		}

		eligible = append(eligible, song)
	}

	countBeforeLimit := len(eligible)
	start, end := opts.LimitStart, opts.LimitEnd
	if start > len(eligible) {
		start = len(eligible)
	}
	if end == 0 || end > len(eligible) {
		end = len(eligible)
	}
	eligible = eligible[start:end]

	if len(ignored) > 0 {
		filtered := eligible[:0:0]
		for _, song := range eligible {
			if _, ok := ignored[song.MediaRef]; !ok {
				filtered = append(filtered, song)
			}
		}
		eligible = filtered
	}

	return eligible, countBeforeLimit, nil
}

func (p *MemoryProvider) SongCount(pref model.Preference) (int, int, error) {
	songs, countBeforeLimit, err := p.FilteredSongs(pref, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("filtered songs: %w", err)
	}
	return len(songs), countBeforeLimit, nil
}

// RandomSong picks uniformly from the candidate list.
func RandomSong(songs []Song) (Song, bool) {
	if len(songs) == 0 {
		return Song{}, false
	}
	return songs[fastrand.Uint32n(uint32(len(songs)))], true
}

func containsGender(genders []model.Gender, g model.Gender) bool {
	for _, gender := range genders {
		if gender == g {
			return true
		}
	}
	return false
}

func containsGroup(groups []string, artist string) bool {
	for _, group := range groups {
		if group == artist {
			return true
		}
	}
	return false
}
