package melodixbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prefModel "github.com/melodix-games/melodix/internal/database/guildpref/model"
)

func TestApplyOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     string
		args    []string
		wantErr bool
		check   func(t *testing.T, opts prefModel.Options)
	}{
		{
			name: "duration set",
			cmd:  "duration", args: []string{"45"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 45, opts.Duration)
			},
		},
		{
			name: "duration reset",
			cmd:  "duration", args: nil,
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 0, opts.Duration)
			},
		},
		{
			name: "duration junk",
			cmd:  "duration", args: []string{"soon"}, wantErr: true,
		},
		{
			name: "timeout set",
			cmd:  "timeout", args: []string{"30"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 30, opts.GuessTimeout)
			},
		},
		{
			name: "shuffle unique",
			cmd:  "shuffle", args: []string{"unique"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, prefModel.ShuffleUnique, opts.ShuffleType)
			},
		},
		{
			name: "shuffle junk",
			cmd:  "shuffle", args: []string{"sorted"}, wantErr: true,
		},
		{
			name: "gender subset",
			cmd:  "gender", args: []string{"female", "coed"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, []prefModel.Gender{prefModel.GenderFemale, prefModel.GenderCoed}, opts.Gender)
			},
		},
		{
			name: "gender junk",
			cmd:  "gender", args: []string{"other"}, wantErr: true,
		},
		{
			name: "groups comma separated",
			cmd:  "groups", args: []string{"Twice,", "Red", "Velvet"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, []string{"Twice", "Red Velvet"}, opts.Groups)
			},
		},
		{
			name: "groups reset",
			cmd:  "groups", args: nil,
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Nil(t, opts.Groups)
			},
		},
		{
			name: "limit top n",
			cmd:  "limit", args: []string{"100"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 0, opts.LimitStart)
				assert.Equal(t, 100, opts.LimitEnd)
			},
		},
		{
			name: "limit range",
			cmd:  "limit", args: []string{"100", "300"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 100, opts.LimitStart)
				assert.Equal(t, 300, opts.LimitEnd)
			},
		},
		{
			name: "limit backwards range",
			cmd:  "limit", args: []string{"300", "100"}, wantErr: true,
		},
		{
			name: "year range",
			cmd:  "year", args: []string{"2012", "2018"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 2012, opts.BeginningYear)
				assert.Equal(t, 2018, opts.EndYear)
			},
		},
		{
			name: "year open ended",
			cmd:  "year", args: []string{"2012"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 2012, opts.BeginningYear)
				assert.Equal(t, prefModel.DefaultEndYear, opts.EndYear)
			},
		},
		{
			name: "lives set",
			cmd:  "lives", args: []string{"5"},
			check: func(t *testing.T, opts prefModel.Options) {
				assert.Equal(t, 5, opts.StartingLives)
			},
		},
		{
			name: "lives zero rejected",
			cmd:  "lives", args: []string{"0"}, wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pref := prefModel.NewPreference("g1")
			msg, err := applyOption(&pref, tt.cmd, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, msg)
			tt.check(t, pref.Options)
		})
	}
}
