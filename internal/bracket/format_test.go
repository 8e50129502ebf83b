package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		tag  string
		want Format
	}{
		{"single_elimination", SingleElimination},
		{"Single", SingleElimination},
		{"Double Elimination", DoubleElimination},
		{"  de ", DoubleElimination},
		{"round-robin", RoundRobin},
		{"swiss", Swiss},
		{"SABO-DE16", SaboDE16},
		{"de32", SaboDE32},
		{"ladder", SingleElimination},
		{"", SingleElimination},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.tag))
		})
	}
}

func TestFormatForGame(t *testing.T) {
	tests := []struct {
		name     string
		gameType string
		count    int
		want     Format
	}{
		{"9-ball with 16 players", "9-ball", 16, SaboDE16},
		{"8 ball with 32 players", "8 Ball", 32, SaboDE32},
		{"10-ball odd field", "10-ball", 11, DoubleElimination},
		{"unknown game", "snooker", 16, SingleElimination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForGame(tt.gameType, tt.count))
		})
	}
}

func TestTopologyFor(t *testing.T) {
	for f := range topologies {
		topo, err := TopologyFor(f)
		require.NoError(t, err)
		assert.Equal(t, f, topo.Format())
		assert.True(t, f.Valid())
	}

	_, err := TopologyFor("ladder")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.True(t, SaboDE32.IsSabo())
	assert.False(t, DoubleElimination.IsSabo())
}
