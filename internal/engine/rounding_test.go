package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

func TestRound_Modes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		minutes  int
		mode     policy.RoundingMode
		interval int
		want     int
	}{
		{"none keeps value", 473, policy.RoundingNone, 15, 473},
		{"empty mode keeps value", 473, "", 15, 473},
		{"down truncates", 473, policy.RoundingDown, 15, 465},
		{"down on boundary", 480, policy.RoundingDown, 15, 480},
		{"up rounds to next", 473, policy.RoundingUp, 15, 480},
		{"up on boundary", 480, policy.RoundingUp, 15, 480},
		{"nearest below midpoint", 472, policy.RoundingNearest, 15, 465},
		{"nearest above midpoint", 473, policy.RoundingNearest, 15, 480},
		{"nearest tie goes up", 67, policy.RoundingNearest, 10, 70},
		{"nearest on boundary", 60, policy.RoundingNearest, 10, 60},
		{"zero minutes", 0, policy.RoundingUp, 15, 0},
		{"interval of one is identity", 473, policy.RoundingNearest, 1, 473},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Round(tt.minutes, tt.mode, tt.interval)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRound_NegativeMinutes(t *testing.T) {
	t.Parallel()

	_, err := Round(-1, policy.RoundingDown, 15)
	assert.ErrorIs(t, err, ErrNegativeMinutes)
}

func TestRound_InvalidInterval(t *testing.T) {
	t.Parallel()

	_, err := Round(100, policy.RoundingDown, 0)
	assert.ErrorIs(t, err, ErrInvalidRoundingInterval)

	_, err = Round(100, policy.RoundingNearest, -5)
	assert.ErrorIs(t, err, ErrInvalidRoundingInterval)

	// Interval is irrelevant when rounding is off.
	got, err := Round(100, policy.RoundingNone, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestRound_Idempotent(t *testing.T) {
	t.Parallel()

	modes := []policy.RoundingMode{policy.RoundingDown, policy.RoundingUp, policy.RoundingNearest}
	for _, mode := range modes {
		for minutes := 0; minutes <= 130; minutes++ {
			once, err := Round(minutes, mode, 15)
			require.NoError(t, err)
			twice, err := Round(once, mode, 15)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "mode=%s minutes=%d", mode, minutes)
		}
	}
}

func TestRound_DownNeverExceedsUp(t *testing.T) {
	t.Parallel()

	for minutes := 0; minutes <= 130; minutes++ {
		down, err := Round(minutes, policy.RoundingDown, 15)
		require.NoError(t, err)
		up, err := Round(minutes, policy.RoundingUp, 15)
		require.NoError(t, err)
		nearest, err := Round(minutes, policy.RoundingNearest, 15)
		require.NoError(t, err)

		assert.LessOrEqual(t, down, minutes)
		assert.GreaterOrEqual(t, up, minutes)
		assert.GreaterOrEqual(t, nearest, down)
		assert.LessOrEqual(t, nearest, up)
	}
}
