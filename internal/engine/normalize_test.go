package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
)

func normalizePolicy() policy.AttendancePolicy {
	return policy.AttendancePolicy{
		GraceMinutes: 10,
		Timezone:     "Asia/Jakarta",
		Overtime: policy.OvertimePolicy{
			Enabled:      true,
			RoundingMode: policy.RoundingNone,
		},
	}
}

func dayShift() *shift.Shift {
	return &shift.Shift{
		ID:           "shift-day",
		Name:         "Day",
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakMinutes: 60,
		IsActive:     true,
	}
}

func nightShift() *shift.Shift {
	return &shift.Shift{
		ID:                 "shift-night",
		Name:               "Night",
		StartTime:          "22:00",
		EndTime:            "06:00",
		AllowCrossMidnight: true,
		IsActive:           true,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC)
}

func TestNormalize_ClosedEntry(t *testing.T) {
	t.Parallel()

	out := at(18, 30)
	span, err := Normalize(at(9, 0), &out, time.Time{}, normalizePolicy(), dayShift())
	require.NoError(t, err)

	assert.Equal(t, 570, span.WorkedMinutes)
	assert.False(t, span.Open)
	assert.False(t, span.IsLate)
	assert.Equal(t, "on_time", span.Flag())
}

func TestNormalize_BreakDeduction(t *testing.T) {
	t.Parallel()

	p := normalizePolicy()
	p.Overtime.AutoDeductBreakMinutes = 60

	out := at(18, 0)
	span, err := Normalize(at(9, 0), &out, time.Time{}, p, dayShift())
	require.NoError(t, err)
	assert.Equal(t, 480, span.WorkedMinutes)

	// A span shorter than the break clamps to zero instead of going negative.
	short := at(9, 30)
	span, err = Normalize(at(9, 0), &short, time.Time{}, p, dayShift())
	require.NoError(t, err)
	assert.Equal(t, 0, span.WorkedMinutes)
}

func TestNormalize_SingleRoundingPassAfterBreak(t *testing.T) {
	t.Parallel()

	p := normalizePolicy()
	p.Overtime.AutoDeductBreakMinutes = 60
	p.Overtime.RoundingMode = policy.RoundingNearest
	p.Overtime.RoundingIntervalMinutes = 15

	// 533 raw - 60 break = 473, nearest 15 -> 480. Rounding the raw span
	// first would give 525 - 60 = 465.
	out := at(17, 53)
	span, err := Normalize(at(9, 0), &out, time.Time{}, p, dayShift())
	require.NoError(t, err)
	assert.Equal(t, 480, span.WorkedMinutes)
}

func TestNormalize_OpenEntryUsesNow(t *testing.T) {
	t.Parallel()

	span, err := Normalize(at(9, 0), nil, at(13, 0), normalizePolicy(), dayShift())
	require.NoError(t, err)

	assert.True(t, span.Open)
	assert.Equal(t, 240, span.WorkedMinutes)
}

func TestNormalize_LateFlag(t *testing.T) {
	t.Parallel()

	p := normalizePolicy() // 10-minute grace

	// Inside the grace: not late.
	out := at(18, 0)
	span, err := Normalize(at(9, 10), &out, time.Time{}, p, dayShift())
	require.NoError(t, err)
	assert.False(t, span.IsLate)

	// Past the grace: late, counted from the scheduled start.
	span, err = Normalize(at(9, 25), &out, time.Time{}, p, dayShift())
	require.NoError(t, err)
	assert.True(t, span.IsLate)
	assert.Equal(t, 25, span.LateMinutes)
	assert.Equal(t, "late", span.Flag())
}

func TestNormalize_ShiftGraceOverride(t *testing.T) {
	t.Parallel()

	override := 30
	sh := dayShift()
	sh.GraceOverrideMinutes = &override

	out := at(18, 0)
	span, err := Normalize(at(9, 25), &out, time.Time{}, normalizePolicy(), sh)
	require.NoError(t, err)
	assert.False(t, span.IsLate, "shift grace override widens the window")
}

func TestNormalize_EarlyLeaveFlag(t *testing.T) {
	t.Parallel()

	out := at(16, 30)
	span, err := Normalize(at(9, 0), &out, time.Time{}, normalizePolicy(), dayShift())
	require.NoError(t, err)

	assert.True(t, span.IsEarlyLeave)
	assert.Equal(t, 90, span.EarlyLeaveMinutes)
	assert.Equal(t, "early_leave", span.Flag())
}

func TestNormalize_LateAndEarly(t *testing.T) {
	t.Parallel()

	out := at(16, 30)
	span, err := Normalize(at(9, 30), &out, time.Time{}, normalizePolicy(), dayShift())
	require.NoError(t, err)

	assert.True(t, span.IsLate)
	assert.True(t, span.IsEarlyLeave)
	assert.Equal(t, "late_and_early", span.Flag())
}

func TestNormalize_CrossMidnight(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC) // wall clock before clock-in

	span, err := Normalize(in, &out, time.Time{}, normalizePolicy(), nightShift())
	require.NoError(t, err)
	assert.Equal(t, 480, span.WorkedMinutes)
	assert.False(t, span.IsEarlyLeave)
}

func TestNormalize_ClockOutBeforeClockInRejected(t *testing.T) {
	t.Parallel()

	in := at(10, 0)
	out := at(9, 0)

	// Day shift does not cross midnight: the pair is invalid.
	_, err := Normalize(in, &out, time.Time{}, normalizePolicy(), dayShift())
	assert.ErrorIs(t, err, ErrClockOutBeforeClockIn)

	// Without any shift the pair is invalid too.
	_, err = Normalize(in, &out, time.Time{}, normalizePolicy(), nil)
	assert.ErrorIs(t, err, ErrClockOutBeforeClockIn)
}

func TestNormalize_NoShift(t *testing.T) {
	t.Parallel()

	out := at(17, 0)
	span, err := Normalize(at(9, 0), &out, time.Time{}, normalizePolicy(), nil)
	require.NoError(t, err)

	assert.Equal(t, 480, span.WorkedMinutes)
	assert.False(t, span.IsLate, "no schedule means no lateness")
	assert.Equal(t, "on_time", span.Flag())
}
