package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

func day(dateStr string, regular, ot1, ot2 int) OTResult {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		panic(err)
	}
	return OTResult{
		EmployeeID:     "emp-1",
		Date:           date,
		DayType:        DayNormal,
		RegularMinutes: regular,
		OTTier1Minutes: ot1,
		OTTier2Minutes: ot2,
		RateTier1:      1.5,
		RateTier2:      2.0,
	}
}

func TestAggregate_SingleWeekNoCap(t *testing.T) {
	t.Parallel()

	days := []OTResult{
		day("2026-03-09", 480, 60, 0),
		day("2026-03-10", 480, 30, 0),
		day("2026-03-11", 450, 0, 0),
	}

	got := Aggregate(days, policy.OvertimePolicy{})
	require.Len(t, got.Weeks, 1)

	assert.Equal(t, 2026, got.Weeks[0].ISOYear)
	assert.Equal(t, 11, got.Weeks[0].ISOWeek)
	assert.Equal(t, 1410, got.RegularMinutes)
	assert.Equal(t, 90, got.OTTier1Minutes)
	assert.Equal(t, 0, got.OTTier2Minutes)
	assert.False(t, got.WeeklyCapApplied)
}

func TestAggregate_WeeklyCapNewestFirst(t *testing.T) {
	t.Parallel()

	days := []OTResult{
		day("2026-03-09", 480, 120, 60),
		day("2026-03-10", 480, 120, 60),
		day("2026-03-11", 480, 120, 60),
	}
	o := policy.OvertimePolicy{
		MaxOTPerWeekHours: 5, // 300 minutes against 540 worked
		WeeklyCapStrategy: policy.CapNewestFirst,
	}

	got := Aggregate(days, o)
	require.Len(t, got.Days, 3)
	assert.True(t, got.WeeklyCapApplied)

	// Monday keeps everything, Tuesday loses its tier-2, Wednesday loses all.
	assert.Equal(t, 120, got.Days[0].OTTier1Minutes)
	assert.Equal(t, 60, got.Days[0].OTTier2Minutes)
	assert.False(t, got.Days[0].Capped)

	assert.Equal(t, 120, got.Days[1].OTTier1Minutes)
	assert.Equal(t, 0, got.Days[1].OTTier2Minutes)
	assert.True(t, got.Days[1].Capped)

	assert.Equal(t, 0, got.Days[2].OTTier1Minutes)
	assert.Equal(t, 0, got.Days[2].OTTier2Minutes)
	assert.True(t, got.Days[2].Capped)

	assert.Equal(t, 300, got.OTTier1Minutes+got.OTTier2Minutes)
	assert.True(t, got.Weeks[0].WeeklyCapApplied)
}

func TestAggregate_WeeklyCapOldestFirst(t *testing.T) {
	t.Parallel()

	days := []OTResult{
		day("2026-03-09", 480, 120, 60),
		day("2026-03-10", 480, 120, 60),
		day("2026-03-11", 480, 120, 60),
	}
	o := policy.OvertimePolicy{
		MaxOTPerWeekHours: 5,
		WeeklyCapStrategy: policy.CapOldestFirst,
	}

	got := Aggregate(days, o)

	// Monday loses all, Tuesday loses its tier-2, Wednesday is untouched.
	assert.Equal(t, 0, got.Days[0].OTTier1Minutes+got.Days[0].OTTier2Minutes)
	assert.True(t, got.Days[0].Capped)
	assert.Equal(t, 120, got.Days[1].OTTier1Minutes)
	assert.Equal(t, 0, got.Days[1].OTTier2Minutes)
	assert.Equal(t, 120, got.Days[2].OTTier1Minutes)
	assert.Equal(t, 60, got.Days[2].OTTier2Minutes)
	assert.False(t, got.Days[2].Capped)

	assert.Equal(t, 300, got.OTTier1Minutes+got.OTTier2Minutes)
}

func TestAggregate_CapPerWeekNotPerPeriod(t *testing.T) {
	t.Parallel()

	// 240 OT in each of two weeks; a 5-hour weekly cap touches neither,
	// even though the period total is 480.
	days := []OTResult{
		day("2026-03-09", 480, 240, 0),
		day("2026-03-16", 480, 240, 0),
	}
	o := policy.OvertimePolicy{MaxOTPerWeekHours: 5}

	got := Aggregate(days, o)
	require.Len(t, got.Weeks, 2)
	assert.False(t, got.WeeklyCapApplied)
	assert.Equal(t, 480, got.OTTier1Minutes)
}

func TestAggregate_ISOWeekSpansYearBoundary(t *testing.T) {
	t.Parallel()

	// Mon 2025-12-29 and Thu 2026-01-01 are both ISO week 1 of 2026.
	days := []OTResult{
		day("2025-12-29", 480, 60, 0),
		day("2026-01-01", 480, 60, 0),
	}

	got := Aggregate(days, policy.OvertimePolicy{})
	require.Len(t, got.Weeks, 1)
	assert.Equal(t, 2026, got.Weeks[0].ISOYear)
	assert.Equal(t, 1, got.Weeks[0].ISOWeek)
	assert.Equal(t, 120, got.Weeks[0].OTTier1Minutes)
}

func TestAggregate_SundayClosesISOWeek(t *testing.T) {
	t.Parallel()

	// Sun 2026-03-15 belongs to the week of Mon 2026-03-09; Mon 2026-03-16
	// starts the next one.
	days := []OTResult{
		day("2026-03-15", 480, 30, 0),
		day("2026-03-16", 480, 30, 0),
	}

	got := Aggregate(days, policy.OvertimePolicy{})
	require.Len(t, got.Weeks, 2)
	assert.Equal(t, 11, got.Weeks[0].ISOWeek)
	assert.Equal(t, 12, got.Weeks[1].ISOWeek)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil, policy.OvertimePolicy{MaxOTPerWeekHours: 5})
	assert.Empty(t, got.Weeks)
	assert.Zero(t, got.RegularMinutes)
	assert.False(t, got.WeeklyCapApplied)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	days := []OTResult{
		day("2026-03-09", 480, 240, 120),
	}
	o := policy.OvertimePolicy{MaxOTPerWeekHours: 1}

	got := Aggregate(days, o)
	assert.True(t, got.WeeklyCapApplied)
	assert.Equal(t, 240, days[0].OTTier1Minutes, "caller's slice stays intact")
	assert.Equal(t, 120, days[0].OTTier2Minutes)
}
