package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

func singleTierRule() policy.OvertimeRule {
	return policy.OvertimeRule{
		ID:                 "rule-1",
		Priority:           1,
		RuleType:           policy.RuleDaily,
		ThresholdMinutesT1: 480,
		MultiplierT1:       1.5,
		RestDayMultiplier:  1.5,
		HolidayMultiplier:  2.0,
		IsActive:           true,
	}
}

func twoTierRule() policy.OvertimeRule {
	t2 := 600
	m2 := 2.0
	rule := singleTierRule()
	rule.ThresholdMinutesT2 = &t2
	rule.MultiplierT2 = &m2
	return rule
}

func otPolicy() policy.AttendancePolicy {
	return policy.AttendancePolicy{
		Overtime: policy.OvertimePolicy{Enabled: true},
	}
}

func TestComputeOvertime_BasicSplit(t *testing.T) {
	t.Parallel()

	got, err := ComputeOvertime(510, DayNormal, singleTierRule(), otPolicy())
	require.NoError(t, err)

	assert.Equal(t, 480, got.RegularMinutes)
	assert.Equal(t, 30, got.OTTier1Minutes)
	assert.Equal(t, 0, got.OTTier2Minutes)
	assert.Equal(t, 1.5, got.RateTier1)
	assert.False(t, got.Capped)
}

func TestComputeOvertime_UnderThreshold(t *testing.T) {
	t.Parallel()

	got, err := ComputeOvertime(450, DayNormal, singleTierRule(), otPolicy())
	require.NoError(t, err)

	assert.Equal(t, 450, got.RegularMinutes)
	assert.Equal(t, 0, got.OTTier1Minutes)
	assert.Equal(t, 0, got.OTTier2Minutes)
}

func TestComputeOvertime_GraceCliff(t *testing.T) {
	t.Parallel()

	p := otPolicy()
	p.Overtime.OTGraceMinutes = 45

	// 30 eligible minutes fall inside the grace: nothing is earned.
	got, err := ComputeOvertime(510, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 480, got.RegularMinutes)
	assert.Equal(t, 0, got.OTTier1Minutes)

	// Exactly at the grace still earns nothing.
	got, err = ComputeOvertime(525, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 0, got.OTTier1Minutes)

	// One minute past the grace earns the whole span, not span minus grace.
	got, err = ComputeOvertime(526, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 46, got.OTTier1Minutes)
}

func TestComputeOvertime_MinBlockDiscard(t *testing.T) {
	t.Parallel()

	p := otPolicy()
	p.Overtime.MinOTBlockMinutes = 30

	got, err := ComputeOvertime(500, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 0, got.OTTier1Minutes, "20-minute span is under the block and discarded")

	got, err = ComputeOvertime(510, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 30, got.OTTier1Minutes, "exactly one block is kept")
}

func TestComputeOvertime_TwoTiers(t *testing.T) {
	t.Parallel()

	got, err := ComputeOvertime(650, DayNormal, twoTierRule(), otPolicy())
	require.NoError(t, err)

	assert.Equal(t, 480, got.RegularMinutes)
	assert.Equal(t, 120, got.OTTier1Minutes)
	assert.Equal(t, 50, got.OTTier2Minutes)
	assert.Equal(t, 1.5, got.RateTier1)
	assert.Equal(t, 2.0, got.RateTier2)
}

func TestComputeOvertime_Tier2RateFallsBack(t *testing.T) {
	t.Parallel()

	rule := twoTierRule()
	rule.MultiplierT2 = nil

	got, err := ComputeOvertime(650, DayNormal, rule, otPolicy())
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.RateTier2)
}

func TestComputeOvertime_DailyCapTruncatesTier2First(t *testing.T) {
	t.Parallel()

	p := otPolicy()
	p.Overtime.MaxOTPerDayHours = 4 // 240 minutes

	// 880 worked: 120 tier-1 + 280 tier-2 = 400, excess 160 comes off tier-2.
	got, err := ComputeOvertime(880, DayNormal, twoTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 120, got.OTTier1Minutes)
	assert.Equal(t, 120, got.OTTier2Minutes)
	assert.True(t, got.Capped)
}

func TestComputeOvertime_DailyCapReachesTier1(t *testing.T) {
	t.Parallel()

	p := otPolicy()
	p.Overtime.MaxOTPerDayHours = 1.5 // 90 minutes, under the tier-1 band

	got, err := ComputeOvertime(880, DayNormal, twoTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 90, got.OTTier1Minutes)
	assert.Equal(t, 0, got.OTTier2Minutes)
	assert.True(t, got.Capped)
}

func TestComputeOvertime_DailyCapNotHit(t *testing.T) {
	t.Parallel()

	p := otPolicy()
	p.Overtime.MaxOTPerDayHours = 4

	got, err := ComputeOvertime(510, DayNormal, singleTierRule(), p)
	require.NoError(t, err)
	assert.Equal(t, 30, got.OTTier1Minutes)
	assert.False(t, got.Capped)
}

func TestComputeOvertime_DayTypeRates(t *testing.T) {
	t.Parallel()

	rule := singleTierRule()

	got, err := ComputeOvertime(510, DayRestDay, rule, otPolicy())
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.RateTier1)

	got, err = ComputeOvertime(510, DayPublicHoliday, rule, otPolicy())
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.RateTier1)
}

func TestComputeOvertime_OverrideBeatsDayTypeDefault(t *testing.T) {
	t.Parallel()

	rule := singleTierRule()
	rule.DayTypeOverrides = map[string]float64{"public_holiday": 3.0}

	got, err := ComputeOvertime(510, DayPublicHoliday, rule, otPolicy())
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.RateTier1)
}

func TestComputeOvertime_Validation(t *testing.T) {
	t.Parallel()

	_, err := ComputeOvertime(-10, DayNormal, singleTierRule(), otPolicy())
	assert.ErrorIs(t, err, ErrNegativeMinutes)

	bad := twoTierRule()
	*bad.ThresholdMinutesT2 = 480
	_, err = ComputeOvertime(600, DayNormal, bad, otPolicy())
	assert.ErrorIs(t, err, ErrTierOrder)

	low := singleTierRule()
	low.MultiplierT1 = 0.5
	_, err = ComputeOvertime(600, DayNormal, low, otPolicy())
	assert.ErrorIs(t, err, ErrInvalidMultiplier)

	lowT2 := twoTierRule()
	*lowT2.MultiplierT2 = 0.9
	_, err = ComputeOvertime(600, DayNormal, lowT2, otPolicy())
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
}
