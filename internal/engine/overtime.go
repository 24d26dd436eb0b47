package engine

import (
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

// OTResult is the per-entry regular/overtime attribution. Minutes are
// non-negative integers; the engine emits minutes and rate multipliers, never
// currency. Monetary rounding is the payroll boundary's job.
type OTResult struct {
	EmployeeID     string
	Date           time.Time
	DayType        DayType
	RegularMinutes int
	OTTier1Minutes int
	OTTier2Minutes int
	RateTier1      float64
	RateTier2      float64
	Capped         bool
}

// ComputeOvertime splits worked minutes into regular and overtime tiers under
// the primary rule. The OT grace is a hard cliff (eligible spans at or under
// it earn nothing), the minimum block discards short spans entirely, and the
// daily cap truncates tier-2 before tier-1 with the Capped flag set so the
// truncation is never silent.
func ComputeOvertime(workedMinutes int, dayType DayType, rule policy.OvertimeRule, p policy.AttendancePolicy) (OTResult, error) {
	if workedMinutes < 0 {
		return OTResult{}, ErrNegativeMinutes
	}
	if rule.ThresholdMinutesT2 != nil && *rule.ThresholdMinutesT2 <= rule.ThresholdMinutesT1 {
		return OTResult{}, ErrTierOrder
	}
	if rule.MultiplierT1 < 1.0 || rule.RestDayMultiplier < 1.0 || rule.HolidayMultiplier < 1.0 {
		return OTResult{}, ErrInvalidMultiplier
	}
	if rule.MultiplierT2 != nil && *rule.MultiplierT2 < 1.0 {
		return OTResult{}, ErrInvalidMultiplier
	}

	result := OTResult{
		DayType:   dayType,
		RateTier1: resolveDayMultiplier(dayType, rule),
		RateTier2: rule.Tier2Multiplier(),
	}

	result.RegularMinutes = workedMinutes
	if result.RegularMinutes > rule.ThresholdMinutesT1 {
		result.RegularMinutes = rule.ThresholdMinutesT1
	}

	eligible := workedMinutes - rule.ThresholdMinutesT1
	if eligible < 0 {
		eligible = 0
	}

	// Threshold grace: a cliff, not a partial discount.
	if eligible <= p.Overtime.OTGraceMinutes {
		eligible = 0
	}

	// Minimum block: short spans are discarded, never partially credited.
	if eligible > 0 && eligible < p.Overtime.MinOTBlockMinutes {
		eligible = 0
	}

	if split := rule.TierSplitMinutes(); split > 0 && eligible > split {
		result.OTTier1Minutes = split
		result.OTTier2Minutes = eligible - split
	} else {
		result.OTTier1Minutes = eligible
	}

	if p.Overtime.MaxOTPerDayHours > 0 {
		capMinutes := int(p.Overtime.MaxOTPerDayHours * 60)
		excess := result.OTTier1Minutes + result.OTTier2Minutes - capMinutes
		if excess > 0 {
			result.Capped = true
			// Truncate tier-2 first, then tier-1.
			if result.OTTier2Minutes >= excess {
				result.OTTier2Minutes -= excess
			} else {
				excess -= result.OTTier2Minutes
				result.OTTier2Minutes = 0
				result.OTTier1Minutes -= excess
			}
		}
	}

	return result, nil
}

// resolveDayMultiplier picks the tier-1 rate for the day: an explicit
// day-type override always wins, then the rest-day/holiday defaults, then the
// normal-day baseline.
func resolveDayMultiplier(dayType DayType, rule policy.OvertimeRule) float64 {
	if override, ok := rule.DayTypeOverrides[string(dayType)]; ok {
		return override
	}
	switch dayType {
	case DayRestDay:
		return rule.RestDayMultiplier
	case DayPublicHoliday:
		return rule.HolidayMultiplier
	default:
		return rule.MultiplierT1
	}
}
