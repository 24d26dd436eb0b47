package policy

import (
	"sort"
	"time"
)

type RoundingMode string

const (
	RoundingNone    RoundingMode = "none"
	RoundingDown    RoundingMode = "round_down"
	RoundingUp      RoundingMode = "round_up"
	RoundingNearest RoundingMode = "nearest"
)

type CompensationMode string

const (
	CompensationPaid   CompensationMode = "paid"
	CompensationTOIL   CompensationMode = "time_off_in_lieu"
	CompensationHybrid CompensationMode = "hybrid"
)

type ApprovalChain string

const (
	ApprovalManager       ApprovalChain = "manager"
	ApprovalHR            ApprovalChain = "hr"
	ApprovalManagerThenHR ApprovalChain = "manager_then_hr"
)

type EligibilityMode string

const (
	EligibilityAll               EligibilityMode = "all"
	EligibilityShiftAssigned     EligibilityMode = "shift_assigned"
	EligibilitySelectedPositions EligibilityMode = "selected_positions"
)

type WeeklyCapStrategy string

const (
	CapNewestFirst WeeklyCapStrategy = "newest_first"
	CapOldestFirst WeeklyCapStrategy = "oldest_first"
)

type RuleType string

const (
	RuleDaily           RuleType = "daily"
	RuleWeekly          RuleType = "weekly"
	RuleConsecutiveDays RuleType = "consecutive_days"
	RuleShiftBased      RuleType = "shift_based"
)

// AttendancePolicy is the single active attendance configuration for a company.
// It is replaced wholesale on update; the previous revision is archived so
// historical entries can be reinterpreted against the policy that produced them.
type AttendancePolicy struct {
	ID                      string
	CompanyID               string
	Workdays                []string // lowercase weekday names, e.g. "monday"
	GraceMinutes            int
	Timezone                string // IANA identifier
	RequireShiftToClockIn   bool
	AllowClockOutWithoutIn  bool
	MaxOpenEntryHours       int
	LateAfterMinutes        int
	EarlyLeaveBeforeMinutes int
	Overtime                OvertimePolicy
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type OvertimePolicy struct {
	Enabled                 bool
	CompensationMode        CompensationMode
	RequireApproval         bool
	ApprovalChain           ApprovalChain
	OTGraceMinutes          int
	AutoDeductBreakMinutes  int
	RoundingMode            RoundingMode
	RoundingIntervalMinutes int
	MaxOTPerDayHours        float64
	MaxOTPerWeekHours       float64
	MinOTBlockMinutes       int
	EligibilityMode         EligibilityMode
	EligiblePositionIDs     []string
	TOILCarryForwardDays    int
	WeeklyCapStrategy       WeeklyCapStrategy
	Rules                   []OvertimeRule
}

// OvertimeRule is one entry of the prioritized rule list. Only the primary rule
// (lowest priority number, active) is consulted during evaluation, but the full
// list is stored so shift-based overrides can be added without a migration.
type OvertimeRule struct {
	ID                 string
	Priority           int
	RuleType           RuleType
	ThresholdMinutesT1 int
	ThresholdMinutesT2 *int
	MultiplierT1       float64
	MultiplierT2       *float64
	RestDayMultiplier  float64
	HolidayMultiplier  float64
	DayTypeOverrides   map[string]float64
	IsActive           bool
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WorkdaySet converts the configured weekday names into a lookup set.
// Unknown names are ignored; DTO validation rejects them before they get here.
func (p *AttendancePolicy) WorkdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(p.Workdays))
	for _, name := range p.Workdays {
		if wd, ok := weekdayByName[name]; ok {
			set[wd] = true
		}
	}
	return set
}

// Eligible reports whether overtime applies to an entry, given whether the
// entry carries a shift and the owning employee's position. Every caller that
// attributes overtime minutes goes through this, so clock-out, timesheet
// generation, and previews agree on who can earn them.
func (o *OvertimePolicy) Eligible(hasShift bool, positionID *string) bool {
	switch o.EligibilityMode {
	case EligibilityShiftAssigned:
		return hasShift
	case EligibilitySelectedPositions:
		if positionID == nil {
			return false
		}
		for _, id := range o.EligiblePositionIDs {
			if id == *positionID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// PrimaryRule returns the active rule with the lowest priority number.
func (o *OvertimePolicy) PrimaryRule() (OvertimeRule, error) {
	if !o.Enabled {
		return OvertimeRule{}, ErrOvertimeDisabled
	}

	active := make([]OvertimeRule, 0, len(o.Rules))
	for _, rule := range o.Rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	if len(active) == 0 {
		return OvertimeRule{}, ErrNoActiveRule
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active[0], nil
}

// TierSplitMinutes returns the width of the tier-1 overtime band, or 0 if the
// rule has no second tier.
func (r *OvertimeRule) TierSplitMinutes() int {
	if r.ThresholdMinutesT2 == nil {
		return 0
	}
	return *r.ThresholdMinutesT2 - r.ThresholdMinutesT1
}

// Tier2Multiplier falls back to the tier-1 multiplier when no second
// multiplier is configured.
func (r *OvertimeRule) Tier2Multiplier() float64 {
	if r.MultiplierT2 != nil {
		return *r.MultiplierT2
	}
	return r.MultiplierT1
}
