package policy

import (
	"time"

	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// POLICY DTOs
// ========================================

// UpsertPolicyRequest replaces the company's active policy wholesale.
type UpsertPolicyRequest struct {
	Workdays                []string              `json:"workdays"`
	GraceMinutes            int                   `json:"grace_minutes"`
	Timezone                string                `json:"timezone"`
	RequireShiftToClockIn   bool                  `json:"require_shift_to_clock_in"`
	AllowClockOutWithoutIn  bool                  `json:"allow_clock_out_without_in"`
	MaxOpenEntryHours       int                   `json:"max_open_entry_hours"`
	LateAfterMinutes        int                   `json:"late_after_minutes"`
	EarlyLeaveBeforeMinutes int                   `json:"early_leave_before_minutes"`
	Overtime                OvertimePolicyRequest `json:"overtime"`
}

type OvertimePolicyRequest struct {
	Enabled                 bool                  `json:"enabled"`
	CompensationMode        string                `json:"compensation_mode"`
	RequireApproval         bool                  `json:"require_approval"`
	ApprovalChain           string                `json:"approval_chain"`
	OTGraceMinutes          int                   `json:"ot_grace_minutes"`
	AutoDeductBreakMinutes  int                   `json:"auto_deduct_break_minutes"`
	RoundingMode            string                `json:"rounding_mode"`
	RoundingIntervalMinutes int                   `json:"rounding_interval_minutes"`
	MaxOTPerDayHours        float64               `json:"max_ot_per_day_hours"`
	MaxOTPerWeekHours       float64               `json:"max_ot_per_week_hours"`
	MinOTBlockMinutes       int                   `json:"min_ot_block_minutes"`
	EligibilityMode         string                `json:"eligibility_mode"`
	EligiblePositionIDs     []string              `json:"eligible_position_ids,omitempty"`
	TOILCarryForwardDays    int                   `json:"toil_carry_forward_days"`
	WeeklyCapStrategy       string                `json:"weekly_cap_strategy"`
	Rules                   []OvertimeRuleRequest `json:"rules"`
}

type OvertimeRuleRequest struct {
	Priority           int                `json:"priority"`
	RuleType           string             `json:"rule_type"`
	ThresholdMinutesT1 int                `json:"threshold_minutes_t1"`
	ThresholdMinutesT2 *int               `json:"threshold_minutes_t2,omitempty"`
	MultiplierT1       float64            `json:"multiplier_t1"`
	MultiplierT2       *float64           `json:"multiplier_t2,omitempty"`
	RestDayMultiplier  float64            `json:"rest_day_multiplier"`
	HolidayMultiplier  float64            `json:"holiday_multiplier"`
	DayTypeOverrides   map[string]float64 `json:"day_type_overrides,omitempty"`
	IsActive           bool               `json:"is_active"`
}

func (r *UpsertPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Workdays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "workdays",
			Message: "at least one workday is required",
		})
	}
	for _, day := range r.Workdays {
		if _, ok := weekdayByName[day]; !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "workdays",
				Message: "unknown weekday name: " + day,
			})
			break
		}
	}

	if r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_minutes",
			Message: "grace_minutes must not be negative",
		})
	}

	if validator.IsEmpty(r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone is required",
		})
	} else if _, err := time.LoadLocation(r.Timezone); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA identifier",
		})
	}

	if r.MaxOpenEntryHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_open_entry_hours",
			Message: "max_open_entry_hours must be greater than 0",
		})
	}

	if r.LateAfterMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_after_minutes",
			Message: "late_after_minutes must not be negative",
		})
	}

	if r.EarlyLeaveBeforeMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "early_leave_before_minutes",
			Message: "early_leave_before_minutes must not be negative",
		})
	}

	errs = append(errs, r.Overtime.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (o *OvertimePolicyRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	validCompensation := []string{string(CompensationPaid), string(CompensationTOIL), string(CompensationHybrid)}
	if !validator.IsInSlice(o.CompensationMode, validCompensation) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.compensation_mode",
			Message: "compensation_mode must be one of: paid, time_off_in_lieu, hybrid",
		})
	}

	validChains := []string{string(ApprovalManager), string(ApprovalHR), string(ApprovalManagerThenHR)}
	if o.RequireApproval && !validator.IsInSlice(o.ApprovalChain, validChains) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.approval_chain",
			Message: "approval_chain must be one of: manager, hr, manager_then_hr",
		})
	}

	if o.OTGraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.ot_grace_minutes",
			Message: "ot_grace_minutes must not be negative",
		})
	}

	if o.AutoDeductBreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.auto_deduct_break_minutes",
			Message: "auto_deduct_break_minutes must not be negative",
		})
	}

	validRounding := []string{string(RoundingNone), string(RoundingDown), string(RoundingUp), string(RoundingNearest)}
	if !validator.IsInSlice(o.RoundingMode, validRounding) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.rounding_mode",
			Message: "rounding_mode must be one of: none, round_down, round_up, nearest",
		})
	} else if o.RoundingMode != string(RoundingNone) && o.RoundingIntervalMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.rounding_interval_minutes",
			Message: "rounding_interval_minutes must be greater than 0 when rounding is enabled",
		})
	}

	if o.MaxOTPerDayHours < 0 || o.MaxOTPerWeekHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.max_ot_hours",
			Message: "overtime caps must not be negative",
		})
	}

	if o.MinOTBlockMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.min_ot_block_minutes",
			Message: "min_ot_block_minutes must not be negative",
		})
	}

	validEligibility := []string{string(EligibilityAll), string(EligibilityShiftAssigned), string(EligibilitySelectedPositions)}
	if !validator.IsInSlice(o.EligibilityMode, validEligibility) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.eligibility_mode",
			Message: "eligibility_mode must be one of: all, shift_assigned, selected_positions",
		})
	} else if o.EligibilityMode == string(EligibilitySelectedPositions) && len(o.EligiblePositionIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.eligible_position_ids",
			Message: "eligible_position_ids is required for selected_positions eligibility",
		})
	}

	if o.TOILCarryForwardDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.toil_carry_forward_days",
			Message: "toil_carry_forward_days must not be negative",
		})
	}

	if o.WeeklyCapStrategy != "" {
		validStrategies := []string{string(CapNewestFirst), string(CapOldestFirst)}
		if !validator.IsInSlice(o.WeeklyCapStrategy, validStrategies) {
			errs = append(errs, validator.ValidationError{
				Field:   "overtime.weekly_cap_strategy",
				Message: "weekly_cap_strategy must be one of: newest_first, oldest_first",
			})
		}
	}

	if o.Enabled && len(o.Rules) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime.rules",
			Message: "at least one overtime rule is required when overtime is enabled",
		})
	}

	for i, rule := range o.Rules {
		errs = append(errs, rule.validate(i)...)
	}

	return errs
}

func (r *OvertimeRuleRequest) validate(index int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	field := "overtime.rules[" + validator.Itoa(index) + "]"

	validTypes := []string{string(RuleDaily), string(RuleWeekly), string(RuleConsecutiveDays), string(RuleShiftBased)}
	if !validator.IsInSlice(r.RuleType, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".rule_type",
			Message: "rule_type must be one of: daily, weekly, consecutive_days, shift_based",
		})
	}

	if r.ThresholdMinutesT1 < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".threshold_minutes_t1",
			Message: "threshold_minutes_t1 must not be negative",
		})
	}

	if r.ThresholdMinutesT2 != nil && *r.ThresholdMinutesT2 <= r.ThresholdMinutesT1 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".threshold_minutes_t2",
			Message: "threshold_minutes_t2 must be greater than threshold_minutes_t1",
		})
	}

	// Multipliers below 1.0 would be a penalty scheme; rejected by default.
	if r.MultiplierT1 < 1.0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".multiplier_t1",
			Message: "multiplier_t1 must be at least 1.0",
		})
	}
	if r.MultiplierT2 != nil && *r.MultiplierT2 < 1.0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".multiplier_t2",
			Message: "multiplier_t2 must be at least 1.0",
		})
	}
	if r.RestDayMultiplier < 1.0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".rest_day_multiplier",
			Message: "rest_day_multiplier must be at least 1.0",
		})
	}
	if r.HolidayMultiplier < 1.0 {
		errs = append(errs, validator.ValidationError{
			Field:   field + ".holiday_multiplier",
			Message: "holiday_multiplier must be at least 1.0",
		})
	}
	for dayType, multiplier := range r.DayTypeOverrides {
		if multiplier < 1.0 {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".day_type_overrides." + dayType,
				Message: "override multiplier must be at least 1.0",
			})
		}
	}

	return errs
}

// ToEntity converts a validated request into the domain entity.
func (r *UpsertPolicyRequest) ToEntity(companyID string) AttendancePolicy {
	rules := make([]OvertimeRule, 0, len(r.Overtime.Rules))
	for _, rule := range r.Overtime.Rules {
		rules = append(rules, OvertimeRule{
			Priority:           rule.Priority,
			RuleType:           RuleType(rule.RuleType),
			ThresholdMinutesT1: rule.ThresholdMinutesT1,
			ThresholdMinutesT2: rule.ThresholdMinutesT2,
			MultiplierT1:       rule.MultiplierT1,
			MultiplierT2:       rule.MultiplierT2,
			RestDayMultiplier:  rule.RestDayMultiplier,
			HolidayMultiplier:  rule.HolidayMultiplier,
			DayTypeOverrides:   rule.DayTypeOverrides,
			IsActive:           rule.IsActive,
		})
	}

	strategy := WeeklyCapStrategy(r.Overtime.WeeklyCapStrategy)
	if strategy == "" {
		strategy = CapNewestFirst
	}

	return AttendancePolicy{
		CompanyID:               companyID,
		Workdays:                r.Workdays,
		GraceMinutes:            r.GraceMinutes,
		Timezone:                r.Timezone,
		RequireShiftToClockIn:   r.RequireShiftToClockIn,
		AllowClockOutWithoutIn:  r.AllowClockOutWithoutIn,
		MaxOpenEntryHours:       r.MaxOpenEntryHours,
		LateAfterMinutes:        r.LateAfterMinutes,
		EarlyLeaveBeforeMinutes: r.EarlyLeaveBeforeMinutes,
		Overtime: OvertimePolicy{
			Enabled:                 r.Overtime.Enabled,
			CompensationMode:        CompensationMode(r.Overtime.CompensationMode),
			RequireApproval:         r.Overtime.RequireApproval,
			ApprovalChain:           ApprovalChain(r.Overtime.ApprovalChain),
			OTGraceMinutes:          r.Overtime.OTGraceMinutes,
			AutoDeductBreakMinutes:  r.Overtime.AutoDeductBreakMinutes,
			RoundingMode:            RoundingMode(r.Overtime.RoundingMode),
			RoundingIntervalMinutes: r.Overtime.RoundingIntervalMinutes,
			MaxOTPerDayHours:        r.Overtime.MaxOTPerDayHours,
			MaxOTPerWeekHours:       r.Overtime.MaxOTPerWeekHours,
			MinOTBlockMinutes:       r.Overtime.MinOTBlockMinutes,
			EligibilityMode:         EligibilityMode(r.Overtime.EligibilityMode),
			EligiblePositionIDs:     r.Overtime.EligiblePositionIDs,
			TOILCarryForwardDays:    r.Overtime.TOILCarryForwardDays,
			WeeklyCapStrategy:       strategy,
			Rules:                   rules,
		},
	}
}

type PolicyResponse struct {
	ID                      string                 `json:"id"`
	CompanyID               string                 `json:"company_id"`
	Workdays                []string               `json:"workdays"`
	GraceMinutes            int                    `json:"grace_minutes"`
	Timezone                string                 `json:"timezone"`
	RequireShiftToClockIn   bool                   `json:"require_shift_to_clock_in"`
	AllowClockOutWithoutIn  bool                   `json:"allow_clock_out_without_in"`
	MaxOpenEntryHours       int                    `json:"max_open_entry_hours"`
	LateAfterMinutes        int                    `json:"late_after_minutes"`
	EarlyLeaveBeforeMinutes int                    `json:"early_leave_before_minutes"`
	Overtime                OvertimePolicyResponse `json:"overtime"`
	CreatedAt               string                 `json:"created_at"`
	UpdatedAt               string                 `json:"updated_at"`
}

type OvertimePolicyResponse struct {
	Enabled                 bool                   `json:"enabled"`
	CompensationMode        string                 `json:"compensation_mode"`
	RequireApproval         bool                   `json:"require_approval"`
	ApprovalChain           string                 `json:"approval_chain,omitempty"`
	OTGraceMinutes          int                    `json:"ot_grace_minutes"`
	AutoDeductBreakMinutes  int                    `json:"auto_deduct_break_minutes"`
	RoundingMode            string                 `json:"rounding_mode"`
	RoundingIntervalMinutes int                    `json:"rounding_interval_minutes"`
	MaxOTPerDayHours        float64                `json:"max_ot_per_day_hours"`
	MaxOTPerWeekHours       float64                `json:"max_ot_per_week_hours"`
	MinOTBlockMinutes       int                    `json:"min_ot_block_minutes"`
	EligibilityMode         string                 `json:"eligibility_mode"`
	EligiblePositionIDs     []string               `json:"eligible_position_ids,omitempty"`
	TOILCarryForwardDays    int                    `json:"toil_carry_forward_days"`
	WeeklyCapStrategy       string                 `json:"weekly_cap_strategy"`
	Rules                   []OvertimeRuleResponse `json:"rules"`
}

type OvertimeRuleResponse struct {
	ID                 string             `json:"id"`
	Priority           int                `json:"priority"`
	RuleType           string             `json:"rule_type"`
	ThresholdMinutesT1 int                `json:"threshold_minutes_t1"`
	ThresholdMinutesT2 *int               `json:"threshold_minutes_t2,omitempty"`
	MultiplierT1       float64            `json:"multiplier_t1"`
	MultiplierT2       *float64           `json:"multiplier_t2,omitempty"`
	RestDayMultiplier  float64            `json:"rest_day_multiplier"`
	HolidayMultiplier  float64            `json:"holiday_multiplier"`
	DayTypeOverrides   map[string]float64 `json:"day_type_overrides,omitempty"`
	IsActive           bool               `json:"is_active"`
}

// ToResponse converts the entity into its API shape.
func (p *AttendancePolicy) ToResponse() PolicyResponse {
	rules := make([]OvertimeRuleResponse, 0, len(p.Overtime.Rules))
	for _, rule := range p.Overtime.Rules {
		rules = append(rules, OvertimeRuleResponse{
			ID:                 rule.ID,
			Priority:           rule.Priority,
			RuleType:           string(rule.RuleType),
			ThresholdMinutesT1: rule.ThresholdMinutesT1,
			ThresholdMinutesT2: rule.ThresholdMinutesT2,
			MultiplierT1:       rule.MultiplierT1,
			MultiplierT2:       rule.MultiplierT2,
			RestDayMultiplier:  rule.RestDayMultiplier,
			HolidayMultiplier:  rule.HolidayMultiplier,
			DayTypeOverrides:   rule.DayTypeOverrides,
			IsActive:           rule.IsActive,
		})
	}

	return PolicyResponse{
		ID:                      p.ID,
		CompanyID:               p.CompanyID,
		Workdays:                p.Workdays,
		GraceMinutes:            p.GraceMinutes,
		Timezone:                p.Timezone,
		RequireShiftToClockIn:   p.RequireShiftToClockIn,
		AllowClockOutWithoutIn:  p.AllowClockOutWithoutIn,
		MaxOpenEntryHours:       p.MaxOpenEntryHours,
		LateAfterMinutes:        p.LateAfterMinutes,
		EarlyLeaveBeforeMinutes: p.EarlyLeaveBeforeMinutes,
		Overtime: OvertimePolicyResponse{
			Enabled:                 p.Overtime.Enabled,
			CompensationMode:        string(p.Overtime.CompensationMode),
			RequireApproval:         p.Overtime.RequireApproval,
			ApprovalChain:           string(p.Overtime.ApprovalChain),
			OTGraceMinutes:          p.Overtime.OTGraceMinutes,
			AutoDeductBreakMinutes:  p.Overtime.AutoDeductBreakMinutes,
			RoundingMode:            string(p.Overtime.RoundingMode),
			RoundingIntervalMinutes: p.Overtime.RoundingIntervalMinutes,
			MaxOTPerDayHours:        p.Overtime.MaxOTPerDayHours,
			MaxOTPerWeekHours:       p.Overtime.MaxOTPerWeekHours,
			MinOTBlockMinutes:       p.Overtime.MinOTBlockMinutes,
			EligibilityMode:         string(p.Overtime.EligibilityMode),
			EligiblePositionIDs:     p.Overtime.EligiblePositionIDs,
			TOILCarryForwardDays:    p.Overtime.TOILCarryForwardDays,
			WeeklyCapStrategy:       string(p.Overtime.WeeklyCapStrategy),
			Rules:                   rules,
		},
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
