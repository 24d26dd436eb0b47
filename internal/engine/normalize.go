package engine

import (
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
)

// NormalizedSpan is the outcome of turning a clock-in/clock-out pair into
// attributable worked minutes.
type NormalizedSpan struct {
	WorkedMinutes     int
	Open              bool // clock-out missing; minutes computed against "now" for display only
	IsLate            bool
	IsEarlyLeave      bool
	LateMinutes       int
	EarlyLeaveMinutes int
}

// Normalize computes worked minutes from a clock pair: raw span, break
// deduction, late/early-leave flags against the shift, then a single rounding
// pass. Rounding happens exactly once here, after break deduction, so the
// regular/overtime attribution downstream never compounds rounding error.
//
// When clockOut is nil the entry is open and minutes are computed against now;
// the result must never be persisted as final.
func Normalize(clockIn time.Time, clockOut *time.Time, now time.Time, p policy.AttendancePolicy, sh *shift.Shift) (NormalizedSpan, error) {
	span := NormalizedSpan{}

	end := now
	if clockOut != nil {
		end = *clockOut
	} else {
		span.Open = true
	}

	if end.Before(clockIn) {
		// A cross-midnight shift may legitimately record a wall-clock
		// clock-out earlier than the clock-in; it means the next day.
		if clockOut != nil && sh != nil && sh.AllowCrossMidnight {
			end = end.AddDate(0, 0, 1)
		} else {
			return NormalizedSpan{}, ErrClockOutBeforeClockIn
		}
	}

	rawMinutes := int(end.Sub(clockIn).Minutes())
	if rawMinutes < 0 {
		rawMinutes = 0
	}

	workedMinutes := rawMinutes - p.Overtime.AutoDeductBreakMinutes
	if workedMinutes < 0 {
		workedMinutes = 0
	}

	if sh != nil {
		applyScheduleFlags(&span, clockIn, end, clockOut != nil, p, sh)
	}

	rounded, err := Round(workedMinutes, p.Overtime.RoundingMode, p.Overtime.RoundingIntervalMinutes)
	if err != nil {
		return NormalizedSpan{}, err
	}
	span.WorkedMinutes = rounded

	return span, nil
}

// applyScheduleFlags marks lateness and early leave against the shift
// schedule. end must already be day-adjusted for cross-midnight pairs.
func applyScheduleFlags(span *NormalizedSpan, clockIn, end time.Time, closed bool, p policy.AttendancePolicy, sh *shift.Shift) {
	loc := clockIn.Location()
	year, month, day := clockIn.Date()

	startMinutes := sh.StartMinutes()
	scheduledIn := time.Date(year, month, day, startMinutes/60, startMinutes%60, 0, 0, loc)

	grace := sh.GraceMinutes(p.GraceMinutes)
	graceLimit := scheduledIn.Add(time.Duration(grace+p.LateAfterMinutes) * time.Minute)
	if clockIn.After(graceLimit) {
		span.IsLate = true
		// Late minutes count from the scheduled start, not the grace limit.
		span.LateMinutes = int(clockIn.Sub(scheduledIn).Minutes())
	}

	if !closed {
		return
	}

	endMinutes := sh.EndMinutes()
	scheduledOut := time.Date(year, month, day, endMinutes/60, endMinutes%60, 0, 0, loc)
	if endMinutes <= startMinutes && sh.AllowCrossMidnight {
		scheduledOut = scheduledOut.AddDate(0, 0, 1)
	}

	earlyLimit := scheduledOut.Add(-time.Duration(p.EarlyLeaveBeforeMinutes) * time.Minute)
	if end.Before(earlyLimit) {
		span.IsEarlyLeave = true
		span.EarlyLeaveMinutes = int(scheduledOut.Sub(end).Minutes())
	}
}

// Flag collapses the late/early markers into the entry flag.
func (s NormalizedSpan) Flag() string {
	switch {
	case s.IsLate && s.IsEarlyLeave:
		return "late_and_early"
	case s.IsLate:
		return "late"
	case s.IsEarlyLeave:
		return "early_leave"
	default:
		return "on_time"
	}
}
