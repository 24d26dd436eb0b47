package engine

import (
	"context"
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
)

// RawEntry is the minimal stored fact a preview replays: who clocked when.
// Everything derived (worked minutes, flags, overtime) is recomputed under the
// candidate policy, so the preview never leaks the persisted derived fields.
// PositionID and AutoClosed are carried so the candidate policy's eligibility
// mode and the no-overtime-on-auto-close rule apply during replay exactly as
// they do at clock-out.
type RawEntry struct {
	ID         string
	EmployeeID string
	ShiftID    *string
	PositionID *string
	Date       time.Time
	ClockIn    time.Time
	ClockOut   *time.Time
	AutoClosed bool
}

// EntrySource yields the closed raw entries to replay for a preview window.
type EntrySource interface {
	RawEntries(ctx context.Context, companyID string, employeeIDs []string, from, to time.Time) ([]RawEntry, error)
}

// ShiftDirectory resolves shift definitions referenced by raw entries.
type ShiftDirectory interface {
	ShiftByID(ctx context.Context, companyID, shiftID string) (*shift.Shift, error)
}

// EntryFailure records one entry that could not be evaluated under the
// candidate policy. Failures never abort the run; the rest of the window is
// still computed so an admin sees the full impact of a draft policy at once.
type EntryFailure struct {
	EntryID    string
	EmployeeID string
	Date       time.Time
	Reason     string
}

// EmployeePreview is one employee's replayed window.
type EmployeePreview struct {
	EmployeeID string
	Totals     TimesheetTotals
}

// PreviewResult is a dry run of a candidate policy over stored entries.
type PreviewResult struct {
	From      time.Time
	To        time.Time
	Employees []EmployeePreview
	Failures  []EntryFailure
}

// PreviewRunner replays stored clock pairs through the full pipeline
// (classify, normalize, compute overtime, aggregate) under a policy that need
// not be the saved one. Nothing is persisted.
type PreviewRunner struct {
	entries EntrySource
	shifts  ShiftDirectory
}

func NewPreviewRunner(entries EntrySource, shifts ShiftDirectory) *PreviewRunner {
	return &PreviewRunner{entries: entries, shifts: shifts}
}

// Run evaluates the candidate policy over the window. Open entries are skipped
// and reported as failures; per-entry engine errors are collected, not fatal.
// Only source errors (the entry query, a shift lookup) abort the run.
func (r *PreviewRunner) Run(ctx context.Context, companyID string, p policy.AttendancePolicy, employeeIDs []string, from, to time.Time, calendar HolidayCalendar) (PreviewResult, error) {
	result := PreviewResult{From: from, To: to}

	raw, err := r.entries.RawEntries(ctx, companyID, employeeIDs, from, to)
	if err != nil {
		return PreviewResult{}, err
	}

	rule, ruleErr := p.Overtime.PrimaryRule()
	classifier := NewDayClassifier(p, calendar)
	shiftCache := make(map[string]*shift.Shift)
	byEmployee := make(map[string][]OTResult)
	order := make([]string, 0)

	for _, entry := range raw {
		if entry.ClockOut == nil {
			result.Failures = append(result.Failures, failureFor(entry, ErrEntryOpen.Error()))
			continue
		}

		var sh *shift.Shift
		if entry.ShiftID != nil {
			cached, ok := shiftCache[*entry.ShiftID]
			if !ok {
				cached, err = r.shifts.ShiftByID(ctx, companyID, *entry.ShiftID)
				if err != nil {
					return PreviewResult{}, err
				}
				shiftCache[*entry.ShiftID] = cached
			}
			sh = cached
		}

		span, err := Normalize(entry.ClockIn, entry.ClockOut, entry.ClockIn, p, sh)
		if err != nil {
			result.Failures = append(result.Failures, failureFor(entry, err.Error()))
			continue
		}

		dayType := classifier.Classify(entry.Date)

		eligible := p.Overtime.Eligible(entry.ShiftID != nil, entry.PositionID)

		var ot OTResult
		if ruleErr != nil || !eligible || entry.AutoClosed {
			// Overtime disabled, no active rule, an ineligible employee, or
			// an auto-closed entry: all minutes are regular.
			ot = OTResult{DayType: dayType, RegularMinutes: span.WorkedMinutes, RateTier1: 1.0, RateTier2: 1.0}
		} else {
			ot, err = ComputeOvertime(span.WorkedMinutes, dayType, rule, p)
			if err != nil {
				result.Failures = append(result.Failures, failureFor(entry, err.Error()))
				continue
			}
		}
		ot.EmployeeID = entry.EmployeeID
		ot.Date = entry.Date

		if _, seen := byEmployee[entry.EmployeeID]; !seen {
			order = append(order, entry.EmployeeID)
		}
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], ot)
	}

	for _, employeeID := range order {
		result.Employees = append(result.Employees, EmployeePreview{
			EmployeeID: employeeID,
			Totals:     Aggregate(byEmployee[employeeID], p.Overtime),
		})
	}
	return result, nil
}

func failureFor(entry RawEntry, reason string) EntryFailure {
	return EntryFailure{
		EntryID:    entry.ID,
		EmployeeID: entry.EmployeeID,
		Date:       entry.Date,
		Reason:     reason,
	}
}
