package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
	"github.com/opsuite/attendance-backend-go/internal/engine"
)

// AttendanceJobs holds the background maintenance jobs: closing entries whose
// owner never clocked out, and recording absences for scheduled workdays with
// no entry at all.
type AttendanceJobs struct {
	entryRepo    attendance.EntryRepository
	employeeRepo employee.EmployeeRepository
	policyRepo   policy.PolicyRepository
	shiftRepo    shift.ShiftRepository
	holidayRepo  calendar.HolidayRepository
}

func NewAttendanceJobs(
	entryRepo attendance.EntryRepository,
	employeeRepo employee.EmployeeRepository,
	policyRepo policy.PolicyRepository,
	shiftRepo shift.ShiftRepository,
	holidayRepo calendar.HolidayRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		policyRepo:   policyRepo,
		shiftRepo:    shiftRepo,
		holidayRepo:  holidayRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("auto_close_stale_entries", interval, j.AutoCloseStaleEntries)
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// AutoCloseStaleEntries closes open entries older than each company's
// max-open-entry window. Entries with a shift are closed at the scheduled
// shift end; entries without one are closed at their clock-in, so they earn
// nothing until a correction fixes the real clock-out. Auto-closed entries
// never earn overtime.
func (j *AttendanceJobs) AutoCloseStaleEntries(ctx context.Context) error {
	companyIDs, err := j.employeeRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	totalClosed := 0
	for _, companyID := range companyIDs {
		p, err := j.policyRepo.GetByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to load policy", "company_id", companyID, "error", err)
			continue
		}
		if p.MaxOpenEntryHours <= 0 {
			continue
		}

		cutoff := time.Now().Add(-time.Duration(p.MaxOpenEntryHours) * time.Hour)
		stale, err := j.entryRepo.GetStaleOpenEntries(ctx, companyID, cutoff)
		if err != nil {
			slog.Error("Cron: Failed to get stale entries", "company_id", companyID, "error", err)
			continue
		}

		for _, entry := range stale {
			closed, err := j.closeStaleEntry(ctx, entry, p)
			if err != nil {
				slog.Error("Cron: Failed to auto-close entry",
					"entry_id", entry.ID,
					"employee_id", entry.EmployeeID,
					"error", err)
				continue
			}
			if err := j.entryRepo.Update(ctx, closed); err != nil {
				slog.Error("Cron: Failed to update auto-closed entry",
					"entry_id", entry.ID,
					"error", err)
				continue
			}
			totalClosed++
		}
	}

	if totalClosed > 0 {
		slog.Info("Cron: Auto-closed stale entries", "count", totalClosed)
	}
	return nil
}

func (j *AttendanceJobs) closeStaleEntry(ctx context.Context, entry attendance.Entry, p policy.AttendancePolicy) (attendance.Entry, error) {
	clockOut := entry.ClockIn

	var sh *shift.Shift
	if entry.ShiftID != nil {
		found, err := j.shiftRepo.GetByID(ctx, *entry.ShiftID, entry.CompanyID)
		if err == nil {
			sh = &found

			endMinutes := found.EndMinutes()
			year, month, day := entry.ClockIn.Date()
			clockOut = time.Date(year, month, day, endMinutes/60, endMinutes%60, 0, 0, entry.ClockIn.Location())
			if endMinutes <= found.StartMinutes() && found.AllowCrossMidnight {
				clockOut = clockOut.AddDate(0, 0, 1)
			}
			if clockOut.Before(entry.ClockIn) {
				clockOut = entry.ClockIn
			}
		}
	}

	span, err := engine.Normalize(entry.ClockIn, &clockOut, clockOut, p, sh)
	if err != nil {
		return attendance.Entry{}, err
	}

	worked := span.WorkedMinutes
	entry.ClockOut = &clockOut
	entry.WorkedMinutes = &worked
	entry.Flag = attendance.Flag(span.Flag())
	entry.Status = attendance.StatusAutoClosed
	return entry, nil
}

// MarkAbsentEmployees records absence entries for yesterday (company-local)
// for active employees who were scheduled to work and produced no entry.
// Rest days and public holidays are skipped.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	companyIDs, err := j.employeeRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	totalAbsent := 0
	for _, companyID := range companyIDs {
		p, err := j.policyRepo.GetByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to load policy", "company_id", companyID, "error", err)
			continue
		}

		loc, err := time.LoadLocation(p.Timezone)
		if err != nil {
			loc = time.UTC
		}
		yesterday := time.Now().In(loc).AddDate(0, 0, -1)
		dayStart := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, loc)

		holidays, err := j.holidayRepo.ListRange(ctx, companyID, dayStart, dayStart)
		if err != nil {
			slog.Error("Cron: Failed to load holidays", "company_id", companyID, "error", err)
			continue
		}
		classifier := engine.NewDayClassifier(p, engine.HolidaySet(calendar.DateSet(holidays)))

		dayType := classifier.Classify(dayStart)
		if dayType != engine.DayNormal {
			continue
		}

		employees, err := j.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get employees", "company_id", companyID, "error", err)
			continue
		}

		var absences []attendance.Entry
		dateStr := dayStart.Format("2006-01-02")
		zero := 0
		for _, emp := range employees {
			hasEntry, err := j.entryRepo.HasEntryOnDate(ctx, emp.ID, dateStr, companyID)
			if err != nil || hasEntry {
				continue
			}

			// Absences are closed zero-minute entries so they never
			// collide with the one-open-entry constraint.
			clockOut := dayStart
			absences = append(absences, attendance.Entry{
				EmployeeID:    emp.ID,
				CompanyID:     companyID,
				ShiftID:       emp.ShiftID,
				Date:          dayStart,
				ClockIn:       dayStart,
				ClockOut:      &clockOut,
				WorkedMinutes: &zero,
				Flag:          attendance.FlagAbsent,
				Status:        attendance.StatusNormal,
				DayType:       string(dayType),
			})
		}

		if len(absences) == 0 {
			continue
		}
		if err := j.entryRepo.BulkCreateAbsences(ctx, absences); err != nil {
			slog.Error("Cron: Failed to bulk create absences", "company_id", companyID, "error", err)
			continue
		}
		totalAbsent += len(absences)
	}

	if totalAbsent > 0 {
		slog.Info("Cron: Marked absent employees", "count", totalAbsent)
	}
	return nil
}
