package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
	"github.com/opsuite/attendance-backend-go/internal/domain/preview"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
	"github.com/opsuite/attendance-backend-go/internal/engine"
)

type PreviewServiceImpl struct {
	entryRepo    attendance.EntryRepository
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	holidayRepo  calendar.HolidayRepository
}

func NewPreviewService(
	entryRepo attendance.EntryRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo calendar.HolidayRepository,
) preview.PreviewService {
	return &PreviewServiceImpl{
		entryRepo:    entryRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		holidayRepo:  holidayRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// entrySource adapts the entry repository to the replay source. ListRange
// already restricts to closed entries, so open-entry failures never originate
// here. Each entry carries its owner's position and auto-closed status so the
// runner can apply the candidate policy's eligibility mode.
type entrySource struct {
	repo      attendance.EntryRepository
	employees employee.EmployeeRepository
}

func (s entrySource) RawEntries(ctx context.Context, companyID string, employeeIDs []string, from, to time.Time) ([]engine.RawEntry, error) {
	var raw []engine.RawEntry
	for _, employeeID := range employeeIDs {
		entries, err := s.repo.ListRange(ctx, employeeID, from, to, companyID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}

		var positionID *string
		emp, err := s.employees.GetByID(ctx, employeeID, companyID)
		if err == nil {
			positionID = emp.PositionID
		} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}

		for _, e := range entries {
			raw = append(raw, engine.RawEntry{
				ID:         e.ID,
				EmployeeID: e.EmployeeID,
				ShiftID:    e.ShiftID,
				PositionID: positionID,
				Date:       e.Date,
				ClockIn:    e.ClockIn,
				ClockOut:   e.ClockOut,
				AutoClosed: e.Status == attendance.StatusAutoClosed,
			})
		}
	}
	return raw, nil
}

// shiftDirectory adapts the shift repository. A deleted or unknown shift
// degrades to no-shift normalization instead of aborting the run.
type shiftDirectory struct {
	repo shift.ShiftRepository
}

func (d shiftDirectory) ShiftByID(ctx context.Context, companyID, shiftID string) (*shift.Shift, error) {
	found, err := d.repo.GetByID(ctx, shiftID, companyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &found, nil
}

// Run implements preview.PreviewService.
func (s *PreviewServiceImpl) Run(ctx context.Context, req preview.PreviewRequest) (preview.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return preview.PreviewResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return preview.PreviewResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		active, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return preview.PreviewResponse{}, err
		}
		for _, emp := range active {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	holidays, err := s.holidayRepo.ListRange(ctx, companyID, start, end)
	if err != nil {
		return preview.PreviewResponse{}, fmt.Errorf("failed to load holidays: %w", err)
	}

	candidate := req.Policy.ToEntity(companyID)

	runner := engine.NewPreviewRunner(entrySource{repo: s.entryRepo, employees: s.employeeRepo}, shiftDirectory{repo: s.shiftRepo})
	result, err := runner.Run(ctx, companyID, candidate, employeeIDs, start, end, engine.HolidaySet(calendar.DateSet(holidays)))
	if err != nil {
		return preview.PreviewResponse{}, err
	}

	return toPreviewResponse(req, result), nil
}

func toPreviewResponse(req preview.PreviewRequest, result engine.PreviewResult) preview.PreviewResponse {
	resp := preview.PreviewResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	for _, emp := range result.Employees {
		er := preview.EmployeeResult{
			EmployeeID:       emp.EmployeeID,
			RegularMinutes:   emp.Totals.RegularMinutes,
			Tier1Minutes:     emp.Totals.OTTier1Minutes,
			Tier2Minutes:     emp.Totals.OTTier2Minutes,
			WeeklyCapApplied: emp.Totals.WeeklyCapApplied,
		}
		for _, day := range emp.Totals.Days {
			er.Days = append(er.Days, preview.DayResult{
				Date:           day.Date.Format("2006-01-02"),
				DayType:        string(day.DayType),
				RegularMinutes: day.RegularMinutes,
				Tier1Minutes:   day.OTTier1Minutes,
				Tier2Minutes:   day.OTTier2Minutes,
				RateTier1:      day.RateTier1,
				RateTier2:      day.RateTier2,
				Capped:         day.Capped,
			})
		}
		for _, week := range emp.Totals.Weeks {
			er.Weeks = append(er.Weeks, preview.WeekResult{
				ISOYear:          week.ISOYear,
				ISOWeek:          week.ISOWeek,
				RegularMinutes:   week.RegularMinutes,
				Tier1Minutes:     week.OTTier1Minutes,
				Tier2Minutes:     week.OTTier2Minutes,
				WeeklyCapApplied: week.WeeklyCapApplied,
			})
		}
		resp.Employees = append(resp.Employees, er)
	}

	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, preview.FailureResult{
			EntryID:    failure.EntryID,
			EmployeeID: failure.EmployeeID,
			Date:       failure.Date.Format("2006-01-02"),
			Reason:     failure.Reason,
		})
	}

	return resp
}
