package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
	"github.com/opsuite/attendance-backend-go/internal/engine"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
	"github.com/opsuite/attendance-backend-go/internal/repository/postgresql"
)

type EntryServiceImpl struct {
	db *database.DB
	attendance.EntryRepository
	attendance.CorrectionRepository
	policy.PolicyRepository
	shift.ShiftRepository
	calendar.HolidayRepository
	employee.EmployeeRepository
}

func NewEntryService(
	db *database.DB,
	entryRepo attendance.EntryRepository,
	correctionRepo attendance.CorrectionRepository,
	policyRepo policy.PolicyRepository,
	shiftRepo shift.ShiftRepository,
	holidayRepo calendar.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.EntryService {
	return &EntryServiceImpl{
		db:                   db,
		EntryRepository:      entryRepo,
		CorrectionRepository: correctionRepo,
		PolicyRepository:     policyRepo,
		ShiftRepository:      shiftRepo,
		HolidayRepository:    holidayRepo,
		EmployeeRepository:   employeeRepo,
	}
}

type authClaims struct {
	CompanyID  string
	EmployeeID string
}

func claimsFromContext(ctx context.Context) (authClaims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return authClaims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return authClaims{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return authClaims{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	return authClaims{CompanyID: companyID, EmployeeID: employeeID}, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func toEntryResponse(e attendance.Entry) attendance.EntryResponse {
	resp := attendance.EntryResponse{
		ID:                   e.ID,
		EmployeeID:           e.EmployeeID,
		ShiftID:              e.ShiftID,
		Date:                 e.Date.Format("2006-01-02"),
		ClockInTime:          e.ClockIn.Format(time.RFC3339),
		ClockOutTime:         timePtrToString(e.ClockOut),
		WorkedMinutes:        e.WorkedMinutes,
		OvertimeTier1Minutes: e.OvertimeTier1Minutes,
		OvertimeTier2Minutes: e.OvertimeTier2Minutes,
		RateTier1:            e.RateTier1,
		RateTier2:            e.RateTier2,
		OvertimeCapped:       e.OvertimeCapped,
		Flag:                 string(e.Flag),
		Status:               string(e.Status),
		DayType:              e.DayType,
		CreatedAt:            e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            e.UpdatedAt.Format(time.RFC3339),
	}
	if e.EmployeeName != nil {
		resp.EmployeeName = *e.EmployeeName
	}
	return resp
}

func toCorrectionResponse(c attendance.CorrectionRequest) attendance.CorrectionResponse {
	return attendance.CorrectionResponse{
		ID:                c.ID,
		EntryID:           c.EntryID,
		RequestedBy:       c.RequestedBy,
		CorrectedClockIn:  c.RequestedClockIn.Format(time.RFC3339),
		CorrectedClockOut: timePtrToString(c.RequestedClockOut),
		Reason:            c.Reason,
		Status:            string(c.Status),
		ReviewerNote:      c.ReviewerNote,
		ReviewedBy:        c.ReviewedBy,
		ReviewedAt:        timePtrToString(c.ReviewedAt),
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
	}
}

// ClockIn implements attendance.EntryService.
func (s *EntryServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	p, err := s.PolicyRepository.GetByCompanyID(ctx, claims.CompanyID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	nowLocal := time.Now().In(loc)
	dayStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)

	sh, err := s.resolveShift(ctx, claims, req.ShiftID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}
	if p.RequireShiftToClockIn && sh == nil {
		return attendance.EntryResponse{}, attendance.ErrShiftRequired
	}

	if _, err := s.EntryRepository.GetOpenEntry(ctx, claims.EmployeeID, claims.CompanyID); err == nil {
		return attendance.EntryResponse{}, attendance.ErrAlreadyClockedIn
	} else if !errors.Is(err, attendance.ErrNotClockedIn) {
		return attendance.EntryResponse{}, err
	}

	dayType, err := s.classifyDay(ctx, claims.CompanyID, p, dayStart)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	// Lateness is knowable at clock-in; the rest of the derived fields wait
	// for clock-out.
	span, err := engine.Normalize(nowLocal, nil, nowLocal, p, sh)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	entry := attendance.Entry{
		EmployeeID: claims.EmployeeID,
		CompanyID:  claims.CompanyID,
		Date:       dayStart,
		ClockIn:    nowLocal,
		Flag:       attendance.Flag(span.Flag()),
		Status:     attendance.StatusNormal,
		DayType:    string(dayType),
	}
	if sh != nil {
		entry.ShiftID = &sh.ID
	}

	created, err := s.EntryRepository.Create(ctx, entry)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	return toEntryResponse(created), nil
}

// ClockOut implements attendance.EntryService.
func (s *EntryServiceImpl) ClockOut(ctx context.Context) (attendance.EntryResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	p, err := s.PolicyRepository.GetByCompanyID(ctx, claims.CompanyID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	nowLocal := time.Now().In(loc)

	entry, err := s.EntryRepository.GetOpenEntry(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		if !errors.Is(err, attendance.ErrNotClockedIn) {
			return attendance.EntryResponse{}, err
		}
		if !p.AllowClockOutWithoutIn {
			return attendance.EntryResponse{}, attendance.ErrClockOutNotAllowed
		}
		// Record the attempt as a zero-length entry so it surfaces for
		// correction instead of vanishing.
		return s.createOrphanClockOut(ctx, claims, p, nowLocal)
	}

	entry.ClockOut = &nowLocal

	recomputed, err := s.recomputeEntry(ctx, entry, p)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	if err := s.EntryRepository.Update(ctx, recomputed); err != nil {
		return attendance.EntryResponse{}, err
	}

	return toEntryResponse(recomputed), nil
}

func (s *EntryServiceImpl) createOrphanClockOut(ctx context.Context, claims authClaims, p policy.AttendancePolicy, nowLocal time.Time) (attendance.EntryResponse, error) {
	dayStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, nowLocal.Location())

	dayType, err := s.classifyDay(ctx, claims.CompanyID, p, dayStart)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	zero := 0
	entry := attendance.Entry{
		EmployeeID:    claims.EmployeeID,
		CompanyID:     claims.CompanyID,
		Date:          dayStart,
		ClockIn:       nowLocal,
		ClockOut:      &nowLocal,
		WorkedMinutes: &zero,
		Flag:          attendance.FlagOnTime,
		Status:        attendance.StatusAdjusted,
		DayType:       string(dayType),
	}

	created, err := s.EntryRepository.Create(ctx, entry)
	if err != nil {
		return attendance.EntryResponse{}, err
	}
	return toEntryResponse(created), nil
}

// recomputeEntry re-derives all computed fields of a closed entry from its
// clock pair under the given policy: worked minutes, flags, day type, and the
// overtime split. Used by clock-out and by correction approval.
func (s *EntryServiceImpl) recomputeEntry(ctx context.Context, entry attendance.Entry, p policy.AttendancePolicy) (attendance.Entry, error) {
	var sh *shift.Shift
	if entry.ShiftID != nil {
		found, err := s.ShiftRepository.GetByID(ctx, *entry.ShiftID, entry.CompanyID)
		if err != nil && !errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.Entry{}, err
		}
		if err == nil {
			sh = &found
		}
	}

	span, err := engine.Normalize(entry.ClockIn, entry.ClockOut, entry.ClockIn, p, sh)
	if err != nil {
		return attendance.Entry{}, err
	}

	dayType, err := s.classifyDay(ctx, entry.CompanyID, p, entry.Date)
	if err != nil {
		return attendance.Entry{}, err
	}

	worked := span.WorkedMinutes
	entry.WorkedMinutes = &worked
	entry.Flag = attendance.Flag(span.Flag())
	entry.DayType = string(dayType)
	entry.OvertimeTier1Minutes = nil
	entry.OvertimeTier2Minutes = nil
	entry.RateTier1 = nil
	entry.RateTier2 = nil
	entry.OvertimeCapped = false

	eligible, err := s.overtimeEligible(ctx, p, entry)
	if err != nil {
		return attendance.Entry{}, err
	}
	if !eligible {
		return entry, nil
	}

	rule, err := p.Overtime.PrimaryRule()
	if err != nil {
		if errors.Is(err, policy.ErrOvertimeDisabled) || errors.Is(err, policy.ErrNoActiveRule) {
			return entry, nil
		}
		return attendance.Entry{}, err
	}

	result, err := engine.ComputeOvertime(span.WorkedMinutes, dayType, rule, p)
	if err != nil {
		return attendance.Entry{}, err
	}

	entry.OvertimeTier1Minutes = &result.OTTier1Minutes
	entry.OvertimeTier2Minutes = &result.OTTier2Minutes
	entry.RateTier1 = &result.RateTier1
	entry.RateTier2 = &result.RateTier2
	entry.OvertimeCapped = result.Capped
	return entry, nil
}

func (s *EntryServiceImpl) overtimeEligible(ctx context.Context, p policy.AttendancePolicy, entry attendance.Entry) (bool, error) {
	var positionID *string
	if p.Overtime.EligibilityMode == policy.EligibilitySelectedPositions {
		emp, err := s.EmployeeRepository.GetByID(ctx, entry.EmployeeID, entry.CompanyID)
		if err != nil {
			return false, err
		}
		positionID = emp.PositionID
	}
	return p.Overtime.Eligible(entry.ShiftID != nil, positionID), nil
}

func (s *EntryServiceImpl) classifyDay(ctx context.Context, companyID string, p policy.AttendancePolicy, date time.Time) (engine.DayType, error) {
	holidays, err := s.HolidayRepository.ListRange(ctx, companyID, date, date)
	if err != nil {
		return "", fmt.Errorf("failed to load holidays: %w", err)
	}
	classifier := engine.NewDayClassifier(p, engine.HolidaySet(calendar.DateSet(holidays)))
	return classifier.Classify(date), nil
}

func (s *EntryServiceImpl) resolveShift(ctx context.Context, claims authClaims, override *string) (*shift.Shift, error) {
	if override != nil {
		found, err := s.ShiftRepository.GetByID(ctx, *override, claims.CompanyID)
		if err != nil {
			return nil, err
		}
		if !found.IsActive {
			return nil, shift.ErrShiftInactive
		}
		return &found, nil
	}
	return s.ShiftRepository.GetAssignedShift(ctx, claims.EmployeeID, claims.CompanyID)
}

// GetMyEntries implements attendance.EntryService.
func (s *EntryServiceImpl) GetMyEntries(ctx context.Context, filter attendance.EntryFilter) (attendance.ListEntriesResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	filter.EmployeeID = &claims.EmployeeID
	return s.listEntries(ctx, filter, claims.CompanyID)
}

// ListEntries implements attendance.EntryService.
func (s *EntryServiceImpl) ListEntries(ctx context.Context, filter attendance.EntryFilter) (attendance.ListEntriesResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	return s.listEntries(ctx, filter, claims.CompanyID)
}

func (s *EntryServiceImpl) listEntries(ctx context.Context, filter attendance.EntryFilter, companyID string) (attendance.ListEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	entries, total, err := s.EntryRepository.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	responses := make([]attendance.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	showingFrom := (filter.Page-1)*filter.Limit + 1
	showingTo := showingFrom + len(responses) - 1
	if len(responses) == 0 {
		showingFrom = 0
		showingTo = 0
	}

	return attendance.ListEntriesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d-%d of %d", showingFrom, showingTo, total),
		Entries:    responses,
	}, nil
}

// GetEntry implements attendance.EntryService.
func (s *EntryServiceImpl) GetEntry(ctx context.Context, id string) (attendance.EntryResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	entry, err := s.EntryRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	return toEntryResponse(entry), nil
}

// RequestCorrection implements attendance.EntryService.
func (s *EntryServiceImpl) RequestCorrection(ctx context.Context, req attendance.CreateCorrectionRequest) (attendance.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	entry, err := s.EntryRepository.GetByID(ctx, req.EntryID, claims.CompanyID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if entry.EmployeeID != claims.EmployeeID {
		return attendance.CorrectionResponse{}, attendance.ErrCorrectionNotOwned
	}

	clockIn, _ := time.Parse(time.RFC3339, req.CorrectedClockIn)
	var clockOut *time.Time
	if req.CorrectedClockOut != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.CorrectedClockOut)
		clockOut = &parsed
	}

	created, err := s.CorrectionRepository.Create(ctx, attendance.CorrectionRequest{
		EntryID:           entry.ID,
		CompanyID:         claims.CompanyID,
		RequestedBy:       claims.EmployeeID,
		RequestedClockIn:  clockIn,
		RequestedClockOut: clockOut,
		Reason:            req.Reason,
		Status:            attendance.CorrectionPending,
	})
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	return toCorrectionResponse(created), nil
}

// ApproveCorrection implements attendance.EntryService. The entry rewrite and
// the correction status change commit together or not at all.
func (s *EntryServiceImpl) ApproveCorrection(ctx context.Context, req attendance.ReviewCorrectionRequest) (attendance.CorrectionResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	p, err := s.PolicyRepository.GetByCompanyID(ctx, claims.CompanyID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	var approved attendance.CorrectionRequest
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		correction, err := s.CorrectionRepository.GetByID(txCtx, req.ID, claims.CompanyID)
		if err != nil {
			return err
		}
		if correction.Status != attendance.CorrectionPending {
			return attendance.ErrCorrectionAlreadyProcessed
		}

		entry, err := s.EntryRepository.GetByID(txCtx, correction.EntryID, claims.CompanyID)
		if err != nil {
			return err
		}

		entry.ClockIn = correction.RequestedClockIn
		entry.ClockOut = correction.RequestedClockOut

		if entry.ClockOut != nil {
			entry, err = s.recomputeEntry(txCtx, entry, p)
			if err != nil {
				return err
			}
		} else {
			entry.WorkedMinutes = nil
			entry.OvertimeTier1Minutes = nil
			entry.OvertimeTier2Minutes = nil
			entry.RateTier1 = nil
			entry.RateTier2 = nil
			entry.OvertimeCapped = false
		}
		entry.Status = attendance.StatusAdjusted

		if err := s.EntryRepository.Update(txCtx, entry); err != nil {
			return err
		}

		now := time.Now()
		correction.Status = attendance.CorrectionApproved
		correction.ReviewerNote = req.Note
		correction.ReviewedBy = &claims.EmployeeID
		correction.ReviewedAt = &now

		if err := s.CorrectionRepository.Update(txCtx, correction); err != nil {
			return err
		}

		approved = correction
		return nil
	})
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	return toCorrectionResponse(approved), nil
}

// RejectCorrection implements attendance.EntryService.
func (s *EntryServiceImpl) RejectCorrection(ctx context.Context, req attendance.RejectCorrectionRequest) (attendance.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	correction, err := s.CorrectionRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if correction.Status != attendance.CorrectionPending {
		return attendance.CorrectionResponse{}, attendance.ErrCorrectionAlreadyProcessed
	}

	now := time.Now()
	correction.Status = attendance.CorrectionRejected
	correction.ReviewerNote = &req.Note
	correction.ReviewedBy = &claims.EmployeeID
	correction.ReviewedAt = &now

	if err := s.CorrectionRepository.Update(ctx, correction); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	return toCorrectionResponse(correction), nil
}

// ListPendingCorrections implements attendance.EntryService.
func (s *EntryServiceImpl) ListPendingCorrections(ctx context.Context) ([]attendance.CorrectionResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	corrections, err := s.CorrectionRepository.ListPending(ctx, claims.CompanyID)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.CorrectionResponse, 0, len(corrections))
	for _, correction := range corrections {
		responses = append(responses, toCorrectionResponse(correction))
	}
	return responses, nil
}
