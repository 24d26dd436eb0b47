package timesheet

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
	"github.com/opsuite/attendance-backend-go/internal/domain/timesheet"
	"github.com/opsuite/attendance-backend-go/internal/engine"
)

type RecordServiceImpl struct {
	timesheet.RecordRepository
	entryRepo    attendance.EntryRepository
	policyRepo   policy.PolicyRepository
	holidayRepo  calendar.HolidayRepository
	employeeRepo employee.EmployeeRepository
}

func NewRecordService(
	recordRepo timesheet.RecordRepository,
	entryRepo attendance.EntryRepository,
	policyRepo policy.PolicyRepository,
	holidayRepo calendar.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
) timesheet.RecordService {
	return &RecordServiceImpl{
		RecordRepository: recordRepo,
		entryRepo:        entryRepo,
		policyRepo:       policyRepo,
		holidayRepo:      holidayRepo,
		employeeRepo:     employeeRepo,
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

func toRecordResponse(r timesheet.Record) timesheet.RecordResponse {
	resp := timesheet.RecordResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		PeriodStart:          r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:            r.PeriodEnd.Format("2006-01-02"),
		PeriodType:           string(r.PeriodType),
		TotalDays:            r.TotalDays,
		TotalWorkMinutes:     r.TotalWorkMinutes,
		TotalOvertimeMinutes: r.TotalOvertimeMinutes,
		OvertimeTier1Minutes: r.OvertimeTier1Minutes,
		OvertimeTier2Minutes: r.OvertimeTier2Minutes,
		WeeklyCapApplied:     r.WeeklyCapApplied,
		Status:               string(r.Status),
		RejectionReason:      r.RejectionReason,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	return resp
}

// Generate implements timesheet.RecordService. Entries are re-derived under
// the current policy rather than read back from their stored overtime fields,
// so a policy change between clock-out and generation is reflected here.
func (s *RecordServiceImpl) Generate(ctx context.Context, req timesheet.GenerateRequest) (timesheet.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.RecordResponse{}, err
	}

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)

	overlap, err := s.RecordRepository.HasOverlap(ctx, req.EmployeeID, start, end, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}
	if overlap {
		return timesheet.RecordResponse{}, timesheet.ErrPeriodOverlap
	}

	p, err := s.policyRepo.GetByCompanyID(ctx, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	entries, err := s.entryRepo.ListRange(ctx, req.EmployeeID, start, end, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}
	if len(entries) == 0 {
		return timesheet.RecordResponse{}, timesheet.ErrNoEntriesInPeriod
	}

	holidays, err := s.holidayRepo.ListRange(ctx, claims.CompanyID, start, end)
	if err != nil {
		return timesheet.RecordResponse{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	classifier := engine.NewDayClassifier(p, engine.HolidaySet(calendar.DateSet(holidays)))

	rule, ruleErr := p.Overtime.PrimaryRule()
	overtimeActive := ruleErr == nil
	if ruleErr != nil && !errors.Is(ruleErr, policy.ErrOvertimeDisabled) && !errors.Is(ruleErr, policy.ErrNoActiveRule) {
		return timesheet.RecordResponse{}, ruleErr
	}

	var positionID *string
	if p.Overtime.EligibilityMode == policy.EligibilitySelectedPositions {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, claims.CompanyID)
		if err != nil {
			return timesheet.RecordResponse{}, err
		}
		positionID = emp.PositionID
	}

	days := make([]engine.OTResult, 0, len(entries))
	for _, entry := range entries {
		worked := 0
		if entry.WorkedMinutes != nil {
			worked = *entry.WorkedMinutes
		}
		dayType := classifier.Classify(entry.Date)

		// Auto-closed entries carry unverified time and never earn overtime;
		// the eligibility gate applied at clock-out holds here too.
		eligible := p.Overtime.Eligible(entry.ShiftID != nil, positionID)
		if !overtimeActive || !eligible || entry.Status == attendance.StatusAutoClosed {
			days = append(days, engine.OTResult{
				EmployeeID:     entry.EmployeeID,
				Date:           entry.Date,
				DayType:        dayType,
				RegularMinutes: worked,
				RateTier1:      1.0,
				RateTier2:      1.0,
			})
			continue
		}

		result, err := engine.ComputeOvertime(worked, dayType, rule, p)
		if err != nil {
			return timesheet.RecordResponse{}, fmt.Errorf("failed to compute overtime for entry %s: %w", entry.ID, err)
		}
		result.EmployeeID = entry.EmployeeID
		result.Date = entry.Date
		days = append(days, result)
	}

	totals := engine.Aggregate(days, p.Overtime)

	record := timesheet.Record{
		EmployeeID:           req.EmployeeID,
		CompanyID:            claims.CompanyID,
		PeriodStart:          start,
		PeriodEnd:            end,
		PeriodType:           timesheet.PeriodType(req.PeriodType),
		TotalDays:            len(totals.Days),
		TotalWorkMinutes:     totals.RegularMinutes + totals.OTTier1Minutes + totals.OTTier2Minutes,
		TotalOvertimeMinutes: totals.OTTier1Minutes + totals.OTTier2Minutes,
		OvertimeTier1Minutes: totals.OTTier1Minutes,
		OvertimeTier2Minutes: totals.OTTier2Minutes,
		WeeklyCapApplied:     totals.WeeklyCapApplied,
		Status:               timesheet.StatusDraft,
	}

	created, err := s.RecordRepository.Create(ctx, record)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	return toRecordResponse(created), nil
}

// Submit implements timesheet.RecordService.
func (s *RecordServiceImpl) Submit(ctx context.Context, id string) (timesheet.RecordResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	record, err := s.RecordRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	if record.EmployeeID != claims.EmployeeID {
		return timesheet.RecordResponse{}, timesheet.ErrNotRecordOwner
	}
	if !record.CanTransition(timesheet.StatusSubmitted) {
		return timesheet.RecordResponse{}, timesheet.ErrInvalidTransition
	}

	record.Status = timesheet.StatusSubmitted
	record.RejectionReason = nil

	if err := s.RecordRepository.Update(ctx, record); err != nil {
		return timesheet.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// Approve implements timesheet.RecordService.
func (s *RecordServiceImpl) Approve(ctx context.Context, id string) (timesheet.RecordResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	record, err := s.RecordRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	if record.EmployeeID == claims.EmployeeID {
		return timesheet.RecordResponse{}, timesheet.ErrReviewerIsSubmitter
	}
	if !record.CanTransition(timesheet.StatusApproved) {
		return timesheet.RecordResponse{}, timesheet.ErrInvalidTransition
	}

	now := time.Now()
	record.Status = timesheet.StatusApproved
	record.ReviewedBy = &claims.EmployeeID
	record.ReviewedAt = &now

	if err := s.RecordRepository.Update(ctx, record); err != nil {
		return timesheet.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// Reject implements timesheet.RecordService.
func (s *RecordServiceImpl) Reject(ctx context.Context, req timesheet.RejectRequest) (timesheet.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.RecordResponse{}, err
	}

	claims, err := claimsFromContext(ctx)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	record, err := s.RecordRepository.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	if record.EmployeeID == claims.EmployeeID {
		return timesheet.RecordResponse{}, timesheet.ErrReviewerIsSubmitter
	}
	if !record.CanTransition(timesheet.StatusRejected) {
		return timesheet.RecordResponse{}, timesheet.ErrInvalidTransition
	}

	now := time.Now()
	record.Status = timesheet.StatusRejected
	record.RejectionReason = &req.Reason
	record.ReviewedBy = &claims.EmployeeID
	record.ReviewedAt = &now

	if err := s.RecordRepository.Update(ctx, record); err != nil {
		return timesheet.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// Get implements timesheet.RecordService.
func (s *RecordServiceImpl) Get(ctx context.Context, id string) (timesheet.RecordResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	record, err := s.RecordRepository.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return timesheet.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// ListMine implements timesheet.RecordService.
func (s *RecordServiceImpl) ListMine(ctx context.Context) ([]timesheet.RecordResponse, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.RecordRepository.ListByEmployee(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return nil, err
	}

	responses := make([]timesheet.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toRecordResponse(record))
	}
	return responses, nil
}
