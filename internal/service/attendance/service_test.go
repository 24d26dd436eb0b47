package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
)

func authedCtx(companyID, employeeID string) context.Context {
	tok := jwt.New()
	_ = tok.Set("company_id", companyID)
	_ = tok.Set("employee_id", employeeID)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

type fakeEntryRepo struct {
	attendance.EntryRepository
	entries map[string]attendance.Entry
	open    *attendance.Entry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]attendance.Entry)}
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Entry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.CompanyID != companyID {
		return attendance.Entry{}, attendance.ErrEntryNotFound
	}
	return entry, nil
}

func (r *fakeEntryRepo) GetOpenEntry(ctx context.Context, employeeID string, companyID string) (attendance.Entry, error) {
	if r.open != nil && r.open.EmployeeID == employeeID && r.open.CompanyID == companyID {
		return *r.open, nil
	}
	return attendance.Entry{}, attendance.ErrNotClockedIn
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	r.nextID++
	entry.ID = fmt.Sprintf("e-%d", r.nextID)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry attendance.Entry) error {
	if _, ok := r.entries[entry.ID]; !ok && r.open == nil {
		return attendance.ErrEntryNotFound
	}
	r.entries[entry.ID] = entry
	return nil
}

type fakePolicyRepo struct {
	policy.PolicyRepository
	p policy.AttendancePolicy
}

func (r *fakePolicyRepo) GetByCompanyID(ctx context.Context, companyID string) (policy.AttendancePolicy, error) {
	return r.p, nil
}

type fakeShiftRepo struct {
	shift.ShiftRepository
	assigned *shift.Shift
	shifts   map[string]shift.Shift
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	sh, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (r *fakeShiftRepo) GetAssignedShift(ctx context.Context, employeeID string, companyID string) (*shift.Shift, error) {
	return r.assigned, nil
}

type fakeHolidayRepo struct {
	calendar.HolidayRepository
}

func (r *fakeHolidayRepo) ListRange(ctx context.Context, companyID string, start, end time.Time) ([]calendar.Holiday, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeCorrectionRepo struct {
	attendance.CorrectionRepository
	corrections map[string]attendance.CorrectionRequest
	nextID      int
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{corrections: make(map[string]attendance.CorrectionRequest)}
}

func (r *fakeCorrectionRepo) Create(ctx context.Context, req attendance.CorrectionRequest) (attendance.CorrectionRequest, error) {
	r.nextID++
	req.ID = fmt.Sprintf("cor-%d", r.nextID)
	req.CreatedAt = time.Now()
	r.corrections[req.ID] = req
	return req, nil
}

func (r *fakeCorrectionRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.CorrectionRequest, error) {
	correction, ok := r.corrections[id]
	if !ok || correction.CompanyID != companyID {
		return attendance.CorrectionRequest{}, attendance.ErrCorrectionNotFound
	}
	return correction, nil
}

func (r *fakeCorrectionRepo) Update(ctx context.Context, req attendance.CorrectionRequest) error {
	if _, ok := r.corrections[req.ID]; !ok {
		return attendance.ErrCorrectionNotFound
	}
	r.corrections[req.ID] = req
	return nil
}

func (r *fakeCorrectionRepo) ListPending(ctx context.Context, companyID string) ([]attendance.CorrectionRequest, error) {
	var out []attendance.CorrectionRequest
	for _, correction := range r.corrections {
		if correction.CompanyID == companyID && correction.Status == attendance.CorrectionPending {
			out = append(out, correction)
		}
	}
	return out, nil
}

func newCorrectionTestService(entries *fakeEntryRepo, corrections *fakeCorrectionRepo) attendance.EntryService {
	return NewEntryService(nil, entries, corrections, nil, nil, nil, nil)
}

func storedEntry(id, employeeID string) attendance.Entry {
	clockIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(9 * time.Hour)
	return attendance.Entry{
		ID:         id,
		EmployeeID: employeeID,
		CompanyID:  "co-1",
		Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		ClockIn:    clockIn,
		ClockOut:   &clockOut,
		Flag:       attendance.FlagOnTime,
		Status:     attendance.StatusNormal,
	}
}

func clockPolicy() policy.AttendancePolicy {
	return policy.AttendancePolicy{
		ID:        "pol-1",
		CompanyID: "co-1",
		Workdays: []string{
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		},
		GraceMinutes: 15,
		Timezone:     "UTC",
		Overtime: policy.OvertimePolicy{
			Enabled:           true,
			CompensationMode:  policy.CompensationPaid,
			RoundingMode:      policy.RoundingNone,
			MaxOTPerDayHours:  4,
			MaxOTPerWeekHours: 20,
			EligibilityMode:   policy.EligibilityAll,
			WeeklyCapStrategy: policy.CapNewestFirst,
			Rules: []policy.OvertimeRule{
				{
					ID:                 "rule-1",
					Priority:           1,
					RuleType:           policy.RuleDaily,
					ThresholdMinutesT1: 480,
					MultiplierT1:       1.5,
					RestDayMultiplier:  2.0,
					HolidayMultiplier:  2.0,
					IsActive:           true,
				},
			},
		},
	}
}

func newClockTestService(p policy.AttendancePolicy, entries *fakeEntryRepo, shifts *fakeShiftRepo, employees *fakeEmployeeRepo) attendance.EntryService {
	return NewEntryService(nil, entries, newFakeCorrectionRepo(), &fakePolicyRepo{p: p}, shifts, &fakeHolidayRepo{}, employees)
}

func openEntryAt(employeeID string, clockIn time.Time) attendance.Entry {
	return attendance.Entry{
		ID:         "e-open",
		EmployeeID: employeeID,
		CompanyID:  "co-1",
		Date:       time.Date(clockIn.Year(), clockIn.Month(), clockIn.Day(), 0, 0, 0, 0, clockIn.Location()),
		ClockIn:    clockIn,
		Flag:       attendance.FlagOnTime,
		Status:     attendance.StatusNormal,
	}
}

func TestClockIn_RejectsSecondOpenEntry(t *testing.T) {
	t.Parallel()

	entries := newFakeEntryRepo()
	open := openEntryAt("emp-1", time.Now().UTC().Add(-2*time.Hour))
	entries.open = &open
	svc := newClockTestService(clockPolicy(), entries, &fakeShiftRepo{}, &fakeEmployeeRepo{})

	_, err := svc.ClockIn(authedCtx("co-1", "emp-1"), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockIn_ShiftRequired(t *testing.T) {
	t.Parallel()

	p := clockPolicy()
	p.RequireShiftToClockIn = true
	svc := newClockTestService(p, newFakeEntryRepo(), &fakeShiftRepo{}, &fakeEmployeeRepo{})

	_, err := svc.ClockIn(authedCtx("co-1", "emp-1"), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrShiftRequired)
}

func TestClockIn_UsesAssignedShift(t *testing.T) {
	t.Parallel()

	shifts := &fakeShiftRepo{assigned: &shift.Shift{
		ID: "shift-day", Name: "Day", StartTime: "00:00", EndTime: "23:59", IsActive: true,
	}}
	entries := newFakeEntryRepo()
	svc := newClockTestService(clockPolicy(), entries, shifts, &fakeEmployeeRepo{})

	result, err := svc.ClockIn(authedCtx("co-1", "emp-1"), attendance.ClockInRequest{})
	require.NoError(t, err)

	require.NotNil(t, result.ShiftID)
	assert.Equal(t, "shift-day", *result.ShiftID)
	assert.Equal(t, string(attendance.StatusNormal), result.Status)
	assert.Nil(t, result.ClockOutTime)
}

func TestClockIn_InactiveShiftOverride(t *testing.T) {
	t.Parallel()

	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{
		"shift-night": {ID: "shift-night", Name: "Night", StartTime: "22:00", EndTime: "06:00", IsActive: false},
	}}
	svc := newClockTestService(clockPolicy(), newFakeEntryRepo(), shifts, &fakeEmployeeRepo{})

	override := "shift-night"
	_, err := svc.ClockIn(authedCtx("co-1", "emp-1"), attendance.ClockInRequest{ShiftID: &override})
	assert.ErrorIs(t, err, shift.ErrShiftInactive)
}

func TestClockOut_NotClockedIn(t *testing.T) {
	t.Parallel()

	svc := newClockTestService(clockPolicy(), newFakeEntryRepo(), &fakeShiftRepo{}, &fakeEmployeeRepo{})

	_, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	assert.ErrorIs(t, err, attendance.ErrClockOutNotAllowed)
}

func TestClockOut_OrphanRecordedWhenAllowed(t *testing.T) {
	t.Parallel()

	p := clockPolicy()
	p.AllowClockOutWithoutIn = true
	svc := newClockTestService(p, newFakeEntryRepo(), &fakeShiftRepo{}, &fakeEmployeeRepo{})

	result, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	require.NoError(t, err)

	require.NotNil(t, result.WorkedMinutes)
	assert.Equal(t, 0, *result.WorkedMinutes)
	assert.Equal(t, string(attendance.StatusAdjusted), result.Status)
	assert.NotNil(t, result.ClockOutTime)
}

func TestClockOut_SplitsOvertime(t *testing.T) {
	t.Parallel()

	entries := newFakeEntryRepo()
	open := openEntryAt("emp-1", time.Now().UTC().Add(-10*time.Hour))
	entries.open = &open
	svc := newClockTestService(clockPolicy(), entries, &fakeShiftRepo{}, &fakeEmployeeRepo{})

	result, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	require.NoError(t, err)

	require.NotNil(t, result.WorkedMinutes)
	assert.Equal(t, 600, *result.WorkedMinutes)
	require.NotNil(t, result.OvertimeTier1Minutes)
	assert.Equal(t, 120, *result.OvertimeTier1Minutes)
	require.NotNil(t, result.RateTier1)
	assert.Equal(t, 1.5, *result.RateTier1)
}

func TestClockOut_ShiftAssignedModeSkipsUnassigned(t *testing.T) {
	t.Parallel()

	p := clockPolicy()
	p.Overtime.EligibilityMode = policy.EligibilityShiftAssigned

	entries := newFakeEntryRepo()
	open := openEntryAt("emp-1", time.Now().UTC().Add(-10*time.Hour))
	entries.open = &open
	svc := newClockTestService(p, entries, &fakeShiftRepo{}, &fakeEmployeeRepo{})

	result, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	require.NoError(t, err)

	require.NotNil(t, result.WorkedMinutes)
	assert.Equal(t, 600, *result.WorkedMinutes)
	assert.Nil(t, result.OvertimeTier1Minutes)
	assert.Nil(t, result.RateTier1)
}

func TestClockOut_SelectedPositionsEligible(t *testing.T) {
	t.Parallel()

	p := clockPolicy()
	p.Overtime.EligibilityMode = policy.EligibilitySelectedPositions
	p.Overtime.EligiblePositionIDs = []string{"pos-ops"}

	position := "pos-ops"
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "co-1", PositionID: &position},
	}}
	entries := newFakeEntryRepo()
	open := openEntryAt("emp-1", time.Now().UTC().Add(-10*time.Hour))
	entries.open = &open
	svc := newClockTestService(p, entries, &fakeShiftRepo{}, employees)

	result, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	require.NoError(t, err)

	require.NotNil(t, result.OvertimeTier1Minutes)
	assert.Equal(t, 120, *result.OvertimeTier1Minutes)
}

func TestClockOut_SelectedPositionsIneligible(t *testing.T) {
	t.Parallel()

	p := clockPolicy()
	p.Overtime.EligibilityMode = policy.EligibilitySelectedPositions
	p.Overtime.EligiblePositionIDs = []string{"pos-ops"}

	position := "pos-support"
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "co-1", PositionID: &position},
	}}
	entries := newFakeEntryRepo()
	open := openEntryAt("emp-1", time.Now().UTC().Add(-10*time.Hour))
	entries.open = &open
	svc := newClockTestService(p, entries, &fakeShiftRepo{}, employees)

	result, err := svc.ClockOut(authedCtx("co-1", "emp-1"))
	require.NoError(t, err)

	require.NotNil(t, result.WorkedMinutes)
	assert.Equal(t, 600, *result.WorkedMinutes)
	assert.Nil(t, result.OvertimeTier1Minutes)
}

func TestRequestCorrection_CreatesPending(t *testing.T) {
	t.Parallel()

	entries := newFakeEntryRepo()
	entries.entries["e-1"] = storedEntry("e-1", "emp-1")
	corrections := newFakeCorrectionRepo()
	svc := newCorrectionTestService(entries, corrections)

	clockOut := "2026-03-09T19:00:00Z"
	result, err := svc.RequestCorrection(authedCtx("co-1", "emp-1"), attendance.CreateCorrectionRequest{
		EntryID:           "e-1",
		CorrectedClockIn:  "2026-03-09T08:30:00Z",
		CorrectedClockOut: &clockOut,
		Reason:            "badge reader was down",
	})
	require.NoError(t, err)

	assert.Equal(t, "e-1", result.EntryID)
	assert.Equal(t, "emp-1", result.RequestedBy)
	assert.Equal(t, string(attendance.CorrectionPending), result.Status)
}

func TestRequestCorrection_NotOwner(t *testing.T) {
	t.Parallel()

	entries := newFakeEntryRepo()
	entries.entries["e-1"] = storedEntry("e-1", "emp-1")
	svc := newCorrectionTestService(entries, newFakeCorrectionRepo())

	clockOut := "2026-03-09T19:00:00Z"
	_, err := svc.RequestCorrection(authedCtx("co-1", "emp-2"), attendance.CreateCorrectionRequest{
		EntryID:           "e-1",
		CorrectedClockIn:  "2026-03-09T08:30:00Z",
		CorrectedClockOut: &clockOut,
		Reason:            "badge reader was down",
	})
	assert.ErrorIs(t, err, attendance.ErrCorrectionNotOwned)
}

func TestRequestCorrection_EntryNotFound(t *testing.T) {
	t.Parallel()

	svc := newCorrectionTestService(newFakeEntryRepo(), newFakeCorrectionRepo())

	_, err := svc.RequestCorrection(authedCtx("co-1", "emp-1"), attendance.CreateCorrectionRequest{
		EntryID:          "missing",
		CorrectedClockIn: "2026-03-09T08:30:00Z",
		Reason:           "badge reader was down",
	})
	assert.ErrorIs(t, err, attendance.ErrEntryNotFound)
}

func TestRejectCorrection_RequiresNote(t *testing.T) {
	t.Parallel()

	svc := newCorrectionTestService(newFakeEntryRepo(), newFakeCorrectionRepo())

	_, err := svc.RejectCorrection(authedCtx("co-1", "mgr-1"), attendance.RejectCorrectionRequest{ID: "cor-1"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, attendance.ErrCorrectionNotFound)
}

func TestRejectCorrection_MarksRejected(t *testing.T) {
	t.Parallel()

	corrections := newFakeCorrectionRepo()
	seeded, _ := corrections.Create(context.Background(), attendance.CorrectionRequest{
		EntryID:          "e-1",
		CompanyID:        "co-1",
		RequestedBy:      "emp-1",
		RequestedClockIn: time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC),
		Reason:           "badge reader was down",
		Status:           attendance.CorrectionPending,
	})
	svc := newCorrectionTestService(newFakeEntryRepo(), corrections)

	result, err := svc.RejectCorrection(authedCtx("co-1", "mgr-1"), attendance.RejectCorrectionRequest{
		ID:   seeded.ID,
		Note: "entry matches the door logs",
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.CorrectionRejected), result.Status)
	require.NotNil(t, result.ReviewerNote)
	assert.Equal(t, "entry matches the door logs", *result.ReviewerNote)
	require.NotNil(t, result.ReviewedBy)
	assert.Equal(t, "mgr-1", *result.ReviewedBy)
}

func TestRejectCorrection_AlreadyProcessed(t *testing.T) {
	t.Parallel()

	corrections := newFakeCorrectionRepo()
	seeded, _ := corrections.Create(context.Background(), attendance.CorrectionRequest{
		EntryID:          "e-1",
		CompanyID:        "co-1",
		RequestedBy:      "emp-1",
		RequestedClockIn: time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC),
		Reason:           "badge reader was down",
		Status:           attendance.CorrectionApproved,
	})
	svc := newCorrectionTestService(newFakeEntryRepo(), corrections)

	_, err := svc.RejectCorrection(authedCtx("co-1", "mgr-1"), attendance.RejectCorrectionRequest{
		ID:   seeded.ID,
		Note: "duplicate request",
	})
	assert.ErrorIs(t, err, attendance.ErrCorrectionAlreadyProcessed)
}

func TestListPendingCorrections_FiltersProcessed(t *testing.T) {
	t.Parallel()

	corrections := newFakeCorrectionRepo()
	_, _ = corrections.Create(context.Background(), attendance.CorrectionRequest{
		EntryID: "e-1", CompanyID: "co-1", RequestedBy: "emp-1",
		RequestedClockIn: time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC),
		Reason:           "forgot to clock out", Status: attendance.CorrectionPending,
	})
	_, _ = corrections.Create(context.Background(), attendance.CorrectionRequest{
		EntryID: "e-2", CompanyID: "co-1", RequestedBy: "emp-1",
		RequestedClockIn: time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC),
		Reason:           "forgot to clock out", Status: attendance.CorrectionRejected,
	})
	svc := newCorrectionTestService(newFakeEntryRepo(), corrections)

	result, err := svc.ListPendingCorrections(authedCtx("co-1", "mgr-1"))
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "e-1", result[0].EntryID)
}
