package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
)

type fakeEntrySource struct {
	entries []RawEntry
	err     error
}

func (f *fakeEntrySource) RawEntries(_ context.Context, _ string, _ []string, _, _ time.Time) ([]RawEntry, error) {
	return f.entries, f.err
}

type fakeShiftDirectory struct {
	shifts map[string]*shift.Shift
	calls  int
}

func (f *fakeShiftDirectory) ShiftByID(_ context.Context, _ string, shiftID string) (*shift.Shift, error) {
	f.calls++
	sh, ok := f.shifts[shiftID]
	if !ok {
		return nil, shift.ErrShiftNotFound
	}
	return sh, nil
}

func previewPolicy() policy.AttendancePolicy {
	return policy.AttendancePolicy{
		Workdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Timezone: "Asia/Jakarta",
		Overtime: policy.OvertimePolicy{
			Enabled: true,
			Rules:   []policy.OvertimeRule{previewRule()},
		},
	}
}

func previewRule() policy.OvertimeRule {
	return policy.OvertimeRule{
		ID:                 "rule-1",
		Priority:           1,
		RuleType:           policy.RuleDaily,
		ThresholdMinutesT1: 480,
		MultiplierT1:       1.5,
		RestDayMultiplier:  1.5,
		HolidayMultiplier:  2.0,
		IsActive:           true,
	}
}

func rawEntry(id, employeeID, dateStr string, inHour, outHour int) RawEntry {
	date, _ := time.Parse("2006-01-02", dateStr)
	in := date.Add(time.Duration(inHour) * time.Hour)
	out := date.Add(time.Duration(outHour) * time.Hour)
	return RawEntry{
		ID:         id,
		EmployeeID: employeeID,
		Date:       date,
		ClockIn:    in,
		ClockOut:   &out,
	}
}

func TestPreviewRunner_Run(t *testing.T) {
	t.Parallel()

	source := &fakeEntrySource{entries: []RawEntry{
		rawEntry("e1", "emp-1", "2026-03-09", 9, 18), // 540 worked, 60 OT
		rawEntry("e2", "emp-1", "2026-03-10", 9, 17), // 480 worked, no OT
		rawEntry("e3", "emp-2", "2026-03-09", 9, 19), // 600 worked, 120 OT
	}}
	runner := NewPreviewRunner(source, &fakeShiftDirectory{})

	got, err := runner.Run(context.Background(), "company-1", previewPolicy(), nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)
	require.Len(t, got.Employees, 2)
	assert.Empty(t, got.Failures)

	first := got.Employees[0]
	assert.Equal(t, "emp-1", first.EmployeeID)
	assert.Equal(t, 960, first.Totals.RegularMinutes)
	assert.Equal(t, 60, first.Totals.OTTier1Minutes)

	second := got.Employees[1]
	assert.Equal(t, "emp-2", second.EmployeeID)
	assert.Equal(t, 120, second.Totals.OTTier1Minutes)
}

func TestPreviewRunner_CollectsFailures(t *testing.T) {
	t.Parallel()

	open := rawEntry("e-open", "emp-1", "2026-03-09", 9, 18)
	open.ClockOut = nil

	// Clock-out before clock-in with no cross-midnight shift.
	backwards := rawEntry("e-back", "emp-1", "2026-03-10", 17, 9)

	good := rawEntry("e-good", "emp-1", "2026-03-11", 9, 18)

	source := &fakeEntrySource{entries: []RawEntry{open, backwards, good}}
	runner := NewPreviewRunner(source, &fakeShiftDirectory{})

	got, err := runner.Run(context.Background(), "company-1", previewPolicy(), nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)

	// Failures do not abort the run: the good entry is still computed.
	require.Len(t, got.Failures, 2)
	assert.Equal(t, "e-open", got.Failures[0].EntryID)
	assert.Equal(t, ErrEntryOpen.Error(), got.Failures[0].Reason)
	assert.Equal(t, "e-back", got.Failures[1].EntryID)

	require.Len(t, got.Employees, 1)
	assert.Equal(t, 60, got.Employees[0].Totals.OTTier1Minutes)
}

func TestPreviewRunner_OvertimeDisabledKeepsRegular(t *testing.T) {
	t.Parallel()

	p := previewPolicy()
	p.Overtime.Enabled = false

	source := &fakeEntrySource{entries: []RawEntry{
		rawEntry("e1", "emp-1", "2026-03-09", 9, 19),
	}}
	runner := NewPreviewRunner(source, &fakeShiftDirectory{})

	got, err := runner.Run(context.Background(), "company-1", p, nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)
	require.Len(t, got.Employees, 1)

	totals := got.Employees[0].Totals
	assert.Equal(t, 600, totals.RegularMinutes)
	assert.Zero(t, totals.OTTier1Minutes)
	assert.Zero(t, totals.OTTier2Minutes)
}

func TestPreviewRunner_AutoClosedStaysRegular(t *testing.T) {
	t.Parallel()

	stale := rawEntry("e1", "emp-1", "2026-03-09", 9, 19)
	stale.AutoClosed = true

	source := &fakeEntrySource{entries: []RawEntry{
		stale,
		rawEntry("e2", "emp-1", "2026-03-10", 9, 19),
	}}
	runner := NewPreviewRunner(source, &fakeShiftDirectory{})

	got, err := runner.Run(context.Background(), "company-1", previewPolicy(), nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)
	require.Len(t, got.Employees, 1)

	// Only the verified day contributes overtime.
	totals := got.Employees[0].Totals
	assert.Equal(t, 1080, totals.RegularMinutes)
	assert.Equal(t, 120, totals.OTTier1Minutes)
}

func TestPreviewRunner_EligibilityByPosition(t *testing.T) {
	t.Parallel()

	p := previewPolicy()
	p.Overtime.EligibilityMode = policy.EligibilitySelectedPositions
	p.Overtime.EligiblePositionIDs = []string{"pos-ops"}

	ops := "pos-ops"
	support := "pos-support"
	eligible := rawEntry("e1", "emp-1", "2026-03-09", 9, 18)
	eligible.PositionID = &ops
	ineligible := rawEntry("e2", "emp-2", "2026-03-09", 9, 18)
	ineligible.PositionID = &support

	source := &fakeEntrySource{entries: []RawEntry{eligible, ineligible}}
	runner := NewPreviewRunner(source, &fakeShiftDirectory{})

	got, err := runner.Run(context.Background(), "company-1", p, nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)
	require.Len(t, got.Employees, 2)

	assert.Equal(t, 60, got.Employees[0].Totals.OTTier1Minutes)
	assert.Zero(t, got.Employees[1].Totals.OTTier1Minutes)
	assert.Equal(t, 540, got.Employees[1].Totals.RegularMinutes)
}

func TestPreviewRunner_ShiftLookupCached(t *testing.T) {
	t.Parallel()

	shiftID := "shift-day"
	e1 := rawEntry("e1", "emp-1", "2026-03-09", 9, 18)
	e1.ShiftID = &shiftID
	e2 := rawEntry("e2", "emp-1", "2026-03-10", 9, 18)
	e2.ShiftID = &shiftID

	dir := &fakeShiftDirectory{shifts: map[string]*shift.Shift{
		shiftID: {ID: shiftID, Name: "Day", StartTime: "09:00", EndTime: "18:00", IsActive: true},
	}}
	source := &fakeEntrySource{entries: []RawEntry{e1, e2}}
	runner := NewPreviewRunner(source, dir)

	_, err := runner.Run(context.Background(), "company-1", previewPolicy(), nil, time.Time{}, time.Time{}, HolidaySet{})
	require.NoError(t, err)
	assert.Equal(t, 1, dir.calls)
}

func TestPreviewRunner_SourceErrorAborts(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("query failed")
	runner := NewPreviewRunner(&fakeEntrySource{err: wantErr}, &fakeShiftDirectory{})

	_, err := runner.Run(context.Background(), "company-1", previewPolicy(), nil, time.Time{}, time.Time{}, HolidaySet{})
	assert.ErrorIs(t, err, wantErr)
}
