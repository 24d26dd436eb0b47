package preview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/domain/employee"
)

type fakeEntryRepo struct {
	attendance.EntryRepository
	entries []attendance.Entry
}

func (r *fakeEntryRepo) ListRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]attendance.Entry, error) {
	var out []attendance.Entry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func TestRawEntries_CarriesPositionAndStatus(t *testing.T) {
	t.Parallel()

	clockIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(9 * time.Hour)
	shiftID := "shift-day"
	position := "pos-ops"

	repo := &fakeEntryRepo{entries: []attendance.Entry{
		{
			ID:         "e-1",
			EmployeeID: "emp-1",
			CompanyID:  "co-1",
			ShiftID:    &shiftID,
			Date:       clockIn.Truncate(24 * time.Hour),
			ClockIn:    clockIn,
			ClockOut:   &clockOut,
			Status:     attendance.StatusNormal,
		},
		{
			ID:         "e-2",
			EmployeeID: "emp-1",
			CompanyID:  "co-1",
			Date:       clockIn.Truncate(24 * time.Hour),
			ClockIn:    clockIn,
			ClockOut:   &clockOut,
			Status:     attendance.StatusAutoClosed,
		},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "co-1", PositionID: &position},
	}}

	source := entrySource{repo: repo, employees: employees}
	raw, err := source.RawEntries(context.Background(), "co-1", []string{"emp-1"}, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, raw, 2)

	require.NotNil(t, raw[0].PositionID)
	assert.Equal(t, "pos-ops", *raw[0].PositionID)
	assert.False(t, raw[0].AutoClosed)
	assert.True(t, raw[1].AutoClosed)
}

func TestRawEntries_UnknownEmployeeDegrades(t *testing.T) {
	t.Parallel()

	clockIn := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	repo := &fakeEntryRepo{entries: []attendance.Entry{
		{
			ID:         "e-1",
			EmployeeID: "emp-gone",
			CompanyID:  "co-1",
			Date:       clockIn.Truncate(24 * time.Hour),
			ClockIn:    clockIn,
			ClockOut:   &clockOut,
			Status:     attendance.StatusNormal,
		},
	}}

	source := entrySource{repo: repo, employees: &fakeEmployeeRepo{}}
	raw, err := source.RawEntries(context.Background(), "co-1", []string{"emp-gone"}, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Nil(t, raw[0].PositionID)
}
