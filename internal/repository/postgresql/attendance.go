package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
)

type entryRepository struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) attendance.EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `
	a.id, a.employee_id, a.company_id, a.shift_id, a.date,
	a.clock_in, a.clock_out, a.worked_minutes,
	a.overtime_tier1_minutes, a.overtime_tier2_minutes,
	a.rate_tier1, a.rate_tier2, a.overtime_capped,
	a.flag, a.status, a.day_type,
	a.created_at, a.updated_at`

func scanEntry(row pgx.Row) (attendance.Entry, error) {
	var e attendance.Entry
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.CompanyID, &e.ShiftID, &e.Date,
		&e.ClockIn, &e.ClockOut, &e.WorkedMinutes,
		&e.OvertimeTier1Minutes, &e.OvertimeTier2Minutes,
		&e.RateTier1, &e.RateTier2, &e.OvertimeCapped,
		&e.Flag, &e.Status, &e.DayType,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements attendance.EntryRepository. The attendance_entries table
// carries a partial unique index on (employee_id) WHERE clock_out IS NULL, so
// a concurrent second open entry fails here rather than racing the service
// check.
func (r *entryRepository) Create(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendance_entries (
			id, employee_id, company_id, shift_id, date,
			clock_in, clock_out, worked_minutes,
			overtime_tier1_minutes, overtime_tier2_minutes,
			rate_tier1, rate_tier2, overtime_capped,
			flag, status, day_type
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.CompanyID, entry.ShiftID, entry.Date,
		entry.ClockIn, entry.ClockOut, entry.WorkedMinutes,
		entry.OvertimeTier1Minutes, entry.OvertimeTier2Minutes,
		entry.RateTier1, entry.RateTier2, entry.OvertimeCapped,
		entry.Flag, entry.Status, entry.DayType,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Entry{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Entry{}, fmt.Errorf("failed to create entry: %w", err)
	}

	return entry, nil
}

// GetByID implements attendance.EntryRepository.
func (r *entryRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + entryColumns + `,
			   e.full_name AS employee_name
		FROM attendance_entries a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var entry attendance.Entry
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&entry.ID, &entry.EmployeeID, &entry.CompanyID, &entry.ShiftID, &entry.Date,
		&entry.ClockIn, &entry.ClockOut, &entry.WorkedMinutes,
		&entry.OvertimeTier1Minutes, &entry.OvertimeTier2Minutes,
		&entry.RateTier1, &entry.RateTier2, &entry.OvertimeCapped,
		&entry.Flag, &entry.Status, &entry.DayType,
		&entry.CreatedAt, &entry.UpdatedAt,
		&entry.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Entry{}, attendance.ErrEntryNotFound
		}
		return attendance.Entry{}, fmt.Errorf("failed to get entry by ID: %w", err)
	}

	return entry, nil
}

// Update implements attendance.EntryRepository.
func (r *entryRepository) Update(ctx context.Context, entry attendance.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_entries SET
			clock_in = $1,
			clock_out = $2,
			worked_minutes = $3,
			overtime_tier1_minutes = $4,
			overtime_tier2_minutes = $5,
			rate_tier1 = $6,
			rate_tier2 = $7,
			overtime_capped = $8,
			flag = $9,
			status = $10,
			day_type = $11,
			updated_at = NOW()
		WHERE id = $12 AND company_id = $13
	`

	tag, err := q.Exec(ctx, query,
		entry.ClockIn, entry.ClockOut, entry.WorkedMinutes,
		entry.OvertimeTier1Minutes, entry.OvertimeTier2Minutes,
		entry.RateTier1, entry.RateTier2, entry.OvertimeCapped,
		entry.Flag, entry.Status, entry.DayType,
		entry.ID, entry.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEntryNotFound
	}

	return nil
}

// GetOpenEntry implements attendance.EntryRepository.
func (r *entryRepository) GetOpenEntry(ctx context.Context, employeeID string, companyID string) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + entryColumns + `
		FROM attendance_entries a
		WHERE a.employee_id = $1
		  AND a.company_id = $2
		  AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Entry{}, attendance.ErrNotClockedIn
		}
		return attendance.Entry{}, fmt.Errorf("failed to get open entry: %w", err)
	}

	return entry, nil
}

// HasEntryOnDate implements attendance.EntryRepository.
func (r *entryRepository) HasEntryOnDate(ctx context.Context, employeeID string, dateLocal string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_entries
			WHERE employee_id = $1
			  AND date = $2
			  AND company_id = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, dateLocal, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entry on date: %w", err)
	}

	return exists, nil
}

// List implements attendance.EntryRepository.
func (r *entryRepository) List(ctx context.Context, filter attendance.EntryFilter, companyID string) ([]attendance.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Flag != nil && *filter.Flag != "" {
		baseWhere += fmt.Sprintf(" AND a.flag = $%d", argIdx)
		args = append(args, *filter.Flag)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_entries a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "clock_in_time":
		orderByField = "a.clock_in"
	case "flag":
		orderByField = "a.flag"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT`+entryColumns+`,
			   e.full_name AS employee_name
		FROM attendance_entries a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var entry attendance.Entry
		err := rows.Scan(
			&entry.ID, &entry.EmployeeID, &entry.CompanyID, &entry.ShiftID, &entry.Date,
			&entry.ClockIn, &entry.ClockOut, &entry.WorkedMinutes,
			&entry.OvertimeTier1Minutes, &entry.OvertimeTier2Minutes,
			&entry.RateTier1, &entry.RateTier2, &entry.OvertimeCapped,
			&entry.Flag, &entry.Status, &entry.DayType,
			&entry.CreatedAt, &entry.UpdatedAt,
			&entry.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

// ListRange implements attendance.EntryRepository.
func (r *entryRepository) ListRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + entryColumns + `
		FROM attendance_entries a
		WHERE a.employee_id = $1
		  AND a.company_id = $2
		  AND a.date >= $3
		  AND a.date <= $4
		  AND a.clock_out IS NOT NULL
		ORDER BY a.date ASC, a.clock_in ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry range: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetStaleOpenEntries implements attendance.EntryRepository.
func (r *entryRepository) GetStaleOpenEntries(ctx context.Context, companyID string, olderThan time.Time) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + entryColumns + `
		FROM attendance_entries a
		WHERE a.company_id = $1
		  AND a.clock_out IS NULL
		  AND a.clock_in < $2
		ORDER BY a.clock_in ASC
	`

	rows, err := q.Query(ctx, query, companyID, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// BulkCreateAbsences implements attendance.EntryRepository.
func (r *entryRepository) BulkCreateAbsences(ctx context.Context, entries []attendance.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	rows := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.Must(uuid.NewV7()).String()
		}
		rows = append(rows, []interface{}{
			id, entry.EmployeeID, entry.CompanyID, entry.ShiftID, entry.Date,
			entry.ClockIn, entry.ClockOut, entry.WorkedMinutes,
			string(entry.Flag), string(entry.Status), entry.DayType,
		})
	}

	// CopyFrom needs the raw pool or tx, not the Querier interface.
	copySource := pgx.CopyFromRows(rows)
	columns := []string{
		"id", "employee_id", "company_id", "shift_id", "date",
		"clock_in", "clock_out", "worked_minutes", "flag", "status", "day_type",
	}

	var err error
	if tx, ok := q.(pgx.Tx); ok {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"attendance_entries"}, columns, copySource)
	} else {
		_, err = r.db.Pool.CopyFrom(ctx, pgx.Identifier{"attendance_entries"}, columns, copySource)
	}
	if err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return nil
}
