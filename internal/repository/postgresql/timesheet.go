package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/timesheet"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.RecordRepository {
	return &timesheetRepository{db: db}
}

const recordColumns = `
	t.id, t.employee_id, t.company_id, t.period_start, t.period_end, t.period_type,
	t.total_days, t.total_work_minutes, t.total_overtime_minutes,
	t.overtime_tier1_minutes, t.overtime_tier2_minutes, t.weekly_cap_applied,
	t.status, t.rejection_reason, t.reviewed_by, t.reviewed_at,
	t.created_at, t.updated_at`

func scanRecord(row pgx.Row) (timesheet.Record, error) {
	var rec timesheet.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodStart, &rec.PeriodEnd, &rec.PeriodType,
		&rec.TotalDays, &rec.TotalWorkMinutes, &rec.TotalOvertimeMinutes,
		&rec.OvertimeTier1Minutes, &rec.OvertimeTier2Minutes, &rec.WeeklyCapApplied,
		&rec.Status, &rec.RejectionReason, &rec.ReviewedBy, &rec.ReviewedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements timesheet.RecordRepository.
func (r *timesheetRepository) Create(ctx context.Context, record timesheet.Record) (timesheet.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO timesheet_records (
			id, employee_id, company_id, period_start, period_end, period_type,
			total_days, total_work_minutes, total_overtime_minutes,
			overtime_tier1_minutes, overtime_tier2_minutes, weekly_cap_applied,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.CompanyID, record.PeriodStart, record.PeriodEnd, record.PeriodType,
		record.TotalDays, record.TotalWorkMinutes, record.TotalOvertimeMinutes,
		record.OvertimeTier1Minutes, record.OvertimeTier2Minutes, record.WeeklyCapApplied,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return timesheet.Record{}, fmt.Errorf("failed to create timesheet record: %w", err)
	}

	return record, nil
}

// GetByID implements timesheet.RecordRepository.
func (r *timesheetRepository) GetByID(ctx context.Context, id string, companyID string) (timesheet.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + recordColumns + `,
			   e.full_name AS employee_name
		FROM timesheet_records t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.id = $1 AND t.company_id = $2
	`

	var rec timesheet.Record
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodStart, &rec.PeriodEnd, &rec.PeriodType,
		&rec.TotalDays, &rec.TotalWorkMinutes, &rec.TotalOvertimeMinutes,
		&rec.OvertimeTier1Minutes, &rec.OvertimeTier2Minutes, &rec.WeeklyCapApplied,
		&rec.Status, &rec.RejectionReason, &rec.ReviewedBy, &rec.ReviewedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Record{}, timesheet.ErrRecordNotFound
		}
		return timesheet.Record{}, fmt.Errorf("failed to get timesheet record: %w", err)
	}

	return rec, nil
}

// Update implements timesheet.RecordRepository.
func (r *timesheetRepository) Update(ctx context.Context, record timesheet.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheet_records SET
			total_days = $1,
			total_work_minutes = $2,
			total_overtime_minutes = $3,
			overtime_tier1_minutes = $4,
			overtime_tier2_minutes = $5,
			weekly_cap_applied = $6,
			status = $7,
			rejection_reason = $8,
			reviewed_by = $9,
			reviewed_at = $10,
			updated_at = NOW()
		WHERE id = $11 AND company_id = $12
	`

	tag, err := q.Exec(ctx, query,
		record.TotalDays, record.TotalWorkMinutes, record.TotalOvertimeMinutes,
		record.OvertimeTier1Minutes, record.OvertimeTier2Minutes, record.WeeklyCapApplied,
		record.Status, record.RejectionReason, record.ReviewedBy, record.ReviewedAt,
		record.ID, record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrRecordNotFound
	}

	return nil
}

// ListByEmployee implements timesheet.RecordRepository.
func (r *timesheetRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]timesheet.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + recordColumns + `
		FROM timesheet_records t
		WHERE t.employee_id = $1 AND t.company_id = $2
		ORDER BY t.period_start DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet records: %w", err)
	}
	defer rows.Close()

	var records []timesheet.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// HasOverlap implements timesheet.RecordRepository.
func (r *timesheetRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM timesheet_records
			WHERE employee_id = $1
			  AND company_id = $2
			  AND period_start <= $4
			  AND period_end >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, companyID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check period overlap: %w", err)
	}

	return exists, nil
}
