package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/shift"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, company_id, name, start_time, end_time, break_minutes,
	grace_override_minutes, allow_cross_midnight, is_active,
	created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.StartTime, &s.EndTime, &s.BreakMinutes,
		&s.GraceOverrideMinutes, &s.AllowCrossMidnight, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO shifts (
			id, company_id, name, start_time, end_time, break_minutes,
			grace_override_minutes, allow_cross_midnight, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.CompanyID, s.Name, s.StartTime, s.EndTime, s.BreakMinutes,
		s.GraceOverrideMinutes, s.AllowCrossMidnight, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + shiftColumns + `
		FROM shifts
		WHERE id = $1 AND company_id = $2
	`

	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + shiftColumns + `
		FROM shifts
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, nil
}

// SetActive implements shift.ShiftRepository.
func (r *shiftRepository) SetActive(ctx context.Context, id string, companyID string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shifts SET is_active = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
	`, active, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to set shift active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// GetAssignedShift implements shift.ShiftRepository.
func (r *shiftRepository) GetAssignedShift(ctx context.Context, employeeID string, companyID string) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.company_id, s.name, s.start_time, s.end_time, s.break_minutes,
			   s.grace_override_minutes, s.allow_cross_midnight, s.is_active,
			   s.created_at, s.updated_at
		FROM shifts s
		JOIN employees e ON e.shift_id = s.id
		WHERE e.id = $1 AND e.company_id = $2
	`

	s, err := scanShift(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // employee has no shift assignment
		}
		return nil, fmt.Errorf("failed to get assigned shift: %w", err)
	}

	return &s, nil
}
