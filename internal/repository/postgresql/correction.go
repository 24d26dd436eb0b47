package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/attendance"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) attendance.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	id, entry_id, company_id, requested_by,
	requested_clock_in, requested_clock_out, reason,
	status, reviewer_note, reviewed_by, reviewed_at, created_at`

func scanCorrection(row pgx.Row) (attendance.CorrectionRequest, error) {
	var c attendance.CorrectionRequest
	err := row.Scan(
		&c.ID, &c.EntryID, &c.CompanyID, &c.RequestedBy,
		&c.RequestedClockIn, &c.RequestedClockOut, &c.Reason,
		&c.Status, &c.ReviewerNote, &c.ReviewedBy, &c.ReviewedAt, &c.CreatedAt,
	)
	return c, err
}

// Create implements attendance.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, req attendance.CorrectionRequest) (attendance.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendance_corrections (
			id, entry_id, company_id, requested_by,
			requested_clock_in, requested_clock_out, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EntryID, req.CompanyID, req.RequestedBy,
		req.RequestedClockIn, req.RequestedClockOut, req.Reason, req.Status,
	).Scan(&req.CreatedAt)
	if err != nil {
		return attendance.CorrectionRequest{}, fmt.Errorf("failed to create correction: %w", err)
	}

	return req, nil
}

// GetByID implements attendance.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + correctionColumns + `
		FROM attendance_corrections
		WHERE id = $1 AND company_id = $2
	`

	correction, err := scanCorrection(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.CorrectionRequest{}, attendance.ErrCorrectionNotFound
		}
		return attendance.CorrectionRequest{}, fmt.Errorf("failed to get correction: %w", err)
	}

	return correction, nil
}

// Update implements attendance.CorrectionRepository.
func (r *correctionRepository) Update(ctx context.Context, req attendance.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_corrections SET
			status = $1,
			reviewer_note = $2,
			reviewed_by = $3,
			reviewed_at = $4
		WHERE id = $5 AND company_id = $6
	`

	tag, err := q.Exec(ctx, query,
		req.Status, req.ReviewerNote, req.ReviewedBy, req.ReviewedAt,
		req.ID, req.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update correction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrCorrectionNotFound
	}

	return nil
}

// ListPending implements attendance.CorrectionRepository.
func (r *correctionRepository) ListPending(ctx context.Context, companyID string) ([]attendance.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + correctionColumns + `
		FROM attendance_corrections
		WHERE company_id = $1 AND status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending corrections: %w", err)
	}
	defer rows.Close()

	var corrections []attendance.CorrectionRequest
	for rows.Next() {
		correction, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, correction)
	}

	return corrections, nil
}
