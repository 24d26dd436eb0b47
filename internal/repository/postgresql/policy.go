package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepository{db: db}
}

// GetByCompanyID implements policy.PolicyRepository.
func (r *policyRepository) GetByCompanyID(ctx context.Context, companyID string) (policy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, workdays, grace_minutes, timezone,
			   require_shift_to_clock_in, allow_clock_out_without_in,
			   max_open_entry_hours, late_after_minutes, early_leave_before_minutes,
			   overtime, created_at, updated_at
		FROM attendance_policies
		WHERE company_id = $1
	`

	var p policy.AttendancePolicy
	var overtimeJSON []byte
	err := q.QueryRow(ctx, query, companyID).Scan(
		&p.ID, &p.CompanyID, &p.Workdays, &p.GraceMinutes, &p.Timezone,
		&p.RequireShiftToClockIn, &p.AllowClockOutWithoutIn,
		&p.MaxOpenEntryHours, &p.LateAfterMinutes, &p.EarlyLeaveBeforeMinutes,
		&overtimeJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return policy.AttendancePolicy{}, policy.ErrPolicyNotFound
		}
		return policy.AttendancePolicy{}, fmt.Errorf("failed to get policy: %w", err)
	}

	if err := json.Unmarshal(overtimeJSON, &p.Overtime); err != nil {
		return policy.AttendancePolicy{}, fmt.Errorf("failed to decode overtime policy: %w", err)
	}

	return p, nil
}

// Replace implements policy.PolicyRepository. The existing policy, if any, is
// copied into attendance_policy_revisions before being overwritten, so entries
// computed under the old configuration stay explainable.
func (r *policyRepository) Replace(ctx context.Context, p policy.AttendancePolicy) (policy.AttendancePolicy, error) {
	var saved policy.AttendancePolicy

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		current, err := r.GetByCompanyID(txCtx, p.CompanyID)
		if err != nil && err != policy.ErrPolicyNotFound {
			return err
		}

		if err == nil {
			payload, err := json.Marshal(current)
			if err != nil {
				return fmt.Errorf("failed to encode policy revision: %w", err)
			}
			_, err = q.Exec(txCtx, `
				INSERT INTO attendance_policy_revisions (id, policy_id, company_id, payload, archived_at)
				VALUES ($1, $2, $3, $4, NOW())
			`, uuid.Must(uuid.NewV7()).String(), current.ID, current.CompanyID, payload)
			if err != nil {
				return fmt.Errorf("failed to archive policy revision: %w", err)
			}
		}

		overtimeJSON, err := json.Marshal(p.Overtime)
		if err != nil {
			return fmt.Errorf("failed to encode overtime policy: %w", err)
		}

		if p.ID == "" {
			p.ID = uuid.Must(uuid.NewV7()).String()
		}

		query := `
			INSERT INTO attendance_policies (
				id, company_id, workdays, grace_minutes, timezone,
				require_shift_to_clock_in, allow_clock_out_without_in,
				max_open_entry_hours, late_after_minutes, early_leave_before_minutes,
				overtime
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (company_id) DO UPDATE SET
				workdays = EXCLUDED.workdays,
				grace_minutes = EXCLUDED.grace_minutes,
				timezone = EXCLUDED.timezone,
				require_shift_to_clock_in = EXCLUDED.require_shift_to_clock_in,
				allow_clock_out_without_in = EXCLUDED.allow_clock_out_without_in,
				max_open_entry_hours = EXCLUDED.max_open_entry_hours,
				late_after_minutes = EXCLUDED.late_after_minutes,
				early_leave_before_minutes = EXCLUDED.early_leave_before_minutes,
				overtime = EXCLUDED.overtime,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`

		err = q.QueryRow(txCtx, query,
			p.ID, p.CompanyID, p.Workdays, p.GraceMinutes, p.Timezone,
			p.RequireShiftToClockIn, p.AllowClockOutWithoutIn,
			p.MaxOpenEntryHours, p.LateAfterMinutes, p.EarlyLeaveBeforeMinutes,
			overtimeJSON,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to replace policy: %w", err)
		}

		saved = p
		return nil
	})
	if err != nil {
		return policy.AttendancePolicy{}, err
	}

	return saved, nil
}
