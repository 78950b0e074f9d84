package postgresql

import (
	"context"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/schedule"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type standardScheduleRepository struct {
	db *database.DB
}

func NewStandardScheduleRepository(db *database.DB) schedule.StandardScheduleRepository {
	return &standardScheduleRepository{db: db}
}

func scanStandardSchedule(row pgx.Row) (schedule.StandardSchedule, error) {
	var (
		s                              schedule.StandardSchedule
		morningIn, afternoonIn, cutoff pgtype.Time
	)
	if err := row.Scan(&s.CompanyID, &morningIn, &afternoonIn, &cutoff, &s.UpdatedAt); err != nil {
		return schedule.StandardSchedule{}, err
	}
	s.MorningExpectedIn = *fromPgTime(morningIn)
	s.AfternoonExpectedIn = *fromPgTime(afternoonIn)
	s.MorningCutoff = *fromPgTime(cutoff)
	return s, nil
}

// GetByCompanyID implements schedule.StandardScheduleRepository.
func (r *standardScheduleRepository) GetByCompanyID(ctx context.Context, companyID int64) (schedule.StandardSchedule, error) {
	q := GetQuerier(ctx, r.db)

	return scanStandardSchedule(q.QueryRow(ctx, `
		SELECT company_id, morning_expected_in, afternoon_expected_in, morning_cutoff, updated_at
		FROM standard_schedules
		WHERE company_id = $1
	`, companyID))
}

// Upsert implements schedule.StandardScheduleRepository.
func (r *standardScheduleRepository) Upsert(ctx context.Context, s schedule.StandardSchedule) (schedule.StandardSchedule, error) {
	q := GetQuerier(ctx, r.db)

	return scanStandardSchedule(q.QueryRow(ctx, `
		INSERT INTO standard_schedules (company_id, morning_expected_in, afternoon_expected_in, morning_cutoff)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE SET
			morning_expected_in = EXCLUDED.morning_expected_in,
			afternoon_expected_in = EXCLUDED.afternoon_expected_in,
			morning_cutoff = EXCLUDED.morning_cutoff,
			updated_at = NOW()
		RETURNING company_id, morning_expected_in, afternoon_expected_in, morning_cutoff, updated_at
	`, s.CompanyID, toPgTime(&s.MorningExpectedIn), toPgTime(&s.AfternoonExpectedIn), toPgTime(&s.MorningCutoff)))
}
