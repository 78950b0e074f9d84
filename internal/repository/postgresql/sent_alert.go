package postgresql

import (
	"context"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
)

type sentAlertRepository struct {
	db *database.DB
}

func NewSentAlertRepository(db *database.DB) attendance.AlertRepository {
	return &sentAlertRepository{db: db}
}

// Exists implements attendance.AlertRepository.
func (s *sentAlertRepository) Exists(ctx context.Context, employeeID int64, absenceCount int) (bool, error) {
	q := GetQuerier(ctx, s.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sent_alerts WHERE employee_id = $1 AND absence_count = $2)`,
		employeeID, absenceCount,
	).Scan(&exists)
	return exists, err
}

// Reserve implements attendance.AlertRepository. The UNIQUE(employee_id,
// absence_count) constraint makes exactly one concurrent caller win.
func (s *sentAlertRepository) Reserve(ctx context.Context, employeeID int64, absenceCount int) (bool, error) {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO sent_alerts (employee_id, absence_count) VALUES ($1, $2)
		ON CONFLICT (employee_id, absence_count) DO NOTHING
	`, employeeID, absenceCount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Release implements attendance.AlertRepository.
func (s *sentAlertRepository) Release(ctx context.Context, employeeID int64, absenceCount int) error {
	q := GetQuerier(ctx, s.db)

	_, err := q.Exec(ctx,
		`DELETE FROM sent_alerts WHERE employee_id = $1 AND absence_count = $2`,
		employeeID, absenceCount,
	)
	return err
}
