package postgresql

import (
	"context"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
)

type scanLogRepository struct {
	db *database.DB
}

func NewScanLogRepository(db *database.DB) attendance.ScanLogRepository {
	return &scanLogRepository{db: db}
}

// LockScanCode implements attendance.ScanLogRepository. Only meaningful
// inside WithinTransaction; the lock is released on commit or rollback.
func (s *scanLogRepository) LockScanCode(ctx context.Context, scanCode string) error {
	q := GetQuerier(ctx, s.db)

	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('scan:' || $1::TEXT, 0))`, scanCode)
	return err
}

// ExistsRecent implements attendance.ScanLogRepository.
func (s *scanLogRepository) ExistsRecent(ctx context.Context, scanCode string, since time.Time) (bool, error) {
	q := GetQuerier(ctx, s.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM scan_logs WHERE scan_code = $1 AND scanned_at >= $2)`,
		scanCode, since,
	).Scan(&exists)
	return exists, err
}

// Record implements attendance.ScanLogRepository.
func (s *scanLogRepository) Record(ctx context.Context, entry attendance.ScanLogEntry) error {
	q := GetQuerier(ctx, s.db)

	_, err := q.Exec(ctx,
		`INSERT INTO scan_logs (scan_code, source_addr, scanned_at) VALUES ($1, $2, $3)`,
		entry.ScanCode, entry.SourceAddr, entry.ScannedAt,
	)
	return err
}
