package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
)

// Deduplicator rejects a scan code seen within a trailing window.
type Deduplicator struct {
	transactor database.Transactor
	repo       attendance.ScanLogRepository
	now        func() time.Time
}

func NewDeduplicator(transactor database.Transactor, repo attendance.ScanLogRepository, now func() time.Time) *Deduplicator {
	if now == nil {
		now = time.Now
	}
	return &Deduplicator{transactor: transactor, repo: repo, now: now}
}

// Admit logs the attempt unless code was logged at or after now-window, and
// reports whether it did. Check and insert run under a per-code lock, so of
// two simultaneous submits exactly one is admitted.
func (d *Deduplicator) Admit(ctx context.Context, code, source string, window time.Duration) (bool, error) {
	admitted := false

	err := d.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := d.repo.LockScanCode(txCtx, code); err != nil {
			return fmt.Errorf("failed to lock scan code: %w", err)
		}

		now := d.now()
		recent, err := d.repo.ExistsRecent(txCtx, code, now.Add(-window))
		if err != nil {
			return fmt.Errorf("failed to check recent scans: %w", err)
		}
		if recent {
			return nil
		}

		entry := attendance.ScanLogEntry{
			ScanCode:   code,
			SourceAddr: source,
			ScannedAt:  now,
		}
		if err := d.repo.Record(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record scan attempt: %w", err)
		}
		admitted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return admitted, nil
}
