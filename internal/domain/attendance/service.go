package attendance

import (
	"context"
)

// AttendanceService is the scan-processing boundary consumed by the HTTP layer.
type AttendanceService interface {
	// ProcessScan never returns an error: every failure is folded into a
	// ScanResult with status "error" and a safe message.
	ProcessScan(ctx context.Context, req ScanRequest) ScanResult

	// Wait blocks until background absence checks started by ProcessScan finish.
	Wait()
}

// AbsenceAlerter checks an employee's recent absences and notifies once per count.
type AbsenceAlerter interface {
	CheckAndNotify(ctx context.Context, employeeID int64)
}

// AlertSender delivers absence notifications. It gives up once ctx is done.
type AlertSender interface {
	SendAbsenceAlert(ctx context.Context, employeeName, email string, absenceCount int, companyName string) error
}

// ScanPublisher fans out successful scans to live dashboards.
type ScanPublisher interface {
	PublishScan(companyID int64, result ScanResult)
}
