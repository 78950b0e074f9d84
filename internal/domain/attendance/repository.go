package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists daily attendance records.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee has no record for the date.
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error)

	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) error

	// LockEmployeeDay serializes writers for one (employee, date) until the
	// surrounding transaction ends.
	LockEmployeeDay(ctx context.Context, employeeID int64, date time.Time) error

	// CountAbsences counts ABSENT records with from <= work_date < to.
	CountAbsences(ctx context.Context, employeeID int64, from, to time.Time) (int, error)

	// ListByEmployeeAndPeriod returns records with from <= work_date <= to ordered by date.
	ListByEmployeeAndPeriod(ctx context.Context, employeeID int64, from, to time.Time) ([]Record, error)

	// CreateAbsences inserts ABSENT records for the given employees on date,
	// skipping any that already exist, and returns the employees actually marked.
	CreateAbsences(ctx context.Context, employeeIDs []int64, date time.Time) ([]int64, error)
}

// ScanLogRepository is the append-only scan attempt log.
type ScanLogRepository interface {
	// LockScanCode serializes dedup checks for one code until the
	// surrounding transaction ends.
	LockScanCode(ctx context.Context, scanCode string) error

	ExistsRecent(ctx context.Context, scanCode string, since time.Time) (bool, error)
	Record(ctx context.Context, entry ScanLogEntry) error
}

// AlertRepository is the sent-alert log. A row is reserved before the send
// and released again if the send fails.
type AlertRepository interface {
	Exists(ctx context.Context, employeeID int64, absenceCount int) (bool, error)

	// Reserve claims (employee, count). It reports false when the row
	// already exists, i.e. another run sent or is sending that alert.
	Reserve(ctx context.Context, employeeID int64, absenceCount int) (bool, error)

	Release(ctx context.Context, employeeID int64, absenceCount int) error
}

// ScheduleProvider resolves the schedule that applies to a company.
type ScheduleProvider interface {
	ForCompany(ctx context.Context, companyID int64) (Schedule, error)
}
