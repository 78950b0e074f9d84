package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	alerter        attendance.AbsenceAlerter
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	alerter attendance.AbsenceAlerter,
	loc *time.Location,
	now func() time.Time,
) *AttendanceJobs {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		alerter:        alerter,
		loc:            loc,
		now:            now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes the previous working day: every active employee
// without a record for it gets an ABSENT record, and the absence alerter runs
// for each one marked. Re-running is harmless since existing records are kept.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	y, m, d := j.now().In(j.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	day := today.AddDate(0, 0, -1)

	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return nil
	}

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		// Not yet registered on that day.
		ey, em, ed := emp.CreatedAt.In(j.loc).Date()
		if time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).After(day) {
			continue
		}
		ids = append(ids, emp.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	marked, err := j.attendanceRepo.CreateAbsences(ctx, ids, day)
	if err != nil {
		return fmt.Errorf("failed to mark absences: %w", err)
	}
	if len(marked) == 0 {
		return nil
	}

	slog.Info("Cron: employees marked absent", "date", day.Format("2006-01-02"), "count", len(marked))

	if j.alerter == nil {
		return nil
	}
	for _, id := range marked {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		j.alerter.CheckAndNotify(ctx, id)
	}
	return nil
}
