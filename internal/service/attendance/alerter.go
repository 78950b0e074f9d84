package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
)

const defaultCompanyName = "Empresa"

// AlertPolicy configures when absence alerts fire.
type AlertPolicy struct {
	Threshold  int
	WindowDays int
	Location   *time.Location
	Now        func() time.Time
}

// AbsenceAlerterImpl sends one alert per distinct absence count once the
// trailing-window count reaches the threshold.
type AbsenceAlerterImpl struct {
	attendanceRepo attendance.AttendanceRepository
	alertRepo      attendance.AlertRepository
	employeeRepo   employee.EmployeeRepository
	companyRepo    company.CompanyRepository
	sender         attendance.AlertSender
	policy         AlertPolicy
}

func NewAbsenceAlerter(
	attendanceRepo attendance.AttendanceRepository,
	alertRepo attendance.AlertRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	sender attendance.AlertSender,
	policy AlertPolicy,
) attendance.AbsenceAlerter {
	if policy.Location == nil {
		policy.Location = time.Local
	}
	if policy.Now == nil {
		policy.Now = time.Now
	}
	return &AbsenceAlerterImpl{
		attendanceRepo: attendanceRepo,
		alertRepo:      alertRepo,
		employeeRepo:   employeeRepo,
		companyRepo:    companyRepo,
		sender:         sender,
		policy:         policy,
	}
}

// CheckAndNotify implements attendance.AbsenceAlerter. Every failure is
// logged and swallowed.
func (a *AbsenceAlerterImpl) CheckAndNotify(ctx context.Context, employeeID int64) {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		slog.Error("absence alert: failed to get employee", "employee_id", employeeID, "error", err)
		return
	}
	if !emp.HasEmail() {
		return
	}

	// Today is still in progress and reads as ABSENT until a half is
	// attended, so the window ends yesterday.
	today := DateOf(a.policy.Now(), a.policy.Location)
	from := today.AddDate(0, 0, -a.policy.WindowDays)

	count, err := a.attendanceRepo.CountAbsences(ctx, employeeID, from, today)
	if err != nil {
		slog.Error("absence alert: failed to count absences", "employee_id", employeeID, "error", err)
		return
	}
	if count < a.policy.Threshold {
		return
	}

	// Overlapping runs race on the unique row; only the winner sends.
	reserved, err := a.alertRepo.Reserve(ctx, employeeID, count)
	if err != nil {
		slog.Error("absence alert: failed to reserve alert", "employee_id", employeeID, "error", err)
		return
	}
	if !reserved {
		return
	}

	companyName := defaultCompanyName
	if c, err := a.companyRepo.GetByID(ctx, emp.CompanyID); err == nil {
		companyName = c.Name
	} else {
		slog.Warn("absence alert: company lookup failed, using default name", "company_id", emp.CompanyID, "error", err)
	}

	if err := a.sender.SendAbsenceAlert(ctx, emp.FullName, *emp.Email, count, companyName); err != nil {
		slog.Error("absence alert: failed to send", "employee_id", employeeID, "absences", count, "error", err)
		if err := a.alertRepo.Release(context.WithoutCancel(ctx), employeeID, count); err != nil {
			slog.Error("absence alert: failed to release reservation", "employee_id", employeeID, "absences", count, "error", err)
		}
		return
	}

	slog.Info("absence alert sent", "employee_id", employeeID, "absences", count)
}

// DateOf returns midnight of t's calendar date in loc, expressed in UTC
// so it maps cleanly onto a DATE column.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
