package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
)

const (
	msgDuplicate        = "Código QR escaneado recientemente"
	msgEmployeeNotFound = "Empleado no encontrado"
	msgEmployeeInactive = "Empleado inactivo"
	msgInvalidCode      = "Código QR requerido"
	msgUnexpected       = "Error inesperado registrando asistencia"

	alertTimeout = 30 * time.Second
)

// Policy holds the scan-processing settings.
type Policy struct {
	DedupWindow          time.Duration
	StandardDailyMinutes int
	Location             *time.Location
	Now                  func() time.Time
}

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	dedup     *Deduplicator
	resolver  *EmployeeResolver
	schedules attendance.ScheduleProvider
	alerter   attendance.AbsenceAlerter
	publisher attendance.ScanPublisher
	policy    Policy

	alerts sync.WaitGroup
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	scanLogRepo attendance.ScanLogRepository,
	employeeRepo employee.EmployeeRepository,
	schedules attendance.ScheduleProvider,
	alerter attendance.AbsenceAlerter,
	publisher attendance.ScanPublisher,
	policy Policy,
) attendance.AttendanceService {
	if policy.Location == nil {
		policy.Location = time.Local
	}
	if policy.Now == nil {
		policy.Now = time.Now
	}
	if policy.StandardDailyMinutes <= 0 {
		policy.StandardDailyMinutes = DefaultStandardDailyMinutes
	}
	return &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepo,
		dedup:                NewDeduplicator(transactor, scanLogRepo, policy.Now),
		resolver:             NewEmployeeResolver(employeeRepo),
		schedules:            schedules,
		alerter:              alerter,
		publisher:            publisher,
		policy:               policy,
	}
}

// ProcessScan implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ProcessScan(ctx context.Context, req attendance.ScanRequest) (result attendance.ScanResult) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("panic while processing scan", "panic", p, "stack", string(debug.Stack()))
			result = errorResult(msgUnexpected)
		}
	}()

	if err := req.Validate(); err != nil {
		return errorResult(msgInvalidCode)
	}

	admitted, err := s.dedup.Admit(ctx, req.ScanCode, req.SourceAddr, s.policy.DedupWindow)
	if err != nil {
		slog.Error("scan dedup failed", "error", err)
		return errorResult(msgUnexpected)
	}
	if !admitted {
		return attendance.ScanResult{Status: attendance.StatusDuplicate, Message: msgDuplicate}
	}

	emp, err := s.resolver.Resolve(ctx, req.ScanCode)
	if err != nil {
		slog.Error("employee resolution failed", "error", err)
		return errorResult(msgUnexpected)
	}
	if emp == nil {
		slog.Info("scan code did not resolve", "source", req.SourceAddr)
		return errorResult(msgEmployeeNotFound)
	}
	if !emp.IsActive {
		slog.Info("scan rejected for inactive employee", "employee_id", emp.ID)
		return errorResult(msgEmployeeInactive)
	}

	schedule, err := s.schedules.ForCompany(ctx, emp.CompanyID)
	if err != nil {
		slog.Error("failed to load schedule", "company_id", emp.CompanyID, "error", err)
		return errorResult(msgUnexpected)
	}

	now := s.policy.Now().In(s.policy.Location)
	record, outcome, err := s.markCheckpoint(ctx, emp.ID, DateOf(now, s.policy.Location), attendance.NewTimeOfDay(now), schedule)
	if err != nil {
		slog.Error("failed to record attendance", "employee_id", emp.ID, "error", err)
		return errorResult(msgUnexpected)
	}

	s.notifyAbsences(ctx, emp.ID)

	result = attendance.ScanResult{
		Status:  attendance.StatusSuccess,
		Message: outcome.Message,
		Data: &attendance.ScanData{
			Employee:   attendance.ScanEmployee{ID: emp.ID, Name: emp.FullName},
			Attendance: attendance.NewScanAttendance(record),
		},
	}

	if outcome.Updated {
		slog.Info("attendance checkpoint recorded", "employee_id", emp.ID, "checkpoint", outcome.Checkpoint, "day_state", record.DayState)
		if s.publisher != nil {
			s.publisher.PublishScan(emp.CompanyID, result)
		}
	}

	return result
}

// markCheckpoint runs the read-modify-write of the day's record under a
// per-(employee, date) lock so concurrent scans cannot fill the same slot.
func (s *AttendanceServiceImpl) markCheckpoint(ctx context.Context, employeeID int64, workDate time.Time, now attendance.TimeOfDay, schedule attendance.Schedule) (attendance.Record, SequenceResult, error) {
	var (
		record  attendance.Record
		outcome SequenceResult
	)

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.AttendanceRepository.LockEmployeeDay(txCtx, employeeID, workDate); err != nil {
			return fmt.Errorf("failed to lock attendance day: %w", err)
		}

		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(txCtx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}
		if existing != nil {
			record = *existing
		} else {
			record = attendance.Record{EmployeeID: employeeID, WorkDate: workDate}
		}

		outcome = ApplyScan(&record, now, schedule.MorningCutoff)
		Recompute(&record, schedule, s.policy.StandardDailyMinutes)
		if !outcome.Updated {
			return nil
		}

		if record.IsNew() {
			created, err := s.AttendanceRepository.Create(txCtx, record)
			if err != nil {
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
			record = created
			return nil
		}
		if err := s.AttendanceRepository.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Record{}, SequenceResult{}, err
	}
	return record, outcome, nil
}

// notifyAbsences runs the absence alerter in the background; it outlives
// the request but not the process (see Wait).
func (s *AttendanceServiceImpl) notifyAbsences(ctx context.Context, employeeID int64) {
	if s.alerter == nil {
		return
	}
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("panic in absence alerter", "employee_id", employeeID, "panic", p)
			}
		}()

		alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
		defer cancel()
		s.alerter.CheckAndNotify(alertCtx, employeeID)
	}()
}

// Wait implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Wait() {
	s.alerts.Wait()
}

func errorResult(message string) attendance.ScanResult {
	return attendance.ScanResult{Status: attendance.StatusError, Message: message}
}
