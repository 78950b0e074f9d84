package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/report"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ReportServiceImpl struct {
	reportRepo     report.ReportRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	companyRepo    company.CompanyRepository
	now            func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		reportRepo:     reportRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		companyRepo:    companyRepo,
		now:            now,
	}
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	companyData, err := s.getCompany(ctx, req.CompanyID)
	if err != nil {
		return report.MonthlyReport{}, err
	}

	first, last := monthBounds(req.Month, req.Year)
	stats, err := s.reportRepo.EmployeeStatsByCompany(ctx, req.CompanyID, first, last)
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	summaries := make([]report.EmployeeSummary, 0, len(stats))
	normal, overtime := decimal.Zero, decimal.Zero
	absences := 0
	for _, st := range stats {
		summary := summarize(st)
		summaries = append(summaries, summary)
		normal = normal.Add(decimal.NewFromFloat(summary.NormalHours))
		overtime = overtime.Add(decimal.NewFromFloat(summary.OvertimeHours))
		absences += summary.Absences
	}

	return report.MonthlyReport{
		Company:   companyInfo(companyData),
		Period:    newPeriod(req.Month, req.Year),
		Employees: summaries,
		Totals: report.MonthlyTotals{
			Employees:     len(summaries),
			WorkingDays:   WorkingDays(req.Month, req.Year),
			NormalHours:   normal.Round(2).InexactFloat64(),
			OvertimeHours: overtime.Round(2).InexactFloat64(),
			Absences:      absences,
		},
		GeneratedAt: s.now().Format(time.RFC3339),
	}, nil
}

// EmployeeReport implements report.ReportService.
func (s *ReportServiceImpl) EmployeeReport(ctx context.Context, req report.EmployeeReportRequest) (report.EmployeeReport, error) {
	if err := req.Validate(); err != nil {
		return report.EmployeeReport{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.EmployeeReport{}, employee.ErrEmployeeNotFound
		}
		return report.EmployeeReport{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	companyData, err := s.getCompany(ctx, emp.CompanyID)
	if err != nil {
		return report.EmployeeReport{}, err
	}

	first, last := monthBounds(req.Month, req.Year)
	records, err := s.attendanceRepo.ListByEmployeeAndPeriod(ctx, emp.ID, first, last)
	if err != nil {
		return report.EmployeeReport{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	stats := report.EmployeeStats{
		EmployeeID: emp.ID,
		FullName:   emp.FullName,
		DNI:        emp.DNI,
		IsActive:   emp.IsActive,
	}
	normal, overtime, total := decimal.Zero, decimal.Zero, decimal.Zero
	days := make([]report.DailyRow, 0, len(records))
	for _, r := range records {
		stats.TotalRecords++
		switch r.DayState {
		case attendance.DayStateComplete:
			stats.CompleteDays++
		case attendance.DayStateIncomplete:
			stats.IncompleteDays++
		case attendance.DayStateAbsent:
			stats.AbsentDays++
		}
		if r.DayState != attendance.DayStateAbsent {
			normal = normal.Add(decimal.NewFromFloat(r.NormalHours))
			overtime = overtime.Add(decimal.NewFromFloat(r.OvertimeHours))
			total = total.Add(decimal.NewFromFloat(r.TotalHours))
		}
		if r.LateMorning || r.LateAfternoon {
			stats.LateDays++
		}
		days = append(days, dailyRow(r))
	}
	stats.NormalHours = normal.InexactFloat64()
	stats.OvertimeHours = overtime.InexactFloat64()
	stats.TotalHours = total.InexactFloat64()

	return report.EmployeeReport{
		Employee: report.EmployeeInfo{
			ID:       emp.ID,
			FullName: emp.FullName,
			DNI:      emp.DNI,
			IsActive: emp.IsActive,
		},
		Company:     companyInfo(companyData),
		Period:      newPeriod(req.Month, req.Year),
		Stats:       summarize(stats),
		Days:        days,
		GeneratedAt: s.now().Format(time.RFC3339),
	}, nil
}

func (s *ReportServiceImpl) getCompany(ctx context.Context, id int64) (company.Company, error) {
	companyData, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return companyData, nil
}

// summarize turns aggregated counters into the reported figures. Attended
// days are complete plus incomplete; the percentage counts complete days
// only, over every stored record in the period.
func summarize(st report.EmployeeStats) report.EmployeeSummary {
	percentage := decimal.Zero
	if st.TotalRecords > 0 {
		percentage = decimal.NewFromInt(int64(st.CompleteDays)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(st.TotalRecords)))
	}
	return report.EmployeeSummary{
		EmployeeID:           st.EmployeeID,
		FullName:             st.FullName,
		DNI:                  st.DNI,
		Attended:             st.CompleteDays + st.IncompleteDays,
		Absences:             st.AbsentDays,
		IncompleteDays:       st.IncompleteDays,
		LateDays:             st.LateDays,
		NormalHours:          round2(st.NormalHours),
		OvertimeHours:        round2(st.OvertimeHours),
		TotalHours:           round2(st.TotalHours),
		AttendancePercentage: percentage.Round(2).InexactFloat64(),
	}
}

func dailyRow(r attendance.Record) report.DailyRow {
	return report.DailyRow{
		Date:          r.WorkDate.Format(dateLayout),
		DayOfWeek:     spanishWeekdays[r.WorkDate.Weekday()],
		MorningIn:     formatTime(r.MorningIn),
		MorningOut:    formatTime(r.MorningOut),
		AfternoonIn:   formatTime(r.AfternoonIn),
		AfternoonOut:  formatTime(r.AfternoonOut),
		TotalHours:    r.TotalHours,
		OvertimeHours: r.OvertimeHours,
		DayState:      string(r.DayState),
		LateMorning:   r.LateMorning,
		LateAfternoon: r.LateAfternoon,
	}
}

func formatTime(t *attendance.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func companyInfo(c company.Company) report.CompanyInfo {
	return report.CompanyInfo{ID: c.ID, Name: c.Name, Code: c.Code}
}

func newPeriod(month, year int) report.Period {
	first, last := monthBounds(month, year)
	return report.Period{
		Month:    month,
		Year:     year,
		FirstDay: first.Format(dateLayout),
		LastDay:  last.Format(dateLayout),
	}
}

// monthBounds returns the first and last calendar day of the month.
func monthBounds(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// WorkingDays counts Monday to Friday dates in the month.
func WorkingDays(month, year int) int {
	first, last := monthBounds(month, year)
	count := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

var spanishWeekdays = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var spanishMonths = [...]string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}
