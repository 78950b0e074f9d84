package report

import (
	"fmt"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

type MonthlyReportRequest struct {
	CompanyID int64
	Month     int
	Year      int
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CompanyID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	}
	errs = append(errs, validatePeriod(r.Month, r.Year)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeReportRequest struct {
	EmployeeID int64
	Month      int
	Year       int
}

func (r *EmployeeReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "employee id is required",
		})
	}
	errs = append(errs, validatePeriod(r.Month, r.Year)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if year < 2020 || year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}
	return errs
}

type Period struct {
	Month    int    `json:"mes"`
	Year     int    `json:"anio"`
	FirstDay string `json:"fecha_inicio"`
	LastDay  string `json:"fecha_fin"`
}

type CompanyInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
	Code string `json:"codigo"`
}

type EmployeeSummary struct {
	EmployeeID           int64   `json:"id"`
	FullName             string  `json:"nombre"`
	DNI                  string  `json:"dni"`
	Attended             int     `json:"asistencias"`
	Absences             int     `json:"faltas"`
	IncompleteDays       int     `json:"incompletos"`
	LateDays             int     `json:"tardanzas"`
	NormalHours          float64 `json:"horas_normales"`
	OvertimeHours        float64 `json:"horas_extras"`
	TotalHours           float64 `json:"total_horas"`
	AttendancePercentage float64 `json:"porcentaje_asistencia"`
}

type MonthlyTotals struct {
	Employees     int     `json:"total_empleados"`
	WorkingDays   int     `json:"dias_laborables"`
	NormalHours   float64 `json:"total_horas_normales"`
	OvertimeHours float64 `json:"total_horas_extras"`
	Absences      int     `json:"total_faltas"`
}

type MonthlyReport struct {
	Company     CompanyInfo       `json:"empresa"`
	Period      Period            `json:"periodo"`
	Employees   []EmployeeSummary `json:"empleados"`
	Totals      MonthlyTotals     `json:"totales"`
	GeneratedAt string            `json:"generado_en"`
}

type EmployeeInfo struct {
	ID       int64  `json:"id"`
	FullName string `json:"nombre"`
	DNI      string `json:"dni"`
	IsActive bool   `json:"activo"`
}

type DailyRow struct {
	Date          string  `json:"fecha"`
	DayOfWeek     string  `json:"dia"`
	MorningIn     *string `json:"entrada_manana"`
	MorningOut    *string `json:"salida_manana"`
	AfternoonIn   *string `json:"entrada_tarde"`
	AfternoonOut  *string `json:"salida_tarde"`
	TotalHours    float64 `json:"total_horas"`
	OvertimeHours float64 `json:"horas_extras"`
	DayState      string  `json:"estado_dia"`
	LateMorning   bool    `json:"tardanza_manana"`
	LateAfternoon bool    `json:"tardanza_tarde"`
}

type EmployeeReport struct {
	Employee    EmployeeInfo    `json:"empleado"`
	Company     CompanyInfo     `json:"empresa"`
	Period      Period          `json:"periodo"`
	Stats       EmployeeSummary `json:"estadisticas"`
	Days        []DailyRow      `json:"registros"`
	GeneratedAt string          `json:"generado_en"`
}

// ExcelFile is a rendered workbook with its download name.
type ExcelFile struct {
	Filename string
	Content  []byte
}
