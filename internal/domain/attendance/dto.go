package attendance

import (
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

// Scan outcome statuses returned to the kiosk.
const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicado"
	StatusError     = "error"
)

type ScanRequest struct {
	ScanCode   string `json:"codigo_qr"`
	SourceAddr string `json:"-"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ScanCode = strings.TrimSpace(r.ScanCode)
	if validator.IsEmpty(r.ScanCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "codigo_qr",
			Message: "codigo_qr is required",
		})
	} else if len(r.ScanCode) > 128 {
		errs = append(errs, validator.ValidationError{
			Field:   "codigo_qr",
			Message: "codigo_qr must not exceed 128 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScanResult struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    *ScanData `json:"data"`
}

type ScanData struct {
	Employee   ScanEmployee   `json:"empleado"`
	Attendance ScanAttendance `json:"asistencia"`
}

type ScanEmployee struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

type ScanAttendance struct {
	Date          string  `json:"fecha"`
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

// NewScanAttendance maps a record to its kiosk representation.
func NewScanAttendance(r Record) ScanAttendance {
	return ScanAttendance{
		Date:          r.WorkDate.Format("2006-01-02"),
		MorningIn:     timeOfDayPtrToString(r.MorningIn),
		MorningOut:    timeOfDayPtrToString(r.MorningOut),
		AfternoonIn:   timeOfDayPtrToString(r.AfternoonIn),
		AfternoonOut:  timeOfDayPtrToString(r.AfternoonOut),
		TotalHours:    r.TotalHours,
		OvertimeHours: r.OvertimeHours,
		DayState:      string(r.DayState),
		LateMorning:   r.LateMorning,
		LateAfternoon: r.LateAfternoon,
	}
}

func timeOfDayPtrToString(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
