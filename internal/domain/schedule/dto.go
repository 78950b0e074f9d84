package schedule

import (
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

type ScheduleResponse struct {
	CompanyID           int64  `json:"empresa_id"`
	MorningExpectedIn   string `json:"entrada_manana"`
	AfternoonExpectedIn string `json:"entrada_tarde"`
	MorningCutoff       string `json:"corte_manana"`
	IsDefault           bool   `json:"por_defecto"`
}

func NewScheduleResponse(companyID int64, s attendance.Schedule, isDefault bool) ScheduleResponse {
	return ScheduleResponse{
		CompanyID:           companyID,
		MorningExpectedIn:   s.MorningExpectedIn.String()[:5],
		AfternoonExpectedIn: s.AfternoonExpectedIn.String()[:5],
		MorningCutoff:       s.MorningCutoff.String()[:5],
		IsDefault:           isDefault,
	}
}

type UpsertScheduleRequest struct {
	MorningExpectedIn   string `json:"entrada_manana"`
	AfternoonExpectedIn string `json:"entrada_tarde"`
	MorningCutoff       string `json:"corte_manana"`
}

func (r *UpsertScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	fields := []struct {
		name  string
		value string
	}{
		{"entrada_manana", r.MorningExpectedIn},
		{"entrada_tarde", r.AfternoonExpectedIn},
		{"corte_manana", r.MorningCutoff},
	}
	for _, f := range fields {
		if !validator.IsValidTimeOfDay(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be a time in HH:MM format",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	s, _ := r.ToSchedule()
	if !s.MorningExpectedIn.Before(s.MorningCutoff) {
		errs = append(errs, validator.ValidationError{
			Field:   "corte_manana",
			Message: "corte_manana must be after entrada_manana",
		})
	}
	if !s.MorningExpectedIn.Before(s.AfternoonExpectedIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "entrada_tarde",
			Message: "entrada_tarde must be after entrada_manana",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToSchedule parses the request times.
func (r *UpsertScheduleRequest) ToSchedule() (attendance.Schedule, error) {
	morningIn, err := attendance.ParseTimeOfDay(r.MorningExpectedIn)
	if err != nil {
		return attendance.Schedule{}, ErrInvalidScheduleTime
	}
	afternoonIn, err := attendance.ParseTimeOfDay(r.AfternoonExpectedIn)
	if err != nil {
		return attendance.Schedule{}, ErrInvalidScheduleTime
	}
	cutoff, err := attendance.ParseTimeOfDay(r.MorningCutoff)
	if err != nil {
		return attendance.Schedule{}, ErrInvalidScheduleTime
	}
	return attendance.Schedule{
		MorningExpectedIn:   morningIn,
		AfternoonExpectedIn: afternoonIn,
		MorningCutoff:       cutoff,
	}, nil
}
