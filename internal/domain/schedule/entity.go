package schedule

import (
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
)

// StandardSchedule is a company's override of the default shift layout.
type StandardSchedule struct {
	CompanyID           int64
	MorningExpectedIn   attendance.TimeOfDay
	AfternoonExpectedIn attendance.TimeOfDay
	MorningCutoff       attendance.TimeOfDay
	UpdatedAt           time.Time
}

func (s StandardSchedule) ToAttendance() attendance.Schedule {
	return attendance.Schedule{
		MorningExpectedIn:   s.MorningExpectedIn,
		AfternoonExpectedIn: s.AfternoonExpectedIn,
		MorningCutoff:       s.MorningCutoff,
	}
}
