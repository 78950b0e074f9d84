package attendance

import (
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// DefaultStandardDailyMinutes is the 8 hour working day.
const DefaultStandardDailyMinutes = 480

var minutesPerHour = decimal.NewFromInt(60)

// Recompute derives hours, day state and lateness from the four checkpoints.
// It only overwrites derived fields, so calling it again yields the same record.
//
// Lateness compares the minute-truncated "in" time directly against the
// expected start; a scan at 13:00:59 is on time, 13:01 is late. The older
// 15-minute grace tolerance is no longer applied.
func Recompute(record *attendance.Record, schedule attendance.Schedule, standardDailyMinutes int) {
	if standardDailyMinutes <= 0 {
		standardDailyMinutes = DefaultStandardDailyMinutes
	}

	morningMinutes, attendedMorning := halfMinutes(record.MorningIn, record.MorningOut)
	afternoonMinutes, attendedAfternoon := halfMinutes(record.AfternoonIn, record.AfternoonOut)
	total := morningMinutes + afternoonMinutes

	normal := min(total, standardDailyMinutes)
	overtime := max(0, total-standardDailyMinutes)

	record.WorkedMinutes = total
	record.TotalHours = minutesToHours(total)
	record.NormalHours = minutesToHours(normal)
	record.OvertimeHours = minutesToHours(overtime)
	record.AttendedMorning = attendedMorning
	record.AttendedAfternoon = attendedAfternoon
	record.LateMorning = isLate(record.MorningIn, schedule.MorningExpectedIn)
	record.LateAfternoon = isLate(record.AfternoonIn, schedule.AfternoonExpectedIn)

	switch {
	case attendedMorning && attendedAfternoon:
		record.DayState = attendance.DayStateComplete
	case attendedMorning || attendedAfternoon:
		record.DayState = attendance.DayStateIncomplete
	default:
		record.DayState = attendance.DayStateAbsent
	}
}

func halfMinutes(in, out *attendance.TimeOfDay) (int, bool) {
	if in == nil || out == nil {
		return 0, false
	}
	return max(0, out.Minutes()-in.Minutes()), true
}

func isLate(in *attendance.TimeOfDay, expected attendance.TimeOfDay) bool {
	if in == nil {
		return false
	}
	return in.Minutes() > expected.Minutes()
}

// minutesToHours converts whole minutes to hours rounded to 2 decimals.
func minutesToHours(minutes int) float64 {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2).InexactFloat64()
}
