package attendance

import (
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
)

const (
	msgDayComplete       = "Todos los registros del día completos"
	msgAfternoonComplete = "Registros de la tarde completos"
)

var checkpointMessages = map[attendance.Checkpoint]string{
	attendance.CheckpointMorningIn:    "Entrada mañana registrada: ",
	attendance.CheckpointMorningOut:   "Salida mañana registrada: ",
	attendance.CheckpointAfternoonIn:  "Entrada tarde registrada: ",
	attendance.CheckpointAfternoonOut: "Salida tarde registrada: ",
}

var (
	morningSlots   = []attendance.Checkpoint{attendance.CheckpointMorningIn, attendance.CheckpointMorningOut}
	afternoonSlots = []attendance.Checkpoint{attendance.CheckpointAfternoonIn, attendance.CheckpointAfternoonOut}
)

// SequenceResult is the outcome of applying one scan to a daily record.
type SequenceResult struct {
	Updated    bool
	Checkpoint attendance.Checkpoint
	Message    string
}

// ApplyScan fills the first unset checkpoint in the order morning-in,
// morning-out, afternoon-in, afternoon-out. From the morning cutoff onwards
// the morning slots are no longer eligible, so a late arrival lands in the
// afternoon instead of being filed as a morning exit. Set slots are never
// overwritten.
func ApplyScan(record *attendance.Record, now, morningCutoff attendance.TimeOfDay) SequenceResult {
	eligible := afternoonSlots
	if now.Before(morningCutoff) {
		eligible = append(append([]attendance.Checkpoint{}, morningSlots...), afternoonSlots...)
	}

	for _, cp := range eligible {
		slot := record.Slot(cp)
		if *slot != nil {
			continue
		}
		t := now
		*slot = &t
		return SequenceResult{
			Updated:    true,
			Checkpoint: cp,
			Message:    checkpointMessages[cp] + now.String(),
		}
	}

	if record.MorningIn == nil || record.MorningOut == nil {
		return SequenceResult{Message: msgAfternoonComplete}
	}
	return SequenceResult{Message: msgDayComplete}
}
