package attendance

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a single day, with second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay takes the clock reading of t in its own location.
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

// MustParseTimeOfDay is ParseTimeOfDay for constants.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayFromSeconds builds a TimeOfDay from seconds past midnight.
func TimeOfDayFromSeconds(secs int) TimeOfDay {
	return TimeOfDay{Hour: secs / 3600, Minute: (secs % 3600) / 60, Second: secs % 60}
}

// Seconds returns seconds past midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Minutes returns whole minutes past midnight; seconds are discarded.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Seconds() < u.Seconds()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

type DayState string

const (
	DayStateComplete   DayState = "COMPLETE"
	DayStateIncomplete DayState = "INCOMPLETE"
	DayStateAbsent     DayState = "ABSENT"
)

// Checkpoint names one of the four daily scan slots.
type Checkpoint string

const (
	CheckpointMorningIn    Checkpoint = "morning_in"
	CheckpointMorningOut   Checkpoint = "morning_out"
	CheckpointAfternoonIn  Checkpoint = "afternoon_in"
	CheckpointAfternoonOut Checkpoint = "afternoon_out"
)

// Record is one employee's attendance for one calendar date.
// Checkpoints, once set, are never overwritten.
type Record struct {
	ID         int64
	EmployeeID int64
	WorkDate   time.Time

	MorningIn    *TimeOfDay
	MorningOut   *TimeOfDay
	AfternoonIn  *TimeOfDay
	AfternoonOut *TimeOfDay

	// Derived by the hours calculator.
	WorkedMinutes     int
	TotalHours        float64
	NormalHours       float64
	OvertimeHours     float64
	AttendedMorning   bool
	AttendedAfternoon bool
	LateMorning       bool
	LateAfternoon     bool
	DayState          DayState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns a pointer to the storage of the given checkpoint.
func (r *Record) Slot(c Checkpoint) **TimeOfDay {
	switch c {
	case CheckpointMorningIn:
		return &r.MorningIn
	case CheckpointMorningOut:
		return &r.MorningOut
	case CheckpointAfternoonIn:
		return &r.AfternoonIn
	case CheckpointAfternoonOut:
		return &r.AfternoonOut
	}
	return nil
}

// IsNew reports whether the record has not been persisted yet.
func (r *Record) IsNew() bool {
	return r.ID == 0
}

// ScanLogEntry is one accepted scan attempt, used only for deduplication.
type ScanLogEntry struct {
	ID         int64
	ScanCode   string
	SourceAddr string
	ScannedAt  time.Time
}

// SentAlert marks that an absence alert went out for a given absence count.
type SentAlert struct {
	ID           int64
	EmployeeID   int64
	AbsenceCount int
	SentAt       time.Time
}

// Schedule holds the expected shift starts and the morning cutoff that
// attendance marking is evaluated against.
type Schedule struct {
	MorningExpectedIn   TimeOfDay
	AfternoonExpectedIn TimeOfDay
	MorningCutoff       TimeOfDay
}
