package schedule

import "errors"

var (
	ErrScheduleNotFound    = errors.New("standard schedule not found")
	ErrInvalidScheduleTime = errors.New("invalid schedule time")
)
