package attendance

import "errors"

// Attendance domain errors
var (
	ErrEmployeeNotResolved = errors.New("employee not found for scan code")
	ErrEmployeeInactive    = errors.New("employee is inactive")
	ErrEmptyScanCode       = errors.New("scan code is required")
	ErrRecordNotFound      = errors.New("attendance record not found")
)
