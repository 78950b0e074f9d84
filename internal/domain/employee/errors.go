package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDNIExists          = errors.New("DNI already registered")
	ErrScanCodeExists     = errors.New("scan code already assigned")
	ErrInvalidDNI         = errors.New("DNI must be exactly 8 digits")
	ErrInvalidPhoneNumber = errors.New("phone number must be a 9-digit mobile number")
	ErrNoFieldsToUpdate   = errors.New("no updatable fields provided")
)
