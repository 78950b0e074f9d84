package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyCodeExists   = errors.New("company code already exists")
	ErrCompanyHasEmployees = errors.New("company still has registered employees")
	ErrNoFieldsToUpdate    = errors.New("no updatable fields provided")
)
