package employee

import "time"

type Employee struct {
	ID        int64
	CompanyID int64
	FullName  string
	DNI       string
	Email     *string
	Phone     *string
	IsActive  bool
	ScanCode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEmail reports whether the employee can receive email notifications.
func (e Employee) HasEmail() bool {
	return e.Email != nil && *e.Email != ""
}
