package employee

import (
	"strings"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"empresa_id"`
	CompanyName string    `json:"empresa,omitempty"`
	FullName    string    `json:"nombre"`
	DNI         string    `json:"dni"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"telefono"`
	IsActive    bool      `json:"activo"`
	ScanCode    string    `json:"codigo_qr"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e Employee, companyName string) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		CompanyName: companyName,
		FullName:    e.FullName,
		DNI:         e.DNI,
		Email:       e.Email,
		Phone:       e.Phone,
		IsActive:    e.IsActive,
		ScanCode:    e.ScanCode,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type EmployeeFilter struct {
	CompanyID *int64
	Active    *bool
}

type CreateEmployeeRequest struct {
	FullName  string  `json:"nombre"`
	CompanyID int64   `json:"empresa_id"`
	DNI       string  `json:"dni"`
	Phone     *string `json:"telefono,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FullName = strings.TrimSpace(r.FullName)
	r.DNI = strings.TrimSpace(r.DNI)
	r.Phone = trimOptional(r.Phone)
	r.Email = trimOptional(r.Email)

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre",
			Message: "nombre is required",
		})
	} else if len(r.FullName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre",
			Message: "nombre must not exceed 100 characters",
		})
	}
	if r.CompanyID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "empresa_id",
			Message: "empresa_id is required",
		})
	}
	if !validator.IsValidDNI(r.DNI) {
		errs = append(errs, validator.ValidationError{
			Field:   "dni",
			Message: ErrInvalidDNI.Error(),
		})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	FullName *string `json:"nombre,omitempty"`
	DNI      *string `json:"dni,omitempty"`
	Phone    *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FullName = trimOptional(r.FullName)
	r.DNI = trimOptional(r.DNI)
	r.Phone = trimOptional(r.Phone)
	r.Email = trimOptional(r.Email)

	if r.FullName == nil && r.DNI == nil && r.Phone == nil && r.Email == nil {
		return ErrNoFieldsToUpdate
	}

	if r.FullName != nil {
		if validator.IsEmpty(*r.FullName) {
			errs = append(errs, validator.ValidationError{
				Field:   "nombre",
				Message: "nombre cannot be empty",
			})
		} else if len(*r.FullName) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "nombre",
				Message: "nombre must not exceed 100 characters",
			})
		}
	}
	if r.DNI != nil && !validator.IsValidDNI(*r.DNI) {
		errs = append(errs, validator.ValidationError{
			Field:   "dni",
			Message: ErrInvalidDNI.Error(),
		})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateContact(phone, email *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if phone != nil && *phone != "" && !validator.IsValidPhoneNumber(*phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "telefono",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}
	if email != nil && *email != "" {
		if len(*email) > 254 {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not exceed 254 characters",
			})
		} else if !validator.IsValidEmail(*email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must be a valid email address",
			})
		}
	}
	return errs
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// QRCodeResponse carries a rendered scan-code image ready for download.
type QRCodeResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Content  []byte `json:"-"`
}
