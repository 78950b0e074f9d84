package company

import (
	"strings"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Code      string    `json:"codigo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name string `json:"nombre"`
	Code string `json:"codigo"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre",
			Message: "nombre is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre",
			Message: "nombre must not exceed 100 characters",
		})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "codigo",
			Message: "codigo is required",
		})
	} else if !validator.IsValidCompanyCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "codigo",
			Message: "codigo must be 2-20 letters, numbers or hyphens",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateCompanyRequest struct {
	Name *string `json:"nombre,omitempty"`
	Code *string `json:"codigo,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{
				Field:   "nombre",
				Message: "nombre cannot be empty",
			})
		} else if len(name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "nombre",
				Message: "nombre must not exceed 100 characters",
			})
		}
	}
	if r.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.Code))
		r.Code = &code
		if !validator.IsValidCompanyCode(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "codigo",
				Message: "codigo must be 2-20 letters, numbers or hyphens",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
