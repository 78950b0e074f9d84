package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/auth"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/report"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/schedule"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Administrator privilege required")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyCodeExists):
		Conflict(w, "Company code already exists")
	case errors.Is(err, company.ErrCompanyHasEmployees):
		Conflict(w, "Company still has registered employees")
	case errors.Is(err, company.ErrNoFieldsToUpdate):
		BadRequest(w, "No updatable fields provided", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDNIExists):
		Conflict(w, "DNI already registered")
	case errors.Is(err, employee.ErrScanCodeExists):
		Conflict(w, "Scan code already assigned")
	case errors.Is(err, employee.ErrNoFieldsToUpdate):
		BadRequest(w, "No updatable fields provided", nil)

	// Schedule and report errors
	case errors.Is(err, schedule.ErrInvalidScheduleTime):
		BadRequest(w, "Invalid schedule time", nil)
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, "Invalid report period", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
