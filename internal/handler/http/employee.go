package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ToggleActive(w http.ResponseWriter, r *http.Request)
	QRCode(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter employee.EmployeeFilter

	if r.URL.Query().Get("company_id") != "" || r.URL.Query().Get("empresa_id") != "" {
		companyID, ok := companyIDQuery(r)
		if !ok {
			response.BadRequest(w, "Invalid company_id", nil)
			return
		}
		filter.CompanyID = &companyID
	}

	activeParam := r.URL.Query().Get("activo")
	if activeParam == "" {
		activeParam = r.URL.Query().Get("active")
	}
	if activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			response.BadRequest(w, "Invalid active filter", nil)
			return
		}
		filter.Active = &active
	}

	employees, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode employee request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.employeeService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", created)
}

// GetByID implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	emp, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, emp)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode employee update", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.employeeService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", updated)
}

// Delete implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// ToggleActive implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	emp, err := h.employeeService.ToggleActive(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee status updated", emp)
}

// QRCode implements EmployeeHandler. Responds with the PNG itself.
func (h *EmployeeHandlerImpl) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	qr, err := h.employeeService.QRCode(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, "image/png", qr.Filename, qr.Content)
}
