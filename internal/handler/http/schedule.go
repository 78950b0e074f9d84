package http

import (
	"encoding/json"
	"net/http"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/schedule"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
)

type ScheduleHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{scheduleService: scheduleService}
}

// Get implements ScheduleHandler.
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid company id", nil)
		return
	}

	resp, err := h.scheduleService.Get(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Upsert implements ScheduleHandler.
func (h *scheduleHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid company id", nil)
		return
	}

	var req schedule.UpsertScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.scheduleService.Upsert(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule updated successfully", resp)
}
