package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type AttendanceHandler interface {
	// Scan is the public kiosk endpoint. It always answers 200 with a ScanResult.
	Scan(w http.ResponseWriter, r *http.Request)

	// Stream pushes accepted scans to the admin dashboard over SSE.
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
	}
}

// Scan implements AttendanceHandler.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		slog.Warn("Scan decode error", "error", err)
		response.JSON(w, http.StatusOK, attendance.ScanResult{
			Status:  attendance.StatusError,
			Message: "Solicitud inválida",
		})
		return
	}
	req.SourceAddr = middleware.ClientIP(r)

	result := h.attendanceService.ProcessScan(r.Context(), req)
	response.JSON(w, http.StatusOK, result)
}

// Stream implements AttendanceHandler. company_id is optional; without it
// scans from every company are streamed.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	companyID := sse.AllCompanies
	if r.URL.Query().Get("company_id") != "" || r.URL.Query().Get("empresa_id") != "" {
		id, ok := companyIDQuery(r)
		if !ok {
			response.BadRequest(w, "Invalid company_id", nil)
			return
		}
		companyID = id
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(companyID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"company_id\":%d}\n\n", companyID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
