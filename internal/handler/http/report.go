package http

import (
	"net/http"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/report"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	ExportExcel(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService, now func() time.Time) ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &reportHandlerImpl{
		reportService: reportService,
		now:           now,
	}
}

func (h *reportHandlerImpl) monthlyRequest(w http.ResponseWriter, r *http.Request) (report.MonthlyReportRequest, bool) {
	companyID, ok := companyIDQuery(r)
	if !ok {
		response.BadRequest(w, "company_id is required", nil)
		return report.MonthlyReportRequest{}, false
	}
	month, year, ok := period(r, h.now())
	if !ok {
		response.BadRequest(w, "Invalid month or year", nil)
		return report.MonthlyReportRequest{}, false
	}
	return report.MonthlyReportRequest{CompanyID: companyID, Month: month, Year: year}, true
}

// Monthly implements ReportHandler.
func (h *reportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	req, ok := h.monthlyRequest(w, r)
	if !ok {
		return
	}

	rep, err := h.reportService.MonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rep)
}

// Employee implements ReportHandler.
func (h *reportHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}
	month, year, ok := period(r, h.now())
	if !ok {
		response.BadRequest(w, "Invalid month or year", nil)
		return
	}

	rep, err := h.reportService.EmployeeReport(r.Context(), report.EmployeeReportRequest{
		EmployeeID: id,
		Month:      month,
		Year:       year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rep)
}

// ExportExcel implements ReportHandler.
func (h *reportHandlerImpl) ExportExcel(w http.ResponseWriter, r *http.Request) {
	req, ok := h.monthlyRequest(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.ExportMonthlyExcel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, xlsxContentType, file.Filename, file.Content)
}
