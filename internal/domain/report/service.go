package report

import (
	"context"
)

type ReportService interface {
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)
	EmployeeReport(ctx context.Context, req EmployeeReportRequest) (EmployeeReport, error)

	// ExportMonthlyExcel renders the monthly report as an .xlsx workbook.
	ExportMonthlyExcel(ctx context.Context, req MonthlyReportRequest) (ExcelFile, error)
}
