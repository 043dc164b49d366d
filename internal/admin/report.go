package admin

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// renderProductivityPDF lays the report out as a simple table, one row per
// employee, with the summary block at the bottom.
func renderProductivityPDF(report *ProductivityReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Productivity Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	period := "all time"
	if report.ReportPeriod.StartDate != "" || report.ReportPeriod.EndDate != "" {
		period = fmt.Sprintf("%s to %s", orDash(report.ReportPeriod.StartDate), orDash(report.ReportPeriod.EndDate))
	}
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", period))
	pdf.Ln(6)
	if report.Department != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Department: %s", report.Department))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	headers := []string{"Employee", "Department", "Hours", "Logs", "Completed", "In Progress", "Blocked", "Completion"}
	widths := []float64{60, 40, 25, 20, 25, 28, 22, 28}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.Employees {
		cells := []string{
			row.EmployeeName,
			row.Department,
			fmt.Sprintf("%.1f", row.TotalHours),
			fmt.Sprintf("%d", row.TotalLogs),
			fmt.Sprintf("%d", row.CompletedTasks),
			fmt.Sprintf("%d", row.InProgressTasks),
			fmt.Sprintf("%d", row.BlockedTasks),
			fmt.Sprintf("%.0f%%", row.CompletionRate*100),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Employees: %d    Total hours: %.1f    Average completion: %.0f%%",
		report.Summary.TotalEmployees,
		report.Summary.TotalHours,
		report.Summary.AverageCompletionRate*100))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
