package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// InvoiceRow is one applicant's summary line for the invoice-application
// spreadsheet. Each row expands to two sheet rows: official fees first, then
// agent fees.
type InvoiceRow struct {
	Applicant        string
	RegistrationCode string
	TotalOfficial    int64
	TotalAgent       int64
	Total            int64
}

// InvoiceSheetRenderer populates the XLSX invoice-application template. The
// template has a fixed header row; data starts at row 2 in fixed columns:
// applicant, registration code, then G/H (amount twice), I (grand total) and
// Q (date). The applicant/code columns differ between modes: C/D for
// new-application batches, B/C for case batches.
type InvoiceSheetRenderer struct {
	templatePath string
	applicantCol string
	codeCol      string
}

// NewInvoiceSheetRenderer creates a renderer bound to a template path.
// caseMode selects the case-batch column layout.
func NewInvoiceSheetRenderer(templatePath string, caseMode bool) *InvoiceSheetRenderer {
	r := &InvoiceSheetRenderer{
		templatePath: templatePath,
		applicantCol: "C",
		codeCol:      "D",
	}
	if caseMode {
		r.applicantCol = "B"
		r.codeCol = "C"
	}
	return r
}

// Render writes two rows per applicant into the template and saves the
// result as 发票申请表-{YYYYMMDD}.xlsx in outputDir, returning the filename.
func (r *InvoiceSheetRenderer) Render(rows []InvoiceRow, date time.Time, outputDir string) (string, error) {
	if _, err := os.Stat(r.templatePath); os.IsNotExist(err) {
		return "", &TemplateMissingError{Path: r.templatePath}
	}

	f, err := excelize.OpenFile(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	dateStr := date.Format("2006年01月02日")

	rowIdx := 2
	for _, row := range rows {
		for _, amount := range []int64{row.TotalOfficial, row.TotalAgent} {
			if err := r.writeRow(f, sheet, rowIdx, row, amount, dateStr); err != nil {
				return "", err
			}
			rowIdx++
		}
	}

	filename := fmt.Sprintf("发票申请表-%s.xlsx", date.Format("20060102"))
	if err := f.SaveAs(filepath.Join(outputDir, filename)); err != nil {
		return "", fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return filename, nil
}

func (r *InvoiceSheetRenderer) writeRow(f *excelize.File, sheet string, rowIdx int, row InvoiceRow, amount int64, dateStr string) error {
	cells := []struct {
		col string
		val interface{}
	}{
		{r.applicantCol, row.Applicant},
		{r.codeCol, row.RegistrationCode},
		{"G", amount},
		{"H", amount},
		{"I", row.Total},
		{"Q", dateStr},
	}
	for _, c := range cells {
		axis := fmt.Sprintf("%s%d", c.col, rowIdx)
		if err := f.SetCellValue(sheet, axis, c.val); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", axis, err)
		}
	}
	return nil
}
