package formatter

import (
	"time"

	"github.com/futig/permitcheck/internal/entity"
)

const checklistFileExtension = ".checklist"

// ChecklistFormatter renders the review fixes as a printable PDF checklist.
type ChecklistFormatter struct {
	now func() time.Time
}

func NewChecklistFormatter(now func() time.Time) *ChecklistFormatter {
	return &ChecklistFormatter{now: now}
}

func (cf *ChecklistFormatter) Format(req *entity.ExportRequest) ([]byte, error) {
	head, rows, tail := buildChecklist(req, cf.now())

	doc := newPDFDocument()
	doc.render(head)
	if len(rows) > 0 {
		doc.table(rows)
	}
	doc.render(tail)

	return doc.output()
}

func (cf *ChecklistFormatter) ContentType() string {
	return pdfContentType
}

func (cf *ChecklistFormatter) FileExtension() string {
	return checklistFileExtension
}

func (d *pdfDocument) table(rows []checklistRow) {
	pdf := d.pdf

	pdf.SetFont(d.font, "B", 11)
	pdf.SetFillColor(31, 41, 55)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(10, 8, "", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Priority", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, d.tr("Action Item"), "1", 1, "L", true, 0, "")

	pdf.SetFont(d.font, "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(249, 250, 251)
		}
		pdf.CellFormat(10, 7, "[ ]", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, string(row.priority), "1", 0, "L", true, 0, "")
		pdf.MultiCell(0, 7, d.tr(row.description), "1", "L", true)
	}
}
