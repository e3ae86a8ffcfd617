package formatter

import (
	"bytes"
	"os"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the container fonts are copied to /app/ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct {
	now func() time.Time
}

func NewPDFFormatter(now func() time.Time) *PDFFormatter {
	return &PDFFormatter{now: now}
}

func (pf *PDFFormatter) Format(req *entity.ExportRequest) ([]byte, error) {
	doc := newPDFDocument()
	doc.render(buildReport(req, pf.now()))
	return doc.output()
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}

// resolveFontPath looks for DejaVuSans next to the binary, then in the source tree.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

// pdfDocument wraps gofpdf with the block renderer shared by the report and the checklist.
type pdfDocument struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func newPDFDocument() *pdfDocument {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(19, 19, 19)
	pdf.SetAutoPageBreak(true, 19)
	pdf.AddPage()

	d := &pdfDocument{pdf: pdf, font: "Arial", tr: func(s string) string { return s }}

	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		d.font = pdfFontName
	} else {
		// Core fonts are cp1252 only.
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	return d
}

func (d *pdfDocument) render(blocks []block) {
	pdf := d.pdf
	for _, b := range blocks {
		switch b.kind {
		case blockTitle:
			pdf.SetFont(d.font, "B", 16)
			pdf.SetTextColor(31, 41, 55)
			pdf.MultiCell(0, 9, d.tr(b.text), "", "L", false)
			pdf.Ln(4)
			pdf.SetTextColor(0, 0, 0)
		case blockHeading:
			pdf.SetFont(d.font, "B", 14)
			pdf.SetTextColor(55, 65, 81)
			pdf.MultiCell(0, 8, d.tr(b.text), "", "L", false)
			pdf.Ln(2)
			pdf.SetTextColor(0, 0, 0)
		case blockParagraph:
			pdf.SetFont(d.font, "", 10)
			pdf.MultiCell(0, 5, d.tr(b.text), "", "L", false)
		case blockLabel:
			pdf.SetFont(d.font, "B", 10)
			if b.text == "" {
				pdf.MultiCell(0, 5, d.tr(b.label), "", "L", false)
				continue
			}
			pdf.CellFormat(pdf.GetStringWidth(d.tr(b.label))+2, 5, d.tr(b.label), "", 0, "L", false, 0, "")
			pdf.SetFont(d.font, "", 10)
			pdf.MultiCell(0, 5, d.tr(b.text), "", "L", false)
		case blockBullet:
			pdf.SetFont(d.font, "", 10)
			pdf.MultiCell(0, 5, d.tr("- "+b.text), "", "L", false)
		case blockSpacer:
			pdf.Ln(5)
		case blockPageBreak:
			pdf.AddPage()
		}
	}
}

func (d *pdfDocument) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
