package formatter

import (
	"bytes"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct {
	now func() time.Time
}

func NewDOCXFormatter(now func() time.Time) *DOCXFormatter {
	return &DOCXFormatter{now: now}
}

func (df *DOCXFormatter) Format(req *entity.ExportRequest) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	for _, b := range buildReport(req, df.now()) {
		switch b.kind {
		case blockTitle:
			par := doc.AddParagraph()
			par.SetStyle("Title")
			par.AddRun().AddText(b.text)
		case blockHeading:
			par := doc.AddParagraph()
			par.SetStyle("Heading1")
			par.AddRun().AddText(b.text)
		case blockParagraph:
			doc.AddParagraph().AddRun().AddText(b.text)
		case blockLabel:
			par := doc.AddParagraph()
			label := par.AddRun()
			label.Properties().SetBold(true)
			label.AddText(b.label)
			if b.text != "" {
				par.AddRun().AddText(" " + b.text)
			}
		case blockBullet:
			doc.AddParagraph().AddRun().AddText("• " + b.text)
		case blockSpacer:
			doc.AddParagraph()
		case blockPageBreak:
			doc.AddParagraph().AddRun().AddPageBreak()
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
