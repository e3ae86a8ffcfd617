package formatter

import (
	"fmt"
	"time"

	"github.com/futig/permitcheck/internal/entity"
)

// Formatter renders the aggregated workflow state into one export document.
type Formatter interface {
	Format(req *entity.ExportRequest) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	now func() time.Time
}

func NewFactory() *Factory {
	return &Factory{now: time.Now}
}

func (f *Factory) Create(kind entity.ExportKind) (Formatter, error) {
	switch kind {
	case entity.ExportPDF:
		return NewPDFFormatter(f.now), nil
	case entity.ExportDOCX:
		return NewDOCXFormatter(f.now), nil
	case entity.ExportChecklist:
		return NewChecklistFormatter(f.now), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidExportKind, kind)
	}
}
