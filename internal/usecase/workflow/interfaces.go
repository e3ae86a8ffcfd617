package workflow

import (
	"context"

	"github.com/futig/permitcheck/internal/entity"
)

type OracleConnector interface {
	CheckFeasibility(ctx context.Context, project *entity.ProjectInput) (*entity.FeasibilityResult, error)
	GenerateNarrative(ctx context.Context, project *entity.ProjectInput) (*entity.NarrativeResult, error)
	ReviewDocument(ctx context.Context, file *entity.UploadFile, project *entity.ProjectInput) (*entity.ReviewResult, error)
	GenerateVisual(ctx context.Context, req *entity.VisualRequest) (*entity.VisualResult, error)
	ExportDocument(ctx context.Context, req *entity.ExportRequest) (*entity.Document, error)
}

type Validator interface {
	ValidateUpload(file *entity.UploadFile) error
	ValidateProject(project *entity.ProjectInput) error
	ValidateVisual(req *entity.GenerateVisualRequest) error
	ValidateExportKind(kind entity.ExportKind) error
}

type SessionRepository interface {
	Create(ctx context.Context, id string, controller *Controller) error
	Get(ctx context.Context, id string) (*Controller, error)
	Delete(ctx context.Context, id string) error
}

type ExportRepository interface {
	Save(ctx context.Context, artifact *entity.ExportArtifact) error
	Get(ctx context.Context, sessionID, exportID string) (*entity.ExportArtifact, error)
}
