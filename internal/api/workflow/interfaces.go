package workflow

import (
	"context"

	"github.com/futig/permitcheck/internal/entity"
)

type WorkflowUsecase interface {
	CreateSession(ctx context.Context) (*entity.WorkflowState, error)
	GetSession(ctx context.Context, sessionID string) (*entity.WorkflowState, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SubmitProject(ctx context.Context, sessionID string, project *entity.ProjectInput) (*entity.WorkflowState, error)
	UploadDocument(ctx context.Context, sessionID string, file *entity.UploadFile) (*entity.WorkflowState, error)
	GenerateVisual(ctx context.Context, sessionID string, req *entity.GenerateVisualRequest) (*entity.WorkflowState, error)
	BackToUpload(ctx context.Context, sessionID string) (*entity.WorkflowState, error)
	Export(ctx context.Context, sessionID string, kind entity.ExportKind) (*entity.ExportArtifact, error)
	GetExport(ctx context.Context, sessionID, exportID string) (*entity.ExportArtifact, error)
}

type UploadValidator interface {
	ValidateUploadSize(size int64) error
	MaxUploadSize() int64
}
