package workflow

import (
	"context"
	"fmt"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// WorkflowUsecase resolves sessions and delegates every action to the session's Controller.
type WorkflowUsecase struct {
	sessions  SessionRepository
	exports   ExportRepository
	assembler *Assembler
	oracle    OracleConnector
	validator Validator
	logger    *zap.Logger
}

func NewUsecase(
	sessions SessionRepository,
	exports ExportRepository,
	oracle OracleConnector,
	validator Validator,
	logger *zap.Logger,
) *WorkflowUsecase {
	return &WorkflowUsecase{
		sessions:  sessions,
		exports:   exports,
		assembler: NewAssembler(oracle, exports),
		oracle:    oracle,
		validator: validator,
		logger:    logger,
	}
}

// CreateSession starts a workflow in Intake
func (uc *WorkflowUsecase) CreateSession(ctx context.Context) (*entity.WorkflowState, error) {
	controller := NewController(uuid.NewString(), uc.oracle, uc.validator)

	if err := uc.sessions.Create(ctx, controller.ID(), controller); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", controller.ID()))

	return controller.Snapshot(), nil
}

func (uc *WorkflowUsecase) GetSession(ctx context.Context, sessionID string) (*entity.WorkflowState, error) {
	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return controller.Snapshot(), nil
}

// DeleteSession drops the session and everything it accumulated
func (uc *WorkflowUsecase) DeleteSession(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	ctxzap.Info(ctx, "session deleted", zap.String("session_id", sessionID))
	return nil
}

func (uc *WorkflowUsecase) SubmitProject(ctx context.Context, sessionID string, project *entity.ProjectInput) (*entity.WorkflowState, error) {
	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return controller.Submit(ctx, project)
}

func (uc *WorkflowUsecase) UploadDocument(ctx context.Context, sessionID string, file *entity.UploadFile) (*entity.WorkflowState, error) {
	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return controller.UploadDocument(ctx, file)
}

func (uc *WorkflowUsecase) GenerateVisual(ctx context.Context, sessionID string, req *entity.GenerateVisualRequest) (*entity.WorkflowState, error) {
	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return controller.GenerateVisual(ctx, req)
}

func (uc *WorkflowUsecase) BackToUpload(ctx context.Context, sessionID string) (*entity.WorkflowState, error) {
	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return controller.BackToUpload(ctx)
}

// Export renders whatever the session holds right now. It is allowed in every stage.
func (uc *WorkflowUsecase) Export(ctx context.Context, sessionID string, kind entity.ExportKind) (*entity.ExportArtifact, error) {
	if err := uc.validator.ValidateExportKind(kind); err != nil {
		return nil, err
	}

	controller, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Like controller actions, a dispatched export runs to completion.
	snapshot := controller.Snapshot()
	ctx = logger.WithAction(context.WithoutCancel(ctx), "export_document")
	ctx = logger.WithSession(ctx, sessionID, snapshot.Stage)

	return uc.assembler.Export(ctx, snapshot, kind)
}

func (uc *WorkflowUsecase) GetExport(ctx context.Context, sessionID, exportID string) (*entity.ExportArtifact, error) {
	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return uc.exports.Get(ctx, sessionID, exportID)
}
