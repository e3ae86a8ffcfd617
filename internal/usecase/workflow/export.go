package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Assembler turns a state snapshot into an export request and keeps the rendered
// binary under a fresh handle. Exports are independent of each other.
type Assembler struct {
	oracle  OracleConnector
	exports ExportRepository
	now     func() time.Time
}

func NewAssembler(oracle OracleConnector, exports ExportRepository) *Assembler {
	return &Assembler{
		oracle:  oracle,
		exports: exports,
		now:     time.Now,
	}
}

// BuildExportRequest carries exactly the results present in the snapshot.
func BuildExportRequest(kind entity.ExportKind, snapshot *entity.WorkflowState) *entity.ExportRequest {
	return &entity.ExportRequest{
		Type:        kind,
		Project:     snapshot.Project,
		Feasibility: snapshot.Feasibility,
		Narrative:   snapshot.Narrative,
		Review:      snapshot.Review,
		Visual:      snapshot.Visual,
	}
}

// Export renders the snapshot. On failure nothing is stored and earlier exports are untouched.
func (a *Assembler) Export(ctx context.Context, snapshot *entity.WorkflowState, kind entity.ExportKind) (*entity.ExportArtifact, error) {
	doc, err := a.oracle.ExportDocument(ctx, BuildExportRequest(kind, snapshot))
	if err != nil {
		return nil, err
	}

	artifact := &entity.ExportArtifact{
		ID:          uuid.NewString(),
		SessionID:   snapshot.SessionID,
		Kind:        kind,
		Filename:    kind.Filename(),
		ContentType: doc.ContentType,
		Size:        len(doc.Content),
		CreatedAt:   a.now().UTC(),
		Content:     doc.Content,
	}
	if artifact.ContentType == "" {
		artifact.ContentType = kind.ContentType()
	}

	if err := a.exports.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}

	ctxzap.Info(ctx, "export ready",
		zap.String("export_id", artifact.ID),
		zap.String("type", string(kind)),
		zap.Int("size", artifact.Size),
	)

	return artifact, nil
}
