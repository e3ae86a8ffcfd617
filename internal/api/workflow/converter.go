package workflow

import (
	"fmt"

	"github.com/futig/permitcheck/internal/entity"
)

func toCreateSessionResponse(state *entity.WorkflowState) *entity.CreateSessionResponse {
	return &entity.CreateSessionResponse{
		SessionID: state.SessionID,
		Stage:     state.Stage,
	}
}

func toExportDocumentResponse(artifact *entity.ExportArtifact) *entity.ExportDocumentResponse {
	return &entity.ExportDocumentResponse{
		ExportID:    artifact.ID,
		Type:        artifact.Kind,
		Filename:    artifact.Filename,
		Size:        artifact.Size,
		DownloadURL: fmt.Sprintf("/sessions/%s/exports/%s", artifact.SessionID, artifact.ID),
	}
}
