package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/permitcheck/internal/entity"
)

// ExportRepository holds rendered exports until they are downloaded or expire.
// Handles are never reused: Save refuses an ID that is already taken.
type ExportRepository struct {
	store *Store[*entity.ExportArtifact]
}

func NewExportRepository(ttl time.Duration) *ExportRepository {
	return &ExportRepository{
		store: newStore[*entity.ExportArtifact](ttl, cleanupInterval(ttl)),
	}
}

func (r *ExportRepository) Save(_ context.Context, artifact *entity.ExportArtifact) error {
	if err := r.store.add(artifact.ID, artifact); err != nil {
		return fmt.Errorf("save export %s: %w", artifact.ID, err)
	}
	return nil
}

// Get returns the artifact only if it belongs to the given session.
func (r *ExportRepository) Get(_ context.Context, sessionID, exportID string) (*entity.ExportArtifact, error) {
	artifact, ok := r.store.get(exportID)
	if !ok || artifact.SessionID != sessionID {
		return nil, fmt.Errorf("%w: %s", entity.ErrExportNotFound, exportID)
	}
	return artifact, nil
}
