package workflow

import (
	"sync"
	"time"

	"github.com/futig/permitcheck/internal/entity"
)

// state is the accumulated workflow state of one session.
// It is mutated only through the commands below, all of which are issued by Controller.
// Readers get deep-copied snapshots.
type state struct {
	mu  sync.RWMutex
	now func() time.Time

	sessionID   string
	stage       entity.Stage
	project     *entity.ProjectInput
	feasibility *entity.FeasibilityResult
	narrative   *entity.NarrativeResult
	review      *entity.ReviewResult
	visual      *entity.VisualResult
	updatedAt   time.Time
}

func newState(sessionID string, now func() time.Time) *state {
	return &state{
		now:       now,
		sessionID: sessionID,
		stage:     entity.StageIntake,
		updatedAt: now(),
	}
}

func (s *state) snapshot() *entity.WorkflowState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &entity.WorkflowState{
		SessionID:   s.sessionID,
		Stage:       s.stage,
		Project:     s.project.Clone(),
		Feasibility: s.feasibility.Clone(),
		Narrative:   s.narrative.Clone(),
		Review:      s.review.Clone(),
		Visual:      s.visual.Clone(),
		UpdatedAt:   s.updatedAt,
	}
}

func (s *state) currentStage() entity.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

func (s *state) currentProject() *entity.ProjectInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Clone()
}

// setProject replaces the project wholesale. The stage does not change.
func (s *state) setProject(project *entity.ProjectInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project.Clone()
	s.updatedAt = s.now()
}

// commitAssessment stores both assessment results and flips the stage in one step.
func (s *state) commitAssessment(feasibility *entity.FeasibilityResult, narrative *entity.NarrativeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feasibility = feasibility.Clone()
	s.narrative = narrative.Clone()
	s.stage = entity.StageAssessment
	s.updatedAt = s.now()
}

func (s *state) commitReview(review *entity.ReviewResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.review = review.Clone()
	s.stage = entity.StageDocumentReview
	s.updatedAt = s.now()
}

// setVisual replaces the live visual result.
func (s *state) setVisual(visual *entity.VisualResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visual = visual.Clone()
	s.updatedAt = s.now()
}

func (s *state) setStage(stage entity.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
	s.updatedAt = s.now()
}
