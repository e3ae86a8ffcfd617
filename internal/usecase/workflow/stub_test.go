package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/validator"
	"github.com/futig/permitcheck/internal/repository"
)

// stubOracle records every call and answers with canned results or errors.
type stubOracle struct {
	mu    sync.Mutex
	calls map[entity.Operation]int

	lastVisual *entity.VisualRequest
	lastExport *entity.ExportRequest

	feasibility    *entity.FeasibilityResult
	feasibilityErr error
	narrative      *entity.NarrativeResult
	narrativeErr   error
	review         *entity.ReviewResult
	reviewErr      error
	visualErr      error
	visualFailure  string
	exportErr      error
	// exportDelay makes the export take that long unless its context is cancelled first.
	exportDelay time.Duration

	// hold, when set, blocks the assessment calls until it is closed.
	hold    chan struct{}
	started chan entity.Operation
}

func newStubOracle() *stubOracle {
	score := 85
	return &stubOracle{
		calls: make(map[entity.Operation]int),
		feasibility: &entity.FeasibilityResult{
			Verdict:           entity.VerdictFeasible,
			ConfidenceScore:   &score,
			ComplianceSummary: "complies with R-1",
			Issues:            []string{},
			Recommendations:   []string{"keep 8 ft side setback"},
			RequiredPermits:   []string{"Building Permit"},
		},
		narrative: &entity.NarrativeResult{Narrative: "Construct a 24 by 30 foot detached garage."},
		review: &entity.ReviewResult{
			RejectionRisk:    entity.RiskMedium,
			Issues:           []entity.ReviewIssue{{Description: "missing signature"}},
			Fixes:            []entity.ReviewFix{{Category: "Signatures", Description: "sign page 2", Priority: entity.PriorityHigh}},
			MissingDocuments: []string{"site plan"},
			ComplianceCheck:  map[string]entity.ComplianceStatus{"signatures": entity.ComplianceFail},
		},
	}
}

func (s *stubOracle) record(op entity.Operation) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *stubOracle) count(op entity.Operation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubOracle) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *stubOracle) wait(op entity.Operation) {
	if s.started != nil {
		s.started <- op
	}
	if s.hold != nil {
		<-s.hold
	}
}

func (s *stubOracle) CheckFeasibility(_ context.Context, _ *entity.ProjectInput) (*entity.FeasibilityResult, error) {
	s.record(entity.OpCheckFeasibility)
	s.wait(entity.OpCheckFeasibility)
	if s.feasibilityErr != nil {
		return nil, s.feasibilityErr
	}
	return s.feasibility.Clone(), nil
}

func (s *stubOracle) GenerateNarrative(_ context.Context, _ *entity.ProjectInput) (*entity.NarrativeResult, error) {
	s.record(entity.OpGenerateNarrative)
	s.wait(entity.OpGenerateNarrative)
	if s.narrativeErr != nil {
		return nil, s.narrativeErr
	}
	return s.narrative.Clone(), nil
}

func (s *stubOracle) ReviewDocument(_ context.Context, _ *entity.UploadFile, _ *entity.ProjectInput) (*entity.ReviewResult, error) {
	s.record(entity.OpReviewDocument)
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}
	return s.review.Clone(), nil
}

func (s *stubOracle) GenerateVisual(_ context.Context, req *entity.VisualRequest) (*entity.VisualResult, error) {
	s.record(entity.OpGenerateVisual)
	s.mu.Lock()
	s.lastVisual = req
	s.mu.Unlock()
	if s.visualErr != nil {
		return nil, s.visualErr
	}
	if s.visualFailure != "" {
		return &entity.VisualResult{
			VisualType: req.VisualType,
			Error:      s.visualFailure,
			PromptUsed: "prompt for " + string(req.VisualType),
			Status:     entity.VisualStatusError,
		}, nil
	}
	return &entity.VisualResult{
		VisualType:   req.VisualType,
		CustomPrompt: req.CustomPrompt,
		ImageURL:     "https://images.test/" + string(req.VisualType) + ".png",
		PromptUsed:   "prompt for " + string(req.VisualType),
		Status:       entity.VisualStatusSuccess,
	}, nil
}

func (s *stubOracle) ExportDocument(ctx context.Context, req *entity.ExportRequest) (*entity.Document, error) {
	s.record(entity.OpExportDocument)
	if s.exportDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.exportDelay):
		}
	}
	s.mu.Lock()
	s.lastExport = req
	s.mu.Unlock()
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	return &entity.Document{ContentType: req.Type.ContentType(), Content: []byte("doc:" + string(req.Type))}, nil
}

func testValidator() *validator.Validator {
	return validator.NewValidator(config.FileUploadConfig{MaxFileSize: 10 << 20, MaxUploadSize: 12 << 20})
}

func newTestController(oracle *stubOracle) *Controller {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return newController("session-1", oracle, testValidator(), func() time.Time { return fixed })
}

func newTestUsecase(oracle *stubOracle) *WorkflowUsecase {
	return NewUsecase(
		repository.NewSessionRepository[*Controller](time.Hour),
		repository.NewExportRepository(time.Hour),
		oracle,
		testValidator(),
		nil,
	)
}

func garageProject() *entity.ProjectInput {
	return &entity.ProjectInput{
		Description:   "24x30 garage",
		StructureType: entity.StructureGarage,
		PropertyType:  entity.PropertyResidential,
	}
}

func remoteErr(op entity.Operation) error {
	return &entity.RemoteCallError{Operation: op, Message: "oracle responded with status 500"}
}
