package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/logger"
	"github.com/futig/permitcheck/internal/pkg/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Controller drives one session through Intake, Assessment and DocumentReview.
// It is the only writer of the session state. A failed action leaves the stage where it was.
type Controller struct {
	// busy is held for the whole duration of a workflow-affecting action.
	busy sync.Mutex

	state     *state
	oracle    OracleConnector
	validator Validator
}

func NewController(sessionID string, oracle OracleConnector, validator Validator) *Controller {
	return newController(sessionID, oracle, validator, time.Now)
}

func newController(sessionID string, oracle OracleConnector, validator Validator, now func() time.Time) *Controller {
	return &Controller{
		state:     newState(sessionID, now),
		oracle:    oracle,
		validator: validator,
	}
}

func (c *Controller) ID() string {
	return c.state.sessionID
}

// Snapshot returns a copy of the current state that is safe to hand out.
func (c *Controller) Snapshot() *entity.WorkflowState {
	return c.state.snapshot()
}

// Submit stores the project and runs the feasibility check and narrative generation
// concurrently. The stage advances to Assessment only when both succeed.
// On failure the project stays stored so it can be resubmitted.
func (c *Controller) Submit(ctx context.Context, project *entity.ProjectInput) (*entity.WorkflowState, error) {
	ctx, release, err := c.begin(ctx, "submit_project")
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireStage(entity.StageIntake); err != nil {
		return nil, err
	}

	if project == nil {
		return nil, fmt.Errorf("%w: project_data", entity.ErrMissingField)
	}
	project = project.Clone()
	project.Normalize()
	if err := c.validator.ValidateProject(project); err != nil {
		return nil, err
	}

	c.state.setProject(project)

	feasibility, narrative, err := c.assess(ctx, project)
	if err != nil {
		ctxzap.Error(ctx, "assessment failed, staying in intake", zap.Error(err))
		return nil, err
	}

	c.state.commitAssessment(feasibility, narrative)
	c.transitioned(ctx, entity.StageIntake, entity.StageAssessment)

	return c.state.snapshot(), nil
}

// assess is a join over two independent calls. A failure of one never cancels the other.
func (c *Controller) assess(ctx context.Context, project *entity.ProjectInput) (
	*entity.FeasibilityResult, *entity.NarrativeResult, error,
) {
	var (
		feasibility    *entity.FeasibilityResult
		narrative      *entity.NarrativeResult
		feasibilityErr error
		narrativeErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		feasibility, feasibilityErr = c.oracle.CheckFeasibility(ctx, project)
		return feasibilityErr
	})
	g.Go(func() error {
		narrative, narrativeErr = c.oracle.GenerateNarrative(ctx, project)
		return narrativeErr
	})
	_ = g.Wait()

	if feasibilityErr != nil || narrativeErr != nil {
		return nil, nil, &entity.PartialJoinFailure{
			FeasibilityErr: feasibilityErr,
			NarrativeErr:   narrativeErr,
			Feasibility:    feasibility,
			Narrative:      narrative,
		}
	}

	return feasibility, narrative, nil
}

// UploadDocument validates the file before anything is sent, then asks for a review.
// A successful review moves the session to DocumentReview.
func (c *Controller) UploadDocument(ctx context.Context, file *entity.UploadFile) (*entity.WorkflowState, error) {
	ctx, release, err := c.begin(ctx, "upload_document")
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireStage(entity.StageAssessment); err != nil {
		return nil, err
	}

	if err := c.validator.ValidateUpload(file); err != nil {
		ctxzap.Info(ctx, "document rejected", zap.Error(err))
		return nil, err
	}

	review, err := c.oracle.ReviewDocument(ctx, file, c.state.currentProject())
	if err != nil {
		return nil, err
	}

	c.state.commitReview(review)
	c.transitioned(ctx, entity.StageAssessment, entity.StageDocumentReview)

	return c.state.snapshot(), nil
}

// GenerateVisual replaces the live visual. It can be repeated any number of times
// and never changes the stage. An in-band synthesis error is stored like any other result.
func (c *Controller) GenerateVisual(ctx context.Context, req *entity.GenerateVisualRequest) (*entity.WorkflowState, error) {
	ctx, release, err := c.begin(ctx, "generate_visual")
	if err != nil {
		return nil, err
	}
	defer release()

	if stage := c.state.currentStage(); stage < entity.StageAssessment {
		return nil, fmt.Errorf("%w: visuals need an assessed project, session is in %s", entity.ErrInvalidStage, stage)
	}

	if req == nil {
		return nil, fmt.Errorf("%w: visual_type", entity.ErrMissingField)
	}
	if err := c.validator.ValidateVisual(req); err != nil {
		return nil, err
	}

	visual, err := c.oracle.GenerateVisual(ctx, &entity.VisualRequest{
		ProjectInput: *c.state.currentProject(),
		VisualType:   req.VisualType,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		return nil, err
	}

	c.state.setVisual(visual)

	return c.state.snapshot(), nil
}

// BackToUpload returns to Assessment without any remote call. The review result is kept.
func (c *Controller) BackToUpload(ctx context.Context) (*entity.WorkflowState, error) {
	ctx, release, err := c.begin(ctx, "back_to_upload")
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.requireStage(entity.StageDocumentReview); err != nil {
		return nil, err
	}

	c.state.setStage(entity.StageAssessment)
	c.transitioned(ctx, entity.StageDocumentReview, entity.StageAssessment)

	return c.state.snapshot(), nil
}

// begin claims the session for one action. Remote calls made by the action
// are detached from the caller's cancellation: once dispatched they run to completion.
func (c *Controller) begin(ctx context.Context, action string) (context.Context, func(), error) {
	if !c.busy.TryLock() {
		return ctx, nil, fmt.Errorf("%w: session %s", entity.ErrActionInProgress, c.ID())
	}

	ctx = logger.WithAction(context.WithoutCancel(ctx), action)
	ctx = logger.WithSession(ctx, c.ID(), c.state.currentStage())

	return ctx, c.busy.Unlock, nil
}

func (c *Controller) requireStage(want entity.Stage) error {
	if stage := c.state.currentStage(); stage != want {
		return fmt.Errorf("%w: expected %s, session is in %s", entity.ErrInvalidStage, want, stage)
	}
	return nil
}

func (c *Controller) transitioned(ctx context.Context, from, to entity.Stage) {
	metrics.IncreaseStageTransitionMetric(from.String(), to.String())
	ctxzap.Info(ctx, "stage changed", zap.Stringer("from", from), zap.Stringer("to", to))
}
