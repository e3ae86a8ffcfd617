package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidStage     = errors.New("action not allowed in current stage")
	ErrActionInProgress = errors.New("another action is in progress")

	// Export errors
	ErrExportNotFound    = errors.New("export not found")
	ErrInvalidExportKind = errors.New("invalid export type")

	// Visual errors
	ErrInvalidVisualType = errors.New("invalid visual type")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file kind")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Remote errors
	ErrRemoteCall = errors.New("remote call failed")
)

// ValidationError is raised before any network effort is spent.
type ValidationError struct {
	Constraint string
	Message    string
	Err        error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Operation names the remote capability a call was made against.
type Operation string

const (
	OpCheckFeasibility  Operation = "checkFeasibility"
	OpGenerateNarrative Operation = "generateNarrative"
	OpReviewDocument    Operation = "reviewDocument"
	OpGenerateVisual    Operation = "generateVisual"
	OpExportDocument    Operation = "exportDocument"
)

// RemoteCallError reports a transport failure or a non-success response.
// Business outcomes such as a "Not Feasible" verdict are never reported this way.
type RemoteCallError struct {
	Operation Operation
	Message   string
	Err       error
}

func (e *RemoteCallError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Operation)
}

func (e *RemoteCallError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemoteCall}
	}
	return []error{ErrRemoteCall, e.Err}
}

// PartialJoinFailure reports that at least one of the assessment calls failed.
// Results of the call that succeeded are kept for diagnostics only.
type PartialJoinFailure struct {
	FeasibilityErr error
	NarrativeErr   error

	Feasibility *FeasibilityResult
	Narrative   *NarrativeResult
}

func (e *PartialJoinFailure) Error() string {
	switch {
	case e.FeasibilityErr != nil && e.NarrativeErr != nil:
		return fmt.Sprintf("assessment failed: %v; %v", e.FeasibilityErr, e.NarrativeErr)
	case e.FeasibilityErr != nil:
		return fmt.Sprintf("assessment failed: %v", e.FeasibilityErr)
	default:
		return fmt.Sprintf("assessment failed: %v", e.NarrativeErr)
	}
}

func (e *PartialJoinFailure) Unwrap() []error {
	var errs []error
	if e.FeasibilityErr != nil {
		errs = append(errs, e.FeasibilityErr)
	}
	if e.NarrativeErr != nil {
		errs = append(errs, e.NarrativeErr)
	}
	return errs
}

// IsValidationError returns true if the error is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemoteCallError returns true if the error is or wraps a RemoteCallError.
func IsRemoteCallError(err error) bool {
	var re *RemoteCallError
	return errors.As(err, &re)
}
