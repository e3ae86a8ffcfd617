package entity

import (
	"fmt"
	"time"
)

// Stage is the coarse phase of a workflow. Stages are ordered.
type Stage int

const (
	StageIntake Stage = iota + 1
	StageAssessment
	StageDocumentReview
)

func (s Stage) String() string {
	switch s {
	case StageIntake:
		return "intake"
	case StageAssessment:
		return "assessment"
	case StageDocumentReview:
		return "document_review"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	switch string(text) {
	case "intake":
		*s = StageIntake
	case "assessment":
		*s = StageAssessment
	case "document_review":
		*s = StageDocumentReview
	default:
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidParameter, string(text))
	}
	return nil
}

// WorkflowState is an immutable snapshot of one session's accumulated state.
// Absent results are nil.
type WorkflowState struct {
	SessionID   string             `json:"session_id"`
	Stage       Stage              `json:"stage"`
	Project     *ProjectInput      `json:"project_data,omitempty"`
	Feasibility *FeasibilityResult `json:"feasibility_results,omitempty"`
	Narrative   *NarrativeResult   `json:"narrative_results,omitempty"`
	Review      *ReviewResult      `json:"review_results,omitempty"`
	Visual      *VisualResult      `json:"visual_results,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type ExportKind string

const (
	ExportPDF       ExportKind = "pdf"
	ExportDOCX      ExportKind = "docx"
	ExportChecklist ExportKind = "checklist"
)

func (k ExportKind) IsValid() bool {
	switch k {
	case ExportPDF, ExportDOCX, ExportChecklist:
		return true
	default:
		return false
	}
}

// Filename is the name under which an export is offered for download.
func (k ExportKind) Filename() string {
	return "permit-package." + string(k)
}

func (k ExportKind) ContentType() string {
	if k == ExportDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// ExportRequest is the aggregated state sent to the export operation.
// Only populated results are serialized.
type ExportRequest struct {
	Type        ExportKind         `json:"type"`
	Project     *ProjectInput      `json:"project_data,omitempty"`
	Feasibility *FeasibilityResult `json:"feasibility_results,omitempty"`
	Narrative   *NarrativeResult   `json:"narrative_results,omitempty"`
	Review      *ReviewResult      `json:"review_results,omitempty"`
	Visual      *VisualResult      `json:"visual_results,omitempty"`
}

// VisualRequest flattens the project fields next to the visual parameters.
type VisualRequest struct {
	ProjectInput
	VisualType   VisualType `json:"visual_type"`
	CustomPrompt string     `json:"custom_prompt,omitempty"`
}

// UploadFile is a candidate document for review.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// ExportArtifact is a rendered export held for download.
type ExportArtifact struct {
	ID          string     `json:"export_id"`
	SessionID   string     `json:"session_id"`
	Kind        ExportKind `json:"type"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Size        int        `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
	Content     []byte     `json:"-"`
}

// Document is the binary returned by the export operation.
type Document struct {
	ContentType string
	Content     []byte
}
