package entity

import (
	"encoding/json"
	"maps"
	"slices"
)

type Verdict string

const (
	VerdictFeasible      Verdict = "Feasible"
	VerdictNeedsVariance Verdict = "Needs Variance"
	VerdictNotFeasible   Verdict = "Not Feasible"
	VerdictUnknown       Verdict = "Unknown"
)

// UnmarshalText maps anything the oracle sends outside the known set to VerdictUnknown.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch Verdict(text) {
	case VerdictFeasible, VerdictNeedsVariance, VerdictNotFeasible:
		*v = Verdict(text)
	default:
		*v = VerdictUnknown
	}
	return nil
}

type RejectionRisk string

const (
	RiskLow     RejectionRisk = "Low"
	RiskMedium  RejectionRisk = "Medium"
	RiskHigh    RejectionRisk = "High"
	RiskUnknown RejectionRisk = "Unknown"
)

func (r *RejectionRisk) UnmarshalText(text []byte) error {
	switch RejectionRisk(text) {
	case RiskLow, RiskMedium, RiskHigh:
		*r = RejectionRisk(text)
	default:
		*r = RiskUnknown
	}
	return nil
}

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityMajor    Severity = "Major"
	SeverityMinor    Severity = "Minor"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type ComplianceStatus string

const (
	CompliancePass    ComplianceStatus = "Pass"
	ComplianceFail    ComplianceStatus = "Fail"
	ComplianceWarning ComplianceStatus = "Warning"
)

const (
	DefaultIssueCategory = "General Issue"
	DefaultFixCategory   = "Recommendation"
	DefaultIssueSeverity = SeverityMinor
	DefaultFixPriority   = PriorityMedium
)

type ZoningInfo struct {
	District       string   `json:"district"`
	Classification string   `json:"classification"`
	Restrictions   []string `json:"restrictions"`
}

type FeasibilityResult struct {
	Verdict           Verdict     `json:"verdict"`
	ConfidenceScore   *int        `json:"confidence_score,omitempty"`
	ComplianceSummary string      `json:"compliance_summary"`
	ZoningInfo        *ZoningInfo `json:"zoning_info,omitempty"`
	Issues            []string    `json:"issues"`
	Recommendations   []string    `json:"recommendations"`
	RequiredPermits   []string    `json:"required_permits"`
}

func (f *FeasibilityResult) Clone() *FeasibilityResult {
	if f == nil {
		return nil
	}
	c := *f
	c.ConfidenceScore = cloneInt(f.ConfidenceScore)
	if f.ZoningInfo != nil {
		z := *f.ZoningInfo
		z.Restrictions = slices.Clone(f.ZoningInfo.Restrictions)
		c.ZoningInfo = &z
	}
	c.Issues = slices.Clone(f.Issues)
	c.Recommendations = slices.Clone(f.Recommendations)
	c.RequiredPermits = slices.Clone(f.RequiredPermits)
	return &c
}

// GeneratedAt is kept as the oracle sent it; its format is not guaranteed.
type NarrativeResult struct {
	Narrative   string `json:"narrative"`
	WordCount   int    `json:"word_count,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

func (n *NarrativeResult) Clone() *NarrativeResult {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

// ReviewIssue may arrive from the oracle either as an object or as a bare description string.
type ReviewIssue struct {
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity,omitempty"`
}

func (i *ReviewIssue) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*i = ReviewIssue{Description: text}
		return nil
	}

	type plain ReviewIssue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = ReviewIssue(p)
	return nil
}

func (i ReviewIssue) CategoryOrDefault() string {
	if i.Category == "" {
		return DefaultIssueCategory
	}
	return i.Category
}

func (i ReviewIssue) SeverityOrDefault() Severity {
	switch i.Severity {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return i.Severity
	default:
		return DefaultIssueSeverity
	}
}

// ReviewFix follows the same string-or-object convention as ReviewIssue.
type ReviewFix struct {
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
}

func (f *ReviewFix) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = ReviewFix{Description: text}
		return nil
	}

	type plain ReviewFix
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = ReviewFix(p)
	return nil
}

func (f ReviewFix) CategoryOrDefault() string {
	if f.Category == "" {
		return DefaultFixCategory
	}
	return f.Category
}

func (f ReviewFix) PriorityOrDefault() Priority {
	switch f.Priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return f.Priority
	default:
		return DefaultFixPriority
	}
}

type ReviewResult struct {
	RejectionRisk     RejectionRisk               `json:"rejection_risk"`
	ConfidenceScore   *int                        `json:"confidence_score,omitempty"`
	RiskSummary       string                      `json:"risk_summary,omitempty"`
	OverallAssessment string                      `json:"overall_assessment,omitempty"`
	Issues            []ReviewIssue               `json:"issues"`
	Fixes             []ReviewFix                 `json:"fixes"`
	MissingDocuments  []string                    `json:"missing_documents"`
	ComplianceCheck   map[string]ComplianceStatus `json:"compliance_check"`
}

func (r *ReviewResult) Clone() *ReviewResult {
	if r == nil {
		return nil
	}
	c := *r
	c.ConfidenceScore = cloneInt(r.ConfidenceScore)
	c.Issues = slices.Clone(r.Issues)
	c.Fixes = slices.Clone(r.Fixes)
	c.MissingDocuments = slices.Clone(r.MissingDocuments)
	c.ComplianceCheck = maps.Clone(r.ComplianceCheck)
	return &c
}

type VisualType string

const (
	Visual3DRendering VisualType = "3d_rendering"
	VisualSitePlan    VisualType = "site_plan"
	VisualElevation   VisualType = "elevation"
	VisualFloorPlan   VisualType = "floor_plan"
)

func (v VisualType) IsValid() bool {
	switch v {
	case Visual3DRendering, VisualSitePlan, VisualElevation, VisualFloorPlan:
		return true
	default:
		return false
	}
}

type VisualStatus string

const (
	VisualStatusSuccess VisualStatus = "success"
	VisualStatusError   VisualStatus = "error"
)

// VisualResult with Status == VisualStatusError is still a successful call: the oracle
// reports image synthesis failures in-band and the workflow keeps them as informational.
type VisualResult struct {
	VisualType   VisualType   `json:"visual_type"`
	CustomPrompt string       `json:"custom_prompt,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	Error        string       `json:"error,omitempty"`
	PromptUsed   string       `json:"prompt_used"`
	Status       VisualStatus `json:"status"`
}

func (v *VisualResult) Failed() bool {
	return v.Status == VisualStatusError || (v.ImageURL == "" && v.Error != "")
}

func (v *VisualResult) Clone() *VisualResult {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
