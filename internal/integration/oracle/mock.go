package oracle

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/formatter"
	"github.com/futig/permitcheck/internal/pkg/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type districtRules struct {
	district  string
	maxHeight float64
	allowed   []entity.StructureType
}

var mockDistricts = map[entity.PropertyType]districtRules{
	entity.PropertyResidential: {
		district:  "R-1",
		maxHeight: 35,
		allowed: []entity.StructureType{
			entity.StructureGarage, entity.StructureShed, entity.StructureDeck, entity.StructureAddition,
			entity.StructureFence, entity.StructurePool, entity.StructureRenovation, entity.StructureWorkshop,
		},
	},
	entity.PropertyCommercial: {
		district:  "C-1",
		maxHeight: 45,
		allowed: []entity.StructureType{
			entity.StructureNewConstruction, entity.StructureAddition, entity.StructureRenovation,
			entity.StructureFence,
		},
	},
	entity.PropertyIndustrial: {
		district:  "I-1",
		maxHeight: 60,
		allowed: []entity.StructureType{
			entity.StructureNewConstruction, entity.StructureAddition, entity.StructureWorkshop,
			entity.StructureFence,
		},
	},
}

var visualPromptPrefixes = map[entity.VisualType]string{
	entity.Visual3DRendering: "Create a realistic 3D architectural rendering showing",
	entity.VisualSitePlan:    "Create a top-down site plan diagram showing the layout of",
	entity.VisualElevation:   "Create an architectural elevation view showing the side profile of",
	entity.VisualFloorPlan:   "Create a detailed floor plan showing the interior layout of",
}

// MockConnector answers every oracle operation locally and deterministically.
// Exports are rendered with the local formatters.
type MockConnector struct {
	logger     *zap.Logger
	formatters *formatter.Factory
	now        func() time.Time
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:     logger,
		formatters: formatter.NewFactory(),
		now:        time.Now,
	}
}

// CheckFeasibility applies a small table of district rules to the project.
func (m *MockConnector) CheckFeasibility(ctx context.Context, project *entity.ProjectInput) (*entity.FeasibilityResult, error) {
	ctxzap.Info(ctx, "[MOCK] checking feasibility")

	rules, ok := mockDistricts[project.PropertyType]
	if !ok {
		rules = mockDistricts[entity.PropertyResidential]
	}

	res := &entity.FeasibilityResult{
		Verdict: entity.VerdictFeasible,
		ZoningInfo: &entity.ZoningInfo{
			District:       rules.district,
			Classification: string(project.PropertyType),
			Restrictions: []string{
				fmt.Sprintf("Maximum height %.0f ft", rules.maxHeight),
				"Minimum side setback 8 ft",
			},
		},
		Issues:          []string{},
		Recommendations: []string{"Confirm setbacks with a stamped site plan"},
		RequiredPermits: []string{"Building Permit", "Zoning Permit"},
	}

	if !slices.Contains(rules.allowed, project.StructureType) {
		res.Verdict = entity.VerdictNotFeasible
		res.Issues = append(res.Issues,
			fmt.Sprintf("Structure type %s is not permitted in district %s", project.StructureType, rules.district))
		res.Recommendations = append(res.Recommendations, "Apply for a rezoning or choose a permitted structure type")
	}

	if h := project.Dimensions.Height; h != nil && *h > rules.maxHeight && res.Verdict == entity.VerdictFeasible {
		res.Verdict = entity.VerdictNeedsVariance
		res.Issues = append(res.Issues,
			fmt.Sprintf("Height %.1f ft exceeds the %.0f ft limit", *h, rules.maxHeight))
		res.Recommendations = append(res.Recommendations, "Request a height variance from the zoning board")
	}

	if project.StructureType == entity.StructureGarage || project.StructureType == entity.StructureWorkshop {
		res.RequiredPermits = append(res.RequiredPermits, "Electrical Permit")
	}

	score := 90 - 25*len(res.Issues)
	res.ConfidenceScore = &score

	switch res.Verdict {
	case entity.VerdictFeasible:
		res.ComplianceSummary = fmt.Sprintf("The %s appears to comply with %s zoning requirements.", project.StructureType, rules.district)
	case entity.VerdictNeedsVariance:
		res.ComplianceSummary = fmt.Sprintf("The %s is allowed in %s but exceeds a dimensional limit.", project.StructureType, rules.district)
	default:
		res.ComplianceSummary = fmt.Sprintf("The %s is not an allowed use in %s.", project.StructureType, rules.district)
	}

	metrics.IncreaseOracleCallsMetric(string(entity.OpCheckFeasibility), metrics.OutcomeSuccess)
	ctxzap.Info(ctx, "[MOCK] feasibility checked", zap.String("verdict", string(res.Verdict)))
	return res, nil
}

// GenerateNarrative writes a short scope of work from the project fields.
func (m *MockConnector) GenerateNarrative(ctx context.Context, project *entity.ProjectInput) (*entity.NarrativeResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating narrative")

	var b strings.Builder
	fmt.Fprintf(&b, "Project overview: %s. ", project.Description)
	fmt.Fprintf(&b, "The work consists of a %s on a %s property", strings.ReplaceAll(string(project.StructureType), "_", " "), project.PropertyType)
	if project.Address != "" {
		fmt.Fprintf(&b, " located at %s", project.Address)
	}
	b.WriteString(". ")

	d := project.Dimensions
	fmt.Fprintf(&b, "Overall dimensions are %s by %s with a height of %s. ", feet(d.Length), feet(d.Width), feet(d.Height))

	mat := project.Materials
	fmt.Fprintf(&b, "Exterior finish: %s; roofing: %s; foundation: %s. ",
		orTBD(mat.Exterior), orTBD(mat.Roofing), orTBD(mat.Foundation))
	if project.LocationOnLot != "" {
		fmt.Fprintf(&b, "The structure will be placed %s. ", project.LocationOnLot)
	}
	b.WriteString("All work will comply with the applicable building and zoning codes.")

	narrative := b.String()
	generatedAt := m.now().UTC().Format(time.RFC3339)

	metrics.IncreaseOracleCallsMetric(string(entity.OpGenerateNarrative), metrics.OutcomeSuccess)
	ctxzap.Info(ctx, "[MOCK] narrative generated")
	return &entity.NarrativeResult{
		Narrative:   narrative,
		WordCount:   len(strings.Fields(narrative)),
		GeneratedAt: generatedAt,
	}, nil
}

// ReviewDocument inspects only the file metadata.
func (m *MockConnector) ReviewDocument(ctx context.Context, file *entity.UploadFile, project *entity.ProjectInput) (*entity.ReviewResult, error) {
	ctxzap.Info(ctx, "[MOCK] reviewing document", zap.String("filename", file.Filename))

	score := 80
	res := &entity.ReviewResult{
		RejectionRisk:     entity.RiskLow,
		ConfidenceScore:   &score,
		RiskSummary:       "The application is mostly complete.",
		OverallAssessment: fmt.Sprintf("Draft application for %s reviewed.", project.Description),
		Issues:            []entity.ReviewIssue{},
		Fixes:             []entity.ReviewFix{},
		MissingDocuments:  []string{},
		ComplianceCheck: map[string]entity.ComplianceStatus{
			"signatures":             entity.CompliancePass,
			"site_plan":              entity.CompliancePass,
			"zoning_compliance":      entity.CompliancePass,
			"structural_details":     entity.CompliancePass,
			"narrative_completeness": entity.CompliancePass,
		},
	}

	if project.Address == "" && project.ParcelID == "" {
		res.RejectionRisk = entity.RiskMedium
		res.Issues = append(res.Issues, entity.ReviewIssue{
			Category:    "Site Information",
			Description: "Neither a property address nor a parcel ID is given",
			Severity:    entity.SeverityMajor,
		})
		res.Fixes = append(res.Fixes, entity.ReviewFix{
			Category:    "Site Information",
			Description: "Add the property address or parcel ID to the application",
			Priority:    entity.PriorityHigh,
		})
		res.MissingDocuments = append(res.MissingDocuments, "Site plan with property lines")
		res.ComplianceCheck["site_plan"] = entity.ComplianceWarning
	}

	if project.Dimensions.Height == nil {
		res.Issues = append(res.Issues, entity.ReviewIssue{Description: "Structure height is not stated"})
		res.Fixes = append(res.Fixes, entity.ReviewFix{Description: "State the overall structure height"})
		res.ComplianceCheck["structural_details"] = entity.ComplianceWarning
	}

	metrics.IncreaseOracleCallsMetric(string(entity.OpReviewDocument), metrics.OutcomeSuccess)
	ctxzap.Info(ctx, "[MOCK] document reviewed", zap.String("rejection_risk", string(res.RejectionRisk)))
	return res, nil
}

// GenerateVisual returns a placeholder image reference and the prompt it would have used.
func (m *MockConnector) GenerateVisual(ctx context.Context, req *entity.VisualRequest) (*entity.VisualResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating visual", zap.String("visual_type", string(req.VisualType)))

	prefix, ok := visualPromptPrefixes[req.VisualType]
	if !ok {
		prefix = "Create a diagram of"
	}

	details := fmt.Sprintf("%s measuring %s by %s", req.StructureType, feet(req.Dimensions.Length), feet(req.Dimensions.Width))
	if req.Materials.Exterior != "" || req.Materials.Roofing != "" {
		details += fmt.Sprintf(" with %s exterior and %s roofing",
			orDefault(req.Materials.Exterior, "standard"), orDefault(req.Materials.Roofing, "asphalt shingle"))
	}
	custom := ""
	if req.CustomPrompt != "" {
		custom = ". " + req.CustomPrompt
	}
	prompt := fmt.Sprintf("%s %s%s. Architectural style, clean lines, professional presentation suitable for permit documentation.",
		prefix, details, custom)

	metrics.IncreaseOracleCallsMetric(string(entity.OpGenerateVisual), metrics.OutcomeSuccess)
	return &entity.VisualResult{
		VisualType:   req.VisualType,
		CustomPrompt: req.CustomPrompt,
		ImageURL:     fmt.Sprintf("https://placehold.co/1024x1024?text=%s", req.VisualType),
		PromptUsed:   prompt,
		Status:       entity.VisualStatusSuccess,
	}, nil
}

// ExportDocument renders the package locally.
func (m *MockConnector) ExportDocument(ctx context.Context, req *entity.ExportRequest) (*entity.Document, error) {
	ctxzap.Info(ctx, "[MOCK] exporting document", zap.String("type", string(req.Type)))

	f, err := m.formatters.Create(req.Type)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(req)
	if err != nil {
		metrics.IncreaseOracleCallsMetric(string(entity.OpExportDocument), metrics.OutcomeFailure)
		return nil, &entity.RemoteCallError{
			Operation: entity.OpExportDocument,
			Message:   "document rendering failed",
			Err:       err,
		}
	}

	metrics.IncreaseOracleCallsMetric(string(entity.OpExportDocument), metrics.OutcomeSuccess)
	return &entity.Document{
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}

func (m *MockConnector) Ping(context.Context) error {
	return nil
}

func feet(v *float64) string {
	if v == nil {
		return "TBD"
	}
	return fmt.Sprintf("%g ft", *v)
}

func orTBD(s string) string {
	return orDefault(s, "TBD")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
