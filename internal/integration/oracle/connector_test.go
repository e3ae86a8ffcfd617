package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/entity"
	pkghttp "github.com/futig/permitcheck/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.OracleConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Token:                 "secret",
			Url:                   srv.URL,
		},
		FeasibilityEndpoint: "/api/feasibility-check",
		NarrativeEndpoint:   "/api/generate-narrative",
		ReviewEndpoint:      "/api/review-permit",
		VisualEndpoint:      "/api/generate-visual",
		ExportEndpoint:      "/api/export-document",
		HealthEndpoint:      "/api/health",
	}
	return NewConnector(cfg, zap.NewNop())
}

func garage() *entity.ProjectInput {
	return &entity.ProjectInput{
		Description:   "24x30 garage",
		StructureType: entity.StructureGarage,
		PropertyType:  entity.PropertyResidential,
	}
}

func TestCheckFeasibility(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/feasibility-check", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var p entity.ProjectInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "24x30 garage", p.Description)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"verdict":"Not Feasible","confidence_score":70,"compliance_summary":"too tall",
			"issues":["height"],"recommendations":[],"required_permits":["Building Permit"]}`)
	})

	res, err := newTestConnector(t, mux).CheckFeasibility(context.Background(), garage())
	require.NoError(t, err)
	assert.Equal(t, entity.VerdictNotFeasible, res.Verdict)
	require.NotNil(t, res.ConfidenceScore)
	assert.Equal(t, 70, *res.ConfidenceScore)
	assert.Equal(t, []string{"height"}, res.Issues)
}

func TestCheckFeasibilityUnknownVerdict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/feasibility-check", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"verdict":"Maybe","compliance_summary":"?"}`)
	})

	res, err := newTestConnector(t, mux).CheckFeasibility(context.Background(), garage())
	require.NoError(t, err)
	assert.Equal(t, entity.VerdictUnknown, res.Verdict)
}

func TestGenerateNarrativeKeepsMetadata(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-narrative", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"narrative":"A detached garage.","word_count":3,"generated_at":"2024-01-01T00:00:00.123456"}`)
	})

	res, err := newTestConnector(t, mux).GenerateNarrative(context.Background(), garage())
	require.NoError(t, err)
	assert.Equal(t, "A detached garage.", res.Narrative)
	assert.Equal(t, 3, res.WordCount)
	assert.Equal(t, "2024-01-01T00:00:00.123456", res.GeneratedAt)
}

func TestRemoteCallErrorCarriesOperationAndDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-narrative", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"model overloaded"}`)
	})

	_, err := newTestConnector(t, mux).GenerateNarrative(context.Background(), garage())
	require.Error(t, err)

	var rce *entity.RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, entity.OpGenerateNarrative, rce.Operation)
	assert.Equal(t, "model overloaded", rce.Message)
	assert.True(t, errors.Is(err, entity.ErrRemoteCall))

	var httpErr *pkghttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestNetworkFailureIsRemoteCallError(t *testing.T) {
	conn := newTestConnector(t, http.NewServeMux())
	conn.connector = newBaseConnector(config.HTTPClientConfig{
		RequestTimeout: time.Second,
		ConnTimeout:    100 * time.Millisecond,
		Url:            "http://127.0.0.1:1",
	}, zap.NewNop())

	_, err := conn.CheckFeasibility(context.Background(), garage())

	var rce *entity.RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, entity.OpCheckFeasibility, rce.Operation)
	assert.Equal(t, "oracle is unreachable", rce.Message)
}

func TestReviewDocumentSendsMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review-permit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 draft", string(body))
		assert.Equal(t, "draft_v1.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		var p entity.ProjectInput
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("project_data")), &p))
		assert.Equal(t, entity.StructureGarage, p.StructureType)

		_, _ = io.WriteString(w, `{"rejection_risk":"Medium","issues":["no signature",{"category":"Zoning","description":"setback","severity":"Major"}],
			"fixes":[{"description":"sign it"}],"missing_documents":["site plan"],"compliance_check":{"signatures":"Fail"}}`)
	})

	file := &entity.UploadFile{
		Filename:    "draft v1.pdf",
		ContentType: "application/pdf",
		Size:        14,
		Content:     []byte("%PDF-1.4 draft"),
	}
	res, err := newTestConnector(t, mux).ReviewDocument(context.Background(), file, garage())
	require.NoError(t, err)

	assert.Equal(t, entity.RiskMedium, res.RejectionRisk)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, entity.ReviewIssue{Description: "no signature"}, res.Issues[0])
	assert.Equal(t, entity.DefaultIssueCategory, res.Issues[0].CategoryOrDefault())
	assert.Equal(t, entity.SeverityMajor, res.Issues[1].Severity)
	assert.Equal(t, entity.PriorityMedium, res.Fixes[0].PriorityOrDefault())
	assert.Equal(t, entity.ComplianceFail, res.ComplianceCheck["signatures"])
}

func TestReviewDocumentMissingRiskIsUnknown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/review-permit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"risk_summary":"no risk given","issues":[]}`)
	})

	file := &entity.UploadFile{Filename: "draft.pdf", ContentType: "application/pdf", Size: 4, Content: []byte("%PDF")}
	res, err := newTestConnector(t, mux).ReviewDocument(context.Background(), file, garage())
	require.NoError(t, err)
	assert.Equal(t, entity.RiskUnknown, res.RejectionRisk)
}

func TestGenerateVisualInBandError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-visual", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "site_plan", req["visual_type"])
		assert.Equal(t, "24x30 garage", req["description"])

		_, _ = io.WriteString(w, `{"image_url":null,"error":"Failed to generate visual: quota","prompt_used":"p","visual_type":"site_plan","status":"error"}`)
	})

	req := &entity.VisualRequest{ProjectInput: *garage(), VisualType: entity.VisualSitePlan, CustomPrompt: "show driveway"}
	res, err := newTestConnector(t, mux).GenerateVisual(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, "Failed to generate visual: quota", res.Error)
	assert.Equal(t, "show driveway", res.CustomPrompt)
}

func TestExportDocumentReturnsBinary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/export-document", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pdf", req["type"])
		assert.Contains(t, req, "project_data")
		assert.NotContains(t, req, "review_results")

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="permit-package.pdf"`)
		_, _ = w.Write([]byte("%PDF-binary"))
	})

	doc, err := newTestConnector(t, mux).ExportDocument(context.Background(), &entity.ExportRequest{
		Type:    entity.ExportPDF,
		Project: garage(),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("%PDF-binary"), doc.Content)
}

func TestExportDocumentEmptyBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/export-document", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := newTestConnector(t, mux).ExportDocument(context.Background(), &entity.ExportRequest{Type: entity.ExportDOCX})

	var rce *entity.RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, entity.OpExportDocument, rce.Operation)
}

func TestPing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	})

	assert.NoError(t, newTestConnector(t, mux).Ping(context.Background()))
}
