package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/metrics"
	"github.com/futig/permitcheck/internal/pkg/validator"
	pkghttp "github.com/futig/permitcheck/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the remote oracle. Every call is a single exchange and is never retried.
type Connector struct {
	config    config.OracleConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.OracleConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: newBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

func newBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkghttp.Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkghttp.NewConnector(
		connCfg,
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthToken(cfg.Token),
	)
}

// CheckFeasibility scores the project against zoning rules.
// A "Not Feasible" verdict is a normal result.
func (c *Connector) CheckFeasibility(ctx context.Context, project *entity.ProjectInput) (*entity.FeasibilityResult, error) {
	ctxzap.Info(ctx, "checking feasibility via oracle")

	var resp entity.FeasibilityResult
	err := c.call(ctx, entity.OpCheckFeasibility, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.FeasibilityEndpoint, project, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp.Verdict == "" {
		resp.Verdict = entity.VerdictUnknown
	}

	ctxzap.Info(ctx, "feasibility checked", zap.String("verdict", string(resp.Verdict)))

	return &resp, nil
}

// GenerateNarrative writes the construction narrative used by exports.
func (c *Connector) GenerateNarrative(ctx context.Context, project *entity.ProjectInput) (*entity.NarrativeResult, error) {
	ctxzap.Info(ctx, "generating narrative via oracle")

	var resp entity.NarrativeResult
	err := c.call(ctx, entity.OpGenerateNarrative, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.NarrativeEndpoint, project, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp.Narrative == "" {
		return nil, c.fail(ctx, entity.OpGenerateNarrative, "empty narrative in response", nil)
	}

	ctxzap.Info(ctx, "narrative generated", zap.Int("narrative_length", len(resp.Narrative)))

	return &resp, nil
}

// ReviewDocument sends the draft application as multipart form data:
// the file under "document" and the project as JSON under "project_data".
func (c *Connector) ReviewDocument(ctx context.Context, file *entity.UploadFile, project *entity.ProjectInput) (*entity.ReviewResult, error) {
	ctxzap.Info(ctx, "reviewing document via oracle",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
	)

	projectJSON, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("marshal project data: %w", err)
	}

	prepare := func(w *multipart.Writer) error {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="document"; filename="%s"`, validator.SanitizeFilename(file.Filename)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Content); err != nil {
			return err
		}
		return w.WriteField("project_data", string(projectJSON))
	}

	var resp entity.ReviewResult
	err = c.call(ctx, entity.OpReviewDocument, func() error {
		return c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.ReviewEndpoint, prepare, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp.RejectionRisk == "" {
		resp.RejectionRisk = entity.RiskUnknown
	}

	ctxzap.Info(ctx, "document reviewed",
		zap.String("rejection_risk", string(resp.RejectionRisk)),
		zap.Int("issues", len(resp.Issues)),
	)

	return &resp, nil
}

// GenerateVisual requests an image for the project. An image synthesis failure
// comes back in-band with status "error" and is returned as a result, not an error.
func (c *Connector) GenerateVisual(ctx context.Context, req *entity.VisualRequest) (*entity.VisualResult, error) {
	ctxzap.Info(ctx, "generating visual via oracle", zap.String("visual_type", string(req.VisualType)))

	var resp entity.VisualResult
	err := c.call(ctx, entity.OpGenerateVisual, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.VisualEndpoint, req, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp.VisualType == "" {
		resp.VisualType = req.VisualType
	}
	if resp.CustomPrompt == "" {
		resp.CustomPrompt = req.CustomPrompt
	}
	if resp.Status == "" {
		resp.Status = entity.VisualStatusSuccess
		if resp.ImageURL == "" && resp.Error != "" {
			resp.Status = entity.VisualStatusError
		}
	}

	if resp.Failed() {
		ctxzap.Warn(ctx, "visual generation reported an error", zap.String("error", resp.Error))
	} else {
		ctxzap.Info(ctx, "visual generated")
	}

	return &resp, nil
}

// ExportDocument renders the aggregated state remotely and returns the document binary.
func (c *Connector) ExportDocument(ctx context.Context, req *entity.ExportRequest) (*entity.Document, error) {
	ctxzap.Info(ctx, "exporting document via oracle", zap.String("type", string(req.Type)))

	var resp *pkghttp.BinaryResponse
	err := c.call(ctx, entity.OpExportDocument, func() error {
		var err error
		resp, err = c.connector.DoDownloadRequest(ctx, http.MethodPost, c.config.ExportEndpoint, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 {
		return nil, c.fail(ctx, entity.OpExportDocument, "empty document in response", nil)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = req.Type.ContentType()
	}

	ctxzap.Info(ctx, "document exported", zap.Int("size", len(resp.Body)))

	return &entity.Document{
		ContentType: contentType,
		Content:     resp.Body,
	}, nil
}

// Ping checks that the oracle answers on its health endpoint.
func (c *Connector) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.HealthEndpoint, nil, &resp); err != nil {
		return fmt.Errorf("oracle health check failed: %w", err)
	}
	if resp.Status != "" && resp.Status != "healthy" && resp.Status != "ok" {
		return fmt.Errorf("oracle is not healthy: status %q", resp.Status)
	}
	return nil
}

func (c *Connector) call(ctx context.Context, op entity.Operation, fn func() error) error {
	if err := fn(); err != nil {
		return c.fail(ctx, op, diagnosticMessage(err), err)
	}
	metrics.IncreaseOracleCallsMetric(string(op), metrics.OutcomeSuccess)
	return nil
}

func (c *Connector) fail(ctx context.Context, op entity.Operation, message string, err error) error {
	metrics.IncreaseOracleCallsMetric(string(op), metrics.OutcomeFailure)
	ctxzap.Error(ctx, "oracle call failed",
		zap.String("operation", string(op)),
		zap.String("message", message),
		zap.Error(err),
	)
	return &entity.RemoteCallError{
		Operation: op,
		Message:   message,
		Err:       err,
	}
}

func diagnosticMessage(err error) string {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Detail != "" {
			return httpErr.Detail
		}
		return fmt.Sprintf("oracle responded with status %d", httpErr.StatusCode)
	}

	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return "oracle is unreachable"
	}

	return ""
}
