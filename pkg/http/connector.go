package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	overrideURL string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.overrideURL = url
	}
}

// BinaryResponse is a non-JSON response body together with its declared metadata.
type BinaryResponse struct {
	ContentType string
	Filename    string
	Body        []byte
}

// DoRequest sends reqBody as JSON (if not nil) and decodes a JSON response into respBody (if not nil).
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	body, err := c.doJSON(ctx, method, endpoint, reqBody, "application/json", opts)
	if err != nil {
		return err
	}
	return decodeJSON(body.Body, respBody)
}

// DoMultipartRequest builds a multipart body with prepareBody and decodes a JSON response into respBody.
func (c *Connector) DoMultipartRequest(ctx context.Context, method, endpoint string, prepareBody func(*multipart.Writer) error, respBody any, opts ...RequestOpt) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := prepareBody(writer); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.do(ctx, method, endpoint, body, writer.FormDataContentType(), "application/json", opts)
	if err != nil {
		return err
	}
	return decodeJSON(resp.Body, respBody)
}

// DoDownloadRequest sends reqBody as JSON and returns the raw response body, e.g. a generated document.
func (c *Connector) DoDownloadRequest(ctx context.Context, method, endpoint string, reqBody any, opts ...RequestOpt) (*BinaryResponse, error) {
	return c.doJSON(ctx, method, endpoint, reqBody, "*/*", opts)
}

func (c *Connector) doJSON(ctx context.Context, method, endpoint string, reqBody any, accept string, opts []RequestOpt) (*BinaryResponse, error) {
	var bodyReader io.Reader
	contentType := ""
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
	}

	return c.do(ctx, method, endpoint, bodyReader, contentType, accept, opts)
}

func (c *Connector) do(ctx context.Context, method, endpoint string, body io.Reader, contentType, accept string, opts []RequestOpt) (*BinaryResponse, error) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	url := c.baseURL + endpoint
	if cfg.overrideURL != "" {
		url = cfg.overrideURL
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", accept)

	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp.StatusCode, bodyBytes)
	}

	return &BinaryResponse{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    attachmentFilename(resp.Header.Get("Content-Disposition")),
		Body:        bodyBytes,
	}, nil
}

func decodeJSON(body []byte, respBody any) error {
	if respBody == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
	// Detail is the human readable reason extracted from a JSON error body, if any.
	Detail string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{
		StatusCode: status,
		Message:    string(body),
	}

	var payload struct {
		Detail  any    `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch d := payload.Detail.(type) {
		case string:
			e.Detail = d
		case nil:
		default:
			if raw, err := json.Marshal(d); err == nil {
				e.Detail = string(raw)
			}
		}
		if e.Detail == "" {
			e.Detail = payload.Message
		}
		if e.Detail == "" {
			e.Detail = payload.Error
		}
	}

	return e
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
