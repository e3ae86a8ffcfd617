package entity

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Stage     Stage  `json:"stage"`
}

type GenerateVisualRequest struct {
	VisualType   VisualType `json:"visual_type"`
	CustomPrompt string     `json:"custom_prompt,omitempty"`
}

type ExportDocumentRequest struct {
	Type ExportKind `json:"type"`
}

type ExportDocumentResponse struct {
	ExportID    string     `json:"export_id"`
	Type        ExportKind `json:"type"`
	Filename    string     `json:"filename"`
	Size        int        `json:"size"`
	DownloadURL string     `json:"download_url"`
}

type DeleteSessionResponse struct {
	Status string `json:"status"`
}

// OracleHealthResponse is returned by the oracle health endpoint.
type OracleHealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}
