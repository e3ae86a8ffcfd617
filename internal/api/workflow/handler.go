package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/logger"
	"github.com/futig/permitcheck/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const documentField = "document"

type Handler struct {
	usecase   WorkflowUsecase
	validator UploadValidator
}

func NewHandler(usecase WorkflowUsecase, validator UploadValidator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// CreateSession handles POST /sessions - Start a workflow in intake
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	state, err := h.usecase.CreateSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toCreateSessionResponse(state))
}

// GetSession handles GET /sessions/{id} - Current workflow state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	state, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// DeleteSession handles DELETE /sessions/{id} - Drop the session and its results
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "DeleteSession")

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.DeleteSessionResponse{Status: "deleted"})
}

// SubmitProject handles POST /sessions/{id}/project - Submit the project for assessment
func (h *Handler) SubmitProject(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SubmitProject")

	var project entity.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "submitting project",
		zap.String("structure_type", string(project.StructureType)),
		zap.String("property_type", string(project.PropertyType)),
	)

	state, err := h.usecase.SubmitProject(ctx, sessionID, &project)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// UploadDocument handles POST /sessions/{id}/document - Upload the draft application for review
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "UploadDocument")

	r.Body = http.MaxBytesReader(w, r.Body, h.validator.MaxUploadSize())
	if err := r.ParseMultipartForm(h.validator.MaxUploadSize()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleUsecaseError(ctx, w, h.validator.ValidateUploadSize(tooLarge.Limit+1))
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(documentField)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "document file is required",
			fmt.Errorf("%w: %s", entity.ErrMissingField, documentField))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read document", err)
		return
	}

	upload := &entity.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}

	ctxzap.Info(ctx, "document uploaded",
		zap.String("filename", upload.Filename),
		zap.Int64("size", upload.Size),
	)

	state, err := h.usecase.UploadDocument(ctx, sessionID, upload)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// GenerateVisual handles POST /sessions/{id}/visual - Generate or regenerate the project visual
func (h *Handler) GenerateVisual(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GenerateVisual")

	var req entity.GenerateVisualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	state, err := h.usecase.GenerateVisual(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// BackToUpload handles POST /sessions/{id}/back - Return from review to upload
func (h *Handler) BackToUpload(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "BackToUpload")

	state, err := h.usecase.BackToUpload(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// CreateExport handles POST /sessions/{id}/exports - Render the permit package
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "CreateExport")

	var req entity.ExportDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	artifact, err := h.usecase.Export(ctx, sessionID, req.Type)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toExportDocumentResponse(artifact))
}

// DownloadExport handles GET /sessions/{id}/exports/{export_id} - Download a rendered package
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "DownloadExport")
	exportID := chi.URLParam(r, "export_id")
	ctx = logger.AddFields(ctx, zap.String("export_id", exportID))

	artifact, err := h.usecase.GetExport(ctx, sessionID, exportID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if err := response.Attachment(w, artifact.ContentType, artifact.Filename, artifact.Content); err != nil {
		ctxzap.Error(ctx, "failed to write export", zap.Error(err))
	}
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	details := ""
	if err != nil {
		details = err.Error()
	}
	response.Error(w, status, message, details)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *entity.ValidationError
		remoteErr     *entity.RemoteCallError
		joinErr       *entity.PartialJoinFailure
	)

	switch {
	case errors.As(err, &validationErr):
		h.respondError(ctx, w, http.StatusBadRequest, validationErr.Message, err)
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrExportNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) ||
		errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrInvalidVisualType) ||
		errors.Is(err, entity.ErrInvalidExportKind):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidStage):
		h.respondError(ctx, w, http.StatusConflict, "action not allowed in current stage", err)
	case errors.Is(err, entity.ErrActionInProgress):
		h.respondError(ctx, w, http.StatusConflict, "another action is in progress", err)
	case errors.As(err, &joinErr):
		h.respondError(ctx, w, http.StatusBadGateway, "assessment failed", err)
	case errors.As(err, &remoteErr):
		h.respondError(ctx, w, http.StatusBadGateway, fmt.Sprintf("%s failed", remoteErr.Operation), err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
