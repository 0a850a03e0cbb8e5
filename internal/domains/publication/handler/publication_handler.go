package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/service"
	"editorial-backend/internal/shared/middleware"
	"editorial-backend/internal/shared/response"
)

// =====================================================
// PUBLICATION HANDLER
// =====================================================
type PublicationHandler struct {
	publicationService service.PublicationService
	attachmentService  service.AttachmentService
	exportService      service.ExportService
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(
	publicationService service.PublicationService,
	attachmentService service.AttachmentService,
	exportService service.ExportService,
) *PublicationHandler {
	return &PublicationHandler{
		publicationService: publicationService,
		attachmentService:  attachmentService,
		exportService:      exportService,
	}
}

// =====================================================
// CREATE PUBLICATION
// =====================================================

// CreatePublication - POST /api/v1/publications
func (h *PublicationHandler) CreatePublication(c *gin.Context) {
	// 1. Bind request body
	var req model.CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// 2. Call service (validation, author check, snapshot all live there)
	pub, err := h.publicationService.CreatePublication(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, pub)
}

// =====================================================
// READ
// =====================================================

// GetPublication - GET /api/v1/publications/:id
func (h *PublicationHandler) GetPublication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	pub, err := h.publicationService.GetPublication(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pub)
}

// ListPublications - GET /api/v1/publications?status=IN_REVIEW&page=1&limit=20
func (h *PublicationHandler) ListPublications(c *gin.Context) {
	req := model.ListPublicationsRequest{
		Status: c.Query("status"),
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			req.Page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = l
		}
	}

	pubs, total, err := h.publicationService.ListPublications(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, pubs, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetStats - GET /api/v1/publications/stats
func (h *PublicationHandler) GetStats(c *gin.Context) {
	stats, err := h.publicationService.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetStatusHistory - GET /api/v1/publications/:id/history
func (h *PublicationHandler) GetStatusHistory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	history, err := h.publicationService.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, history)
}

// =====================================================
// MUTATIONS
// =====================================================

// UpdateContent - PUT /api/v1/publications/:id
func (h *PublicationHandler) UpdateContent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	pub, err := h.publicationService.UpdateContent(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pub)
}

// ChangeStatus - PUT /api/v1/publications/:id/status
func (h *PublicationHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// The acting editor comes from the verified token, never the body.
	req.ChangedBy = c.GetString(middleware.ContextEditorEmail)

	pub, err := h.publicationService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pub)
}

// SetVisibility - PUT /api/v1/publications/:id/visibility
func (h *PublicationHandler) SetVisibility(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	pub, err := h.publicationService.SetVisibility(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pub)
}

// DeletePublication - DELETE /api/v1/publications/:id
func (h *PublicationHandler) DeletePublication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.publicationService.DeletePublication(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// =====================================================
// EXPORT
// =====================================================

// ExportPublications - GET /api/v1/publications/export?status=PUBLISHED&limit=100
func (h *PublicationHandler) ExportPublications(c *gin.Context) {
	req := model.ExportPublicationsRequest{
		Status: c.Query("status"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = l
		}
	}

	file, err := h.exportService.ExportToExcel(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	fileName := fmt.Sprintf("publications_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))

	if err := file.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("[PublicationHandler] Failed to stream export file")
	}
}

// =====================================================
// ATTACHMENTS
// =====================================================

// UploadAttachment - POST /api/v1/publications/:id/attachments
func (h *PublicationHandler) UploadAttachment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	// 1. Parse multipart form and grab the "file" part
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	log.Info().
		Str("publication_id", id.String()).
		Str("file_name", fileHeader.Filename).
		Int64("file_size", fileHeader.Size).
		Msg("[PublicationHandler] Received attachment upload")

	// 2. Read the file content
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "failed to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// 3. Delegate to the attachment service
	att, err := h.attachmentService.Upload(c.Request.Context(), id, fileHeader.Filename, contentType, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, att)
}

// ListAttachments - GET /api/v1/publications/:id/attachments
func (h *PublicationHandler) ListAttachments(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.List(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, attachments)
}

// DeleteAttachment - DELETE /api/v1/publications/:id/attachments/:attachmentID
func (h *PublicationHandler) DeleteAttachment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachmentID"))
	if err != nil {
		response.BadRequest(c, "attachment ID must be a valid UUID")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), id, attachmentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": attachmentID})
}

// =====================================================
// HELPER METHODS
// =====================================================

// parseID reads the :id path parameter. On failure it writes the 400
// response itself and returns ok=false.
func (h *PublicationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "publication ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service layer errors to HTTP responses.
func (h *PublicationHandler) handleServiceError(c *gin.Context, err error) {
	code := model.ToErrorCode(err)
	if code == "" {
		log.Error().Err(err).Msg("[PublicationHandler] Unhandled service error")
		response.InternalServerError(c, "Internal server error")
		return
	}

	message := err.Error()
	var pubErr *model.PublicationError
	if errors.As(err, &pubErr) {
		message = pubErr.Message
	}

	response.ErrorResponse(c, model.ToHTTPStatus(code), code, message)
}
