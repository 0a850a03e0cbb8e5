package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/author/model"
	"editorial-backend/internal/domains/author/service"
	"editorial-backend/internal/shared/response"
)

// =====================================================
// AUTHOR HANDLER
// =====================================================
type AuthorHandler struct {
	authorService     service.AuthorService
	bulkImportService service.BulkImportService
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(
	authorService service.AuthorService,
	bulkImportService service.BulkImportService,
) *AuthorHandler {
	return &AuthorHandler{
		authorService:     authorService,
		bulkImportService: bulkImportService,
	}
}

// =====================================================
// CREATE AUTHOR
// =====================================================

// CreateAuthor - POST /api/v1/authors
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	author, err := h.authorService.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, author)
}

// =====================================================
// GET / LIST
// =====================================================

// GetAuthor - GET /api/v1/authors/:id
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	author, err := h.authorService.GetAuthor(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// ListAuthors - GET /api/v1/authors
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	var req model.ListAuthorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	authors, total, err := h.authorService.ListAuthors(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, authors, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// =====================================================
// EXISTENCE PROBE
// =====================================================

// AuthorExists - GET /api/v1/authors/:id/exists
//
// The publications service polls this before accepting a new
// publication, so the body stays a single boolean and a missing
// author is still a 200.
func (h *AuthorHandler) AuthorExists(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	exists, err := h.authorService.AuthorExists(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exists": exists})
}

// =====================================================
// UPDATE / DELETE
// =====================================================

// UpdateAuthor - PUT /api/v1/authors/:id
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	author, err := h.authorService.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// DeleteAuthor - DELETE /api/v1/authors/:id
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.authorService.DeleteAuthor(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// =====================================================
// EDITOR TOKEN
// =====================================================

// IssueToken - POST /api/v1/auth/token
func (h *AuthorHandler) IssueToken(c *gin.Context) {
	var req model.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	token, err := h.authorService.IssueEditorToken(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, token)
}

// =====================================================
// BULK IMPORT
// =====================================================

// ImportAuthors - POST /api/v1/admin/authors/import
func (h *AuthorHandler) ImportAuthors(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("Failed to get file from request")
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	log.Info().
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("[AuthorHandler] Received bulk import request")

	result, svcErr := h.bulkImportService.ImportAuthors(c.Request.Context(), file)
	if svcErr != nil {
		log.Error().Err(svcErr).Msg("Bulk import service error")
		response.InternalServerError(c, "Bulk import failed")
		return
	}

	// The result document is the body either way; row-level errors
	// ride along on the 422.
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// =====================================================
// HELPER METHODS
// =====================================================

// parseID reads the :id path parameter. On failure it writes the 400
// response itself and returns ok=false.
func (h *AuthorHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "author ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service layer errors to HTTP responses.
func (h *AuthorHandler) handleServiceError(c *gin.Context, err error) {
	code := model.ToErrorCode(err)
	if code == "" {
		log.Error().Err(err).Msg("[AuthorHandler] Unhandled service error")
		response.InternalServerError(c, "Internal server error")
		return
	}

	message := err.Error()
	var authorErr *model.AuthorError
	if errors.As(err, &authorErr) {
		message = authorErr.Message
	}

	response.ErrorResponse(c, model.ToHTTPStatus(code), code, message)
}
