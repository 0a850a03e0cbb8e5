package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/repository"
	"editorial-backend/internal/infrastructure/storage"
	"editorial-backend/pkg/logger"
)

// =====================================================
// ATTACHMENT SERVICE IMPLEMENTATION
// =====================================================

// maxAttachmentSize caps any single attachment upload at 10MB. Image
// uploads are held to the stricter image processor limit.
const maxAttachmentSize = 10 * 1024 * 1024

type attachmentService struct {
	repo           repository.PublicationRepository
	storage        *storage.MinIOStorage
	imageProcessor *storage.ImageProcessor
}

func NewAttachmentService(
	repo repository.PublicationRepository,
	store *storage.MinIOStorage,
	imageProcessor *storage.ImageProcessor,
) AttachmentService {
	return &attachmentService{
		repo:           repo,
		storage:        store,
		imageProcessor: imageProcessor,
	}
}

// =====================================================
// UPLOAD
// =====================================================

func (s *attachmentService) Upload(ctx context.Context, publicationID uuid.UUID, fileName, contentType string, data []byte) (*model.Attachment, error) {
	// 1. Attachments follow the content editability window
	pub, err := s.repo.GetByID(ctx, publicationID)
	if err != nil {
		return nil, err
	}
	if !pub.IsEditable() {
		return nil, model.ErrNotEditable
	}

	if len(data) == 0 {
		return nil, model.NewValidationError("attachment is empty")
	}
	if len(data) > maxAttachmentSize {
		return nil, model.ErrAttachmentTooLarge
	}

	fileName = filepath.Base(fileName)
	if fileName == "." || fileName == "/" || fileName == "" {
		return nil, model.NewValidationError("attachment file name is invalid")
	}

	isImage := strings.HasPrefix(contentType, "image/")
	if isImage {
		if err := s.imageProcessor.ValidateImage(data); err != nil {
			return nil, model.NewValidationError(err.Error())
		}
	}

	// 2. Store the original object
	attachmentID := uuid.New()
	key := fmt.Sprintf("publications/%s/%s_%s", publicationID, attachmentID, fileName)

	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	att := &model.Attachment{
		ID:            attachmentID,
		PublicationID: publicationID,
		FileName:      fileName,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
		StorageKey:    key,
		URL:           url,
	}

	// 3. Images get a thumbnail variant; a failure here degrades the
	// attachment, not the upload.
	if isImage {
		thumb, err := s.imageProcessor.Thumbnail(data)
		if err != nil {
			logger.Warn("Failed to generate attachment thumbnail", map[string]interface{}{
				"attachment_id": attachmentID,
				"error":         err.Error(),
			})
		} else {
			thumbKey := fmt.Sprintf("publications/%s/%s_thumb.jpg", publicationID, attachmentID)
			thumbURL, err := s.storage.Upload(ctx, thumbKey, thumb, "image/jpeg")
			if err != nil {
				logger.Warn("Failed to upload attachment thumbnail", map[string]interface{}{
					"attachment_id": attachmentID,
					"error":         err.Error(),
				})
			} else {
				att.ThumbnailKey = &thumbKey
				att.ThumbnailURL = &thumbURL
			}
		}
	}

	// 4. Persist the attachment record
	if err := s.repo.CreateAttachment(ctx, att); err != nil {
		// Roll back the stored objects so storage does not leak.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Error("Failed to clean up attachment object after insert failure", delErr)
		}
		if att.ThumbnailKey != nil {
			if delErr := s.storage.Delete(ctx, *att.ThumbnailKey); delErr != nil {
				logger.Error("Failed to clean up thumbnail object after insert failure", delErr)
			}
		}
		return nil, err
	}

	logger.Info("Attachment uploaded", map[string]interface{}{
		"publication_id": publicationID,
		"attachment_id":  attachmentID,
		"size_bytes":     att.SizeBytes,
	})

	return att, nil
}

// =====================================================
// LIST
// =====================================================

func (s *attachmentService) List(ctx context.Context, publicationID uuid.UUID) ([]model.Attachment, error) {
	if _, err := s.repo.GetByID(ctx, publicationID); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, publicationID)
}

// =====================================================
// DELETE
// =====================================================

func (s *attachmentService) Delete(ctx context.Context, publicationID, attachmentID uuid.UUID) error {
	att, err := s.repo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	// Attachment ids are only valid within their own publication.
	if att.PublicationID != publicationID {
		return model.ErrAttachmentNotFound
	}

	if err := s.storage.Delete(ctx, att.StorageKey); err != nil {
		return fmt.Errorf("failed to delete attachment object: %w", err)
	}
	if att.ThumbnailKey != nil {
		if err := s.storage.Delete(ctx, *att.ThumbnailKey); err != nil {
			logger.Warn("Failed to delete attachment thumbnail", map[string]interface{}{
				"attachment_id": attachmentID,
				"error":         err.Error(),
			})
		}
	}

	return s.repo.DeleteAttachment(ctx, attachmentID)
}

// =====================================================
// PURGE
// =====================================================

// PurgeAll removes every stored object under the publication's prefix.
// The DB rows are already gone by the time the worker runs this.
func (s *attachmentService) PurgeAll(ctx context.Context, publicationID uuid.UUID) error {
	prefix := fmt.Sprintf("publications/%s/", publicationID)

	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("failed to purge attachments for publication %s: %w", publicationID, err)
	}

	logger.Info("Purged publication attachments", map[string]interface{}{
		"publication_id": publicationID,
	})
	return nil
}
