package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// BlobStorage is the narrow capability the document flows need from the blob
// store. Blob operations are never part of the transactional boundary.
type BlobStorage interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// DocumentService owns the Document leaf of the hierarchy: uploads, metadata
// updates, and the per-owner cascade used by the parent services.
type DocumentService struct {
	db      *gorm.DB
	storage BlobStorage
}

// NewDocumentService creates a new document service. storage may be nil when
// blob storage is not configured; uploads then fail cleanly.
func NewDocumentService(db *gorm.DB, storage BlobStorage) *DocumentService {
	return &DocumentService{db: db, storage: storage}
}

// UploadDocumentRequest carries the upload payload after the handler has
// resolved the owner from the request path.
type UploadDocumentRequest struct {
	Name        string
	Description string
	Filename    string
	ContentType string
	Size        int64
	PageCount   int
	Data        io.Reader
	UploadedBy  uint
}

// UpdateDocumentRequest carries a metadata update. The stored file is always
// preserved across metadata updates.
type UpdateDocumentRequest struct {
	Name        string
	Description string
}

// Upload validates the parent chain, stores the file, and creates the
// document row. The chain check runs first so an invalid path segment never
// causes a partial write.
func (s *DocumentService) Upload(ctx context.Context, chain ParentChain, owner model.DocumentOwner, req UploadDocumentRequest) (*model.Document, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("blob storage is not configured")
	}

	key := fmt.Sprintf("documents/%s/%d/%s_%s", owner.Kind, owner.ID, uuid.New().String(), req.Filename)
	url, err := s.storage.UploadFile(ctx, key, req.Data, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store document file: %w", err)
	}

	document := model.Document{
		OwnerKind:        owner.Kind,
		OwnerID:          owner.ID,
		Name:             req.Name,
		Description:      req.Description,
		Filename:         req.Filename,
		ContentType:      req.ContentType,
		SpacesURL:        url,
		SpacesKey:        key,
		FileSize:         req.Size,
		PageCount:        req.PageCount,
		UploadedByUserID: req.UploadedBy,
	}

	if err := s.db.WithContext(ctx).Create(&document).Error; err != nil {
		// The row failed but the blob exists; clean it up best-effort.
		s.RemoveBlobs([]string{key})
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &document, nil
}

// Get returns a document after validating the claimed parent chain.
func (s *DocumentService) Get(ctx context.Context, chain ParentChain, owner model.DocumentOwner, documentID uint) (*model.Document, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, err
	}

	var document model.Document
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_kind = ? AND owner_id = ?", documentID, owner.Kind, owner.ID).
		First(&document).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("document")
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &document, nil
}

// List returns the documents of an owner, newest first, paginated.
func (s *DocumentService) List(ctx context.Context, chain ParentChain, owner model.DocumentOwner, page, limit int) ([]model.Document, int64, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	var documents []model.Document
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&documents).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return documents, total, nil
}

// UpdateMetadata merges the mutable metadata fields over the existing row.
// File path, key, and size are immutable here.
func (s *DocumentService) UpdateMetadata(ctx context.Context, chain ParentChain, owner model.DocumentOwner, documentID uint, req UpdateDocumentRequest) (*model.Document, error) {
	document, err := s.Get(ctx, chain, owner, documentID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		document.Name = req.Name
	}
	if req.Description != "" {
		document.Description = req.Description
	}

	if err := s.db.WithContext(ctx).Save(document).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return document, nil
}

// Delete removes a document row and then deletes its blob best-effort.
func (s *DocumentService) Delete(ctx context.Context, chain ParentChain, owner model.DocumentOwner, documentID uint) error {
	document, err := s.Get(ctx, chain, owner, documentID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(document).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.RemoveBlobs([]string{document.SpacesKey})
	return nil
}

// deleteAllByOwner removes every document row of an owner inside the caller's
// transaction and returns the blob keys for post-commit cleanup.
func deleteAllByOwner(tx *gorm.DB, owner model.DocumentOwner) ([]string, error) {
	var keys []string
	err := tx.Model(&model.Document{}).
		Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID).
		Pluck("spaces_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect document keys: %w", err)
	}

	err = tx.Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID).
		Delete(&model.Document{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete documents of %s %d: %w", owner.Kind, owner.ID, err)
	}
	return keys, nil
}

// RemoveBlobs deletes stored files best-effort, after the owning transaction
// has committed. Failures are logged and swallowed.
func (s *DocumentService) RemoveBlobs(keys []string) {
	if s.storage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.DeleteFile(ctx, key); err != nil {
			log.Printf("best-effort blob delete failed for %s: %v", key, err)
		}
	}
}
