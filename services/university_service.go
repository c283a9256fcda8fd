package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// UniversityService owns the root of the hierarchy. Deleting a university
// cascades through faculties (and everything beneath them), the university's
// own documents, buildings, posts, and employees, end-to-end in one
// transaction.
type UniversityService struct {
	db        *gorm.DB
	faculties *FacultyService
	documents *DocumentService
	storage   BlobStorage
}

// NewUniversityService creates a new university service
func NewUniversityService(db *gorm.DB, faculties *FacultyService, documents *DocumentService, storage BlobStorage) *UniversityService {
	return &UniversityService{db: db, faculties: faculties, documents: documents, storage: storage}
}

// CreateUniversityRequest carries the fields for a new university
type CreateUniversityRequest struct {
	Name         string
	Address      string
	City         string
	Country      string
	ContactEmail string
	ContactPhone string
	Website      string
}

// UpdateUniversityRequest carries a partial university update
type UpdateUniversityRequest struct {
	Name         string
	Address      string
	City         string
	Country      string
	ContactEmail string
	ContactPhone string
	Website      string
}

// Create inserts a new university. The name must be unique among live rows.
func (s *UniversityService) Create(ctx context.Context, req CreateUniversityRequest) (*model.University, error) {
	var existing model.University
	if err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("university with this name")
	}

	university := model.University{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
	}
	if err := s.db.WithContext(ctx).Create(&university).Error; err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	return &university, nil
}

// List returns a page of universities, optionally filtered by name, city, or
// country.
func (s *UniversityService) List(ctx context.Context, search string, page, limit int) ([]model.University, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.University{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ? OR country ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count universities: %w", err)
	}

	var universities []model.University
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&universities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch universities: %w", err)
	}
	return universities, total, nil
}

// Update applies the non-empty fields of req to the university.
func (s *UniversityService) Update(ctx context.Context, universityID uint, req UpdateUniversityRequest) (*model.University, error) {
	university, err := s.Get(ctx, universityID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != university.Name {
		var existing model.University
		if err := s.db.WithContext(ctx).Where("name = ? AND id != ?", req.Name, universityID).First(&existing).Error; err == nil {
			return nil, apperr.Conflict("university with this name")
		}
		university.Name = req.Name
	}
	if req.Address != "" {
		university.Address = req.Address
	}
	if req.City != "" {
		university.City = req.City
	}
	if req.Country != "" {
		university.Country = req.Country
	}
	if req.ContactEmail != "" {
		university.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		university.ContactPhone = req.ContactPhone
	}
	if req.Website != "" {
		university.Website = req.Website
	}

	if err := s.db.WithContext(ctx).Save(university).Error; err != nil {
		return nil, fmt.Errorf("failed to update university: %w", err)
	}
	return university, nil
}

// Get returns a university by id.
func (s *UniversityService) Get(ctx context.Context, universityID uint) (*model.University, error) {
	var university model.University
	if err := s.db.WithContext(ctx).First(&university, universityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("university")
		}
		return nil, fmt.Errorf("failed to fetch university: %w", err)
	}
	return &university, nil
}

// UploadLogo stores a new logo blob and records its URL on the university.
// The previous logo blob is removed best-effort after the row update.
func (s *UniversityService) UploadLogo(ctx context.Context, universityID uint, filename, contentType string, data io.Reader) (*model.University, error) {
	university, err := s.Get(ctx, universityID)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("blob storage is not configured")
	}

	key := fmt.Sprintf("logos/%d/%s%s", universityID, uuid.New().String(), filepath.Ext(filename))
	url, err := s.storage.UploadFile(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}

	previousKey := university.LogoKey
	university.LogoURL = url
	university.LogoKey = key
	if err := s.db.WithContext(ctx).Save(university).Error; err != nil {
		s.documents.RemoveBlobs([]string{key})
		return nil, fmt.Errorf("failed to update university logo: %w", err)
	}

	if previousKey != "" {
		s.documents.RemoveBlobs([]string{previousKey})
	}
	return university, nil
}

// Delete removes a university and every descendant resource in one
// transaction: faculties (cascading programs, modules, documents), the
// university's own documents, then buildings, posts, and employees, and
// finally the university row. Blob cleanup (documents, logo) happens after
// commit and may fail independently.
func (s *UniversityService) Delete(ctx context.Context, universityID uint) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var university model.University
		if err := tx.First(&university, universityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("university")
			}
			return fmt.Errorf("failed to fetch university: %w", err)
		}

		collected, err := s.faculties.deleteAllByUniversity(tx, universityID)
		if err != nil {
			return err
		}
		keys = collected

		collected, err = deleteAllByOwner(tx, model.DocumentOwner{Kind: model.DocumentOwnerUniversity, ID: universityID})
		if err != nil {
			return err
		}
		keys = append(keys, collected...)

		if err := tx.Where("university_id = ?", universityID).Delete(&model.Building{}).Error; err != nil {
			return fmt.Errorf("failed to delete buildings: %w", err)
		}
		if err := tx.Where("university_id = ?", universityID).Delete(&model.Post{}).Error; err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
		if err := tx.Where("university_id = ?", universityID).Delete(&model.Employee{}).Error; err != nil {
			return fmt.Errorf("failed to delete employees: %w", err)
		}

		if err := tx.Delete(&university).Error; err != nil {
			return fmt.Errorf("failed to delete university: %w", err)
		}

		if university.LogoKey != "" {
			keys = append(keys, university.LogoKey)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.documents.RemoveBlobs(keys)
	return nil
}
