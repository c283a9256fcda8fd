package services

import (
	"context"
	"fmt"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// FacultyService owns faculties and cascades into their programs.
type FacultyService struct {
	db        *gorm.DB
	programs  *ProgramService
	documents *DocumentService
}

// NewFacultyService creates a new faculty service
func NewFacultyService(db *gorm.DB, programs *ProgramService, documents *DocumentService) *FacultyService {
	return &FacultyService{db: db, programs: programs, documents: documents}
}

// CreateFacultyRequest carries the validated fields for a new faculty
type CreateFacultyRequest struct {
	Name        string
	Description string
}

// UpdateFacultyRequest carries a partial faculty update
type UpdateFacultyRequest struct {
	Name        string
	Description string
}

// Create validates the university and inserts the faculty.
func (s *FacultyService) Create(ctx context.Context, universityID uint, req CreateFacultyRequest) (*model.Faculty, error) {
	if err := validateParentChain(s.db.WithContext(ctx), ParentChain{UniversityID: universityID}); err != nil {
		return nil, err
	}

	faculty := model.Faculty{
		UniversityID: universityID,
		Name:         req.Name,
		Description:  req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&faculty).Error; err != nil {
		return nil, fmt.Errorf("failed to create faculty: %w", err)
	}
	return &faculty, nil
}

// Get returns a faculty belonging to the given university.
func (s *FacultyService) Get(ctx context.Context, universityID, facultyID uint) (*model.Faculty, error) {
	var faculty model.Faculty
	err := s.db.WithContext(ctx).
		Where("id = ? AND university_id = ?", facultyID, universityID).
		First(&faculty).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("faculty")
		}
		return nil, fmt.Errorf("failed to fetch faculty: %w", err)
	}
	return &faculty, nil
}

// List returns the faculties of a university, paginated.
func (s *FacultyService) List(ctx context.Context, universityID uint, search string, page, limit int) ([]model.Faculty, int64, error) {
	if err := validateParentChain(s.db.WithContext(ctx), ParentChain{UniversityID: universityID}); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&model.Faculty{}).
		Where("university_id = ?", universityID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count faculties: %w", err)
	}

	var faculties []model.Faculty
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&faculties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch faculties: %w", err)
	}
	return faculties, total, nil
}

// Update merges the request fields over the existing faculty.
func (s *FacultyService) Update(ctx context.Context, universityID, facultyID uint, req UpdateFacultyRequest) (*model.Faculty, error) {
	faculty, err := s.Get(ctx, universityID, facultyID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		faculty.Name = req.Name
	}
	if req.Description != "" {
		faculty.Description = req.Description
	}

	if err := s.db.WithContext(ctx).Save(faculty).Error; err != nil {
		return nil, fmt.Errorf("failed to update faculty: %w", err)
	}
	return faculty, nil
}

// Delete removes a faculty and everything beneath it (programs, modules,
// documents) inside one transaction.
func (s *FacultyService) Delete(ctx context.Context, universityID, facultyID uint) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateParentChain(tx, ParentChain{UniversityID: universityID, FacultyID: facultyID}); err != nil {
			return err
		}

		collected, err := s.deleteCascade(tx, facultyID)
		if err != nil {
			return err
		}
		keys = collected
		return nil
	})
	if err != nil {
		return err
	}

	s.documents.RemoveBlobs(keys)
	return nil
}

// deleteCascade deletes one faculty and all of its descendants inside the
// caller's transaction.
func (s *FacultyService) deleteCascade(tx *gorm.DB, facultyID uint) ([]string, error) {
	keys, err := s.programs.deleteAllByFaculty(tx, facultyID)
	if err != nil {
		return nil, err
	}

	if err := tx.Delete(&model.Faculty{}, facultyID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete faculty %d: %w", facultyID, err)
	}
	return keys, nil
}

// deleteAllByUniversity removes every faculty of a university inside the
// caller's transaction, cascading through programs and modules.
func (s *FacultyService) deleteAllByUniversity(tx *gorm.DB, universityID uint) ([]string, error) {
	var facultyIDs []uint
	err := tx.Model(&model.Faculty{}).
		Where("university_id = ?", universityID).
		Pluck("id", &facultyIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate faculties of university %d: %w", universityID, err)
	}

	var keys []string
	for _, facultyID := range facultyIDs {
		collected, err := s.deleteCascade(tx, facultyID)
		if err != nil {
			return nil, err
		}
		keys = append(keys, collected...)
	}
	return keys, nil
}
