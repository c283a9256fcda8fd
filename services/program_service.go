package services

import (
	"context"
	"fmt"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// ProgramService owns programs and cascades into modules (which cascade into
// their documents) and program-level documents.
type ProgramService struct {
	db        *gorm.DB
	modules   *ModuleService
	documents *DocumentService
}

// NewProgramService creates a new program service
func NewProgramService(db *gorm.DB, modules *ModuleService, documents *DocumentService) *ProgramService {
	return &ProgramService{db: db, modules: modules, documents: documents}
}

// CreateProgramRequest carries the validated fields for a new program
type CreateProgramRequest struct {
	Name        string
	Degree      string
	Description string
}

// UpdateProgramRequest carries a partial program update
type UpdateProgramRequest struct {
	Name        string
	Degree      string
	Description string
}

// Create validates the faculty chain and inserts the program.
func (s *ProgramService) Create(ctx context.Context, chain ParentChain, req CreateProgramRequest) (*model.Program, error) {
	facultyChain := ParentChain{
		UniversityID: chain.UniversityID,
		FacultyID:    chain.FacultyID,
	}
	if err := validateParentChain(s.db.WithContext(ctx), facultyChain); err != nil {
		return nil, err
	}

	program := model.Program{
		FacultyID:   chain.FacultyID,
		Name:        req.Name,
		Degree:      req.Degree,
		Description: req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return &program, nil
}

// Get returns a program after validating its parent chain.
func (s *ProgramService) Get(ctx context.Context, chain ParentChain) (*model.Program, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, err
	}

	var program model.Program
	if err := s.db.WithContext(ctx).First(&program, chain.ProgramID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("program")
		}
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}
	return &program, nil
}

// List returns the programs of a faculty, paginated.
func (s *ProgramService) List(ctx context.Context, chain ParentChain, search string, page, limit int) ([]model.Program, int64, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&model.Program{}).
		Where("faculty_id = ?", chain.FacultyID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	var programs []model.Program
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&programs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch programs: %w", err)
	}
	return programs, total, nil
}

// Update merges the request fields over the existing program.
func (s *ProgramService) Update(ctx context.Context, chain ParentChain, req UpdateProgramRequest) (*model.Program, error) {
	program, err := s.Get(ctx, chain)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		program.Name = req.Name
	}
	if req.Degree != "" {
		program.Degree = req.Degree
	}
	if req.Description != "" {
		program.Description = req.Description
	}

	if err := s.db.WithContext(ctx).Save(program).Error; err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return program, nil
}

// Delete removes a program, its modules (each cascading into its documents),
// and the documents attached directly to the program, all inside one
// transaction. A failure at any step rolls the whole cascade back.
func (s *ProgramService) Delete(ctx context.Context, chain ParentChain) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateParentChain(tx, chain); err != nil {
			return err
		}

		collected, err := s.deleteCascade(tx, chain.ProgramID)
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

// deleteCascade deletes one program and all of its descendants inside the
// caller's transaction: modules first, then program documents, then the
// program row.
func (s *ProgramService) deleteCascade(tx *gorm.DB, programID uint) ([]string, error) {
	keys, err := s.modules.deleteAllByProgram(tx, programID)
	if err != nil {
		return nil, err
	}

	collected, err := deleteAllByOwner(tx, model.DocumentOwner{Kind: model.DocumentOwnerProgram, ID: programID})
	if err != nil {
		return nil, err
	}
	keys = append(keys, collected...)

	if err := tx.Delete(&model.Program{}, programID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete program %d: %w", programID, err)
	}
	return keys, nil
}

// deleteAllByFaculty removes every program of a faculty inside the caller's
// transaction, applying the full per-program cascade to each.
func (s *ProgramService) deleteAllByFaculty(tx *gorm.DB, facultyID uint) ([]string, error) {
	var programIDs []uint
	err := tx.Model(&model.Program{}).
		Where("faculty_id = ?", facultyID).
		Pluck("id", &programIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate programs of faculty %d: %w", facultyID, err)
	}

	var keys []string
	for _, programID := range programIDs {
		collected, err := s.deleteCascade(tx, programID)
		if err != nil {
			return nil, err
		}
		keys = append(keys, collected...)
	}
	return keys, nil
}
