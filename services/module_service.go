package services

import (
	"context"
	"fmt"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// ModuleService owns modules and cascades into their documents. It is the
// parent layer of DocumentService and exposes a cascade helper to
// ProgramService, never the other way round.
type ModuleService struct {
	db        *gorm.DB
	documents *DocumentService
}

// NewModuleService creates a new module service
func NewModuleService(db *gorm.DB, documents *DocumentService) *ModuleService {
	return &ModuleService{db: db, documents: documents}
}

// CreateModuleRequest carries the validated fields for a new module. The
// program id comes from the request path, not the body.
type CreateModuleRequest struct {
	Name        string
	Credits     int
	Semester    int
	Description string
}

// UpdateModuleRequest carries a partial module update
type UpdateModuleRequest struct {
	Name        string
	Credits     *int
	Semester    *int
	Description string
}

// Create validates the program chain and inserts the module.
func (s *ModuleService) Create(ctx context.Context, chain ParentChain, req CreateModuleRequest) (*model.Module, error) {
	programChain := ParentChain{
		UniversityID: chain.UniversityID,
		FacultyID:    chain.FacultyID,
		ProgramID:    chain.ProgramID,
	}
	if err := validateParentChain(s.db.WithContext(ctx), programChain); err != nil {
		return nil, err
	}

	module := model.Module{
		ProgramID:   chain.ProgramID,
		Name:        req.Name,
		Credits:     req.Credits,
		Semester:    req.Semester,
		Description: req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&module).Error; err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}
	return &module, nil
}

// Get returns a module after validating its full parent chain.
func (s *ModuleService) Get(ctx context.Context, chain ParentChain) (*model.Module, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, err
	}

	var module model.Module
	if err := s.db.WithContext(ctx).First(&module, chain.ModuleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("module")
		}
		return nil, fmt.Errorf("failed to fetch module: %w", err)
	}
	return &module, nil
}

// List returns the modules of a program, paginated, with an optional
// case-insensitive name filter.
func (s *ModuleService) List(ctx context.Context, chain ParentChain, search string, page, limit int) ([]model.Module, int64, error) {
	if err := validateParentChain(s.db.WithContext(ctx), chain); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&model.Module{}).
		Where("program_id = ?", chain.ProgramID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count modules: %w", err)
	}

	var modules []model.Module
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&modules).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch modules: %w", err)
	}
	return modules, total, nil
}

// Update merges the request fields over the existing module.
func (s *ModuleService) Update(ctx context.Context, chain ParentChain, req UpdateModuleRequest) (*model.Module, error) {
	module, err := s.Get(ctx, chain)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		module.Name = req.Name
	}
	if req.Credits != nil {
		module.Credits = *req.Credits
	}
	if req.Semester != nil {
		module.Semester = *req.Semester
	}
	if req.Description != "" {
		module.Description = req.Description
	}

	if err := s.db.WithContext(ctx).Save(module).Error; err != nil {
		return nil, fmt.Errorf("failed to update module: %w", err)
	}
	return module, nil
}

// Delete removes a module and all of its documents in one transaction:
// documents first, then the module row. Blob cleanup runs after commit.
func (s *ModuleService) Delete(ctx context.Context, chain ParentChain) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateParentChain(tx, chain); err != nil {
			return err
		}

		collected, err := deleteAllByOwner(tx, model.DocumentOwner{Kind: model.DocumentOwnerModule, ID: chain.ModuleID})
		if err != nil {
			return err
		}
		keys = collected

		if err := tx.Delete(&model.Module{}, chain.ModuleID).Error; err != nil {
			return fmt.Errorf("failed to delete module: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.documents.RemoveBlobs(keys)
	return nil
}

// deleteAllByProgram removes every module of a program inside the caller's
// transaction, cascading into each module's documents so document cleanup
// happens per module. Children are always deleted before parents.
func (s *ModuleService) deleteAllByProgram(tx *gorm.DB, programID uint) ([]string, error) {
	var moduleIDs []uint
	err := tx.Model(&model.Module{}).
		Where("program_id = ?", programID).
		Pluck("id", &moduleIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate modules of program %d: %w", programID, err)
	}

	var keys []string
	for _, moduleID := range moduleIDs {
		collected, err := deleteAllByOwner(tx, model.DocumentOwner{Kind: model.DocumentOwnerModule, ID: moduleID})
		if err != nil {
			return nil, err
		}
		keys = append(keys, collected...)

		if err := tx.Delete(&model.Module{}, moduleID).Error; err != nil {
			return nil, fmt.Errorf("failed to delete module %d: %w", moduleID, err)
		}
	}
	return keys, nil
}
