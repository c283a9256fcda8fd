package services

import (
	"context"
	"fmt"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// ParentChain carries the path-derived ancestor ids of a hierarchy request.
// A zero id means the level was not part of the path.
type ParentChain struct {
	UniversityID uint
	FacultyID    uint
	ProgramID    uint
	ModuleID     uint
}

// HierarchyService validates that a claimed parent chain
// (university → faculty → program → module) exists and is internally
// consistent. Every child-resource operation runs this check before touching
// data, so an invalid path segment never causes a partial write.
type HierarchyService struct {
	db *gorm.DB
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(db *gorm.DB) *HierarchyService {
	return &HierarchyService{db: db}
}

// ValidateParentChain checks the deepest id given and all of its claimed
// ancestors in a single query per level. The returned error names the deepest
// requested level when the chain does not resolve, e.g. a module whose
// program belongs to a different faculty yields NotFound("module").
func (s *HierarchyService) ValidateParentChain(ctx context.Context, chain ParentChain) error {
	return validateParentChain(s.db.WithContext(ctx), chain)
}

// validateParentChain is the tx-scoped form used inside cascade transactions.
func validateParentChain(tx *gorm.DB, chain ParentChain) error {
	switch {
	case chain.ModuleID != 0:
		var count int64
		err := tx.Model(&model.Module{}).
			Joins("JOIN programs ON programs.id = modules.program_id AND programs.deleted_at IS NULL").
			Joins("JOIN faculties ON faculties.id = programs.faculty_id AND faculties.deleted_at IS NULL").
			Where("modules.id = ? AND modules.program_id = ? AND programs.faculty_id = ? AND faculties.university_id = ?",
				chain.ModuleID, chain.ProgramID, chain.FacultyID, chain.UniversityID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("validate module chain: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("module")
		}
		return nil

	case chain.ProgramID != 0:
		var count int64
		err := tx.Model(&model.Program{}).
			Joins("JOIN faculties ON faculties.id = programs.faculty_id AND faculties.deleted_at IS NULL").
			Where("programs.id = ? AND programs.faculty_id = ? AND faculties.university_id = ?",
				chain.ProgramID, chain.FacultyID, chain.UniversityID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("validate program chain: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("program")
		}
		return nil

	case chain.FacultyID != 0:
		var count int64
		err := tx.Model(&model.Faculty{}).
			Where("id = ? AND university_id = ?", chain.FacultyID, chain.UniversityID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("validate faculty chain: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("faculty")
		}
		return nil

	default:
		var count int64
		err := tx.Model(&model.University{}).
			Where("id = ?", chain.UniversityID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("validate university: %w", err)
		}
		if count == 0 {
			return apperr.NotFound("university")
		}
		return nil
	}
}
