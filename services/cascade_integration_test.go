package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

type cascadeServices struct {
	hierarchy  *HierarchyService
	documents  *DocumentService
	modules    *ModuleService
	programs   *ProgramService
	faculties  *FacultyService
	university *UniversityService
	blobs      *fakeBlobStorage
}

func newCascadeServices(db *gorm.DB) *cascadeServices {
	blobs := newFakeBlobStorage()
	documents := NewDocumentService(db, blobs)
	modules := NewModuleService(db, documents)
	programs := NewProgramService(db, modules, documents)
	faculties := NewFacultyService(db, programs, documents)
	return &cascadeServices{
		hierarchy:  NewHierarchyService(db),
		documents:  documents,
		modules:    modules,
		programs:   programs,
		faculties:  faculties,
		university: NewUniversityService(db, faculties, documents, blobs),
		blobs:      blobs,
	}
}

// buildHierarchy creates one university with the given shape and a document on
// every university, program, and module node.
func buildHierarchy(t *testing.T, svc *cascadeServices, facultyCount, programsPer, modulesPer int) *model.University {
	t.Helper()
	ctx := context.Background()

	university, err := svc.university.Create(ctx, CreateUniversityRequest{Name: "Test University"})
	if err != nil {
		t.Fatalf("failed to create university: %v", err)
	}

	uploadDoc := func(chain ParentChain, owner model.DocumentOwner, name string) {
		t.Helper()
		_, err := svc.documents.Upload(ctx, chain, owner, UploadDocumentRequest{
			Name:        name,
			Filename:    name + ".pdf",
			ContentType: "application/pdf",
			Size:        4,
			PageCount:   1,
			Data:        strings.NewReader("%PDF"),
			UploadedBy:  1,
		})
		if err != nil {
			t.Fatalf("failed to upload %s: %v", name, err)
		}
	}

	uploadDoc(ParentChain{UniversityID: university.ID},
		model.DocumentOwner{Kind: model.DocumentOwnerUniversity, ID: university.ID}, "charter")

	for f := 0; f < facultyCount; f++ {
		faculty, err := svc.faculties.Create(ctx, university.ID, CreateFacultyRequest{
			Name: fmt.Sprintf("Faculty %d", f),
		})
		if err != nil {
			t.Fatalf("failed to create faculty: %v", err)
		}

		facultyChain := ParentChain{UniversityID: university.ID, FacultyID: faculty.ID}
		for p := 0; p < programsPer; p++ {
			program, err := svc.programs.Create(ctx, facultyChain, CreateProgramRequest{
				Name: fmt.Sprintf("Program %d-%d", f, p),
			})
			if err != nil {
				t.Fatalf("failed to create program: %v", err)
			}

			programChain := facultyChain
			programChain.ProgramID = program.ID
			uploadDoc(programChain,
				model.DocumentOwner{Kind: model.DocumentOwnerProgram, ID: program.ID},
				fmt.Sprintf("handbook-%d-%d", f, p))

			for m := 0; m < modulesPer; m++ {
				module, err := svc.modules.Create(ctx, programChain, CreateModuleRequest{
					Name: fmt.Sprintf("Module %d-%d-%d", f, p, m),
				})
				if err != nil {
					t.Fatalf("failed to create module: %v", err)
				}

				moduleChain := programChain
				moduleChain.ModuleID = module.ID
				uploadDoc(moduleChain,
					model.DocumentOwner{Kind: model.DocumentOwnerModule, ID: module.ID},
					fmt.Sprintf("script-%d-%d-%d", f, p, m))
			}
		}
	}

	return university
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestUniversityDeleteCascadesEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)
	ctx := context.Background()

	university := buildHierarchy(t, svc, 2, 2, 2)

	// Campus resources hang off the university as well
	for i := 0; i < 3; i++ {
		db.Create(&model.Post{UniversityID: university.ID, Title: fmt.Sprintf("Post %d", i)})
		db.Create(&model.Building{UniversityID: university.ID, Name: fmt.Sprintf("Building %d", i)})
		db.Create(&model.Employee{UniversityID: university.ID, FirstName: "E", LastName: fmt.Sprintf("%d", i)})
	}

	// 1 university doc + 4 program docs + 8 module docs
	if got := countRows(t, db, &model.Document{}); got != 13 {
		t.Fatalf("expected 13 documents before delete, got %d", got)
	}

	if err := svc.university.Delete(ctx, university.ID); err != nil {
		t.Fatalf("university delete failed: %v", err)
	}

	for name, value := range map[string]interface{}{
		"faculties": &model.Faculty{},
		"programs":  &model.Program{},
		"modules":   &model.Module{},
		"documents": &model.Document{},
		"posts":     &model.Post{},
		"buildings": &model.Building{},
		"employees": &model.Employee{},
	} {
		if got := countRows(t, db, value); got != 0 {
			t.Errorf("expected 0 %s after cascade, got %d", name, got)
		}
	}
	if got := countRows(t, db, &model.University{}); got != 0 {
		t.Errorf("expected 0 universities, got %d", got)
	}

	// Every stored blob was removed post-commit
	if svc.blobs.remaining() != 0 {
		t.Errorf("expected all blobs removed, %d remain", svc.blobs.remaining())
	}
	if svc.blobs.deletedCount() != 13 {
		t.Errorf("expected 13 blob deletes, got %d", svc.blobs.deletedCount())
	}
}

func TestProgramDeleteSparesSiblings(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)
	ctx := context.Background()

	university := buildHierarchy(t, svc, 1, 2, 2)

	var faculty model.Faculty
	if err := db.First(&faculty).Error; err != nil {
		t.Fatalf("failed to load faculty: %v", err)
	}
	var programs []model.Program
	if err := db.Order("id").Find(&programs).Error; err != nil || len(programs) != 2 {
		t.Fatalf("expected 2 programs, got %d (err %v)", len(programs), err)
	}

	chain := ParentChain{
		UniversityID: university.ID,
		FacultyID:    faculty.ID,
		ProgramID:    programs[0].ID,
	}
	if err := svc.programs.Delete(ctx, chain); err != nil {
		t.Fatalf("program delete failed: %v", err)
	}

	if got := countRows(t, db, &model.Program{}); got != 1 {
		t.Errorf("expected 1 surviving program, got %d", got)
	}
	// Sibling keeps its 2 modules and their documents
	var moduleCount int64
	db.Model(&model.Module{}).Where("program_id = ?", programs[1].ID).Count(&moduleCount)
	if moduleCount != 2 {
		t.Errorf("sibling program lost modules: %d", moduleCount)
	}
	var orphanModules int64
	db.Model(&model.Module{}).Where("program_id = ?", programs[0].ID).Count(&orphanModules)
	if orphanModules != 0 {
		t.Errorf("deleted program still has %d modules", orphanModules)
	}

	// 1 university doc + 1 sibling program doc + 2 sibling module docs
	if got := countRows(t, db, &model.Document{}); got != 4 {
		t.Errorf("expected 4 surviving documents, got %d", got)
	}
}

func TestDeleteValidatesParentChainFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)
	ctx := context.Background()

	buildHierarchy(t, svc, 2, 1, 1)

	var faculties []model.Faculty
	if err := db.Order("id").Find(&faculties).Error; err != nil || len(faculties) != 2 {
		t.Fatalf("expected 2 faculties, got %d (err %v)", len(faculties), err)
	}
	var program model.Program
	if err := db.Where("faculty_id = ?", faculties[0].ID).First(&program).Error; err != nil {
		t.Fatalf("failed to load program: %v", err)
	}

	// Program addressed through the wrong faculty must not be deleted
	wrongChain := ParentChain{
		UniversityID: faculties[1].UniversityID,
		FacultyID:    faculties[1].ID,
		ProgramID:    program.ID,
	}
	if err := svc.programs.Delete(ctx, wrongChain); apperr.NotFoundKind(err) != "program" {
		t.Fatalf("expected NotFound(program), got %v", err)
	}

	if got := countRows(t, db, &model.Program{}); got != 2 {
		t.Errorf("mismatched chain deleted data: %d programs remain", got)
	}
	if got := countRows(t, db, &model.Document{}); got != 5 {
		t.Errorf("mismatched chain deleted documents: %d remain", got)
	}
}

func TestModuleChainValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)
	ctx := context.Background()

	university := buildHierarchy(t, svc, 1, 2, 1)

	var faculty model.Faculty
	if err := db.First(&faculty).Error; err != nil {
		t.Fatalf("failed to load faculty: %v", err)
	}
	var programs []model.Program
	if err := db.Order("id").Find(&programs).Error; err != nil || len(programs) != 2 {
		t.Fatalf("expected 2 programs, got %d (err %v)", len(programs), err)
	}
	var module model.Module
	if err := db.Where("program_id = ?", programs[0].ID).First(&module).Error; err != nil {
		t.Fatalf("failed to load module: %v", err)
	}

	goodChain := ParentChain{
		UniversityID: university.ID,
		FacultyID:    faculty.ID,
		ProgramID:    programs[0].ID,
		ModuleID:     module.ID,
	}
	if err := svc.hierarchy.ValidateParentChain(ctx, goodChain); err != nil {
		t.Errorf("valid chain rejected: %v", err)
	}

	// Same module claimed under the sibling program
	badChain := goodChain
	badChain.ProgramID = programs[1].ID
	if err := svc.hierarchy.ValidateParentChain(ctx, badChain); apperr.NotFoundKind(err) != "module" {
		t.Errorf("expected NotFound(module), got %v", err)
	}

	// Nonexistent university at the root
	badRoot := goodChain
	badRoot.UniversityID = 99999
	if err := svc.hierarchy.ValidateParentChain(ctx, badRoot); apperr.NotFoundKind(err) != "module" {
		t.Errorf("expected NotFound naming the deepest level, got %v", err)
	}
}

func TestModuleDeleteRemovesItsDocuments(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)
	ctx := context.Background()

	university := buildHierarchy(t, svc, 1, 1, 2)

	var faculty model.Faculty
	if err := db.First(&faculty).Error; err != nil {
		t.Fatalf("failed to load faculty: %v", err)
	}
	var program model.Program
	if err := db.First(&program).Error; err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	var modules []model.Module
	if err := db.Order("id").Find(&modules).Error; err != nil || len(modules) != 2 {
		t.Fatalf("expected 2 modules, got %d (err %v)", len(modules), err)
	}

	chain := ParentChain{
		UniversityID: university.ID,
		FacultyID:    faculty.ID,
		ProgramID:    program.ID,
		ModuleID:     modules[0].ID,
	}
	if err := svc.modules.Delete(ctx, chain); err != nil {
		t.Fatalf("module delete failed: %v", err)
	}

	var docCount int64
	db.Model(&model.Document{}).
		Where("owner_kind = ? AND owner_id = ?", model.DocumentOwnerModule, modules[0].ID).
		Count(&docCount)
	if docCount != 0 {
		t.Errorf("deleted module still owns %d documents", docCount)
	}

	db.Model(&model.Document{}).
		Where("owner_kind = ? AND owner_id = ?", model.DocumentOwnerModule, modules[1].ID).
		Count(&docCount)
	if docCount != 1 {
		t.Errorf("sibling module lost its document: %d", docCount)
	}
}

// TestProgramDeleteRollsBackMidCascade forces the second module deletion to
// fail and verifies the whole cascade rolls back: the program, every module,
// every document, and every stored blob must survive untouched.
func TestProgramDeleteRollsBackMidCascade(t *testing.T) {
	db := setupTestDB(t)
	svc := newCascadeServices(db)

	university := buildHierarchy(t, svc, 1, 1, 3)

	var faculty model.Faculty
	if err := db.First(&faculty).Error; err != nil {
		t.Fatalf("failed to load faculty: %v", err)
	}
	var program model.Program
	if err := db.First(&program).Error; err != nil {
		t.Fatalf("failed to load program: %v", err)
	}

	faultErr := errors.New("connection reset during delete")
	var moduleDeletes int
	err := db.Callback().Delete().Before("gorm:delete").Register("fail_second_module_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "modules" {
			moduleDeletes++
			if moduleDeletes == 2 {
				tx.AddError(faultErr)
			}
		}
	})
	if err != nil {
		t.Fatalf("failed to register delete callback: %v", err)
	}
	defer db.Callback().Delete().Remove("fail_second_module_delete")

	chain := ParentChain{
		UniversityID: university.ID,
		FacultyID:    faculty.ID,
		ProgramID:    program.ID,
	}
	deleteErr := svc.programs.Delete(context.Background(), chain)
	if !errors.Is(deleteErr, faultErr) {
		t.Fatalf("expected the injected failure, got %v", deleteErr)
	}
	if moduleDeletes != 2 {
		t.Fatalf("fault fired after %d module deletes, want 2", moduleDeletes)
	}

	if got := countRows(t, db, &model.Program{}); got != 1 {
		t.Errorf("program count = %d, want 1", got)
	}
	if got := countRows(t, db, &model.Module{}); got != 3 {
		t.Errorf("module count = %d, want 3", got)
	}
	// charter + handbook + one script per module
	if got := countRows(t, db, &model.Document{}); got != 5 {
		t.Errorf("document count = %d, want 5", got)
	}
	if got := svc.blobs.deletedCount(); got != 0 {
		t.Errorf("%d blobs were removed despite the rollback", got)
	}
	if got := svc.blobs.remaining(); got != 5 {
		t.Errorf("blob store holds %d objects, want 5", got)
	}

	// with the fault cleared the same delete must go through
	if err := db.Callback().Delete().Remove("fail_second_module_delete"); err != nil {
		t.Fatalf("failed to remove delete callback: %v", err)
	}
	if err := svc.programs.Delete(context.Background(), chain); err != nil {
		t.Fatalf("retry after clearing the fault failed: %v", err)
	}
	if got := countRows(t, db, &model.Module{}); got != 0 {
		t.Errorf("module count after retry = %d, want 0", got)
	}
}
