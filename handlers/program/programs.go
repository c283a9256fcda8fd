package program

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// ProgramHandler handles program-related requests
type ProgramHandler struct {
	service   *services.ProgramService
	validator *validation.Validator
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(service *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateProgramRequest represents the request body for creating a program
type CreateProgramRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Degree      string `json:"degree" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// UpdateProgramRequest represents the request body for updating a program
type UpdateProgramRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Degree      string `json:"degree" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ListPrograms handles GET .../faculties/:faculty_id/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, false)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	programs, total, err := h.service.List(c.Context(), chain, search, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, programs, response.CalculatePagination(page, limit, total))
}

// GetProgram handles GET .../programs/:program_id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	program, err := h.service.Get(c.Context(), chain)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, program)
}

// CreateProgram handles POST .../faculties/:faculty_id/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, false)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	var req CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	program, err := h.service.Create(c.Context(), chain, services.CreateProgramRequest{
		Name:        validation.SanitizeString(req.Name),
		Degree:      validation.SanitizeString(req.Degree),
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, program)
}

// UpdateProgram handles PUT .../programs/:program_id
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	var req UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	program, err := h.service.Update(c.Context(), chain, services.UpdateProgramRequest{
		Name:        validation.SanitizeString(req.Name),
		Degree:      validation.SanitizeString(req.Degree),
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Program updated successfully", program)
}

// DeleteProgram handles DELETE .../programs/:program_id
// Cascades through modules and documents in a single transaction.
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	if err := h.service.Delete(c.Context(), chain); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Program and all related data deleted successfully", nil)
}

// chainFromPath builds the parent chain from the nested route params. When
// withProgram is false only the university and faculty segments are read.
func chainFromPath(c *fiber.Ctx, withProgram bool) (services.ParentChain, error) {
	var chain services.ParentChain

	universityID, err := strconv.ParseUint(c.Params("university_id"), 10, 32)
	if err != nil {
		return chain, err
	}
	facultyID, err := strconv.ParseUint(c.Params("faculty_id"), 10, 32)
	if err != nil {
		return chain, err
	}
	chain.UniversityID = uint(universityID)
	chain.FacultyID = uint(facultyID)

	if withProgram {
		programID, err := strconv.ParseUint(c.Params("program_id"), 10, 32)
		if err != nil {
			return chain, err
		}
		chain.ProgramID = uint(programID)
	}
	return chain, nil
}
