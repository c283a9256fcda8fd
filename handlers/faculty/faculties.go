package faculty

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// FacultyHandler handles faculty-related requests
type FacultyHandler struct {
	service   *services.FacultyService
	validator *validation.Validator
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(service *services.FacultyService) *FacultyHandler {
	return &FacultyHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateFacultyRequest represents the request body for creating a faculty
type CreateFacultyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// UpdateFacultyRequest represents the request body for updating a faculty
type UpdateFacultyRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ListFaculties handles GET /api/v1/universities/:university_id/faculties
func (h *FacultyHandler) ListFaculties(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	faculties, total, err := h.service.List(c.Context(), universityID, search, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, faculties, response.CalculatePagination(page, limit, total))
}

// GetFaculty handles GET /api/v1/universities/:university_id/faculties/:faculty_id
func (h *FacultyHandler) GetFaculty(c *fiber.Ctx) error {
	universityID, facultyID, err := parsePath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	faculty, err := h.service.Get(c.Context(), universityID, facultyID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, faculty)
}

// CreateFaculty handles POST /api/v1/universities/:university_id/faculties
func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var req CreateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	faculty, err := h.service.Create(c.Context(), universityID, services.CreateFacultyRequest{
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, faculty)
}

// UpdateFaculty handles PUT /api/v1/universities/:university_id/faculties/:faculty_id
func (h *FacultyHandler) UpdateFaculty(c *fiber.Ctx) error {
	universityID, facultyID, err := parsePath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	var req UpdateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	faculty, err := h.service.Update(c.Context(), universityID, facultyID, services.UpdateFacultyRequest{
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Faculty updated successfully", faculty)
}

// DeleteFaculty handles DELETE /api/v1/universities/:university_id/faculties/:faculty_id
// Cascades through programs, modules, and documents in a single transaction.
func (h *FacultyHandler) DeleteFaculty(c *fiber.Ctx) error {
	universityID, facultyID, err := parsePath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	if err := h.service.Delete(c.Context(), universityID, facultyID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Faculty and all related data deleted successfully", nil)
}

func parsePath(c *fiber.Ctx) (universityID, facultyID uint, err error) {
	universityID, err = parseID(c, "university_id")
	if err != nil {
		return 0, 0, err
	}
	facultyID, err = parseID(c, "faculty_id")
	if err != nil {
		return 0, 0, err
	}
	return universityID, facultyID, nil
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
