package module

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// ModuleHandler handles course module requests
type ModuleHandler struct {
	service   *services.ModuleService
	validator *validation.Validator
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(service *services.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateModuleRequest represents the request body for creating a module
type CreateModuleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Credits     int    `json:"credits" validate:"omitempty,min=0,max=60"`
	Semester    int    `json:"semester" validate:"omitempty,min=1,max=20"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// UpdateModuleRequest represents the request body for updating a module
type UpdateModuleRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Credits     *int   `json:"credits" validate:"omitempty,min=0,max=60"`
	Semester    *int   `json:"semester" validate:"omitempty,min=1,max=20"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ListModules handles GET .../programs/:program_id/modules
func (h *ModuleHandler) ListModules(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, false)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	modules, total, err := h.service.List(c.Context(), chain, search, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, modules, response.CalculatePagination(page, limit, total))
}

// GetModule handles GET .../modules/:module_id
func (h *ModuleHandler) GetModule(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	module, err := h.service.Get(c.Context(), chain)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, module)
}

// CreateModule handles POST .../programs/:program_id/modules
func (h *ModuleHandler) CreateModule(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, false)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	var req CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	module, err := h.service.Create(c.Context(), chain, services.CreateModuleRequest{
		Name:        validation.SanitizeString(req.Name),
		Credits:     req.Credits,
		Semester:    req.Semester,
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, module)
}

// UpdateModule handles PUT .../modules/:module_id
func (h *ModuleHandler) UpdateModule(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	var req UpdateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	module, err := h.service.Update(c.Context(), chain, services.UpdateModuleRequest{
		Name:        validation.SanitizeString(req.Name),
		Credits:     req.Credits,
		Semester:    req.Semester,
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Module updated successfully", module)
}

// DeleteModule handles DELETE .../modules/:module_id
// Deletes the module together with its documents in one transaction.
func (h *ModuleHandler) DeleteModule(c *fiber.Ctx) error {
	chain, err := chainFromPath(c, true)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	if err := h.service.Delete(c.Context(), chain); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Module and all related data deleted successfully", nil)
}

func chainFromPath(c *fiber.Ctx, withModule bool) (services.ParentChain, error) {
	var chain services.ParentChain

	universityID, err := strconv.ParseUint(c.Params("university_id"), 10, 32)
	if err != nil {
		return chain, err
	}
	facultyID, err := strconv.ParseUint(c.Params("faculty_id"), 10, 32)
	if err != nil {
		return chain, err
	}
	programID, err := strconv.ParseUint(c.Params("program_id"), 10, 32)
	if err != nil {
		return chain, err
	}
	chain.UniversityID = uint(universityID)
	chain.FacultyID = uint(facultyID)
	chain.ProgramID = uint(programID)

	if withModule {
		moduleID, err := strconv.ParseUint(c.Params("module_id"), 10, 32)
		if err != nil {
			return chain, err
		}
		chain.ModuleID = uint(moduleID)
	}
	return chain, nil
}
