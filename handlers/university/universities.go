package university

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	service   *services.UniversityService
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(service *services.UniversityService) *UniversityHandler {
	return &UniversityHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateUniversityRequest represents the request body for creating a university
type CreateUniversityRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=255"`
	Address      string `json:"address" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"omitempty,max=100"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=255"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	Website      string `json:"website" validate:"omitempty,url,max=255"`
}

// UpdateUniversityRequest represents the request body for updating a university
type UpdateUniversityRequest struct {
	Name         string `json:"name" validate:"omitempty,min=3,max=255"`
	Address      string `json:"address" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"omitempty,max=100"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=255"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	Website      string `json:"website" validate:"omitempty,url,max=255"`
}

// ListUniversities handles GET /api/v1/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	universities, total, err := h.service.List(c.Context(), search, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, universities, response.CalculatePagination(page, limit, total))
}

// GetUniversity handles GET /api/v1/universities/:university_id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	university, err := h.service.Get(c.Context(), universityID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, university)
}

// CreateUniversity handles POST /api/v1/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.service.Create(c.Context(), services.CreateUniversityRequest{
		Name:         validation.SanitizeString(req.Name),
		Address:      validation.SanitizeString(req.Address),
		City:         validation.SanitizeString(req.City),
		Country:      validation.SanitizeString(req.Country),
		ContactEmail: validation.SanitizeString(req.ContactEmail),
		ContactPhone: validation.SanitizeString(req.ContactPhone),
		Website:      validation.SanitizeString(req.Website),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, university)
}

// UpdateUniversity handles PUT /api/v1/universities/:university_id
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.service.Update(c.Context(), universityID, services.UpdateUniversityRequest{
		Name:         validation.SanitizeString(req.Name),
		Address:      validation.SanitizeString(req.Address),
		City:         validation.SanitizeString(req.City),
		Country:      validation.SanitizeString(req.Country),
		ContactEmail: validation.SanitizeString(req.ContactEmail),
		ContactPhone: validation.SanitizeString(req.ContactPhone),
		Website:      validation.SanitizeString(req.Website),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "University updated successfully", university)
}

// UploadLogo handles POST /api/v1/universities/:university_id/logo
func (h *UniversityHandler) UploadLogo(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return response.BadRequest(c, "Logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	university, err := h.service.UploadLogo(c.Context(), universityID, fileHeader.Filename, contentType, file)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Logo uploaded successfully", university)
}

// DeleteUniversity handles DELETE /api/v1/universities/:university_id
// The deletion cascades through faculties, programs, modules, documents,
// posts, buildings, and employees in a single transaction.
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	universityID, err := parseID(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	if err := h.service.Delete(c.Context(), universityID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "University and all related data deleted successfully", nil)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
