package building

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
	"gorm.io/gorm"
)

// BuildingHandler handles campus building requests
type BuildingHandler struct {
	db        *gorm.DB
	hierarchy *services.HierarchyService
	validator *validation.Validator
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(db *gorm.DB, hierarchy *services.HierarchyService) *BuildingHandler {
	return &BuildingHandler{
		db:        db,
		hierarchy: hierarchy,
		validator: validation.NewValidator(),
	}
}

// CreateBuildingRequest represents the request body for creating a building
type CreateBuildingRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// UpdateBuildingRequest represents the request body for updating a building
type UpdateBuildingRequest struct {
	Name    string `json:"name" validate:"omitempty,min=1,max=255"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// ListBuildings handles GET /api/v1/universities/:university_id/buildings
func (h *BuildingHandler) ListBuildings(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	if err := h.hierarchy.ValidateParentChain(c.Context(), services.ParentChain{UniversityID: universityID}); err != nil {
		return response.FromError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Building{}).Where("university_id = ?", universityID)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count buildings")
	}

	var buildings []model.Building
	err = query.Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&buildings).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch buildings")
	}

	return response.Paginated(c, buildings, response.CalculatePagination(page, limit, total))
}

// GetBuilding handles GET /api/v1/universities/:university_id/buildings/:building_id
func (h *BuildingHandler) GetBuilding(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	buildingID := c.Params("building_id")

	var building model.Building
	if err := h.db.Where("university_id = ?", universityID).First(&building, buildingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Building not found")
		}
		return response.InternalServerError(c, "Failed to fetch building")
	}

	return response.Success(c, building)
}

// CreateBuilding handles POST /api/v1/universities/:university_id/buildings
func (h *BuildingHandler) CreateBuilding(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	if err := h.hierarchy.ValidateParentChain(c.Context(), services.ParentChain{UniversityID: universityID}); err != nil {
		return response.FromError(c, err)
	}

	var req CreateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	building := model.Building{
		UniversityID: universityID,
		Name:         validation.SanitizeString(req.Name),
		Address:      validation.SanitizeString(req.Address),
	}
	if err := h.db.Create(&building).Error; err != nil {
		return response.InternalServerError(c, "Failed to create building")
	}

	return response.Created(c, building)
}

// UpdateBuilding handles PUT /api/v1/universities/:university_id/buildings/:building_id
func (h *BuildingHandler) UpdateBuilding(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	buildingID := c.Params("building_id")

	var req UpdateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var building model.Building
	if err := h.db.Where("university_id = ?", universityID).First(&building, buildingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Building not found")
		}
		return response.InternalServerError(c, "Failed to fetch building")
	}

	if req.Name != "" {
		building.Name = validation.SanitizeString(req.Name)
	}
	if req.Address != "" {
		building.Address = validation.SanitizeString(req.Address)
	}
	if err := h.db.Save(&building).Error; err != nil {
		return response.InternalServerError(c, "Failed to update building")
	}

	return response.SuccessWithMessage(c, "Building updated successfully", building)
}

// DeleteBuilding handles DELETE /api/v1/universities/:university_id/buildings/:building_id
func (h *BuildingHandler) DeleteBuilding(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	buildingID := c.Params("building_id")

	result := h.db.Where("university_id = ?", universityID).Delete(&model.Building{}, buildingID)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete building")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Building not found")
	}

	return response.SuccessWithMessage(c, "Building deleted successfully", nil)
}

func parseUniversityID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("university_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
