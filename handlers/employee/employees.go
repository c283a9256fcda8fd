package employee

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
	"gorm.io/gorm"
)

// EmployeeHandler handles university staff requests
type EmployeeHandler struct {
	db        *gorm.DB
	hierarchy *services.HierarchyService
	validator *validation.Validator
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(db *gorm.DB, hierarchy *services.HierarchyService) *EmployeeHandler {
	return &EmployeeHandler{
		db:        db,
		hierarchy: hierarchy,
		validator: validation.NewValidator(),
	}
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Position  string `json:"position" validate:"omitempty,max=100"`
}

// UpdateEmployeeRequest represents the request body for updating an employee
type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Position  string `json:"position" validate:"omitempty,max=100"`
}

// ListEmployees handles GET /api/v1/universities/:university_id/employees
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
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

	query := h.db.Model(&model.Employee{}).Where("university_id = ?", universityID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR position ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count employees")
	}

	var employees []model.Employee
	err = query.Order("last_name ASC, first_name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&employees).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch employees")
	}

	return response.Paginated(c, employees, response.CalculatePagination(page, limit, total))
}

// GetEmployee handles GET /api/v1/universities/:university_id/employees/:employee_id
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	employeeID := c.Params("employee_id")

	var employee model.Employee
	if err := h.db.Where("university_id = ?", universityID).First(&employee, employeeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to fetch employee")
	}

	return response.Success(c, employee)
}

// CreateEmployee handles POST /api/v1/universities/:university_id/employees
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	if err := h.hierarchy.ValidateParentChain(c.Context(), services.ParentChain{UniversityID: universityID}); err != nil {
		return response.FromError(c, err)
	}

	var req CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	employee := model.Employee{
		UniversityID: universityID,
		FirstName:    validation.SanitizeString(req.FirstName),
		LastName:     validation.SanitizeString(req.LastName),
		Email:        validation.SanitizeString(req.Email),
		Position:     validation.SanitizeString(req.Position),
	}
	if err := h.db.Create(&employee).Error; err != nil {
		return response.InternalServerError(c, "Failed to create employee")
	}

	return response.Created(c, employee)
}

// UpdateEmployee handles PUT /api/v1/universities/:university_id/employees/:employee_id
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	employeeID := c.Params("employee_id")

	var req UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var employee model.Employee
	if err := h.db.Where("university_id = ?", universityID).First(&employee, employeeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c, "Failed to fetch employee")
	}

	if req.FirstName != "" {
		employee.FirstName = validation.SanitizeString(req.FirstName)
	}
	if req.LastName != "" {
		employee.LastName = validation.SanitizeString(req.LastName)
	}
	if req.Email != "" {
		employee.Email = validation.SanitizeString(req.Email)
	}
	if req.Position != "" {
		employee.Position = validation.SanitizeString(req.Position)
	}
	if err := h.db.Save(&employee).Error; err != nil {
		return response.InternalServerError(c, "Failed to update employee")
	}

	return response.SuccessWithMessage(c, "Employee updated successfully", employee)
}

// DeleteEmployee handles DELETE /api/v1/universities/:university_id/employees/:employee_id
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	employeeID := c.Params("employee_id")

	result := h.db.Where("university_id = ?", universityID).Delete(&model.Employee{}, employeeID)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete employee")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Employee not found")
	}

	return response.SuccessWithMessage(c, "Employee deleted successfully", nil)
}

func parseUniversityID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("university_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
