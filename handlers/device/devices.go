package device

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/middleware"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
	"gorm.io/gorm"
)

// DeviceHandler handles push notification device registration
type DeviceHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(db *gorm.DB) *DeviceHandler {
	return &DeviceHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required,min=10,max=255"`
	Platform string `json:"platform" validate:"required,oneof=android ios web"`
}

// ListDevices handles GET /api/v1/devices
func (h *DeviceHandler) ListDevices(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var devices []model.Device
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&devices).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch devices")
	}

	return response.Success(c, devices)
}

// RegisterDevice handles POST /api/v1/devices. Registering the same token
// twice is a no-op that returns the existing row.
func (h *DeviceHandler) RegisterDevice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Device
	if err := h.db.Where("user_id = ? AND token = ?", userID, req.Token).First(&existing).Error; err == nil {
		return response.Success(c, existing)
	}

	device := model.Device{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.db.Create(&device).Error; err != nil {
		return response.InternalServerError(c, "Failed to register device")
	}

	return response.Created(c, device)
}

// UnregisterDevice handles DELETE /api/v1/devices/:device_id
func (h *DeviceHandler) UnregisterDevice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	deviceID, err := strconv.ParseUint(c.Params("device_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid device id")
	}

	result := h.db.Where("user_id = ?", userID).Delete(&model.Device{}, uint(deviceID))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to unregister device")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Device not found")
	}

	return response.SuccessWithMessage(c, "Device unregistered successfully", nil)
}
