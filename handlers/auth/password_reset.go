package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/unilink-app/unilink-api/model"
	authutil "github.com/unilink-app/unilink-api/utils/auth"
	"github.com/unilink-app/unilink-api/utils/response"
)

// ResetTokenTTL is how long a password reset token stays valid
const ResetTokenTTL = time.Hour

// ForgotPasswordRequest starts a password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ForgotPassword issues a reset token for the given email. The response is
// identical whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		reset := model.PasswordResetToken{
			UserID:    user.ID,
			Token:     uuid.New().String(),
			ExpiresAt: time.Now().Add(ResetTokenTTL),
		}
		if err := h.db.Create(&reset).Error; err != nil {
			return response.InternalServerError(c, "Failed to create reset token")
		}
		// Mail delivery is handled out of band; the token is logged so
		// operators can hand it over during development.
		log.Printf("password reset token issued for user %d", user.ID)
	}

	return response.SuccessWithMessage(c, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword sets a new password given a valid reset token and invalidates
// every outstanding session of the user.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}
	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	var reset model.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}
	if reset.IsExpired() || reset.IsUsed() {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	passwordHash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	err = h.db.Model(&model.User{}).
		Where("id = ?", reset.UserID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
		}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	reset.MarkAsUsed()
	if err := h.db.Save(&reset).Error; err != nil {
		return response.InternalServerError(c, "Failed to finalize reset")
	}

	// Force re-login everywhere
	if err := h.blacklistService.RevokeAllUserTokens(c.Context(), reset.UserID); err != nil {
		return response.InternalServerError(c, "Failed to invalidate sessions")
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}
