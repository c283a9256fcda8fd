package auth

import (
	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/unilink-app/unilink-api/model"
	authutil "github.com/unilink-app/unilink-api/utils/auth"
	"github.com/unilink-app/unilink-api/utils/response"
	"gorm.io/gorm"
)

// GoogleLoginRequest carries a Google-issued ID token
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// LoginGoogle handles login/signup with a Google ID token. A first-time
// Google user gets a student account keyed by the Google subject id.
func (h *AuthHandler) LoginGoogle(c *fiber.Ctx) error {
	var req GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IDToken == "" {
		return response.BadRequest(c, "id_token is required")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{h.googleClientID}); err != nil {
		return response.Unauthorized(c, "Invalid Google ID token")
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return response.InternalServerError(c, "Failed to decode ID token")
	}

	var user model.User
	err = h.db.Where("google_id = ?", claimSet.Sub).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// Fall back to a matching email so an existing password account gets
		// linked instead of duplicated.
		err = h.db.Where("email = ?", claimSet.Email).First(&user).Error
		if err == nil {
			googleID := claimSet.Sub
			user.GoogleID = &googleID
			if err := h.db.Save(&user).Error; err != nil {
				return response.InternalServerError(c, "Failed to link Google account")
			}
			return h.issueTokens(c, &user)
		}
		if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, "Failed to look up user")
		}

		// New account. Google users never log in with this password; it only
		// satisfies the not-null column.
		placeholder, err := authutil.HashPassword(uuid.New().String())
		if err != nil {
			return response.InternalServerError(c, "Failed to create user")
		}

		googleID := claimSet.Sub
		user = model.User{
			Email:        claimSet.Email,
			PasswordHash: placeholder,
			FirstName:    claimSet.GivenName,
			LastName:     claimSet.FamilyName,
			Role:         model.RoleStudent,
			GoogleID:     &googleID,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to create user")
		}
	} else if err != nil {
		return response.InternalServerError(c, "Failed to look up user")
	}

	return h.issueTokens(c, &user)
}
