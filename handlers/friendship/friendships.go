package friendship

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/middleware"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// FriendshipHandler handles friend requests and friendships
type FriendshipHandler struct {
	service   *services.FriendshipService
	validator *validation.Validator
}

// NewFriendshipHandler creates a new friendship handler
func NewFriendshipHandler(service *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// AddFriendRequest represents the request body for sending a friend request
type AddFriendRequest struct {
	FriendID uint `json:"friend_id" validate:"required"`
}

// HandleFriendRequest represents the request body for accepting or declining
// a pending friend request
type HandleFriendRequest struct {
	FriendID uint   `json:"friend_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=accept decline"`
}

// ListFriends handles GET /api/v1/friends
func (h *FriendshipHandler) ListFriends(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	name := c.Query("name", "")

	friends, total, err := h.service.ListFriends(c.Context(), userID, name, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, friends, response.CalculatePagination(page, limit, total))
}

// ListFriendRequests handles GET /api/v1/friends/requests
func (h *FriendshipHandler) ListFriendRequests(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	requests, err := h.service.ListFriendRequests(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, requests)
}

// SendFriendRequest handles POST /api/v1/friends/requests
func (h *FriendshipHandler) SendFriendRequest(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req AddFriendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	friendship, err := h.service.AddFriendRequest(c.Context(), userID, req.FriendID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, friendship)
}

// HandleRequest handles PUT /api/v1/friends/requests. Accepting creates the
// mirrored friendship rows; declining removes the request entirely.
func (h *FriendshipHandler) HandleRequest(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req HandleFriendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	friendship, err := h.service.HandleRequest(c.Context(), userID, req.FriendID, req.Action == "accept")
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, friendship)
}

// DeleteFriend handles DELETE /api/v1/friends/:friend_id
func (h *FriendshipHandler) DeleteFriend(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	friendID, err := strconv.ParseUint(c.Params("friend_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid friend id")
	}

	if err := h.service.DeleteFriend(c.Context(), userID, uint(friendID)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Friend removed successfully", nil)
}
