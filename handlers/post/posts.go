package post

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
	"gorm.io/gorm"
)

// PostHandler handles university announcement requests
type PostHandler struct {
	db        *gorm.DB
	hierarchy *services.HierarchyService
	validator *validation.Validator
}

// NewPostHandler creates a new post handler
func NewPostHandler(db *gorm.DB, hierarchy *services.HierarchyService) *PostHandler {
	return &PostHandler{
		db:        db,
		hierarchy: hierarchy,
		validator: validation.NewValidator(),
	}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"omitempty,max=20000"`
}

// UpdatePostRequest represents the request body for updating a post
type UpdatePostRequest struct {
	Title   string `json:"title" validate:"omitempty,min=1,max=255"`
	Content string `json:"content" validate:"omitempty,max=20000"`
}

// ListPosts handles GET /api/v1/universities/:university_id/posts
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	if err := h.hierarchy.ValidateParentChain(c.Context(), services.ParentChain{UniversityID: universityID}); err != nil {
		return response.FromError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Post{}).Where("university_id = ?", universityID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count posts")
	}

	var posts []model.Post
	err = query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch posts")
	}

	return response.Paginated(c, posts, response.CalculatePagination(page, limit, total))
}

// GetPost handles GET /api/v1/universities/:university_id/posts/:post_id
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	postID := c.Params("post_id")

	var post model.Post
	if err := h.db.Where("university_id = ?", universityID).First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	return response.Success(c, post)
}

// CreatePost handles POST /api/v1/universities/:university_id/posts
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	if err := h.hierarchy.ValidateParentChain(c.Context(), services.ParentChain{UniversityID: universityID}); err != nil {
		return response.FromError(c, err)
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	post := model.Post{
		UniversityID: universityID,
		Title:        validation.SanitizeString(req.Title),
		Content:      validation.SanitizeString(req.Content),
	}
	if err := h.db.Create(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to create post")
	}

	return response.Created(c, post)
}

// UpdatePost handles PUT /api/v1/universities/:university_id/posts/:post_id
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	postID := c.Params("post_id")

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var post model.Post
	if err := h.db.Where("university_id = ?", universityID).First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	if req.Title != "" {
		post.Title = validation.SanitizeString(req.Title)
	}
	if req.Content != "" {
		post.Content = validation.SanitizeString(req.Content)
	}
	if err := h.db.Save(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to update post")
	}

	return response.SuccessWithMessage(c, "Post updated successfully", post)
}

// DeletePost handles DELETE /api/v1/universities/:university_id/posts/:post_id
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	universityID, err := parseUniversityID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}
	postID := c.Params("post_id")

	result := h.db.Where("university_id = ?", universityID).Delete(&model.Post{}, postID)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete post")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Post not found")
	}

	return response.SuccessWithMessage(c, "Post deleted successfully", nil)
}

func parseUniversityID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("university_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
