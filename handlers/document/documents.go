package document

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/utils/middleware"
	"github.com/unilink-app/unilink-api/utils/pdfvalidation"
	"github.com/unilink-app/unilink-api/utils/response"
	"github.com/unilink-app/unilink-api/utils/validation"
)

// DocumentHandler handles document requests. The same handler backs the
// university, program, and module document routes; the owner is derived from
// the deepest path segment present.
type DocumentHandler struct {
	service   *services.DocumentService
	validator *validation.Validator
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// UpdateDocumentRequest represents the request body for updating document metadata
type UpdateDocumentRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ListDocuments handles GET .../documents for any owner scope
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	chain, owner, err := ownerFromPath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	documents, total, err := h.service.List(c.Context(), chain, owner, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, documents, response.CalculatePagination(page, limit, total))
}

// GetDocument handles GET .../documents/:document_id
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	chain, owner, err := ownerFromPath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}
	documentID, err := parseID(c, "document_id")
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	document, err := h.service.Get(c.Context(), chain, owner, documentID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, document)
}

// UploadDocument handles POST .../documents. Only PDF uploads are accepted;
// the file is checked for size and page count before it is stored.
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	chain, owner, err := ownerFromPath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Document file is required")
	}

	name := validation.SanitizeString(c.FormValue("name", fileHeader.Filename))
	description := validation.SanitizeString(c.FormValue("description", ""))

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	result, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.DocumentLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate PDF")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	document, err := h.service.Upload(c.Context(), chain, owner, services.UploadDocumentRequest{
		Name:        name,
		Description: description,
		Filename:    fileHeader.Filename,
		ContentType: "application/pdf",
		Size:        result.FileSize,
		PageCount:   result.PageCount,
		Data:        bytes.NewReader(content),
		UploadedBy:  userID,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, document)
}

// UpdateDocument handles PUT .../documents/:document_id
func (h *DocumentHandler) UpdateDocument(c *fiber.Ctx) error {
	chain, owner, err := ownerFromPath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}
	documentID, err := parseID(c, "document_id")
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	var req UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	document, err := h.service.UpdateMetadata(c.Context(), chain, owner, documentID, services.UpdateDocumentRequest{
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Document updated successfully", document)
}

// DeleteDocument handles DELETE .../documents/:document_id
func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	chain, owner, err := ownerFromPath(c)
	if err != nil {
		return response.BadRequest(c, "Invalid path parameters")
	}
	documentID, err := parseID(c, "document_id")
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	if err := h.service.Delete(c.Context(), chain, owner, documentID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Document deleted successfully", nil)
}

// ownerFromPath reads the nested route params and resolves the owning
// resource: the deepest id present wins.
func ownerFromPath(c *fiber.Ctx) (services.ParentChain, model.DocumentOwner, error) {
	var chain services.ParentChain
	var owner model.DocumentOwner

	universityID, err := parseID(c, "university_id")
	if err != nil {
		return chain, owner, err
	}
	chain.UniversityID = universityID
	owner = model.DocumentOwner{Kind: model.DocumentOwnerUniversity, ID: universityID}

	if raw := c.Params("faculty_id"); raw != "" {
		facultyID, err := parseID(c, "faculty_id")
		if err != nil {
			return chain, owner, err
		}
		chain.FacultyID = facultyID
	}

	if raw := c.Params("program_id"); raw != "" {
		programID, err := parseID(c, "program_id")
		if err != nil {
			return chain, owner, err
		}
		chain.ProgramID = programID
		owner = model.DocumentOwner{Kind: model.DocumentOwnerProgram, ID: programID}
	}

	if raw := c.Params("module_id"); raw != "" {
		moduleID, err := parseID(c, "module_id")
		if err != nil {
			return chain, owner, err
		}
		chain.ModuleID = moduleID
		owner = model.DocumentOwner{Kind: model.DocumentOwnerModule, ID: moduleID}
	}

	return chain, owner, nil
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
