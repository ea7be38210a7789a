package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/service"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Color  string `json:"color"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func categoryValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		return "User ID is required", true
	case errors.Is(err, domain.ErrNameRequired):
		return "Name is required", true
	case errors.Is(err, domain.ErrNameTooLong):
		return "Name is too long", true
	case errors.Is(err, domain.ErrInvalidType):
		return "Type must be income or expense", true
	}
	return "", false
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	category, err := h.categoryService.CreateCategory(service.CreateCategoryInput{
		UserID: req.UserID,
		Name:   req.Name,
		Type:   domain.TransactionType(req.Type),
		Color:  req.Color,
	})
	if err != nil {
		if msg, ok := categoryValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		if errors.Is(err, domain.ErrCategoryExists) {
			return NewConflictError(c, "A category with this name already exists")
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := c.QueryParam("userId")

	categories, err := h.categoryService.GetCategories(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		response[i] = toCategoryResponse(cat)
	}

	return c.JSON(http.StatusOK, response)
}

// SeedDefaultCategories handles POST /api/v1/categories/defaults
func (h *CategoryHandler) SeedDefaultCategories(c echo.Context) error {
	userID := c.QueryParam("userId")

	categories, err := h.categoryService.EnsureDefaults(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to seed default categories")
		return NewInternalError(c, "Failed to seed default categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		response[i] = toCategoryResponse(cat)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	category, err := h.categoryService.UpdateCategory(id, service.UpdateCategoryInput{
		Name:  req.Name,
		Type:  domain.TransactionType(req.Type),
		Color: req.Color,
	})
	if err != nil {
		if msg, ok := categoryValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to update category")
		return NewInternalError(c, "Failed to update category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID")
	}

	category, err := h.categoryService.DeleteCategory(id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}
