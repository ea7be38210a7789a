package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/service"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	UserID   string          `json:"userId"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
	Period   string          `json:"period"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Spent     string `json:"spent"`
	Period    string `json:"period"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID,
		Category:  b.Category,
		Amount:    b.Amount.StringFixed(2),
		Spent:     b.Spent.StringFixed(2),
		Period:    string(b.Period),
		Status:    string(b.Status()),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

func budgetValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		return "User ID is required", true
	case errors.Is(err, domain.ErrCategoryRequired):
		return "Category is required", true
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be a positive number", true
	case errors.Is(err, domain.ErrInvalidPeriod):
		return "Period must be weekly, monthly or yearly", true
	}
	return "", false
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	budget, err := h.budgetService.CreateBudget(service.CreateBudgetInput{
		UserID:   req.UserID,
		Category: req.Category,
		Amount:   req.Amount,
		Spent:    req.Spent,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if msg, ok := budgetValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := c.QueryParam("userId")

	budgets, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b)
	}

	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID")
	}

	budget, err := h.budgetService.GetBudgetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	budget, err := h.budgetService.UpdateBudget(id, service.UpdateBudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
		Spent:    req.Spent,
		Period:   domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		if msg, ok := budgetValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// RecalculateBudget handles POST /api/v1/budgets/:id/recalculate
func (h *BudgetHandler) RecalculateBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID")
	}

	budget, err := h.budgetService.RecalculateSpent(id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to recalculate budget")
		return NewInternalError(c, "Failed to recalculate budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID")
	}

	budget, err := h.budgetService.DeleteBudget(id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}
