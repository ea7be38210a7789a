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

// GoalHandler handles savings-goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update goal request body
type GoalRequest struct {
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      string          `json:"deadline"`
}

// GoalProgressRequest represents the contribution request body
type GoalProgressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Title         string `json:"title"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:            g.ID.String(),
		UserID:        g.UserID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Deadline:      g.Deadline.Format(dateFormat),
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     g.UpdatedAt.Format(time.RFC3339),
	}
}

func goalValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		return "User ID is required", true
	case errors.Is(err, domain.ErrTitleRequired):
		return "Title is required", true
	case errors.Is(err, domain.ErrNameTooLong):
		return "Title is too long", true
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be a positive number", true
	case errors.Is(err, domain.ErrTargetExceeded):
		return "Current amount cannot exceed the target amount", true
	}
	return "", false
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	deadline, err := time.Parse(dateFormat, req.Deadline)
	if err != nil {
		return NewValidationError(c, "Deadline must be formatted as YYYY-MM-DD")
	}

	goal, err := h.goalService.CreateGoal(service.CreateGoalInput{
		UserID:        req.UserID,
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
	})
	if err != nil {
		if msg, ok := goalValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := c.QueryParam("userId")

	goals, err := h.goalService.GetGoals(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get goals")
		return NewInternalError(c, "Failed to get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, g := range goals {
		response[i] = toGoalResponse(g)
	}

	return c.JSON(http.StatusOK, response)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID")
	}

	goal, err := h.goalService.GetGoalByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to get goal")
		return NewInternalError(c, "Failed to get goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	deadline, err := time.Parse(dateFormat, req.Deadline)
	if err != nil {
		return NewValidationError(c, "Deadline must be formatted as YYYY-MM-DD")
	}

	goal, err := h.goalService.UpdateGoal(id, service.UpdateGoalInput{
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
	})
	if err != nil {
		if msg, ok := goalValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to update goal")
		return NewInternalError(c, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoalProgress handles PATCH /api/v1/goals/:id/progress
func (h *GoalHandler) UpdateGoalProgress(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID")
	}

	var req GoalProgressRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	goal, err := h.goalService.Contribute(id, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Contribution amount must be a positive number")
		}
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to update goal progress")
		return NewInternalError(c, "Failed to update goal progress")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID")
	}

	goal, err := h.goalService.DeleteGoal(id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}
