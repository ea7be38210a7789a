package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/service"
)

// SummaryHandler handles dashboard summary HTTP requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// CategorySpendingResponse is one spending bucket in the summary
type CategorySpendingResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Color    string `json:"color"`
}

// SummaryResponse represents the derived financial summary
type SummaryResponse struct {
	TotalIncome        string                     `json:"totalIncome"`
	TotalExpenses      string                     `json:"totalExpenses"`
	Balance            string                     `json:"balance"`
	BudgetStatus       domain.BudgetStatusCounts  `json:"budgetStatus"`
	RecentTransactions []TransactionResponse      `json:"recentTransactions"`
	SpendingByCategory []CategorySpendingResponse `json:"spendingByCategory"`
}

func toSummaryResponse(s *domain.FinancialSummary) SummaryResponse {
	recent := make([]TransactionResponse, len(s.RecentTransactions))
	for i, t := range s.RecentTransactions {
		recent[i] = toTransactionResponse(t)
	}
	spending := make([]CategorySpendingResponse, len(s.SpendingByCategory))
	for i, cs := range s.SpendingByCategory {
		spending[i] = CategorySpendingResponse{
			Category: cs.Category,
			Amount:   cs.Amount.StringFixed(2),
			Color:    cs.Color,
		}
	}
	return SummaryResponse{
		TotalIncome:        s.TotalIncome.StringFixed(2),
		TotalExpenses:      s.TotalExpenses.StringFixed(2),
		Balance:            s.Balance.StringFixed(2),
		BudgetStatus:       s.BudgetStatus,
		RecentTransactions: recent,
		SpendingByCategory: spending,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	userID := c.QueryParam("userId")

	summary, err := h.summaryService.GetSummary(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get summary")
		return NewInternalError(c, "Failed to get summary")
	}

	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}
