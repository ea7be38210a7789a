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

// dateFormat is the wire format for ledger dates
const dateFormat = "2006-01-02"

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(dateFormat),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func transactionValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		return "User ID is required", true
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be a positive number", true
	case errors.Is(err, domain.ErrInvalidType):
		return "Type must be income or expense", true
	case errors.Is(err, domain.ErrCategoryRequired):
		return "Category is required", true
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return "Description is too long", true
	}
	return "", false
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	input := service.CreateTransactionInput{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := time.Parse(dateFormat, req.Date)
		if err != nil {
			return NewValidationError(c, "Date must be formatted as YYYY-MM-DD")
		}
		input.Date = &date
	}

	transaction, err := h.transactionService.CreateTransaction(input)
	if err != nil {
		if msg, ok := transactionValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := c.QueryParam("userId")

	filters := &domain.TransactionFilters{}
	if v := c.QueryParam("type"); v != "" {
		transactionType := domain.TransactionType(v)
		if !transactionType.Valid() {
			return NewValidationError(c, "Type must be income or expense")
		}
		filters.Type = &transactionType
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := time.Parse(dateFormat, v)
		if err != nil {
			return NewValidationError(c, "startDate must be formatted as YYYY-MM-DD")
		}
		filters.StartDate = &start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := time.Parse(dateFormat, v)
		if err != nil {
			return NewValidationError(c, "endDate must be formatted as YYYY-MM-DD")
		}
		filters.EndDate = &end
	}

	transactions, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrUserIDRequired) {
			return NewValidationError(c, "User ID is required")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID")
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		return NewValidationError(c, "Date must be formatted as YYYY-MM-DD")
	}

	transaction, err := h.transactionService.UpdateTransaction(id, service.UpdateTransactionInput{
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		if msg, ok := transactionValidationMessage(err); ok {
			return NewValidationError(c, msg)
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID")
	}

	transaction, err := h.transactionService.DeleteTransaction(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}
