package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/websocket"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	lock            *LedgerLock
	publisher       websocket.EventPublisher
	cache           SummaryCache
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	lock *LedgerLock,
	publisher websocket.EventPublisher,
	cache SummaryCache,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		lock:            lock,
		publisher:       publisher,
		cache:           cache,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	UserID   string
	Category string
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	Period   domain.BudgetPeriod
}

// CreateBudget creates a new budget. Spent defaults to zero; a caller
// seeding existing spending may pass a non-negative starting total.
// Transactions recorded before the budget existed are not back-filled.
func (s *BudgetService) CreateBudget(input CreateBudgetInput) (*domain.Budget, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Spent.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	budget, err := s.budgetRepo.Create(&domain.Budget{
		UserID:   userID,
		Category: category,
		Amount:   input.Amount,
		Spent:    input.Spent,
		Period:   input.Period,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("budget_id", budget.ID.String()).
		Str("user_id", userID).
		Str("category", category).
		Str("amount", budget.Amount.StringFixed(2)).
		Msg("Budget created")

	s.cache.Invalidate(userID)
	s.publisher.Publish(userID, websocket.BudgetCreated(budget))

	return budget, nil
}

// GetBudgets retrieves all budgets for a user
func (s *BudgetService) GetBudgets(userID string) ([]*domain.Budget, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.budgetRepo.GetByUser(userID)
}

// GetBudgetByID retrieves a single budget
func (s *BudgetService) GetBudgetByID(id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(id)
}

// UpdateBudgetInput holds the full replacement state for a budget
type UpdateBudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	Period   domain.BudgetPeriod
}

// UpdateBudget replaces a budget's fields
func (s *BudgetService) UpdateBudget(id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Spent.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	budget, err := s.budgetRepo.Update(id, &domain.UpdateBudgetData{
		Category: category,
		Amount:   input.Amount,
		Spent:    input.Spent,
		Period:   input.Period,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("budget_id", id.String()).
		Str("user_id", budget.UserID).
		Msg("Budget updated")

	s.cache.Invalidate(budget.UserID)
	s.publisher.Publish(budget.UserID, websocket.BudgetUpdated(budget))

	return budget, nil
}

// RecalculateSpent rebuilds a budget's spent total from the expense
// transactions currently recorded in its category. It repairs drift
// after manual spent edits or seeded totals that no longer match the
// ledger.
func (s *BudgetService) RecalculateSpent(id uuid.UUID) (*domain.Budget, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	budget, err := s.budgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	sum, err := s.transactionRepo.SumExpensesByCategory(budget.UserID, budget.Category)
	if err != nil {
		return nil, err
	}

	updated, err := s.budgetRepo.UpdateSpent(id, sum)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("budget_id", id.String()).
		Str("user_id", updated.UserID).
		Str("spent", updated.Spent.StringFixed(2)).
		Msg("Budget spent recalculated")

	s.cache.Invalidate(updated.UserID)
	s.publisher.Publish(updated.UserID, websocket.BudgetUpdated(updated))

	return updated, nil
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(id uuid.UUID) (*domain.Budget, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deleted, err := s.budgetRepo.Delete(id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("budget_id", id.String()).
		Str("user_id", deleted.UserID).
		Msg("Budget deleted")

	s.cache.Invalidate(deleted.UserID)
	s.publisher.Publish(deleted.UserID, websocket.BudgetDeleted(deleted))

	return deleted, nil
}
