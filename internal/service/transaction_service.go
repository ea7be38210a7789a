package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/websocket"
)

// TransactionService handles transaction-related business logic. Every
// mutation runs under the shared ledger lock so the write and its
// budget reconciliation form one atomic step.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	lock            *LedgerLock
	publisher       websocket.EventPublisher
	cache           SummaryCache
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	lock *LedgerLock,
	publisher websocket.EventPublisher,
	cache SummaryCache,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		lock:            lock,
		publisher:       publisher,
		cache:           cache,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	UserID      string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Description string
	Date        *time.Time
}

func validateTransactionFields(amount decimal.Decimal, transactionType domain.TransactionType, category, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !transactionType.Valid() {
		return domain.ErrInvalidType
	}
	if category == "" {
		return domain.ErrCategoryRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}
	return nil
}

// CreateTransaction records a new transaction and folds an expense
// into the matching budget's spent total
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	category := strings.TrimSpace(input.Category)
	if err := validateTransactionFields(input.Amount, input.Type, category, input.Description); err != nil {
		return nil, err
	}

	// Default date to today
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:      userID,
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	if transaction.Type == domain.TransactionTypeExpense {
		if err := s.adjustBudgetSpent(userID, transaction.Category, transaction.Amount); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("transaction_id", transaction.ID.String()).
		Str("user_id", userID).
		Str("type", string(transaction.Type)).
		Str("amount", transaction.Amount.StringFixed(2)).
		Msg("Transaction created")

	s.cache.Invalidate(userID)
	s.publisher.Publish(userID, websocket.TransactionCreated(transaction))

	return transaction, nil
}

// GetTransactions retrieves a user's transactions with optional filters
func (s *TransactionService) GetTransactions(userID string, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves a single transaction
func (s *TransactionService) GetTransactionByID(id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// UpdateTransactionInput holds the full replacement state for a transaction
type UpdateTransactionInput struct {
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Description string
	Date        time.Time
}

// UpdateTransaction replaces a transaction's fields and reconciles
// budget spent totals: the old amount is backed out of its budget if
// the old side was an expense, then the new amount is folded in if the
// new side is an expense. Both legs run unconditionally so changes to
// amount, category or type all land correctly.
func (s *TransactionService) UpdateTransaction(id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	category := strings.TrimSpace(input.Category)
	if err := validateTransactionFields(input.Amount, input.Type, category, input.Description); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	old, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(id, &domain.UpdateTransactionData{
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}

	if old.Type == domain.TransactionTypeExpense {
		if err := s.adjustBudgetSpent(old.UserID, old.Category, old.Amount.Neg()); err != nil {
			return nil, err
		}
	}
	if updated.Type == domain.TransactionTypeExpense {
		if err := s.adjustBudgetSpent(updated.UserID, updated.Category, updated.Amount); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("user_id", updated.UserID).
		Msg("Transaction updated")

	s.cache.Invalidate(updated.UserID)
	s.publisher.Publish(updated.UserID, websocket.TransactionUpdated(updated))

	return updated, nil
}

// DeleteTransaction removes a transaction and backs an expense out of
// the matching budget's spent total
func (s *TransactionService) DeleteTransaction(id uuid.UUID) (*domain.Transaction, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deleted, err := s.transactionRepo.Delete(id)
	if err != nil {
		return nil, err
	}

	if deleted.Type == domain.TransactionTypeExpense {
		if err := s.adjustBudgetSpent(deleted.UserID, deleted.Category, deleted.Amount.Neg()); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("user_id", deleted.UserID).
		Msg("Transaction deleted")

	s.cache.Invalidate(deleted.UserID)
	s.publisher.Publish(deleted.UserID, websocket.TransactionDeleted(deleted))

	return deleted, nil
}

// adjustBudgetSpent shifts the spent total of the budget matching
// (userID, category) by delta. No matching budget is not an error.
// The total is not clamped: backing out an expense after spent was
// edited by hand can leave it negative, which the next edit corrects.
func (s *TransactionService) adjustBudgetSpent(userID, category string, delta decimal.Decimal) error {
	budget, err := s.budgetRepo.GetByCategory(userID, category)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil
		}
		return err
	}

	_, err = s.budgetRepo.UpdateSpent(budget.ID, budget.Spent.Add(delta))
	return err
}
