package service

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tallybook/tallybook-backend/internal/domain"
)

// SummaryService derives the financial summary for a user's dashboard.
// Summaries are recomputed from current ledger state on every miss;
// mutating services invalidate the cache entry so reads after a write
// always reflect it.
type SummaryService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	lock            *LedgerLock
	cache           SummaryCache
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	lock *LedgerLock,
	cache SummaryCache,
) *SummaryService {
	return &SummaryService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		lock:            lock,
		cache:           cache,
	}
}

// GetSummary returns the derived financial summary for a user
func (s *SummaryService) GetSummary(userID string) (*domain.FinancialSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	if summary, ok := s.cache.Get(userID); ok {
		log.Debug().Str("user_id", userID).Msg("Summary served from cache")
		return summary, nil
	}

	// Hold the ledger lock so the three reads see one consistent state
	s.lock.Lock()
	defer s.lock.Unlock()

	transactions, err := s.transactionRepo.GetByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := domain.ComputeSummary(transactions, budgets, categories)
	s.cache.Set(userID, summary)

	return summary, nil
}
