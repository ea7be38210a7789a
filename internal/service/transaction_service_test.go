package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/testutil"
)

func newTransactionServiceFixture() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockBudgetRepository, *testutil.RecordingPublisher, *testutil.RecordingCache) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewRecordingPublisher()
	cache := testutil.NewRecordingCache()
	svc := NewTransactionService(transactionRepo, budgetRepo, NewLedgerLock(), publisher, cache)
	return svc, transactionRepo, budgetRepo, publisher, cache
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, _, _, _, _ := newTransactionServiceFixture()

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name:    "missing user",
			input:   CreateTransactionInput{Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense, Category: "Food"},
			wantErr: domain.ErrUserIDRequired,
		},
		{
			name:    "zero amount",
			input:   CreateTransactionInput{UserID: "u1", Amount: decimal.Zero, Type: domain.TransactionTypeExpense, Category: "Food"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   CreateTransactionInput{UserID: "u1", Amount: decimal.NewFromInt(-5), Type: domain.TransactionTypeExpense, Category: "Food"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown type",
			input:   CreateTransactionInput{UserID: "u1", Amount: decimal.NewFromInt(10), Type: "transfer", Category: "Food"},
			wantErr: domain.ErrInvalidType,
		},
		{
			name:    "missing category",
			input:   CreateTransactionInput{UserID: "u1", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense},
			wantErr: domain.ErrCategoryRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateTransaction_ExpenseFoldsIntoBudget(t *testing.T) {
	svc, _, budgetRepo, publisher, cache := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(20000),
		Spent:    decimal.NewFromInt(18000),
		Period:   domain.BudgetPeriodMonthly,
	})

	transaction, err := svc.CreateTransaction(CreateTransactionInput{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(5000),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budget, err := budgetRepo.GetByCategory("u1", "Food")
	if err != nil {
		t.Fatalf("Expected budget, got %v", err)
	}
	if !budget.Spent.Equal(decimal.NewFromInt(23000)) {
		t.Errorf("Expected spent 23000, got %s", budget.Spent)
	}
	if budget.Status() != domain.BudgetStatusExceeded {
		t.Errorf("Expected exceeded status, got %s", budget.Status())
	}

	if transaction.ID.String() == "" {
		t.Error("Expected transaction to be assigned an ID")
	}
	if got := publisher.EventTypes(); len(got) != 1 || got[0] != "transaction.created" {
		t.Errorf("Expected [transaction.created], got %v", got)
	}
	if len(cache.Invalidated) != 1 || cache.Invalidated[0] != "u1" {
		t.Errorf("Expected cache invalidation for u1, got %v", cache.Invalidated)
	}
}

func TestCreateTransaction_IncomeLeavesBudgetsAlone(t *testing.T) {
	svc, _, budgetRepo, _, _ := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Salary",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(100),
		Period:   domain.BudgetPeriodMonthly,
	})

	_, err := svc.CreateTransaction(CreateTransactionInput{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(500),
		Type:     domain.TransactionTypeIncome,
		Category: "Salary",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budget, _ := budgetRepo.GetByCategory("u1", "Salary")
	if !budget.Spent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected spent unchanged at 100, got %s", budget.Spent)
	}
}

func TestCreateTransaction_NoMatchingBudget(t *testing.T) {
	svc, _, _, _, _ := newTransactionServiceFixture()

	// An expense in a category with no budget must still be recorded
	transaction, err := svc.CreateTransaction(CreateTransactionInput{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(42),
		Type:     domain.TransactionTypeExpense,
		Category: "Misc",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.Category != "Misc" {
		t.Errorf("Expected category Misc, got %s", transaction.Category)
	}
}

func TestCreateTransaction_DefaultsDateToToday(t *testing.T) {
	svc, _, _, _, _ := newTransactionServiceFixture()

	transaction, err := svc.CreateTransaction(CreateTransactionInput{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(10),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !transaction.Date.Equal(today) {
		t.Errorf("Expected date %v, got %v", today, transaction.Date)
	}
}

func TestUpdateTransaction_AmountChangeReconciles(t *testing.T) {
	svc, transactionRepo, budgetRepo, _, _ := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(300),
		Period:   domain.BudgetPeriodMonthly,
	})
	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(300),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	}
	transactionRepo.AddTransaction(existing)

	_, err := svc.UpdateTransaction(existing.ID, UpdateTransactionInput{
		Amount:   decimal.NewFromInt(450),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     existing.Date,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budget, _ := budgetRepo.GetByCategory("u1", "Food")
	if !budget.Spent.Equal(decimal.NewFromInt(450)) {
		t.Errorf("Expected spent 450, got %s", budget.Spent)
	}
}

func TestUpdateTransaction_CategoryChangeMovesSpending(t *testing.T) {
	svc, transactionRepo, budgetRepo, _, _ := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(200),
		Period:   domain.BudgetPeriodMonthly,
	})
	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Entertainment",
		Amount:   decimal.NewFromInt(500),
		Spent:    decimal.Zero,
		Period:   domain.BudgetPeriodMonthly,
	})
	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(200),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	}
	transactionRepo.AddTransaction(existing)

	_, err := svc.UpdateTransaction(existing.ID, UpdateTransactionInput{
		Amount:   decimal.NewFromInt(200),
		Type:     domain.TransactionTypeExpense,
		Category: "Entertainment",
		Date:     existing.Date,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	food, _ := budgetRepo.GetByCategory("u1", "Food")
	if !food.Spent.IsZero() {
		t.Errorf("Expected Food spent 0, got %s", food.Spent)
	}
	entertainment, _ := budgetRepo.GetByCategory("u1", "Entertainment")
	if !entertainment.Spent.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected Entertainment spent 200, got %s", entertainment.Spent)
	}
}

func TestUpdateTransaction_TypeChangeReconciles(t *testing.T) {
	svc, transactionRepo, budgetRepo, _, _ := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(250),
		Period:   domain.BudgetPeriodMonthly,
	})
	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(250),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	}
	transactionRepo.AddTransaction(existing)

	// Flip expense -> income with nothing else changed
	_, err := svc.UpdateTransaction(existing.ID, UpdateTransactionInput{
		Amount:   decimal.NewFromInt(250),
		Type:     domain.TransactionTypeIncome,
		Category: "Food",
		Date:     existing.Date,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budget, _ := budgetRepo.GetByCategory("u1", "Food")
	if !budget.Spent.IsZero() {
		t.Errorf("Expected spent 0 after flip to income, got %s", budget.Spent)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTransactionServiceFixture()

	_, err := svc.UpdateTransaction(uuid.New(), UpdateTransactionInput{
		Amount:   decimal.NewFromInt(10),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteTransaction_BacksOutExpense(t *testing.T) {
	svc, transactionRepo, budgetRepo, publisher, _ := newTransactionServiceFixture()

	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(600),
		Period:   domain.BudgetPeriodMonthly,
	})
	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(600),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	}
	transactionRepo.AddTransaction(existing)

	deleted, err := svc.DeleteTransaction(existing.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !deleted.Amount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected deleted amount 600, got %s", deleted.Amount)
	}

	budget, _ := budgetRepo.GetByCategory("u1", "Food")
	if !budget.Spent.IsZero() {
		t.Errorf("Expected spent 0, got %s", budget.Spent)
	}
	if got := publisher.EventTypes(); len(got) != 1 || got[0] != "transaction.deleted" {
		t.Errorf("Expected [transaction.deleted], got %v", got)
	}
}

func TestDeleteTransaction_SpentNotClamped(t *testing.T) {
	svc, transactionRepo, budgetRepo, _, _ := newTransactionServiceFixture()

	// Spent was manually reset below the transaction's amount
	budgetRepo.AddBudget(&domain.Budget{
		UserID:   "u1",
		Category: "Food",
		Amount:   decimal.NewFromInt(1000),
		Spent:    decimal.NewFromInt(100),
		Period:   domain.BudgetPeriodMonthly,
	})
	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(300),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Now().UTC(),
	}
	transactionRepo.AddTransaction(existing)

	if _, err := svc.DeleteTransaction(existing.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	budget, _ := budgetRepo.GetByCategory("u1", "Food")
	if !budget.Spent.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected spent -200, got %s", budget.Spent)
	}
}

func TestGetTransactions_RequiresUser(t *testing.T) {
	svc, _, _, _, _ := newTransactionServiceFixture()

	_, err := svc.GetTransactions("", nil)
	if !errors.Is(err, domain.ErrUserIDRequired) {
		t.Errorf("Expected ErrUserIDRequired, got %v", err)
	}
}

func TestGetTransactions_Filters(t *testing.T) {
	svc, transactionRepo, _, _, _ := newTransactionServiceFixture()

	day := func(d int) time.Time {
		return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
	}
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeExpense, Category: "Food", Date: day(1),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(200), Type: domain.TransactionTypeIncome, Category: "Salary", Date: day(2),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: "u2", Amount: decimal.NewFromInt(300), Type: domain.TransactionTypeExpense, Category: "Food", Date: day(3),
	})

	expense := domain.TransactionTypeExpense
	got, err := svc.GetTransactions("u1", &domain.TransactionFilters{Type: &expense})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].Category != "Food" {
		t.Errorf("Expected one Food expense for u1, got %d results", len(got))
	}
}
