package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/service"
	"github.com/tallybook/tallybook-backend/internal/testutil"
)

type summaryHandlerFixture struct {
	handler      *SummaryHandler
	txRepo       *testutil.MockTransactionRepository
	budgetRepo   *testutil.MockBudgetRepository
	categoryRepo *testutil.MockCategoryRepository
}

func newSummaryHandlerFixture() *summaryHandlerFixture {
	txRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := service.NewSummaryService(txRepo, budgetRepo, categoryRepo, service.NewLedgerLock(), testutil.NewRecordingCache())
	return &summaryHandlerFixture{
		handler:      NewSummaryHandler(svc),
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

func TestGetSummaryHandler_Success(t *testing.T) {
	e := echo.New()
	f := newSummaryHandlerFixture()

	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f.txRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(100000), Type: domain.TransactionTypeIncome, Category: "Salary", Date: day,
	})
	f.txRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(20000), Type: domain.TransactionTypeExpense, Category: "Housing", Date: day.AddDate(0, 0, 1),
	})
	f.budgetRepo.AddBudget(&domain.Budget{
		UserID: "u1", Category: "Housing", Amount: decimal.NewFromInt(25000), Spent: decimal.NewFromInt(20000), Period: domain.BudgetPeriodMonthly,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?userId=u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.TotalIncome != "100000.00" {
		t.Errorf("Expected total income '100000.00', got %s", response.TotalIncome)
	}
	if response.TotalExpenses != "20000.00" {
		t.Errorf("Expected total expenses '20000.00', got %s", response.TotalExpenses)
	}
	if response.Balance != "80000.00" {
		t.Errorf("Expected balance '80000.00', got %s", response.Balance)
	}
	if response.BudgetStatus.Warning != 1 {
		t.Errorf("Expected 1 warning budget, got %+v", response.BudgetStatus)
	}
	if len(response.RecentTransactions) != 2 {
		t.Errorf("Expected 2 recent transactions, got %d", len(response.RecentTransactions))
	}
	if len(response.SpendingByCategory) != 1 || response.SpendingByCategory[0].Category != "Housing" {
		t.Errorf("Expected one Housing spending bucket, got %+v", response.SpendingByCategory)
	}
}

func TestGetSummaryHandler_RequiresUser(t *testing.T) {
	e := echo.New()
	f := newSummaryHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSummaryHandler_EmptyState(t *testing.T) {
	e := echo.New()
	f := newSummaryHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?userId=nobody", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Balance != "0.00" {
		t.Errorf("Expected balance '0.00', got %s", response.Balance)
	}
	if len(response.RecentTransactions) != 0 {
		t.Errorf("Expected no recent transactions, got %d", len(response.RecentTransactions))
	}
	if len(response.SpendingByCategory) != 0 {
		t.Errorf("Expected no spending buckets, got %d", len(response.SpendingByCategory))
	}
}
