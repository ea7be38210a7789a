package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/service"
	"github.com/tallybook/tallybook-backend/internal/testutil"
)

type transactionHandlerFixture struct {
	handler    *TransactionHandler
	txRepo     *testutil.MockTransactionRepository
	budgetRepo *testutil.MockBudgetRepository
}

func newTransactionHandlerFixture() *transactionHandlerFixture {
	txRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	svc := service.NewTransactionService(txRepo, budgetRepo, service.NewLedgerLock(), testutil.NewRecordingPublisher(), testutil.NewRecordingCache())
	return &transactionHandlerFixture{
		handler:    NewTransactionHandler(svc),
		txRepo:     txRepo,
		budgetRepo: budgetRepo,
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := jsonRequest(http.MethodPost, "/api/v1/transactions",
		`{"userId":"u1","amount":5000,"type":"expense","category":"Food","date":"2025-06-15"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "5000.00" {
		t.Errorf("Expected amount '5000.00', got %s", response.Amount)
	}
	if response.Date != "2025-06-15" {
		t.Errorf("Expected date '2025-06-15', got %s", response.Date)
	}
	if response.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := jsonRequest(http.MethodPost, "/api/v1/transactions",
		`{"userId":"u1","amount":-10,"type":"expense","category":"Food"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Message == "" {
		t.Error("Expected an error message")
	}
}

func TestCreateTransactionHandler_BadDate(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := jsonRequest(http.MethodPost, "/api/v1/transactions",
		`{"userId":"u1","amount":10,"type":"expense","category":"Food","date":"15/06/2025"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_RequiresUser(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_FiltersByType(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f.txRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeExpense, Category: "Food", Date: day,
	})
	f.txRepo.AddTransaction(&domain.Transaction{
		UserID: "u1", Amount: decimal.NewFromInt(900), Type: domain.TransactionTypeIncome, Category: "Salary", Date: day,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?userId=u1&type=income", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Type != "income" {
		t.Errorf("Expected one income transaction, got %d", len(response))
	}
}

func TestUpdateTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := jsonRequest(http.MethodPut, "/",
		`{"amount":10,"type":"expense","category":"Food","date":"2025-06-15"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := f.handler.UpdateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransactionHandler_InvalidID(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	existing := &domain.Transaction{
		UserID:   "u1",
		Amount:   decimal.NewFromInt(250),
		Type:     domain.TransactionTypeExpense,
		Category: "Food",
		Date:     time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	f.txRepo.AddTransaction(existing)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "250.00" {
		t.Errorf("Expected deleted amount '250.00', got %s", response.Amount)
	}
}
