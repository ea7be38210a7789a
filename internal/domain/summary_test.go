package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func expense(amount int64, category string, date time.Time) *Transaction {
	return &Transaction{
		ID:       uuid.New(),
		UserID:   "user1",
		Amount:   decimal.NewFromInt(amount),
		Type:     TransactionTypeExpense,
		Category: category,
		Date:     date,
	}
}

func income(amount int64, category string, date time.Time) *Transaction {
	return &Transaction{
		ID:       uuid.New(),
		UserID:   "user1",
		Amount:   decimal.NewFromInt(amount),
		Type:     TransactionTypeIncome,
		Category: category,
		Date:     date,
	}
}

func TestComputeSummary_Totals(t *testing.T) {
	transactions := []*Transaction{
		income(100000, "Salary", day(1)),
		expense(20000, "Housing", day(5)),
	}

	summary := ComputeSummary(transactions, nil, nil)

	if !summary.TotalIncome.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected income 100000, got %s", summary.TotalIncome.String())
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("expected expenses 20000, got %s", summary.TotalExpenses.String())
	}
	if !summary.Balance.Equal(decimal.NewFromInt(80000)) {
		t.Errorf("expected balance 80000, got %s", summary.Balance.String())
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	summary := ComputeSummary(nil, nil, nil)

	if !summary.TotalIncome.IsZero() || !summary.TotalExpenses.IsZero() || !summary.Balance.IsZero() {
		t.Error("expected all totals to be zero")
	}
	if len(summary.RecentTransactions) != 0 {
		t.Errorf("expected no recent transactions, got %d", len(summary.RecentTransactions))
	}
	if len(summary.SpendingByCategory) != 0 {
		t.Errorf("expected no spending buckets, got %d", len(summary.SpendingByCategory))
	}
}

func TestComputeSummary_SpendingByCategory(t *testing.T) {
	transactions := []*Transaction{
		expense(20000, "Housing", day(5)),
		expense(15000, "Food", day(10)),
		expense(5000, "Housing", day(12)),
		income(100000, "Salary", day(1)),
	}
	categories := []*Category{
		{ID: uuid.New(), UserID: "user1", Name: "Housing", Type: TransactionTypeExpense, Color: "#F97316"},
		{ID: uuid.New(), UserID: "user1", Name: "Food", Type: TransactionTypeExpense, Color: "#8B5CF6"},
	}

	summary := ComputeSummary(transactions, nil, categories)

	if len(summary.SpendingByCategory) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(summary.SpendingByCategory))
	}

	// First-occurrence order, not sorted.
	housing := summary.SpendingByCategory[0]
	if housing.Category != "Housing" {
		t.Errorf("expected Housing first, got %s", housing.Category)
	}
	if !housing.Amount.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("expected Housing total 25000, got %s", housing.Amount.String())
	}
	if housing.Color != "#F97316" {
		t.Errorf("expected Housing color #F97316, got %s", housing.Color)
	}

	food := summary.SpendingByCategory[1]
	if food.Category != "Food" || !food.Amount.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("unexpected Food bucket: %s %s", food.Category, food.Amount.String())
	}
}

func TestComputeSummary_UnknownCategoryFallbackColor(t *testing.T) {
	transactions := []*Transaction{
		expense(5000, "Mystery", day(3)),
	}

	summary := ComputeSummary(transactions, nil, nil)

	if len(summary.SpendingByCategory) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(summary.SpendingByCategory))
	}
	if summary.SpendingByCategory[0].Color != DefaultCategoryColor {
		t.Errorf("expected fallback color %s, got %s", DefaultCategoryColor, summary.SpendingByCategory[0].Color)
	}
}

func TestComputeSummary_BudgetStatusCounts(t *testing.T) {
	budgets := []*Budget{
		{Amount: decimal.NewFromInt(1000), Spent: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(1000), Spent: decimal.NewFromInt(900)},
		{Amount: decimal.NewFromInt(1000), Spent: decimal.NewFromInt(1500)},
		{Amount: decimal.Zero, Spent: decimal.Zero},
	}

	summary := ComputeSummary(nil, budgets, nil)

	if summary.BudgetStatus.OnTrack != 2 {
		t.Errorf("expected 2 onTrack, got %d", summary.BudgetStatus.OnTrack)
	}
	if summary.BudgetStatus.Warning != 1 {
		t.Errorf("expected 1 warning, got %d", summary.BudgetStatus.Warning)
	}
	if summary.BudgetStatus.Exceeded != 1 {
		t.Errorf("expected 1 exceeded, got %d", summary.BudgetStatus.Exceeded)
	}
}

func TestComputeSummary_RecentTransactions(t *testing.T) {
	var transactions []*Transaction
	for d := 1; d <= 8; d++ {
		transactions = append(transactions, expense(int64(d*100), "Food", day(d)))
	}

	summary := ComputeSummary(transactions, nil, nil)

	if len(summary.RecentTransactions) != RecentTransactionLimit {
		t.Fatalf("expected %d recent transactions, got %d", RecentTransactionLimit, len(summary.RecentTransactions))
	}

	// Newest first, truncated to the five most recent (days 8..4).
	for i, want := range []int{8, 7, 6, 5, 4} {
		if got := summary.RecentTransactions[i].Date.Day(); got != want {
			t.Errorf("recent[%d]: expected day %d, got %d", i, want, got)
		}
	}
}

func TestComputeSummary_PureOverHistory(t *testing.T) {
	// Two different mutation histories arriving at the same collections
	// must produce identical summaries.
	a := []*Transaction{
		income(100000, "Salary", day(1)),
		expense(20000, "Housing", day(5)),
	}
	b := []*Transaction{
		income(100000, "Salary", day(1)),
		expense(20000, "Housing", day(5)),
	}

	s1 := ComputeSummary(a, nil, nil)
	s2 := ComputeSummary(b, nil, nil)

	if !s1.Balance.Equal(s2.Balance) || !s1.TotalIncome.Equal(s2.TotalIncome) || !s1.TotalExpenses.Equal(s2.TotalExpenses) {
		t.Error("expected identical summaries for identical collections")
	}
}
