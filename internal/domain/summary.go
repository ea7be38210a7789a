package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RecentTransactionLimit caps the recent-transactions slice on the summary.
const RecentTransactionLimit = 5

// BudgetStatusCounts tallies budgets by their Status classification.
type BudgetStatusCounts struct {
	OnTrack  int `json:"onTrack"`
	Warning  int `json:"warning"`
	Exceeded int `json:"exceeded"`
}

// CategorySpending is a per-category expense total with its display color.
type CategorySpending struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Color    string          `json:"color"`
}

// FinancialSummary is fully derived from the transaction, budget and
// category collections. It is never mutated directly.
type FinancialSummary struct {
	TotalIncome        decimal.Decimal    `json:"totalIncome"`
	TotalExpenses      decimal.Decimal    `json:"totalExpenses"`
	Balance            decimal.Decimal    `json:"balance"`
	BudgetStatus       BudgetStatusCounts `json:"budgetStatus"`
	RecentTransactions []*Transaction     `json:"recentTransactions"`
	SpendingByCategory []CategorySpending `json:"spendingByCategory"`
}

// ComputeSummary derives the financial summary from the current
// collections. It is a pure function: the result depends only on the
// arguments, not on the mutation history that produced them.
//
// Spending buckets keep the order in which each category first appears in
// the transaction list. A category without a matching Category record
// falls back to DefaultCategoryColor.
func ComputeSummary(transactions []*Transaction, budgets []*Budget, categories []*Category) *FinancialSummary {
	summary := &FinancialSummary{
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		RecentTransactions: []*Transaction{},
		SpendingByCategory: []CategorySpending{},
	}

	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	bucketIndex := make(map[string]int)
	for _, t := range transactions {
		switch t.Type {
		case TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)

			i, ok := bucketIndex[t.Category]
			if !ok {
				color, found := colors[t.Category]
				if !found {
					color = DefaultCategoryColor
				}
				i = len(summary.SpendingByCategory)
				bucketIndex[t.Category] = i
				summary.SpendingByCategory = append(summary.SpendingByCategory, CategorySpending{
					Category: t.Category,
					Amount:   decimal.Zero,
					Color:    color,
				})
			}
			summary.SpendingByCategory[i].Amount = summary.SpendingByCategory[i].Amount.Add(t.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)

	for _, b := range budgets {
		switch b.Status() {
		case BudgetStatusExceeded:
			summary.BudgetStatus.Exceeded++
		case BudgetStatusWarning:
			summary.BudgetStatus.Warning++
		default:
			summary.BudgetStatus.OnTrack++
		}
	}

	recent := make([]*Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > RecentTransactionLimit {
		recent = recent[:RecentTransactionLimit]
	}
	summary.RecentTransactions = recent

	return summary
}
