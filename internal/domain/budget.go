package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is one of the known budget periods.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodWeekly || p == BudgetPeriodMonthly || p == BudgetPeriodYearly
}

// BudgetStatus classifies how far a budget's spending has progressed
// against its limit.
type BudgetStatus string

const (
	BudgetStatusOnTrack  BudgetStatus = "onTrack"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// warningThreshold is the spent/amount ratio above which a budget is
// flagged as a warning.
var warningThreshold = decimal.NewFromFloat(0.8)

type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Period    BudgetPeriod    `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Status classifies the budget by its spent/amount ratio: above 1.0 is
// exceeded, above 0.8 is a warning, anything else is on track. A zero
// limit never divides; it is exceeded when anything was spent and on
// track otherwise.
func (b *Budget) Status() BudgetStatus {
	if b.Amount.IsZero() {
		if b.Spent.GreaterThan(decimal.Zero) {
			return BudgetStatusExceeded
		}
		return BudgetStatusOnTrack
	}
	ratio := b.Spent.Div(b.Amount)
	switch {
	case ratio.GreaterThan(decimal.NewFromInt(1)):
		return BudgetStatusExceeded
	case ratio.GreaterThan(warningThreshold):
		return BudgetStatusWarning
	default:
		return BudgetStatusOnTrack
	}
}

// UpdateBudgetData carries the full replacement state for a budget.
type UpdateBudgetData struct {
	Category string
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	Period   BudgetPeriod
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(id uuid.UUID) (*Budget, error)
	GetByCategory(userID string, category string) (*Budget, error)
	GetByUser(userID string) ([]*Budget, error)
	Update(id uuid.UUID, data *UpdateBudgetData) (*Budget, error)
	UpdateSpent(id uuid.UUID, spent decimal.Decimal) (*Budget, error)
	Delete(id uuid.UUID) (*Budget, error)
}
