package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ApplyContribution returns the goal's new current amount after adding
// amount, clamped to [0, targetAmount]. A sum past the target saturates
// at exactly the target; a sum below zero saturates at zero.
func (g *Goal) ApplyContribution(amount decimal.Decimal) decimal.Decimal {
	next := g.CurrentAmount.Add(amount)
	if next.GreaterThan(g.TargetAmount) {
		return g.TargetAmount
	}
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// UpdateGoalData carries the full replacement state for a goal.
type UpdateGoalData struct {
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetByID(id uuid.UUID) (*Goal, error)
	GetByUser(userID string) ([]*Goal, error)
	Update(id uuid.UUID, data *UpdateGoalData) (*Goal, error)
	UpdateProgress(id uuid.UUID, currentAmount decimal.Decimal) (*Goal, error)
	Delete(id uuid.UUID) (*Goal, error)
}
