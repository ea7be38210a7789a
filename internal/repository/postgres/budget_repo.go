package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tallybook/tallybook-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = "id, user_id, category, amount, spent, period, created_at, updated_at"

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var amount, spent pgtype.Numeric
	var period string
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &amount, &spent, &period, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	b.Spent = pgNumericToDecimal(spent)
	b.Period = domain.BudgetPeriod(period)
	return &b, nil
}

// Create inserts a budget under a freshly generated id
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	spent, err := decimalToPgNumeric(budget.Spent)
	if err != nil {
		return nil, fmt.Errorf("invalid spent: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, category, amount, spent, period)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+budgetColumns,
		uuid.New(), budget.UserID, budget.Category, amount, spent, string(budget.Period),
	)
	return scanBudget(row)
}

// GetByID retrieves a budget by its id
func (r *BudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByCategory retrieves the budget whose category matches, if any
func (r *BudgetRepository) GetByCategory(userID string, category string) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND category = $2
		ORDER BY created_at
		LIMIT 1`, userID, category)
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByUser retrieves all budgets for a user in insertion order
func (r *BudgetRepository) GetByUser(userID string) ([]*domain.Budget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []*domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update fully replaces the stored budget, preserving id and user id
func (r *BudgetRepository) Update(id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	spent, err := decimalToPgNumeric(data.Spent)
	if err != nil {
		return nil, fmt.Errorf("invalid spent: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET category = $2, amount = $3, spent = $4, period = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+budgetColumns,
		id, data.Category, amount, spent, string(data.Period),
	)
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// UpdateSpent sets the derived spent total on a budget
func (r *BudgetRepository) UpdateSpent(id uuid.UUID, spent decimal.Decimal) (*domain.Budget, error) {
	ctx := context.Background()

	value, err := decimalToPgNumeric(spent)
	if err != nil {
		return nil, fmt.Errorf("invalid spent: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets SET spent = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+budgetColumns, id, value)
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// Delete removes a budget and returns the prior record
func (r *BudgetRepository) Delete(id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		DELETE FROM budgets WHERE id = $1
		RETURNING `+budgetColumns, id)
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}
