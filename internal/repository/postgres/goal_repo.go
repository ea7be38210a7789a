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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = "id, user_id, title, target_amount, current_amount, deadline, created_at, updated_at"

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var g domain.Goal
	var target, current pgtype.Numeric
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &target, &current, &g.Deadline, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.TargetAmount = pgNumericToDecimal(target)
	g.CurrentAmount = pgNumericToDecimal(current)
	return &g, nil
}

// Create inserts a goal under a freshly generated id
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO goals (id, user_id, title, target_amount, current_amount, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+goalColumns,
		uuid.New(), goal.UserID, goal.Title, target, current, goal.Deadline,
	)
	return scanGoal(row)
}

// GetByID retrieves a goal by its id
func (r *GoalRepository) GetByID(id uuid.UUID) (*domain.Goal, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GetByUser retrieves all goals for a user in insertion order
func (r *GoalRepository) GetByUser(userID string) ([]*domain.Goal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []*domain.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update fully replaces the stored goal, preserving id and user id
func (r *GoalRepository) Update(id uuid.UUID, data *domain.UpdateGoalData) (*domain.Goal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(data.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(data.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE goals
		SET title = $2, target_amount = $3, current_amount = $4, deadline = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+goalColumns,
		id, data.Title, target, current, data.Deadline,
	)
	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// UpdateProgress sets the clamped current amount on a goal
func (r *GoalRepository) UpdateProgress(id uuid.UUID, currentAmount decimal.Decimal) (*domain.Goal, error) {
	ctx := context.Background()

	current, err := decimalToPgNumeric(currentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE goals SET current_amount = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+goalColumns, id, current)
	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// Delete removes a goal and returns the prior record
func (r *GoalRepository) Delete(id uuid.UUID) (*domain.Goal, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		DELETE FROM goals WHERE id = $1
		RETURNING `+goalColumns, id)
	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}
