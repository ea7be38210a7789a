package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/websocket"
)

// GoalService handles savings-goal business logic
type GoalService struct {
	goalRepo  domain.GoalRepository
	lock      *LedgerLock
	publisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, lock *LedgerLock, publisher websocket.EventPublisher) *GoalService {
	return &GoalService{
		goalRepo:  goalRepo,
		lock:      lock,
		publisher: publisher,
	}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	UserID        string
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}

// CreateGoal creates a new savings goal
func (s *GoalService) CreateGoal(input CreateGoalInput) (*domain.Goal, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.GreaterThan(input.TargetAmount) {
		return nil, domain.ErrTargetExceeded
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	goal, err := s.goalRepo.Create(&domain.Goal{
		UserID:        userID,
		Title:         title,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("goal_id", goal.ID.String()).
		Str("user_id", userID).
		Str("target", goal.TargetAmount.StringFixed(2)).
		Msg("Goal created")

	s.publisher.Publish(userID, websocket.GoalCreated(goal))

	return goal, nil
}

// GetGoals retrieves all goals for a user
func (s *GoalService) GetGoals(userID string) ([]*domain.Goal, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.goalRepo.GetByUser(userID)
}

// GetGoalByID retrieves a single goal
func (s *GoalService) GetGoalByID(id uuid.UUID) (*domain.Goal, error) {
	return s.goalRepo.GetByID(id)
}

// UpdateGoalInput holds the full replacement state for a goal
type UpdateGoalInput struct {
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}

// UpdateGoal replaces a goal's fields
func (s *GoalService) UpdateGoal(id uuid.UUID, input UpdateGoalInput) (*domain.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentAmount.GreaterThan(input.TargetAmount) {
		return nil, domain.ErrTargetExceeded
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	goal, err := s.goalRepo.Update(id, &domain.UpdateGoalData{
		Title:         title,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("goal_id", id.String()).
		Str("user_id", goal.UserID).
		Msg("Goal updated")

	s.publisher.Publish(goal.UserID, websocket.GoalUpdated(goal))

	return goal, nil
}

// Contribute adds a positive amount to a goal's progress. The new
// current amount saturates at the target; it never overshoots.
// Negative contributions are rejected rather than treated as
// withdrawals.
func (s *GoalService) Contribute(id uuid.UUID, amount decimal.Decimal) (*domain.Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	goal, err := s.goalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.goalRepo.UpdateProgress(id, goal.ApplyContribution(amount))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("goal_id", id.String()).
		Str("user_id", updated.UserID).
		Str("amount", amount.StringFixed(2)).
		Str("current", updated.CurrentAmount.StringFixed(2)).
		Msg("Goal contribution applied")

	s.publisher.Publish(updated.UserID, websocket.GoalProgressed(updated))

	return updated, nil
}

// DeleteGoal removes a goal
func (s *GoalService) DeleteGoal(id uuid.UUID) (*domain.Goal, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deleted, err := s.goalRepo.Delete(id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("goal_id", id.String()).
		Str("user_id", deleted.UserID).
		Msg("Goal deleted")

	s.publisher.Publish(deleted.UserID, websocket.GoalDeleted(deleted))

	return deleted, nil
}
