package domain

import "errors"

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidPeriod       = errors.New("invalid budget period")
	ErrCategoryRequired    = errors.New("category is required")
	ErrTitleRequired       = errors.New("title is required")
	ErrNameRequired        = errors.New("name is required")
	ErrUserIDRequired      = errors.New("user id is required")
	ErrTargetExceeded      = errors.New("current amount exceeds target amount")
	ErrDescriptionTooLong  = errors.New("description is too long")
	ErrNameTooLong         = errors.New("name is too long")
)

// Validation constants
const (
	MaxDescriptionLength = 1000
	MaxNameLength        = 255
)
