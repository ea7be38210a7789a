package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/websocket"
)

// defaultCategories are seeded for a user with no categories yet
var defaultCategories = []struct {
	Name  string
	Type  domain.TransactionType
	Color string
}{
	{"Salary", domain.TransactionTypeIncome, "#10B981"},
	{"Freelance", domain.TransactionTypeIncome, "#3B82F6"},
	{"Housing", domain.TransactionTypeExpense, "#F97316"},
	{"Food", domain.TransactionTypeExpense, "#8B5CF6"},
	{"Transportation", domain.TransactionTypeExpense, "#EC4899"},
	{"Entertainment", domain.TransactionTypeExpense, "#F59E0B"},
	{"Healthcare", domain.TransactionTypeExpense, "#EF4444"},
	{"Shopping", domain.TransactionTypeExpense, "#6366F1"},
	{"Utilities", domain.TransactionTypeExpense, "#14B8A6"},
	{"Other", domain.TransactionTypeExpense, "#71717A"},
}

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	lock         *LedgerLock
	publisher    websocket.EventPublisher
	cache        SummaryCache
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo domain.CategoryRepository,
	lock *LedgerLock,
	publisher websocket.EventPublisher,
	cache SummaryCache,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		lock:         lock,
		publisher:    publisher,
		cache:        cache,
	}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	UserID string
	Name   string
	Type   domain.TransactionType
	Color  string
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*domain.Category, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.categoryRepo.GetByName(userID, name, input.Type); err == nil {
		return nil, domain.ErrCategoryExists
	} else if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
		Type:   input.Type,
		Color:  color,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("category_id", category.ID.String()).
		Str("user_id", userID).
		Str("name", name).
		Msg("Category created")

	s.cache.Invalidate(userID)
	s.publisher.Publish(userID, websocket.CategoryCreated(category))

	return category, nil
}

// GetCategories retrieves all categories for a user
func (s *CategoryService) GetCategories(userID string) ([]*domain.Category, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.categoryRepo.GetByUser(userID)
}

// GetCategoryByID retrieves a single category
func (s *CategoryService) GetCategoryByID(id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// UpdateCategoryInput holds the full replacement state for a category
type UpdateCategoryInput struct {
	Name  string
	Type  domain.TransactionType
	Color string
}

// UpdateCategory replaces a category's fields
func (s *CategoryService) UpdateCategory(id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	category, err := s.categoryRepo.Update(id, &domain.UpdateCategoryData{
		Name:  name,
		Type:  input.Type,
		Color: color,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("category_id", id.String()).
		Str("user_id", category.UserID).
		Msg("Category updated")

	s.cache.Invalidate(category.UserID)
	s.publisher.Publish(category.UserID, websocket.CategoryUpdated(category))

	return category, nil
}

// DeleteCategory removes a category. Transactions keep referring to
// the category by name; they are not rewritten.
func (s *CategoryService) DeleteCategory(id uuid.UUID) (*domain.Category, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deleted, err := s.categoryRepo.Delete(id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("category_id", id.String()).
		Str("user_id", deleted.UserID).
		Msg("Category deleted")

	s.cache.Invalidate(deleted.UserID)
	s.publisher.Publish(deleted.UserID, websocket.CategoryDeleted(deleted))

	return deleted, nil
}

// EnsureDefaults seeds the standard category set for a user who has
// none. It is idempotent: users with any category are left untouched.
func (s *CategoryService) EnsureDefaults(userID string) ([]*domain.Category, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	existing, err := s.categoryRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	seeded := make([]*domain.Category, 0, len(defaultCategories))
	for _, dc := range defaultCategories {
		category, err := s.categoryRepo.Create(&domain.Category{
			UserID: userID,
			Name:   dc.Name,
			Type:   dc.Type,
			Color:  dc.Color,
		})
		if err != nil {
			// A concurrent seed already inserted this one
			if errors.Is(err, domain.ErrCategoryExists) {
				continue
			}
			return nil, err
		}
		seeded = append(seeded, category)
	}

	log.Info().
		Str("user_id", userID).
		Int("count", len(seeded)).
		Msg("Default categories seeded")

	return seeded, nil
}
