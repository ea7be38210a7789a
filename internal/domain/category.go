package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the display color used when a transaction's
// category has no matching Category record.
const DefaultCategoryColor = "#3B82F6"

type Category struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     string          `json:"color"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpdateCategoryData carries the full replacement state for a category.
type UpdateCategoryData struct {
	Name  string
	Type  TransactionType
	Color string
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id uuid.UUID) (*Category, error)
	GetByName(userID string, name string, categoryType TransactionType) (*Category, error)
	GetByUser(userID string) ([]*Category, error)
	Update(id uuid.UUID, data *UpdateCategoryData) (*Category, error)
	Delete(id uuid.UUID) (*Category, error)
}
