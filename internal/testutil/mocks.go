package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tallybook-backend/internal/domain"
	"github.com/tallybook/tallybook-backend/internal/websocket"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	order        []uuid.UUID
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
	m.order = append(m.order, transaction.ID)
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	now := time.Now().UTC()
	stored := *transaction
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Transactions[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser retrieves a user's transactions, newest first
func (m *MockTransactionRepository) GetByUser(userID string, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, id := range m.order {
		t, ok := m.Transactions[id]
		if !ok || t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Update replaces a transaction's mutable fields
func (m *MockTransactionRepository) Update(id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.Amount = data.Amount
	t.Type = data.Type
	t.Category = data.Category
	t.Description = data.Description
	t.Date = data.Date
	t.UpdatedAt = time.Now().UTC()
	return t, nil
}

// Delete removes a transaction and returns its prior state
func (m *MockTransactionRepository) Delete(id uuid.UUID) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return t, nil
}

// SumExpensesByCategory totals a user's expense amounts for one category
func (m *MockTransactionRepository) SumExpensesByCategory(userID string, category string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == domain.TransactionTypeExpense && t.Category == category {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
	order   []uuid.UUID
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	m.Budgets[budget.ID] = budget
	m.order = append(m.order, budget.ID)
}

// Create stores a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	now := time.Now().UTC()
	stored := *budget
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Budgets[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByCategory retrieves the oldest budget matching a user and category
func (m *MockBudgetRepository) GetByCategory(userID string, category string) (*domain.Budget, error) {
	for _, id := range m.order {
		b, ok := m.Budgets[id]
		if ok && b.UserID == userID && b.Category == category {
			return b, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByUser retrieves all budgets for a user
func (m *MockBudgetRepository) GetByUser(userID string) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, id := range m.order {
		if b, ok := m.Budgets[id]; ok && b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

// Update replaces a budget's mutable fields
func (m *MockBudgetRepository) Update(id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	b.Category = data.Category
	b.Amount = data.Amount
	b.Spent = data.Spent
	b.Period = data.Period
	b.UpdatedAt = time.Now().UTC()
	return b, nil
}

// UpdateSpent sets a budget's spent total
func (m *MockBudgetRepository) UpdateSpent(id uuid.UUID, spent decimal.Decimal) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	b.Spent = spent
	b.UpdatedAt = time.Now().UTC()
	return b, nil
}

// Delete removes a budget and returns its prior state
func (m *MockBudgetRepository) Delete(id uuid.UUID) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return b, nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals map[uuid.UUID]*domain.Goal
	order []uuid.UUID
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals: make(map[uuid.UUID]*domain.Goal),
	}
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals[goal.ID] = goal
	m.order = append(m.order, goal.ID)
}

// Create stores a new goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	now := time.Now().UTC()
	stored := *goal
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Goals[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

// GetByID retrieves a goal by ID
func (m *MockGoalRepository) GetByID(id uuid.UUID) (*domain.Goal, error) {
	if g, ok := m.Goals[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGoalNotFound
}

// GetByUser retrieves all goals for a user
func (m *MockGoalRepository) GetByUser(userID string) ([]*domain.Goal, error) {
	var result []*domain.Goal
	for _, id := range m.order {
		if g, ok := m.Goals[id]; ok && g.UserID == userID {
			result = append(result, g)
		}
	}
	return result, nil
}

// Update replaces a goal's mutable fields
func (m *MockGoalRepository) Update(id uuid.UUID, data *domain.UpdateGoalData) (*domain.Goal, error) {
	g, ok := m.Goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	g.Title = data.Title
	g.TargetAmount = data.TargetAmount
	g.CurrentAmount = data.CurrentAmount
	g.Deadline = data.Deadline
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

// UpdateProgress sets a goal's current amount
func (m *MockGoalRepository) UpdateProgress(id uuid.UUID, currentAmount decimal.Decimal) (*domain.Goal, error) {
	g, ok := m.Goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	g.CurrentAmount = currentAmount
	g.UpdatedAt = time.Now().UTC()
	return g, nil
}

// Delete removes a goal and returns its prior state
func (m *MockGoalRepository) Delete(id uuid.UUID) (*domain.Goal, error) {
	g, ok := m.Goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return g, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	order      []uuid.UUID
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
	m.order = append(m.order, category.ID)
}

// Create stores a new category, enforcing (userID, name, type) uniqueness
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == category.UserID && c.Name == category.Name && c.Type == category.Type {
			return nil, domain.ErrCategoryExists
		}
	}
	now := time.Now().UTC()
	stored := *category
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Categories[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by its unique (userID, name, type) key
func (m *MockCategoryRepository) GetByName(userID string, name string, categoryType domain.TransactionType) (*domain.Category, error) {
	for _, id := range m.order {
		c, ok := m.Categories[id]
		if ok && c.UserID == userID && c.Name == name && c.Type == categoryType {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByUser retrieves all categories for a user
func (m *MockCategoryRepository) GetByUser(userID string) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, id := range m.order {
		if c, ok := m.Categories[id]; ok && c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

// Update replaces a category's mutable fields
func (m *MockCategoryRepository) Update(id uuid.UUID, data *domain.UpdateCategoryData) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = data.Name
	c.Type = data.Type
	c.Color = data.Color
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

// Delete removes a category and returns its prior state
func (m *MockCategoryRepository) Delete(id uuid.UUID) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return c, nil
}

// RecordedEvent pairs a published event with the user it was sent to
type RecordedEvent struct {
	UserID string
	Event  websocket.Event
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event
func (p *RecordingPublisher) Publish(userID string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, RecordedEvent{UserID: userID, Event: event})
}

// EventTypes returns the combined types of all recorded events in order
func (p *RecordingPublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// RecordingCache captures summary cache traffic for assertions
type RecordingCache struct {
	mu          sync.Mutex
	Entries     map[string]*domain.FinancialSummary
	Invalidated []string
	GetCalls    int
	SetCalls    int
}

// NewRecordingCache creates a new RecordingCache
func NewRecordingCache() *RecordingCache {
	return &RecordingCache{Entries: make(map[string]*domain.FinancialSummary)}
}

// Get returns a cached summary if present
func (c *RecordingCache) Get(userID string) (*domain.FinancialSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	s, ok := c.Entries[userID]
	return s, ok
}

// Set stores a summary
func (c *RecordingCache) Set(userID string, summary *domain.FinancialSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	c.Entries[userID] = summary
}

// Invalidate drops a user's summary and records the call
func (c *RecordingCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Entries, userID)
	c.Invalidated = append(c.Invalidated, userID)
}
