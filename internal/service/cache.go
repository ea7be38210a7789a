package service

import "github.com/tallybook/tallybook-backend/internal/domain"

// SummaryCache caches computed financial summaries per user. Mutating
// services invalidate entries; the summary service reads through.
type SummaryCache interface {
	Get(userID string) (*domain.FinancialSummary, bool)
	Set(userID string, summary *domain.FinancialSummary)
	Invalidate(userID string)
}

// NoOpSummaryCache disables caching (used when Redis is not configured)
type NoOpSummaryCache struct{}

// Get always misses
func (NoOpSummaryCache) Get(userID string) (*domain.FinancialSummary, bool) { return nil, false }

// Set does nothing
func (NoOpSummaryCache) Set(userID string, summary *domain.FinancialSummary) {}

// Invalidate does nothing
func (NoOpSummaryCache) Invalidate(userID string) {}
