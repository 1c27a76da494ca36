// Package store provides durable persistence for trading plans.
package store

import (
	"context"

	"tinkoff-assistant/internal/models"
)

// PlanStore defines the interface for plan persistence. Records are
// append-mostly: created once, status-mutated, never deleted or expired.
type PlanStore interface {
	// AddPlan persists a new plan and returns its store-assigned id.
	// Ids are unique and strictly increasing, also under concurrent adds.
	AddPlan(ctx context.Context, ticker, plan string, status models.PlanStatus) (int64, error)
	// UpdateStatus changes the status of an existing record. Returns
	// ErrNoPlan when no record has the given id.
	UpdateStatus(ctx context.Context, id int64, status models.PlanStatus) error
	// LatestPlan returns the record with the greatest id for the ticker,
	// regardless of status, or nil when the ticker has no records.
	LatestPlan(ctx context.Context, ticker string) (*models.PlanRecord, error)
	// History returns all records for the ticker ordered by id ascending.
	History(ctx context.Context, ticker string) ([]models.PlanRecord, error)
	// Close releases the underlying storage.
	Close() error
}
