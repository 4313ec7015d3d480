// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ErrNotFound is returned when a bill does not exist.
var ErrNotFound = errors.New("bill not found")

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// ListBills returns every saved bill, newest first.
	ListBills(ctx context.Context) ([]*models.Bill, error)

	// GetBill retrieves a bill by its ID.
	// Returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// SaveBill inserts or replaces a bill and returns its persisted ID.
	// Unsaved bills (empty or "new-" IDs) are inserted under a fresh ID, and
	// temporary item and person IDs are replaced. The bill is updated in place
	// on success and left untouched when the save fails.
	SaveBill(ctx context.Context, bill *models.Bill) (string, error)

	// DeleteBill removes a bill with its items, people and assignments.
	// Returns ErrNotFound if the bill does not exist.
	DeleteBill(ctx context.Context, billID string) error

	// ImageInUse reports whether any saved bill links to the uploaded image
	// with this name. Only the name is compared so links survive a change of
	// public base URL.
	ImageInUse(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
