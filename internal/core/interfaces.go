package core

import "context"

// AccountStore persists the full account mapping as one document.
// Implementations: storage.JSONStore (single JSON file),
// storage.SQLiteStore (embedded database).
//
// The contract is deliberately load-all/save-all: callers load the mapping,
// mutate one entry, and save the whole mapping back. The store provides no
// isolation between concurrent callers; simultaneous read-modify-write
// sequences can lose updates.
type AccountStore interface {
	// Load returns the complete current mapping. On first access, when
	// nothing has been persisted yet, it returns an empty mapping.
	Load(ctx context.Context) (Accounts, error)

	// Save atomically replaces the persisted mapping with the given value.
	Save(ctx context.Context, accounts Accounts) error

	// Reset wipes the persisted mapping. Intended for test/staging use.
	Reset(ctx context.Context) error

	// Close releases store resources.
	Close() error
}

// OrderAPI looks up orders at the payment provider.
// Implementations: fastspring.Client
type OrderAPI interface {
	// GetOrder fetches the order with the given ID. Provider-reported
	// errors, transport failures, and timeouts all surface as errors.
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}
