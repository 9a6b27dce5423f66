// Package ports defines repository and gateway interfaces for the shipment
// reconciliation domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for primary shipment
// aggregates. Provides methods for storing, retrieving, and querying
// shipments with their complete state including history and payment.
//
// Update must persist the aggregate atomically: the status flip, the newly
// appended history entries, the payment status, and the receivedBy field
// commit as one unit. A status change without its matching history row
// violates the aggregate invariant.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	// The shipment must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment aggregate atomically,
	// including any history entries appended since it was loaded.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get retrieves a shipment aggregate by its unique identifier.
	// Returns the complete shipment with its history and payment.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByTrackingNumber retrieves the shipment owning the given carrier
	// tracking number. Returns errs.ObjectNotFoundError when no local
	// record exists; the orchestrator reports such tracking numbers
	// instead of aborting the batch.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)

	// GetAllNonTerminal retrieves the polling backlog: every shipment whose
	// status is not terminal. Delivered and returned shipments are excluded
	// from future polling.
	GetAllNonTerminal(ctx context.Context) ([]*shipment.Shipment, error)
}
