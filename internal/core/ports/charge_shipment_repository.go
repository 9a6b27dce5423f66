package ports

import (
	"context"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// ChargeShipmentRepository defines the persistence contract for the
// secondary "charge" shipment collection. Charge shipments are reconciled
// through the same pipeline as primary shipments but live in their own
// store, so the two sub-batches touch disjoint record sets and may run
// concurrently.
//
// The contract mirrors ShipmentRepository; only the backing collection
// differs.
type ChargeShipmentRepository interface {
	// Add persists a new charge shipment aggregate to storage.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing charge shipment atomically,
	// including any history entries appended since it was loaded.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get retrieves a charge shipment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByTrackingNumber retrieves the charge shipment owning the given
	// carrier tracking number. Returns errs.ObjectNotFoundError when no
	// local record exists.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)

	// GetAllNonTerminal retrieves every charge shipment whose status is not
	// terminal.
	GetAllNonTerminal(ctx context.Context) ([]*shipment.Shipment, error)
}
