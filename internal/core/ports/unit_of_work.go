package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each shipment
// commit. This ensures proper isolation between concurrent workers: every
// shipment's multi-field update runs in its own transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// ShipmentRepository returns a ShipmentRepository bound to the current
	// transaction started by Begin().
	ShipmentRepository() ShipmentRepository

	// ChargeShipmentRepository returns a ChargeShipmentRepository bound to
	// the current transaction started by Begin().
	ChargeShipmentRepository() ChargeShipmentRepository
}
