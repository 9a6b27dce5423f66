// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"shiptrack/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ShipmentRepoFactory provides access to the primary shipment repository
	// within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// ChargeShipmentRepoFactory provides access to the charge shipment
	// repository within a transaction.
	ChargeShipmentRepoFactory interface {
		ChargeShipmentRepository() ports.ChargeShipmentRepository
	}

	// UoW manages transactions across the primary and charge shipment
	// collections. Each shipment's multi-field commit (history append,
	// status, payment, receivedBy) runs in its own UoW instance so that
	// workers never share a transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.ShipmentRepository()
	//   // ... apply and persist
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ShipmentRepoFactory
		ChargeShipmentRepoFactory
	}

	// UoWFactory creates new unit of work instances. The reconciliation
	// handler creates one per shipment commit.
	UoWFactory interface {
		Create() UoW
	}
)
