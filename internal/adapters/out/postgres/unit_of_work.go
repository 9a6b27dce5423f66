// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of objects affected by a business
// transaction and coordinates writing out changes and resolving concurrency problems.
//
// Key Features:
//   - Transaction management across the primary and charge shipment repositories
//   - Aggregate tracking for domain event processing
//   - Proper isolation between concurrent operations
//   - Repository factory pattern for consistent database connections
//
// Usage Patterns:
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.ShipmentRepository().Update(ctx, shipment); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines must use separate UnitOfWork instances; the
//     reconciliation workers create one per shipment commit
//   - Keep transactions short: carrier network calls happen outside them
package postgres

import (
	"context"

	"gorm.io/gorm"

	"shiptrack/internal/adapters/out/postgres/chargerepo"
	"shiptrack/internal/adapters/out/postgres/shipmentrepo"
	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// This is useful for implementing patterns like event sourcing or outbox pattern.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{} // Will be changed to a common Aggregate interface in the future
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database
// connections. Factory ensures each business operation gets a fresh unit of
// work instance with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work over the factory's connection.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork implements the UnitOfWork port on top of a GORM transaction.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations will execute within this transaction context.
// Multiple calls to Begin on the same instance are safe and will not create
// nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// After rollback, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// ShipmentRepository provides access to primary shipment persistence within
// the unit of work. Repository operations execute within the current
// transaction if one is active, otherwise they use the main database
// connection for immediate execution.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return shipmentrepo.NewGormShipmentRepository(db, uow)
}

// ChargeShipmentRepository provides access to charge shipment persistence
// within the unit of work, bound to the current transaction when one is
// active.
func (uow *GormUnitOfWork) ChargeShipmentRepository() ports.ChargeShipmentRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return chargerepo.NewGormChargeShipmentRepository(db, uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Called by repository implementations when aggregates are added or
// updated.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
