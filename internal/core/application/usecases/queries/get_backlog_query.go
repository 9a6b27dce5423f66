// Package queries contains read-only operations in the CQRS architecture.
// Query handlers read the database directly with raw SQL, bypassing the
// domain aggregates: no business rules run on the read path.
package queries

import (
	"errors"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

var (
	ErrGetBacklogQueryIsNotConstructed = errors.New(
		"GetBacklogQuery must be created via NewGetBacklogQuery constructor",
	)
)

// GetBacklogQuery retrieves the polling backlog: every primary shipment in a
// non-terminal status, the set the next reconciliation batch will poll.
//
// Example:
//
//	query := NewGetBacklogQuery()
//	handler := NewGetBacklogQueryHandler(db)
//
//	backlog, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get backlog: %w", err)
//	}
//	fmt.Printf("%d shipments awaiting carrier confirmation\n", len(backlog))
type GetBacklogQuery struct {
	guard kernel.ConstructorGuard
}

// NewGetBacklogQuery creates a query to retrieve the polling backlog.
// This is a parameterless query.
func NewGetBacklogQuery() GetBacklogQuery {
	return GetBacklogQuery{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetBacklogQueryIsNotConstructed if validation fails.
func (q GetBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetBacklogQueryIsNotConstructed)
}

// GetBacklogQueryResponse represents one backlog shipment.
type GetBacklogQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	Carrier        shipment.CarrierKind
	SubsidiaryID   string
	Priority       int
	Status         shipment.Status
}
