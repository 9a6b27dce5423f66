package queries

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

var (
	ErrGetShipmentHistoryQueryIsNotConstructed = errors.New(
		"GetShipmentHistoryQuery must be created via NewGetShipmentHistoryQuery constructor",
	)
	ErrTrackingNumberIsRequired = errors.New("tracking number is required")
)

// GetShipmentHistoryQuery retrieves the full status history of one shipment
// by its tracking number, newest entry last.
//
// Example:
//
//	query, err := NewGetShipmentHistoryQuery("794812345678")
//	if err != nil {
//	    return err
//	}
//
//	history, err := handler.Handle(ctx, query)
type GetShipmentHistoryQuery struct { //nolint:recvcheck //using for validation
	trackingNumber string

	guard kernel.ConstructorGuard
}

// NewGetShipmentHistoryQuery creates a query for one shipment's history.
// Validates that the tracking number is not empty.
func NewGetShipmentHistoryQuery(trackingNumber string) (GetShipmentHistoryQuery, error) {
	query := GetShipmentHistoryQuery{
		guard: kernel.NewConstructorGuard(),
	}

	if err := query.setTrackingNumber(trackingNumber); err != nil {
		return GetShipmentHistoryQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetShipmentHistoryQueryIsNotConstructed if validation fails.
func (q GetShipmentHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentHistoryQueryIsNotConstructed)
}

// TrackingNumber returns the tracking number being queried.
func (q GetShipmentHistoryQuery) TrackingNumber() string {
	return q.trackingNumber
}

func (q *GetShipmentHistoryQuery) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return ErrTrackingNumberIsRequired
	}

	q.trackingNumber = trackingNumber
	return nil
}

// GetShipmentHistoryQueryResponse represents the current state of a shipment
// together with its ordered status history.
type GetShipmentHistoryQueryResponse struct {
	TrackingNumber string
	Status         shipment.Status
	ReceivedBy     string
	History        []HistoryEntryResponse
}

// HistoryEntryResponse represents one status history row.
type HistoryEntryResponse struct {
	Status        shipment.Status
	ExceptionCode string
	OccurredAt    time.Time
	Notes         string
}
