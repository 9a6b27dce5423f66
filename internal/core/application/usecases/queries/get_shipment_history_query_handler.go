package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/pkg/errs"
)

// GetShipmentHistoryQueryHandler retrieves one shipment's status history
// from the database in append order.
type GetShipmentHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetShipmentHistoryQueryHandler creates a handler for history queries.
// Requires a GORM database connection for query execution.
func NewGetShipmentHistoryQueryHandler(db *gorm.DB) GetShipmentHistoryQueryHandler {
	return GetShipmentHistoryQueryHandler{db: db}
}

// Handle executes the query for one tracking number.
// Returns errs.ObjectNotFoundError when no shipment owns the tracking number.
func (h GetShipmentHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentHistoryQuery,
) (GetShipmentHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentHistoryQueryResponse{}, err
	}

	var shipmentID uuid.UUID
	var status int
	var receivedBy string

	row := h.db.WithContext(ctx).Raw(`
		SELECT id, status, received_by
		FROM shipments
		WHERE tracking_number = ?
	`, query.TrackingNumber()).Row()

	if err := row.Scan(&shipmentID, &status, &receivedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetShipmentHistoryQueryResponse{},
				errs.NewObjectNotFoundError("trackingNumber", query.TrackingNumber())
		}
		return GetShipmentHistoryQueryResponse{}, err
	}

	resp := GetShipmentHistoryQueryResponse{
		TrackingNumber: query.TrackingNumber(),
		Status:         shipment.Status(status),
		ReceivedBy:     receivedBy,
		History:        make([]HistoryEntryResponse, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, exception_code, occurred_at, notes
		FROM shipment_history
		WHERE shipment_id = ?
		ORDER BY seq
	`, shipmentID).Rows()
	if err != nil {
		return GetShipmentHistoryQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry HistoryEntryResponse
		var entryStatus int

		err = rows.Scan(
			&entryStatus,
			&entry.ExceptionCode,
			&entry.OccurredAt,
			&entry.Notes,
		)
		if err != nil {
			return GetShipmentHistoryQueryResponse{}, err
		}

		entry.Status = shipment.Status(entryStatus)
		resp.History = append(resp.History, entry)
	}

	if err = rows.Err(); err != nil {
		return GetShipmentHistoryQueryResponse{}, err
	}

	return resp, nil
}
