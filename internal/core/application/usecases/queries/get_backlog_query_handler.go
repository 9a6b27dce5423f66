package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// GetBacklogQueryHandler retrieves the polling backlog from the database.
// Terminal shipments (Delivered, ReturnedToCarrier) are excluded: they are
// never polled again.
type GetBacklogQueryHandler struct {
	db *gorm.DB
}

// NewGetBacklogQueryHandler creates a handler for backlog queries.
// Requires a GORM database connection for query execution.
func NewGetBacklogQueryHandler(db *gorm.DB) GetBacklogQueryHandler {
	return GetBacklogQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal shipments.
// Results are sorted by priority (highest first), then tracking number.
func (h GetBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetBacklogQuery,
) ([]GetBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	backlog := make([]GetBacklogQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			carrier,
			subsidiary_id,
			priority,
			status
		FROM shipments
		WHERE status NOT IN (?, ?)
		ORDER BY priority DESC, tracking_number
	`, int(shipment.Delivered), int(shipment.ReturnedToCarrier)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetBacklogQueryResponse
		var id uuid.UUID
		var carrier, status int

		err = rows.Scan(
			&id,
			&resp.TrackingNumber,
			&carrier,
			&resp.SubsidiaryID,
			&resp.Priority,
			&status,
		)
		if err != nil {
			return nil, err
		}

		shipmentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = shipmentID
		resp.Carrier = shipment.CarrierKind(carrier)
		resp.Status = shipment.Status(status)

		backlog = append(backlog, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return backlog, nil
}
