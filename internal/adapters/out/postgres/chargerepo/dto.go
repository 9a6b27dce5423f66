// Package chargerepo provides data transfer objects and mapping functions for
// the secondary charge shipment collection. Charge shipments share the
// shipment aggregate but persist in their own tables, so the two
// reconciliation sub-batches touch disjoint record sets.
package chargerepo

import (
	"time"

	"github.com/google/uuid"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/core/domain/model/shipment"
)

// ChargeShipmentDTO represents the database structure for persisting charge
// shipment aggregates.
type ChargeShipmentDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingNumber   string    `gorm:"uniqueIndex"`
	Carrier          int
	SubsidiaryID     string `gorm:"index"`
	Priority         int
	RecipientName    string
	RecipientAddress string
	ReceivedBy       string
	Status           int `gorm:"index"`

	PaymentID     *uuid.UUID `gorm:"type:uuid"`
	PaymentAmount *int64
	PaymentStatus *int

	ConsolidationID *uuid.UUID `gorm:"type:uuid"`
	DispatchID      *uuid.UUID `gorm:"type:uuid"`
	UnloadingID     *uuid.UUID `gorm:"type:uuid"`

	History []ChargeHistoryEntryDTO `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for charge shipment entities.
func (ChargeShipmentDTO) TableName() string {
	return "charge_shipments"
}

// ChargeHistoryEntryDTO represents one row of a charge shipment's
// append-only status history.
type ChargeHistoryEntryDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID    uuid.UUID `gorm:"type:uuid;index"`
	Seq           int
	Status        int
	ExceptionCode string
	OccurredAt    time.Time
	Notes         string
}

// TableName specifies the database table name for charge history rows.
func (ChargeHistoryEntryDTO) TableName() string {
	return "charge_shipment_history"
}

func fromDomain(aggregate *shipment.Shipment) ChargeShipmentDTO {
	dto := ChargeShipmentDTO{
		ID:               aggregate.ID().Bytes(),
		TrackingNumber:   aggregate.TrackingNumber(),
		Carrier:          int(aggregate.Carrier()),
		SubsidiaryID:     aggregate.SubsidiaryID(),
		Priority:         aggregate.Priority(),
		RecipientName:    aggregate.RecipientName(),
		RecipientAddress: aggregate.RecipientAddress(),
		ReceivedBy:       aggregate.ReceivedBy(),
		Status:           int(aggregate.Status()),
		ConsolidationID:  optionalUUID(aggregate.ConsolidationID()),
		DispatchID:       optionalUUID(aggregate.DispatchID()),
		UnloadingID:      optionalUUID(aggregate.UnloadingID()),
	}

	if payment := aggregate.Payment(); payment != nil {
		paymentID := payment.ID().Bytes()
		amount := payment.Amount()
		status := int(payment.Status())
		dto.PaymentID = &paymentID
		dto.PaymentAmount = &amount
		dto.PaymentStatus = &status
	}

	for i, entry := range aggregate.History() {
		dto.History = append(dto.History, ChargeHistoryEntryDTO{
			ID:            entry.ID().Bytes(),
			ShipmentID:    dto.ID,
			Seq:           i,
			Status:        int(entry.Status()),
			ExceptionCode: entry.ExceptionCode(),
			OccurredAt:    entry.OccurredAt(),
			Notes:         entry.Notes(),
		})
	}

	return dto
}

func toDomain(dto ChargeShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	history := make([]shipment.HistoryEntry, 0, len(dto.History))
	for _, row := range dto.History {
		entryID, rowErr := kernel.UUIDFromBytes(row.ID[:])
		if rowErr != nil {
			return nil, rowErr
		}

		entry, rowErr := shipment.RestoreHistoryEntry(
			entryID, shipment.Status(row.Status), row.ExceptionCode, row.OccurredAt, row.Notes)
		if rowErr != nil {
			return nil, rowErr
		}
		history = append(history, entry)
	}

	var payment *shipment.Payment
	if dto.PaymentID != nil && dto.PaymentAmount != nil && dto.PaymentStatus != nil {
		paymentID, payErr := kernel.UUIDFromBytes((*dto.PaymentID)[:])
		if payErr != nil {
			return nil, payErr
		}

		payment, payErr = shipment.RestorePayment(
			paymentID, *dto.PaymentAmount, shipment.PaymentStatus(*dto.PaymentStatus))
		if payErr != nil {
			return nil, payErr
		}
	}

	consolidationID, err := optionalKernelUUID(dto.ConsolidationID)
	if err != nil {
		return nil, err
	}
	dispatchID, err := optionalKernelUUID(dto.DispatchID)
	if err != nil {
		return nil, err
	}
	unloadingID, err := optionalKernelUUID(dto.UnloadingID)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(
		id,
		dto.TrackingNumber,
		shipment.CarrierKind(dto.Carrier),
		dto.SubsidiaryID,
		dto.Priority,
		dto.RecipientName,
		dto.RecipientAddress,
		dto.ReceivedBy,
		shipment.Status(dto.Status),
		history,
		payment,
		consolidationID,
		dispatchID,
		unloadingID,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
