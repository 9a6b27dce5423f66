package commands

import (
	"time"

	"shiptrack/internal/core/domain/model/shipment"
)

// ShipmentSummary describes one applied status update.
type ShipmentSummary struct {
	TrackingNumber string          `json:"trackingNumber"`
	PreviousStatus shipment.Status `json:"previousStatus"`
	NewStatus      shipment.Status `json:"newStatus"`
	EventType      string          `json:"eventType"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// ShipmentError describes one tracking number that could not be processed:
// adapter, network, or parse failure, a failed commit, or a tracking number
// with no local shipment record.
type ShipmentError struct {
	TrackingNumber string `json:"trackingNumber"`
	Error          string `json:"error"`
}

// UnusualCode describes one readable carrier event rejected by the
// subsidiary policy, flagged for human review rather than dropped.
type UnusualCode struct {
	TrackingNumber string `json:"trackingNumber"`
	DerivedCode    string `json:"derivedCode"`
	ExceptionCode  string `json:"exceptionCode"`
	EventDate      string `json:"eventDate"`
	Reason         string `json:"reason"`
}

// ODCase describes one shipment rejected specifically by the OD exception
// gate. OD signals a delivery attempt needing manual follow-up, so these are
// tracked apart from other unusual codes.
type ODCase struct {
	TrackingNumber string `json:"trackingNumber"`
	Reason         string `json:"reason"`
}

// ReconciliationReport aggregates the outcome of one sub-batch. Every
// processed tracking number lands in exactly one bucket.
type ReconciliationReport struct {
	Updated      []ShipmentSummary `json:"updatedShipments"`
	Unchanged    []string          `json:"unchangedShipments"`
	UnusualCodes []UnusualCode     `json:"unusualCodes"`
	WithOD       []ODCase          `json:"shipmentsWithOD"`
	Errors       []ShipmentError   `json:"shipmentsWithError"`
}

// ReconciliationOutcome is the full result of one batch invocation: one
// report per shipment collection plus timing.
type ReconciliationOutcome struct {
	Primary    ReconciliationReport `json:"primary"`
	Charge     ReconciliationReport `json:"charge"`
	DryRun     bool                 `json:"dryRun"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
}
