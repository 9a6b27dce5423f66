package services

import (
	"errors"
	"fmt"

	"shiptrack/internal/core/domain/model/carrier"
	"shiptrack/internal/core/domain/model/shipment"
)

// ErrCarrierResponseInvalid is returned when the REST tracking API reply is
// unusable: it yields zero track results for the requested tracking number.
// The orchestrator reports such shipments as errors and continues the batch.
var ErrCarrierResponseInvalid = errors.New("carrier response invalid")

// ExpressTrackingAdapter normalizes REST tracking API responses into carrier
// events. The adapter is pure: it performs no I/O and holds no state, so it
// is safe to share across workers.
//
// Selection rule: the scan event whose eventType or derivedStatusCode is
// "DL" wins even when it is not chronologically latest, because the carrier
// appends correction scans out of order after a delivery is confirmed.
// Without a DL event the chronologically latest event wins. The winning
// event is placed first in the returned slice.
type ExpressTrackingAdapter struct{}

// NewExpressTrackingAdapter creates a new ExpressTrackingAdapter.
func NewExpressTrackingAdapter() ExpressTrackingAdapter {
	return ExpressTrackingAdapter{}
}

// Normalize converts the raw API response for trackingNumber into normalized
// carrier events, winning event first.
//
// The winning event's exception code is resolved from the first ancillary
// detail's reason on the latest status detail, falling back to the event's
// own exception code. Its derived code falls back to the latest status
// detail's derived code when the scan itself carries none.
//
// Returns ErrCarrierResponseInvalid (wrapped) when the response contains no
// track results.
func (a ExpressTrackingAdapter) Normalize(
	trackingNumber string,
	resp carrier.TrackResponse,
) ([]carrier.Event, error) {
	result, err := a.findTrackResult(trackingNumber, resp)
	if err != nil {
		return nil, err
	}

	events := make([]carrier.Event, 0, len(result.ScanEvents))
	for _, scan := range result.ScanEvents {
		events = append(events, a.normalizeScan(scan))
	}
	if len(events) == 0 {
		return []carrier.Event{}, nil
	}

	winnerIdx := a.selectWinner(events)
	a.resolveWinner(&events[winnerIdx], result)

	ordered := make([]carrier.Event, 0, len(events))
	ordered = append(ordered, events[winnerIdx])
	for i, e := range events {
		if i != winnerIdx {
			ordered = append(ordered, e)
		}
	}
	return ordered, nil
}

// findTrackResult locates the track result for the requested tracking number.
// Some carrier replies omit the echo of the tracking number; the first result
// is used in that case.
func (a ExpressTrackingAdapter) findTrackResult(
	trackingNumber string,
	resp carrier.TrackResponse,
) (carrier.TrackResult, error) {
	if len(resp.TrackResults) == 0 {
		return carrier.TrackResult{}, fmt.Errorf("%w: no track results for %s",
			ErrCarrierResponseInvalid, trackingNumber)
	}

	for _, result := range resp.TrackResults {
		if result.TrackingNumber == trackingNumber {
			return result, nil
		}
	}
	return resp.TrackResults[0], nil
}

// normalizeScan maps one raw scan event to a normalized carrier event.
// Event types outside the fixed mapping normalize to Unknown; the selector
// and subsidiary policy decide what to do with them.
func (a ExpressTrackingAdapter) normalizeScan(scan carrier.ScanEvent) carrier.Event {
	status := carrier.FamilyOf(scan.EventType).StatusOf()
	if status == shipment.Unspecified {
		status = shipment.Unknown
	}

	occurredAt, _ := carrier.ParseEventTime(scan.Date)

	return carrier.Event{
		Type:          scan.EventType,
		DerivedCode:   scan.DerivedStatusCode,
		Status:        status,
		ExceptionCode: scan.ExceptionCode,
		OccurredAt:    occurredAt,
		RawDate:       scan.Date,
		Description:   scan.EventDescription,
		Location:      scan.ScanLocation,
	}
}

// selectWinner returns the index of the winning event: the first DL event if
// any (by type or derived code), else the chronologically latest.
func (a ExpressTrackingAdapter) selectWinner(events []carrier.Event) int {
	for i, e := range events {
		if e.Type == "DL" || e.DerivedCode == "DL" {
			return i
		}
	}

	winner := 0
	for i, e := range events {
		if e.OccurredAt.After(events[winner].OccurredAt) {
			winner = i
		}
	}
	return winner
}

// resolveWinner fills the winning event's exception code, derived code, and
// proof-of-delivery name from the response's summary sections.
func (a ExpressTrackingAdapter) resolveWinner(winner *carrier.Event, result carrier.TrackResult) {
	if len(result.LatestStatusDetail.AncillaryDetails) > 0 {
		if reason := result.LatestStatusDetail.AncillaryDetails[0].Reason; reason != "" {
			winner.ExceptionCode = reason
		}
	}
	if winner.DerivedCode == "" {
		winner.DerivedCode = result.LatestStatusDetail.DerivedCode
	}
	if winner.Status == shipment.Delivered {
		winner.ReceivedBy = result.DeliveryDetails.ReceivedByName
	}
}
