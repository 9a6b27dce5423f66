package carrier

import (
	"time"

	"shiptrack/internal/core/domain/model/shipment"
)

// Event is one normalized scan/status record derived from a carrier's raw
// tracking response. Events carry both the carrier-native identifiers (Type,
// DerivedCode, ExceptionCode) and the canonical status the adapter mapped
// them to, so policy checks can gate on either vocabulary.
//
// An Event is transient: it lives for one reconciliation pass and is never
// persisted. The history entry written by the update applier is derived from
// the winning event instead.
type Event struct {
	// Type is the carrier-native event or scan code (e.g. "DL", "PU", "FD").
	Type string

	// DerivedCode is the carrier-derived status code attached to the event,
	// when the carrier distinguishes it from the event type.
	DerivedCode string

	// Status is the canonical status the adapter mapped this event to.
	Status shipment.Status

	// ExceptionCode qualifies non-delivery outcomes (e.g. "07", "03").
	ExceptionCode string

	// OccurredAt is the parsed event timestamp. A zero value means RawDate
	// could not be parsed; the validator rejects such events explicitly
	// rather than guessing.
	OccurredAt time.Time

	// RawDate preserves the carrier's original timestamp string for
	// diagnostics and operator follow-up.
	RawDate string

	// Description is the carrier's human-readable event text.
	Description string

	// Location is the raw scan location string, unparsed.
	Location string

	// Incident flags event codes the carrier semantics mark as an incident
	// (e.g. the report carrier's MS/TD codes) even though they normalize to
	// a non-exceptional status.
	Incident bool

	// ReceivedBy is the carrier-supplied name of whoever accepted delivery,
	// attached to delivery-family events when the carrier provides it.
	ReceivedBy string
}

// eventTimeLayouts are the timestamp formats observed across both carrier
// feeds, tried in order.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
	"2006-01-02",
}

// ParseEventTime parses a carrier timestamp string into UTC.
// Returns the zero time and false when no known layout matches.
func ParseEventTime(raw string) (time.Time, bool) {
	for _, layout := range eventTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Latest returns the chronologically latest event by OccurredAt.
// Events with unparsable dates sort earliest. Returns false for an empty slice.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}

	latest := events[0]
	for _, e := range events[1:] {
		if e.OccurredAt.After(latest.OccurredAt) {
			latest = e
		}
	}
	return latest, true
}
