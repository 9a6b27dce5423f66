package services

import (
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/core/domain/model/carrier"
	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/domain/model/subsidiary"
)

// ErrEventRejected is the sentinel every ValidationError unwraps to, so
// callers can classify policy rejections with errors.Is without inspecting
// the kind.
var ErrEventRejected = errors.New("carrier event rejected by policy")

// ValidationKind discriminates why the selector rejected a carrier event.
type ValidationKind int

const (
	// ValidationNoEvents: the adapter produced no events for the shipment.
	ValidationNoEvents ValidationKind = iota

	// ValidationExceptionCodeNotAllowed: the event's exception code is not
	// accepted by the subsidiary's policy (membership or the independent
	// "03"/"16" enable flags).
	ValidationExceptionCodeNotAllowed

	// ValidationExceptionODNotAllowed: the event carries the OD derived code
	// (a delivery attempt needing manual validation) and the branch has not
	// enabled OD acceptance. Tracked separately in the outcome report.
	ValidationExceptionODNotAllowed

	// ValidationStatusNotAllowed: the mapped canonical status is outside the
	// branch's allowed set.
	ValidationStatusNotAllowed

	// ValidationEventTypeNotAllowed: a touched event type is outside the
	// branch's optional event-type allowlist.
	ValidationEventTypeNotAllowed

	// ValidationStaleEvent: the chosen event is older than the branch's
	// freshness bound.
	ValidationStaleEvent

	// ValidationUnparsableDate: the chosen event's timestamp could not be
	// parsed, so its freshness cannot be established.
	ValidationUnparsableDate
)

// String returns the human-readable name of the validation kind.
func (k ValidationKind) String() string {
	switch k {
	case ValidationNoEvents:
		return "NoEvents"
	case ValidationExceptionCodeNotAllowed:
		return "ExceptionCodeNotAllowed"
	case ValidationExceptionODNotAllowed:
		return "ExceptionODNotAllowed"
	case ValidationStatusNotAllowed:
		return "StatusNotAllowed"
	case ValidationEventTypeNotAllowed:
		return "EventTypeNotAllowed"
	case ValidationStaleEvent:
		return "StaleEvent"
	case ValidationUnparsableDate:
		return "UnparsableDate"
	default:
		return "Unknown"
	}
}

// ValidationError reports that a readable carrier event was rejected by the
// subsidiary's acceptance policy. It carries the offending event so the
// outcome report can surface the derived code, exception code, and event
// date for operator follow-up.
type ValidationError struct {
	Kind           ValidationKind
	TrackingNumber string
	Event          carrier.Event
	Detail         string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", ErrEventRejected, e.TrackingNumber, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", ErrEventRejected, e.TrackingNumber, e.Kind)
}

// Unwrap returns the sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrEventRejected
}

// EventSelector picks the authoritative carrier event for a shipment and
// validates it against the owning subsidiary's acceptance policy. It is a
// pure domain service; the clock is injected so freshness tests are
// deterministic.
type EventSelector struct {
	now func() time.Time
}

// NewEventSelector creates a selector using the wall clock.
func NewEventSelector() EventSelector {
	return EventSelector{now: time.Now}
}

// NewEventSelectorWithNow creates a selector with an injected clock.
func NewEventSelectorWithNow(now func() time.Time) EventSelector {
	return EventSelector{now: now}
}

// SelectAndValidate chooses the authoritative event and runs it through the
// policy gates in order: exception code (including the independent "03"/"16"
// flags and the OD derived-code gate), status, optional event types, and
// freshness. It returns the validated pair only when every gate passes.
//
// Selection walks the status families in confirmation priority (delivery,
// non-delivery, in-transit, pending, pickup) and takes the first event whose
// type belongs to the family; when no family matches, the chronologically
// latest event is the candidate.
//
// Every rejection is a *ValidationError; the caller classifies it into the
// outcome report rather than aborting the batch.
func (s EventSelector) SelectAndValidate(
	shp *shipment.Shipment,
	events []carrier.Event,
	rules subsidiary.Rules,
) (carrier.Event, shipment.Status, error) {
	if err := shp.Validate(); err != nil {
		return carrier.Event{}, shipment.Unspecified, err
	}

	if len(events) == 0 {
		return carrier.Event{}, shipment.Unspecified, &ValidationError{
			Kind:           ValidationNoEvents,
			TrackingNumber: shp.TrackingNumber(),
		}
	}

	chosen := s.selectEvent(events)
	mapped := chosen.Status
	if mapped == shipment.Unspecified {
		mapped = shipment.Unknown
	}

	if err := s.checkExceptionGate(shp, chosen, rules); err != nil {
		return carrier.Event{}, shipment.Unspecified, err
	}

	if !rules.StatusAllowed(mapped) {
		return carrier.Event{}, shipment.Unspecified, &ValidationError{
			Kind:           ValidationStatusNotAllowed,
			TrackingNumber: shp.TrackingNumber(),
			Event:          chosen,
			Detail:         fmt.Sprintf("status %s not allowed for subsidiary %s", mapped, rules.SubsidiaryID),
		}
	}

	if rules.EventTypeGateEnabled() {
		for _, e := range events {
			if !rules.EventTypeAllowed(e.Type) {
				return carrier.Event{}, shipment.Unspecified, &ValidationError{
					Kind:           ValidationEventTypeNotAllowed,
					TrackingNumber: shp.TrackingNumber(),
					Event:          e,
					Detail:         fmt.Sprintf("event type %q not allowed", e.Type),
				}
			}
		}
	}

	if err := s.checkFreshness(shp, chosen, rules); err != nil {
		return carrier.Event{}, shipment.Unspecified, err
	}

	return chosen, mapped, nil
}

// selectEvent walks the confirmation priority and falls back to the latest
// event by date when no family matches.
func (s EventSelector) selectEvent(events []carrier.Event) carrier.Event {
	for _, family := range carrier.ConfirmationOrder() {
		for _, e := range events {
			if carrier.FamilyOf(e.Type) == family {
				return e
			}
		}
	}

	latest, _ := carrier.Latest(events)
	return latest
}

// checkExceptionGate enforces the exception-code policy. The OD derived code
// is gated separately because it signals a delivery attempt that needs
// manual follow-up, and the outcome report tracks it in its own bucket.
func (s EventSelector) checkExceptionGate(
	shp *shipment.Shipment,
	chosen carrier.Event,
	rules subsidiary.Rules,
) error {
	if chosen.DerivedCode == "OD" && !rules.AllowExceptionOD {
		return &ValidationError{
			Kind:           ValidationExceptionODNotAllowed,
			TrackingNumber: shp.TrackingNumber(),
			Event:          chosen,
			Detail:         "derived code OD requires manual validation",
		}
	}

	code := chosen.ExceptionCode
	if code == "" {
		return nil
	}

	reject := func(detail string) error {
		return &ValidationError{
			Kind:           ValidationExceptionCodeNotAllowed,
			TrackingNumber: shp.TrackingNumber(),
			Event:          chosen,
			Detail:         detail,
		}
	}

	if !rules.ExceptionCodeListed(code) {
		return reject(fmt.Sprintf("exception code %q not in allowed set", code))
	}
	// Codes "03" and "16" carry independent enable flags on top of list
	// membership.
	if code == "03" && !rules.AllowException03 {
		return reject(`exception code "03" is not enabled for this subsidiary`)
	}
	if code == "16" && !rules.AllowException16 {
		return reject(`exception code "16" is not enabled for this subsidiary`)
	}
	return nil
}

// checkFreshness enforces the branch's event-age bound, inclusive: an event
// dated exactly MaxEventAge days ago passes, one day older is rejected.
func (s EventSelector) checkFreshness(
	shp *shipment.Shipment,
	chosen carrier.Event,
	rules subsidiary.Rules,
) error {
	if chosen.OccurredAt.IsZero() {
		return &ValidationError{
			Kind:           ValidationUnparsableDate,
			TrackingNumber: shp.TrackingNumber(),
			Event:          chosen,
			Detail:         fmt.Sprintf("cannot parse event date %q", chosen.RawDate),
		}
	}

	cutoff := s.now().UTC().AddDate(0, 0, -rules.MaxEventAge())
	if chosen.OccurredAt.Before(cutoff) {
		return &ValidationError{
			Kind:           ValidationStaleEvent,
			TrackingNumber: shp.TrackingNumber(),
			Event:          chosen,
			Detail: fmt.Sprintf("event dated %s is older than %d days",
				chosen.OccurredAt.Format(time.RFC3339), rules.MaxEventAge()),
		}
	}
	return nil
}
