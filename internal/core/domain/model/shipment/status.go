package shipment

import (
	"fmt"

	"shiptrack/internal/pkg/errs"
)

// Status represents the canonical, carrier-independent lifecycle state of a
// shipment. Carrier-native vocabularies (scan event types, report codes) are
// normalized into this one set by the carrier adapters.
//
// Unlike a classic state machine, Status enforces no transition-legality
// matrix: any status may legitimately follow any other, because real carrier
// feeds are inconsistent and rejecting "illegal" transitions would silently
// drop valid corrections. Carrier exception sub-codes (e.g. "07", "03") are
// not separate statuses; they are stored as a string on the history entry
// that carries NotDelivered.
type Status int

const (
	// Unspecified represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unspecified Status = iota

	// Pending is the initial status of a newly created shipment and the
	// status of shipments the carrier has acknowledged but not yet moved.
	Pending

	// ReceivedAtHub indicates the carrier has picked the shipment up and
	// scanned it into the origin hub.
	ReceivedAtHub

	// InTransit indicates the shipment is moving through the carrier network.
	InTransit

	// Delivered indicates the shipment reached its recipient. Terminal.
	Delivered

	// NotDelivered indicates a failed delivery attempt. The qualifying
	// carrier exception code lives on the corresponding history entry.
	NotDelivered

	// Unknown indicates the carrier returned a signal that could not be
	// classified. Shipments in this status keep being polled.
	Unknown

	// Rejected indicates the recipient refused the shipment.
	Rejected

	// ReturnedToCarrier indicates the shipment went back into the carrier's
	// custody for return to sender. Terminal.
	ReturnedToCarrier

	// CarrierStation indicates the shipment is being held at a carrier
	// station awaiting pickup or further routing.
	CarrierStation
)

// DefaultInitial returns the status assigned to shipments whose history is
// still empty.
func DefaultInitial() Status {
	return Pending
}

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unspecified:       "Unspecified",
		Pending:           "Pending",
		ReceivedAtHub:     "ReceivedAtHub",
		InTransit:         "InTransit",
		Delivered:         "Delivered",
		NotDelivered:      "NotDelivered",
		Unknown:           "Unknown",
		Rejected:          "Rejected",
		ReturnedToCarrier: "ReturnedToCarrier",
		CarrierStation:    "CarrierStation",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unspecified is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:           "Pending",
		ReceivedAtHub:     "ReceivedAtHub",
		InTransit:         "InTransit",
		Delivered:         "Delivered",
		NotDelivered:      "NotDelivered",
		Unknown:           "Unknown",
		Rejected:          "Rejected",
		ReturnedToCarrier: "ReturnedToCarrier",
		CarrierStation:    "CarrierStation",
	}
}

// Validate checks if the Status value is valid.
//
// Every named status except Unspecified is valid. Note that Unknown is a
// legitimate member of the canonical set (the carrier reported something
// unclassifiable), while Unspecified marks an uninitialized value.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unspecified"
}

// ParseStatus converts a status name back into its Status value. Only valid
// statuses parse; "Unspecified" and unknown names are errors.
func ParseStatus(name string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return Unspecified, errs.NewValueIsInvalidErrorWithCause(
		"status name is invalid", fmt.Errorf("%q is not a valid status", name))
}

// MarshalJSON emits the status name rather than its numeric value, so
// reconciliation reports and HTTP responses stay readable.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// IsTerminal reports whether the status ends the shipment lifecycle.
// Terminal shipments are excluded from future reconciliation polling.
// Only Delivered and ReturnedToCarrier are terminal; NotDelivered and
// Rejected are not, because the carrier may still retry or correct them.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == ReturnedToCarrier
}
