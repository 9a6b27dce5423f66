package shipment

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
	"shiptrack/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment instance was not created
	// through the NewShipment or RestoreShipment factory methods. This ensures all
	// shipments are properly validated.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")
)

// Shipment represents one trackable consignment in the system. It is the
// aggregate root that owns the canonical status, the append-only status
// history, recipient data, and the optional correlated payment.
//
// Shipment follows these invariants:
//   - Must have a valid unique identifier and non-empty tracking number
//   - Must belong to a known carrier
//   - status always equals the status of the last history entry, or the
//     initial default when the history is empty
//   - History entries are append-only; they are never mutated or removed
//   - Can only be created through the factory functions
//
// Shipments are created by intake (outside this engine) and mutated only by
// ApplyCarrierUpdate; they are never deleted here.
type Shipment struct {
	// id is the unique identifier for the shipment
	id kernel.UUID

	// trackingNumber is the carrier-issued tracking identifier
	trackingNumber string

	// carrier identifies the courier carrier owning the tracking number
	carrier CarrierKind

	// subsidiaryID names the branch whose policy governs carrier signals
	subsidiaryID string

	// priority orders shipments for dispatch; higher means more urgent
	priority int

	// recipientName and recipientAddress describe the consignee
	recipientName    string
	recipientAddress string

	// receivedBy is the carrier-supplied name of whoever accepted delivery
	receivedBy string

	// status is the current canonical lifecycle state
	status Status

	// history is the ordered, append-only status history
	history []HistoryEntry

	// payment is the optional correlated payment record
	payment *Payment

	// Optional grouping references maintained by downstream modules.
	consolidationID *kernel.UUID
	dispatchID      *kernel.UUID
	unloadingID     *kernel.UUID

	// isConstructed ensures the shipment was created via a factory function
	isConstructed bool
}

// NewShipment creates a new Shipment with an empty history and the default
// initial status. This is how intake-created shipments enter the domain.
//
// Returns a validation error if the identifier, tracking number, or carrier
// kind is invalid.
func NewShipment(
	id kernel.UUID,
	trackingNumber string,
	carrier CarrierKind,
	subsidiaryID string,
	priority int,
	recipientName string,
	recipientAddress string,
) (*Shipment, error) {
	s := &Shipment{
		status:        DefaultInitial(),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setTrackingNumber(trackingNumber),
		s.setCarrier(carrier),
	); err != nil {
		return nil, err
	}

	s.subsidiaryID = subsidiaryID
	s.priority = priority
	s.recipientName = recipientName
	s.recipientAddress = recipientAddress

	return s, nil
}

// RestoreShipment reconstructs a shipment from persistence, including its
// history, payment, and grouping references. The stored status is trusted;
// callers are expected to have persisted it consistently with the history.
func RestoreShipment(
	id kernel.UUID,
	trackingNumber string,
	carrier CarrierKind,
	subsidiaryID string,
	priority int,
	recipientName string,
	recipientAddress string,
	receivedBy string,
	status Status,
	history []HistoryEntry,
	payment *Payment,
	consolidationID *kernel.UUID,
	dispatchID *kernel.UUID,
	unloadingID *kernel.UUID,
) (*Shipment, error) {
	s, err := NewShipment(id, trackingNumber, carrier, subsidiaryID, priority, recipientName, recipientAddress)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	s.receivedBy = receivedBy
	s.status = status
	s.history = history
	s.payment = payment
	s.consolidationID = consolidationID
	s.dispatchID = dispatchID
	s.unloadingID = unloadingID

	return s, nil
}

// Validate ensures the Shipment instance was properly constructed through a
// factory function. This prevents bypassing validation by directly
// instantiating the struct.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two shipments by their unique identifiers.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID {
	return s.id
}

// TrackingNumber returns the carrier-issued tracking identifier.
func (s *Shipment) TrackingNumber() string {
	return s.trackingNumber
}

// Carrier returns the courier carrier owning the tracking number.
func (s *Shipment) Carrier() CarrierKind {
	return s.carrier
}

// SubsidiaryID returns the branch whose policy governs this shipment.
func (s *Shipment) SubsidiaryID() string {
	return s.subsidiaryID
}

// Priority returns the dispatch priority; higher means more urgent.
func (s *Shipment) Priority() int {
	return s.priority
}

// RecipientName returns the consignee's name.
func (s *Shipment) RecipientName() string {
	return s.recipientName
}

// RecipientAddress returns the consignee's address.
func (s *Shipment) RecipientAddress() string {
	return s.recipientAddress
}

// ReceivedBy returns the carrier-supplied name of whoever accepted delivery,
// or the empty string when no delivery has been confirmed.
func (s *Shipment) ReceivedBy() string {
	return s.receivedBy
}

// Status returns the current canonical status of the shipment.
func (s *Shipment) Status() Status {
	return s.status
}

// History returns the ordered status history. The returned slice must be
// treated as read-only.
func (s *Shipment) History() []HistoryEntry {
	return s.history
}

// LastHistoryEntry returns the most recent history entry, or false when the
// history is empty.
func (s *Shipment) LastHistoryEntry() (HistoryEntry, bool) {
	if len(s.history) == 0 {
		return HistoryEntry{}, false
	}
	return s.history[len(s.history)-1], true
}

// Payment returns the correlated payment record, or nil when none exists.
func (s *Shipment) Payment() *Payment {
	return s.payment
}

// ConsolidationID returns the consolidation grouping reference, if any.
func (s *Shipment) ConsolidationID() *kernel.UUID {
	return s.consolidationID
}

// DispatchID returns the dispatch manifest reference, if any.
func (s *Shipment) DispatchID() *kernel.UUID {
	return s.dispatchID
}

// UnloadingID returns the unloading session reference, if any.
func (s *Shipment) UnloadingID() *kernel.UUID {
	return s.unloadingID
}

// AttachPayment associates a payment record with the shipment. Used by
// persistence restore paths and intake; the engine itself never creates
// payments.
func (s *Shipment) AttachPayment(p *Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.payment = p
	return nil
}

// ApplyCarrierUpdate transitions the shipment to newStatus based on a
// validated carrier event. This is the single mutation point of the
// aggregate.
//
// The no-op rule makes repeated polling idempotent: when the shipment is
// already in newStatus, nothing changes and (false, nil) is returned.
// Otherwise, in one logical unit:
//   - one history entry {newStatus, exceptionCode, occurredAt, notes} is appended
//   - the status is set to newStatus
//   - the correlated payment, if any, becomes Paid on Delivered and Pending otherwise
//   - receivedBy is copied from the carrier when the shipment has none yet
//
// Callers must persist the resulting state atomically: a status flip without
// its matching history row violates the aggregate invariant.
//
// Returns:
//   - (true, nil) when the transition was applied
//   - (false, nil) when the update was an idempotent no-op
//   - (false, error) when the shipment or newStatus is invalid
func (s *Shipment) ApplyCarrierUpdate(
	newStatus Status,
	exceptionCode string,
	occurredAt time.Time,
	notes string,
	receivedBy string,
) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	if err := newStatus.Validate(); err != nil {
		return false, err
	}

	if s.status == newStatus {
		return false, nil
	}

	entry, err := NewHistoryEntry(kernel.NewUUID(), newStatus, exceptionCode, occurredAt, notes)
	if err != nil {
		return false, err
	}

	s.history = append(s.history, entry)
	s.status = newStatus

	if s.payment != nil {
		s.payment.status = paymentStatusFor(newStatus)
	}

	if s.receivedBy == "" && receivedBy != "" {
		s.receivedBy = receivedBy
	}

	return true, nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	s.trackingNumber = trackingNumber
	return nil
}

func (s *Shipment) setCarrier(carrier CarrierKind) error {
	if err := carrier.Validate(); err != nil {
		return err
	}
	s.carrier = carrier
	return nil
}
