package shipment

import (
	"errors"
	"time"

	"shiptrack/internal/core/domain/model/kernel"
)

var (
	// ErrHistoryEntryIsNotConstructed is returned when a HistoryEntry was not
	// created through NewHistoryEntry or RestoreHistoryEntry.
	ErrHistoryEntryIsNotConstructed = errors.New("HistoryEntry must be created via NewHistoryEntry or RestoreHistoryEntry")
)

// HistoryEntry is one immutable record in a shipment's append-only status
// history. Entries are created only when a carrier update is applied and
// are never mutated or removed afterwards.
type HistoryEntry struct {
	id            kernel.UUID
	status        Status
	exceptionCode string
	occurredAt    time.Time
	notes         string

	guard kernel.ConstructorGuard
}

// NewHistoryEntry creates a history entry for a status transition.
// exceptionCode may be empty; it qualifies NotDelivered outcomes.
// occurredAt is the carrier event timestamp, not the local write time.
func NewHistoryEntry(
	id kernel.UUID,
	status Status,
	exceptionCode string,
	occurredAt time.Time,
	notes string,
) (HistoryEntry, error) {
	if err := id.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	return HistoryEntry{
		id:            id,
		status:        status,
		exceptionCode: exceptionCode,
		occurredAt:    occurredAt,
		notes:         notes,
		guard:         kernel.NewConstructorGuard(),
	}, nil
}

// RestoreHistoryEntry reconstructs a history entry from persistence.
func RestoreHistoryEntry(
	id kernel.UUID,
	status Status,
	exceptionCode string,
	occurredAt time.Time,
	notes string,
) (HistoryEntry, error) {
	return NewHistoryEntry(id, status, exceptionCode, occurredAt, notes)
}

// Validate ensures the HistoryEntry was properly constructed.
func (e HistoryEntry) Validate() error {
	return e.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

// ID returns the entry's unique identifier.
func (e HistoryEntry) ID() kernel.UUID {
	return e.id
}

// Status returns the canonical status recorded by this entry.
func (e HistoryEntry) Status() Status {
	return e.status
}

// ExceptionCode returns the carrier exception code qualifying this entry,
// or the empty string when none applies.
func (e HistoryEntry) ExceptionCode() string {
	return e.exceptionCode
}

// OccurredAt returns the carrier-side timestamp of the underlying event.
func (e HistoryEntry) OccurredAt() time.Time {
	return e.occurredAt
}

// Notes returns the free-form description attached to the transition.
func (e HistoryEntry) Notes() string {
	return e.notes
}
