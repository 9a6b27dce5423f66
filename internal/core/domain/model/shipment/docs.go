// Package shipment provides domain entities and business logic for shipment
// lifecycle management in the tracking system. It implements the Shipment
// aggregate root with its canonical status model and append-only status history.
//
// The package includes:
//   - Shipment: The aggregate root that manages shipment identity, recipient data,
//     status history, and the correlated payment record
//   - Status: The canonical, carrier-independent lifecycle state
//   - HistoryEntry: An immutable record of one status transition
//   - Payment: The correlated payment whose status follows delivery outcome
//
// Key business rules:
//   - A shipment's status always equals the status of its last history entry,
//     or the initial default (Pending) when the history is empty
//   - No transition-legality matrix is enforced: carrier feeds are inconsistent
//     and rejecting "illegal" transitions would silently drop valid corrections
//   - Applying the same status twice is a no-op, which keeps repeated carrier
//     polling idempotent
//   - Delivered and ReturnedToCarrier are terminal: shipments in those states
//     are excluded from future polling
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package shipment
