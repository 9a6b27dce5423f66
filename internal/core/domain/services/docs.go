// Package services provides the pure domain services of the reconciliation
// engine: the two carrier adapters and the event selector/validator.
//
// The package includes:
//   - ExpressTrackingAdapter: normalizes REST tracking API responses into
//     carrier events, applying the DL-override selection rule
//   - CargoReportParser: parses the cargo carrier's free-text tracking report
//     with a line-oriented section state machine
//   - EventSelector: picks the authoritative event for a shipment and gates
//     it against the owning subsidiary's acceptance policy
//
// All three are pure: no I/O, no shared mutable state. Fetching raw payloads
// is the job of the outbound adapters; committing validated transitions is
// the job of the update application in the command layer.
package services
