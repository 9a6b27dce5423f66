// Package carrier provides the normalized carrier event model and the raw
// wire payload shapes consumed by the carrier adapters.
//
// The package includes:
//   - Event: One normalized scan/status record derived from a carrier's raw
//     tracking payload. Events are transient: produced by one adapter call,
//     consumed within one reconciliation pass, never persisted.
//   - Family: The grouping of carrier-native event types into the status
//     families (delivery, non-delivery, in-transit, pending, pickup) shared
//     by the adapters and the event selector.
//   - TrackResponse and friends: The discriminated wire structure of the REST
//     tracking API, validated at the adapter boundary so no untyped maps
//     cross into the selector or applier.
package carrier
