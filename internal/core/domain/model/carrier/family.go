package carrier

import "shiptrack/internal/core/domain/model/shipment"

// Family groups carrier-native event types into the status families used by
// the event selector. Adapters and selector share these groupings so a code
// never maps to one family during normalization and another during selection.
type Family int

const (
	// FamilyNone means the event type belongs to no known family.
	FamilyNone Family = iota

	// FamilyDelivery groups confirmed-delivery event types.
	FamilyDelivery

	// FamilyNonDelivery groups failed-delivery event types.
	FamilyNonDelivery

	// FamilyInTransit groups network-movement event types.
	FamilyInTransit

	// FamilyPending groups hold/await event types.
	FamilyPending

	// FamilyPickup groups origin-pickup event types.
	FamilyPickup
)

// String returns the human-readable name of the family.
func (f Family) String() string {
	switch f {
	case FamilyDelivery:
		return "Delivery"
	case FamilyNonDelivery:
		return "NonDelivery"
	case FamilyInTransit:
		return "InTransit"
	case FamilyPending:
		return "Pending"
	case FamilyPickup:
		return "Pickup"
	default:
		return "None"
	}
}

// eventTypeFamilies merges both carrier vocabularies. The API carrier uses
// two-letter scan event types (DL, DE, IT, ...); the report carrier uses its
// own code column (FD, PL, OH, ...). The two sets do not collide on meaning:
// codes shared by both (TD, AR) carry the same family in each feed.
var eventTypeFamilies = map[string]Family{
	// Delivery.
	"DL": FamilyDelivery,
	"FD": FamilyDelivery,

	// Non-delivery.
	"DE": FamilyNonDelivery,
	"DU": FamilyNonDelivery,
	"RF": FamilyNonDelivery,

	// In transit.
	"OC": FamilyInTransit,
	"IT": FamilyInTransit,
	"AR": FamilyInTransit,
	"AF": FamilyInTransit,
	"CP": FamilyInTransit,
	"CC": FamilyInTransit,
	"PL": FamilyInTransit,
	"DF": FamilyInTransit,
	"CI": FamilyInTransit,
	"RW": FamilyInTransit,
	"SA": FamilyInTransit,
	"HN": FamilyInTransit,
	"IA": FamilyInTransit,

	// Pending.
	"TA": FamilyPending,
	"TD": FamilyPending,
	"HL": FamilyPending,
	"OH": FamilyPending,
	"MS": FamilyPending,

	// Pickup.
	"PU": FamilyPickup,
}

// familyStatuses maps each family to the canonical status its events confirm.
var familyStatuses = map[Family]shipment.Status{
	FamilyDelivery:    shipment.Delivered,
	FamilyNonDelivery: shipment.NotDelivered,
	FamilyInTransit:   shipment.InTransit,
	FamilyPending:     shipment.Pending,
	FamilyPickup:      shipment.ReceivedAtHub,
}

// FamilyOf returns the status family of a carrier-native event type,
// or FamilyNone for unknown codes.
func FamilyOf(eventType string) Family {
	return eventTypeFamilies[eventType]
}

// StatusOf returns the canonical status confirmed by events of this family.
// Returns shipment.Unspecified for FamilyNone.
func (f Family) StatusOf() shipment.Status {
	return familyStatuses[f]
}

// ConfirmationOrder is the fixed priority in which the event selector looks
// for a confirming event: a delivery signal beats everything, a non-delivery
// signal beats movement noise, and so on down to pickup.
func ConfirmationOrder() []Family {
	return []Family{
		FamilyDelivery,
		FamilyNonDelivery,
		FamilyInTransit,
		FamilyPending,
		FamilyPickup,
	}
}
