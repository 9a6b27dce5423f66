package carrier

import "time"

// ReportShipment is one shipment block parsed out of the cargo carrier's
// free-text tracking report. Like Event, it is transient: the report is
// re-fetched and re-parsed on every reconciliation pass.
type ReportShipment struct {
	// AWB is the air waybill number identifying the shipment in the report.
	AWB string

	// Origin and Destination are the three-letter facility codes from the
	// block's header line.
	Origin      string
	Destination string

	// ShippedAt is the header's date-time, zero when unparsable.
	ShippedAt time.Time

	// Product is the carrier product/service code.
	Product string

	// Pieces is the declared piece count.
	Pieces int

	// Weight is the declared weight.
	Weight float64

	// Accounts lists the account identifiers attached to the block.
	Accounts []string

	// Receiver is the consignee or proof-of-delivery name, when present.
	Receiver string

	// Events holds the normalized events retained for this shipment.
	Events []Event
}
