package shipment

import (
	"fmt"

	"shiptrack/internal/pkg/errs"
)

// CarrierKind identifies which courier carrier owns a shipment's tracking
// number, and therefore which adapter normalizes its raw tracking payloads.
type CarrierKind int

const (
	// CarrierUnspecified represents an invalid or undefined carrier.
	CarrierUnspecified CarrierKind = iota

	// CarrierExpress is the courier reached through the REST tracking API.
	CarrierExpress

	// CarrierCargo is the courier that publishes a free-text tracking report.
	CarrierCargo
)

// String returns the human-readable name of the carrier kind.
func (k CarrierKind) String() string {
	switch k {
	case CarrierExpress:
		return "Express"
	case CarrierCargo:
		return "Cargo"
	default:
		return "Unspecified"
	}
}

// Validate checks if the CarrierKind value is valid.
func (k CarrierKind) Validate() error {
	if k != CarrierExpress && k != CarrierCargo {
		return errs.NewValueIsInvalidErrorWithCause("carrier kind is invalid",
			fmt.Errorf("%d is not a valid carrier kind", k))
	}
	return nil
}
