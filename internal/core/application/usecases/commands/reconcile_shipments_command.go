package commands

import (
	"errors"

	"shiptrack/internal/core/domain/model/kernel"
)

var (
	ErrReconcileShipmentsCommandIsNotConstructed = errors.New(
		"ReconcileShipmentsCommand must be created via NewReconcileShipmentsCommand constructor",
	)
	ErrTrackingNumberIsEmpty = errors.New("tracking numbers must not contain empty entries")
)

// ReconcileShipmentsCommand represents a request to run one reconciliation
// batch against the carriers.
//
// An empty tracking number list means the full backlog: every non-terminal
// shipment in both the primary and charge collections is polled. A non-empty
// list restricts the batch to those tracking numbers (manual resync).
//
// When persistIfValid is false the batch is a dry run: events are fetched,
// validated, and classified, but no shipment is written.
//
// Example:
//
//	cmd, err := NewReconcileShipmentsCommand(nil, true)
//	if err != nil {
//	    return fmt.Errorf("invalid batch request: %w", err)
//	}
//
//	outcome, err := handler.Handle(ctx, cmd)
type ReconcileShipmentsCommand struct { //nolint:recvcheck //using for validation
	trackingNumbers []string
	persistIfValid  bool

	guard kernel.ConstructorGuard
}

// NewReconcileShipmentsCommand creates a command to run a reconciliation
// batch. Validates that no listed tracking number is empty.
func NewReconcileShipmentsCommand(trackingNumbers []string, persistIfValid bool) (ReconcileShipmentsCommand, error) {
	cmd := ReconcileShipmentsCommand{
		persistIfValid: persistIfValid,
		guard:          kernel.NewConstructorGuard(),
	}

	if err := cmd.setTrackingNumbers(trackingNumbers); err != nil {
		return ReconcileShipmentsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileShipmentsCommandIsNotConstructed if validation fails.
func (c ReconcileShipmentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileShipmentsCommandIsNotConstructed)
}

// TrackingNumbers returns the explicit tracking number list, or nil when the
// batch targets the full non-terminal backlog.
func (c ReconcileShipmentsCommand) TrackingNumbers() []string {
	return c.trackingNumbers
}

// PersistIfValid reports whether validated updates are written. False means
// a dry run.
func (c ReconcileShipmentsCommand) PersistIfValid() bool {
	return c.persistIfValid
}

func (c *ReconcileShipmentsCommand) setTrackingNumbers(trackingNumbers []string) error {
	for _, tn := range trackingNumbers {
		if tn == "" {
			return ErrTrackingNumberIsEmpty
		}
	}

	c.trackingNumbers = trackingNumbers
	return nil
}
