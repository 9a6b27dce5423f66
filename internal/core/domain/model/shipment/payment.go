package shipment

import (
	"errors"

	"shiptrack/internal/core/domain/model/kernel"
)

var (
	// ErrPaymentIsNotConstructed is returned when a Payment instance was not created
	// through the NewPayment factory method.
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment")
)

// PaymentStatus represents the settlement state of the payment correlated
// with a shipment (cash on delivery and similar arrangements).
type PaymentStatus int

const (
	// PaymentUnspecified represents an invalid or undefined payment status.
	PaymentUnspecified PaymentStatus = iota

	// PaymentPending indicates the payment has not been collected yet.
	PaymentPending

	// PaymentPaid indicates the payment was collected on delivery.
	PaymentPaid
)

// String returns the human-readable name of the payment status.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentPaid:
		return "Paid"
	default:
		return "Unspecified"
	}
}

// paymentStatusFor is the status -> payment status rule invoked whenever a
// carrier update is applied: a delivered shipment is considered collected,
// anything else reverts the payment to pending. Keeping the rule in one place
// avoids the conditional spreading across call sites.
func paymentStatusFor(status Status) PaymentStatus {
	if status == Delivered {
		return PaymentPaid
	}
	return PaymentPending
}

// Payment is the optional payment record correlated with a shipment.
// Its status is derived from the shipment's canonical status by the
// carrier-update application, never set independently by this engine.
type Payment struct {
	id     kernel.UUID
	amount int64
	status PaymentStatus

	guard kernel.ConstructorGuard
}

// NewPayment creates a pending payment over the given amount in minor units.
func NewPayment(id kernel.UUID, amount int64) (*Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Payment{
		id:     id,
		amount: amount,
		status: PaymentPending,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// RestorePayment reconstructs a payment from persistence.
func RestorePayment(id kernel.UUID, amount int64, status PaymentStatus) (*Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Payment{
		id:     id,
		amount: amount,
		status: status,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Payment instance was properly constructed.
func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() kernel.UUID {
	return p.id
}

// Amount returns the payment amount in minor currency units.
func (p *Payment) Amount() int64 {
	return p.amount
}

// Status returns the current payment status.
func (p *Payment) Status() PaymentStatus {
	return p.status
}
