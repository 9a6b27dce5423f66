// Package subsidiary provides the branch-level acceptance policy for carrier
// signals. Each subsidiary (branch/office) owns a Rules record deciding which
// canonical statuses, exception codes, and event types it accepts from the
// carriers, and how stale a carrier event may be.
//
// The policy table is injected at construction time rather than read from a
// module-level singleton, so tests can substitute synthetic policies
// deterministically.
package subsidiary

import "shiptrack/internal/core/domain/model/shipment"

// defaultMaxEventAgeDays bounds event freshness when a branch does not set
// its own limit.
const defaultMaxEventAgeDays = 30

// Rules is the acceptance policy of one subsidiary. Nil slices mean the
// corresponding gate is permissive (everything allowed) or, for
// AllowedEventTypes, disabled entirely.
//
// AllowException03, AllowException16, and AllowExceptionOD are independent
// enable flags checked on top of list membership: code "03" must both appear
// in AllowedExceptionCodes (or the list be permissive) and have its flag set.
type Rules struct {
	// SubsidiaryID names the branch this policy belongs to.
	SubsidiaryID string

	// AllowedStatuses lists the canonical statuses the branch accepts.
	// Nil or empty means all statuses are accepted.
	AllowedStatuses []shipment.Status

	// AllowedExceptionCodes lists the carrier exception codes the branch
	// accepts on non-delivery events. Nil means all codes are accepted.
	AllowedExceptionCodes []string

	// AllowException03 additionally enables exception code "03".
	AllowException03 bool

	// AllowException16 additionally enables exception code "16".
	AllowException16 bool

	// AllowExceptionOD enables events whose derived code is "OD"
	// (a delivery-attempt exception requiring manual validation).
	AllowExceptionOD bool

	// AllowedEventTypes optionally restricts the carrier-native event types
	// the branch accepts. Nil disables the gate.
	AllowedEventTypes []string

	// MaxEventAgeDays bounds how old a carrier event may be, inclusive.
	// Zero falls back to the default of 30 days.
	MaxEventAgeDays int
}

// DefaultRules returns the permissive policy used for unknown branches:
// all statuses, all exception codes, no event-type restriction, 30 days.
// An unknown branch must never hard-fail the reconciliation pipeline.
func DefaultRules(subsidiaryID string) Rules {
	return Rules{
		SubsidiaryID:    subsidiaryID,
		MaxEventAgeDays: defaultMaxEventAgeDays,
	}
}

// StatusAllowed reports whether the branch accepts the given canonical status.
func (r Rules) StatusAllowed(status shipment.Status) bool {
	if len(r.AllowedStatuses) == 0 {
		return true
	}
	for _, allowed := range r.AllowedStatuses {
		if allowed == status {
			return true
		}
	}
	return false
}

// ExceptionCodeListed reports whether the exception code passes the
// membership check. The independent "03"/"16" flags are checked separately
// by the validator.
func (r Rules) ExceptionCodeListed(code string) bool {
	if r.AllowedExceptionCodes == nil {
		return true
	}
	for _, allowed := range r.AllowedExceptionCodes {
		if allowed == code {
			return true
		}
	}
	return false
}

// EventTypeAllowed reports whether the branch accepts the carrier-native
// event type. A nil AllowedEventTypes disables the gate.
func (r Rules) EventTypeAllowed(eventType string) bool {
	if r.AllowedEventTypes == nil {
		return true
	}
	for _, allowed := range r.AllowedEventTypes {
		if allowed == eventType {
			return true
		}
	}
	return false
}

// EventTypeGateEnabled reports whether the optional event-type gate is set.
func (r Rules) EventTypeGateEnabled() bool {
	return r.AllowedEventTypes != nil
}

// MaxEventAge returns the effective freshness bound in days.
func (r Rules) MaxEventAge() int {
	if r.MaxEventAgeDays <= 0 {
		return defaultMaxEventAgeDays
	}
	return r.MaxEventAgeDays
}

// Resolver resolves a subsidiary id to its acceptance policy, backed by an
// in-memory table. Rules are read-only within a reconciliation pass; the
// table may be swapped between passes by constructing a new Resolver.
type Resolver struct {
	rules map[string]Rules
}

// NewResolver creates a resolver over the given policy table.
// The table is copied so later mutation of the argument cannot leak into a
// running pass.
func NewResolver(rules map[string]Rules) *Resolver {
	table := make(map[string]Rules, len(rules))
	for id, r := range rules {
		table[id] = r
	}
	return &Resolver{rules: table}
}

// Resolve returns the policy of the given branch. Unknown branch ids resolve
// to the permissive default so they never hard-fail the pipeline.
func (r *Resolver) Resolve(subsidiaryID string) Rules {
	if rules, ok := r.rules[subsidiaryID]; ok {
		return rules
	}
	return DefaultRules(subsidiaryID)
}
