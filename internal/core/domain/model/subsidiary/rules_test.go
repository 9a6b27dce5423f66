package subsidiary_test

import (
	"testing"

	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/domain/model/subsidiary"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	t.Run("known branch returns its configured rules", func(t *testing.T) {
		resolver := subsidiary.NewResolver(map[string]subsidiary.Rules{
			"BR-01": {
				SubsidiaryID:     "BR-01",
				AllowedStatuses:  []shipment.Status{shipment.Delivered},
				AllowException03: true,
				MaxEventAgeDays:  7,
			},
		})

		rules := resolver.Resolve("BR-01")

		assert.Equal(t, "BR-01", rules.SubsidiaryID)
		assert.True(t, rules.AllowException03)
		assert.Equal(t, 7, rules.MaxEventAge())
	})

	t.Run("unknown branch returns permissive default and never fails", func(t *testing.T) {
		resolver := subsidiary.NewResolver(nil)

		rules := resolver.Resolve("BR-99")

		assert.Equal(t, "BR-99", rules.SubsidiaryID)
		assert.True(t, rules.StatusAllowed(shipment.Delivered))
		assert.True(t, rules.StatusAllowed(shipment.NotDelivered))
		assert.True(t, rules.ExceptionCodeListed("07"))
		assert.False(t, rules.EventTypeGateEnabled())
		assert.Equal(t, 30, rules.MaxEventAge())
	})

	t.Run("table is copied at construction", func(t *testing.T) {
		table := map[string]subsidiary.Rules{
			"BR-01": {SubsidiaryID: "BR-01", MaxEventAgeDays: 7},
		}
		resolver := subsidiary.NewResolver(table)

		table["BR-01"] = subsidiary.Rules{SubsidiaryID: "BR-01", MaxEventAgeDays: 1}

		assert.Equal(t, 7, resolver.Resolve("BR-01").MaxEventAge())
	})
}

func TestRules_Gates(t *testing.T) {
	t.Run("empty allowed statuses accepts everything", func(t *testing.T) {
		rules := subsidiary.DefaultRules("BR-01")

		assert.True(t, rules.StatusAllowed(shipment.Rejected))
	})

	t.Run("configured allowed statuses reject others", func(t *testing.T) {
		rules := subsidiary.Rules{
			AllowedStatuses: []shipment.Status{shipment.Delivered, shipment.InTransit},
		}

		assert.True(t, rules.StatusAllowed(shipment.InTransit))
		assert.False(t, rules.StatusAllowed(shipment.NotDelivered))
	})

	t.Run("nil exception code list accepts every code", func(t *testing.T) {
		rules := subsidiary.Rules{}

		assert.True(t, rules.ExceptionCodeListed("99"))
	})

	t.Run("configured exception codes reject unlisted ones", func(t *testing.T) {
		rules := subsidiary.Rules{AllowedExceptionCodes: []string{"07", "08"}}

		assert.True(t, rules.ExceptionCodeListed("07"))
		assert.False(t, rules.ExceptionCodeListed("99"))
	})

	t.Run("empty exception code list rejects everything explicitly listed as none", func(t *testing.T) {
		rules := subsidiary.Rules{AllowedExceptionCodes: []string{}}

		assert.False(t, rules.ExceptionCodeListed("07"))
	})

	t.Run("event type gate disabled when list is nil", func(t *testing.T) {
		rules := subsidiary.Rules{}

		assert.False(t, rules.EventTypeGateEnabled())
		assert.True(t, rules.EventTypeAllowed("DL"))
	})

	t.Run("event type gate filters when set", func(t *testing.T) {
		rules := subsidiary.Rules{AllowedEventTypes: []string{"DL", "IT"}}

		assert.True(t, rules.EventTypeGateEnabled())
		assert.True(t, rules.EventTypeAllowed("DL"))
		assert.False(t, rules.EventTypeAllowed("DE"))
	})

	t.Run("zero max age falls back to default", func(t *testing.T) {
		assert.Equal(t, 30, subsidiary.Rules{}.MaxEventAge())
		assert.Equal(t, 14, subsidiary.Rules{MaxEventAgeDays: 14}.MaxEventAge())
	})
}
