package policyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiptrack/internal/core/domain/model/shipment"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writePolicy(t, `{
		"BR-MUC": {
			"allowedStatuses": ["Delivered", "NotDelivered", "InTransit"],
			"allowedExceptionCodes": ["07", "08"],
			"allowException03": true,
			"allowExceptionOD": false,
			"maxEventAgeDays": 14
		}
	}`)

	resolver, err := Load(path)

	require.NoError(t, err)

	rules := resolver.Resolve("BR-MUC")
	assert.Equal(t, "BR-MUC", rules.SubsidiaryID)
	assert.Equal(t, []shipment.Status{shipment.Delivered, shipment.NotDelivered, shipment.InTransit},
		rules.AllowedStatuses)
	assert.Equal(t, []string{"07", "08"}, rules.AllowedExceptionCodes)
	assert.True(t, rules.AllowException03)
	assert.False(t, rules.AllowExceptionOD)
	assert.Equal(t, 14, rules.MaxEventAge())
}

func TestLoad_UnknownBranchFallsBackToDefault(t *testing.T) {
	path := writePolicy(t, `{}`)

	resolver, err := Load(path)

	require.NoError(t, err)

	rules := resolver.Resolve("BR-UNKNOWN")
	assert.Equal(t, "BR-UNKNOWN", rules.SubsidiaryID)
	assert.True(t, rules.StatusAllowed(shipment.Delivered))
	assert.Equal(t, 30, rules.MaxEventAge())
}

func TestLoad_InvalidStatusName(t *testing.T) {
	path := writePolicy(t, `{"BR-MUC": {"allowedStatuses": ["Teleported"]}}`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid policy for subsidiary BR-MUC")
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writePolicy(t, `{not json`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse policy file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy file")
}
