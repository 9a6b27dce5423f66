// Package policyfile loads the subsidiary policy table from a JSON file.
// The table maps subsidiary IDs to their acceptance rules; branches absent
// from the file fall back to the permissive default policy at resolve time.
package policyfile

import (
	"encoding/json"
	"fmt"
	"os"

	"shiptrack/internal/core/domain/model/shipment"
	"shiptrack/internal/core/domain/model/subsidiary"
)

// ruleDTO is the wire shape of one subsidiary's policy entry.
type ruleDTO struct {
	AllowedStatuses       []string `json:"allowedStatuses"`
	AllowedExceptionCodes []string `json:"allowedExceptionCodes"`
	AllowException03      bool     `json:"allowException03"`
	AllowException16      bool     `json:"allowException16"`
	AllowExceptionOD      bool     `json:"allowExceptionOD"`
	AllowedEventTypes     []string `json:"allowedEventTypes"`
	MaxEventAgeDays       int      `json:"maxEventAgeDays"`
}

// Load reads the policy file and builds a resolver over it. A missing or
// unreadable file is an error; an operator running without branch policy
// should pass an empty JSON object instead.
func Load(path string) (*subsidiary.Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var entries map[string]ruleDTO
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	table := make(map[string]subsidiary.Rules, len(entries))
	for subsidiaryID, dto := range entries {
		rules, err := toRules(subsidiaryID, dto)
		if err != nil {
			return nil, fmt.Errorf("invalid policy for subsidiary %s: %w", subsidiaryID, err)
		}
		table[subsidiaryID] = rules
	}

	return subsidiary.NewResolver(table), nil
}

func toRules(subsidiaryID string, dto ruleDTO) (subsidiary.Rules, error) {
	var statuses []shipment.Status
	for _, name := range dto.AllowedStatuses {
		status, err := shipment.ParseStatus(name)
		if err != nil {
			return subsidiary.Rules{}, err
		}
		statuses = append(statuses, status)
	}

	return subsidiary.Rules{
		SubsidiaryID:          subsidiaryID,
		AllowedStatuses:       statuses,
		AllowedExceptionCodes: dto.AllowedExceptionCodes,
		AllowException03:      dto.AllowException03,
		AllowException16:      dto.AllowException16,
		AllowExceptionOD:      dto.AllowExceptionOD,
		AllowedEventTypes:     dto.AllowedEventTypes,
		MaxEventAgeDays:       dto.MaxEventAgeDays,
	}, nil
}
