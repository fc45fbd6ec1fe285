package util

import (
	"encoding/json"
	"fmt"
	"os"

	"pqr-portal/api/geocoding"
	"pqr-portal/models"
)

// ReadNodesFromJSON loads a list of poles from JSON on disk.
func ReadNodesFromJSON(filePath string) ([]models.Node, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var nodes []models.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
	}
	return nodes, nil
}

// ReadDamageOptionsFromJSON loads the dropdown options from JSON on disk.
func ReadDamageOptionsFromJSON(filePath string) (*models.DamageOptions, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var options models.DamageOptions
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal damage options: %w", err)
	}
	return &options, nil
}

// ReadAddressesFromJSON loads a geocoding table, full query to result.
func ReadAddressesFromJSON(filePath string) (map[string]geocoding.GeocodeResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var addresses map[string]geocoding.GeocodeResult
	if err := json.Unmarshal(data, &addresses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal addresses: %w", err)
	}
	return addresses, nil
}
