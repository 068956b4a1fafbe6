package model

import json "github.com/goccy/go-json"

type CalculationRequest struct {
	TenantID string `json:"tenant_id"`
	// TaxYear selects the rate table; 0 means the registry default.
	TaxYear      int           `json:"tax_year,omitempty"`
	Calculations []Calculation `json:"calculations"`
}

type Calculation struct {
	CalculationID   string          `json:"calculation_id"`
	CalculationName string          `json:"calculation_name"`
	Properties      json.RawMessage `json:"properties"`
}
