package model

import json "github.com/goccy/go-json"

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id"`
	TaxYear                int    `json:"tax_year"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages     []CalculationMessage   `json:"messages"`
	Calculations []ProcessedCalculation `json:"calculations"`
}

type ProcessedCalculation struct {
	Calculation               Calculation     `json:"calculation"`
	Outcome                   string          `json:"outcome"`
	Result                    json.RawMessage `json:"result"`
	CalculationMessageIndexes []int           `json:"calculation_message_indexes,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Overall outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// Per-calculation outcomes. NOT_ELIGIBLE carries a WARNING message and
// INVALID_INPUT a CRITICAL one.
const (
	OutcomeNotEligible  = "NOT_ELIGIBLE"
	OutcomeInvalidInput = "INVALID_INPUT"
)

// Message levels.
const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)
