package model

// CalculationMessage is a diagnostic attached to a calculation. ID is its index
// in the response's message list.
type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
