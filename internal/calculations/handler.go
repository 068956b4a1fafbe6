package calculations

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

// CalculationHandler runs one named calculation against a rate table.
// Implementations must be pure: the same table and properties always give
// the same Execution.
type CalculationHandler interface {
	Execute(table *rates.Table, calc *model.Calculation) Execution
}

// Execution is the outcome of one calculation. Result is nil unless Outcome
// is SUCCESS.
type Execution struct {
	Result   any
	Outcome  string
	Messages []model.CalculationMessage
}

const (
	CodeInvalidProperties = "INVALID_PROPERTIES"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeCalculationError  = "CALCULATION_ERROR"
	CodeNonTaxableCapped  = "NON_TAXABLE_EXCEEDS_GROSS"
	CodeInvalidAmount     = "INVALID_AMOUNT"
)

func succeeded(result any, msgs ...model.CalculationMessage) Execution {
	return Execution{Result: result, Outcome: model.OutcomeSuccess, Messages: msgs}
}

func rejected(code, format string, args ...any) Execution {
	return Execution{
		Outcome: model.OutcomeInvalidInput,
		Messages: []model.CalculationMessage{{
			Level:   model.LevelCritical,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		}},
	}
}

// failed maps a calculator error onto an outcome. Ineligibility is a defined
// result, not an input problem, so it is reported as a warning.
func failed(err error) Execution {
	var inputErr *payroll.InputError
	switch {
	case errors.Is(err, payroll.ErrNotEligible):
		return Execution{
			Outcome: model.OutcomeNotEligible,
			Messages: []model.CalculationMessage{{
				Level:   model.LevelWarning,
				Code:    CodeNotEligible,
				Message: "Service period is shorter than one year; no retirement pay is owed",
			}},
		}
	case errors.As(err, &inputErr):
		return rejected(inputErr.Code, "%s", inputErr.Message)
	default:
		return rejected(CodeCalculationError, "%v", err)
	}
}

func decodeProperties(calc *model.Calculation, v any) error {
	if len(calc.Properties) == 0 {
		return errors.New("properties are required")
	}
	return json.Unmarshal(calc.Properties, v)
}
