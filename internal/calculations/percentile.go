package calculations

import (
	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

type PercentileHandler struct{}

func (h *PercentileHandler) Execute(table *rates.Table, calc *model.Calculation) Execution {
	var in model.PercentileInput
	if err := decodeProperties(calc, &in); err != nil {
		return rejected(CodeInvalidProperties, "Invalid percentile properties: %v", err)
	}
	if in.Amount < 0 {
		return rejected(CodeInvalidAmount, "amount must be non-negative")
	}

	p, err := payroll.Percentile(table, rates.Domain(in.Domain), in.Amount)
	if err != nil {
		return failed(err)
	}
	return succeeded(model.PercentileResult{Domain: in.Domain, Amount: in.Amount, Percentile: p})
}
