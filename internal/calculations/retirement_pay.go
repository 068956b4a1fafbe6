package calculations

import (
	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

type RetirementPayHandler struct{}

func (h *RetirementPayHandler) Execute(table *rates.Table, calc *model.Calculation) Execution {
	var in model.RetirementInput
	if err := decodeProperties(calc, &in); err != nil {
		return rejected(CodeInvalidProperties, "Invalid retirement_pay properties: %v", err)
	}

	res, err := payroll.RetirementPay(table, in)
	if err != nil {
		return failed(err)
	}
	return succeeded(res)
}
