package calculations

import (
	"fmt"

	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

type NetSalaryHandler struct{}

func (h *NetSalaryHandler) Execute(table *rates.Table, calc *model.Calculation) Execution {
	var in model.SalaryInput
	if err := decodeProperties(calc, &in); err != nil {
		return rejected(CodeInvalidProperties, "Invalid net_salary properties: %v", err)
	}

	res, err := payroll.NetSalary(table, in)
	if err != nil {
		return failed(err)
	}

	var msgs []model.CalculationMessage
	if in.NonTaxableMonthly > res.MonthlyGross {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    CodeNonTaxableCapped,
			Message: fmt.Sprintf("Non-taxable allowance %d exceeds monthly gross %d; taxable income set to 0", in.NonTaxableMonthly, res.MonthlyGross),
		})
	}
	return succeeded(res, msgs...)
}
