package payroll

import (
	"github.com/shopspring/decimal"

	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

// Deductions applies the statutory insurances and withholding taxes to a
// taxable monthly income. dependents is the effective dependent count.
//
// Every amount is floored on its own, and long-term care is charged on the
// floored health insurance amount, matching the official withholding tables.
func Deductions(t *rates.Table, taxableMonthly int64, dependents int) model.DeductionBreakdown {
	ins := t.Insurance
	base := decimal.NewFromInt(taxableMonthly)

	pension := floor(decimal.NewFromInt(min(taxableMonthly, ins.PensionCap)).Mul(ins.PensionRate))
	health := floor(base.Mul(ins.HealthRate))
	longTermCare := floor(decimal.NewFromInt(health).Mul(ins.LongTermCareRate))
	employment := floor(base.Mul(ins.EmploymentRate))

	incomeTax := IncomeTax(t, taxableMonthly, dependents)
	localTax := floor(decimal.NewFromInt(incomeTax).Mul(t.LocalIncomeTaxRate))

	return model.DeductionBreakdown{
		NationalPension:     pension,
		HealthInsurance:     health,
		LongTermCare:        longTermCare,
		EmploymentInsurance: employment,
		IncomeTax:           incomeTax,
		LocalIncomeTax:      localTax,
	}
}

func floor(d decimal.Decimal) int64 {
	return d.Floor().IntPart()
}
