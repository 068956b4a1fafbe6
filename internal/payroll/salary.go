package payroll

import (
	"github.com/shopspring/decimal"

	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

// NetSalary computes monthly and annual take-home pay. It returns an
// *InputError when the input cannot be calculated with.
func NetSalary(t *rates.Table, in model.SalaryInput) (model.SalaryResult, error) {
	if err := validateSalary(in); err != nil {
		return model.SalaryResult{}, err
	}

	annual := in.AnnualSalary
	if in.IncludeRetirementReserve {
		// Back out the retirement reserve embedded in the contract amount.
		q, _ := decimal.NewFromInt(annual).QuoRem(t.RetirementReserveDivisor, 0)
		annual = q.IntPart()
	}

	gross := annual / 12
	taxable := max(0, gross-in.NonTaxableMonthly)

	d := Deductions(t, taxable, EffectiveDependents(in.Dependents, in.Children))
	net := gross - d.Total()

	return model.SalaryResult{
		MonthlyGross: gross,
		MonthlyNet:   net,
		AnnualNet:    net * 12,
		Deductions:   d,
	}, nil
}

func validateSalary(in model.SalaryInput) error {
	if in.AnnualSalary <= 0 {
		return invalid("annual_salary", CodeInvalidSalary, "annual_salary must be positive")
	}
	if err := checkAmount("annual_salary", CodeInvalidSalary, in.AnnualSalary); err != nil {
		return err
	}
	if in.Dependents < 1 {
		return invalid("dependents", CodeInvalidDependents, "dependents must be at least 1 (the earner)")
	}
	if in.Children < 0 {
		return invalid("children", CodeInvalidChildren, "children must be non-negative")
	}
	return checkAmount("non_taxable_monthly", CodeInvalidNonTaxable, in.NonTaxableMonthly)
}
