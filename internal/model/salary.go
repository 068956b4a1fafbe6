package model

// SalaryInput holds the personal parameters of one net salary calculation.
// All amounts are whole won.
type SalaryInput struct {
	AnnualSalary             int64 `json:"annual_salary"`
	Dependents               int   `json:"dependents"`
	Children                 int   `json:"children"`
	NonTaxableMonthly        int64 `json:"non_taxable_monthly"`
	IncludeRetirementReserve bool  `json:"include_retirement_reserve"`
}

type SalaryResult struct {
	MonthlyGross int64              `json:"monthly_gross"`
	MonthlyNet   int64              `json:"monthly_net"`
	AnnualNet    int64              `json:"annual_net"`
	Deductions   DeductionBreakdown `json:"deductions"`
}

type DeductionBreakdown struct {
	NationalPension     int64 `json:"national_pension"`
	HealthInsurance     int64 `json:"health_insurance"`
	LongTermCare        int64 `json:"long_term_care"`
	EmploymentInsurance int64 `json:"employment_insurance"`
	IncomeTax           int64 `json:"income_tax"`
	LocalIncomeTax      int64 `json:"local_income_tax"`
}

// Total is the sum of all six deductions.
func (d DeductionBreakdown) Total() int64 {
	return d.NationalPension + d.HealthInsurance + d.LongTermCare +
		d.EmploymentInsurance + d.IncomeTax + d.LocalIncomeTax
}
