package rates

import (
	"github.com/shopspring/decimal"
)

// Domain selects a percentile table.
type Domain string

const (
	DomainSalary     Domain = "salary"
	DomainRetirement Domain = "retirement"
)

// Table is the full set of statutory constants for one effective year.
// A Table is read-only once it has been published by a Registry.
type Table struct {
	Year        int    `yaml:"year" json:"year"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Insurance                InsuranceRates   `yaml:"insurance" json:"insurance"`
	LocalIncomeTaxRate       decimal.Decimal  `yaml:"local_income_tax_rate" json:"local_income_tax_rate"`
	RetirementReserveDivisor decimal.Decimal  `yaml:"retirement_reserve_divisor" json:"retirement_reserve_divisor"`
	IncomeTax                IncomeTaxTable   `yaml:"income_tax" json:"income_tax"`
	Retirement               RetirementRules  `yaml:"retirement" json:"retirement"`
	Percentiles              PercentileTables `yaml:"percentiles" json:"percentiles"`

	// Revision is assigned by the Registry each time the table is (re)published.
	Revision uint64 `yaml:"-" json:"-"`
}

// InsuranceRates are the employee shares of the four social insurances.
type InsuranceRates struct {
	PensionRate decimal.Decimal `yaml:"pension_rate" json:"pension_rate"`
	// PensionCap is the monthly income ceiling for the pension base.
	PensionCap       int64           `yaml:"pension_cap" json:"pension_cap"`
	HealthRate       decimal.Decimal `yaml:"health_rate" json:"health_rate"`
	LongTermCareRate decimal.Decimal `yaml:"long_term_care_rate" json:"long_term_care_rate"`
	EmploymentRate   decimal.Decimal `yaml:"employment_rate" json:"employment_rate"`
}

type IncomeTaxTable struct {
	// Unit is the income step each bracket's per-unit amount applies to.
	Unit int64 `yaml:"unit" json:"unit"`
	// Rounding truncates the final tax to a multiple of this amount.
	Rounding      int64 `yaml:"rounding" json:"rounding"`
	MaxDependents int   `yaml:"max_dependents" json:"max_dependents"`

	Brackets []Bracket `yaml:"brackets" json:"brackets"`
	// DependentDeductions[i] is deducted for i+1 effective dependents.
	DependentDeductions []int64 `yaml:"dependent_deductions" json:"dependent_deductions"`
}

// Bracket covers Min <= income < Max. Max == 0 marks the unbounded last bracket.
type Bracket struct {
	Min     int64 `yaml:"min" json:"min"`
	Max     int64 `yaml:"max,omitempty" json:"max,omitempty"`
	Base    int64 `yaml:"base" json:"base"`
	PerUnit int64 `yaml:"per_unit" json:"per_unit"`
}

func (b Bracket) Unbounded() bool { return b.Max == 0 }

func (b Bracket) Contains(income int64) bool {
	return income >= b.Min && (b.Unbounded() || income < b.Max)
}

type RetirementRules struct {
	AverageWageDays int `yaml:"average_wage_days" json:"average_wage_days"`
	PayDaysPerYear  int `yaml:"pay_days_per_year" json:"pay_days_per_year"`
	DaysPerYear     int `yaml:"days_per_year" json:"days_per_year"`
	MinServiceDays  int `yaml:"min_service_days" json:"min_service_days"`
}

type PercentileTables struct {
	Salary     []PercentileRow `yaml:"salary" json:"salary"`
	Retirement []PercentileRow `yaml:"retirement" json:"retirement"`
}

type PercentileRow struct {
	Threshold  int64 `yaml:"threshold" json:"threshold"`
	Percentile int   `yaml:"percentile" json:"percentile"`
}

// Rows returns the threshold table of a domain, ordered by descending threshold.
func (p PercentileTables) Rows(d Domain) ([]PercentileRow, bool) {
	switch d {
	case DomainSalary:
		return p.Salary, true
	case DomainRetirement:
		return p.Retirement, true
	}
	return nil, false
}

// DependentDeduction returns the deduction for n effective dependents,
// clamped to [1, MaxDependents].
func (t IncomeTaxTable) DependentDeduction(n int) int64 {
	if n < 1 {
		n = 1
	}
	if n > t.MaxDependents {
		n = t.MaxDependents
	}
	return t.DependentDeductions[n-1]
}
