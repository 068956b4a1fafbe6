package payroll

import (
	"sort"

	"payroll-engine/internal/rates"
)

// EffectiveDependents is the dependent count the withholding table is indexed by.
func EffectiveDependents(dependents, children int) int {
	return max(1, dependents+children)
}

// FindBracket returns the bracket containing monthlyIncome. Incomes below the
// first bracket have none.
func FindBracket(t *rates.Table, monthlyIncome int64) (rates.Bracket, bool) {
	brackets := t.IncomeTax.Brackets
	i := sort.Search(len(brackets), func(i int) bool { return brackets[i].Min > monthlyIncome }) - 1
	if i < 0 || !brackets[i].Contains(monthlyIncome) {
		return rates.Bracket{}, false
	}
	return brackets[i], true
}

// IncomeTax is the monthly withholding for a taxable income and an effective
// dependent count.
func IncomeTax(t *rates.Table, monthlyIncome int64, dependents int) int64 {
	b, ok := FindBracket(t, monthlyIncome)
	if !ok {
		return 0
	}
	it := t.IncomeTax

	tax := b.Base + (monthlyIncome-b.Min)/it.Unit*b.PerUnit
	tax -= it.DependentDeduction(dependents)
	if tax < 0 {
		return 0
	}
	return tax / it.Rounding * it.Rounding
}
