package payroll

import (
	"payroll-engine/internal/rates"
)

// Percentile estimates the population percentile of amount: the first row of
// the domain's descending table whose threshold does not exceed amount, or the
// last row when none does.
func Percentile(t *rates.Table, domain rates.Domain, amount int64) (int, error) {
	rows, ok := t.Percentiles.Rows(domain)
	if !ok {
		return 0, invalid("domain", CodeUnknownDomain, "unknown percentile domain %q", domain)
	}
	for _, row := range rows {
		if row.Threshold <= amount {
			return row.Percentile, nil
		}
	}
	return rows[len(rows)-1].Percentile, nil
}
