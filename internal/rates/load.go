package rates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFS embed.FS

// ValidationError reports a structurally invalid rate table.
type ValidationError struct {
	Year   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rate table %d: %s: %s", e.Year, e.Field, e.Reason)
}

// Parse decodes and validates a single YAML (or JSON) rate table.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode rate table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a rate table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Embedded returns the tables compiled into the binary, ordered by year.
func Embedded() ([]*Table, error) {
	names, err := fs.Glob(tableFS, "tables/*.yaml")
	if err != nil {
		return nil, err
	}
	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		data, err := tableFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded table %s: %w", name, err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded table %s: %w", name, err)
		}
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Year < tables[j].Year })
	return tables, nil
}

// Validate checks the invariants the calculators rely on.
func (t *Table) Validate() error {
	invalid := func(field, reason string, args ...any) error {
		return &ValidationError{Year: t.Year, Field: field, Reason: fmt.Sprintf(reason, args...)}
	}

	if t.Year <= 0 {
		return invalid("year", "must be positive")
	}

	ins := t.Insurance
	for name, rate := range map[string]decimal.Decimal{
		"insurance.pension_rate":        ins.PensionRate,
		"insurance.health_rate":         ins.HealthRate,
		"insurance.long_term_care_rate": ins.LongTermCareRate,
		"insurance.employment_rate":     ins.EmploymentRate,
		"local_income_tax_rate":         t.LocalIncomeTaxRate,
	} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return invalid(name, "rate %s outside [0, 1)", rate)
		}
	}
	if ins.PensionCap <= 0 {
		return invalid("insurance.pension_cap", "must be positive")
	}
	if t.RetirementReserveDivisor.LessThan(decimal.NewFromInt(1)) {
		return invalid("retirement_reserve_divisor", "must be at least 1")
	}

	if err := t.IncomeTax.validate(invalid); err != nil {
		return err
	}

	r := t.Retirement
	if r.AverageWageDays <= 0 || r.PayDaysPerYear <= 0 || r.DaysPerYear <= 0 || r.MinServiceDays <= 0 {
		return invalid("retirement", "all day counts must be positive")
	}

	for _, d := range []Domain{DomainSalary, DomainRetirement} {
		rows, _ := t.Percentiles.Rows(d)
		if len(rows) == 0 {
			return invalid("percentiles."+string(d), "table is empty")
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Threshold >= rows[i-1].Threshold {
				return invalid("percentiles."+string(d), "thresholds must be strictly descending at row %d", i)
			}
		}
	}
	return nil
}

func (it IncomeTaxTable) validate(invalid func(field, reason string, args ...any) error) error {
	if it.Unit <= 0 {
		return invalid("income_tax.unit", "must be positive")
	}
	if it.Rounding <= 0 {
		return invalid("income_tax.rounding", "must be positive")
	}
	if it.MaxDependents < 1 {
		return invalid("income_tax.max_dependents", "must be at least 1")
	}
	if len(it.DependentDeductions) != it.MaxDependents {
		return invalid("income_tax.dependent_deductions", "expected %d entries, got %d", it.MaxDependents, len(it.DependentDeductions))
	}
	for i := 1; i < len(it.DependentDeductions); i++ {
		if it.DependentDeductions[i] < it.DependentDeductions[i-1] {
			return invalid("income_tax.dependent_deductions", "must be non-decreasing at index %d", i)
		}
	}

	if len(it.Brackets) == 0 {
		return invalid("income_tax.brackets", "table is empty")
	}
	if n := lo.CountBy(it.Brackets, Bracket.Unbounded); n != 1 || !it.Brackets[len(it.Brackets)-1].Unbounded() {
		return invalid("income_tax.brackets", "exactly the last bracket must be unbounded")
	}
	for i, b := range it.Brackets {
		if b.Min < 0 || b.Base < 0 || b.PerUnit < 0 {
			return invalid("income_tax.brackets", "row %d has negative values", i)
		}
		if !b.Unbounded() && b.Max <= b.Min {
			return invalid("income_tax.brackets", "row %d is empty", i)
		}
		if i > 0 && it.Brackets[i-1].Max != b.Min {
			return invalid("income_tax.brackets", "row %d does not start where row %d ends", i, i-1)
		}
	}
	return nil
}

// Years lists the years of tables, ascending.
func Years(tables []*Table) []int {
	years := lo.Uniq(lo.Map(tables, func(t *Table, _ int) int { return t.Year }))
	sort.Ints(years)
	return years
}

var errNoTables = errors.New("no rate tables available")

func describe(years []int) string {
	return strings.Join(lo.Map(years, func(y int, _ int) string { return fmt.Sprint(y) }), ", ")
}
