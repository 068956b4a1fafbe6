package calculations

import "sort"

var registry = map[string]CalculationHandler{
	"net_salary":        &NetSalaryHandler{},
	"retirement_pay":    &RetirementPayHandler{},
	"percentile":        &PercentileHandler{},
	"salary_comparison": &SalaryComparisonHandler{},
}

func Get(name string) (CalculationHandler, bool) {
	h, ok := registry[name]
	return h, ok
}

// Names lists the registered calculations, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
