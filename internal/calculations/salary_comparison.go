package calculations

import (
	"errors"

	"payroll-engine/internal/jsonpatch"
	"payroll-engine/internal/model"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

type salaryComparisonProps struct {
	Baseline model.SalaryInput `json:"baseline"`
	Scenario model.SalaryInput `json:"scenario"`
}

// SalaryComparisonResult holds two net salary results and the JSON Patch that
// turns the baseline result into the scenario result.
type SalaryComparisonResult struct {
	Baseline         model.SalaryResult    `json:"baseline"`
	Scenario         model.SalaryResult    `json:"scenario"`
	MonthlyNetChange int64                 `json:"monthly_net_change"`
	AnnualNetChange  int64                 `json:"annual_net_change"`
	Changes          []jsonpatch.Operation `json:"changes"`
}

type SalaryComparisonHandler struct{}

func (h *SalaryComparisonHandler) Execute(table *rates.Table, calc *model.Calculation) Execution {
	var props salaryComparisonProps
	if err := decodeProperties(calc, &props); err != nil {
		return rejected(CodeInvalidProperties, "Invalid salary_comparison properties: %v", err)
	}

	baseline, err := payroll.NetSalary(table, props.Baseline)
	if err != nil {
		return failed(prefixField("baseline", err))
	}
	scenario, err := payroll.NetSalary(table, props.Scenario)
	if err != nil {
		return failed(prefixField("scenario", err))
	}

	changes, err := jsonpatch.DiffValues(baseline, scenario)
	if err != nil {
		return failed(err)
	}
	if changes == nil {
		changes = []jsonpatch.Operation{}
	}

	return succeeded(SalaryComparisonResult{
		Baseline:         baseline,
		Scenario:         scenario,
		MonthlyNetChange: scenario.MonthlyNet - baseline.MonthlyNet,
		AnnualNetChange:  scenario.AnnualNet - baseline.AnnualNet,
		Changes:          changes,
	})
}

func prefixField(prefix string, err error) error {
	var inputErr *payroll.InputError
	if !errors.As(err, &inputErr) {
		return err
	}
	e := *inputErr
	e.Field = prefix + "." + e.Field
	e.Message = prefix + ": " + e.Message
	return &e
}
