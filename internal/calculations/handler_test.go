package calculations

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

func table2024(t *testing.T) *rates.Table {
	t.Helper()
	tables, err := rates.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	for _, tbl := range tables {
		if tbl.Year == 2024 {
			return tbl
		}
	}
	t.Fatal("no 2024 table")
	return nil
}

func run(t *testing.T, name, props string) Execution {
	t.Helper()
	h, ok := Get(name)
	if !ok {
		t.Fatalf("calculation %s not registered", name)
	}
	return h.Execute(table2024(t), &model.Calculation{
		CalculationID:   "c1",
		CalculationName: name,
		Properties:      json.RawMessage(props),
	})
}

func TestNetSalary(t *testing.T) {
	exec := run(t, "net_salary", `{"annual_salary": 50000000, "dependents": 1}`)

	if exec.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s (%v)", exec.Outcome, exec.Messages)
	}
	res, ok := exec.Result.(model.SalaryResult)
	if !ok {
		t.Fatalf("unexpected result type %T", exec.Result)
	}
	if res.MonthlyNet != 3_565_722 {
		t.Fatalf("expected monthly net 3565722, got %d", res.MonthlyNet)
	}
	if len(exec.Messages) != 0 {
		t.Fatalf("expected no messages, got %v", exec.Messages)
	}
}

func TestNetSalaryNonTaxableWarning(t *testing.T) {
	exec := run(t, "net_salary", `{"annual_salary": 12000000, "dependents": 1, "non_taxable_monthly": 2000000}`)

	if exec.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", exec.Outcome)
	}
	if len(exec.Messages) != 1 || exec.Messages[0].Code != CodeNonTaxableCapped || exec.Messages[0].Level != model.LevelWarning {
		t.Fatalf("expected NON_TAXABLE_EXCEEDS_GROSS warning, got %v", exec.Messages)
	}
}

func TestNetSalaryInvalidInput(t *testing.T) {
	exec := run(t, "net_salary", `{"annual_salary": 0, "dependents": 1}`)

	if exec.Outcome != model.OutcomeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", exec.Outcome)
	}
	if exec.Result != nil {
		t.Fatalf("expected no result, got %v", exec.Result)
	}
	if exec.Messages[0].Code != "INVALID_SALARY" || exec.Messages[0].Level != model.LevelCritical {
		t.Fatalf("unexpected message %v", exec.Messages[0])
	}
}

func TestMalformedProperties(t *testing.T) {
	for name, props := range map[string]string{
		"net_salary":     `{"annual_salary": "lots"}`,
		"retirement_pay": `{"start_date": "2020-02-30", "end_date": "2023-01-01", "monthly_salaries": [1, 2, 3]}`,
		"percentile":     ``,
	} {
		exec := run(t, name, props)
		if exec.Outcome != model.OutcomeInvalidInput || exec.Messages[0].Code != CodeInvalidProperties {
			t.Fatalf("%s: expected INVALID_PROPERTIES, got %s %v", name, exec.Outcome, exec.Messages)
		}
	}
}

func TestRetirementPay(t *testing.T) {
	exec := run(t, "retirement_pay", `{
		"start_date": "2020-01-01",
		"end_date": "2023-01-01",
		"monthly_salaries": [3000000, 3000000, 3000000]
	}`)

	if exec.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s (%v)", exec.Outcome, exec.Messages)
	}
	res := exec.Result.(model.RetirementResult)
	if res.TotalServiceDays != 1097 || res.RetirementPay != 8_917_347 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRetirementPayNotEligible(t *testing.T) {
	exec := run(t, "retirement_pay", `{
		"start_date": "2020-01-01",
		"end_date": "2020-12-29",
		"monthly_salaries": [3000000, 3000000, 3000000]
	}`)

	if exec.Outcome != model.OutcomeNotEligible {
		t.Fatalf("expected NOT_ELIGIBLE, got %s", exec.Outcome)
	}
	if exec.Messages[0].Code != CodeNotEligible || exec.Messages[0].Level != model.LevelWarning {
		t.Fatalf("unexpected message %v", exec.Messages[0])
	}
}

func TestPercentile(t *testing.T) {
	exec := run(t, "percentile", `{"domain": "salary", "amount": 90000000}`)
	if exec.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", exec.Outcome)
	}
	if p := exec.Result.(model.PercentileResult).Percentile; p != 5 {
		t.Fatalf("expected percentile 5, got %d", p)
	}

	exec = run(t, "percentile", `{"domain": "salary", "amount": -1}`)
	if exec.Messages[0].Code != CodeInvalidAmount {
		t.Fatalf("expected INVALID_AMOUNT, got %v", exec.Messages)
	}

	exec = run(t, "percentile", `{"domain": "bonus", "amount": 1}`)
	if exec.Messages[0].Code != "UNKNOWN_DOMAIN" {
		t.Fatalf("expected UNKNOWN_DOMAIN, got %v", exec.Messages)
	}
}

func TestSalaryComparison(t *testing.T) {
	exec := run(t, "salary_comparison", `{
		"baseline": {"annual_salary": 50000000, "dependents": 1},
		"scenario": {"annual_salary": 50000000, "dependents": 3}
	}`)

	if exec.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s (%v)", exec.Outcome, exec.Messages)
	}
	res := exec.Result.(SalaryComparisonResult)
	if res.MonthlyNetChange != 32_087 {
		t.Fatalf("expected monthly net change 32087, got %d", res.MonthlyNetChange)
	}
	if res.AnnualNetChange != 32_087*12 {
		t.Fatalf("expected annual net change %d, got %d", 32_087*12, res.AnnualNetChange)
	}

	var paths []string
	for _, op := range res.Changes {
		paths = append(paths, op.Path)
	}
	want := "/annual_net,/deductions/income_tax,/deductions/local_income_tax,/monthly_net"
	if got := strings.Join(paths, ","); got != want {
		t.Fatalf("expected changes %s, got %s", want, got)
	}
}

func TestSalaryComparisonInvalidScenario(t *testing.T) {
	exec := run(t, "salary_comparison", `{
		"baseline": {"annual_salary": 50000000, "dependents": 1},
		"scenario": {"annual_salary": 50000000, "dependents": 0}
	}`)

	if exec.Outcome != model.OutcomeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", exec.Outcome)
	}
	msg := exec.Messages[0]
	if msg.Code != "INVALID_DEPENDENTS" || !strings.HasPrefix(msg.Message, "scenario: ") {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestNames(t *testing.T) {
	got := strings.Join(Names(), ",")
	if got != "net_salary,percentile,retirement_pay,salary_comparison" {
		t.Fatalf("unexpected names %s", got)
	}
}
