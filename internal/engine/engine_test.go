package engine

import (
	"bytes"
	"errors"
	"testing"

	json "github.com/goccy/go-json"

	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

func newEngine(t *testing.T, cacheEntries int64) (*Engine, *rates.Registry) {
	t.Helper()
	reg, err := rates.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(reg, cacheEntries)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e, reg
}

func TestProcessNetSalary(t *testing.T) {
	e, _ := newEngine(t, 0)
	req := &model.CalculationRequest{
		TenantID: "test-tenant",
		TaxYear:  2024,
		Calculations: []model.Calculation{
			{
				CalculationID:   "a1111111-1111-1111-1111-111111111111",
				CalculationName: "net_salary",
				Properties:      json.RawMessage(`{"annual_salary": 50000000, "dependents": 1}`),
			},
		},
	}

	resp, err := e.Process(req)
	if err != nil {
		t.Fatal(err)
	}

	if resp.CalculationMetadata.CalculationOutcome != "SUCCESS" {
		t.Fatalf("expected SUCCESS, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
	if resp.CalculationMetadata.TenantID != "test-tenant" {
		t.Fatalf("expected tenant_id test-tenant, got %s", resp.CalculationMetadata.TenantID)
	}
	if resp.CalculationMetadata.TaxYear != 2024 {
		t.Fatalf("expected tax_year 2024, got %d", resp.CalculationMetadata.TaxYear)
	}
	if len(resp.CalculationResult.Messages) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(resp.CalculationResult.Messages))
	}
	if len(resp.CalculationResult.Calculations) != 1 {
		t.Fatalf("expected 1 calculation, got %d", len(resp.CalculationResult.Calculations))
	}

	calc := resp.CalculationResult.Calculations[0]
	if calc.Outcome != model.OutcomeSuccess {
		t.Fatalf("expected calculation outcome SUCCESS, got %s", calc.Outcome)
	}
	var res model.SalaryResult
	if err := json.Unmarshal(calc.Result, &res); err != nil {
		t.Fatal(err)
	}
	if res.MonthlyGross != 4_166_666 || res.MonthlyNet != 3_565_722 {
		t.Fatalf("unexpected salary result %+v", res)
	}
}

func TestProcessMixedBatch(t *testing.T) {
	e, _ := newEngine(t, 0)
	req := &model.CalculationRequest{
		TenantID: "test-tenant",
		Calculations: []model.Calculation{
			{
				CalculationID:   "c1",
				CalculationName: "retirement_pay",
				Properties: json.RawMessage(`{
					"start_date": "2020-01-01",
					"end_date": "2020-12-29",
					"monthly_salaries": [3000000, 3000000, 3000000]
				}`),
			},
			{
				CalculationID:   "c2",
				CalculationName: "payslip_pdf",
				Properties:      json.RawMessage(`{}`),
			},
			{
				CalculationID:   "c3",
				CalculationName: "percentile",
				Properties:      json.RawMessage(`{"domain": "salary", "amount": 90000000}`),
			},
		},
	}

	resp, err := e.Process(req)
	if err != nil {
		t.Fatal(err)
	}

	if resp.CalculationMetadata.CalculationOutcome != "FAILURE" {
		t.Fatalf("expected FAILURE, got %s", resp.CalculationMetadata.CalculationOutcome)
	}

	// All calculations run even though one is unknown
	calcs := resp.CalculationResult.Calculations
	if len(calcs) != 3 {
		t.Fatalf("expected 3 processed calculations, got %d", len(calcs))
	}
	if calcs[0].Outcome != model.OutcomeNotEligible || calcs[0].Result != nil {
		t.Fatalf("expected NOT_ELIGIBLE without result, got %s %s", calcs[0].Outcome, calcs[0].Result)
	}
	if calcs[1].Outcome != model.OutcomeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %s", calcs[1].Outcome)
	}
	if calcs[2].Outcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", calcs[2].Outcome)
	}

	msgs := resp.CalculationResult.Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != 0 || msgs[0].Code != "NOT_ELIGIBLE" {
		t.Fatalf("unexpected first message %+v", msgs[0])
	}
	if msgs[1].ID != 1 || msgs[1].Code != "UNKNOWN_CALCULATION" {
		t.Fatalf("unexpected second message %+v", msgs[1])
	}
	if len(calcs[1].CalculationMessageIndexes) != 1 || calcs[1].CalculationMessageIndexes[0] != 1 {
		t.Fatalf("expected message index 1 on second calculation, got %v", calcs[1].CalculationMessageIndexes)
	}
}

func TestProcessNotEligibleIsNotFailure(t *testing.T) {
	e, _ := newEngine(t, 0)
	resp, err := e.Process(&model.CalculationRequest{
		Calculations: []model.Calculation{{
			CalculationName: "retirement_pay",
			Properties:      json.RawMessage(`{"start_date": "2024-01-01", "end_date": "2024-03-01", "monthly_salaries": [1, 1, 1]}`),
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.CalculationMetadata.CalculationOutcome != "SUCCESS" {
		t.Fatalf("expected SUCCESS, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
}

func TestProcessUnknownYear(t *testing.T) {
	e, _ := newEngine(t, 0)
	_, err := e.Process(&model.CalculationRequest{TaxYear: 1988})
	if !errors.Is(err, rates.ErrUnknownYear) {
		t.Fatalf("expected ErrUnknownYear, got %v", err)
	}
}

func TestProcessCachedMatchesFresh(t *testing.T) {
	cached, reg := newEngine(t, 100)
	fresh, _ := newEngine(t, 0)

	req := &model.CalculationRequest{
		TaxYear: 2025,
		Calculations: []model.Calculation{{
			CalculationName: "net_salary",
			Properties:      json.RawMessage(`{"annual_salary": 87000000, "dependents": 2, "children": 1}`),
		}},
	}

	want, err := fresh.Process(req)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := cached.Process(req)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.CalculationResult.Calculations[0].Result, want.CalculationResult.Calculations[0].Result) {
			t.Fatalf("run %d: cached result differs", i)
		}
		cached.cache.Wait()
	}

	// A republished table gets a new revision and so a new cache key.
	tbl, err := reg.Table(2025)
	if err != nil {
		t.Fatal(err)
	}
	before := cacheKey(tbl, &req.Calculations[0])
	reg.Replace(tbl)
	tbl, _ = reg.Table(2025)
	if cacheKey(tbl, &req.Calculations[0]) == before {
		t.Fatal("expected cache key to change after table reload")
	}
}
