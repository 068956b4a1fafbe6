package engine

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"payroll-engine/internal/calculations"
	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

// Engine runs calculation requests against the registry's rate tables.
// It is safe for concurrent use.
type Engine struct {
	rates *rates.Registry
	cache *ristretto.Cache
}

// cachedExecution is an Execution with its result already encoded.
type cachedExecution struct {
	result   json.RawMessage
	outcome  string
	messages []model.CalculationMessage
}

// New creates an Engine. cacheEntries bounds the number of memoized
// calculations; 0 disables memoization.
func New(reg *rates.Registry, cacheEntries int64) (*Engine, error) {
	e := &Engine{rates: reg}
	if cacheEntries > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cacheEntries * 10,
			MaxCost:     cacheEntries,
			BufferItems: 64,
			// Cost is one per entry.
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Process runs every calculation in req. Calculations are independent: a
// rejected one does not stop the rest. The only error is an unknown tax year.
func (e *Engine) Process(req *model.CalculationRequest) (*model.CalculationResponse, error) {
	start := time.Now()

	table, err := e.rates.Table(req.TaxYear)
	if err != nil {
		return nil, err
	}

	allMessages := []model.CalculationMessage{}
	processed := make([]model.ProcessedCalculation, 0, len(req.Calculations))
	outcome := model.OutcomeSuccess

	for i := range req.Calculations {
		calc := &req.Calculations[i]
		exec := e.execute(table, calc)

		var msgIndexes []int
		for _, m := range exec.messages {
			m.ID = len(allMessages)
			allMessages = append(allMessages, m)
			msgIndexes = append(msgIndexes, m.ID)
		}

		// Ineligibility is a defined answer, not a failed calculation.
		if exec.outcome == model.OutcomeInvalidInput {
			outcome = model.OutcomeFailure
		}

		processed = append(processed, model.ProcessedCalculation{
			Calculation:               *calc,
			Outcome:                   exec.outcome,
			Result:                    exec.result,
			CalculationMessageIndexes: msgIndexes,
		})
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			TaxYear:                table.Year,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:     allMessages,
			Calculations: processed,
		},
	}, nil
}

func (e *Engine) execute(table *rates.Table, calc *model.Calculation) cachedExecution {
	handler, ok := calculations.Get(calc.CalculationName)
	if !ok {
		return cachedExecution{
			outcome: model.OutcomeInvalidInput,
			messages: []model.CalculationMessage{{
				Level:   model.LevelCritical,
				Code:    "UNKNOWN_CALCULATION",
				Message: fmt.Sprintf("Unknown calculation: %s", calc.CalculationName),
			}},
		}
	}

	key := cacheKey(table, calc)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			return v.(cachedExecution)
		}
	}

	exec := handler.Execute(table, calc)
	out := cachedExecution{outcome: exec.Outcome, messages: exec.Messages}
	if exec.Result != nil {
		raw, err := json.Marshal(exec.Result)
		if err != nil {
			return cachedExecution{
				outcome: model.OutcomeInvalidInput,
				messages: []model.CalculationMessage{{
					Level:   model.LevelCritical,
					Code:    calculations.CodeCalculationError,
					Message: fmt.Sprintf("Failed to encode result: %v", err),
				}},
			}
		}
		out.result = raw
	}

	if e.cache != nil {
		e.cache.Set(key, out, 1)
	}
	return out
}

// cacheKey identifies a calculation by everything its result depends on: the
// handler, the exact table revision and the raw properties.
func cacheKey(table *rates.Table, calc *model.Calculation) string {
	return fmt.Sprintf("%s|%d|%d|%s", calc.CalculationName, table.Year, table.Revision, calc.Properties)
}
