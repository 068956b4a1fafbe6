package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"payroll-engine/internal/activity"
	"payroll-engine/internal/calculations"
	"payroll-engine/internal/engine"
	"payroll-engine/internal/model"
	"payroll-engine/internal/rates"
)

var log = logrus.WithField("module", "handler")

const activityTimeout = 2 * time.Second

// ActivityLog is the activity feed the handler reports completed calculations to.
type ActivityLog interface {
	Record(ctx context.Context, kind string) (activity.Event, error)
	Recent(ctx context.Context, limit int) ([]activity.Event, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

type Handler struct {
	engine   *engine.Engine
	rates    *rates.Registry
	activity ActivityLog
}

// New wires the HTTP surface. act may be nil, which disables the feed.
func New(e *engine.Engine, reg *rates.Registry, act ActivityLog) *Handler {
	return &Handler{engine: e, rates: reg, activity: act}
}

// Serve is the fasthttp.RequestHandler for the whole service.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/calculate":
		h.handleCalculation(ctx)
	case path == "/rates":
		h.handleRates(ctx)
	case strings.HasPrefix(path, "/rates/"):
		h.handleRateTable(ctx, strings.TrimPrefix(path, "/rates/"))
	case path == "/activity":
		h.handleActivity(ctx)
	case path == "/activity/stats":
		h.handleActivityStats(ctx)
	case path == "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleCalculation(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Calculations) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one calculation is required")
		return
	}

	resp, err := h.engine.Process(&req)
	if errors.Is(err, rates.ErrUnknownYear) {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Errorf("Calculation failed: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Calculation failed")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, resp)
	h.recordActivity(resp)
}

func (h *Handler) recordActivity(resp *model.CalculationResponse) {
	if h.activity == nil {
		return
	}
	c, cancel := activityContext()
	defer cancel()

	for _, calc := range resp.CalculationResult.Calculations {
		if calc.Outcome != model.OutcomeSuccess {
			continue
		}
		if _, err := h.activity.Record(c, calc.Calculation.CalculationName); err != nil {
			log.Warnf("Failed to record activity: %v", err)
			return
		}
	}
}

type ratesIndex struct {
	DefaultYear  int      `json:"default_year"`
	Years        []int    `json:"years"`
	Calculations []string `json:"calculations"`
}

func (h *Handler) handleRates(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, ratesIndex{
		DefaultYear:  h.rates.DefaultYear(),
		Years:        h.rates.Years(),
		Calculations: calculations.Names(),
	})
}

func (h *Handler) handleRateTable(ctx *fasthttp.RequestCtx, yearParam string) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil || year <= 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid year: "+yearParam)
		return
	}
	t, err := h.rates.Table(year)
	if err != nil {
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, t)
}

func (h *Handler) handleActivity(ctx *fasthttp.RequestCtx) {
	if !h.activityEnabled(ctx) {
		return
	}
	limit := 0
	if ctx.QueryArgs().Has("limit") {
		n, err := ctx.QueryArgs().GetUint("limit")
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	c, cancel := activityContext()
	defer cancel()
	events, err := h.activity.Recent(c, limit)
	if err != nil {
		log.Errorf("Failed to read activity: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to read activity")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleActivityStats(ctx *fasthttp.RequestCtx) {
	if !h.activityEnabled(ctx) {
		return
	}
	c, cancel := activityContext()
	defer cancel()
	counts, err := h.activity.Counts(c)
	if err != nil {
		log.Errorf("Failed to count activity: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to read activity")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"counts": counts})
}

func (h *Handler) activityEnabled(ctx *fasthttp.RequestCtx) bool {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	if h.activity == nil {
		writeError(ctx, fasthttp.StatusNotFound, "Activity feed is disabled")
		return false
	}
	return true
}

// activityContext bounds feed queries independently of the connection.
func activityContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), activityTimeout)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
