// Package api exposes planning runs over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/netstock/planner/pkg/application/dto"
	"github.com/netstock/planner/pkg/application/services/planning"
	"github.com/netstock/planner/pkg/domain/entities"
	"github.com/netstock/planner/pkg/infrastructure/repositories/sqlite"
)

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	Planner  *planning.Planner
	Store    *sqlite.Store // optional, nil disables persistence
	Defaults planning.Options

	mu         sync.Mutex
	lastResult *dto.PlanResult
}

// NewHandler creates a handler around a configured planner. store may be nil.
func NewHandler(planner *planning.Planner, store *sqlite.Store, defaults planning.Options) *Handler {
	return &Handler{
		Planner:  planner,
		Store:    store,
		Defaults: defaults,
	}
}

// RunPlan executes a planning run with the posted options.
func (h *Handler) RunPlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	opts, err := h.buildOptions(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run options", err)
		return
	}

	// One run at a time. The planner mutates order state through its
	// writer, so concurrent runs over the same scenario would interleave.
	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.Planner.Plan(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "planning run failed", err)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveResult(r.Context(), result); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist result", err)
			return
		}
	}
	h.lastResult = result

	writeJSON(w, http.StatusOK, toPlanResponse(result))
}

// GetRequirements returns the requirements of the most recent run. When a
// result store is configured and no run happened in this process, it falls
// back to the latest persisted run.
func (h *Handler) GetRequirements(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	last := h.lastResult
	h.mu.Unlock()

	if last != nil {
		dtos := make([]RequirementDTO, len(last.Requirements))
		for i, req := range last.Requirements {
			dtos[i] = toRequirementDTO(req)
		}
		writeJSON(w, http.StatusOK, dtos)
		return
	}

	if h.Store == nil {
		writeJSON(w, http.StatusOK, []RequirementDTO{})
		return
	}
	runID, err := h.Store.LatestRunID(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no planning run recorded", err)
		return
	}
	reqs, err := h.Store.Requirements(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load requirements", err)
		return
	}
	dtos := make([]RequirementDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toRequirementDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLedger returns the ledger projection of the most recent in-process run.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	last := h.lastResult
	h.mu.Unlock()

	if last == nil {
		writeError(w, http.StatusNotFound, "no planning run recorded", nil)
		return
	}

	facility := r.URL.Query().Get("facility")
	product := r.URL.Query().Get("product")

	dtos := make([]LedgerEventDTO, 0, len(last.Events))
	for _, ev := range last.Events {
		if facility != "" && string(ev.Facility) != facility {
			continue
		}
		if product != "" && string(ev.Product) != product {
			continue
		}
		dtos = append(dtos, toLedgerEventDTO(ev))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) buildOptions(req PlanRequest) (planning.Options, error) {
	opts := h.Defaults
	opts.Facilities = nil
	for _, f := range req.Facilities {
		opts.Facilities = append(opts.Facilities, entities.FacilityID(f))
	}
	if req.FacilityGroup != "" {
		opts.FacilityGroup = req.FacilityGroup
	}
	if req.Product != "" {
		opts.Product = entities.ProductID(req.Product)
	}
	if req.Supplier != "" {
		opts.Supplier = entities.SupplierID(req.Supplier)
	}
	if req.DefaultHorizonDays > 0 {
		opts.DefaultHorizon = time.Duration(req.DefaultHorizonDays) * 24 * time.Hour
	}
	if req.Precision != nil {
		opts.Precision = *req.Precision
	}
	var err error
	if req.InterimRounding != "" {
		if opts.InterimRounding, err = planning.ParseRoundingMode(req.InterimRounding); err != nil {
			return opts, err
		}
	}
	if req.FinalRounding != "" {
		if opts.FinalRounding, err = planning.ParseRoundingMode(req.FinalRounding); err != nil {
			return opts, err
		}
	}
	if req.ForecastPercent != "" {
		pct, err := decimal.NewFromString(req.ForecastPercent)
		if err != nil {
			return opts, err
		}
		opts.ForecastPercent = pct
	}
	if req.DeferredOrders != nil {
		opts.DeferredOrders = *req.DeferredOrders
	}
	if req.Reinitialize != nil {
		opts.Reinitialize = *req.Reinitialize
	}
	return opts, nil
}

func toPlanResponse(result *dto.PlanResult) PlanResponse {
	resp := PlanResponse{
		RunID:         result.RunID,
		StartedAt:     result.StartedAt,
		CompletedAt:   result.CompletedAt,
		LevelsScanned: result.LevelsScanned,
		Requirements:  make([]RequirementDTO, len(result.Requirements)),
		Commitments:   make([]CommitmentDTO, len(result.Commitments)),
		Warnings:      result.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	for i, req := range result.Requirements {
		resp.Requirements[i] = toRequirementDTO(req)
	}
	for i, c := range result.Commitments {
		resp.Commitments[i] = CommitmentDTO{
			OrderID:       c.OrderID,
			OrderLineID:   c.OrderLineID,
			RequirementID: c.RequirementID,
			Quantity:      c.Quantity.String(),
		}
	}
	return resp
}

func toRequirementDTO(req entities.Requirement) RequirementDTO {
	return RequirementDTO{
		ID:           req.ID,
		Product:      string(req.Product),
		FacilityFrom: string(req.FacilityFrom),
		FacilityTo:   string(req.FacilityTo),
		Kind:         req.Kind.String(),
		Quantity:     req.Quantity.String(),
		StartDate:    req.StartDate,
		RequiredBy:   req.RequiredBy,
		Status:       req.Status.String(),
	}
}

func toLedgerEventDTO(ev entities.LedgerEvent) LedgerEventDTO {
	d := LedgerEventDTO{
		Product:  string(ev.Product),
		Facility: string(ev.Facility),
		At:       ev.At,
		Type:     ev.Type.String(),
		Quantity: ev.Quantity.String(),
		Label:    ev.Label,
		Late:     ev.Late,
		Level:    ev.Level,
	}
	if ev.Balance.Valid {
		d.Balance = ev.Balance.Decimal.String()
	}
	return d
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
