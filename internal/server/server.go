// Package server exposes the planner and the farm state over a small HTTP
// API, so a UI can recompute plans speculatively without touching the CLI.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iwvelando/stock-planner/internal/catalog"
	"github.com/iwvelando/stock-planner/internal/planner"
	"github.com/iwvelando/stock-planner/internal/storage"
	"github.com/iwvelando/stock-planner/pkg/adapters"
	"github.com/iwvelando/stock-planner/pkg/constants"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger         *zap.Logger
	store          *storage.Store
	catalog        *catalog.Catalog
	locale         string
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the web page and the
// planning API.
func NewHandler(logger *zap.Logger, store *storage.Store, cat *catalog.Catalog, locale string, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}
	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		store:          store,
		catalog:        cat,
		locale:         locale,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}

	mux := http.NewServeMux()

	// Stateless optimization for UI-driven recomputation
	mux.HandleFunc("/api/plan", h.handlePlan)

	// Active farm stock with catalog names and totals
	mux.HandleFunc("/api/stock", h.handleStock)

	// Optimize the active farm's stock and persist the result
	mux.HandleFunc("/api/farm/plan", h.handleFarmPlan)

	// Farm state export for backups
	mux.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type planRequest struct {
	Entries []storage.StockRecord `json:"entries"`
	Target  float64               `json:"target"`
}

type planResponse struct {
	Plan     *storage.PlanRecord `json:"plan"`
	Duration string              `json:"duration"`
}

type stockResponse struct {
	FarmID   string              `json:"farmId"`
	FarmName string              `json:"farmName"`
	Stock    []stockItem         `json:"stock"`
	Totals   stockTotals         `json:"totals"`
	LastPlan *storage.PlanRecord `json:"lastPlan,omitempty"`
}

type stockItem struct {
	storage.StockRecord
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type stockTotals struct {
	Value float64 `json:"value"`
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	plan, err := planner.Optimize(adapters.StockToPlannerEntries(req.Entries), decimal.NewFromFloat(req.Target))
	if err != nil {
		if errors.Is(err, planner.ErrInvalidTarget) {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.logger.Debug("computed stateless plan",
		zap.String("op", "server.handlePlan"),
		zap.Int("entries", len(req.Entries)),
		zap.Float64("target", req.Target),
		zap.Bool("targetMet", plan.TargetMet),
		zap.Int("totalTrips", plan.TotalTrips),
	)

	h.writeJSON(w, planResponse{
		Plan:     adapters.PlanToRecord(plan),
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	farm := h.store.ActiveFarm()
	resp := stockResponse{
		FarmID:   h.store.ActiveFarmID(),
		FarmName: farm.Name,
		LastPlan: farm.LastPlan,
	}
	for _, rec := range farm.Stock {
		value := planner.RevenueFor(rec.QuantityLiters, decimal.NewFromFloat(rec.MaxPricePerThousand)).InexactFloat64()
		resp.Stock = append(resp.Stock, stockItem{
			StockRecord: rec,
			Name:        h.catalog.Name(rec.ProductID, h.locale),
			Value:       value,
		})
		resp.Totals.Value += value
	}

	h.writeJSON(w, resp)
}

func (h *handler) handleFarmPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid target: %w", err))
		return
	}

	farm := h.store.ActiveFarm()
	plan, err := planner.Optimize(adapters.StockToPlannerEntries(farm.Stock), decimal.NewFromFloat(target))
	if err != nil {
		if errors.Is(err, planner.ErrInvalidTarget) {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	record := adapters.PlanToRecord(plan)
	if err := h.store.SetLastPlan(record); err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to persist plan: %w", err))
		return
	}

	h.logger.Info("computed farm plan",
		zap.String("op", "server.handleFarmPlan"),
		zap.String("farmId", h.store.ActiveFarmID()),
		zap.Float64("target", target),
		zap.Bool("targetMet", plan.TargetMet),
		zap.Int("totalTrips", plan.TotalTrips),
	)

	h.writeJSON(w, planResponse{Plan: record})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	farms, current := h.store.Export()
	payload := map[string]interface{}{
		"currentFarmId": current,
		"farms":         farms,
	}

	out, err := yaml.Marshal(payload)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to serialize state: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="stock-planner-state.yaml"`)
	_, _ = w.Write(out)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, map[string]string{"version": h.version})
}

func (h *handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to write response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
