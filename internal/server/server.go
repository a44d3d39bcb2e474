package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"payopt/internal/input"
	"payopt/internal/optimizer"
	"payopt/pkg/constants"
	"payopt/pkg/money"
	"payopt/pkg/output"
	"payopt/pkg/validation"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the allocation API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Allocation API endpoint
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type optimizeRequest struct {
	Orders         json.RawMessage `json:"orders"`
	PaymentMethods json.RawMessage `json:"paymentMethods"`
	PointsMethodID string          `json:"pointsMethodId,omitempty"`
}

type optimizeResponse struct {
	Summary     map[string]money.Amount   `json:"summary"`
	Report      string                    `json:"report"`
	Plans       map[string]optimizer.Plan `json:"plans"`
	Underfunded []string                  `json:"underfunded,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
	Duration    string                    `json:"duration"`
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var payload optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if len(payload.Orders) == 0 {
		h.respondError(w, http.StatusBadRequest, "missing orders")
		return
	}
	if len(payload.PaymentMethods) == 0 {
		h.respondError(w, http.StatusBadRequest, "missing paymentMethods")
		return
	}

	orders, err := input.ParseOrders(payload.Orders)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	methods, err := input.ParsePaymentMethods(payload.PaymentMethods)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings, err := validation.ValidatePaymentMethods(methods)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	warnings = append(warnings, validation.ValidateOrders(orders, methods)...)

	var opts []optimizer.Option
	if payload.PointsMethodID != "" {
		opts = append(opts, optimizer.WithPointsMethodID(payload.PointsMethodID))
	}

	engine, err := optimizer.New(h.logger, orders, methods, opts...)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := engine.Optimize()
	elapsed := time.Since(start)

	response := optimizeResponse{
		Summary:     summary,
		Report:      output.ReportString(summary),
		Plans:       engine.Plans(),
		Underfunded: engine.UnderfundedOrders(),
		Warnings:    warnings,
		Duration:    elapsed.String(),
	}

	h.logger.Info("allocation computed",
		zap.String("op", "server.handleOptimize"),
		zap.Int("orders", len(orders)),
		zap.Int("methods", len(methods)),
		zap.Int("underfunded", len(response.Underfunded)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("allocation request failed",
		zap.String("op", "server.handleOptimize"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
