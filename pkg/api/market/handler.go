// Package market serves price histories and the input preset catalogue.
package market

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"intrinsic_valuation/pkg/api/middleware"
	"intrinsic_valuation/pkg/api/respond"
	"intrinsic_valuation/pkg/core/marketdata"
	"intrinsic_valuation/pkg/core/store"
)

// HistoryResponse wraps a closing-price series.
type HistoryResponse struct {
	Ticker  string    `json:"ticker"`
	History []float64 `json:"history"`
}

// Handler holds dependencies for the market endpoints.
type Handler struct {
	Prices  marketdata.Provider
	Presets store.Repository
	Log     *zap.Logger
}

func NewHandler(prices marketdata.Provider, presets store.Repository, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Prices: prices, Presets: presets, Log: log.Named("market")}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("GET /api/tickers", h.HandleSearch)
	mux.HandleFunc("GET /api/tickers/{ticker}/inputs", h.HandleInputs)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ticker")
	ticker, err := marketdata.NormalizeTicker(raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "ticker is required")
		return
	}

	closes, err := h.Prices.History(r.Context(), ticker)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, HistoryResponse{Ticker: ticker, History: closes})
}

// HandleSearch answers ?query=PREFIX[&limit=N] with at most 20 matches.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	matches, err := h.Presets.Search(r.Context(), q.Get("query"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, matches)
}

func (h *Handler) HandleInputs(w http.ResponseWriter, r *http.Request) {
	p, err := h.Presets.Get(r.Context(), r.PathValue("ticker"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, p.Inputs)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, marketdata.ErrInvalidTicker):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, marketdata.ErrNotFound), errors.Is(err, store.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		h.Log.Error("market request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
		)
		respond.Error(w, http.StatusBadGateway, "upstream failure")
	}
}
