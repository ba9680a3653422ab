// Package router assembles the HTTP API.
package router

import (
	"net/http"

	"go.uber.org/zap"

	"intrinsic_valuation/pkg/api/market"
	"intrinsic_valuation/pkg/api/middleware"
	"intrinsic_valuation/pkg/api/respond"
	"intrinsic_valuation/pkg/api/valuation"
	"intrinsic_valuation/pkg/core/marketdata"
	"intrinsic_valuation/pkg/core/metrics"
	"intrinsic_valuation/pkg/core/store"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Log            *zap.Logger
	Metrics        *metrics.Metrics
	Prices         marketdata.Provider
	Presets        store.Repository
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// New returns the full API: health, metrics, valuation and market routes
// behind CORS, request IDs, access logging and request metrics.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	mux.Handle("GET /metrics", d.Metrics.Handler())

	valuation.NewHandler(d.Log, d.Metrics, d.MaxBodyBytes).Register(mux)
	market.NewHandler(d.Prices, d.Presets, d.Log).Register(mux)

	return middleware.Chain(mux,
		middleware.CORS(d.AllowedOrigins),
		middleware.RequestID,
		middleware.AccessLog(d.Log.Named("http")),
		middleware.Metrics(d.Metrics),
	)
}
