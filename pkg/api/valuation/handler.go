// Package valuation serves the engine over HTTP.
package valuation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/api/middleware"
	"intrinsic_valuation/pkg/api/respond"
	"intrinsic_valuation/pkg/core/metrics"
	"intrinsic_valuation/pkg/core/report"
	"intrinsic_valuation/pkg/core/utils"
	engine "intrinsic_valuation/pkg/core/valuation"
)

const defaultMaxBody = 1 << 20

// DCFResponse is a valuation result tagged with a response ID.
type DCFResponse struct {
	ID string `json:"id"`
	engine.Result
}

// Handler holds dependencies for the valuation endpoints.
type Handler struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics
	MaxBody int64
}

// NewHandler creates a valuation handler. m may be nil.
func NewHandler(log *zap.Logger, m *metrics.Metrics, maxBody int64) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Handler{Log: log.Named("valuation"), Metrics: m, MaxBody: maxBody}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/cost-of-capital", h.HandleCostOfCapital)
	mux.HandleFunc("POST /api/dcf", h.HandleDCF)
	mux.HandleFunc("POST /api/dcf/report", h.HandleReport)
}

func (h *Handler) HandleCostOfCapital(w http.ResponseWriter, r *http.Request) {
	var in engine.CapitalStructureInputs
	if !h.decode(w, r, &in) {
		return
	}

	res, err := engine.EstimateCostOfCapital(in)
	h.record("cost_of_capital", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) HandleDCF(w http.ResponseWriter, r *http.Request) {
	var in engine.Inputs
	if !h.decode(w, r, &in) {
		return
	}

	res, err := engine.Value(in)
	h.record("dcf", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id := uuid.NewString()
	h.Log.Debug("valuation complete",
		zap.String("id", id),
		zap.Float64("value_per_share", res.ValuePerShare),
		zap.String("request_id", middleware.RequestIDFrom(r.Context())),
	)
	respond.JSON(w, http.StatusOK, DCFResponse{ID: id, Result: res})
}

// HandleReport values the posted inputs and returns the report as markdown
// (default) or HTML. The optional title query parameter labels it.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "html" {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q, want markdown or html", format))
		return
	}

	var in engine.Inputs
	if !h.decode(w, r, &in) {
		return
	}

	res, err := engine.Value(in)
	h.record("dcf", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := r.URL.Query().Get("title")
	md, err := report.Markdown(res, report.Options{Title: title, Currency: r.URL.Query().Get("currency")})
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(md))
		return
	}

	page, err := report.HTML(md, title)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, h.MaxBody)
	if err := utils.DecodeStrict(body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("valuation failed", zap.Error(err), zap.String("request_id", middleware.RequestIDFrom(r.Context())))
		respond.Error(w, status, "internal error")
		return
	}
	respond.Error(w, status, err.Error())
}

func (h *Handler) record(operation string, err error) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.RecordValuation(operation, Outcome(err))
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrInvalidAssumption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Outcome is the metrics label for an engine call's result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engine.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, engine.ErrInvalidAssumption):
		return "invalid_assumption"
	default:
		return "error"
	}
}
