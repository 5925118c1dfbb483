package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/ingest"
	"github.com/opensource-finance/frictrak/internal/report"
	"github.com/opensource-finance/frictrak/internal/repository"
	"github.com/opensource-finance/frictrak/internal/rules"
	"github.com/opensource-finance/frictrak/internal/worker"
)

// MaxBodyBytes caps request bodies; statements larger than this are
// rejected before parsing.
const MaxBodyBytes = 10 << 20

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	bus      domain.EventBus
	analyzer *analyzer.Analyzer
	worker   *worker.Worker
	version  string
	logger   *slog.Logger
}

// NewHandler creates the handler set. repo, cache and bus may be nil; the
// routes that need them then answer 503.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, an *analyzer.Analyzer, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:     repo,
		cache:    cache,
		bus:      bus,
		analyzer: an,
		version:  version,
		logger:   logger,
	}
}

// AcceptedResponse is returned for asynchronous submissions.
type AcceptedResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Topic     string `json:"topic"`
}

// Analyze handles POST /analyze with a canonical AnalysisRequest body.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}
	h.run(w, r, &req, nil)
}

// AnalyzeStatement handles POST /analyze/statement: a raw bank-data export
// (flat JSON, Inverite-style accounts, extracted tables, or OFX/QFX when the
// Content-Type says so or ?type=ofx).
func (h *Handler) AnalyzeStatement(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var stmt *ingest.Statement
	if isOFX(r) {
		stmt, err = ingest.ParseOFX(bytes.NewReader(body))
	} else {
		stmt, err = ingest.ParseJSON(bytes.NewReader(body))
	}
	if err != nil {
		h.logger.Warn("statement rejected", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	req := stmt.Request(GetTenantID(r.Context()))
	if ref := r.URL.Query().Get("reference"); ref != "" {
		req.Reference = ref
	}
	h.run(w, r, req, &stmt.Client)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, req *domain.AnalysisRequest, client *ingest.Client) {
	ctx := r.Context()
	req.TenantID = GetTenantID(ctx)

	if r.URL.Query().Get("async") == "true" {
		if h.worker == nil {
			writeError(w, http.StatusServiceUnavailable, "async analysis not available")
			return
		}
		if err := h.worker.Submit(ctx, req); err != nil {
			if errors.Is(err, worker.ErrTenantNotServed) {
				writeError(w, http.StatusServiceUnavailable, "no async worker serves this tenant")
				return
			}
			h.logger.Error("failed to submit batch", "error", err, "reference", req.Reference)
			writeError(w, http.StatusInternalServerError, "failed to submit batch")
			return
		}
		writeJSON(w, http.StatusAccepted, AcceptedResponse{
			Status:    "accepted",
			Reference: req.Reference,
			Topic:     domain.TopicBatchSubmitted,
		})
		return
	}

	analysis, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		h.logger.Error("analysis failed", "error", err, "reference", req.Reference)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if h.repo != nil && !analysis.Metadata.Cached {
		if err := h.repo.SaveAnalysis(ctx, analysis.TenantID, analysis); err != nil {
			h.logger.Error("failed to save analysis", "analysis_id", analysis.ID, "error", err)
		}
	}

	h.respondAnalysis(w, r, analysis, client)
}

func (h *Handler) respondAnalysis(w http.ResponseWriter, r *http.Request, a *domain.Analysis, client *ingest.Client) {
	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = report.Write(w, a, report.Options{Source: a.Reference, Client: client, Style: report.Plain()})
	case "summary":
		writeJSON(w, http.StatusOK, a.Summary())
	default:
		writeJSON(w, http.StatusOK, a)
	}
}

// ClassifyRequest is the body of POST /classify and POST /score.
type ClassifyRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category,omitempty"`
	History     []string `json:"history,omitempty"`
}

// ClassifyResponse pairs the registry lookup with the full pipeline score.
type ClassifyResponse struct {
	Description    string                `json:"description"`
	Classification domain.Classification `json:"classification"`
	Result         domain.ScoreResult    `json:"result"`
	Bucket         domain.BucketKind     `json:"bucket,omitempty"`
}

// Classify runs one description through exclusion, registry and heuristics.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeClassify(w, r)
	if !ok {
		return
	}
	det := h.analyzer.Detector()
	res := det.Score(req.Description, req.Amount, req.Category, historyOf(req.History))
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Description:    req.Description,
		Classification: det.Registry().Classify(req.Description),
		Result:         res,
		Bucket:         domain.BucketFor(res),
	})
}

// Score returns the heuristic rule explanation only, bypassing the
// registry and the exclusion filter.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeClassify(w, r)
	if !ok {
		return
	}
	exp := h.analyzer.Detector().Scorer().Explain(req.Description, req.Amount, historyOf(req.History))
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) decodeClassify(w http.ResponseWriter, r *http.Request) (*ClassifyRequest, bool) {
	var req ClassifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return nil, false
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return nil, false
	}
	return &req, true
}

func historyOf(descriptions []string) *rules.History {
	if len(descriptions) == 0 {
		return nil
	}
	return rules.NewHistory(descriptions)
}

// ListLenders returns every known lender name and the list sizes.
func (h *Handler) ListLenders(w http.ResponseWriter, r *http.Request) {
	reg := h.analyzer.Detector().Registry()
	lenders := reg.Lenders()
	writeJSON(w, http.StatusOK, map[string]any{
		"lenders": lenders,
		"count":   len(lenders),
		"stats":   reg.Stats(),
	})
}

// ListRules returns the compiled heuristic rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	loaded := h.analyzer.Detector().Scorer().Engine().GetLoadedRules()
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": loaded,
		"count": len(loaded),
	})
}

// GetAnalysis returns a stored analysis; ?format=text renders the report.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	a, err := h.repo.GetAnalysis(ctx, GetTenantID(ctx), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	case err != nil:
		h.logger.Error("failed to get analysis", "analysis_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get analysis")
		return
	}
	h.respondAnalysis(w, r, a, nil)
}

// ListAnalyses returns stored summaries, newest first.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	ctx := r.Context()
	q := r.URL.Query()

	items, err := h.repo.ListAnalyses(ctx, GetTenantID(ctx), q.Get("reference"), queryInt(q.Get("limit")))
	if err != nil {
		h.logger.Error("failed to list analyses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if items == nil {
		items = []*domain.AnalysisSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analyses": items,
		"count":    len(items),
	})
}

// Exposure returns the lenders seen most often across the tenant's analyses.
func (h *Handler) Exposure(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	ctx := r.Context()

	top, err := h.repo.TopLenders(ctx, GetTenantID(ctx), queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.Error("failed to aggregate lenders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to aggregate lenders")
		return
	}
	if top == nil {
		top = []*domain.LenderExposure{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lenders": top,
		"count":   len(top),
	})
}

// Health reports degraded when a backing store fails its ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	status := "healthy"

	check := func(name string, ping func() error) {
		if err := ping(); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			return
		}
		checks[name] = "ok"
	}
	if h.repo != nil {
		check("repository", func() error { return h.repo.Ping(ctx) })
	}
	if h.cache != nil {
		check("cache", func() error { return h.cache.Ping(ctx) })
	}
	if h.bus != nil {
		check("bus", func() error { return h.bus.Ping(ctx) })
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": h.version,
		"checks":  checks,
	})
}

// Ready is true once the rule table is loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	n := h.analyzer.Detector().Scorer().Engine().RulesCount()
	if n == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ready": true, "rules": n})
}

func (h *Handler) requireRepo(w http.ResponseWriter) bool {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "repository not available")
		return false
	}
	return true
}

func isOFX(r *http.Request) bool {
	if t := r.URL.Query().Get("type"); t != "" {
		return t == "ofx" || t == "qfx"
	}
	ct := r.Header.Get("Content-Type")
	return strings.Contains(ct, "ofx") || strings.Contains(ct, "qfx")
}

func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
