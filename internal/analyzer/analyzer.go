// Package analyzer runs the full pipeline for one batch: lender detection,
// bank signals, knock-outs, risk score and offers.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/opensource-finance/frictrak/internal/detection"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/signals"
	"github.com/opensource-finance/frictrak/internal/underwriting"
)

// EngineVersion is stamped on every analysis.
const EngineVersion = "frictrak-1.0"

// ErrNilRequest is returned when Analyze is called without a request.
var ErrNilRequest = errors.New("analysis request is required")

var tracer = otel.Tracer("frictrak-analyzer")

// Analyzer turns a transaction batch into an Analysis.
// It is safe for concurrent use.
type Analyzer struct {
	detector *detection.Detector
	scanner  *signals.Scanner
	cache    domain.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache reuses results for identical batches.
func WithCache(c domain.Cache, ttl time.Duration) Option {
	return func(a *Analyzer) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithScanner replaces the default NSF/overdraft/income scanner.
func WithScanner(s *signals.Scanner) Option {
	return func(a *Analyzer) { a.scanner = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an analyzer around a detector.
func New(detector *detection.Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector: detector,
		scanner:  signals.NewDefaultScanner(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDefault creates an analyzer over the default detector.
func NewDefault(opts ...Option) (*Analyzer, error) {
	a := New(nil, opts...)
	d, err := detection.NewDefaultDetector(a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}
	a.detector = d
	return a, nil
}

// Detector returns the underlying detector.
func (a *Analyzer) Detector() *detection.Detector {
	return a.detector
}

// Analyze runs detection and underwriting for one batch. The only errors are
// a nil request and a cancelled context; cache failures are logged.
func (a *Analyzer) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.Analysis, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", req.TenantID),
		attribute.String("analysis.reference", req.Reference),
		attribute.Int("analysis.transactions", len(req.Transactions)),
	)

	fingerprint := Fingerprint(req)
	if cached := a.lookup(ctx, req.TenantID, fingerprint); cached != nil {
		span.SetAttributes(attribute.Bool("analysis.cached", true))
		return cached, nil
	}

	det := a.detector.Detect(req.Transactions)
	detectMs := time.Since(start).Milliseconds()

	underwriteStart := time.Now()
	inputs := a.Inputs(req, det)
	ko := underwriting.EvaluateKnockOuts(inputs)
	risk := underwriting.CalculateRisk(inputs, ko)

	analysis := &domain.Analysis{
		ID:             uuid.New().String(),
		TenantID:       req.TenantID,
		Reference:      req.Reference,
		Status:         status(inputs, ko),
		CreatedAt:      a.now().UTC(),
		Detection:      det,
		Inputs:         inputs,
		KnockOuts:      ko,
		Risk:           risk,
		Offers:         underwriting.BuildOffers(inputs, risk, req.RequestedAmounts),
		Recommendation: underwriting.Recommend(inputs.LenderCount, det.Statistics.EstimatedDebt),
	}

	analysis.Metadata = domain.AnalysisMetadata{
		Fingerprint:   fingerprint,
		DetectMs:      detectMs,
		UnderwriteMs:  time.Since(underwriteStart).Milliseconds(),
		TotalMs:       time.Since(start).Milliseconds(),
		RulesLoaded:   a.detector.Scorer().Engine().RulesCount(),
		EngineVersion: EngineVersion,
	}
	if sc := span.SpanContext(); sc.HasTraceID() {
		analysis.Metadata.TraceID = sc.TraceID().String()
	}

	span.SetAttributes(
		attribute.String("analysis.status", analysis.Status),
		attribute.Int("analysis.risk_score", risk.Score),
		attribute.Int("analysis.lenders", inputs.LenderCount),
	)
	a.store(ctx, req.TenantID, fingerprint, analysis)

	a.logger.Debug("batch analyzed",
		"tenant_id", req.TenantID,
		"reference", req.Reference,
		"status", analysis.Status,
		"risk_score", risk.Score,
		"lenders", inputs.LenderCount,
		"duration_ms", analysis.Metadata.TotalMs,
	)

	return analysis, nil
}

// AnalyzeMany analyzes independent batches concurrently, at most limit at a
// time (limit <= 0 means unbounded). Results keep the order of reqs.
func (a *Analyzer) AnalyzeMany(ctx context.Context, reqs []*domain.AnalysisRequest, limit int) ([]*domain.Analysis, error) {
	out := make([]*domain.Analysis, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := a.Analyze(ctx, req)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Inputs derives the underwriting figures. Values supplied on the request
// win over values scanned from the transactions.
func (a *Analyzer) Inputs(req *domain.AnalysisRequest, det *domain.DetectionResult) domain.UnderwritingInputs {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = req.LatestDate()
	}

	in := domain.UnderwritingInputs{
		TotalPayments: det.Statistics.EstimatedDebt,
		LenderCount:   det.Statistics.LenderCount(),
	}

	if req.MonthlyIncome > 0 {
		in.MonthlyIncome = req.MonthlyIncome
		in.IncomeSource = signals.IncomeDeclared
	} else {
		inc := a.scanner.MonthlyIncome(req.Transactions)
		in.MonthlyIncome = inc.Monthly
		in.IncomeSource = inc.Source
	}

	if req.NSFCount != nil {
		in.NSFCount = *req.NSFCount
	} else {
		in.NSFCount = a.scanner.NSF30(req.Transactions, asOf)
	}

	if req.OverdraftCount != nil {
		in.OverdraftCount = *req.OverdraftCount
	} else {
		in.OverdraftCount = a.scanner.Overdraft90(req.Transactions, asOf)
	}

	return in
}

func status(in domain.UnderwritingInputs, ko domain.KnockOutResult) string {
	switch {
	case ko.HasKnockOuts:
		return domain.StatusRefused
	case in.LenderCount > 0:
		return domain.StatusReview
	default:
		return domain.StatusClear
	}
}

func (a *Analyzer) lookup(ctx context.Context, tenantID, fingerprint string) *domain.Analysis {
	if a.cache == nil {
		return nil
	}
	cached, err := a.cache.GetAnalysis(ctx, tenantID, fingerprint)
	if err != nil {
		a.logger.Warn("analysis cache read failed", "tenant_id", tenantID, "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	hit := *cached
	hit.Metadata.Cached = true
	return &hit
}

func (a *Analyzer) store(ctx context.Context, tenantID, fingerprint string, analysis *domain.Analysis) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SetAnalysis(ctx, tenantID, fingerprint, analysis, a.cacheTTL); err != nil {
		a.logger.Warn("analysis cache write failed", "tenant_id", tenantID, "error", err)
	}
}

// Fingerprint hashes everything that influences an analysis, so identical
// submissions map to the same key.
func Fingerprint(req *domain.AnalysisRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%v\x00%s\n", req.TenantID, req.Reference, req.MonthlyIncome, req.AsOf.UTC().Format(time.RFC3339))
	fmt.Fprintf(h, "nsf=%s od=%s amounts=%v\n", optInt(req.NSFCount), optInt(req.OverdraftCount), req.RequestedAmounts)
	for _, tx := range req.Transactions {
		fmt.Fprintf(h, "%s\x00%s\x00%v\x00%s\n", tx.Date.UTC().Format(time.RFC3339), tx.Description, tx.Amount, tx.Category)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
