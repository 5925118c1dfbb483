// Package worker runs batch analyses submitted over the event bus.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// GlobalTenant is subscribed when no tenant list is configured. Batches of
// every tenant are then routed through it; the payload keeps the real tenant.
const GlobalTenant = "_global"

// ErrTenantNotServed is returned by Worker.Submit when no subscription of
// the worker would receive the batch.
var ErrTenantNotServed = errors.New("worker: tenant not served")

// Analyzer is the part of the analysis pipeline the worker drives.
type Analyzer interface {
	Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.Analysis, error)
}

// Worker consumes TopicBatchSubmitted, analyzes each batch, persists the
// result and publishes its summary to the completed or refused topic.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	analyzer Analyzer
	logger   *slog.Logger

	mu            sync.Mutex
	subscriptions []domain.Subscription
	global        bool
	tenants       map[string]struct{}
	ctx           context.Context
	cancel        context.CancelFunc

	processed atomic.Int64
	failed    atomic.Int64
}

// Config holds worker configuration.
type Config struct {
	// TenantIDs to subscribe for; empty subscribes GlobalTenant only.
	TenantIDs []string
}

// New creates a worker. repo may be nil, in which case results are only
// published.
func New(bus domain.EventBus, repo domain.Repository, analyzer Analyzer, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the submission topic for each configured tenant.
// A tenant that fails to subscribe is logged and skipped.
func (w *Worker) Start(cfg Config) error {
	tenants := cfg.TenantIDs
	if len(tenants) == 0 {
		tenants = []string{GlobalTenant}
	}

	served := make(map[string]struct{}, len(tenants))
	for _, tenantID := range tenants {
		sub, err := w.bus.Subscribe(w.ctx, tenantID, domain.TopicBatchSubmitted, w.handle)
		if err != nil {
			w.logger.Error("failed to start worker for tenant",
				"tenant_id", tenantID,
				"error", err,
			)
			continue
		}
		served[tenantID] = struct{}{}
		w.mu.Lock()
		w.subscriptions = append(w.subscriptions, sub)
		w.mu.Unlock()
	}
	if len(served) == 0 {
		return fmt.Errorf("worker: no subscriptions started")
	}

	_, global := served[GlobalTenant]
	w.mu.Lock()
	w.global = global
	w.tenants = served
	w.mu.Unlock()

	w.logger.Info("workers started",
		"tenant_count", len(served),
		"global", global,
		"topic", domain.TopicBatchSubmitted,
	)
	return nil
}

// handle analyzes one submitted batch. The tenant in the payload wins over
// the subscription tenant, which is GlobalTenant for routed batches.
func (w *Worker) handle(ctx context.Context, msg *domain.Message) error {
	start := time.Now()

	var req domain.AnalysisRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		w.failed.Add(1)
		w.logger.Error("failed to parse batch message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}
	if req.TenantID == "" {
		req.TenantID = msg.TenantID
	}

	analysis, err := w.analyzer.Analyze(ctx, &req)
	if err != nil {
		w.failed.Add(1)
		w.logger.Error("batch analysis failed",
			"message_id", msg.ID,
			"reference", req.Reference,
			"error", err,
		)
		return err
	}

	if w.repo != nil && !analysis.Metadata.Cached {
		if err := w.repo.SaveAnalysis(ctx, analysis.TenantID, analysis); err != nil {
			w.logger.Error("failed to save analysis",
				"analysis_id", analysis.ID,
				"error", err,
			)
		}
	}

	summary, err := json.Marshal(analysis.Summary())
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("encode summary: %w", err)
	}

	topic := domain.OutcomeTopic(analysis.Status)
	if err := w.bus.Publish(ctx, analysis.TenantID, topic, summary); err != nil {
		w.logger.Error("failed to publish analysis",
			"analysis_id", analysis.ID,
			"topic", topic,
			"error", err,
		)
	}
	if err := w.bus.Respond(ctx, msg, summary); err != nil {
		w.logger.Error("failed to reply", "analysis_id", analysis.ID, "error", err)
	}

	w.processed.Add(1)
	w.logger.Info("batch analyzed",
		"analysis_id", analysis.ID,
		"tenant_id", analysis.TenantID,
		"reference", analysis.Reference,
		"status", analysis.Status,
		"score", analysis.Risk.Score,
		"cached", analysis.Metadata.Cached,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Submit publishes a batch for asynchronous analysis under its tenant.
// Only a worker subscribed to that tenant receives it; use Worker.Submit
// to reach a worker running in global mode.
func Submit(ctx context.Context, bus domain.EventBus, req *domain.AnalysisRequest) error {
	if req == nil {
		return fmt.Errorf("worker: nil request")
	}
	return publishBatch(ctx, bus, req.TenantID, req)
}

// Route returns the bus tenant a batch of tenantID must be published under
// to reach this worker, and false when the worker does not serve it.
func (w *Worker) Route(tenantID string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscriptions) == 0 {
		return "", false
	}
	if _, ok := w.tenants[tenantID]; ok {
		return tenantID, true
	}
	if w.global {
		return GlobalTenant, true
	}
	return "", false
}

// Submit publishes a batch so that this worker picks it up.
func (w *Worker) Submit(ctx context.Context, req *domain.AnalysisRequest) error {
	if req == nil {
		return fmt.Errorf("worker: nil request")
	}
	route, ok := w.Route(req.TenantID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTenantNotServed, req.TenantID)
	}
	return publishBatch(ctx, w.bus, route, req)
}

func publishBatch(ctx context.Context, bus domain.EventBus, busTenant string, req *domain.AnalysisRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	return bus.Publish(ctx, busTenant, domain.TopicBatchSubmitted, payload)
}

// Stop cancels in-flight handlers and drops every subscription.
func (w *Worker) Stop() error {
	w.cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			w.logger.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil
	w.tenants = nil
	w.global = false

	w.logger.Info("workers stopped")
	return nil
}

// Stats is a point-in-time view of the worker.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
	Processed         int64    `json:"processed"`
	Failed            int64    `json:"failed"`
}

func (w *Worker) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
		Processed:         w.processed.Load(),
		Failed:            w.failed.Load(),
	}
}
