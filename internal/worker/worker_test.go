package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/bus"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/repository"
)

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func lenderBatch(tenantID, ref string, income float64) *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		TenantID:      tenantID,
		Reference:     ref,
		MonthlyIncome: income,
		Transactions: []domain.Transaction{
			{Date: day(1), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(15), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(3), Description: "SALAIRE EMPLOYEUR ABC", Amount: 3000},
			{Date: day(8), Description: "DOLLARAMA 443", Amount: -12},
		},
	}
}

func refusedBatch(tenantID string) *domain.AnalysisRequest {
	nsf := 3
	req := lenderBatch(tenantID, "client-nsf", 10000)
	req.NSFCount = &nsf
	return req
}

func newAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	a, err := analyzer.NewDefault()
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	return a
}

func waitSummary(t *testing.T, ch <-chan *domain.AnalysisSummary) *domain.AnalysisSummary {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for analysis summary")
		return nil
	}
}

func subscribeSummaries(t *testing.T, b domain.EventBus, tenantID, topic string) <-chan *domain.AnalysisSummary {
	t.Helper()
	ch := make(chan *domain.AnalysisSummary, 4)
	_, err := b.Subscribe(context.Background(), tenantID, topic, func(_ context.Context, msg *domain.Message) error {
		var s domain.AnalysisSummary
		if err := json.Unmarshal(msg.Payload, &s); err != nil {
			return err
		}
		ch <- &s
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	return ch
}

func TestWorker(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	an := newAnalyzer(t)
	ctx := context.Background()

	t.Run("StartAndStop", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-001"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		stats := w.GetStats()
		if stats.SubscriptionCount != 1 {
			t.Errorf("expected 1 subscription, got %d", stats.SubscriptionCount)
		}
		if stats.Topics[0] != domain.TopicBatchSubmitted {
			t.Errorf("unexpected topic %q", stats.Topics[0])
		}

		if err := w.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
		if stats := w.GetStats(); stats.SubscriptionCount != 0 {
			t.Errorf("expected 0 subscriptions after stop, got %d", stats.SubscriptionCount)
		}
	})

	t.Run("GlobalTenantDefault", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		if stats := w.GetStats(); stats.SubscriptionCount != 1 {
			t.Errorf("expected global subscription, got %d", stats.SubscriptionCount)
		}
	})

	t.Run("CompletedAndSaved", func(t *testing.T) {
		repo, err := repository.New(domain.RepositoryConfig{Driver: "sqlite", SQLitePath: repository.MemoryPath})
		if err != nil {
			t.Fatalf("repository.New failed: %v", err)
		}
		defer repo.Close()

		w := New(eventBus, repo, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-ok"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		completed := subscribeSummaries(t, eventBus, "tenant-ok", domain.TopicAnalysisCompleted)

		if err := Submit(ctx, eventBus, lenderBatch("tenant-ok", "client-1", 10000)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		s := waitSummary(t, completed)
		if s.Reference != "client-1" || s.TenantID != "tenant-ok" {
			t.Errorf("unexpected summary: %+v", s)
		}
		if s.Status != domain.StatusReview {
			t.Errorf("expected %s, got %s", domain.StatusReview, s.Status)
		}
		if s.LenderCount != 1 {
			t.Errorf("expected 1 lender, got %d", s.LenderCount)
		}

		stored, err := repo.GetAnalysis(ctx, "tenant-ok", s.AnalysisID)
		if err != nil {
			t.Fatalf("GetAnalysis failed: %v", err)
		}
		if stored.Reference != "client-1" {
			t.Errorf("expected stored reference client-1, got %s", stored.Reference)
		}
		if got := w.GetStats().Processed; got != 1 {
			t.Errorf("expected 1 processed, got %d", got)
		}
	})

	t.Run("RefusedTopic", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-ko"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		refused := subscribeSummaries(t, eventBus, "tenant-ko", domain.TopicAnalysisRefused)
		if err := Submit(ctx, eventBus, refusedBatch("tenant-ko")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		s := waitSummary(t, refused)
		if s.Status != domain.StatusRefused {
			t.Errorf("expected %s, got %s", domain.StatusRefused, s.Status)
		}
		if s.RiskScore != 0 || len(s.Reasons) == 0 {
			t.Errorf("expected knock-out summary, got %+v", s)
		}
	})

	t.Run("RequestReply", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-rr"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		payload, _ := json.Marshal(lenderBatch("tenant-rr", "client-rr", 10000))
		reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		reply, err := eventBus.Request(reqCtx, "tenant-rr", domain.TopicBatchSubmitted, payload)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		var s domain.AnalysisSummary
		if err := json.Unmarshal(reply, &s); err != nil {
			t.Fatalf("bad reply: %v", err)
		}
		if s.Reference != "client-rr" {
			t.Errorf("expected client-rr, got %s", s.Reference)
		}
	})

	t.Run("TenantFromSubscription", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-implicit"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		completed := subscribeSummaries(t, eventBus, "tenant-implicit", domain.TopicAnalysisCompleted)

		req := lenderBatch("", "client-2", 10000)
		payload, _ := json.Marshal(req)
		if err := eventBus.Publish(ctx, "tenant-implicit", domain.TopicBatchSubmitted, payload); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		if s := waitSummary(t, completed); s.TenantID != "tenant-implicit" {
			t.Errorf("expected message tenant, got %q", s.TenantID)
		}
	})

	t.Run("MultiTenant", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-a", "tenant-b"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		if stats := w.GetStats(); stats.SubscriptionCount != 2 {
			t.Errorf("expected 2 subscriptions for 2 tenants, got %d", stats.SubscriptionCount)
		}
	})
}

func TestWorkerRouting(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()
	an := newAnalyzer(t)
	ctx := context.Background()

	t.Run("NotStarted", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if _, ok := w.Route("acme"); ok {
			t.Error("a worker without subscriptions serves no tenant")
		}
		if err := w.Submit(ctx, lenderBatch("acme", "c", 10000)); !errors.Is(err, ErrTenantNotServed) {
			t.Errorf("expected ErrTenantNotServed, got %v", err)
		}
	})

	t.Run("TenantList", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{TenantIDs: []string{"tenant-a"}}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		if route, ok := w.Route("tenant-a"); !ok || route != "tenant-a" {
			t.Errorf("expected tenant-a route, got %q %v", route, ok)
		}
		if _, ok := w.Route("tenant-b"); ok {
			t.Error("tenant-b is not served")
		}
	})

	t.Run("GlobalServesAnyTenant", func(t *testing.T) {
		repo, err := repository.New(domain.RepositoryConfig{Driver: "sqlite", SQLitePath: repository.MemoryPath})
		if err != nil {
			t.Fatalf("repository.New failed: %v", err)
		}
		defer repo.Close()

		w := New(eventBus, repo, an, nil)
		if err := w.Start(Config{}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer w.Stop()

		if route, ok := w.Route("acme"); !ok || route != GlobalTenant {
			t.Fatalf("expected global route, got %q %v", route, ok)
		}

		completed := subscribeSummaries(t, eventBus, "acme", domain.TopicAnalysisCompleted)
		if err := w.Submit(ctx, lenderBatch("acme", "client-acme", 10000)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		s := waitSummary(t, completed)
		if s.TenantID != "acme" {
			t.Errorf("expected tenant acme, got %q", s.TenantID)
		}
		if _, err := repo.GetAnalysis(ctx, "acme", s.AnalysisID); err != nil {
			t.Errorf("analysis not stored under acme: %v", err)
		}
	})

	t.Run("StopClearsRoutes", func(t *testing.T) {
		w := New(eventBus, nil, an, nil)
		if err := w.Start(Config{}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		_ = w.Stop()
		if _, ok := w.Route("acme"); ok {
			t.Error("stopped worker must not accept batches")
		}
	})
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, *domain.AnalysisRequest) (*domain.Analysis, error) {
	return nil, errors.New("boom")
}

func TestWorkerFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("BadPayload", func(t *testing.T) {
		w := New(bus.NewChannelBus(10), nil, newAnalyzer(t), nil)
		err := w.handle(ctx, &domain.Message{ID: "m1", TenantID: "t", Payload: []byte("{")})
		if err == nil {
			t.Error("expected parse error")
		}
		if got := w.GetStats().Failed; got != 1 {
			t.Errorf("expected 1 failure, got %d", got)
		}
	})

	t.Run("AnalyzerError", func(t *testing.T) {
		w := New(bus.NewChannelBus(10), nil, failingAnalyzer{}, nil)
		payload, _ := json.Marshal(lenderBatch("t", "c", 0))
		if err := w.handle(ctx, &domain.Message{ID: "m2", TenantID: "t", Payload: payload}); err == nil {
			t.Error("expected analyzer error")
		}
		if got := w.GetStats().Failed; got != 1 {
			t.Errorf("expected 1 failure, got %d", got)
		}
	})

	t.Run("StartOnClosedBus", func(t *testing.T) {
		b := bus.NewChannelBus(10)
		_ = b.Close()
		if err := New(b, nil, newAnalyzer(t), nil).Start(Config{TenantIDs: []string{"t"}}); err == nil {
			t.Error("expected error when no subscription starts")
		}
	})

	t.Run("SubmitNil", func(t *testing.T) {
		if err := Submit(ctx, bus.NewChannelBus(10), nil); err == nil {
			t.Error("expected error for nil request")
		}
	})
}
