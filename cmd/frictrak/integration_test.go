//go:build integration

// End-to-end scenarios against a running frictrak server.
//
// Run with: FRICTRAK_TEST_URL=http://localhost:8080 go test -tags=integration ./cmd/frictrak/...
//
// Scenarios:
//
//	| Batch                         | Expected status | Why                                  |
//	|-------------------------------|-----------------|--------------------------------------|
//	| payroll + groceries           | CLEAR           | no lender payment                    |
//	| MONEY MART x2, income 10000   | REVIEW          | one registry lender, capacity intact |
//	| same batch with 3 NSF         | REFUSED         | repeated NSF knock-out               |
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

type testConfig struct {
	BaseURL  string
	TenantID string
}

func getTestConfig() testConfig {
	baseURL := os.Getenv("FRICTRAK_TEST_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return testConfig{BaseURL: baseURL, TenantID: "integration-tenant"}
}

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func lenderBatch(ref string) *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		Reference:     ref,
		MonthlyIncome: 10000,
		Transactions: []domain.Transaction{
			{Date: day(1), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(15), Description: "MONEY MART MONTREAL", Amount: -300},
			{Date: day(3), Description: "SALAIRE EMPLOYEUR ABC", Amount: 3000},
			{Date: day(8), Description: "DOLLARAMA 443", Amount: -12},
		},
	}
}

func call(t *testing.T, cfg testConfig, method, path string, body any, wantStatus int) []byte {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, cfg.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", cfg.TenantID)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, wantStatus, resp.StatusCode, respBody)
	}
	return respBody
}

func analyze(t *testing.T, cfg testConfig, req *domain.AnalysisRequest) *domain.Analysis {
	t.Helper()
	var a domain.Analysis
	if err := json.Unmarshal(call(t, cfg, http.MethodPost, "/analyze", req, http.StatusOK), &a); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	return &a
}

func TestClearBatch(t *testing.T) {
	cfg := getTestConfig()

	a := analyze(t, cfg, &domain.AnalysisRequest{
		Reference: "integration-clear",
		Transactions: []domain.Transaction{
			{Date: day(1), Description: "SALAIRE EMPLOYEUR ABC", Amount: 3000},
			{Date: day(2), Description: "DOLLARAMA 443", Amount: -12},
		},
	})

	if a.Status != domain.StatusClear {
		t.Errorf("expected %s, got %s", domain.StatusClear, a.Status)
	}
	if a.Risk.Score != 100 {
		t.Errorf("expected score 100, got %d", a.Risk.Score)
	}
	t.Logf("clear batch: status=%s score=%d", a.Status, a.Risk.Score)
}

func TestLenderBatchReview(t *testing.T) {
	cfg := getTestConfig()

	a := analyze(t, cfg, lenderBatch("integration-review"))

	if a.Status != domain.StatusReview {
		t.Errorf("expected %s, got %s", domain.StatusReview, a.Status)
	}
	if len(a.Detection.Confirmed) != 1 || a.Detection.Confirmed[0].Name != "MONEY MART" {
		t.Errorf("expected MONEY MART confirmed, got %+v", a.Detection.Confirmed)
	}
	if len(a.Offers) == 0 {
		t.Error("expected loan offers for a reviewable batch")
	}

	var stored domain.Analysis
	body := call(t, cfg, http.MethodGet, "/analyses/"+a.ID, nil, http.StatusOK)
	if err := json.Unmarshal(body, &stored); err != nil {
		t.Fatalf("failed to decode stored analysis: %v", err)
	}
	if stored.Reference != "integration-review" {
		t.Errorf("expected stored reference integration-review, got %s", stored.Reference)
	}
}

func TestRepeatedNSFRefused(t *testing.T) {
	cfg := getTestConfig()

	nsf := 3
	req := lenderBatch("integration-nsf")
	req.NSFCount = &nsf
	a := analyze(t, cfg, req)

	if a.Status != domain.StatusRefused {
		t.Errorf("expected %s, got %s", domain.StatusRefused, a.Status)
	}
	if !a.KnockOuts.HasKnockOuts || a.KnockOuts.KnockOuts[0].Type != domain.KnockOutRepeatedNSF {
		t.Errorf("expected repeated NSF knock-out, got %+v", a.KnockOuts)
	}
	if a.Risk.Score != 0 || len(a.Offers) != 0 {
		t.Errorf("refused batch must score 0 with no offers, got score=%d offers=%d", a.Risk.Score, len(a.Offers))
	}
}

func TestResubmissionServedFromCache(t *testing.T) {
	cfg := getTestConfig()
	ref := fmt.Sprintf("integration-cache-%d", time.Now().UnixNano())

	first := analyze(t, cfg, lenderBatch(ref))
	second := analyze(t, cfg, lenderBatch(ref))

	if !second.Metadata.Cached || second.ID != first.ID {
		t.Errorf("expected cached resubmission of %s, got id=%s cached=%v", first.ID, second.ID, second.Metadata.Cached)
	}
}

func TestStatementUpload(t *testing.T) {
	cfg := getTestConfig()

	statement := map[string]any{
		"name": "Jane Roe",
		"transactions": []map[string]string{
			{"date": "2025-03-02", "description": "MONEY MART MONTREAL", "amount": "-300"},
			{"date": "2025-03-04", "description": "SALAIRE EMPLOYEUR ABC", "amount": "3000"},
		},
	}
	body := call(t, cfg, http.MethodPost, "/analyze/statement?reference=integration-upload", statement, http.StatusOK)

	var a domain.Analysis
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	if a.Reference != "integration-upload" {
		t.Errorf("expected reference override, got %s", a.Reference)
	}
	if a.Inputs.LenderCount != 1 {
		t.Errorf("expected 1 lender, got %d", a.Inputs.LenderCount)
	}

	call(t, cfg, http.MethodPost, "/analyze/statement", map[string]any{"transactions": []any{}}, http.StatusUnprocessableEntity)
}

func TestClassifyEndpoint(t *testing.T) {
	cfg := getTestConfig()

	body := call(t, cfg, http.MethodPost, "/classify", map[string]any{
		"description": "PMT CREDIT SERVICE 123",
		"amount":      -500,
	}, http.StatusOK)

	var resp struct {
		Result domain.ScoreResult `json:"result"`
		Bucket domain.BucketKind  `json:"bucket"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode classify response: %v", err)
	}
	if resp.Result.Score < 40 {
		t.Errorf("expected heuristic lender score, got %d (%v)", resp.Result.Score, resp.Result.Reasons)
	}
	t.Logf("classify: bucket=%s score=%d", resp.Bucket, resp.Result.Score)
}

func TestHealth(t *testing.T) {
	cfg := getTestConfig()
	call(t, cfg, http.MethodGet, "/health", nil, http.StatusOK)
	call(t, cfg, http.MethodGet, "/ready", nil, http.StatusOK)
}
