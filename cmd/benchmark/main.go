// Benchmark tool for measuring lender detection against labelled descriptions.
//
// Usage:
//
//	go run ./cmd/benchmark -csv labelled.csv -url http://localhost:8080
//
// The CSV needs a header with at least "description" and "is_lender"
// columns; "amount" and "category" are used when present. Each row is sent
// to POST /classify and the returned bucket is compared with the label.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// Sample is one labelled description.
type Sample struct {
	Description string
	Amount      float64
	Category    string
	IsLender    bool
}

type classifyRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

type classifyResponse struct {
	Result domain.ScoreResult `json:"result"`
	Bucket domain.BucketKind  `json:"bucket"`
}

func main() {
	csvPath := flag.String("csv", "", "Path to the labelled CSV file")
	baseURL := flag.String("url", "http://localhost:8080", "frictrak base URL")
	tenantID := flag.String("tenant", "benchmark-test", "Tenant ID for requests")
	limit := flag.Int("limit", 0, "Maximum rows to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	countPossible := flag.Bool("count-possible", false, "Count the possible bucket as a detection")
	verbose := flag.Bool("verbose", false, "Print each row result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv labelled.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║          FRICTRAK BENCHMARK - Lender Detection                ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nCSV File:       %s\n", *csvPath)
	fmt.Printf("URL:            %s\n", *baseURL)
	fmt.Printf("Tenant ID:      %s\n", *tenantID)
	fmt.Printf("Workers:        %d\n", *workers)
	fmt.Printf("Count possible: %v\n", *countPossible)
	fmt.Println()

	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: frictrak not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure the server is running:")
		fmt.Println("  go run ./cmd/frictrak")
		os.Exit(1)
	}
	fmt.Println("✓ frictrak is healthy")

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	samples, err := readSamples(f, *limit)
	f.Close()
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}

	lenders := 0
	for _, s := range samples {
		if s.IsLender {
			lenders++
		}
	}
	fmt.Printf("✓ Loaded %d descriptions (%d lenders, %d other)\n", len(samples), lenders, len(samples)-lenders)

	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	client := &http.Client{Timeout: 10 * time.Second}
	classify := func(s Sample) (*classifyResponse, error) {
		return classifyRemote(client, *baseURL, *tenantID, s)
	}

	start := time.Now()
	metrics := runBenchmark(samples, classify, *workers, *countPossible, *verbose)
	printResults(metrics, time.Since(start))
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// readSamples parses the labelled CSV. Rows without a description are
// skipped; a label of 1, true or yes marks a lender.
func readSamples(r io.Reader, limit int) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int)
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"description", "is_lender"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var samples []Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		desc := field(record, "description")
		if desc == "" {
			continue
		}
		amount, _ := strconv.ParseFloat(field(record, "amount"), 64)
		switch strings.ToLower(field(record, "is_lender")) {
		case "1", "true", "yes":
			samples = append(samples, Sample{Description: desc, Amount: amount, Category: field(record, "category"), IsLender: true})
		default:
			samples = append(samples, Sample{Description: desc, Amount: amount, Category: field(record, "category")})
		}

		if limit > 0 && len(samples) >= limit {
			break
		}
	}
	return samples, nil
}

func runBenchmark(samples []Sample, classify func(Sample) (*classifyResponse, error), numWorkers int, countPossible, verbose bool) *Metrics {
	metrics := &Metrics{}
	if numWorkers < 1 {
		numWorkers = 1
	}

	work := make(chan Sample, 100)
	var wg sync.WaitGroup
	var printMu sync.Mutex

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range work {
				start := time.Now()
				result, err := classify(s)
				atomic.AddInt64(&metrics.ProcessingTimeMs, time.Since(start).Milliseconds())

				if err != nil {
					metrics.recordError()
					if verbose {
						printMu.Lock()
						fmt.Printf("ERROR: %s -> %v\n", s.Description, err)
						printMu.Unlock()
					}
					continue
				}

				predicted := detected(result.Bucket, countPossible)
				metrics.record(predicted, s.IsLender)

				if verbose {
					mark := "✓"
					if predicted != s.IsLender {
						mark = "✗"
					}
					printMu.Lock()
					fmt.Printf("%s %-40.40s | Amount: %10.2f | Lender: %-5v | Bucket: %-9s (%d)\n",
						mark, s.Description, s.Amount, s.IsLender, result.Bucket, result.Result.Score)
					printMu.Unlock()
				}
			}
		}()
	}

	for _, s := range samples {
		work <- s
	}
	close(work)
	wg.Wait()

	return metrics
}

// detected maps a bucket to a positive prediction.
func detected(b domain.BucketKind, countPossible bool) bool {
	switch b {
	case domain.BucketConfirmed, domain.BucketProbable:
		return true
	case domain.BucketPossible:
		return countPossible
	}
	return false
}

func classifyRemote(client *http.Client, baseURL, tenantID string, s Sample) (*classifyResponse, error) {
	amount := s.Amount
	if amount == 0 {
		amount = -100
	}
	body, err := json.Marshal(classifyRequest{Description: s.Description, Amount: amount, Category: s.Category})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
